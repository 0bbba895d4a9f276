package planner

import (
	"strings"
	"time"

	"github.com/noah-isme/planify-api/internal/models"
)

// Config wires the planner collaborators. Zero values fall back to defaults.
type Config struct {
	Catalog    *Catalog
	Scorer     *Scorer
	SlotPolicy SlotPolicy
	Now        func() time.Time
}

// Planner orchestrates extraction, assignment and calendar assembly for one request at a time.
// It holds no per-request state and is safe for concurrent use.
type Planner struct {
	catalog   *Catalog
	extractor *Extractor
	assigner  *Assigner
	now       func() time.Time
}

// New constructs a planner.
func New(cfg Config) *Planner {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Planner{
		catalog:   catalog,
		extractor: NewExtractor(catalog),
		assigner:  NewAssigner(cfg.Scorer, cfg.SlotPolicy),
		now:       now,
	}
}

// Catalog exposes the task table the planner was built with.
func (p *Planner) Catalog() *Catalog {
	return p.catalog
}

// Policy reports the slot policy in use.
func (p *Planner) Policy() SlotPolicy {
	return p.assigner.Policy()
}

// ExtractTasks parses free text into tasks.
func (p *Planner) ExtractTasks(text string) []models.Task {
	return p.extractor.Extract(text)
}

// Generate builds a schedule. Slots are expected to be validated already.
func (p *Planner) Generate(free []models.TimeSlot, explicit []models.Task, freeText string) models.ScheduleResult {
	tasks := make([]models.Task, 0, len(explicit))
	if strings.TrimSpace(freeText) != "" {
		tasks = append(tasks, p.extractor.Extract(freeText)...)
	}
	for _, task := range explicit {
		tasks = append(tasks, p.catalog.Resolve(task))
	}

	suggestions := make([]models.Suggestion, 0)
	if len(tasks) > 0 {
		suggestions = p.assigner.Suggest(free, tasks)
	}

	return models.ScheduleResult{
		Calendar:    Assemble(free, tasks, suggestions),
		Suggestions: suggestions,
		Tasks:       tasks,
		TotalSlots:  len(free),
		GeneratedAt: p.now().UTC(),
	}
}
