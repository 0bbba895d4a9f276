package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/planify-api/internal/models"
)

// SlotPolicy decides whether a placed task uses up free time.
type SlotPolicy string

const (
	// SlotPolicyConsume removes the placed window from the free list.
	SlotPolicyConsume SlotPolicy = "consume"
	// SlotPolicyShared lets several tasks start in the same free slot.
	SlotPolicyShared SlotPolicy = "shared"
)

// ParseSlotPolicy maps configuration values; empty means consume.
func ParseSlotPolicy(raw string) (SlotPolicy, error) {
	switch SlotPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SlotPolicyConsume:
		return SlotPolicyConsume, nil
	case SlotPolicyShared:
		return SlotPolicyShared, nil
	default:
		return "", fmt.Errorf("unknown slot policy %q", raw)
	}
}

var suggestionReasons = map[models.TaskKind]string{
	models.TaskKindFocus:    "Période optimale pour la concentration",
	models.TaskKindMeeting:  "Horaire professionnel idéal",
	models.TaskKindActivity: "Moment parfait pour l'activité physique",
	models.TaskKindWork:     "Créneau productif recommandé",
}

const defaultSuggestionReason = "Créneau disponible adapté"

// SuggestionReason explains a placement for the given kind.
func SuggestionReason(kind models.TaskKind) string {
	if reason, ok := suggestionReasons[kind]; ok {
		return reason
	}
	return defaultSuggestionReason
}

// Assigner places tasks greedily by priority.
type Assigner struct {
	scorer *Scorer
	policy SlotPolicy
}

// NewAssigner wires a scorer with a slot policy.
func NewAssigner(scorer *Scorer, policy SlotPolicy) *Assigner {
	if scorer == nil {
		scorer = NewScorer()
	}
	if policy == "" {
		policy = SlotPolicyConsume
	}
	return &Assigner{scorer: scorer, policy: policy}
}

// Policy reports the active slot policy.
func (a *Assigner) Policy() SlotPolicy {
	return a.policy
}

// Suggest assigns each task to its best slot, highest priority first. Tasks that fit nowhere are dropped.
func (a *Assigner) Suggest(free []models.TimeSlot, tasks []models.Task) []models.Suggestion {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority.Rank() > ordered[j].Priority.Rank()
	})

	available := make([]models.TimeSlot, len(free))
	copy(available, free)

	suggestions := make([]models.Suggestion, 0, len(ordered))
	for _, task := range ordered {
		idx := a.scorer.bestSlotIndex(available, task)
		if idx < 0 {
			continue
		}
		chosen := available[idx]
		placed := models.TimeSlot{Day: chosen.Day, Start: chosen.Start, End: chosen.End}
		if task.DurationMinutes > 0 {
			placed.End = chosen.Start.Add(task.DurationMinutes)
		}
		suggestions = append(suggestions, models.Suggestion{
			TaskType: task.Type,
			Slot:     placed,
			Reason:   SuggestionReason(task.Kind),
		})
		if a.policy == SlotPolicyConsume {
			available = consume(available, idx, placed.End)
		}
	}
	return suggestions
}

// consume keeps the remainder of slot idx after placedEnd, or drops the slot when nothing is left.
func consume(slots []models.TimeSlot, idx int, placedEnd models.Clock) []models.TimeSlot {
	slot := slots[idx]
	if placedEnd < slot.End {
		slots[idx] = models.TimeSlot{Day: slot.Day, Start: placedEnd, End: slot.End}
		return slots
	}
	return append(slots[:idx], slots[idx+1:]...)
}
