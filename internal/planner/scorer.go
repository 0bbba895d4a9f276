package planner

import (
	"math/rand"
	"sync"
	"time"

	"github.com/noah-isme/planify-api/internal/models"
)

const (
	baseScore     = 50
	rangeBonus    = 30
	morningBonus  = 20
	morningFrom   = 8
	morningTo     = 10
	jitterSpread  = 5
	jitterChoices = 2*jitterSpread + 1
)

// HourRange is an inclusive range of start hours.
type HourRange struct {
	From int
	To   int
}

// Contains reports whether hour lies within the range, bounds included.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.From && hour <= r.To
}

// JitterSource supplies tie-breaking noise. Intn must return a value in [0, n).
type JitterSource interface {
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

// NewJitterSource returns a goroutine-safe source. Seed 0 seeds from the wall clock.
func NewJitterSource(seed int64) JitterSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// ScorerOption customises a Scorer.
type ScorerOption func(*Scorer)

// WithJitter replaces the jitter source.
func WithJitter(src JitterSource) ScorerOption {
	return func(s *Scorer) { s.jitter = src }
}

// WithSeed uses a seeded pseudo random jitter source.
func WithSeed(seed int64) ScorerOption {
	return func(s *Scorer) { s.jitter = NewJitterSource(seed) }
}

// WithoutJitter makes scoring deterministic.
func WithoutJitter() ScorerOption {
	return func(s *Scorer) { s.jitter = nil }
}

// WithRanges overrides the preferred hours of a kind.
func WithRanges(kind models.TaskKind, ranges ...HourRange) ScorerOption {
	return func(s *Scorer) {
		s.ranges[kind] = append([]HourRange(nil), ranges...)
	}
}

// Scorer rates how well a start hour suits a task kind.
type Scorer struct {
	ranges map[models.TaskKind][]HourRange
	jitter JitterSource
}

// NewScorer builds a scorer with the default preferred hours and wall-clock seeded jitter.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		ranges: map[models.TaskKind][]HourRange{
			models.TaskKindFocus:    {{From: 9, To: 11}, {From: 14, To: 16}},
			models.TaskKindMeeting:  {{From: 10, To: 12}, {From: 14, To: 17}},
			models.TaskKindActivity: {{From: 7, To: 9}, {From: 18, To: 20}},
			models.TaskKindBreak:    {{From: 12, To: 13}, {From: 16, To: 17}},
		},
		jitter: NewJitterSource(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns base 50, +30 per matching range, +20 between 8 and 10 o'clock, plus jitter in [-5, 5].
func (s *Scorer) Score(hour int, kind models.TaskKind) int {
	score := baseScore
	for _, r := range s.ranges[kind] {
		if r.Contains(hour) {
			score += rangeBonus
		}
	}
	if hour >= morningFrom && hour <= morningTo {
		score += morningBonus
	}
	if s.jitter != nil {
		score += s.jitter.Intn(jitterChoices) - jitterSpread
	}
	return score
}

// BestSlot returns the highest scoring slot long enough for the task. Ties keep the earliest slot.
func (s *Scorer) BestSlot(free []models.TimeSlot, task models.Task) (models.TimeSlot, bool) {
	idx := s.bestSlotIndex(free, task)
	if idx < 0 {
		return models.TimeSlot{}, false
	}
	return free[idx], true
}

func (s *Scorer) bestSlotIndex(free []models.TimeSlot, task models.Task) int {
	best := -1
	bestScore := 0
	for i, slot := range free {
		if slot.DurationMinutes() < task.DurationMinutes {
			continue
		}
		score := s.Score(slot.Start.Hour(), task.Kind)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}
