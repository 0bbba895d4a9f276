package planner

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/noah-isme/planify-api/internal/models"
)

// timeFragment captures a whole digit token such as 9, 9h, 9h30 or 9:30.
// Validation happens in NormalizeClock so a year like 2025 is rejected, never truncated.
const timeFragment = `(\d+(?:h\d*|:\d+)?)`

// Matcher is one extraction strategy over normalized text.
type Matcher interface {
	Name() string
	TryExtract(text string) []models.Task
}

// Extractor turns free French text into tasks. It never fails.
type Extractor struct {
	catalog  *Catalog
	matchers []Matcher
	fallback Matcher
}

// NewExtractor builds the template matchers for every catalog keyword.
func NewExtractor(catalog *Catalog) *Extractor {
	typeAlt := keywordAlternation(catalog.Types())
	dayAlt := dayAlternation()

	return &Extractor{
		catalog: catalog,
		matchers: []Matcher{
			&templateMatcher{
				name:    "type_time_range",
				catalog: catalog,
				pattern: regexp.MustCompile(`(` + typeAlt + `)\s+(?:(?:de|à|a)\s+)?` + timeFragment + `(?:(?:\s+(?:à|a|jusqu['’]à)\s+|\s*-\s*)` + timeFragment + `)?`),
				groups:  templateGroups{kind: 1, start: 2, end: 3},
			},
			&templateMatcher{
				name:    "time_type",
				catalog: catalog,
				pattern: regexp.MustCompile(timeFragment + `\s+(?:de\s+)?(` + typeAlt + `)`),
				groups:  templateGroups{start: 1, kind: 2},
			},
			&templateMatcher{
				name:    "day_time_type",
				catalog: catalog,
				pattern: regexp.MustCompile(`(` + dayAlt + `)\s+(?:à\s+)?` + timeFragment + `\s+(?:de\s+)?(` + typeAlt + `)`),
				groups:  templateGroups{day: 1, start: 2, kind: 3},
			},
		},
		fallback: &keywordMatcher{catalog: catalog},
	}
}

// Matchers exposes the ordered template strategies.
func (e *Extractor) Matchers() []Matcher {
	out := make([]Matcher, len(e.matchers))
	copy(out, e.matchers)
	return out
}

// Extract runs every template in order and falls back to a keyword scan when none matched.
func (e *Extractor) Extract(text string) []models.Task {
	normalized := normalizeText(text)
	tasks := make([]models.Task, 0)
	if normalized == "" {
		return tasks
	}
	for _, matcher := range e.matchers {
		tasks = append(tasks, matcher.TryExtract(normalized)...)
	}
	if len(tasks) == 0 {
		tasks = append(tasks, e.fallback.TryExtract(normalized)...)
	}
	return tasks
}

func normalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(strings.ToLower(text)))
}

type templateGroups struct {
	day   int
	start int
	end   int
	kind  int
}

type templateMatcher struct {
	name    string
	catalog *Catalog
	pattern *regexp.Regexp
	groups  templateGroups
}

func (m *templateMatcher) Name() string { return m.name }

func (m *templateMatcher) TryExtract(text string) []models.Task {
	matches := m.pattern.FindAllStringSubmatchIndex(text, -1)
	tasks := make([]models.Task, 0, len(matches))
	for _, loc := range matches {
		kind, ok := boundedGroup(text, loc, m.groups.kind)
		if !ok {
			continue
		}
		task := m.catalog.newTask(models.TaskType(kind), strings.TrimSpace(text[loc[0]:loc[1]]))

		if raw, ok := boundedGroup(text, loc, m.groups.day); ok {
			if day, ok := models.ParseDay(raw); ok {
				task.Day = &day
			}
		}
		if raw, ok := boundedGroup(text, loc, m.groups.start); ok {
			if start, err := NormalizeClock(raw); err == nil {
				task.Start = &start
			}
		}
		if raw, ok := boundedGroup(text, loc, m.groups.end); ok {
			if end, err := NormalizeClock(raw); err == nil {
				task.End = &end
			}
		}
		if task.End != nil && task.Start != nil && *task.End <= *task.Start {
			task.End = nil
		}
		if task.Start != nil && task.End != nil {
			task.DurationMinutes = int(*task.End - *task.Start)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// boundedGroup returns submatch group when it is set and stands as a whole word.
func boundedGroup(text string, loc []int, group int) (string, bool) {
	if group <= 0 || 2*group+1 >= len(loc) {
		return "", false
	}
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 || start == end || !wordBounded(text, start, end) {
		return "", false
	}
	return text[start:end], true
}

// wordBounded reports whether text[start:end] is not glued to surrounding letters or digits.
// A single trailing plural "s" is tolerated.
func wordBounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if r == 's' {
		if end+size >= len(text) {
			return true
		}
		r, _ = utf8.DecodeRuneInString(text[end+size:])
	}
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

type keywordMatcher struct {
	catalog *Catalog
}

func (m *keywordMatcher) Name() string { return "keyword_scan" }

func (m *keywordMatcher) TryExtract(text string) []models.Task {
	tasks := make([]models.Task, 0)
	for _, taskType := range m.catalog.Types() {
		if containsWord(text, string(taskType)) {
			tasks = append(tasks, m.catalog.newTask(taskType, string(taskType)))
		}
	}
	return tasks
}

func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		if wordBounded(text, start, start+len(word)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// keywordAlternation quotes the keywords, longest first so prefixes never shadow longer words.
func keywordAlternation(types []models.TaskType) string {
	keywords := make([]string, 0, len(types))
	for _, t := range types {
		keywords = append(keywords, regexp.QuoteMeta(string(t)))
	}
	sort.SliceStable(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
	if len(keywords) == 0 {
		// matches nothing
		return `[^\s\S]`
	}
	return strings.Join(keywords, "|")
}

func dayAlternation() string {
	days := models.Days()
	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, string(day))
	}
	return strings.Join(names, "|")
}
