// Command shadow_compare replays requests against the legacy Flask planner and the Go service
// and reports status or response-shape drift. Go responses are unwrapped from their envelope
// before comparison; values are ignored because ids, timestamps and jitter differ per run.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type target struct {
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	LegacyPath string          `json:"legacyPath"`
	Body       json.RawMessage `json:"body"`
	Critical   bool            `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	MissingKeys    []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) ok() bool {
	return c.Error == nil && c.StatusMatch && len(c.MissingKeys) == 0
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy Flask base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	results := make([]comparison, 0, len(targets))
	breaking, optional := 0, 0
	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		if !comp.ok() {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, comp)
	}

	printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	legacyPath := tgt.LegacyPath
	if legacyPath == "" {
		legacyPath = tgt.Path
	}

	goStatus, goBody, goDur, err := performRequest(client, goBase, tgt.Method, tgt.Path, tgt.Body)
	comp.DurationGo = goDur
	if err != nil {
		comp.Error = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := performRequest(client, legacyBase, tgt.Method, legacyPath, tgt.Body)
	comp.DurationLegacy = legacyDur
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.GoStatus, comp.LegacyStatus = goStatus, legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	if goStatus < 300 && legacyStatus < 300 {
		comp.MissingKeys = missingKeys(shapeOf(legacyBody), shapeOf(unwrapEnvelope(goBody)))
	}
	return comp
}

func performRequest(client *http.Client, base, method, path string, body json.RawMessage) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, time.Since(start), nil
}

// unwrapEnvelope returns the data member of a {data,error,meta} envelope, or body unchanged.
func unwrapEnvelope(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body
	}
	return env.Data
}

// shapeOf lists the dotted key paths of a JSON document. Array elements collapse to "[]".
func shapeOf(body []byte) map[string]struct{} {
	var doc interface{}
	shape := map[string]struct{}{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return shape
	}
	walk("", doc, shape)
	return shape
}

func walk(prefix string, v interface{}, shape map[string]struct{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			shape[key] = struct{}{}
			walk(key, child, shape)
		}
	case []interface{}:
		for _, child := range val {
			walk(prefix+"[]", child, shape)
		}
	}
}

func missingKeys(want, got map[string]struct{}) []string {
	missing := make([]string, 0)
	for k := range want {
		if _, ok := got[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.ok() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Critical: %t\n", res.StatusMatch, res.Target.Critical)
		if len(res.MissingKeys) > 0 {
			fmt.Fprintf(w, "  Missing keys: %s\n", strings.Join(res.MissingKeys, ", "))
		}
	}
}
