package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Body     string `json:"body,omitempty"`
	Critical bool   `json:"critical"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	ShapeDiff      []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) breaking() bool {
	if !c.Target.Critical {
		return false
	}
	return c.Error != nil || !c.StatusMatch || len(c.ShapeDiff) > 0
}

func (c comparison) differs() bool {
	return c.Error != nil || !c.StatusMatch || len(c.ShapeDiff) > 0
}

// defaultTargets covers the read-only surface shared by both servers.
var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/health", Critical: true},
	{Method: http.MethodGet, Path: "/api/sheets/status", Critical: true},
	{Method: http.MethodGet, Path: "/api/students?page=1&limit=5", Critical: true},
	{Method: http.MethodGet, Path: "/api/students/stats/overview", Critical: true},
	{Method: http.MethodGet, Path: "/api/courses?page=1&limit=5", Critical: true},
	{Method: http.MethodGet, Path: "/api/courses/stats/overview"},
	{Method: http.MethodGet, Path: "/api/courses/select/options"},
	{Method: http.MethodGet, Path: "/api/fees?status=pending", Critical: true},
	{Method: http.MethodGet, Path: "/api/students/does-not-exist", Critical: true},
	{Method: http.MethodGet, Path: "/api/unknown-route"},
}

func compareTarget(ctx context.Context, client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goStatus, goBody, goDur, goErr := performRequest(ctx, client, goBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(ctx, client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.ShapeDiff = shapeDiff(legacyBody, goBody)
	return comp
}

func performRequest(ctx context.Context, client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if tgt.Body != "" {
		body = strings.NewReader(tgt.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
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
		return resp.StatusCode, nil, time.Since(start), fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, time.Since(start), nil
}

// shapeDiff lists JSON paths whose presence or kind differ between legacy and
// candidate. Values are ignored: both servers read the same sheet but stamp
// their own timestamps.
func shapeDiff(legacy, candidate []byte) []string {
	if bytes.Equal(bytes.TrimSpace(legacy), bytes.TrimSpace(candidate)) {
		return nil
	}
	var lj, cj interface{}
	if err := json.Unmarshal(legacy, &lj); err != nil {
		return []string{"legacy body is not JSON"}
	}
	if err := json.Unmarshal(candidate, &cj); err != nil {
		return []string{"go body is not JSON"}
	}
	var diffs []string
	walkShape("$", lj, cj, &diffs)
	sort.Strings(diffs)
	return diffs
}

func walkShape(path string, legacy, candidate interface{}, diffs *[]string) {
	if kindOf(legacy) != kindOf(candidate) {
		*diffs = append(*diffs, fmt.Sprintf("%s: %s vs %s", path, kindOf(legacy), kindOf(candidate)))
		return
	}
	switch lv := legacy.(type) {
	case map[string]interface{}:
		cv := candidate.(map[string]interface{})
		for key, value := range lv {
			other, ok := cv[key]
			if !ok {
				*diffs = append(*diffs, fmt.Sprintf("%s.%s: missing in go", path, key))
				continue
			}
			walkShape(path+"."+key, value, other, diffs)
		}
		for key := range cv {
			if _, ok := lv[key]; !ok {
				*diffs = append(*diffs, fmt.Sprintf("%s.%s: missing in legacy", path, key))
			}
		}
	case []interface{}:
		cv := candidate.([]interface{})
		if len(lv) > 0 && len(cv) > 0 {
			walkShape(path+"[0]", lv[0], cv[0], diffs)
		}
	}
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
