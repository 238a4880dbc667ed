package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var (
	// ErrUnknownQuery is returned for canned query names that do not exist.
	ErrUnknownQuery = errors.New("unknown canned query")
	// ErrBadParams is returned when a canned query's params are invalid.
	ErrBadParams = errors.New("invalid query params")
)

const evidenceRows = 5

// QueryResult is the answer to a canned query.
type QueryResult struct {
	Table      string           `json:"table"`
	Query      string           `json:"query"`
	Result     []map[string]any `json:"result"`
	Evidence   []Row            `json:"evidence"`
	Confidence string           `json:"confidence"`
}

type cannedFunc func(ctx context.Context, s *Store, table string, params map[string]any) (QueryResult, error)

var canned = map[string]cannedFunc{
	"total_requests": totalRequests,
	"top_values":     topValues,
}

// CannedNames lists the available canned queries, sorted.
func CannedNames() []string {
	out := make([]string, 0, len(canned))
	for n := range canned {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RunCanned runs the named query against the default table.
func (s *Store) RunCanned(ctx context.Context, name string, params map[string]any) (QueryResult, error) {
	fn, ok := canned[name]
	if !ok {
		if hint := suggest(name); hint != "" {
			return QueryResult{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownQuery, name, hint)
		}
		return QueryResult{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}
	return fn(ctx, s, s.table, params)
}

func suggest(name string) string {
	best, bestDist := "", -1
	for _, n := range CannedNames() {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(n), levenshtein.DefaultOptions)
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist < 0 || bestDist > max(3, len([]rune(name))/2) {
		return ""
	}
	return best
}

func confidence(ok bool) string {
	if ok {
		return "high"
	}
	return "low"
}

func totalRequests(ctx context.Context, s *Store, table string, _ map[string]any) (QueryResult, error) {
	total := 0
	evidence := make([]Row, 0, evidenceRows)
	err := s.Scan(ctx, table, func(r Row) bool {
		total++
		if len(evidence) < evidenceRows {
			evidence = append(evidence, r)
		}
		return true
	})
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{
		Table:      table,
		Query:      fmt.Sprintf("SELECT COUNT(*) AS total FROM %q", table),
		Result:     []map[string]any{{"total": total}},
		Evidence:   evidence,
		Confidence: confidence(total > 0),
	}, nil
}

func topValues(ctx context.Context, s *Store, table string, params map[string]any) (QueryResult, error) {
	field, _ := params["field"].(string)
	if field == "" {
		return QueryResult{}, fmt.Errorf("%w: top_values needs a \"field\"", ErrBadParams)
	}
	limit := 10
	if raw, ok := params["limit"]; ok {
		n, err := toInt(raw)
		if err != nil || n <= 0 {
			return QueryResult{}, fmt.Errorf("%w: limit must be a positive integer", ErrBadParams)
		}
		limit = n
	}

	counts := map[string]int{}
	evidence := make([]Row, 0, evidenceRows)
	err := s.Scan(ctx, table, func(r Row) bool {
		v, ok := r[field]
		if !ok {
			return true
		}
		counts[valueKey(v)]++
		if len(evidence) < evidenceRows {
			evidence = append(evidence, r)
		}
		return true
	})
	if err != nil {
		return QueryResult{}, err
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	result := make([]map[string]any, len(keys))
	for i, k := range keys {
		result[i] = map[string]any{"value": k, "count": counts[k]}
	}
	return QueryResult{
		Table:      table,
		Query:      fmt.Sprintf("SELECT %q AS value, COUNT(*) AS count FROM %q GROUP BY 1 ORDER BY 2 DESC, 1 LIMIT %d", field, table, limit),
		Result:     result,
		Evidence:   evidence,
		Confidence: confidence(len(result) > 0),
	}, nil
}

func valueKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("not an integer: %v", t)
		}
		return int(t), nil
	case int:
		return t, nil
	case json.Number:
		return strconv.Atoi(t.String())
	case string:
		return strconv.Atoi(t)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
