package apisports

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/albapepper/scoracle-collector/internal/provider"
)

// TeamStatistics is the subset of the teams/statistics payload the collector
// reads. Every level is optional: a nil pointer or nil map means the path was
// absent (or null) in the payload.
type TeamStatistics struct {
	League *struct {
		ID     *int `json:"id"`
		Season *int `json:"season"`
	} `json:"league"`
	Team *struct {
		ID   *int    `json:"id"`
		Name *string `json:"name"`
	} `json:"team"`
	Form     *string `json:"form"`
	Fixtures *struct {
		Wins  *Split `json:"wins"`
		Draws *Split `json:"draws"`
		Loses *Split `json:"loses"`
	} `json:"fixtures"`
	Goals *struct {
		For     *GoalSide `json:"for"`
		Against *GoalSide `json:"against"`
	} `json:"goals"`
	CleanSheet    *Split `json:"clean_sheet"`
	FailedToScore *Split `json:"failed_to_score"`
	Penalty       *struct {
		Scored *Tally `json:"scored"`
		Missed *Tally `json:"missed"`
	} `json:"penalty"`
	Cards *struct {
		// Keyed by minute range ("0-15", "16-30", ...); the key set varies.
		Yellow map[string]interface{} `json:"yellow"`
		Red    map[string]interface{} `json:"red"`
	} `json:"cards"`
}

// Split is a home/away/total counter triple.
type Split struct {
	Home  *int `json:"home"`
	Away  *int `json:"away"`
	Total *int `json:"total"`
}

// GoalSide holds goal totals for one direction (for or against).
type GoalSide struct {
	Total *Split `json:"total"`
}

// Tally is a total with its percentage label, e.g. penalties scored.
type Tally struct {
	Total *int `json:"total"`
}

var emptyObject = json.RawMessage(`{}`)

// NormalizeStatistics reduces the statistics "response" field to a single
// JSON object. The API sends an object, a one-element array, or nothing at
// all; anything that is not an object after unwrapping becomes {}. ok reports
// whether the input already had one of the expected shapes with data in it.
func NormalizeStatistics(response json.RawMessage) (obj json.RawMessage, ok bool) {
	trimmed := bytes.TrimSpace(response)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject, false
	}
	switch trimmed[0] {
	case '{':
		return trimmed, true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
			return emptyObject, false
		}
		first := bytes.TrimSpace(items[0])
		if len(first) > 0 && first[0] == '{' {
			return first, len(items) == 1
		}
	}
	return emptyObject, false
}

// DecodeTeamStatistics decodes a normalized statistics object. Absent fields
// stay nil; a field with the wrong JSON type is a *provider.ShapeError.
func DecodeTeamStatistics(obj json.RawMessage) (*TeamStatistics, error) {
	var stats TeamStatistics
	if len(bytes.TrimSpace(obj)) == 0 {
		return &stats, nil
	}
	if err := json.Unmarshal(obj, &stats); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &provider.ShapeError{Field: typeErr.Field, Err: err}
		}
		return nil, &provider.ShapeError{Err: err}
	}
	return &stats, nil
}

// HomeCount returns the home counter, nil when s is nil.
func (s *Split) HomeCount() *int {
	if s == nil {
		return nil
	}
	return s.Home
}

// AwayCount returns the away counter, nil when s is nil.
func (s *Split) AwayCount() *int {
	if s == nil {
		return nil
	}
	return s.Away
}

// Totals returns the home/away total split, nil when g is nil.
func (g *GoalSide) Totals() *Split {
	if g == nil {
		return nil
	}
	return g.Total
}

// Count returns the total, nil when t is nil.
func (t *Tally) Count() *int {
	if t == nil {
		return nil
	}
	return t.Total
}
