package apisports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/albapepper/scoracle-collector/internal/provider"
)

var errMissingResponse = errors.New("response field missing or null")

type rosterEntry struct {
	Team json.RawMessage `json:"team"`
}

type teamHeader struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

// DecodeRoster turns the "response" array of the teams endpoint into teams,
// keeping each nested "team" object verbatim. Only [] is an empty roster; an
// absent or null response is a ShapeError.
func DecodeRoster(response json.RawMessage) ([]provider.Team, error) {
	trimmed := bytes.TrimSpace(response)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &provider.ShapeError{Field: "response", Err: errMissingResponse}
	}

	var entries []rosterEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &provider.ShapeError{Field: "response", Err: err}
	}

	teams := make([]provider.Team, 0, len(entries))
	for i, entry := range entries {
		field := fmt.Sprintf("response[%d].team", i)
		raw := bytes.TrimSpace(entry.Team)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, &provider.ShapeError{Field: field, Err: fmt.Errorf("team object missing")}
		}
		var head teamHeader
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, &provider.ShapeError{Field: field, Err: err}
		}
		if head.ID == nil {
			return nil, &provider.ShapeError{Field: field + ".id", Err: fmt.Errorf("team id missing")}
		}
		teams = append(teams, provider.Team{ID: *head.ID, Name: head.Name, Raw: json.RawMessage(raw)})
	}
	return teams, nil
}
