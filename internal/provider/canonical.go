// Package provider defines canonical data types that the API-Sports client
// and the collector agree on. The collector flattens provider payloads into
// these shapes before they are written as tables.
package provider

import "encoding/json"

// Team is one entry of a league/season roster. Raw keeps the upstream "team"
// object verbatim so the roster table carries every field the API returned.
type Team struct {
	ID   int             `json:"id"`
	Name string          `json:"name"`
	Raw  json.RawMessage `json:"-"`
}

// TeamSeasonStats is the flat per-(team, season, league) record. Every field
// is nil when the corresponding path is absent from the statistics payload.
type TeamSeasonStats struct {
	TeamID   *int    `json:"team_id"`
	TeamName *string `json:"team_name"`
	LeagueID *int    `json:"league_id"`
	Season   *int    `json:"season"`
	Form     *string `json:"form"`

	WinsHome  *int `json:"wins_home"`
	WinsAway  *int `json:"wins_away"`
	LosesHome *int `json:"loses_home"`
	LosesAway *int `json:"loses_away"`
	DrawsHome *int `json:"draws_home"`
	DrawsAway *int `json:"draws_away"`

	GoalsForHome     *int `json:"goals_for_home"`
	GoalsForAway     *int `json:"goals_for_away"`
	GoalsAgainstHome *int `json:"goals_against_home"`
	GoalsAgainstAway *int `json:"goals_against_away"`

	CleanSheetHome    *int `json:"clean_sheet_home"`
	CleanSheetAway    *int `json:"clean_sheet_away"`
	FailedToScoreHome *int `json:"failed_to_score_home"`
	FailedToScoreAway *int `json:"failed_to_score_away"`

	PenaltyScored *int `json:"penalty_scored"`
	PenaltyMissed *int `json:"penalty_missed"`

	CardsYellow *int `json:"cards_yellow"`
	CardsRed    *int `json:"cards_red"`
}
