package collector

import (
	"encoding/json"

	"github.com/albapepper/scoracle-collector/internal/provider"
	"github.com/albapepper/scoracle-collector/internal/provider/apisports"
	"github.com/albapepper/scoracle-collector/internal/table"
)

// StatsColumns is the column layout of the season stats table.
var StatsColumns = []table.Column{
	{Name: "team_id", Kind: table.KindInt},
	{Name: "team_name", Kind: table.KindString},
	{Name: "league_id", Kind: table.KindInt},
	{Name: "season", Kind: table.KindInt},
	{Name: "form", Kind: table.KindString},
	{Name: "wins_home", Kind: table.KindInt},
	{Name: "wins_away", Kind: table.KindInt},
	{Name: "loses_home", Kind: table.KindInt},
	{Name: "loses_away", Kind: table.KindInt},
	{Name: "draws_home", Kind: table.KindInt},
	{Name: "draws_away", Kind: table.KindInt},
	{Name: "goals_for_home", Kind: table.KindInt},
	{Name: "goals_for_away", Kind: table.KindInt},
	{Name: "goals_against_home", Kind: table.KindInt},
	{Name: "goals_against_away", Kind: table.KindInt},
	{Name: "clean_sheet_home", Kind: table.KindInt},
	{Name: "clean_sheet_away", Kind: table.KindInt},
	{Name: "failed_to_score_home", Kind: table.KindInt},
	{Name: "failed_to_score_away", Kind: table.KindInt},
	{Name: "penalty_scored", Kind: table.KindInt},
	{Name: "penalty_missed", Kind: table.KindInt},
	{Name: "cards_yellow", Kind: table.KindInt},
	{Name: "cards_red", Kind: table.KindInt},
}

// Flatten maps a normalized statistics object onto the flat season record.
// Paths missing from the payload leave the field nil.
func Flatten(raw json.RawMessage) (provider.TeamSeasonStats, error) {
	var out provider.TeamSeasonStats

	s, err := apisports.DecodeTeamStatistics(raw)
	if err != nil {
		return out, err
	}

	if s.Team != nil {
		out.TeamID = s.Team.ID
		out.TeamName = s.Team.Name
	}
	if s.League != nil {
		out.LeagueID = s.League.ID
		out.Season = s.League.Season
	}
	out.Form = s.Form

	if f := s.Fixtures; f != nil {
		out.WinsHome, out.WinsAway = f.Wins.HomeCount(), f.Wins.AwayCount()
		out.LosesHome, out.LosesAway = f.Loses.HomeCount(), f.Loses.AwayCount()
		out.DrawsHome, out.DrawsAway = f.Draws.HomeCount(), f.Draws.AwayCount()
	}
	if g := s.Goals; g != nil {
		out.GoalsForHome, out.GoalsForAway = g.For.Totals().HomeCount(), g.For.Totals().AwayCount()
		out.GoalsAgainstHome, out.GoalsAgainstAway = g.Against.Totals().HomeCount(), g.Against.Totals().AwayCount()
	}

	out.CleanSheetHome, out.CleanSheetAway = s.CleanSheet.HomeCount(), s.CleanSheet.AwayCount()
	out.FailedToScoreHome, out.FailedToScoreAway = s.FailedToScore.HomeCount(), s.FailedToScore.AwayCount()

	if p := s.Penalty; p != nil {
		out.PenaltyScored = p.Scored.Count()
		out.PenaltyMissed = p.Missed.Count()
	}
	if c := s.Cards; c != nil {
		out.CardsYellow = provider.SumTotals(c.Yellow)
		out.CardsRed = provider.SumTotals(c.Red)
	}

	return out, nil
}

// NewStatsTable returns an empty season stats table.
func NewStatsTable() *table.Table {
	return table.New(table.StatsName, StatsColumns)
}

// AppendStats adds one flattened record to a stats table, in StatsColumns order.
func AppendStats(t *table.Table, s provider.TeamSeasonStats) error {
	return t.Append(
		s.TeamID, s.TeamName, s.LeagueID, s.Season, s.Form,
		s.WinsHome, s.WinsAway, s.LosesHome, s.LosesAway, s.DrawsHome, s.DrawsAway,
		s.GoalsForHome, s.GoalsForAway, s.GoalsAgainstHome, s.GoalsAgainstAway,
		s.CleanSheetHome, s.CleanSheetAway, s.FailedToScoreHome, s.FailedToScoreAway,
		s.PenaltyScored, s.PenaltyMissed,
		s.CardsYellow, s.CardsRed,
	)
}
