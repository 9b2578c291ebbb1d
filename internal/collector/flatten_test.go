package collector

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-collector/internal/provider"
)

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }
func loadFixture(t *testing.T, name string) json.RawMessage {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestFlattenFullPayload(t *testing.T) {
	got, err := Flatten(loadFixture(t, "statistics_33.json"))
	require.NoError(t, err)

	require.Equal(t, provider.TeamSeasonStats{
		TeamID:   intp(33),
		TeamName: strp("Manchester United"),
		LeagueID: intp(39),
		Season:   intp(2024),
		Form:     strp("WLDWLLWD"),

		WinsHome: intp(7), WinsAway: intp(4),
		LosesHome: intp(8), LosesAway: intp(10),
		DrawsHome: intp(4), DrawsAway: intp(5),

		GoalsForHome: intp(23), GoalsForAway: intp(21),
		GoalsAgainstHome: intp(25), GoalsAgainstAway: intp(29),

		CleanSheetHome: intp(5), CleanSheetAway: intp(3),
		FailedToScoreHome: intp(6), FailedToScoreAway: intp(7),

		PenaltyScored: intp(4), PenaltyMissed: intp(1),

		CardsYellow: intp(75),
		CardsRed:    intp(2),
	}, got)
}

func TestFlattenMissingCleanSheet(t *testing.T) {
	got, err := Flatten(json.RawMessage(`{"team": {"id": 40}, "failed_to_score": {"home": 2, "away": 1}}`))
	require.NoError(t, err)
	require.Nil(t, got.CleanSheetHome)
	require.Nil(t, got.CleanSheetAway)
	require.Equal(t, 2, *got.FailedToScoreHome)
	require.Equal(t, 40, *got.TeamID)
}

func TestFlattenCardBucketsWithNullTotals(t *testing.T) {
	got, err := Flatten(json.RawMessage(`{"cards": {"yellow": {"0-15": {"total": 2}, "16-30": {"total": null}}}}`))
	require.NoError(t, err)
	require.Equal(t, 2, *got.CardsYellow)
	require.Nil(t, got.CardsRed)
}

func TestFlattenEmptyObject(t *testing.T) {
	got, err := Flatten(json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, provider.TeamSeasonStats{}, got)
}

func TestFlattenNullBranches(t *testing.T) {
	got, err := Flatten(json.RawMessage(`{"fixtures": {"wins": null}, "goals": {"for": null}, "penalty": {"scored": {"total": null}}}`))
	require.NoError(t, err)
	require.Nil(t, got.WinsHome)
	require.Nil(t, got.GoalsForHome)
	require.Nil(t, got.PenaltyScored)
}

func TestFlattenWrongTypeIsShapeError(t *testing.T) {
	_, err := Flatten(json.RawMessage(`{"form": 5}`))
	_, ok := provider.AsShapeError(err)
	require.True(t, ok)
}

func TestAppendStatsFollowsColumnOrder(t *testing.T) {
	tbl := NewStatsTable()
	rec := provider.TeamSeasonStats{TeamID: intp(33), Form: strp("W"), CardsRed: intp(1)}
	require.NoError(t, AppendStats(tbl, rec))

	row := tbl.Rows[0]
	require.Len(t, row, len(StatsColumns))
	require.Equal(t, int64(33), row[tbl.Index("team_id")])
	require.Equal(t, "W", row[tbl.Index("form")])
	require.Equal(t, int64(1), row[tbl.Index("cards_red")])
	require.Nil(t, row[tbl.Index("clean_sheet_home")])
}
