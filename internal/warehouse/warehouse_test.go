package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-collector/internal/table"
)

func TestRosterRows(t *testing.T) {
	roster := table.New(table.RosterName, []table.Column{
		{Name: "id", Kind: table.KindInt},
		{Name: "name", Kind: table.KindString},
		{Name: "national", Kind: table.KindBool},
	})
	require.NoError(t, roster.Append(33, "Manchester United", false))
	require.NoError(t, roster.Append(nil, "Unknown", false))

	rows, skipped, err := rosterRows(roster)
	require.NoError(t, err)
	require.Equal(t, 1, skipped)
	require.Len(t, rows, 1)
	require.Equal(t, int64(33), rows[0].ID)
	require.Equal(t, "Manchester United", rows[0].Name)
	require.JSONEq(t, `{"id":33,"name":"Manchester United","national":false}`, string(rows[0].Attrs))
}

func TestRosterRowsWithoutIDColumn(t *testing.T) {
	roster := table.New(table.RosterName, []table.Column{{Name: "name", Kind: table.KindString}})
	require.NoError(t, roster.Append("x"))

	_, _, err := rosterRows(roster)
	require.Error(t, err)

	empty := table.New(table.RosterName, nil)
	rows, skipped, err := rosterRows(empty)
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Zero(t, skipped)
}

func TestStatsRowsDropsKeyFromDocument(t *testing.T) {
	stats := table.New(table.StatsName, []table.Column{
		{Name: "team_id", Kind: table.KindInt},
		{Name: "form", Kind: table.KindString},
		{Name: "cards_red", Kind: table.KindInt},
	})
	require.NoError(t, stats.Append(40, "WWL", nil))

	rows, skipped, err := statsRows(stats)
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Equal(t, int64(40), rows[0].TeamID)
	require.JSONEq(t, `{"form":"WWL","cards_red":null}`, string(rows[0].Stats))
}

func TestLoadResultSummary(t *testing.T) {
	r := LoadResult{Season: 2024, League: 39, TeamsUpserted: 20, StatsUpserted: 20}
	require.Equal(t, "season=2024 league=39 teams=20 team_stats=20 skipped=0", r.Summary())
}
