package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-collector/internal/table"
)

func TestRenderTable(t *testing.T) {
	tbl := table.New(table.StatsName, []table.Column{
		{Name: "team_id", Kind: table.KindInt},
		{Name: "form", Kind: table.KindString},
		{Name: "cards_red", Kind: table.KindInt},
	})
	require.NoError(t, tbl.Append(int64(33), "WDLW", int64(2)))
	require.NoError(t, tbl.Append(int64(40), "WWWD", nil))
	require.NoError(t, tbl.Append(int64(50), "LLDW", int64(1)))

	var buf bytes.Buffer
	renderTable(&buf, tbl, 2)
	out := strings.ToLower(buf.String())

	require.Contains(t, out, "team_id")
	require.Contains(t, out, "wdlw")
	require.Contains(t, out, "null")
	require.NotContains(t, out, "lldw")
	require.Contains(t, out, "3 rows")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"collect", "show", "load", "schedule"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}
}

func TestCellFormatting(t *testing.T) {
	require.Equal(t, "null", cell(nil))
	require.Equal(t, "1.5", cell(1.5))
	require.Equal(t, "true", cell(true))
	require.Equal(t, "7", cell(int64(7)))
}
