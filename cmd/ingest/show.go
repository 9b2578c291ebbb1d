package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/table"
)

func showCmd() *cobra.Command {
	var (
		season, league, limit int
		stats                 bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a collected season table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("league") {
				league = cfg.DefaultLeague
			}

			layout := table.Layout{Dir: cfg.DataDir}
			path := layout.RosterPath(season, league)
			if stats {
				path = layout.StatsPath(season, league)
			}
			t, err := table.Read(context.Background(), path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			renderTable(os.Stdout, t, limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", config.DefaultSeasons[0], "Season year")
	cmd.Flags().IntVar(&league, "league", config.DefaultLeague, "League ID (default DEFAULT_LEAGUE)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show the team statistics table instead of the roster")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to print (0 = all)")
	return cmd
}

func renderTable(w io.Writer, t *table.Table, limit int) {
	out := prettytable.NewWriter()
	out.SetOutputMirror(w)
	out.SetTitle(t.Name)

	header := prettytable.Row{}
	for _, name := range t.ColumnNames() {
		header = append(header, name)
	}
	out.AppendHeader(header)

	for i, row := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		r := make(prettytable.Row, len(row))
		for j, v := range row {
			r[j] = cell(v)
		}
		out.AppendRow(r)
	}
	out.AppendFooter(prettytable.Row{fmt.Sprintf("%d rows", t.Len())})
	out.SetStyle(prettytable.StyleRounded)
	out.Render()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
