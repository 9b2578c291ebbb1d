// Package collector runs the season collection pipeline: fetch the league
// roster, fetch and flatten every team's season statistics, and persist both
// tables under the season's directory.
//
// The pipeline is sequential and all-or-nothing per season. Both tables are
// built in memory before either file is written, so a failed request leaves
// the previous output of that season untouched.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/provider"
	"github.com/albapepper/scoracle-collector/internal/provider/apisports"
	"github.com/albapepper/scoracle-collector/internal/table"
)

const (
	teamsEndpoint      = "teams"
	statisticsEndpoint = "teams/statistics"
)

// Fetcher issues a single authenticated GET against the sports-data API.
type Fetcher interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*apisports.Envelope, error)
}

// Collector fetches, flattens and persists season data.
type Collector struct {
	fetcher Fetcher
	layout  table.Layout
	logger  *slog.Logger
}

// New creates a Collector writing under layout.
func New(fetcher Fetcher, layout table.Layout, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{fetcher: fetcher, layout: layout, logger: logger}
}

// NewFromConfig wires an API-Sports client and the data directory from cfg.
// cfg must already satisfy RequireUpstream.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Collector {
	client := apisports.NewClient(apisports.Config{
		BaseURL:           cfg.APIBaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, logger)
	return New(client, table.Layout{Dir: cfg.DataDir}, logger)
}

// Roster is a league/season team list together with its table form.
type Roster struct {
	Teams []provider.Team
	Table *table.Table
}

// TeamIDs returns the team ids in roster order.
func (r *Roster) TeamIDs() []int {
	ids := make([]int, len(r.Teams))
	for i, t := range r.Teams {
		ids[i] = t.ID
	}
	return ids
}

// FetchTeams fetches the roster of a league season. An empty response array
// is an empty roster; an absent or null response is an error.
func (c *Collector) FetchTeams(ctx context.Context, season, league int) (*Roster, error) {
	env, err := c.fetcher.Get(ctx, teamsEndpoint, url.Values{
		"league": {strconv.Itoa(league)},
		"season": {strconv.Itoa(season)},
	})
	if err != nil {
		return nil, err
	}

	teams, err := apisports.DecodeRoster(env.Response)
	if err != nil {
		c.logger.Error("Malformed roster response", "season", season, "league", league,
			"response", truncate(env.Response, 80), "error", err)
		return nil, err
	}

	objects := make([]json.RawMessage, len(teams))
	for i, t := range teams {
		objects[i] = t.Raw
	}
	tbl, err := table.FromObjects(table.RosterName, objects)
	if err != nil {
		return nil, &provider.ShapeError{Field: "response", Err: err}
	}

	c.logger.Info("Fetched roster", "season", season, "league", league, "teams", len(teams))
	return &Roster{Teams: teams, Table: tbl}, nil
}

// FetchTeamStats fetches one team's season statistics and returns them as a
// single JSON object. Unexpected shapes of the "response" field are logged
// and replaced by {}.
func (c *Collector) FetchTeamStats(ctx context.Context, teamID, season, league int) (json.RawMessage, error) {
	env, err := c.fetcher.Get(ctx, statisticsEndpoint, url.Values{
		"league": {strconv.Itoa(league)},
		"season": {strconv.Itoa(season)},
		"team":   {strconv.Itoa(teamID)},
	})
	if err != nil {
		return nil, err
	}

	obj, ok := apisports.NormalizeStatistics(env.Response)
	if !ok {
		c.logger.Warn("Unexpected statistics response shape",
			"team_id", teamID, "season", season, "league", league,
			"response", truncate(env.Response, 80))
	}
	return obj, nil
}

// SaveData collects one league season and writes the roster and stats files.
// Any failure aborts the season before files are written.
func (c *Collector) SaveData(ctx context.Context, season, league int) (Result, error) {
	start := time.Now()
	result := Result{Season: season, League: league}

	c.logger.Info("Collecting season", "season", season, "league", league)

	roster, err := c.FetchTeams(ctx, season, league)
	if err != nil {
		return result, fmt.Errorf("season %d league %d: fetch teams: %w", season, league, err)
	}

	stats := NewStatsTable()
	ids := roster.TeamIDs()
	for i, id := range ids {
		raw, err := c.FetchTeamStats(ctx, id, season, league)
		if err != nil {
			return result, fmt.Errorf("season %d league %d: fetch stats for team %d: %w", season, league, id, err)
		}
		record, err := Flatten(raw)
		if err != nil {
			return result, fmt.Errorf("season %d league %d: flatten stats for team %d: %w", season, league, id, err)
		}
		if err := AppendStats(stats, record); err != nil {
			return result, fmt.Errorf("season %d league %d: team %d: %w", season, league, id, err)
		}
		c.logger.Info("Team stats fetched", "team_id", id, "progress", fmt.Sprintf("%d/%d", i+1, len(ids)))
	}

	rosterPath := c.layout.RosterPath(season, league)
	statsPath := c.layout.StatsPath(season, league)
	if err := table.Write(ctx, rosterPath, roster.Table); err != nil {
		return result, fmt.Errorf("season %d league %d: %w", season, league, err)
	}
	if err := table.Write(ctx, statsPath, stats); err != nil {
		return result, fmt.Errorf("season %d league %d: %w", season, league, err)
	}

	result.Teams = roster.Table.Len()
	result.StatsRows = stats.Len()
	result.RosterPath = rosterPath
	result.StatsPath = statsPath
	result.Duration = time.Since(start)

	c.logger.Info("Season saved", "season", season, "league", league, "summary", result.Summary())
	return result, nil
}

// Run collects each season in order and stops at the first failure.
func (c *Collector) Run(ctx context.Context, seasons []int, league int) ([]Result, error) {
	results := make([]Result, 0, len(seasons))
	for _, season := range seasons {
		res, err := c.SaveData(ctx, season, league)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
