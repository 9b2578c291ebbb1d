// Package warehouse loads persisted season tables into Postgres for
// analytics queries. Each load replaces the rows of one league season inside
// a single transaction.
package warehouse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/table"
)

// Schema creates the warehouse tables when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + config.TeamsTable + ` (
	id         INTEGER NOT NULL,
	season     INTEGER NOT NULL,
	league_id  INTEGER NOT NULL,
	name       TEXT,
	attrs      JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (id, season, league_id)
);
CREATE TABLE IF NOT EXISTS ` + config.TeamStatsTable + ` (
	team_id    INTEGER NOT NULL,
	season     INTEGER NOT NULL,
	league_id  INTEGER NOT NULL,
	stats      JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (team_id, season, league_id)
);`

// LoadResult tracks counts from a warehouse load.
type LoadResult struct {
	Season        int
	League        int
	TeamsUpserted int
	StatsUpserted int
	Skipped       int
}

// Summary returns a human-readable summary of the load.
func (r LoadResult) Summary() string {
	return fmt.Sprintf("season=%d league=%d teams=%d team_stats=%d skipped=%d",
		r.Season, r.League, r.TeamsUpserted, r.StatsUpserted, r.Skipped)
}

// EnsureSchema creates the warehouse tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure warehouse schema: %w", err)
	}
	return nil
}

type teamRow struct {
	ID    int64
	Name  any
	Attrs []byte
}

type statsRow struct {
	TeamID int64
	Stats  []byte
}

// LoadSeason replaces one league season's rows with the given tables.
func LoadSeason(ctx context.Context, pool *pgxpool.Pool, season, league int, roster, stats *table.Table) (LoadResult, error) {
	result := LoadResult{Season: season, League: league}

	teams, skippedTeams, err := rosterRows(roster)
	if err != nil {
		return result, err
	}
	records, skippedStats, err := statsRows(stats)
	if err != nil {
		return result, err
	}
	result.Skipped = skippedTeams + skippedStats

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM `+config.TeamsTable+` WHERE season = $1 AND league_id = $2`, season, league); err != nil {
			return fmt.Errorf("clear teams: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM `+config.TeamStatsTable+` WHERE season = $1 AND league_id = $2`, season, league); err != nil {
			return fmt.Errorf("clear team stats: %w", err)
		}

		for _, t := range teams {
			if _, err := tx.Exec(ctx, `
				INSERT INTO `+config.TeamsTable+` (id, season, league_id, name, attrs)
				VALUES ($1,$2,$3,$4,$5)
				ON CONFLICT (id, season, league_id) DO UPDATE SET
					name = EXCLUDED.name,
					attrs = EXCLUDED.attrs,
					updated_at = NOW()`,
				t.ID, season, league, t.Name, t.Attrs); err != nil {
				return fmt.Errorf("upsert team %d: %w", t.ID, err)
			}
			result.TeamsUpserted++
		}

		for _, s := range records {
			if _, err := tx.Exec(ctx, `
				INSERT INTO `+config.TeamStatsTable+` (team_id, season, league_id, stats)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (team_id, season, league_id) DO UPDATE SET
					stats = EXCLUDED.stats,
					updated_at = NOW()`,
				s.TeamID, season, league, s.Stats); err != nil {
				return fmt.Errorf("upsert team stats %d: %w", s.TeamID, err)
			}
			result.StatsUpserted++
		}
		return nil
	})
	if err != nil {
		result.TeamsUpserted, result.StatsUpserted = 0, 0
		return result, err
	}
	return result, nil
}

// rosterRows converts the roster table into team rows keyed by the "id"
// column. Rows without an id cannot be keyed and are skipped.
func rosterRows(t *table.Table) ([]teamRow, int, error) {
	if t == nil {
		return nil, 0, nil
	}
	idCol := t.Index("id")
	if idCol < 0 && t.Len() > 0 {
		return nil, 0, fmt.Errorf("roster table has no id column")
	}
	nameCol := t.Index("name")

	var (
		rows    []teamRow
		skipped int
	)
	for i, rec := range t.Records() {
		id, ok := t.Rows[i][idCol].(int64)
		if !ok {
			skipped++
			continue
		}
		attrs, err := json.Marshal(rec)
		if err != nil {
			return nil, 0, fmt.Errorf("encode team %d: %w", id, err)
		}
		var name any
		if nameCol >= 0 {
			name = t.Rows[i][nameCol]
		}
		rows = append(rows, teamRow{ID: id, Name: name, Attrs: attrs})
	}
	return rows, skipped, nil
}

// statsRows converts the stats table into JSON documents keyed by team_id.
func statsRows(t *table.Table) ([]statsRow, int, error) {
	if t == nil {
		return nil, 0, nil
	}
	idCol := t.Index("team_id")
	if idCol < 0 && t.Len() > 0 {
		return nil, 0, fmt.Errorf("stats table has no team_id column")
	}

	var (
		rows    []statsRow
		skipped int
	)
	for i, rec := range t.Records() {
		id, ok := t.Rows[i][idCol].(int64)
		if !ok {
			skipped++
			continue
		}
		delete(rec, "team_id")
		doc, err := json.Marshal(rec)
		if err != nil {
			return nil, 0, fmt.Errorf("encode stats for team %d: %w", id, err)
		}
		rows = append(rows, statsRow{TeamID: id, Stats: doc})
	}
	return rows, skipped, nil
}
