package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-collector/internal/api/respond"
	"github.com/albapepper/scoracle-collector/internal/cache"
	"github.com/albapepper/scoracle-collector/internal/table"
)

// tableResponse is the JSON shape of a persisted table.
type tableResponse struct {
	Season  int              `json:"season"`
	League  int              `json:"league"`
	Table   string           `json:"table"`
	Columns []table.Column   `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ListSeasons returns the seasons that have data on disk.
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "seasons", cache.TTLSeasonList, func(ctx context.Context) (any, error) {
		seasons, err := h.layout.Seasons()
		if err != nil {
			return nil, err
		}
		return map[string]any{"seasons": seasons}, nil
	})
}

// GetTeams returns the roster table of a league season.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	season, league, ok := h.seasonParams(w, r)
	if !ok {
		return
	}
	key := fmt.Sprintf("teams:%d:%d", season, league)
	h.serveCached(w, r, key, cache.TTLSeasonTable, func(ctx context.Context) (any, error) {
		return h.readTable(ctx, h.layout.RosterPath(season, league), season, league)
	})
}

// GetStats returns the team statistics table of a league season.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	season, league, ok := h.seasonParams(w, r)
	if !ok {
		return
	}
	key := fmt.Sprintf("stats:%d:%d", season, league)
	h.serveCached(w, r, key, cache.TTLSeasonTable, func(ctx context.Context) (any, error) {
		return h.readTable(ctx, h.layout.StatsPath(season, league), season, league)
	})
}

// GetTeamStats returns one team's statistics row.
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	season, league, ok := h.seasonParams(w, r)
	if !ok {
		return
	}
	teamID, err := strconv.ParseInt(chi.URLParam(r, "teamID"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "INVALID_ID", "team ID must be an integer")
		return
	}

	key := fmt.Sprintf("stats:%d:%d:%d", season, league, teamID)
	h.serveCached(w, r, key, cache.TTLSeasonTable, func(ctx context.Context) (any, error) {
		resp, err := h.readTable(ctx, h.layout.StatsPath(season, league), season, league)
		if err != nil {
			return nil, err
		}
		for _, row := range resp.Rows {
			if id, ok := row["team_id"].(int64); ok && id == teamID {
				return row, nil
			}
		}
		return nil, &apiError{http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no stats for team %d in season %d league %d", teamID, season, league)}
	})
}

func (h *Handler) seasonParams(w http.ResponseWriter, r *http.Request) (season, league int, ok bool) {
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "INVALID_SEASON", "season must be an integer")
		return 0, 0, false
	}
	league = h.defaultLeague
	if l := r.URL.Query().Get("league"); l != "" {
		league, err = strconv.Atoi(l)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "INVALID_LEAGUE", "league must be an integer")
			return 0, 0, false
		}
	}
	return season, league, true
}

func (h *Handler) readTable(ctx context.Context, path string, season, league int) (*tableResponse, error) {
	t, err := table.Read(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &apiError{http.StatusNotFound, "NOT_FOUND",
				fmt.Sprintf("no data for season %d league %d", season, league)}
		}
		return nil, err
	}
	return &tableResponse{
		Season:  season,
		League:  league,
		Table:   t.Name,
		Columns: t.Columns,
		Rows:    t.Records(),
	}, nil
}
