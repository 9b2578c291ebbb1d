package table

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Table names used inside the persisted files.
const (
	RosterName = "teams"
	StatsName  = "team_stats"
)

const fileExt = ".db"

// Layout maps (season, league) pairs to files under a data directory:
//
//	{Dir}/{season}/teams_{league}.db
//	{Dir}/{season}/team_stats_{league}.db
type Layout struct {
	Dir string
}

// SeasonDir returns the directory holding one season's files.
func (l Layout) SeasonDir(season int) string {
	return filepath.Join(l.Dir, strconv.Itoa(season))
}

// RosterPath returns the roster file for a season and league.
func (l Layout) RosterPath(season, league int) string {
	return filepath.Join(l.SeasonDir(season), fmt.Sprintf("%s_%d%s", RosterName, league, fileExt))
}

// StatsPath returns the team statistics file for a season and league.
func (l Layout) StatsPath(season, league int) string {
	return filepath.Join(l.SeasonDir(season), fmt.Sprintf("%s_%d%s", StatsName, league, fileExt))
}

// Seasons lists the season directories present under Dir, ascending.
func (l Layout) Seasons() ([]int, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, err
	}
	seasons := []int{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if n, err := strconv.Atoi(e.Name()); err == nil {
			seasons = append(seasons, n)
		}
	}
	sort.Ints(seasons)
	return seasons, nil
}
