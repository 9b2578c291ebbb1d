package collector

import (
	"fmt"
	"time"
)

// Result describes one saved league season.
type Result struct {
	Season     int
	League     int
	Teams      int
	StatsRows  int
	RosterPath string
	StatsPath  string
	Duration   time.Duration
}

// Summary returns a human-readable summary of the collection.
func (r Result) Summary() string {
	return fmt.Sprintf(
		"season=%d league=%d teams=%d team_stats=%d duration=%s",
		r.Season, r.League, r.Teams, r.StatsRows, r.Duration.Round(time.Millisecond),
	)
}
