package analytics

import (
	"fmt"

	"webstat/internal/events"
)

// SiteStats is the lightweight per-site aggregate used by the multi-site
// overview. It is a strict subset of the dashboard summary, built on the same
// grouping primitives.
type SiteStats struct {
	TotalEvents    int            `json:"totalEvents"`
	UniqueSessions int            `json:"uniqueSessions"`
	PageViews      map[string]int `json:"pageViews"`
	Referrers      map[string]int `json:"referrers"`
	Locations      map[string]int `json:"locations"`
}

// BuildSiteStats computes event totals, distinct sessions, and frequency maps
// by page, by non-empty referrer, and by "city, country" location string.
func BuildSiteStats(records []events.Record) SiteStats {
	sessions := stringSet{}
	stats := SiteStats{
		TotalEvents: len(records),
		PageViews:   map[string]int{},
		Referrers:   map[string]int{},
		Locations:   map[string]int{},
	}

	for _, r := range records {
		sessions.add(r.SessionID)
		tally(stats.PageViews, r.Page)
		if r.Referrer != "" {
			tally(stats.Referrers, r.Referrer)
		}
		tally(stats.Locations, fmt.Sprintf("%s, %s", r.Location.City, r.Location.Country))
	}

	stats.UniqueSessions = len(sessions)
	return stats
}
