// Package analytics turns batches of event records into dashboard statistics.
// Everything here is pure: no I/O, no shared state, one summary per call.
package analytics

// DeviceCount is a per-device-class counter pair.
type DeviceCount struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
}

// Total returns the combined desktop and mobile count.
func (c DeviceCount) Total() int {
	return c.Desktop + c.Mobile
}

// VisitorCounts reports unique visitors per device scope.
type VisitorCounts struct {
	Total   int `json:"total"`
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
}

// DurationStrings reports formatted average session durations per device scope.
type DurationStrings struct {
	Total   string `json:"total"`
	Desktop string `json:"desktop"`
	Mobile  string `json:"mobile"`
}

// BounceRates reports bounce percentages per device scope.
type BounceRates struct {
	Total   float64 `json:"total"`
	Desktop float64 `json:"desktop"`
	Mobile  float64 `json:"mobile"`
}

// Overview carries the headline dashboard numbers.
type Overview struct {
	TotalPageViews     int             `json:"totalPageViews"`
	UniqueVisitors     VisitorCounts   `json:"uniqueVisitors"`
	AvgSessionDuration DurationStrings `json:"avgSessionDuration"`
	BounceRate         BounceRates     `json:"bounceRate"`
}

// MonthlyCount is one month bucket of the page-view trend. Buckets are keyed
// by month name only: events from different years sharing a month collapse
// into one bucket.
type MonthlyCount struct {
	Month   string `json:"month"`
	Desktop int    `json:"desktop"`
	Mobile  int    `json:"mobile"`
}

// PageStats reports views and unique visitors for one page. UniqueVisitors is
// the sum of the two device sets' sizes, so a session active on both classes
// counts twice.
type PageStats struct {
	Page                  string `json:"page"`
	DesktopViews          int    `json:"desktopViews"`
	MobileViews           int    `json:"mobileViews"`
	Views                 int    `json:"views"`
	UniqueVisitors        int    `json:"uniqueVisitors"`
	DesktopUniqueVisitors int    `json:"desktopUniqueVisitors"`
	MobileUniqueVisitors  int    `json:"mobileUniqueVisitors"`
}

// ReferrerStats reports visit counts for one referrer and its share of total
// page views.
type ReferrerStats struct {
	Source        string  `json:"source"`
	DesktopVisits int     `json:"desktopVisits"`
	MobileVisits  int     `json:"mobileVisits"`
	Visits        int     `json:"visits"`
	Percentage    float64 `json:"percentage"`
}

// RecentEvent is one entry of the dashboard activity feed.
type RecentEvent struct {
	Name    string `json:"name"`
	Action  string `json:"action"`
	TimeAgo string `json:"timeAgo"`
}

// Summary is the full dashboard payload produced by BuildSummary.
type Summary struct {
	Overview     Overview        `json:"overview"`
	MonthlyData  []MonthlyCount  `json:"monthlyData"`
	RecentEvents []RecentEvent   `json:"recentEvents"`
	TopPages     []PageStats     `json:"topPages"`
	TopReferrers []ReferrerStats `json:"topReferrers"`
}

// stringSet is the uniqueness primitive shared by the dashboard and
// site-scoped aggregators.
type stringSet map[string]struct{}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}

// tally is the frequency-map primitive shared by both aggregation paths.
func tally(m map[string]int, key string) {
	m[key]++
}
