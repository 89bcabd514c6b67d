package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webstat/internal/analytics"
	"webstat/internal/events"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func pageview(sessionID, page, deviceInfo string, ts time.Time) events.Record {
	return events.Record{
		Event:      events.EventTypePageView,
		Page:       page,
		SessionID:  sessionID,
		DeviceInfo: deviceInfo,
		Timestamp:  ts.Format(time.RFC3339),
	}
}

func TestBuildSummaryEmptyInput(t *testing.T) {
	summary := analytics.BuildSummary(nil, testNow)

	assert.Equal(t, 0, summary.Overview.TotalPageViews)
	assert.Equal(t, 0, summary.Overview.UniqueVisitors.Total)
	assert.Equal(t, 0, summary.Overview.UniqueVisitors.Desktop)
	assert.Equal(t, 0, summary.Overview.UniqueVisitors.Mobile)

	assert.Equal(t, "0s", summary.Overview.AvgSessionDuration.Total)
	assert.Equal(t, "0s", summary.Overview.AvgSessionDuration.Desktop)
	assert.Equal(t, "0s", summary.Overview.AvgSessionDuration.Mobile)

	assert.Empty(t, summary.MonthlyData)
	assert.Empty(t, summary.TopPages)
	assert.Empty(t, summary.TopReferrers)
	assert.Empty(t, summary.RecentEvents)
}

func TestBuildSummarySingleDesktopPageview(t *testing.T) {
	records := []events.Record{
		{
			Event:      events.EventTypePageView,
			Page:       "/",
			SessionID:  "s1",
			DeviceInfo: "Windows",
			Timestamp:  "2024-01-01T00:00:00Z",
			Referrer:   "",
		},
	}

	summary := analytics.BuildSummary(records, testNow)

	assert.Equal(t, 1, summary.Overview.TotalPageViews)
	assert.Equal(t, 1, summary.Overview.UniqueVisitors.Desktop)
	assert.Equal(t, 0, summary.Overview.UniqueVisitors.Mobile)
	require.Len(t, summary.MonthlyData, 1)
	assert.Equal(t, analytics.MonthlyCount{Month: "Jan", Desktop: 1, Mobile: 0}, summary.MonthlyData[0])
}

func TestBuildSummaryAvgSessionDuration(t *testing.T) {
	mk := func(seconds float64) events.Record {
		return events.Record{
			Event:          events.EventTypeTimeOnPage,
			Page:           "/",
			SessionID:      "s1",
			DeviceInfo:     "Windows",
			Timestamp:      "2024-03-01T00:00:00Z",
			AdditionalData: map[string]any{"seconds": seconds},
		}
	}
	records := []events.Record{mk(30), mk(90)}

	summary := analytics.BuildSummary(records, testNow)

	// (30 + 90) / 2 = 60 seconds
	assert.Equal(t, "1m 0s", summary.Overview.AvgSessionDuration.Desktop)
	assert.Equal(t, "1m 0s", summary.Overview.AvgSessionDuration.Total)
	assert.Equal(t, "0s", summary.Overview.AvgSessionDuration.Mobile)
}

func TestBuildSummaryBounceRate(t *testing.T) {
	records := []events.Record{
		pageview("s1", "/", "Windows", testNow),
		{
			Event:      events.EventTypeLeave,
			Page:       "/",
			SessionID:  "s1",
			DeviceInfo: "Windows",
			Timestamp:  testNow.Format(time.RFC3339),
		},
	}

	summary := analytics.BuildSummary(records, testNow)

	assert.Equal(t, 50.0, summary.Overview.BounceRate.Desktop)
	assert.Equal(t, 50.0, summary.Overview.BounceRate.Total)
}

func TestBuildSummaryBounceOnlyCountsRootLeave(t *testing.T) {
	records := []events.Record{
		pageview("s1", "/about", "Windows", testNow),
		{
			Event:      events.EventTypeLeave,
			Page:       "/about",
			SessionID:  "s1",
			DeviceInfo: "Windows",
			Timestamp:  testNow.Format(time.RFC3339),
		},
	}

	summary := analytics.BuildSummary(records, testNow)
	assert.Equal(t, 0.0, summary.Overview.BounceRate.Desktop)
}

func TestBuildSummaryBounceRateZeroPageViews(t *testing.T) {
	// A device class with no page views reports 0, not NaN: encoding/json
	// cannot marshal NaN, so the zero-denominator case clamps.
	records := []events.Record{pageview("s1", "/", "Windows", testNow)}

	summary := analytics.BuildSummary(records, testNow)

	assert.Equal(t, 0.0, summary.Overview.BounceRate.Mobile)
}

func TestBuildSummaryDeviceSplit(t *testing.T) {
	records := []events.Record{
		pageview("s1", "/", "Windows Desktop", testNow),
		pageview("s2", "/", "iPhone Mobile Safari", testNow),
		pageview("s3", "/", "MOBILE", testNow),
	}

	summary := analytics.BuildSummary(records, testNow)

	assert.Equal(t, 3, summary.Overview.TotalPageViews)
	assert.Equal(t, 1, summary.Overview.UniqueVisitors.Desktop)
	assert.Equal(t, 2, summary.Overview.UniqueVisitors.Mobile)
}

func TestBuildSummaryMonthlySumMatchesTotalViews(t *testing.T) {
	var records []events.Record
	months := []time.Month{time.January, time.March, time.March, time.July, time.December}
	for i, m := range months {
		device := "Windows"
		if i%2 == 1 {
			device = "Android Mobile"
		}
		ts := time.Date(2024, m, 10, 0, 0, 0, 0, time.UTC)
		records = append(records, pageview(fmt.Sprintf("s%d", i), "/", device, ts))
	}

	summary := analytics.BuildSummary(records, testNow)

	sum := 0
	for _, bucket := range summary.MonthlyData {
		sum += bucket.Desktop + bucket.Mobile
	}
	assert.Equal(t, summary.Overview.TotalPageViews, sum,
		"every event lands in exactly one month bucket and one device class")
}

func TestBuildSummaryMonthBucketsIgnoreYear(t *testing.T) {
	records := []events.Record{
		pageview("s1", "/", "Windows", time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)),
		pageview("s2", "/", "Windows", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.MonthlyData, 1)
	assert.Equal(t, "May", summary.MonthlyData[0].Month)
	assert.Equal(t, 2, summary.MonthlyData[0].Desktop)
}

func TestBuildSummaryMonthOrderFollowsFirstOccurrence(t *testing.T) {
	records := []events.Record{
		pageview("s1", "/", "Windows", time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)),
		pageview("s2", "/", "Windows", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		pageview("s3", "/", "Windows", time.Date(2024, time.July, 2, 0, 0, 0, 0, time.UTC)),
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.MonthlyData, 2)
	assert.Equal(t, "Jul", summary.MonthlyData[0].Month)
	assert.Equal(t, "Feb", summary.MonthlyData[1].Month)
}

func TestBuildSummaryTopPages(t *testing.T) {
	var records []events.Record
	// 7 distinct pages; page "/p3" gets the most views
	for i := 0; i < 7; i++ {
		page := fmt.Sprintf("/p%d", i)
		records = append(records, pageview("s1", page, "Windows", testNow))
	}
	for i := 0; i < 3; i++ {
		records = append(records, pageview(fmt.Sprintf("v%d", i), "/p3", "Windows", testNow))
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.TopPages, 5)
	assert.Equal(t, "/p3", summary.TopPages[0].Page)
	assert.Equal(t, 4, summary.TopPages[0].Views)
	for i := 1; i < len(summary.TopPages); i++ {
		assert.GreaterOrEqual(t, summary.TopPages[i-1].Views, summary.TopPages[i].Views)
	}
	// Remaining slots keep first-seen order among the tied single-view pages
	assert.Equal(t, "/p0", summary.TopPages[1].Page)
	assert.Equal(t, "/p1", summary.TopPages[2].Page)
}

func TestBuildSummaryTopPagesUniqueVisitorsSumAcrossDevices(t *testing.T) {
	// One session active on both device classes is counted once per class:
	// the combined figure sums the two sets instead of unioning them.
	records := []events.Record{
		pageview("s1", "/", "Windows", testNow),
		pageview("s1", "/", "Android Mobile", testNow),
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.TopPages, 1)
	assert.Equal(t, 1, summary.TopPages[0].DesktopUniqueVisitors)
	assert.Equal(t, 1, summary.TopPages[0].MobileUniqueVisitors)
	assert.Equal(t, 2, summary.TopPages[0].UniqueVisitors)
}

func TestBuildSummaryTopReferrers(t *testing.T) {
	mk := func(session, referrer string) events.Record {
		r := pageview(session, "/", "Windows", testNow)
		r.Referrer = referrer
		return r
	}
	records := []events.Record{
		mk("s1", "https://google.com"),
		mk("s2", "https://google.com"),
		mk("s3", "https://twitter.com"),
		mk("s4", ""),
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.TopReferrers, 2)
	assert.Equal(t, "https://google.com", summary.TopReferrers[0].Source)
	assert.Equal(t, 2, summary.TopReferrers[0].Visits)
	assert.Equal(t, 50.0, summary.TopReferrers[0].Percentage)
	assert.Equal(t, "https://twitter.com", summary.TopReferrers[1].Source)
	assert.Equal(t, 25.0, summary.TopReferrers[1].Percentage)

	for _, ref := range summary.TopReferrers {
		assert.NotEmpty(t, ref.Source, "empty referrers never appear in the top list")
	}
}

func TestBuildSummaryTopReferrersCappedAtFive(t *testing.T) {
	var records []events.Record
	for i := 0; i < 8; i++ {
		r := pageview(fmt.Sprintf("s%d", i), "/", "Windows", testNow)
		r.Referrer = fmt.Sprintf("https://ref%d.example", i)
		records = append(records, r)
	}

	summary := analytics.BuildSummary(records, testNow)
	assert.Len(t, summary.TopReferrers, 5)
}

func TestBuildSummaryRecentEvents(t *testing.T) {
	var records []events.Record
	for i := 0; i < 8; i++ {
		records = append(records, pageview(fmt.Sprintf("s%d", i), "/", "Windows", testNow))
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.RecentEvents, 5)
	// Input order is preserved
	assert.Equal(t, "s0", summary.RecentEvents[0].Name)
	assert.Equal(t, "s4", summary.RecentEvents[4].Name)
	assert.Equal(t, "Performed event: pageview", summary.RecentEvents[0].Action)
}

func TestBuildSummaryRecentEventLabels(t *testing.T) {
	mk := func(session string, ts time.Time) events.Record {
		return pageview(session, "/", "Windows", ts)
	}
	records := []events.Record{
		mk("a", testNow),
		mk("b", testNow.Add(-5*time.Minute)),
		mk("c", testNow.Add(-3*time.Hour)),
		mk("d", testNow.Add(-49*time.Hour)),
	}

	summary := analytics.BuildSummary(records, testNow)

	require.Len(t, summary.RecentEvents, 4)
	assert.Equal(t, "Just now", summary.RecentEvents[0].TimeAgo)
	assert.Equal(t, "5 mins ago", summary.RecentEvents[1].TimeAgo)
	assert.Equal(t, "3 hrs ago", summary.RecentEvents[2].TimeAgo)
	assert.Equal(t, "2 days ago", summary.RecentEvents[3].TimeAgo)
}

func TestBuildSummaryMissingFieldsGroupUnderEmptyKey(t *testing.T) {
	records := []events.Record{
		{Event: events.EventTypePageView, DeviceInfo: "Windows", Timestamp: testNow.Format(time.RFC3339)},
		pageview("s1", "/", "Windows", testNow),
	}

	summary := analytics.BuildSummary(records, testNow)

	assert.Equal(t, 2, summary.Overview.TotalPageViews)
	// Missing page and session id participate under the empty-string key
	assert.Equal(t, 2, summary.Overview.UniqueVisitors.Desktop)
	assert.Len(t, summary.TopPages, 2)
}
