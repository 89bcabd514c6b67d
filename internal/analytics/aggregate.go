package analytics

import (
	"fmt"
	"sort"
	"time"

	"webstat/internal/events"
)

const topListSize = 5

// pageAccumulator collects per-page views and visitor sets split by device
// class during the aggregation pass.
type pageAccumulator struct {
	views           DeviceCount
	desktopVisitors stringSet
	mobileVisitors  stringSet
}

// BuildSummary folds an ordered batch of event records into a dashboard
// summary in a single pass plus finishing transforms. It owns no state across
// calls and is safe to run concurrently from multiple request contexts.
//
// Input order matters to the caller: recentEvents reports the first five
// records as given, and monthly buckets appear in first-encountered order.
// Callers wanting chronological output must supply chronologically ordered
// input; BuildSummary never sorts the batch itself.
func BuildSummary(records []events.Record, now time.Time) Summary {
	var totalViews DeviceCount
	visitors := map[string]stringSet{
		events.DeviceDesktop: {},
		events.DeviceMobile:  {},
	}
	durations := map[string][]float64{}
	var bounces DeviceCount

	months := map[string]*MonthlyCount{}
	var monthOrder []string

	pages := map[string]*pageAccumulator{}
	var pageOrder []string

	referrers := map[string]*DeviceCount{}
	var referrerOrder []string

	recent := make([]RecentEvent, 0, topListSize)

	for _, r := range records {
		device := events.ClassifyDevice(r.DeviceInfo)

		if device == events.DeviceMobile {
			totalViews.Mobile++
		} else {
			totalViews.Desktop++
		}
		visitors[device].add(r.SessionID)

		if r.Event == events.EventTypeTimeOnPage {
			if secs, ok := r.Seconds(); ok {
				durations[device] = append(durations[device], secs)
			}
		}
		if r.Event == events.EventTypeLeave && r.Page == "/" {
			if device == events.DeviceMobile {
				bounces.Mobile++
			} else {
				bounces.Desktop++
			}
		}

		page, ok := pages[r.Page]
		if !ok {
			page = &pageAccumulator{desktopVisitors: stringSet{}, mobileVisitors: stringSet{}}
			pages[r.Page] = page
			pageOrder = append(pageOrder, r.Page)
		}
		if device == events.DeviceMobile {
			page.views.Mobile++
			page.mobileVisitors.add(r.SessionID)
		} else {
			page.views.Desktop++
			page.desktopVisitors.add(r.SessionID)
		}

		if r.Referrer != "" {
			ref, ok := referrers[r.Referrer]
			if !ok {
				ref = &DeviceCount{}
				referrers[r.Referrer] = ref
				referrerOrder = append(referrerOrder, r.Referrer)
			}
			if device == events.DeviceMobile {
				ref.Mobile++
			} else {
				ref.Desktop++
			}
		}

		eventTime := r.Time()
		month := eventTime.Format("Jan")
		bucket, ok := months[month]
		if !ok {
			bucket = &MonthlyCount{Month: month}
			months[month] = bucket
			monthOrder = append(monthOrder, month)
		}
		if device == events.DeviceMobile {
			bucket.Mobile++
		} else {
			bucket.Desktop++
		}

		if len(recent) < topListSize {
			recent = append(recent, RecentEvent{
				Name:    r.SessionID,
				Action:  fmt.Sprintf("Performed event: %s", r.Event),
				TimeAgo: relativeLabel(now, eventTime),
			})
		}
	}

	monthly := make([]MonthlyCount, 0, len(monthOrder))
	for _, name := range monthOrder {
		monthly = append(monthly, *months[name])
	}

	return Summary{
		Overview: Overview{
			TotalPageViews: totalViews.Total(),
			UniqueVisitors: VisitorCounts{
				Total:   len(visitors[events.DeviceDesktop]) + len(visitors[events.DeviceMobile]),
				Desktop: len(visitors[events.DeviceDesktop]),
				Mobile:  len(visitors[events.DeviceMobile]),
			},
			AvgSessionDuration: DurationStrings{
				Total: formatAvgDuration(append(append([]float64{},
					durations[events.DeviceDesktop]...), durations[events.DeviceMobile]...)),
				Desktop: formatAvgDuration(durations[events.DeviceDesktop]),
				Mobile:  formatAvgDuration(durations[events.DeviceMobile]),
			},
			BounceRate: BounceRates{
				Total:   percentage(bounces.Total(), totalViews.Total()),
				Desktop: percentage(bounces.Desktop, totalViews.Desktop),
				Mobile:  percentage(bounces.Mobile, totalViews.Mobile),
			},
		},
		MonthlyData:  monthly,
		RecentEvents: recent,
		TopPages:     topPages(pages, pageOrder),
		TopReferrers: topReferrers(referrers, referrerOrder, totalViews.Total()),
	}
}

// topPages ranks pages descending by combined view count and keeps the first
// five. The stable sort preserves first-seen order between tied pages.
func topPages(pages map[string]*pageAccumulator, order []string) []PageStats {
	ranked := make([]PageStats, 0, len(order))
	for _, page := range order {
		acc := pages[page]
		ranked = append(ranked, PageStats{
			Page:                  page,
			DesktopViews:          acc.views.Desktop,
			MobileViews:           acc.views.Mobile,
			Views:                 acc.views.Total(),
			UniqueVisitors:        len(acc.desktopVisitors) + len(acc.mobileVisitors),
			DesktopUniqueVisitors: len(acc.desktopVisitors),
			MobileUniqueVisitors:  len(acc.mobileVisitors),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Views > ranked[j].Views
	})
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}

// topReferrers ranks non-empty referrers descending by combined visits, keeps
// the first five, and annotates each with its share of total page views.
func topReferrers(referrers map[string]*DeviceCount, order []string, totalPageViews int) []ReferrerStats {
	ranked := make([]ReferrerStats, 0, len(order))
	for _, source := range order {
		visits := referrers[source]
		ranked = append(ranked, ReferrerStats{
			Source:        source,
			DesktopVisits: visits.Desktop,
			MobileVisits:  visits.Mobile,
			Visits:        visits.Total(),
			Percentage:    percentage(visits.Total(), totalPageViews),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Visits > ranked[j].Visits
	})
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}
