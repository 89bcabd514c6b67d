package events

import "time"

// Known event types reported by the tracking script. The set is open: records
// carrying unknown types still aggregate, they just have no special handling.
const (
	EventTypePageView       = "pageview"
	EventTypeClick          = "click"
	EventTypeFormSubmission = "form_submission"
	EventTypeTimeOnPage     = "time_on_page"
	EventTypeLeave          = "leave"
	EventTypeScroll         = "scroll"
)

// Location is the best-effort geo lookup result attached to a record at
// ingestion time. City and Country degrade to "Unknown" on lookup failure.
type Location struct {
	IP       string `json:"ip,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Record is one tracked analytics event as it is stored in a site channel.
type Record struct {
	ID             string         `json:"id,omitempty"`
	Event          string         `json:"event"`
	Page           string         `json:"page"`
	Referrer       string         `json:"referrer"`
	SessionID      string         `json:"session_id"`
	Timestamp      string         `json:"timestamp"`
	DeviceInfo     string         `json:"device_info"`
	Location       Location       `json:"location"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

// Time parses the record timestamp. Records are validated at ingestion, so a
// stored record's timestamp parses; anything else yields the zero time.
func (r Record) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Seconds returns the numeric "seconds" payload of a time_on_page record.
func (r Record) Seconds() (float64, bool) {
	v, ok := r.AdditionalData["seconds"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
