package events_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webstat/internal/events"
)

func validRecord() events.Record {
	return events.Record{
		Event:      events.EventTypePageView,
		Page:       "/pricing",
		Referrer:   "https://google.com",
		SessionID:  "ws-abc123",
		Timestamp:  "2024-06-01T10:30:00Z",
		DeviceInfo: "Win32, en-US, Mozilla/5.0",
		Location:   events.Location{City: "Berlin", Country: "Germany"},
	}
}

func TestEncodeDecodeMessage(t *testing.T) {
	record := validRecord()

	content, err := events.EncodeMessage(record)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "```json\n"))
	assert.True(t, strings.HasSuffix(content, "\n```"))

	decoded, err := events.DecodeMessage(content)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestDecodeMessageBareJSON(t *testing.T) {
	decoded, err := events.DecodeMessage(`{"event":"pageview","page":"/","session_id":"s1"}`)
	require.NoError(t, err)
	assert.Equal(t, "pageview", decoded.Event)
	assert.Equal(t, "/", decoded.Page)
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, err := events.DecodeMessage("hello, this channel also has chatter in it")
	assert.Error(t, err)

	_, err = events.DecodeMessage("```json\n{truncated\n```")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, events.Validate(validRecord()))

	tests := []struct {
		name   string
		mutate func(*events.Record)
	}{
		{name: "missing event type", mutate: func(r *events.Record) { r.Event = "" }},
		{name: "missing page", mutate: func(r *events.Record) { r.Page = "" }},
		{name: "missing session id", mutate: func(r *events.Record) { r.SessionID = "" }},
		{name: "missing timestamp", mutate: func(r *events.Record) { r.Timestamp = "" }},
		{name: "unparseable timestamp", mutate: func(r *events.Record) { r.Timestamp = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(&record)
			assert.Error(t, events.Validate(record))
		})
	}
}

func TestRecordTime(t *testing.T) {
	r := validRecord()
	assert.Equal(t, time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), r.Time())

	r.Timestamp = "not a time"
	assert.True(t, r.Time().IsZero())
}

func TestRecordSeconds(t *testing.T) {
	r := validRecord()
	r.Event = events.EventTypeTimeOnPage

	_, ok := r.Seconds()
	assert.False(t, ok, "no additional data")

	r.AdditionalData = map[string]any{"seconds": 42.0}
	secs, ok := r.Seconds()
	require.True(t, ok)
	assert.Equal(t, 42.0, secs)

	r.AdditionalData = map[string]any{"seconds": "42"}
	_, ok = r.Seconds()
	assert.False(t, ok, "non-numeric seconds are ignored")
}
