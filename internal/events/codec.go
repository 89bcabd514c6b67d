package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// EncodeMessage renders a record as a fenced JSON text block, the on-channel
// message format.
func EncodeMessage(r Record) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return fenceOpen + "\n" + string(body) + "\n" + fenceClose, nil
}

// DecodeMessage strips the JSON fences from a channel message and parses the
// record inside. Messages that are not fenced are parsed as bare JSON.
func DecodeMessage(content string) (Record, error) {
	body := strings.TrimSpace(content)
	body = strings.ReplaceAll(body, fenceOpen, "")
	body = strings.ReplaceAll(body, fenceClose, "")
	body = strings.TrimSpace(body)

	var r Record
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return r, nil
}

// Validate checks the fields a record must carry before it is stored.
// Aggregation itself is total over stored records, so validation happens
// once, here, at ingestion.
func Validate(r Record) error {
	if r.Event == "" {
		return fmt.Errorf("record is missing an event type")
	}
	if r.Page == "" {
		return fmt.Errorf("record is missing a page")
	}
	if r.SessionID == "" {
		return fmt.Errorf("record is missing a session id")
	}
	if r.Timestamp == "" {
		return fmt.Errorf("record is missing a timestamp")
	}
	if r.Time().IsZero() {
		return fmt.Errorf("record timestamp %q is not parseable", r.Timestamp)
	}
	return nil
}
