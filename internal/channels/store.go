// Package channels implements the per-site append-only event log. Each site
// owns one channel; events are stored as fenced JSON text messages and read
// back through a bounded recent-window, mirroring a chat platform's message
// fetch contract.
package channels

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"webstat/internal/events"
)

// Message is one stored channel entry. IDs are monotonically increasing and
// double as the pagination cursor.
type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChannelID string    `gorm:"index;not null" json:"channel_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Store reads and appends channel messages.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a channel store on the given connection.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Append encodes a record as a fenced JSON message and appends it to the
// channel.
func (s *Store) Append(channelID string, record events.Record) (*Message, error) {
	content, err := events.EncodeMessage(record)
	if err != nil {
		return nil, err
	}
	msg := &Message{
		ChannelID: channelID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append message to channel %s: %w", channelID, err)
	}
	return msg, nil
}

// Recent returns up to limit messages from the channel, newest first. A
// non-zero before cursor restricts the window to messages older than that id.
func (s *Store) Recent(channelID string, limit int, before uint) ([]Message, error) {
	query := s.db.Where("channel_id = ?", channelID)
	if before > 0 {
		query = query.Where("id < ?", before)
	}

	var msgs []Message
	if err := query.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages for channel %s: %w", channelID, err)
	}
	return msgs, nil
}

// RecentRecords returns up to limit parsed records from the channel, newest
// first. Messages that do not decode as event records are dropped with a
// debug log, never surfaced as errors.
func (s *Store) RecentRecords(channelID string, limit int) ([]events.Record, error) {
	msgs, err := s.Recent(channelID, limit, 0)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(msgs), nil
}

// RecentRecordsPaginated walks the channel backwards in fixed-size batches
// until max messages have been scanned or the channel is exhausted, returning
// the parsed records newest first. This is the dashboard read path: max 1000,
// batches of 100 by default.
func (s *Store) RecentRecordsPaginated(channelID string, max, batchSize int) ([]events.Record, error) {
	var records []events.Record
	var cursor uint
	fetched := 0

	for fetched < max {
		limit := batchSize
		if remaining := max - fetched; remaining < limit {
			limit = remaining
		}

		msgs, err := s.Recent(channelID, limit, cursor)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			break
		}

		records = append(records, s.decodeAll(msgs)...)
		cursor = msgs[len(msgs)-1].ID
		fetched += len(msgs)
	}

	return records, nil
}

func (s *Store) decodeAll(msgs []Message) []events.Record {
	records := make([]events.Record, 0, len(msgs))
	for _, msg := range msgs {
		record, err := events.DecodeMessage(msg.Content)
		if err != nil {
			s.logger.Debug("Skipping unparseable channel message",
				slog.Uint64("message_id", uint64(msg.ID)),
				slog.Any("error", err))
			continue
		}
		record.ID = fmt.Sprintf("%d", msg.ID)
		records = append(records, record)
	}
	return records
}
