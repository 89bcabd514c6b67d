package channels_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webstat/internal/channels"
	"webstat/internal/testsupport"
)

func setupStore(t *testing.T) *channels.Store {
	t.Helper()
	db := testsupport.SetupTestDB(t)
	return channels.NewStore(db, testsupport.GetLogger())
}

func TestAppendAndRecent(t *testing.T) {
	store := setupStore(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		record := testsupport.NewRecord(fmt.Sprintf("s%d", i), "/", base.Add(time.Duration(i)*time.Minute))
		testsupport.AppendRecord(t, store, "chan-a", record)
	}

	msgs, err := store.Recent("chan-a", 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	// Newest first
	assert.Greater(t, msgs[0].ID, msgs[1].ID)
	assert.Greater(t, msgs[1].ID, msgs[2].ID)
}

func TestRecentIsScopedToChannel(t *testing.T) {
	store := setupStore(t)
	now := time.Now().UTC()

	testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord("s1", "/", now))
	testsupport.AppendRecord(t, store, "chan-b", testsupport.NewRecord("s2", "/", now))

	msgs, err := store.Recent("chan-a", 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "chan-a", msgs[0].ChannelID)
}

func TestRecentBeforeCursor(t *testing.T) {
	store := setupStore(t)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord(fmt.Sprintf("s%d", i), "/", now))
	}

	page1, err := store.Recent("chan-a", 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := store.Recent("chan-a", 2, page1[len(page1)-1].ID)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Less(t, page2[0].ID, page1[1].ID)
}

func TestRecentRecordsDropsUnparseableMessages(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := channels.NewStore(db, testsupport.GetLogger())
	now := time.Now().UTC()

	testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord("s1", "/", now))
	// A message that is not an event record at all
	require.NoError(t, db.Create(&channels.Message{
		ChannelID: "chan-a",
		Content:   "manual note someone typed into the channel",
		CreatedAt: now,
	}).Error)
	testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord("s2", "/about", now))

	records, err := store.RecentRecords("chan-a", 10)
	require.NoError(t, err)
	require.Len(t, records, 2, "the malformed message is dropped, not surfaced")
	assert.Equal(t, "s2", records[0].SessionID)
	assert.Equal(t, "s1", records[1].SessionID)
}

func TestRecentRecordsPaginated(t *testing.T) {
	store := setupStore(t)
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord(fmt.Sprintf("s%d", i), "/", now))
	}

	// Cap below the channel size: newest 10, scanned in batches of 4
	records, err := store.RecentRecordsPaginated("chan-a", 10, 4)
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, "s24", records[0].SessionID, "newest record first")
	assert.Equal(t, "s15", records[9].SessionID)

	// Cap above the channel size drains it
	records, err = store.RecentRecordsPaginated("chan-a", 100, 10)
	require.NoError(t, err)
	assert.Len(t, records, 25)
}

func TestRecentRecordsPaginatedEmptyChannel(t *testing.T) {
	store := setupStore(t)

	records, err := store.RecentRecordsPaginated("missing", 1000, 100)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsCarryMessageID(t *testing.T) {
	store := setupStore(t)
	testsupport.AppendRecord(t, store, "chan-a", testsupport.NewRecord("s1", "/", time.Now().UTC()))

	records, err := store.RecentRecords("chan-a", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
}
