package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	conversationID uint
	senderID       uint
	at             time.Time
}

type readKey struct {
	conversationID uint
	userID         uint
}

// fakeReadStore keeps messages and cursors in memory with the same counting
// rule as the SQL store: foreign messages newer than the cursor.
type fakeReadStore struct {
	messages []fakeMessage
	cursors  map[readKey]time.Time
}

func newFakeReadStore() *fakeReadStore {
	return &fakeReadStore{cursors: make(map[readKey]time.Time)}
}

func (s *fakeReadStore) GetRead(conversationID, userID uint) (*MessageRead, error) {
	at, ok := s.cursors[readKey{conversationID, userID}]
	if !ok {
		return nil, nil
	}
	return &MessageRead{ConversationID: conversationID, UserID: userID, LastReadAt: at}, nil
}

func (s *fakeReadStore) GetReadsForUser(userID uint) ([]MessageRead, error) {
	var reads []MessageRead
	for key, at := range s.cursors {
		if key.userID == userID {
			reads = append(reads, MessageRead{
				ConversationID: key.conversationID,
				UserID:         key.userID,
				LastReadAt:     at,
			})
		}
	}
	return reads, nil
}

func (s *fakeReadStore) CountMessagesAfter(conversationID, userID uint, after *time.Time) (int64, error) {
	var count int64
	for _, m := range s.messages {
		if m.conversationID != conversationID || m.senderID == userID {
			continue
		}
		if after != nil && !m.at.After(*after) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *fakeReadStore) UpsertRead(conversationID, userID uint, at time.Time) error {
	s.cursors[readKey{conversationID, userID}] = at
	return nil
}

func TestUnreadCountsOnlyMessagesAfterCursor(t *testing.T) {
	store := newFakeReadStore()
	base := time.Now().Add(-time.Hour)
	t1, t2, t3 := base, base.Add(time.Minute), base.Add(2*time.Minute)
	store.messages = []fakeMessage{
		{conversationID: 1, senderID: 2, at: t1},
		{conversationID: 1, senderID: 2, at: t2},
		{conversationID: 1, senderID: 2, at: t3},
	}
	store.cursors[readKey{1, 1}] = t2

	counter := NewUnreadCounter(store)
	unread, err := counter.Unread(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestUnreadAfterMarkReadIsZero(t *testing.T) {
	store := newFakeReadStore()
	base := time.Now().Add(-time.Hour)
	store.messages = []fakeMessage{
		{conversationID: 1, senderID: 2, at: base},
		{conversationID: 1, senderID: 2, at: base.Add(time.Minute)},
	}

	counter := NewUnreadCounter(store)
	unread, err := counter.Unread(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, counter.MarkRead(1, 1))

	unread, err = counter.Unread(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestUnreadIgnoresOwnMessages(t *testing.T) {
	store := newFakeReadStore()
	base := time.Now().Add(-time.Hour)
	store.messages = []fakeMessage{
		{conversationID: 1, senderID: 1, at: base},
		{conversationID: 1, senderID: 2, at: base.Add(time.Minute)},
	}

	counter := NewUnreadCounter(store)
	unread, err := counter.Unread(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestUnreadBatchColdStart(t *testing.T) {
	store := newFakeReadStore()
	base := time.Now().Add(-time.Hour)
	store.messages = []fakeMessage{
		{conversationID: 1, senderID: 2, at: base},
		{conversationID: 1, senderID: 2, at: base.Add(time.Minute)},
		{conversationID: 2, senderID: 3, at: base},
	}

	counter := NewUnreadCounter(store)
	counts, err := counter.UnreadBatch([]uint{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[1])
	assert.Equal(t, int64(1), counts[2])
	assert.Equal(t, int64(0), counts[3])
}

func TestUnreadBatchMixedCursors(t *testing.T) {
	store := newFakeReadStore()
	base := time.Now().Add(-time.Hour)
	store.messages = []fakeMessage{
		{conversationID: 1, senderID: 2, at: base},
		{conversationID: 1, senderID: 2, at: base.Add(time.Minute)},
		{conversationID: 2, senderID: 3, at: base},
	}
	store.cursors[readKey{1, 1}] = base

	counter := NewUnreadCounter(store)
	counts, err := counter.UnreadBatch([]uint{1, 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[1])
	assert.Equal(t, int64(1), counts[2])
}
