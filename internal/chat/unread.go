package chat

import "time"

// ReadStore is the slice of ChatRepository the unread counter needs.
type ReadStore interface {
	GetRead(conversationID, userID uint) (*MessageRead, error)
	GetReadsForUser(userID uint) ([]MessageRead, error)
	CountMessagesAfter(conversationID, userID uint, after *time.Time) (int64, error)
	UpsertRead(conversationID, userID uint, at time.Time) error
}

// UnreadCounter derives per-conversation unread counts from the read cursor
// and message timestamps. A missing cursor means the user has never opened
// the conversation, so every foreign message counts.
type UnreadCounter struct {
	store ReadStore
}

// NewUnreadCounter creates an UnreadCounter over the given store.
func NewUnreadCounter(store ReadStore) *UnreadCounter {
	return &UnreadCounter{store: store}
}

// Unread returns the number of messages in the conversation that were sent by
// someone else after the user's last-read cursor.
func (u *UnreadCounter) Unread(conversationID, userID uint) (int64, error) {
	read, err := u.store.GetRead(conversationID, userID)
	if err != nil {
		return 0, err
	}
	var after *time.Time
	if read != nil {
		after = &read.LastReadAt
	}
	return u.store.CountMessagesAfter(conversationID, userID, after)
}

// UnreadBatch computes unread counts for a set of conversations with one
// cursor query plus one count per conversation. Correct when the user has no
// cursors at all.
func (u *UnreadCounter) UnreadBatch(conversationIDs []uint, userID uint) (map[uint]int64, error) {
	reads, err := u.store.GetReadsForUser(userID)
	if err != nil {
		return nil, err
	}
	cursors := make(map[uint]time.Time, len(reads))
	for _, r := range reads {
		cursors[r.ConversationID] = r.LastReadAt
	}

	counts := make(map[uint]int64, len(conversationIDs))
	for _, id := range conversationIDs {
		var after *time.Time
		if at, ok := cursors[id]; ok {
			t := at
			after = &t
		}
		n, err := u.store.CountMessagesAfter(id, userID, after)
		if err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, nil
}

// MarkRead advances the user's read cursor to now. Callers reset their local
// unread count to zero before this returns; on failure they must re-fetch to
// reconcile.
func (u *UnreadCounter) MarkRead(conversationID, userID uint) error {
	return u.store.UpsertRead(conversationID, userID, time.Now())
}
