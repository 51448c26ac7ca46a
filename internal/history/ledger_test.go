package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
)

func rightSwipe(userID, targetID, matchID uint) match.SwipeEvent {
	return match.SwipeEvent{
		UserID:        userID,
		Direction:     match.DirectionRight,
		TargetProfile: &profile.Profile{Model: gorm.Model{ID: targetID}},
		Match:         &match.Match{Model: gorm.Model{ID: matchID}},
	}
}

func leftSwipe(userID, targetID uint) match.SwipeEvent {
	return match.SwipeEvent{
		UserID:        userID,
		Direction:     match.DirectionLeft,
		TargetProfile: &profile.Profile{Model: gorm.Model{ID: targetID}},
	}
}

func TestLedgerRecordsInOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(leftSwipe(1, 10))
	ledger.RecordSwipe(rightSwipe(1, 11, 100))

	entries := ledger.Entries(1)
	require.Len(t, entries, 2)
	assert.Equal(t, match.DirectionLeft, entries[0].Direction)
	assert.Equal(t, match.DirectionRight, entries[1].Direction)
	assert.Equal(t, uint(100), entries[1].MatchID)
	assert.Equal(t, 1, ledger.MatchCount(1))
}

func TestLedgerIsPerUser(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(rightSwipe(1, 11, 100))
	ledger.RecordSwipe(rightSwipe(2, 12, 101))

	assert.Len(t, ledger.Entries(1), 1)
	assert.Len(t, ledger.Entries(2), 1)
	assert.Empty(t, ledger.Entries(3))
}

func TestUndoLastRestoresMatchCounter(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(rightSwipe(1, 11, 100))
	before := ledger.MatchCount(1)
	ledger.RecordSwipe(rightSwipe(1, 12, 101))

	removed, ok := ledger.UndoLast(1)
	require.True(t, ok)
	assert.Equal(t, uint(101), removed.MatchID)
	assert.Equal(t, before, ledger.MatchCount(1))
	assert.Len(t, ledger.Entries(1), 1)
}

func TestUndoLastLeftSwipeKeepsCounter(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(rightSwipe(1, 11, 100))
	ledger.RecordSwipe(leftSwipe(1, 12))

	_, ok := ledger.UndoLast(1)
	require.True(t, ok)
	assert.Equal(t, 1, ledger.MatchCount(1))
}

func TestUndoLastEmpty(t *testing.T) {
	ledger := NewLedger()
	_, ok := ledger.UndoLast(1)
	assert.False(t, ok)
}

func TestUndoAtRemovesExactlyOne(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(rightSwipe(1, 11, 100))
	ledger.RecordSwipe(leftSwipe(1, 12))
	ledger.RecordSwipe(rightSwipe(1, 13, 102))

	removed, ok := ledger.UndoAt(1, 0)
	require.True(t, ok)
	assert.Equal(t, uint(100), removed.MatchID)

	entries := ledger.Entries(1)
	require.Len(t, entries, 2)
	assert.Equal(t, match.DirectionLeft, entries[0].Direction)
	assert.Equal(t, uint(102), entries[1].MatchID)
	assert.Equal(t, 1, ledger.MatchCount(1))
}

func TestUndoAtOutOfRange(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(leftSwipe(1, 12))

	_, ok := ledger.UndoAt(1, 5)
	assert.False(t, ok)
	_, ok = ledger.UndoAt(1, -1)
	assert.False(t, ok)
}

func TestRestoreRecomputesCounter(t *testing.T) {
	ledger := NewLedger()
	ledger.RecordSwipe(leftSwipe(1, 10))

	ledger.Restore(1, []Entry{
		{SubjectType: SubjectUser, Direction: match.DirectionRight, MatchID: 100},
		{SubjectType: SubjectUser, Direction: match.DirectionRight, MatchID: 101},
	})

	assert.Len(t, ledger.Entries(1), 2)
	assert.Equal(t, 2, ledger.MatchCount(1))
}
