package history

import (
	"sync"
	"time"

	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

const (
	SubjectUser = "user"
	SubjectTeam = "team"
)

// Entry is one swipe in a user's activity ledger. It carries a snapshot of
// the swiped subject so the activity list renders without extra lookups.
type Entry struct {
	SubjectType string           `json:"subject_type"`
	Profile     *profile.Profile `json:"profile,omitempty"`
	Team        *team.Team       `json:"team,omitempty"`
	Direction   string           `json:"direction"`
	MatchID     uint             `json:"match_id,omitempty"`
	SwipedAt    time.Time        `json:"swiped_at"`
}

// Ledger is the in-memory, per-user record of swipe activity for the current
// process. It is an optimization over the persisted matches, never a second
// source of truth; undo only rolls back this local view.
type Ledger struct {
	mu      sync.RWMutex
	entries map[uint][]Entry
	// rights counts in-session right swipes per user, the number the UI shows
	// next to "matches". Undo restores it.
	rights map[uint]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[uint][]Entry),
		rights:  make(map[uint]int),
	}
}

// RecordSwipe appends the swipe to the acting user's ledger. Implements the
// factory's recorder hook.
func (l *Ledger) RecordSwipe(event match.SwipeEvent) {
	entry := Entry{
		Direction: event.Direction,
		SwipedAt:  time.Now(),
	}
	if event.TargetTeam != nil {
		entry.SubjectType = SubjectTeam
		entry.Team = event.TargetTeam
	} else {
		entry.SubjectType = SubjectUser
		entry.Profile = event.TargetProfile
	}
	if event.Match != nil {
		entry.MatchID = event.Match.ID
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[event.UserID] = append(l.entries[event.UserID], entry)
	if entry.Direction == match.DirectionRight {
		l.rights[event.UserID]++
	}
}

// Entries returns a copy of the user's ledger, oldest first.
func (l *Ledger) Entries(userID uint) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.entries[userID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the number of entries in the user's ledger.
func (l *Ledger) Len(userID uint) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries[userID])
}

// MatchCount returns the in-session right-swipe counter for the user.
func (l *Ledger) MatchCount(userID uint) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rights[userID]
}

// UndoLast removes the most recent entry and rolls back the local match
// counter when it was a right swipe. Persisted rows are untouched; the other
// side of a join request keeps seeing it.
func (l *Ledger) UndoLast(userID uint) (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.entries[userID]
	if len(entries) == 0 {
		return nil, false
	}
	return l.removeAt(userID, len(entries)-1), true
}

// UndoAt removes the entry at the given index with the same local-only
// rollback semantics as UndoLast.
func (l *Ledger) UndoAt(userID uint, index int) (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries[userID]) {
		return nil, false
	}
	return l.removeAt(userID, index), true
}

// removeAt must be called with the write lock held.
func (l *Ledger) removeAt(userID uint, index int) *Entry {
	entries := l.entries[userID]
	removed := entries[index]
	l.entries[userID] = append(entries[:index], entries[index+1:]...)
	if removed.Direction == match.DirectionRight && l.rights[userID] > 0 {
		l.rights[userID]--
	}
	return &removed
}

// Restore replaces the user's ledger with a reconstructed sequence and
// recomputes the match counter from it.
func (l *Ledger) Restore(userID uint, entries []Entry) {
	rights := 0
	for _, entry := range entries {
		if entry.Direction == match.DirectionRight {
			rights++
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[userID] = entries
	l.rights[userID] = rights
}
