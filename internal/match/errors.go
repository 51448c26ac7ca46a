package match

import (
	"errors"
	"fmt"
)

// ErrAtomicUnsupported signals that the storage layer cannot run the
// create-match-with-conversation procedure as one unit; the factory falls
// back to sequential inserts.
var ErrAtomicUnsupported = errors.New("atomic match creation unsupported")

// ErrNotAuthorized signals that the acting user may not resolve this match.
var ErrNotAuthorized = errors.New("not authorized to resolve this match")

// NoTeamError is returned when a team-scoped swipe is attempted by a user
// with no team. It is raised before any write occurs.
type NoTeamError struct {
	UserID uint
}

func (e *NoTeamError) Error() string {
	return fmt.Sprintf("user %d has no team and cannot swipe on behalf of one", e.UserID)
}

// InvalidStateError is returned when accept or reject is attempted on a
// missing match, a non-pending match, or a match that is not a join request.
type InvalidStateError struct {
	MatchID uint
	Status  string
	Reason  string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("match %d: %s", e.MatchID, e.Reason)
	}
	return fmt.Sprintf("match %d is %s, expected pending", e.MatchID, e.Status)
}

// PartialWriteError reports a failure partway through a multi-step write. It
// names the step so the caller never mistakes a match without a conversation
// for success.
type PartialWriteError struct {
	Step string
	Err  error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("write failed at step %q: %v", e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// CollaboratorUnavailableError wraps an I/O failure from the persistence
// layer. No local state is assumed to have changed unless confirmed.
type CollaboratorUnavailableError struct {
	Op  string
	Err error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("persistence unavailable during %s: %v", e.Op, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Err }
