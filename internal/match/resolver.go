package match

import (
	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
)

// AcceptOutcome reports what an accept call actually did. AlreadyMember is
// informational; the call still succeeded.
type AcceptOutcome struct {
	Match         *Match `json:"match"`
	AlreadyMember bool   `json:"already_member"`
}

// Resolver owns the pending to accepted or rejected transition for
// join-request matches and the membership side effects of acceptance.
type Resolver struct {
	matches MatchRepository
	teams   team.TeamRepository
	chats   chat.ChatRepository
	log     *logger.Logger
}

// NewResolver creates a join-request resolver.
func NewResolver(matches MatchRepository, teams team.TeamRepository, chats chat.ChatRepository) *Resolver {
	return &Resolver{
		matches: matches,
		teams:   teams,
		chats:   chats,
		log:     logger.New().WithField("component", "match_resolver"),
	}
}

// Accept resolves a pending join request in the acting user's favor: the
// individual side becomes a confirmed team member and joins the team
// conversation. Re-invoking on an already accepted match re-runs the side
// effects idempotently and succeeds.
func (r *Resolver) Accept(session middleware.Session, matchID uint) (*AcceptOutcome, error) {
	m, err := r.loadJoinRequest(matchID)
	if err != nil {
		return nil, err
	}
	if err := r.authorize(session, m); err != nil {
		return nil, err
	}

	switch m.Status {
	case StatusPending:
		// Status first: a stuck pending match with a member already added
		// heals on retry, an accepted match missing its member does not.
		changed, err := r.matches.UpdateStatusIfPending(m.ID, StatusAccepted)
		if err != nil {
			return nil, &CollaboratorUnavailableError{Op: "accept match", Err: err}
		}
		if !changed {
			// Lost a race. Re-read and fall through only if the winner also
			// accepted.
			current, err := r.matches.GetByID(m.ID)
			if err != nil {
				return nil, &CollaboratorUnavailableError{Op: "reload match", Err: err}
			}
			if current == nil {
				return nil, &InvalidStateError{MatchID: m.ID, Reason: "not found"}
			}
			if current.Status != StatusAccepted {
				return nil, &InvalidStateError{MatchID: m.ID, Status: current.Status}
			}
		}
		m.Status = StatusAccepted
	case StatusAccepted:
		// Idempotent retry; continue into the side effects.
	default:
		return nil, &InvalidStateError{MatchID: m.ID, Status: m.Status}
	}

	alreadyMember, err := r.ensureMembership(*m.TeamID, m.IndividualSide())
	if err != nil {
		return nil, err
	}
	if err := r.ensureConversationSeat(*m.TeamID, m.IndividualSide()); err != nil {
		return nil, err
	}

	r.log.WithFields(map[string]interface{}{
		"match_id":       m.ID,
		"team_id":        *m.TeamID,
		"user_id":        m.IndividualSide(),
		"already_member": alreadyMember,
	}).Info("join request accepted")
	return &AcceptOutcome{Match: m, AlreadyMember: alreadyMember}, nil
}

// Reject resolves a pending join request against the requester. Rejecting an
// already rejected match is an idempotent success.
func (r *Resolver) Reject(session middleware.Session, matchID uint) (*Match, error) {
	m, err := r.loadJoinRequest(matchID)
	if err != nil {
		return nil, err
	}
	if err := r.authorize(session, m); err != nil {
		return nil, err
	}

	switch m.Status {
	case StatusPending:
		changed, err := r.matches.UpdateStatusIfPending(m.ID, StatusRejected)
		if err != nil {
			return nil, &CollaboratorUnavailableError{Op: "reject match", Err: err}
		}
		if !changed {
			current, err := r.matches.GetByID(m.ID)
			if err != nil {
				return nil, &CollaboratorUnavailableError{Op: "reload match", Err: err}
			}
			if current == nil {
				return nil, &InvalidStateError{MatchID: m.ID, Reason: "not found"}
			}
			if current.Status != StatusRejected {
				return nil, &InvalidStateError{MatchID: m.ID, Status: current.Status}
			}
		}
		m.Status = StatusRejected
	case StatusRejected:
	default:
		return nil, &InvalidStateError{MatchID: m.ID, Status: m.Status}
	}

	r.log.WithField("match_id", m.ID).Info("join request rejected")
	return m, nil
}

func (r *Resolver) loadJoinRequest(matchID uint) (*Match, error) {
	m, err := r.matches.GetByID(matchID)
	if err != nil {
		return nil, &CollaboratorUnavailableError{Op: "load match", Err: err}
	}
	if m == nil {
		return nil, &InvalidStateError{MatchID: matchID, Reason: "not found"}
	}
	if !m.IsJoinRequest() {
		return nil, &InvalidStateError{MatchID: matchID, Reason: "direct matches have no accept or reject action"}
	}
	if m.TeamID == nil {
		return nil, &InvalidStateError{MatchID: matchID, Reason: "join request is missing its team"}
	}
	return m, nil
}

// authorize applies the derived rule: a team-initiated request is resolved by
// its target individual, an individual-initiated request by a confirmed admin
// of the target team.
func (r *Resolver) authorize(session middleware.Session, m *Match) error {
	switch m.MatchType {
	case TypeTeamToIndividual:
		if session.UserID == m.TargetUserID {
			return nil
		}
	case TypeIndividualToTeam:
		isAdmin, err := r.teams.IsConfirmedAdmin(*m.TeamID, session.UserID)
		if err != nil {
			return &CollaboratorUnavailableError{Op: "check team admin", Err: err}
		}
		if isAdmin {
			return nil
		}
	}
	return ErrNotAuthorized
}

// ensureMembership inserts the confirmed membership unless it already exists
// and reports whether it did.
func (r *Resolver) ensureMembership(teamID, userID uint) (bool, error) {
	existing, err := r.teams.GetConfirmedMember(teamID, userID)
	if err != nil {
		return false, &CollaboratorUnavailableError{Op: "check membership", Err: err}
	}
	if existing != nil {
		return true, nil
	}

	member := &team.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   team.RoleMember,
		Status: team.MemberStatusConfirmed,
	}
	if err := r.teams.AddMember(member); err != nil {
		return false, &PartialWriteError{Step: "team_member", Err: err}
	}
	return false, nil
}

// ensureConversationSeat adds the user to the team conversation. The
// participant insert is conflict-safe, so re-invocation cannot duplicate.
func (r *Resolver) ensureConversationSeat(teamID, userID uint) error {
	conversation, err := r.chats.GetConversationByTeamID(teamID)
	if err != nil {
		return &CollaboratorUnavailableError{Op: "load team conversation", Err: err}
	}
	if conversation == nil {
		// A team without its group conversation is tolerated; acceptance
		// still stands.
		r.log.WithField("team_id", teamID).Warn("team has no group conversation")
		return nil
	}
	if err := r.chats.AddParticipant(conversation.ID, userID); err != nil {
		return &PartialWriteError{Step: "conversation_participant", Err: err}
	}
	return nil
}
