package match

import (
	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// Shape is the resolved form of a right swipe. Each variant carries exactly
// the fields its match type needs, so a team-involving match can never be
// built without a team id.
type Shape interface {
	Type() string
	// Row builds the pending match row for this shape.
	Row() *Match
	// Participants returns the user ids seated in the match conversation.
	Participants() []uint
}

// IndividualToIndividual is a direct swipe between two users without teams.
type IndividualToIndividual struct {
	ActorID      uint
	TargetUserID uint
}

func (s IndividualToIndividual) Type() string { return TypeIndividualToIndividual }

func (s IndividualToIndividual) Row() *Match {
	return &Match{
		UserID:       s.ActorID,
		TargetUserID: s.TargetUserID,
		MatchType:    TypeIndividualToIndividual,
		Status:       StatusPending,
	}
}

func (s IndividualToIndividual) Participants() []uint {
	return []uint{s.ActorID, s.TargetUserID}
}

// TeamToIndividual is a swipe made on behalf of the actor's team; the actor
// sits in the conversation as the team's representative.
type TeamToIndividual struct {
	TeamID       uint
	ActorID      uint
	TargetUserID uint
}

func (s TeamToIndividual) Type() string { return TypeTeamToIndividual }

func (s TeamToIndividual) Row() *Match {
	teamID := s.TeamID
	return &Match{
		UserID:       s.ActorID,
		TargetUserID: s.TargetUserID,
		TeamID:       &teamID,
		MatchType:    TypeTeamToIndividual,
		Status:       StatusPending,
	}
}

func (s TeamToIndividual) Participants() []uint {
	return []uint{s.ActorID, s.TargetUserID}
}

// IndividualToTeam is a swipe on a team; the team's owner is recorded as the
// target and acts as primary contact.
type IndividualToTeam struct {
	ActorID     uint
	TeamID      uint
	TeamOwnerID uint
}

func (s IndividualToTeam) Type() string { return TypeIndividualToTeam }

func (s IndividualToTeam) Row() *Match {
	teamID := s.TeamID
	return &Match{
		UserID:       s.ActorID,
		TargetUserID: s.TeamOwnerID,
		TeamID:       &teamID,
		MatchType:    TypeIndividualToTeam,
		Status:       StatusPending,
	}
}

func (s IndividualToTeam) Participants() []uint {
	return []uint{s.ActorID, s.TeamOwnerID}
}

// ResolveShape picks the match shape for a right swipe. Exactly one of
// targetProfile and targetTeam must be set. asTeam forces the team-scoped
// path and fails with NoTeamError when the session has no team; otherwise a
// session with a team swipes on its team's behalf automatically.
func ResolveShape(session middleware.Session, targetProfile *profile.Profile, targetTeam *team.Team, asTeam bool) (Shape, error) {
	if targetTeam != nil {
		return IndividualToTeam{
			ActorID:     session.UserID,
			TeamID:      targetTeam.ID,
			TeamOwnerID: targetTeam.CreatedByID,
		}, nil
	}

	if asTeam && !session.HasTeam() {
		return nil, &NoTeamError{UserID: session.UserID}
	}
	if session.HasTeam() {
		return TeamToIndividual{
			TeamID:       *session.TeamID,
			ActorID:      session.UserID,
			TargetUserID: targetProfile.ID,
		}, nil
	}
	return IndividualToIndividual{
		ActorID:      session.UserID,
		TargetUserID: targetProfile.ID,
	}, nil
}
