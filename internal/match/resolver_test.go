package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

const (
	rocketTeamID = uint(7)
	carolID      = uint(3) // Rocket's admin
	daveID       = uint(4) // individual requesting to join
)

// joinRequestFixture seeds team Rocket with admin carol, its group
// conversation, and a pending individual_to_team request from dave.
func joinRequestFixture(t *testing.T) (*Resolver, *fakeMatchRepo, *fakeTeamRepo, *fakeChatRepo, *Match) {
	t.Helper()

	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	teams := &fakeTeamRepo{members: []team.TeamMember{{
		TeamID: rocketTeamID,
		UserID: carolID,
		Role:   team.RoleAdmin,
		Status: team.MemberStatusConfirmed,
	}}}
	chats.addTeamConversation(rocketTeamID)

	teamID := rocketTeamID
	request := &Match{
		UserID:       daveID,
		TargetUserID: carolID,
		TeamID:       &teamID,
		MatchType:    TypeIndividualToTeam,
		Status:       StatusPending,
	}
	require.NoError(t, matches.Create(request))

	return NewResolver(matches, teams, chats), matches, teams, chats, request
}

func carolSession() middleware.Session {
	teamID := rocketTeamID
	return middleware.Session{UserID: carolID, TeamID: &teamID, TeamRole: team.RoleAdmin}
}

func TestAcceptAddsMemberAndConversationSeat(t *testing.T) {
	resolver, matches, teams, chats, request := joinRequestFixture(t)

	outcome, err := resolver.Accept(carolSession(), request.ID)
	require.NoError(t, err)
	assert.False(t, outcome.AlreadyMember)
	assert.Equal(t, StatusAccepted, outcome.Match.Status)

	stored, _ := matches.GetByID(request.ID)
	assert.Equal(t, StatusAccepted, stored.Status)

	member, err := teams.GetConfirmedMember(rocketTeamID, daveID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, team.RoleMember, member.Role)

	conversation, _ := chats.GetConversationByTeamID(rocketTeamID)
	assert.Contains(t, chats.participants[conversation.ID], daveID)
}

func TestAcceptTwiceIsIdempotent(t *testing.T) {
	resolver, _, teams, chats, request := joinRequestFixture(t)

	_, err := resolver.Accept(carolSession(), request.ID)
	require.NoError(t, err)

	outcome, err := resolver.Accept(carolSession(), request.ID)
	require.NoError(t, err)
	assert.True(t, outcome.AlreadyMember)

	assert.Equal(t, 1, teams.confirmedCount(rocketTeamID, daveID))
	conversation, _ := chats.GetConversationByTeamID(rocketTeamID)
	assert.Len(t, chats.participants[conversation.ID], 1)
}

func TestAcceptExistingMemberSkipsInsert(t *testing.T) {
	resolver, matches, teams, _, request := joinRequestFixture(t)
	teams.members = append(teams.members, team.TeamMember{
		TeamID: rocketTeamID,
		UserID: daveID,
		Role:   team.RoleMember,
		Status: team.MemberStatusConfirmed,
	})

	outcome, err := resolver.Accept(carolSession(), request.ID)
	require.NoError(t, err)
	assert.True(t, outcome.AlreadyMember)
	assert.Equal(t, 1, teams.confirmedCount(rocketTeamID, daveID))

	stored, _ := matches.GetByID(request.ID)
	assert.Equal(t, StatusAccepted, stored.Status)
}

func TestAcceptUnauthorizedLeavesStateUntouched(t *testing.T) {
	resolver, matches, teams, _, request := joinRequestFixture(t)

	stranger := middleware.Session{UserID: 99}
	_, err := resolver.Accept(stranger, request.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)

	stored, _ := matches.GetByID(request.ID)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, 0, teams.confirmedCount(rocketTeamID, daveID))
}

func TestAcceptTeamInitiatedOnlyByTarget(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	teams := &fakeTeamRepo{}
	chats.addTeamConversation(rocketTeamID)

	teamID := rocketTeamID
	request := &Match{
		UserID:       carolID,
		TargetUserID: daveID,
		TeamID:       &teamID,
		MatchType:    TypeTeamToIndividual,
		Status:       StatusPending,
	}
	require.NoError(t, matches.Create(request))
	resolver := NewResolver(matches, teams, chats)

	// Even the initiating admin may not accept on the target's behalf.
	_, err := resolver.Accept(carolSession(), request.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)

	outcome, err := resolver.Accept(middleware.Session{UserID: daveID}, request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, outcome.Match.Status)
	assert.Equal(t, 1, teams.confirmedCount(rocketTeamID, daveID))
}

func TestAcceptNonPending(t *testing.T) {
	resolver, matches, _, _, request := joinRequestFixture(t)
	matches.matches[request.ID].Status = StatusRejected

	_, err := resolver.Accept(carolSession(), request.ID)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
}

func TestAcceptMissingMatch(t *testing.T) {
	resolver, _, _, _, _ := joinRequestFixture(t)

	_, err := resolver.Accept(carolSession(), 999)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
}

func TestAcceptDirectMatchHasNoAction(t *testing.T) {
	matches := newFakeMatchRepo()
	direct := &Match{UserID: 1, TargetUserID: 2, MatchType: TypeIndividualToIndividual, Status: StatusPending}
	require.NoError(t, matches.Create(direct))
	resolver := NewResolver(matches, &fakeTeamRepo{}, newFakeChatRepo())

	_, err := resolver.Accept(middleware.Session{UserID: 2}, direct.ID)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
}

func TestReject(t *testing.T) {
	resolver, matches, teams, _, request := joinRequestFixture(t)

	m, err := resolver.Reject(carolSession(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, m.Status)

	stored, _ := matches.GetByID(request.ID)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.Equal(t, 0, teams.confirmedCount(rocketTeamID, daveID))
}

func TestRejectTwiceIsIdempotent(t *testing.T) {
	resolver, _, _, _, request := joinRequestFixture(t)

	_, err := resolver.Reject(carolSession(), request.ID)
	require.NoError(t, err)

	m, err := resolver.Reject(carolSession(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, m.Status)
}

func TestRejectAcceptedFails(t *testing.T) {
	resolver, _, _, _, request := joinRequestFixture(t)

	_, err := resolver.Accept(carolSession(), request.ID)
	require.NoError(t, err)

	_, err = resolver.Reject(carolSession(), request.ID)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
}
