package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

func profileWithID(id uint) *profile.Profile {
	return &profile.Profile{Model: gorm.Model{ID: id}, DisplayName: "p"}
}

func teamWithOwner(id, ownerID uint) *team.Team {
	return &team.Team{Model: gorm.Model{ID: id}, Name: "t", CreatedByID: ownerID}
}

func TestResolveShapeDirect(t *testing.T) {
	session := middleware.Session{UserID: 1}
	shape, err := ResolveShape(session, profileWithID(2), nil, false)
	require.NoError(t, err)

	direct, ok := shape.(IndividualToIndividual)
	require.True(t, ok)
	assert.Equal(t, uint(1), direct.ActorID)
	assert.Equal(t, uint(2), direct.TargetUserID)
	assert.Equal(t, []uint{1, 2}, shape.Participants())

	row := shape.Row()
	assert.Equal(t, TypeIndividualToIndividual, row.MatchType)
	assert.Equal(t, StatusPending, row.Status)
	assert.Nil(t, row.TeamID)
}

func TestResolveShapeActorWithTeam(t *testing.T) {
	teamID := uint(7)
	session := middleware.Session{UserID: 1, TeamID: &teamID, TeamRole: team.RoleAdmin}

	shape, err := ResolveShape(session, profileWithID(2), nil, false)
	require.NoError(t, err)

	teamShape, ok := shape.(TeamToIndividual)
	require.True(t, ok)
	assert.Equal(t, uint(7), teamShape.TeamID)

	row := shape.Row()
	assert.Equal(t, TypeTeamToIndividual, row.MatchType)
	require.NotNil(t, row.TeamID)
	assert.Equal(t, uint(7), *row.TeamID)
}

func TestResolveShapeAsTeamWithoutTeam(t *testing.T) {
	session := middleware.Session{UserID: 1}
	_, err := ResolveShape(session, profileWithID(2), nil, true)

	var noTeam *NoTeamError
	require.ErrorAs(t, err, &noTeam)
	assert.Equal(t, uint(1), noTeam.UserID)
}

func TestResolveShapeTargetTeam(t *testing.T) {
	session := middleware.Session{UserID: 4}
	shape, err := ResolveShape(session, nil, teamWithOwner(7, 3), false)
	require.NoError(t, err)

	row := shape.Row()
	assert.Equal(t, TypeIndividualToTeam, row.MatchType)
	assert.Equal(t, uint(4), row.UserID)
	assert.Equal(t, uint(3), row.TargetUserID)
	require.NotNil(t, row.TeamID)
	assert.Equal(t, uint(7), *row.TeamID)
}

func TestCreateFromSwipeSequential(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	recorder := &recordingSwipes{}

	factory := NewFactory(matches, chats, false)
	factory.AddRecorder(recorder)
	created := 0
	factory.OnMatchCreated(func(*CreateResult) { created++ })

	target := profileWithID(2)
	result, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, target, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Match)
	assert.Equal(t, StatusPending, result.Match.Status)
	require.NotNil(t, result.Conversation)
	assert.ElementsMatch(t, []uint{1, 2}, chats.participants[result.Conversation.ID])
	assert.False(t, result.Mutual)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, DirectionRight, recorder.events[0].Direction)
	assert.Equal(t, uint(1), recorder.events[0].UserID)
	assert.Equal(t, 1, created)
}

func TestCreateFromSwipeAtomic(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	matches.chats = chats

	factory := NewFactory(matches, chats, true)
	result, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Conversation)
	assert.ElementsMatch(t, []uint{1, 2}, chats.participants[result.Conversation.ID])
}

func TestCreateFromSwipeAtomicUnsupportedFallsBack(t *testing.T) {
	matches := newFakeMatchRepo()
	matches.atomicErr = ErrAtomicUnsupported
	chats := newFakeChatRepo()

	factory := NewFactory(matches, chats, true)
	result, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Conversation)
	assert.Len(t, matches.matches, 1)
}

func TestCreateFromSwipePartialWriteNamesStep(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	chats.conversationErr = errors.New("boom")

	factory := NewFactory(matches, chats, false)
	_, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)

	var partial *PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "conversation", partial.Step)
}

func TestCreateFromSwipeParticipantFailureNamesStep(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	chats.participantErr = errors.New("boom")

	factory := NewFactory(matches, chats, false)
	_, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)

	var partial *PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "participants", partial.Step)
}

func TestCreateFromSwipeMutualPromotesExisting(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()

	factory := NewFactory(matches, chats, false)

	// Bob swipes first, then Alice swipes back.
	first, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 2, TargetUserID: 1}, profileWithID(1), nil)
	require.NoError(t, err)

	second, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)
	require.NoError(t, err)

	assert.True(t, second.Mutual)
	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, StatusMatched, second.Match.Status)
	require.NotNil(t, second.Conversation)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Len(t, matches.matches, 1)
}

func TestCreateFromSwipeRepeatedByActorStaysPending(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	recorder := &recordingSwipes{}

	factory := NewFactory(matches, chats, false)
	factory.AddRecorder(recorder)

	// Alice swipes right on Bob twice; Bob never answers.
	first, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)
	require.NoError(t, err)

	second, err := factory.CreateFromSwipe(IndividualToIndividual{ActorID: 1, TargetUserID: 2}, profileWithID(2), nil)
	require.NoError(t, err)

	assert.False(t, second.Mutual)
	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, StatusPending, second.Match.Status)

	stored, _ := matches.GetByID(first.Match.ID)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Len(t, matches.matches, 1)

	require.NotNil(t, second.Conversation)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Len(t, recorder.events, 1)
}

func TestRecordSkipWritesNothing(t *testing.T) {
	matches := newFakeMatchRepo()
	chats := newFakeChatRepo()
	recorder := &recordingSwipes{}

	factory := NewFactory(matches, chats, false)
	factory.AddRecorder(recorder)

	factory.RecordSkip(1, profileWithID(2), nil)

	assert.Empty(t, matches.matches)
	assert.Empty(t, chats.conversations)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, DirectionLeft, recorder.events[0].Direction)
	assert.Nil(t, recorder.events[0].Match)
}
