package match

import (
	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// fakeMatchRepo is an in-memory MatchRepository. Unused interface methods
// panic through the embedded nil interface if a test reaches them.
type fakeMatchRepo struct {
	MatchRepository
	nextID    uint
	matches   map[uint]*Match
	chats     *fakeChatRepo
	atomicErr error
	createErr error
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[uint]*Match)}
}

func (f *fakeMatchRepo) Create(m *Match) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	stored := *m
	f.matches[m.ID] = &stored
	return nil
}

func (f *fakeMatchRepo) GetByID(id uint) (*Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatchRepo) GetDirectBetween(userA, userB uint) (*Match, error) {
	for _, m := range f.matches {
		if m.MatchType != TypeIndividualToIndividual {
			continue
		}
		if (m.UserID == userA && m.TargetUserID == userB) ||
			(m.UserID == userB && m.TargetUserID == userA) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMatchRepo) RecentByUser(userID uint, limit int) ([]Match, error) {
	var out []Match
	// Insertion ids are monotonic; walk them backwards for newest first.
	for id := f.nextID; id >= 1; id-- {
		m, ok := f.matches[id]
		if !ok || m.UserID != userID {
			continue
		}
		out = append(out, *m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateStatusIfPending(id uint, status string) (bool, error) {
	m, ok := f.matches[id]
	if !ok || m.Status != StatusPending {
		return false, nil
	}
	m.Status = status
	return true, nil
}

func (f *fakeMatchRepo) CreateWithConversation(m *Match, participants []uint) (*chat.Conversation, error) {
	if f.atomicErr != nil {
		return nil, f.atomicErr
	}
	if err := f.Create(m); err != nil {
		return nil, err
	}
	conversation := &chat.Conversation{Kind: chat.KindDirect, MatchID: &m.ID}
	if err := f.chats.CreateConversation(conversation); err != nil {
		return nil, err
	}
	for _, userID := range participants {
		if err := f.chats.AddParticipant(conversation.ID, userID); err != nil {
			return nil, err
		}
	}
	return conversation, nil
}

// fakeChatRepo covers the conversation and participant slice of the chat
// repository that the factory and resolver touch.
type fakeChatRepo struct {
	chat.ChatRepository
	nextID          uint
	conversations   map[uint]*chat.Conversation
	participants    map[uint][]uint
	conversationErr error
	participantErr  error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: make(map[uint]*chat.Conversation),
		participants:  make(map[uint][]uint),
	}
}

func (f *fakeChatRepo) CreateConversation(c *chat.Conversation) error {
	if f.conversationErr != nil {
		return f.conversationErr
	}
	f.nextID++
	c.ID = f.nextID
	stored := *c
	f.conversations[c.ID] = &stored
	return nil
}

func (f *fakeChatRepo) GetConversationByMatchID(matchID uint) (*chat.Conversation, error) {
	for _, c := range f.conversations {
		if c.MatchID != nil && *c.MatchID == matchID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) GetConversationByTeamID(teamID uint) (*chat.Conversation, error) {
	for _, c := range f.conversations {
		if c.TeamID != nil && *c.TeamID == teamID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) AddParticipant(conversationID, userID uint) error {
	if f.participantErr != nil {
		return f.participantErr
	}
	for _, existing := range f.participants[conversationID] {
		if existing == userID {
			return nil
		}
	}
	f.participants[conversationID] = append(f.participants[conversationID], userID)
	return nil
}

func (f *fakeChatRepo) addTeamConversation(teamID uint) *chat.Conversation {
	c := &chat.Conversation{Kind: chat.KindTeam, TeamID: &teamID}
	_ = f.CreateConversation(c)
	return f.conversations[c.ID]
}

// fakeTeamRepo covers membership checks and inserts.
type fakeTeamRepo struct {
	team.TeamRepository
	members   []team.TeamMember
	memberErr error
}

func (f *fakeTeamRepo) GetConfirmedMember(teamID, userID uint) (*team.TeamMember, error) {
	for i := range f.members {
		m := &f.members[i]
		if m.TeamID == teamID && m.UserID == userID && m.Status == team.MemberStatusConfirmed {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTeamRepo) IsConfirmedAdmin(teamID, userID uint) (bool, error) {
	for _, m := range f.members {
		if m.TeamID == teamID && m.UserID == userID &&
			m.Role == team.RoleAdmin && m.Status == team.MemberStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamRepo) AddMember(member *team.TeamMember) error {
	if f.memberErr != nil {
		return f.memberErr
	}
	f.members = append(f.members, *member)
	return nil
}

func (f *fakeTeamRepo) confirmedCount(teamID, userID uint) int {
	count := 0
	for _, m := range f.members {
		if m.TeamID == teamID && m.UserID == userID && m.Status == team.MemberStatusConfirmed {
			count++
		}
	}
	return count
}

// recordingSwipes captures factory events.
type recordingSwipes struct {
	events []SwipeEvent
}

func (r *recordingSwipes) RecordSwipe(event SwipeEvent) {
	r.events = append(r.events, event)
}
