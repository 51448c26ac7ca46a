package match

import (
	"errors"

	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
)

// SwipeEvent describes a completed swipe for observers such as the activity
// ledger. Match is nil for left swipes.
type SwipeEvent struct {
	UserID        uint
	Direction     string
	TargetProfile *profile.Profile
	TargetTeam    *team.Team
	Match         *Match
}

// SwipeRecorder receives every swipe the factory processes.
type SwipeRecorder interface {
	RecordSwipe(event SwipeEvent)
}

// CreateResult is the outcome of a right swipe.
type CreateResult struct {
	Match          *Match             `json:"match"`
	Conversation   *chat.Conversation `json:"conversation"`
	// Mutual is true when the swipe completed an existing direct match
	// instead of opening a new one.
	Mutual bool `json:"mutual"`
}

// Factory turns right swipes into persisted match, conversation and
// participant rows with the shape resolved up front.
type Factory struct {
	matches MatchRepository
	chats   chat.ChatRepository
	// atomic controls whether creation runs as one storage-side unit. The
	// sequential fallback is used when it is off or unsupported.
	atomic    bool
	recorders []SwipeRecorder
	onCreated []func(*CreateResult)
	log       *logger.Logger
}

// NewFactory creates a match factory.
func NewFactory(matches MatchRepository, chats chat.ChatRepository, atomic bool) *Factory {
	return &Factory{
		matches: matches,
		chats:   chats,
		atomic:  atomic,
		log:     logger.New().WithField("component", "match_factory"),
	}
}

// AddRecorder subscribes a swipe recorder. Not safe to call after the factory
// starts serving requests.
func (f *Factory) AddRecorder(recorder SwipeRecorder) {
	f.recorders = append(f.recorders, recorder)
}

// OnMatchCreated subscribes a callback fired after every successful creation.
func (f *Factory) OnMatchCreated(fn func(*CreateResult)) {
	f.onCreated = append(f.onCreated, fn)
}

// CreateFromSwipe persists the match for a resolved shape. Direct swipes that
// complete an existing pending match from the other side promote that match
// to matched and reuse its conversation; a repeated swipe by the same actor
// returns the pending match unchanged.
func (f *Factory) CreateFromSwipe(shape Shape, targetProfile *profile.Profile, targetTeam *team.Team) (*CreateResult, error) {
	if direct, ok := shape.(IndividualToIndividual); ok {
		result, err := f.resolveExistingDirect(direct)
		if err != nil {
			return nil, err
		}
		if result != nil {
			if result.Mutual {
				f.notify(result, targetProfile, targetTeam)
			}
			return result, nil
		}
	}

	row := shape.Row()
	conversation, err := f.create(row, shape.Participants())
	if err != nil {
		return nil, err
	}

	result := &CreateResult{Match: row, Conversation: conversation}
	f.notify(result, targetProfile, targetTeam)
	f.log.WithFields(map[string]interface{}{
		"match_id":   row.ID,
		"match_type": row.MatchType,
	}).Info("match created")
	return result, nil
}

// RecordSkip reports a left swipe to the recorders. Left swipes write nothing.
func (f *Factory) RecordSkip(userID uint, targetProfile *profile.Profile, targetTeam *team.Team) {
	event := SwipeEvent{
		UserID:        userID,
		Direction:     DirectionLeft,
		TargetProfile: targetProfile,
		TargetTeam:    targetTeam,
	}
	for _, recorder := range f.recorders {
		recorder.RecordSwipe(event)
	}
}

// resolveExistingDirect handles a right swipe when a pending direct match
// between the two users already exists. Only a match initiated by the target
// is mutual and gets promoted; one initiated by the actor is a repeated swipe
// and stays pending, since the target has not answered. Returns nil when
// there is nothing to reuse.
func (f *Factory) resolveExistingDirect(shape IndividualToIndividual) (*CreateResult, error) {
	existing, err := f.matches.GetDirectBetween(shape.ActorID, shape.TargetUserID)
	if err != nil {
		return nil, &CollaboratorUnavailableError{Op: "lookup direct match", Err: err}
	}
	if existing == nil || existing.Status != StatusPending {
		return nil, nil
	}

	if existing.UserID == shape.ActorID {
		conversation, err := f.chats.GetConversationByMatchID(existing.ID)
		if err != nil {
			return nil, &CollaboratorUnavailableError{Op: "load match conversation", Err: err}
		}
		return &CreateResult{Match: existing, Conversation: conversation}, nil
	}

	changed, err := f.matches.UpdateStatusIfPending(existing.ID, StatusMatched)
	if err != nil {
		return nil, &CollaboratorUnavailableError{Op: "promote direct match", Err: err}
	}
	if changed {
		existing.Status = StatusMatched
	}

	conversation, err := f.chats.GetConversationByMatchID(existing.ID)
	if err != nil {
		return nil, &CollaboratorUnavailableError{Op: "load match conversation", Err: err}
	}
	return &CreateResult{Match: existing, Conversation: conversation, Mutual: true}, nil
}

func (f *Factory) create(row *Match, participants []uint) (*chat.Conversation, error) {
	if f.atomic {
		conversation, err := f.matches.CreateWithConversation(row, participants)
		if err == nil {
			return conversation, nil
		}
		if !errors.Is(err, ErrAtomicUnsupported) {
			return nil, &CollaboratorUnavailableError{Op: "atomic match creation", Err: err}
		}
		f.log.Debug("atomic creation unsupported, using sequential inserts")
	}
	return f.createSequential(row, participants)
}

// createSequential performs the three inserts one by one. A failure after the
// first insert surfaces as a PartialWriteError naming the failed step; it is
// never reported as success.
func (f *Factory) createSequential(row *Match, participants []uint) (*chat.Conversation, error) {
	if err := f.matches.Create(row); err != nil {
		return nil, &PartialWriteError{Step: "match", Err: err}
	}

	conversation := &chat.Conversation{
		Kind:    chat.KindDirect,
		MatchID: &row.ID,
	}
	if err := f.chats.CreateConversation(conversation); err != nil {
		return nil, &PartialWriteError{Step: "conversation", Err: err}
	}

	for _, userID := range participants {
		if err := f.chats.AddParticipant(conversation.ID, userID); err != nil {
			return nil, &PartialWriteError{Step: "participants", Err: err}
		}
	}
	return conversation, nil
}

func (f *Factory) notify(result *CreateResult, targetProfile *profile.Profile, targetTeam *team.Team) {
	event := SwipeEvent{
		UserID:        result.Match.UserID,
		Direction:     DirectionRight,
		TargetProfile: targetProfile,
		TargetTeam:    targetTeam,
		Match:         result.Match,
	}
	if result.Mutual {
		// The stored match may have been initiated by the other side; the
		// ledger entry still belongs to the actor who just swiped.
		event.UserID = actorOf(result.Match, targetProfile)
	}
	for _, recorder := range f.recorders {
		recorder.RecordSwipe(event)
	}
	for _, fn := range f.onCreated {
		fn(result)
	}
}

// actorOf recovers the swiping user for a mutual completion, where the stored
// row's user_id may be the other side.
func actorOf(m *Match, targetProfile *profile.Profile) uint {
	if targetProfile != nil && m.UserID == targetProfile.ID {
		return m.TargetUserID
	}
	return m.UserID
}
