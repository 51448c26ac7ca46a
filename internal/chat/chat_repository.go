package chat

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines the interface for conversation, message and
// read-cursor data operations.
type ChatRepository interface {
	// Conversation operations
	CreateConversation(conversation *Conversation) error
	GetConversationByID(id uint) (*Conversation, error)
	GetConversationByMatchID(matchID uint) (*Conversation, error)
	GetConversationByTeamID(teamID uint) (*Conversation, error)
	GetConversationsForUser(userID uint) ([]Conversation, error)

	// Participant operations
	AddParticipant(conversationID, userID uint) error
	IsParticipant(conversationID, userID uint) (bool, error)
	GetParticipants(conversationID uint) ([]ConversationParticipant, error)
	RemoveParticipant(conversationID, userID uint) error

	// Message operations
	CreateMessage(message *Message) error
	GetMessages(conversationID uint, page, limit int) ([]Message, int64, error)
	CountMessagesAfter(conversationID, userID uint, after *time.Time) (int64, error)

	// Read-cursor operations
	GetRead(conversationID, userID uint) (*MessageRead, error)
	GetReadsForUser(userID uint) ([]MessageRead, error)
	UpsertRead(conversationID, userID uint, at time.Time) error

	// UnreadCounts computes unread counts for every conversation the user
	// participates in with a single aggregated query.
	UnreadCounts(userID uint) (map[uint]int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// --- Conversation operations ---

func (r *chatRepository) CreateConversation(conversation *Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *chatRepository) GetConversationByID(id uint) (*Conversation, error) {
	var conversation Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) GetConversationByMatchID(matchID uint) (*Conversation, error) {
	var conversation Conversation
	if err := r.db.Where("match_id = ?", matchID).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) GetConversationByTeamID(teamID uint) (*Conversation, error) {
	var conversation Conversation
	if err := r.db.Where("team_id = ? AND kind = ?", teamID, KindTeam).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) GetConversationsForUser(userID uint) ([]Conversation, error) {
	var conversations []Conversation
	err := r.db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND cp.deleted_at IS NULL", userID).
		Order("conversations.updated_at desc").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// --- Participant operations ---

// AddParticipant inserts a participant row. The unique index on
// (conversation_id, user_id) makes a concurrent duplicate insert a no-op.
func (r *chatRepository) AddParticipant(conversationID, userID uint) error {
	participant := ConversationParticipant{
		ConversationID: conversationID,
		UserID:         userID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&participant).Error
}

func (r *chatRepository) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *chatRepository) GetParticipants(conversationID uint) ([]ConversationParticipant, error) {
	var participants []ConversationParticipant
	err := r.db.Where("conversation_id = ?", conversationID).Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *chatRepository) RemoveParticipant(conversationID, userID uint) error {
	return r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&ConversationParticipant{}).Error
}

// --- Message operations ---

func (r *chatRepository) CreateMessage(message *Message) error {
	return r.db.Create(message).Error
}

func (r *chatRepository) GetMessages(conversationID uint, page, limit int) ([]Message, int64, error) {
	var messages []Message
	var total int64

	query := r.db.Model(&Message{}).Where("conversation_id = ?", conversationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *chatRepository) CountMessagesAfter(conversationID, userID uint, after *time.Time) (int64, error) {
	var count int64
	query := r.db.Model(&Message{}).
		Where("conversation_id = ? AND sender_id != ?", conversationID, userID)
	if after != nil {
		query = query.Where("created_at > ?", *after)
	}
	err := query.Count(&count).Error
	return count, err
}

// --- Read-cursor operations ---

func (r *chatRepository) GetRead(conversationID, userID uint) (*MessageRead, error) {
	var read MessageRead
	err := r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).First(&read).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &read, nil
}

func (r *chatRepository) GetReadsForUser(userID uint) ([]MessageRead, error) {
	var reads []MessageRead
	if err := r.db.Where("user_id = ?", userID).Find(&reads).Error; err != nil {
		return nil, err
	}
	return reads, nil
}

func (r *chatRepository) UpsertRead(conversationID, userID uint, at time.Time) error {
	read := MessageRead{
		ConversationID: conversationID,
		UserID:         userID,
		LastReadAt:     at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at", "updated_at"}),
	}).Create(&read).Error
}

// UnreadCounts joins messages against the user's read cursors in one pass.
// Conversations with no cursor count every foreign message as unread.
func (r *chatRepository) UnreadCounts(userID uint) (map[uint]int64, error) {
	type row struct {
		ConversationID uint
		Unread         int64
	}
	var rows []row

	err := r.db.Raw(`
		SELECT cp.conversation_id, COUNT(m.id) AS unread
		FROM conversation_participants cp
		LEFT JOIN message_reads mr
			ON mr.conversation_id = cp.conversation_id AND mr.user_id = cp.user_id
		LEFT JOIN messages m
			ON m.conversation_id = cp.conversation_id
			AND m.sender_id != cp.user_id
			AND m.deleted_at IS NULL
			AND (mr.id IS NULL OR m.created_at > mr.last_read_at)
		WHERE cp.user_id = ? AND cp.deleted_at IS NULL
		GROUP BY cp.conversation_id
	`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ConversationID] = r.Unread
	}
	return counts, nil
}
