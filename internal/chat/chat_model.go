package chat

import (
	"time"

	"gorm.io/gorm"
)

const (
	KindDirect = "direct"
	KindTeam   = "team"
)

// Conversation is a messaging channel. Direct conversations are created
// alongside a match; team conversations are created alongside a team.
type Conversation struct {
	gorm.Model
	Kind string `gorm:"index;not null;default:'direct'" json:"kind"`
	// MatchID links a direct conversation to the match that created it.
	MatchID *uint `gorm:"uniqueIndex" json:"match_id,omitempty"`
	// TeamID links a team conversation to its team.
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`
}

// ConversationParticipant joins a user into a conversation. The
// (conversation_id, user_id) pair is unique; inserts are guarded by an
// existence check and reinforced by the index.
type ConversationParticipant struct {
	gorm.Model
	ConversationID uint `gorm:"index;not null;uniqueIndex:idx_conversation_user" json:"conversation_id"`
	UserID         uint `gorm:"index;not null;uniqueIndex:idx_conversation_user" json:"user_id"`
}

// Message is append-only; never mutated or deleted.
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint   `gorm:"index;not null" json:"sender_id"`
	Content        string `gorm:"type:text;not null" json:"content"`
}

// MessageRead is the per-(conversation, user) read cursor. Absence of a row
// means the user has never opened the conversation.
type MessageRead struct {
	gorm.Model
	ConversationID uint      `gorm:"index;not null;uniqueIndex:idx_read_conversation_user" json:"conversation_id"`
	UserID         uint      `gorm:"index;not null;uniqueIndex:idx_read_conversation_user" json:"user_id"`
	LastReadAt     time.Time `json:"last_read_at"`
}
