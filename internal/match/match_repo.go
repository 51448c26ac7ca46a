package match

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
)

// MatchRepository defines the interface for match data operations.
type MatchRepository interface {
	Create(match *Match) error
	GetByID(id uint) (*Match, error)
	// GetDirectBetween finds an individual_to_individual match between the two
	// users in either direction.
	GetDirectBetween(userA, userB uint) (*Match, error)
	GetPendingByTargetUser(userID uint) ([]Match, error)
	GetPendingByTeam(teamID uint) ([]Match, error)
	GetAllForUser(userID uint, page, limit int) ([]Match, int64, error)
	// RecentByUser returns the user's own swipe-right matches, newest first,
	// capped at limit. Used to rebuild the activity ledger.
	RecentByUser(userID uint, limit int) ([]Match, error)
	// UpdateStatusIfPending transitions the match status only when it is still
	// pending and reports whether a row changed.
	UpdateStatusIfPending(id uint, status string) (bool, error)
	// CreateWithConversation inserts the match, its conversation and the
	// participant rows as a single unit.
	CreateWithConversation(match *Match, participants []uint) (*chat.Conversation, error)
	WithTransaction(txFunc func(MatchRepository) error) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new instance of MatchRepository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(match *Match) error {
	return r.db.Create(match).Error
}

func (r *matchRepository) GetByID(id uint) (*Match, error) {
	var match Match
	if err := r.db.First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetDirectBetween(userA, userB uint) (*Match, error) {
	var match Match
	err := r.db.Where("match_type = ?", TypeIndividualToIndividual).
		Where("(user_id = ? AND target_user_id = ?) OR (user_id = ? AND target_user_id = ?)",
			userA, userB, userB, userA).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetPendingByTargetUser(userID uint) ([]Match, error) {
	var matches []Match
	err := r.db.Where("match_type = ? AND target_user_id = ? AND status = ?",
		TypeTeamToIndividual, userID, StatusPending).
		Order("created_at desc").Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) GetPendingByTeam(teamID uint) ([]Match, error) {
	var matches []Match
	err := r.db.Where("match_type = ? AND team_id = ? AND status = ?",
		TypeIndividualToTeam, teamID, StatusPending).
		Order("created_at desc").Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) GetAllForUser(userID uint, page, limit int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{}).Where("user_id = ? OR target_user_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&matches).Error; err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *matchRepository) RecentByUser(userID uint, limit int) ([]Match, error) {
	var matches []Match
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) UpdateStatusIfPending(id uint, status string) (bool, error) {
	result := r.db.Model(&Match{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *matchRepository) CreateWithConversation(match *Match, participants []uint) (*chat.Conversation, error) {
	var conversation *chat.Conversation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		txChat := chat.NewChatRepository(tx)
		conversation = &chat.Conversation{
			Kind:    chat.KindDirect,
			MatchID: &match.ID,
		}
		if err := txChat.CreateConversation(conversation); err != nil {
			return err
		}
		for _, userID := range participants {
			if err := txChat.AddParticipant(conversation.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *matchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&matchRepository{db: tx})
	})
}
