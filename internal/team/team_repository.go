package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	// Team operations
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetTeamsByIDs(ids []uint) ([]Team, error)
	GetAllTeams(page, limit int, studio string) ([]Team, int64, error)
	UpdateTeam(team *Team) error
	// DeleteTeam removes the team and its dependents in the order:
	// conversation participants, messages, conversation, members, team.
	DeleteTeam(id uint) error

	// TeamMember operations
	AddMember(member *TeamMember) error
	GetMember(teamID, userID uint) (*TeamMember, error)
	GetConfirmedMember(teamID, userID uint) (*TeamMember, error)
	GetMembers(teamID uint) ([]TeamMember, error)
	IsConfirmedAdmin(teamID, userID uint) (bool, error)
	UpdateMemberRole(teamID, userID uint, role string) error
	RemoveMember(teamID, userID uint) error
	// GetConfirmedTeamForUser returns the team the user is a confirmed member
	// of, or nil when they have none.
	GetConfirmedTeamForUser(userID uint) (*TeamMember, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team operations ---

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	if err := r.db.Where("name = ? AND is_deleted = ?", name, false).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamsByIDs(ids []uint) ([]Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teams []Team
	if err := r.db.Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) GetAllTeams(page, limit int, studio string) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("is_deleted = ?", false)
	if studio != "" {
		query = query.Where("studio = ?", studio)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Dependents go first so a partial failure rolls back cleanly.
		if err := tx.Exec(`
			DELETE FROM conversation_participants
			WHERE conversation_id IN (SELECT id FROM conversations WHERE team_id = ?)
		`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`
			DELETE FROM messages
			WHERE conversation_id IN (SELECT id FROM conversations WHERE team_id = ?)
		`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM conversations WHERE team_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Team{}, id).Error
	})
}

// --- TeamMember operations ---

func (r *teamRepository) AddMember(member *TeamMember) error {
	return r.db.Create(member).Error
}

func (r *teamRepository) GetMember(teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetConfirmedMember(teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	err := r.db.Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, MemberStatusConfirmed).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetMembers(teamID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := r.db.Where("team_id = ? AND status = ?", teamID, MemberStatusConfirmed).
		Order("created_at asc").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) IsConfirmedAdmin(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role = ? AND status = ?", teamID, userID, RoleAdmin, MemberStatusConfirmed).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) UpdateMemberRole(teamID, userID uint, role string) error {
	return r.db.Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error
}

func (r *teamRepository) RemoveMember(teamID, userID uint) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&TeamMember{}).Error
}

func (r *teamRepository) GetConfirmedTeamForUser(userID uint) (*TeamMember, error) {
	var member TeamMember
	err := r.db.Where("user_id = ? AND status = ?", userID, MemberStatusConfirmed).
		Order("created_at asc").First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
