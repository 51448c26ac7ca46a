package team

import (
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	MemberStatusConfirmed = "confirmed"
	MemberStatusInvited   = "invited"

	// MaxMembers is a soft cap used for display; the core does not hard-enforce it.
	MaxMembers = 6
)

// Team represents a project group.
type Team struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	// Studio is the studio course this team is forming for.
	Studio     string `gorm:"index" json:"studio"`
	LookingFor string `gorm:"type:text" json:"looking_for"`
	// SkillsNeeded is a JSON array of skill names.
	SkillsNeeded string `gorm:"type:json" json:"skills_needed"`
	CreatedByID  uint   `gorm:"index" json:"created_by_id"`
	IsDeleted    bool   `gorm:"default:false" json:"is_deleted"`
}

// TeamMember represents a user's membership in a team. A (team_id, user_id)
// pair must be unique among confirmed rows; inserts are guarded by an
// existence check.
type TeamMember struct {
	gorm.Model
	TeamID uint   `gorm:"index" json:"team_id"`
	UserID uint   `gorm:"index" json:"user_id"`
	Role   string `gorm:"default:'member'" json:"role"`
	Status string `gorm:"default:'confirmed';index" json:"status"`
}
