package match

import (
	"gorm.io/gorm"
)

const (
	// StatusPending is the initial status of every match.
	StatusPending = "pending"
	// StatusAccepted and StatusRejected are terminal states for join requests.
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	// StatusMatched marks a direct match where both sides swiped right. Direct
	// matches have no accept or reject action.
	StatusMatched = "matched"

	TypeIndividualToIndividual = "individual_to_individual"
	TypeTeamToIndividual       = "team_to_individual"
	TypeIndividualToTeam       = "individual_to_team"

	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Match records interest between two sides. Its type and participants are
// immutable after creation; only the status transitions.
type Match struct {
	gorm.Model
	UserID       uint   `gorm:"index" json:"user_id"`
	TargetUserID uint   `gorm:"index" json:"target_user_id"`
	TeamID       *uint  `gorm:"index" json:"team_id,omitempty"`
	MatchType    string `gorm:"not null" json:"match_type"`
	Status       string `gorm:"default:'pending';index" json:"status"`
}

// IsJoinRequest reports whether the match carries an accept/reject action.
func (m *Match) IsJoinRequest() bool {
	return m.MatchType == TypeTeamToIndividual || m.MatchType == TypeIndividualToTeam
}

// IndividualSide returns the user a successful accept would add to the team.
func (m *Match) IndividualSide() uint {
	if m.MatchType == TypeTeamToIndividual {
		return m.TargetUserID
	}
	return m.UserID
}
