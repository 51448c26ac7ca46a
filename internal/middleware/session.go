package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionKey = "auth_session"

// Session carries the identity facts every matching operation needs: who is
// acting and which team (if any) they are a confirmed member of. It is resolved
// once per request instead of being re-queried ad hoc inside handlers.
type Session struct {
	UserID uint
	// TeamID is nil when the user is not a confirmed member of any team.
	TeamID *uint
	// TeamRole is the user's role in that team ("member" or "admin"), empty
	// when TeamID is nil.
	TeamRole string
}

// HasTeam reports whether the session user belongs to a team.
func (s Session) HasTeam() bool {
	return s.TeamID != nil
}

// IsTeamAdmin reports whether the session user is a confirmed admin of teamID.
func (s Session) IsTeamAdmin(teamID uint) bool {
	return s.TeamID != nil && *s.TeamID == teamID && s.TeamRole == "admin"
}

// SessionMiddleware resolves the acting user's confirmed team membership once
// and stores a Session in the request context. Must run after AuthMiddleware.
func SessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		sess := Session{UserID: userID}

		var row struct {
			TeamID uint
			Role   string
		}
		err = db.Table("team_members").
			Select("team_id, role").
			Where("user_id = ? AND status = ? AND deleted_at IS NULL", userID, "confirmed").
			Order("created_at asc").
			Limit(1).
			Scan(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve team membership"})
			return
		}
		if row.TeamID != 0 {
			teamID := row.TeamID
			sess.TeamID = &teamID
			sess.TeamRole = row.Role
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// GetSession extracts the resolved Session from the context.
func GetSession(c *gin.Context) (Session, error) {
	val, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, errors.New("session not found in context")
	}
	sess, ok := val.(Session)
	if !ok {
		return Session{}, errors.New("session has unexpected type")
	}
	return sess, nil
}
