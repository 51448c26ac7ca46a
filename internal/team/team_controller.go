package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/validator"
)

// TeamController handles team HTTP requests.
type TeamController struct {
	db       *gorm.DB
	repo     TeamRepository
	profiles profile.ProfileRepository
	log      *logger.Logger
}

// NewTeamController creates a new team controller.
func NewTeamController(db *gorm.DB, repo TeamRepository, profiles profile.ProfileRepository) *TeamController {
	return &TeamController{
		db:       db,
		repo:     repo,
		profiles: profiles,
		log:      logger.New().WithField("component", "team"),
	}
}

type CreateTeamRequest struct {
	Name         string   `json:"name" binding:"required,min=3,max=100"`
	Description  string   `json:"description" binding:"max=1000"`
	Studio       string   `json:"studio" binding:"required"`
	LookingFor   string   `json:"looking_for" binding:"max=500"`
	SkillsNeeded []string `json:"skills_needed" binding:"max=20,dive,max=50"`
}

type UpdateTeamRequest struct {
	Name         *string   `json:"name" binding:"omitempty,min=3,max=100"`
	Description  *string   `json:"description" binding:"omitempty,max=1000"`
	LookingFor   *string   `json:"looking_for" binding:"omitempty,max=500"`
	SkillsNeeded *[]string `json:"skills_needed" binding:"omitempty,max=20,dive,max=50"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=member admin"`
}

// MemberDetail is a membership row joined with the member's profile.
type MemberDetail struct {
	TeamMember
	Profile *profile.Profile `json:"profile,omitempty"`
}

// CreateTeam godoc
// @Summary Create a team
// @Description Creates the team, makes the creator its confirmed admin and opens the team conversation, all atomically.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team details"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	if session.HasTeam() {
		responses.SendError(c, http.StatusConflict, "You already belong to a team")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	existing, err := tc.repo.GetTeamByName(req.Name)
	if err != nil {
		responses.InternalServerError(c, "Failed to check team name: "+err.Error())
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "A team with this name already exists")
		return
	}

	team := &Team{
		Name:         req.Name,
		Description:  req.Description,
		Studio:       req.Studio,
		LookingFor:   req.LookingFor,
		SkillsNeeded: profile.EncodeStrings(req.SkillsNeeded),
		CreatedByID:  session.UserID,
	}

	err = tc.db.Transaction(func(tx *gorm.DB) error {
		txTeams := NewTeamRepository(tx)
		txChat := chat.NewChatRepository(tx)

		if err := txTeams.CreateTeam(team); err != nil {
			return err
		}
		member := &TeamMember{
			TeamID: team.ID,
			UserID: session.UserID,
			Role:   RoleAdmin,
			Status: MemberStatusConfirmed,
		}
		if err := txTeams.AddMember(member); err != nil {
			return err
		}
		conversation := &chat.Conversation{
			Kind:   chat.KindTeam,
			TeamID: &team.ID,
		}
		if err := txChat.CreateConversation(conversation); err != nil {
			return err
		}
		return txChat.AddParticipant(conversation.ID, session.UserID)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create team: "+err.Error())
		return
	}

	tc.log.WithFields(map[string]interface{}{
		"team_id": team.ID,
		"user_id": session.UserID,
	}).Info("team created")
	responses.SendSuccess(c, http.StatusCreated, "Team created", team)
}

// GetTeam godoc
// @Summary Get a team by ID
// @Tags Teams
// @Produce json
// @Param id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load team: "+err.Error())
		return
	}
	if team == nil || team.IsDeleted {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", team)
}

// ListTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param studio query string false "Filter by studio"
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Security ApiKeyAuth
// @Router /teams [get]
func (tc *TeamController) ListTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	teams, total, err := tc.repo.GetAllTeams(page, limit, c.Query("studio"))
	if err != nil {
		responses.InternalServerError(c, "Failed to load teams: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", teams, total, page, limit)
}

// GetMyTeam godoc
// @Summary Get the requesting user's team
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/me [get]
func (tc *TeamController) GetMyTeam(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	if !session.HasTeam() {
		responses.SendError(c, http.StatusNotFound, "You do not belong to a team")
		return
	}

	team, err := tc.repo.GetTeamByID(*session.TeamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load team: "+err.Error())
		return
	}
	if team == nil {
		responses.SendError(c, http.StatusNotFound, "You do not belong to a team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", team)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path uint true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	team, ok := tc.authorizeAdmin(c)
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.LookingFor != nil {
		team.LookingFor = *req.LookingFor
	}
	if req.SkillsNeeded != nil {
		team.SkillsNeeded = profile.EncodeStrings(*req.SkillsNeeded)
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		responses.InternalServerError(c, "Failed to update team: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team updated", team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Removes the team, its memberships and its conversation.
// @Tags Teams
// @Produce json
// @Param id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	team, ok := tc.authorizeAdmin(c)
	if !ok {
		return
	}

	if err := tc.repo.DeleteTeam(team.ID); err != nil {
		responses.InternalServerError(c, "Failed to delete team: "+err.Error())
		return
	}
	tc.log.WithField("team_id", team.ID).Info("team deleted")
	responses.SendSuccess(c, http.StatusOK, "Team deleted", nil)
}

// GetMembers godoc
// @Summary List confirmed members of a team
// @Tags Teams
// @Produce json
// @Param id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=[]MemberDetail}
// @Security ApiKeyAuth
// @Router /teams/{id}/members [get]
func (tc *TeamController) GetMembers(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	members, err := tc.repo.GetMembers(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load members: "+err.Error())
		return
	}

	userIDs := make([]uint, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	profiles, err := tc.profiles.GetByIDs(userIDs)
	if err != nil {
		responses.InternalServerError(c, "Failed to load member profiles: "+err.Error())
		return
	}
	byID := make(map[uint]*profile.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	details := make([]MemberDetail, 0, len(members))
	for _, m := range members {
		details = append(details, MemberDetail{TeamMember: m, Profile: byID[m.UserID]})
	}
	responses.SendSuccess(c, http.StatusOK, "", details)
}

// UpdateMemberRole godoc
// @Summary Change a member's role
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path uint true "Team ID"
// @Param user_id path uint true "User ID"
// @Param role body UpdateMemberRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{id}/members/{user_id}/role [put]
func (tc *TeamController) UpdateMemberRole(c *gin.Context) {
	team, ok := tc.authorizeAdmin(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	member, err := tc.repo.GetConfirmedMember(team.ID, uint(targetID))
	if err != nil {
		responses.InternalServerError(c, "Failed to load member: "+err.Error())
		return
	}
	if member == nil {
		responses.NotFound(c, "Member")
		return
	}

	if err := tc.repo.UpdateMemberRole(team.ID, uint(targetID), req.Role); err != nil {
		responses.InternalServerError(c, "Failed to update role: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated", nil)
}

// LeaveTeam godoc
// @Summary Leave your team
// @Description Removes the membership and the member's seat in the team conversation. The last admin cannot leave.
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/leave [post]
func (tc *TeamController) LeaveTeam(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	if !session.HasTeam() {
		responses.SendError(c, http.StatusNotFound, "You do not belong to a team")
		return
	}
	teamID := *session.TeamID

	if session.TeamRole == RoleAdmin {
		members, err := tc.repo.GetMembers(teamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to load members: "+err.Error())
			return
		}
		admins := 0
		for _, m := range members {
			if m.Role == RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			responses.SendError(c, http.StatusConflict, "Promote another admin before leaving, or delete the team")
			return
		}
	}

	err = tc.db.Transaction(func(tx *gorm.DB) error {
		txTeams := NewTeamRepository(tx)
		txChat := chat.NewChatRepository(tx)

		if err := txTeams.RemoveMember(teamID, session.UserID); err != nil {
			return err
		}
		conversation, err := txChat.GetConversationByTeamID(teamID)
		if err != nil {
			return err
		}
		if conversation != nil {
			return txChat.RemoveParticipant(conversation.ID, session.UserID)
		}
		return nil
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to leave team: "+err.Error())
		return
	}

	tc.log.WithFields(map[string]interface{}{
		"team_id": teamID,
		"user_id": session.UserID,
	}).Info("member left team")
	responses.SendSuccess(c, http.StatusOK, "You left the team", nil)
}

// authorizeAdmin loads the team from the path and verifies the requester is a
// confirmed admin of it. Writes the error response itself when it returns !ok.
func (tc *TeamController) authorizeAdmin(c *gin.Context) (*Team, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return nil, false
	}

	teamID, ok := parseTeamID(c)
	if !ok {
		return nil, false
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load team: "+err.Error())
		return nil, false
	}
	if team == nil || team.IsDeleted {
		responses.NotFound(c, "Team")
		return nil, false
	}

	if !session.IsTeamAdmin(teamID) {
		responses.Forbidden(c, "Only a team admin can do this")
		return nil, false
	}
	return team, true
}

func parseTeamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return 0, false
	}
	return uint(id), true
}
