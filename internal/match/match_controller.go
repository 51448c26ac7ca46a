package match

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/validator"
)

// MatchController handles swipe and join-request HTTP requests.
type MatchController struct {
	factory  *Factory
	resolver *Resolver
	matches  MatchRepository
	profiles profile.ProfileRepository
	teams    team.TeamRepository
	log      *logger.Logger
}

// NewMatchController creates a new match controller.
func NewMatchController(factory *Factory, resolver *Resolver, matches MatchRepository, profiles profile.ProfileRepository, teams team.TeamRepository) *MatchController {
	return &MatchController{
		factory:  factory,
		resolver: resolver,
		matches:  matches,
		profiles: profiles,
		teams:    teams,
		log:      logger.New().WithField("component", "match"),
	}
}

// SwipeRequest carries one swipe gesture. Exactly one of target_user_id and
// target_team_id must be set.
type SwipeRequest struct {
	TargetUserID *uint  `json:"target_user_id"`
	TargetTeamID *uint  `json:"target_team_id"`
	Direction    string `json:"direction" binding:"required,oneof=left right"`
	// AsTeam forces swiping on the team's behalf and fails when the user has
	// no team. Users with a team swipe as their team either way.
	AsTeam bool `json:"as_team"`
}

// PendingMatches groups the join requests awaiting the user's action.
type PendingMatches struct {
	// ForMe are team_to_individual requests targeting the user.
	ForMe []Match `json:"for_me"`
	// ForMyTeam are individual_to_team requests into the user's team, present
	// only for confirmed admins.
	ForMyTeam []Match `json:"for_my_team"`
}

// Swipe godoc
// @Summary Record a swipe
// @Description A right swipe creates a pending match with its conversation; a left swipe is recorded in the activity ledger only.
// @Tags Matches
// @Accept json
// @Produce json
// @Param swipe body SwipeRequest true "Swipe gesture"
// @Success 201 {object} responses.SuccessResponse{data=CreateResult}
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /swipes [post]
func (mc *MatchController) Swipe(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}
	if (req.TargetUserID == nil) == (req.TargetTeamID == nil) {
		responses.BadRequest(c, "Provide exactly one of target_user_id and target_team_id")
		return
	}

	targetProfile, targetTeam, ok := mc.loadTarget(c, req)
	if !ok {
		return
	}

	if req.Direction == DirectionLeft {
		mc.factory.RecordSkip(session.UserID, targetProfile, targetTeam)
		responses.SendSuccess(c, http.StatusOK, "Skipped", nil)
		return
	}

	shape, err := ResolveShape(session, targetProfile, targetTeam, req.AsTeam)
	if err != nil {
		var noTeam *NoTeamError
		if errors.As(err, &noTeam) {
			responses.SendError(c, http.StatusConflict, "You need a team to swipe on its behalf")
			return
		}
		responses.InternalServerError(c, err.Error())
		return
	}

	result, err := mc.factory.CreateFromSwipe(shape, targetProfile, targetTeam)
	if err != nil {
		mc.respondMatchError(c, err)
		return
	}

	if result.Mutual {
		responses.SendSuccess(c, http.StatusCreated, "It's a match", result)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match created", result)
}

// Accept godoc
// @Summary Accept a join request
// @Tags Matches
// @Produce json
// @Param id path uint true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=AcceptOutcome}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /matches/{id}/accept [post]
func (mc *MatchController) Accept(c *gin.Context) {
	session, matchID, ok := mc.sessionAndMatchID(c)
	if !ok {
		return
	}

	outcome, err := mc.resolver.Accept(session, matchID)
	if err != nil {
		mc.respondMatchError(c, err)
		return
	}

	message := "Join request accepted"
	if outcome.AlreadyMember {
		message = "Already a member, request marked accepted"
	}
	responses.SendSuccess(c, http.StatusOK, message, outcome)
}

// Reject godoc
// @Summary Reject a join request
// @Tags Matches
// @Produce json
// @Param id path uint true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /matches/{id}/reject [post]
func (mc *MatchController) Reject(c *gin.Context) {
	session, matchID, ok := mc.sessionAndMatchID(c)
	if !ok {
		return
	}

	m, err := mc.resolver.Reject(session, matchID)
	if err != nil {
		mc.respondMatchError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request rejected", m)
}

// GetPending godoc
// @Summary List join requests awaiting the user's action
// @Tags Matches
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=PendingMatches}
// @Security ApiKeyAuth
// @Router /matches/pending [get]
func (mc *MatchController) GetPending(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	forMe, err := mc.matches.GetPendingByTargetUser(session.UserID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load pending matches: "+err.Error())
		return
	}

	pending := PendingMatches{ForMe: forMe, ForMyTeam: []Match{}}
	if session.HasTeam() && session.IsTeamAdmin(*session.TeamID) {
		forTeam, err := mc.matches.GetPendingByTeam(*session.TeamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to load pending matches: "+err.Error())
			return
		}
		pending.ForMyTeam = forTeam
	}
	responses.SendSuccess(c, http.StatusOK, "", pending)
}

// GetMyMatches godoc
// @Summary List the user's matches
// @Tags Matches
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Match}
// @Security ApiKeyAuth
// @Router /matches [get]
func (mc *MatchController) GetMyMatches(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	matches, total, err := mc.matches.GetAllForUser(userID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to load matches: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", matches, total, page, limit)
}

func (mc *MatchController) loadTarget(c *gin.Context, req SwipeRequest) (*profile.Profile, *team.Team, bool) {
	if req.TargetUserID != nil {
		p, err := mc.profiles.GetByID(*req.TargetUserID)
		if err != nil {
			responses.InternalServerError(c, "Failed to load profile: "+err.Error())
			return nil, nil, false
		}
		if p == nil {
			responses.NotFound(c, "Profile")
			return nil, nil, false
		}
		return p, nil, true
	}

	t, err := mc.teams.GetTeamByID(*req.TargetTeamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load team: "+err.Error())
		return nil, nil, false
	}
	if t == nil || t.IsDeleted {
		responses.NotFound(c, "Team")
		return nil, nil, false
	}
	return nil, t, true
}

func (mc *MatchController) sessionAndMatchID(c *gin.Context) (middleware.Session, uint, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return middleware.Session{}, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid match ID")
		return middleware.Session{}, 0, false
	}
	return session, uint(id), true
}

// respondMatchError maps the engine's error taxonomy onto HTTP statuses.
func (mc *MatchController) respondMatchError(c *gin.Context, err error) {
	var invalid *InvalidStateError
	var partial *PartialWriteError
	var unavailable *CollaboratorUnavailableError

	switch {
	case errors.Is(err, ErrNotAuthorized):
		responses.Forbidden(c, "You are not allowed to resolve this match")
	case errors.As(err, &invalid):
		responses.SendError(c, http.StatusConflict, invalid.Error())
	case errors.As(err, &partial):
		mc.log.WithError(partial.Err).WithField("step", partial.Step).Error("partial write")
		responses.SendError(c, http.StatusInternalServerError, partial.Error())
	case errors.As(err, &unavailable):
		mc.log.WithError(unavailable.Err).WithField("op", unavailable.Op).Error("persistence unavailable")
		responses.SendError(c, http.StatusServiceUnavailable, "Storage unavailable, please retry")
	default:
		responses.InternalServerError(c, err.Error())
	}
}
