package history

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
)

// HistoryController handles activity ledger HTTP requests.
type HistoryController struct {
	ledger        *Ledger
	reconstructor *Reconstructor
	log           *logger.Logger
}

// NewHistoryController creates a new history controller.
func NewHistoryController(ledger *Ledger, reconstructor *Reconstructor) *HistoryController {
	return &HistoryController{
		ledger:        ledger,
		reconstructor: reconstructor,
		log:           logger.New().WithField("component", "history"),
	}
}

// ActivityResponse is the ledger plus the in-session match counter.
type ActivityResponse struct {
	Entries    []Entry `json:"entries"`
	MatchCount int     `json:"match_count"`
}

// GetActivity godoc
// @Summary Get the swipe activity ledger
// @Description Returns the in-memory ledger, rebuilding it from persisted matches when it is empty or rebuild=true.
// @Tags History
// @Produce json
// @Param rebuild query bool false "Force a rebuild from persisted matches"
// @Success 200 {object} responses.SuccessResponse{data=ActivityResponse}
// @Security ApiKeyAuth
// @Router /history [get]
func (hc *HistoryController) GetActivity(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	rebuild := c.Query("rebuild") == "true"
	if rebuild || hc.ledger.Len(userID) == 0 {
		entries, err := hc.reconstructor.Rebuild(userID)
		if err != nil {
			responses.InternalServerError(c, "Failed to rebuild activity: "+err.Error())
			return
		}
		hc.ledger.Restore(userID, entries)
	}

	responses.SendSuccess(c, http.StatusOK, "", ActivityResponse{
		Entries:    hc.ledger.Entries(userID),
		MatchCount: hc.ledger.MatchCount(userID),
	})
}

// UndoLast godoc
// @Summary Undo the most recent swipe
// @Description Removes the entry from the local ledger only; persisted matches and conversations are not retracted.
// @Tags History
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=ActivityResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /history/undo [post]
func (hc *HistoryController) UndoLast(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	removed, ok := hc.ledger.UndoLast(userID)
	if !ok {
		responses.SendError(c, http.StatusNotFound, "Nothing to undo")
		return
	}
	hc.log.WithFields(map[string]interface{}{
		"user_id":  userID,
		"match_id": removed.MatchID,
	}).Debug("swipe undone")
	responses.SendSuccess(c, http.StatusOK, "Swipe undone", ActivityResponse{
		Entries:    hc.ledger.Entries(userID),
		MatchCount: hc.ledger.MatchCount(userID),
	})
}

// UndoAt godoc
// @Summary Undo a swipe by its position in the ledger
// @Tags History
// @Produce json
// @Param index path int true "Entry index, oldest first"
// @Success 200 {object} responses.SuccessResponse{data=ActivityResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /history/{index} [delete]
func (hc *HistoryController) UndoAt(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		responses.BadRequest(c, "Invalid entry index")
		return
	}

	if _, ok := hc.ledger.UndoAt(userID, index); !ok {
		responses.SendError(c, http.StatusNotFound, "No entry at this index")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Swipe undone", ActivityResponse{
		Entries:    hc.ledger.Entries(userID),
		MatchCount: hc.ledger.MatchCount(userID),
	})
}
