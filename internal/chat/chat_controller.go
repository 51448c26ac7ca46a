package chat

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/validator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts same-origin requests and the configured frontend.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == config.GetConfig().App.FrontendURL
}

// ChatController handles conversation and message HTTP requests plus the
// websocket subscription endpoint.
type ChatController struct {
	repo   ChatRepository
	unread *UnreadCounter
	hub    *Hub
	log    *logger.Logger
}

// NewChatController creates a new chat controller.
func NewChatController(repo ChatRepository, hub *Hub) *ChatController {
	return &ChatController{
		repo:   repo,
		unread: NewUnreadCounter(repo),
		hub:    hub,
		log:    logger.New().WithField("component", "chat"),
	}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

// ConversationSummary is a conversation plus its unread count for the
// requesting user.
type ConversationSummary struct {
	Conversation
	UnreadCount int64 `json:"unread_count"`
}

// ListMyConversations godoc
// @Summary List conversations with unread counts
// @Tags Chat
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]ConversationSummary}
// @Security ApiKeyAuth
// @Router /conversations [get]
func (cc *ChatController) ListMyConversations(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	conversations, err := cc.repo.GetConversationsForUser(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load conversations: "+err.Error())
		return
	}

	counts, err := cc.repo.UnreadCounts(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to compute unread counts: "+err.Error())
		return
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summaries = append(summaries, ConversationSummary{
			Conversation: conv,
			UnreadCount:  counts[conv.ID],
		})
	}
	responses.SendSuccess(c, http.StatusOK, "", summaries)
}

// GetMessages godoc
// @Summary Get messages in a conversation
// @Tags Chat
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} responses.PaginatedResponse{data=[]Message}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /conversations/{conversation_id}/messages [get]
func (cc *ChatController) GetMessages(c *gin.Context) {
	_, conversationID, ok := cc.authorizeParticipant(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	messages, total, err := cc.repo.GetMessages(conversationID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to load messages: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", messages, total, page, limit)
}

// SendMessage godoc
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Param message body SendMessageRequest true "Message content"
// @Success 201 {object} responses.SuccessResponse{data=Message}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /conversations/{conversation_id}/messages [post]
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, conversationID, ok := cc.authorizeParticipant(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	message := &Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        req.Content,
	}
	if err := cc.repo.CreateMessage(message); err != nil {
		responses.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	cc.hub.BroadcastMessage(message)
	responses.SendSuccess(c, http.StatusCreated, "Message sent", message)
}

// MarkRead godoc
// @Summary Mark a conversation as read
// @Description Advances the read cursor to now. Call when the conversation view opens.
// @Tags Chat
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /conversations/{conversation_id}/read [post]
func (cc *ChatController) MarkRead(c *gin.Context) {
	userID, conversationID, ok := cc.authorizeParticipant(c)
	if !ok {
		return
	}

	if err := cc.unread.MarkRead(conversationID, userID); err != nil {
		// The client already reset its local count; it must re-fetch the
		// authoritative count after this failure.
		unread, ferr := cc.unread.Unread(conversationID, userID)
		if ferr != nil {
			responses.InternalServerError(c, "Failed to mark conversation read: "+err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":       "fail",
			"message":      "Failed to mark conversation read",
			"unread_count": unread,
		})
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation marked read", gin.H{"last_read_at": time.Now()})
}

// ServeWS godoc
// @Summary Subscribe to new messages in a conversation
// @Description Upgrades to a websocket that receives message.created events for the conversation.
// @Tags Chat
// @Param conversation_id path uint true "Conversation ID"
// @Security ApiKeyAuth
// @Router /conversations/{conversation_id}/ws [get]
func (cc *ChatController) ServeWS(c *gin.Context) {
	userID, conversationID, ok := cc.authorizeParticipant(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cc.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	cc.hub.Subscribe(conn, conversationID, userID)
}

// authorizeParticipant parses the conversation id and verifies the requester
// participates in it. Writes the error response itself when it returns !ok.
func (cc *ChatController) authorizeParticipant(c *gin.Context) (userID, conversationID uint, ok bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("conversation_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid conversation ID")
		return 0, 0, false
	}
	conversationID = uint(id)

	isParticipant, err := cc.repo.IsParticipant(conversationID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check participation: "+err.Error())
		return 0, 0, false
	}
	if !isParticipant {
		responses.Forbidden(c, "You are not a participant of this conversation")
		return 0, 0, false
	}
	return userID, conversationID, true
}
