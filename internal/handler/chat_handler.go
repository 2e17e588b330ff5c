package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"gameclub/backend/internal/database"
	"gameclub/backend/internal/hub"
	"gameclub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type MessageInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `json:"type"`
	Nickname  string    `json:"nickname,omitempty"`
	Content   string    `json:"content"`
}

func newMessageResponse(msg models.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		CreatedAt: msg.CreatedAt,
		Type:      string(msg.Type),
		Nickname:  msg.User.Nickname,
		Content:   msg.Content,
	}
}

// endregion

// ListMessages godoc
// @Summary      Get chat history
// @Description  Retrieves the club chat history, newest first.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[MessageResponse]
// @Router       /chat/messages [get]
func ListMessages(c *gin.Context) {
	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))

	result, err := Paginate[models.Message](
		database.DB.Preload("User").Order("created_at desc"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	responses := make([]MessageResponse, 0, len(result.Data))
	for _, msg := range result.Data {
		responses = append(responses, newMessageResponse(msg))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, result.Meta.TotalItems, page, limit))
}

// PostMessage godoc
// @Summary      Post a chat message
// @Description  Stores a message in the club chat and broadcasts it to connected clients.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MessageInput true "Message"
// @Success      201 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /chat/messages [post]
func PostMessage(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.Message{
		UserID:  &user.ID,
		Type:    models.MessageTypeText,
		Content: input.Content,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}
	msg.User = *user

	response := newMessageResponse(msg)
	hub.GlobalHub.Broadcast(hub.ChatRoom, hub.Event{Type: "message.created", Payload: response})

	c.JSON(http.StatusCreated, response)
}

// StreamChat godoc
// @Summary      Subscribe to the club chat
// @Description  Server-sent event stream of new chat messages.
// @Tags         chat
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /chat/stream [get]
func StreamChat(c *gin.Context) {
	streamRoom(c, hub.ChatRoom)
}

// StreamSessionEvents godoc
// @Summary      Subscribe to a session's registration events
// @Description  Server-sent event stream of registration and result changes for one session.
// @Tags         sessions
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200
// @Router       /sessions/{id}/stream [get]
func StreamSessionEvents(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	streamRoom(c, hub.SessionRoom(uint(id)))
}

func streamRoom(c *gin.Context, room string) {
	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(room, client)
	defer hub.GlobalHub.Unsubscribe(room, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
