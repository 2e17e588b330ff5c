package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gameclub/backend/internal/auth"
	"gameclub/backend/internal/clubsession"
	"gameclub/backend/internal/database"
	"gameclub/backend/internal/hub"
	"gameclub/backend/internal/models"
	"gameclub/backend/internal/notify"
	"gameclub/backend/internal/ranking"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SessionInput struct {
	GameID      uint      `json:"game_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// SessionUpdateInput carries the fields an organizer may change after
// creation. Nil fields are left unchanged.
type SessionUpdateInput struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}

type ResultEntryInput struct {
	PlayerID     uint `json:"player_id" binding:"required"`
	Score        int  `json:"score"`
	ForcedWinner bool `json:"forced_winner"`
}

type RecordResultsInput struct {
	Results []ResultEntryInput `json:"results" binding:"required,dive"`
}

type RegistrantResponse struct {
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
	Rank     *int   `json:"rank"`
	Score    *int   `json:"score"`
}

type SessionResponse struct {
	ID              uint                 `json:"id"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	Location        string               `json:"location"`
	Description     string               `json:"description"`
	Capacity        int                  `json:"capacity"`
	RegistrantCount int                  `json:"registrant_count"`
	Game            GameResponse         `json:"game"`
	Organizer       PublicUserResponse   `json:"organizer"`
	Registrants     []RegistrantResponse `json:"registrants,omitempty"`
}

func newSessionResponse(session models.Session, registrants []models.Registration) SessionResponse {
	resp := SessionResponse{
		ID:              session.ID,
		ScheduledAt:     session.ScheduledAt,
		Location:        session.Location,
		Description:     session.Description,
		Capacity:        session.Capacity,
		RegistrantCount: session.RegistrantCount,
		Game:            newGameResponse(session.Game, nil),
		Organizer:       buildPublicUserResponse(session.Organizer),
	}
	for _, reg := range registrants {
		resp.Registrants = append(resp.Registrants, RegistrantResponse{
			UserID:   reg.UserID,
			Nickname: reg.User.Nickname,
			Rank:     reg.Rank,
			Score:    reg.Score,
		})
	}
	return resp
}

// endregion

// region --- Helpers ---

func requestUser(c *gin.Context) (*models.User, bool) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, userID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func loadSession(c *gin.Context) (*models.Session, bool) {
	id, _ := strconv.Atoi(c.Param("id"))

	var session models.Session
	if err := database.DB.Preload("Game").Preload("Organizer").First(&session, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return &session, true
}

// respondSessionError maps the session service's sentinel errors to HTTP
// statuses.
func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clubsession.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, clubsession.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is at full capacity"})
	case errors.Is(err, clubsession.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Already registered for this session"})
	case errors.Is(err, clubsession.ErrNotRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Not registered for this session"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// broadcastRegistrants pushes the refreshed registrant list to the
// session's room.
func broadcastRegistrants(sessionID uint) {
	regs, err := sessionSvc.Registrants(sessionID)
	if err != nil {
		return
	}
	payload := make([]RegistrantResponse, 0, len(regs))
	for _, reg := range regs {
		payload = append(payload, RegistrantResponse{
			UserID:   reg.UserID,
			Nickname: reg.User.Nickname,
			Rank:     reg.Rank,
			Score:    reg.Score,
		})
	}
	hub.GlobalHub.Broadcast(hub.SessionRoom(sessionID), hub.Event{
		Type:    "registrations.updated",
		Payload: payload,
	})
}

// endregion

// CreateSession godoc
// @Summary      Schedule a play session
// @Description  Schedules a new session of a game. Capacity is copied from the game's max player count.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SessionInput true "Session Info"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Organizer access required"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /sessions [post]
func CreateSession(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	if !auth.CanCreateSession(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Organizer access required"})
		return
	}

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, input.GameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	session := models.Session{
		GameID:      game.ID,
		OrganizerID: user.ID,
		ScheduledAt: input.ScheduledAt,
		Location:    input.Location,
		Description: input.Description,
		Capacity:    game.MaxPlayers,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	dispatcher.Dispatch(notify.Notification{
		Title:     "New session: " + game.Name,
		Body:      fmt.Sprintf("%s at %s", session.ScheduledAt.Format("Mon Jan 2 15:04"), session.Location),
		TargetURL: fmt.Sprintf("/sessions/%d", session.ID),
		Audience:  notify.AudienceSessions,
	})

	database.DB.Preload("Game").Preload("Organizer").First(&session, session.ID)
	c.JSON(http.StatusCreated, newSessionResponse(session, nil))
}

// ListUpcomingSessions godoc
// @Summary      List upcoming sessions
// @Description  Lists sessions scheduled at or after now, soonest first. Full sessions are hidden unless the viewer is registered.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SessionResponse
// @Router       /sessions/upcoming [get]
func ListUpcomingSessions(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	sessions, err := sessionSvc.ListUpcoming(viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}

	response := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, newSessionResponse(session, nil))
	}
	c.JSON(http.StatusOK, response)
}

// GetSessionByID godoc
// @Summary      Get a session by ID
// @Description  Gets full details for a single session, including its registrants and their ranks.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [get]
func GetSessionByID(c *gin.Context) {
	session, ok := loadSession(c)
	if !ok {
		return
	}

	regs, err := sessionSvc.Registrants(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve registrants"})
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(*session, regs))
}

// UpdateSession godoc
// @Summary      Update a session (Organizer/Admin only)
// @Description  Reschedules a session or changes its location or description.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Session ID"
// @Param        input body      SessionUpdateInput true  "Session changes"
// @Success      200   {object}  SessionResponse
// @Failure      403   {object}  ErrorResponse "Only the organizer can update the session"
// @Failure      404   {object}  ErrorResponse "Session not found"
// @Router       /sessions/{id} [put]
func UpdateSession(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	session, ok := loadSession(c)
	if !ok {
		return
	}
	if !auth.CanManageSession(user, session) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can update the session"})
		return
	}

	var input SessionUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ScheduledAt != nil {
		session.ScheduledAt = *input.ScheduledAt
	}
	if input.Location != nil {
		session.Location = *input.Location
	}
	if input.Description != nil {
		session.Description = *input.Description
	}

	if err := database.DB.Save(session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(*session, nil))
}

// DeleteSession godoc
// @Summary      Cancel a session (Organizer/Admin only)
// @Description  Deletes a scheduled session and its registrations.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} map[string]string "{"message": "Session deleted"}"
// @Failure      403 {object} ErrorResponse "Only the organizer can delete the session"
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [delete]
func DeleteSession(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	session, ok := loadSession(c)
	if !ok {
		return
	}
	if !auth.CanManageSession(user, session) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can delete the session"})
		return
	}

	if err := database.DB.Delete(session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// RegisterForSession godoc
// @Summary      Sign up for a session
// @Description  Registers the current member for a session, subject to capacity.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Failure      409 {object} ErrorResponse "Full or already registered"
// @Router       /sessions/{id}/register [post]
func RegisterForSession(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	id, _ := strconv.Atoi(c.Param("id"))

	if err := sessionSvc.Register(uint(id), viewerID.(uint), false); err != nil {
		respondSessionError(c, err)
		return
	}

	broadcastRegistrants(uint(id))

	session, ok := loadSession(c)
	if !ok {
		return
	}
	regs, _ := sessionSvc.Registrants(session.ID)
	c.JSON(http.StatusOK, newSessionResponse(*session, regs))
}

// UnregisterFromSession godoc
// @Summary      Withdraw from a session
// @Description  Removes the current member's registration.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Failure      409 {object} ErrorResponse "Not registered"
// @Router       /sessions/{id}/unregister [post]
func UnregisterFromSession(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	id, _ := strconv.Atoi(c.Param("id"))

	if err := sessionSvc.Unregister(uint(id), viewerID.(uint)); err != nil {
		respondSessionError(c, err)
		return
	}

	broadcastRegistrants(uint(id))

	session, ok := loadSession(c)
	if !ok {
		return
	}
	regs, _ := sessionSvc.Registrants(session.ID)
	c.JSON(http.StatusOK, newSessionResponse(*session, regs))
}

// RecordSessionResults godoc
// @Summary      Record ranked results (Organizer/Admin only)
// @Description  Computes ranks from scores and forced-winner flags and persists them per registration. Players not yet registered are added, bypassing the capacity gate. Per-record write failures do not block the rest and are reported alongside the results.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Session ID"
// @Param        input body      RecordResultsInput true  "Scores and winner flags"
// @Success      200   {object}  SessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Only the organizer can record results"
// @Failure      404   {object}  ErrorResponse "Session not found"
// @Router       /sessions/{id}/results [put]
func RecordSessionResults(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	session, ok := loadSession(c)
	if !ok {
		return
	}
	if !auth.CanManageSession(user, session) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can record results"})
		return
	}

	var input RecordResultsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]ranking.Entry, 0, len(input.Results))
	for _, r := range input.Results {
		entries = append(entries, ranking.Entry{
			PlayerID:     r.PlayerID,
			Score:        r.Score,
			ForcedWinner: r.ForcedWinner,
		})
	}

	_, err := sessionSvc.RecordResults(session.ID, entries)

	// Results may have changed the game's best score.
	syncer.RefreshGame(session.GameID)
	broadcastRegistrants(session.ID)

	session, ok = loadSession(c)
	if !ok {
		return
	}
	regs, _ := sessionSvc.Registrants(session.ID)
	resp := newSessionResponse(*session, regs)

	if err != nil {
		// Partial persistence: surface the failures next to what did land.
		c.JSON(http.StatusOK, gin.H{"session": resp, "errors": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
