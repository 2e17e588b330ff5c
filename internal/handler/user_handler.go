package handler

import (
	"net/http"
	"strconv"

	"gameclub/backend/internal/database"
	"gameclub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PublicUserResponse defines the structure for a member's public profile.
type PublicUserResponse struct {
	ID            uint     `json:"id" example:"1"`
	Nickname      string   `json:"nickname" example:"meeplequeen"`
	Role          string   `json:"role" example:"member"`
	FavoriteGames []string `json:"favorite_games"`
}

// PrivateUserResponse defines the structure for the authenticated member's own profile.
type PrivateUserResponse struct {
	ID             uint     `json:"id" example:"1"`
	Nickname       string   `json:"nickname" example:"meeplequeen"`
	Email          string   `json:"email" example:"queen@club.test"`
	Role           string   `json:"role" example:"member"`
	FavoriteGames  []string `json:"favorite_games"`
	NotifySessions bool     `json:"notify_sessions"`
	NotifyGames    bool     `json:"notify_games"`
}

// UpdateProfileInput defines the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Nickname       *string `json:"nickname"`
	NotifySessions *bool   `json:"notify_sessions"`
	NotifyGames    *bool   `json:"notify_games"`
}

// UpdateRoleInput defines the admin role-change payload.
type UpdateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=member organizer admin"`
}

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:            user.ID,
		Nickname:      user.Nickname,
		Role:          user.Role,
		FavoriteGames: favoriteNames(user),
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:             user.ID,
		Nickname:       user.Nickname,
		Email:          user.Email,
		Role:           user.Role,
		FavoriteGames:  favoriteNames(user),
		NotifySessions: user.NotifySessions,
		NotifyGames:    user.NotifyGames,
	}
}

func favoriteNames(user models.User) []string {
	names := []string{}
	for _, g := range user.FavoriteGames {
		if g != nil {
			names = append(names, g.Name)
		}
	}
	return names
}

// endregion

// GetMe godoc
// @Summary      Get current member's profile
// @Description  Retrieves the private profile for the currently authenticated member.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.Preload("FavoriteGames").First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current member's profile
// @Description  Updates display name and notification preferences.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile changes"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Nickname already taken"
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Nickname != nil && *input.Nickname != user.Nickname {
		var existing models.User
		if err := database.DB.Where("nickname = ?", *input.Nickname).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Nickname already taken"})
			return
		}
		user.Nickname = *input.Nickname
	}
	if input.NotifySessions != nil {
		user.NotifySessions = *input.NotifySessions
	}
	if input.NotifyGames != nil {
		user.NotifyGames = *input.NotifyGames
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	database.DB.Preload("FavoriteGames").First(&user, user.ID)
	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// SearchUsers godoc
// @Summary      Search for members
// @Description  Searches for members by nickname with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for nickname"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	searchQuery := c.Query("q")
	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))
	offset := (page - 1) * limit

	var users []models.User
	var totalItems int64

	query := database.DB.Model(&models.User{})
	if searchQuery != "" {
		query = query.Where("nickname ILIKE ?", "%"+searchQuery+"%")
	}

	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	if err := query.Preload("FavoriteGames").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, buildPublicUserResponse(user))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// GetUserByID godoc
// @Summary      Get member by ID
// @Description  Retrieves the public profile for a specific member.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if viewerID.(uint) == uint(targetUserID) {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.Preload("FavoriteGames").First(&targetUser, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(targetUser))
}

// UpdateUserRole godoc
// @Summary      Change a member's role (Admin only)
// @Description  Assigns the member, organizer, or admin role to a member.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "User ID"
// @Param        input body      UpdateRoleInput true  "New role"
// @Success      200   {object}  PublicUserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "User not found"
// @Router       /admin/users/{id}/role [put]
func UpdateUserRole(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	database.DB.Model(&user).Update("role", input.Role)
	c.JSON(http.StatusOK, buildPublicUserResponse(user))
}
