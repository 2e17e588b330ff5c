package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"gameclub/backend/internal/database"
	"gameclub/backend/internal/models"
	"gameclub/backend/internal/notify"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Name            string `json:"name" binding:"required"`
	MinPlayers      int    `json:"min_players" binding:"required,min=1"`
	MaxPlayers      int    `json:"max_players" binding:"required,min=1"`
	DurationMinutes int    `json:"duration_minutes"`
	OwnerName       string `json:"owner_name"`
	CatalogRef      string `json:"catalog_ref"`
}

type GameResponse struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	MinPlayers      int      `json:"min_players"`
	MaxPlayers      int      `json:"max_players"`
	DurationMinutes int      `json:"duration_minutes"`
	OwnerName       string   `json:"owner_name"`
	CatalogRef      string   `json:"catalog_ref"`
	CoverImageURL   string   `json:"cover_image_url"`
	Weight          *float64 `json:"weight"`
	Rating          *float64 `json:"rating"`
	BestScore       *int     `json:"best_score"`
	BestScorers     string   `json:"best_scorers"`
	IsFavorite      bool     `json:"is_favorite"`
}

func newGameResponse(game models.Game, favoriteIDs map[uint]bool) GameResponse {
	_, isFav := favoriteIDs[game.ID]

	return GameResponse{
		ID:              game.ID,
		Name:            game.Name,
		MinPlayers:      game.MinPlayers,
		MaxPlayers:      game.MaxPlayers,
		DurationMinutes: game.DurationMinutes,
		OwnerName:       game.OwnerName,
		CatalogRef:      game.CatalogRef,
		CoverImageURL:   game.CoverImageURL,
		Weight:          game.Weight,
		Rating:          game.Rating,
		BestScore:       game.BestScore,
		BestScorers:     game.BestScorers,
		IsFavorite:      isFav,
	}
}

// endregion

// region --- Catalogue Editor Handlers ---

// CreateGame godoc
// @Summary      Add a game to the catalogue
// @Description  Creates a catalogue entry. Metadata (cover, weight, rating) is looked up by catalogue reference; lookup failure leaves those fields empty.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Organizer access required"
// @Router       /games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game := models.Game{
		Name:            input.Name,
		MinPlayers:      input.MinPlayers,
		MaxPlayers:      input.MaxPlayers,
		DurationMinutes: input.DurationMinutes,
		OwnerName:       input.OwnerName,
		CatalogRef:      input.CatalogRef,
	}

	if meta := metaClient.Lookup(c.Request.Context(), input.CatalogRef); meta != nil {
		game.CoverImageURL = meta.CoverImageURL
		game.Weight = meta.Weight
		game.Rating = meta.Rating
	}

	if err := database.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	dispatcher.Dispatch(notify.Notification{
		Title:     "New game in the catalogue",
		Body:      game.Name,
		TargetURL: fmt.Sprintf("/games/%d", game.ID),
		Audience:  notify.AudienceGames,
	})

	c.JSON(http.StatusCreated, newGameResponse(game, nil))
}

// UpdateGame godoc
// @Summary      Update a catalogue game
// @Description  Updates a game's details. A changed catalogue reference triggers a fresh metadata lookup.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Organizer access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	refChanged := input.CatalogRef != game.CatalogRef

	game.Name = input.Name
	game.MinPlayers = input.MinPlayers
	game.MaxPlayers = input.MaxPlayers
	game.DurationMinutes = input.DurationMinutes
	game.OwnerName = input.OwnerName
	game.CatalogRef = input.CatalogRef

	if refChanged {
		game.CoverImageURL = ""
		game.Weight = nil
		game.Rating = nil
		if meta := metaClient.Lookup(c.Request.Context(), input.CatalogRef); meta != nil {
			game.CoverImageURL = meta.CoverImageURL
			game.Weight = meta.Weight
			game.Rating = meta.Rating
		}
	}

	if err := database.DB.Save(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game, nil))
}

// DeleteGame godoc
// @Summary      Remove a game from the catalogue
// @Description  Soft-deletes a catalogue entry; history stays intact.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Organizer access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.Game{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Member Handlers ---

// ToggleFavoriteGame godoc
// @Summary      Toggle a game in favorites
// @Description  Adds or removes a game from the member's favorites. At most two favorites are allowed.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]bool "{"is_favorite": true}"
// @Failure      404 {object} ErrorResponse "User or game not found"
// @Failure      409 {object} ErrorResponse "Favorite limit reached"
// @Router       /games/{id}/favorite [post]
func ToggleFavoriteGame(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	if err := database.DB.Preload("FavoriteGames").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	association := database.DB.Model(&user).Association("FavoriteGames")

	for _, fav := range user.FavoriteGames {
		if fav != nil && fav.ID == game.ID {
			if err := association.Delete(&game); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from favorites"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"is_favorite": false})
			return
		}
	}

	if len(user.FavoriteGames) >= models.MaxFavoriteGames {
		c.JSON(http.StatusConflict, gin.H{"error": "Favorite limit reached"})
		return
	}
	if err := association.Append(&game); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": true})
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves one catalogue entry with its derived best score.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	uid := viewerID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	// Bring the derived best-score fields up to date for this load.
	syncer.RefreshGame(uint(id))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	favoriteIDs := make(map[uint]bool)
	if uid != 0 {
		var user models.User
		database.DB.Preload("FavoriteGames", "id = ?", id).First(&user, uid)
		if len(user.FavoriteGames) > 0 {
			favoriteIDs[uint(id)] = true
		}
	}

	c.JSON(http.StatusOK, newGameResponse(game, favoriteIDs))
}

// GetGames godoc
// @Summary      Browse the catalogue
// @Description  Retrieves a paginated list of games, with optional filtering by name and favorites.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        q              query string false "Search query for game name"
// @Param        favorites_only query bool   false "Return only favorite games"
// @Param        page           query int    false "Page number" default(1)
// @Param        limit          query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Router       /games [get]
func GetGames(c *gin.Context) {
	uid := viewerID(c)
	page, limit := pageParams(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))
	offset := (page - 1) * limit
	searchQuery := c.Query("q")
	favoritesOnly, _ := strconv.ParseBool(c.Query("favorites_only"))

	// A catalogue load starts a fresh best-score sync cycle.
	syncer.Refresh()

	favoriteIDs := make(map[uint]bool)
	var favGameIDs []uint
	if uid != 0 {
		var user models.User
		database.DB.Preload("FavoriteGames").First(&user, uid)
		for _, favGame := range user.FavoriteGames {
			favoriteIDs[favGame.ID] = true
			favGameIDs = append(favGameIDs, favGame.ID)
		}
	}

	dbQuery := database.DB.Model(&models.Game{})

	if favoritesOnly {
		if len(favGameIDs) == 0 {
			c.JSON(http.StatusOK, NewPaginatedResponse([]GameResponse{}, 0, page, limit))
			return
		}
		dbQuery = dbQuery.Where("id IN (?)", favGameIDs)
	}

	if searchQuery != "" {
		dbQuery = dbQuery.Where("name ILIKE ?", "%"+searchQuery+"%")
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
		return
	}

	var games []models.Game
	if err := dbQuery.Order("name asc").Offset(offset).Limit(limit).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game, favoriteIDs))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// endregion
