package main

import (
	"net/http"

	"gameclub/backend/internal/auth"
	"gameclub/backend/internal/catalog"
	"gameclub/backend/internal/clubsession"
	"gameclub/backend/internal/config"
	"gameclub/backend/internal/database"
	"gameclub/backend/internal/handler"
	"gameclub/backend/internal/metadata"
	"gameclub/backend/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Game Club API
// @version         1.0
// @description     Membership and events API for the board-game club.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Wire the handler collaborators
	handler.Setup(
		clubsession.NewService(database.DB),
		catalog.NewBestScoreSyncer(database.DB, log),
		metadata.NewClient(config.AppConfig.MetadataURL, log),
		notify.NewDispatcher(config.AppConfig.NotifyURL, config.AppConfig.NotifyAPIKey, log),
	)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.GET("/:id", handler.GetUserByID)
		}

		// Catalogue routes; browsing works without a token, favorites
		// light up when one is sent
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", auth.OptionalAuthMiddleware(), handler.GetGames)
			gameRoutes.GET("/:id", auth.OptionalAuthMiddleware(), handler.GetGameByID)
			gameRoutes.POST("/:id/favorite", auth.AuthMiddleware(), handler.ToggleFavoriteGame)

			// Catalogue edits need the organizer tier
			editors := gameRoutes.Group("")
			editors.Use(auth.AuthMiddleware(), auth.CatalogueEditorMiddleware())
			{
				editors.POST("", handler.CreateGame)
				editors.PUT("/:id", handler.UpdateGame)
				editors.DELETE("/:id", handler.DeleteGame)
			}
		}

		// Session routes (protected; per-session authorization inside the handlers)
		sessionRoutes := apiV1.Group("/sessions")
		sessionRoutes.Use(auth.AuthMiddleware())
		{
			sessionRoutes.GET("/upcoming", handler.ListUpcomingSessions)
			sessionRoutes.POST("", handler.CreateSession)
			sessionRoutes.GET("/:id", handler.GetSessionByID)
			sessionRoutes.PUT("/:id", handler.UpdateSession)
			sessionRoutes.DELETE("/:id", handler.DeleteSession)
			sessionRoutes.POST("/:id/register", handler.RegisterForSession)
			sessionRoutes.POST("/:id/unregister", handler.UnregisterFromSession)
			sessionRoutes.PUT("/:id/results", handler.RecordSessionResults)
			sessionRoutes.GET("/:id/stream", handler.StreamSessionEvents)
		}

		// Chat routes (protected)
		chatRoutes := apiV1.Group("/chat")
		chatRoutes.Use(auth.AuthMiddleware())
		{
			chatRoutes.GET("/messages", handler.ListMessages)
			chatRoutes.POST("/messages", handler.PostMessage)
			chatRoutes.GET("/stream", handler.StreamChat)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.PUT("/users/:id/role", handler.UpdateUserRole)
		}
	}

	log.Infof("server is running on %s", config.AppConfig.HTTPAddr)
	log.Info("swagger UI is available at /swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.HTTPAddr))
}
