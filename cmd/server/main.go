package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"socialnet/backend/internal/auth"
	"socialnet/backend/internal/config"
	"socialnet/backend/internal/database"
	"socialnet/backend/internal/friends"
	"socialnet/backend/internal/handler"
	"socialnet/backend/internal/middleware"
	"socialnet/backend/internal/service"
	"socialnet/backend/internal/store"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "socialnet/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Socialnet API
// @version         1.0
// @description     Social-graph backend: friend requests, blocking and activity feeds.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	db := database.Connect(config.AppConfig.DatabaseURL)

	users := store.NewUsers(db)
	relationships := store.NewRelationshipStore(db)
	activities := store.NewActivityLog(db)
	resolver := friends.NewResolver(relationships, users)
	social := service.New(users, relationships, activities, resolver)

	authHandler := handler.NewAuthHandler(users)
	userHandler := handler.NewUserHandler(users)
	socialHandler := handler.NewSocialHandler(social)

	loginLimiter := middleware.RateLimit(middleware.RateLimitOptions{
		RatePerWindow: config.AppConfig.LoginRateLimit,
		Window:        time.Duration(config.AppConfig.LoginRateWindowSeconds) * time.Second,
	})

	// The friends list is cached per user; staleness up to the TTL is an
	// accepted tradeoff.
	friendsCache := middleware.CacheResponse(middleware.CacheOptions{
		TTL: time.Duration(config.AppConfig.FriendsCacheTTLSeconds) * time.Second,
		KeyFunc: func(c *gin.Context) string {
			userID, _ := c.Get("userID")
			return strconv.FormatUint(uint64(userID.(uint)), 10)
		},
	})

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Auth routes
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", loginLimiter, authHandler.Login)

	// Protected routes
	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/search", userHandler.Search)

		protected.POST("/send-friend-request", socialHandler.SendFriendRequest)
		protected.PATCH("/accept-friend-request/:id", socialHandler.AcceptFriendRequest)
		protected.PUT("/accept-friend-request/:id", socialHandler.AcceptFriendRequest)
		protected.PATCH("/reject-friend-request/:id", socialHandler.RejectFriendRequest)
		protected.PUT("/reject-friend-request/:id", socialHandler.RejectFriendRequest)
		protected.POST("/block-user", socialHandler.BlockUser)

		protected.GET("/friends", friendsCache, socialHandler.GetFriends)
		protected.GET("/pending-requests", socialHandler.GetPendingRequests)
		protected.GET("/activities", socialHandler.GetActivities)
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
