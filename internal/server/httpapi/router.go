package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/services"
)

// RouterDeps bundles everything the HTTP layer needs.
type RouterDeps struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Votes     *services.VoteService
	JWTSecret []byte
	Logger    logging.Logger
}

// NewRouter assembles the gin engine with all routes and gates attached.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	voteHandler := NewVoteHandler(deps.Votes, deps.Logger)
	adminHandler := NewAdminHandler(deps.Users, deps.Votes, deps.Logger)

	authenticate := Authenticate(deps.JWTSecret)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	votes := api.Group("/votes")
	{
		votes.POST("", authenticate, voteHandler.Cast)
		votes.GET("", voteHandler.List)
		votes.GET("/my-vote", authenticate, voteHandler.MyVote)
		votes.GET("/result", voteHandler.Results)
		votes.GET("/names", voteHandler.Names)
	}

	admin := api.Group("/admin", authenticate, RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/votes", adminHandler.DetailedVotes)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return r
}
