package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/services"
)

type AdminHandler struct {
	users  *services.UserService
	votes  *services.VoteService
	logger logging.Logger
}

func NewAdminHandler(users *services.UserService, votes *services.VoteService, logger logging.Logger) *AdminHandler {
	return &AdminHandler{users: users, votes: votes, logger: logger}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching users failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users"})
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	upd := services.UserUpdate{Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
			return
		}
		upd.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, common.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		default:
			h.logger.Error(c.Request.Context(), "updating user failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    toUserResponse(user),
	})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Error(c.Request.Context(), "deleting user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting user"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) DetailedVotes(c *gin.Context) {
	votes, err := h.votes.DetailedVotes(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching detailed votes failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching detailed votes"})
		return
	}

	c.JSON(http.StatusOK, toDetailedVoteResponses(votes))
}
