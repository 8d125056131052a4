package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/services"
)

type VoteHandler struct {
	svc    *services.VoteService
	logger logging.Logger
}

func NewVoteHandler(svc *services.VoteService, logger logging.Logger) *VoteHandler {
	return &VoteHandler{svc: svc, logger: logger}
}

func (h *VoteHandler) Cast(c *gin.Context) {
	claims, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	vote, err := h.svc.Cast(c.Request.Context(), claims.UserID, req.Name)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyVoted) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User has already voted"})
			return
		}
		h.logger.Error(c.Request.Context(), "casting vote failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error casting vote"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vote cast successfully",
		"vote":    toVoteResponse(vote),
	})
}

func (h *VoteHandler) List(c *gin.Context) {
	votes, err := h.svc.Votes(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching votes failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching votes"})
		return
	}

	c.JSON(http.StatusOK, toVoteResponses(votes))
}

func (h *VoteHandler) MyVote(c *gin.Context) {
	claims, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	vote, err := h.svc.UserVote(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching user vote failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user vote"})
		return
	}

	// not having voted yet is not an error: the body is an explicit null
	if vote == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toVoteResponse(vote))
}

func (h *VoteHandler) Results(c *gin.Context) {
	results, err := h.svc.Results(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching vote results failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching vote results"})
		return
	}

	c.JSON(http.StatusOK, toVoteCountResponses(results))
}

func (h *VoteHandler) Names(c *gin.Context) {
	names, err := h.svc.Names(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "fetching vote names failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching unique vote names"})
		return
	}

	c.JSON(http.StatusOK, names)
}
