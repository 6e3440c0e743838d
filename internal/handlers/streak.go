package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/middleware"
	"github.com/alimgiray/streakcard/internal/services"
	"github.com/alimgiray/streakcard/pkg/logger"
)

type StreakHandler struct {
	profiles services.StatsFetcher
}

func NewStreakHandler(profiles services.StatsFetcher) *StreakHandler {
	return &StreakHandler{
		profiles: profiles,
	}
}

// Streak returns the statistics payload the card routes consume
func (h *StreakHandler) Streak(c *gin.Context) {
	username := c.Query("username")

	payload, err := h.profiles.Fetch(c.Request.Context(), username)
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	case err != nil:
		logger.WithError(err).
			WithField("username", username).
			WithField("request_id", middleware.GetRequestID(c)).
			Warn("Profile lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch GitHub profile"})
		return
	}

	c.JSON(http.StatusOK, payload)
}
