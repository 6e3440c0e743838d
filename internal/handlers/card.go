package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/middleware"
	"github.com/alimgiray/streakcard/internal/services"
)

const DefaultCacheMaxAge = 300

type CardHandler struct {
	cardService *services.CardService
	cacheMaxAge int
}

func NewCardHandler(cardService *services.CardService, cacheMaxAge int) *CardHandler {
	if cacheMaxAge <= 0 {
		cacheMaxAge = DefaultCacheMaxAge
	}
	return &CardHandler{
		cardService: cardService,
		cacheMaxAge: cacheMaxAge,
	}
}

// Card serves the card with the username initial in place of the avatar
func (h *CardHandler) Card(c *gin.Context) {
	h.serve(c, false)
}

// CardWithAvatar serves the card with the user's avatar embedded as a data URI
func (h *CardHandler) CardWithAvatar(c *gin.Context) {
	h.serve(c, true)
}

func (h *CardHandler) serve(c *gin.Context, embedAvatar bool) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.String(http.StatusBadRequest, "Username is required")
		return
	}

	result := h.cardService.Generate(c.Request.Context(), services.CardRequest{
		Username:    username,
		Preset:      c.Query("preset"),
		ThemeParam:  c.Query("theme"),
		EmbedAvatar: embedAvatar,
		RequestID:   middleware.GetRequestID(c),
	})

	if result.OK {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", h.cacheMaxAge))
	} else {
		c.Header("Cache-Control", "no-cache")
	}
	c.Data(http.StatusOK, middleware.SVGContentType, result.SVG)
}
