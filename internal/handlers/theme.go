package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/internal/services"
)

type ThemeHandler struct {
	themeService  *services.ThemeService
	readmeService *services.ReadmeService
	publicURL     string
}

// NewThemeHandler creates the theme handler. A non-empty publicURL replaces the
// request-derived origin in README snippets.
func NewThemeHandler(themeService *services.ThemeService, readmeService *services.ReadmeService, publicURL string) *ThemeHandler {
	return &ThemeHandler{
		themeService:  themeService,
		readmeService: readmeService,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}
}

// Themes lists the preset themes
func (h *ThemeHandler) Themes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": models.DefaultPreset,
		"presets": h.themeService.Presets(),
	})
}

// Readme returns the markdown snippet embedding a card served by this host
func (h *ThemeHandler) Readme(c *gin.Context) {
	avatar := true
	if raw := c.Query("avatar"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			avatar = parsed
		}
	}

	snippet, err := h.readmeService.Build(h.origin(c), c.Query("username"), c.Query("preset"), c.Query("theme"), avatar)
	if errors.Is(err, services.ErrUsernameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snippet)
}

func (h *ThemeHandler) origin(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	return requestOrigin(c)
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
