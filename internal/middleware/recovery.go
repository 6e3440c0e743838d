package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/render"
	"github.com/alimgiray/streakcard/pkg/logger"
)

const SVGContentType = "image/svg+xml; charset=utf-8"

// CardRecovery turns a panic into the generic error card so image embeds never break
func CardRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("request_id", GetRequestID(c)).
			WithField("panic", recovered).
			Error("Card generation panicked")

		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, SVGContentType, render.RenderError(render.GenerationFailedMessage))
		c.Abort()
	})
}
