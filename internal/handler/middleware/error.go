package middleware

import (
	"log/slog"
	"net/http"

	"lounge-booking/internal/handler/httperr"
	"lounge-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const maxLoggedStackLines = 12

// ErrorHandler logs the cause behind 5xx answers and writes a body when a
// handler recorded an error without responding.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()

		status := c.Writer.Status()
		if resp, ok := last.Meta.(httperr.Response); ok {
			status = resp.Status
		}
		if status >= http.StatusInternalServerError {
			RequestLogger(c).Error("request failed",
				slog.Int("status", status),
				slog.String("error", last.Err.Error()),
				slog.Any("stack", errs.ExtractStackLines(last.Err, maxLoggedStackLines)))
		}

		if c.Writer.Written() {
			return
		}
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				RequestLogger(c).Error("recovered from panic",
					slog.Any("panic", rec),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}
