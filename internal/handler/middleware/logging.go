package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"lounge-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader    = "X-Request-ID"
	GatewayEventHeader = "X-Razorpay-Event-Id"

	requestIDKey     = "request_id"
	requestLoggerKey = "request_logger"
)

// ids echoed back to clients end up in support tickets; keep them printable and short
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// NewLogger builds the process logger: JSON in release mode, text otherwise,
// with timestamps rendered in the lounge's zone. It is installed as the slog default.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, cfg, gin.Mode() == gin.ReleaseMode))
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, cfg config.LogConfig, asJSON bool) slog.Handler {
	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}
	if asJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RequestLogging assigns every request an id, exposes a request-scoped logger
// through RequestLogger and writes one completion line per request. Paths in
// quietPaths (health probes) complete at debug level.
func RequestLogging(logger *slog.Logger, quietPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}
		// gateway redeliveries reuse the event id
		if eventID := c.GetHeader(GatewayEventHeader); eventID != "" {
			attrs = append(attrs, slog.String("gateway_event_id", eventID))
		}
		reqLogger := logger.With(attrs...)
		c.Set(requestLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		done := []slog.Attr{
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
		}
		if size := c.Writer.Size(); size > 0 {
			done = append(done, slog.Int("response_size", size))
		}
		if len(c.Errors) > 0 {
			done = append(done, slog.String("errors", c.Errors.String()))
		}

		reqLogger.LogAttrs(c.Request.Context(), completionLevel(c.Request.URL.Path, status, quietPaths), "request completed", done...)
	}
}

func completionLevel(path string, status int, quietPaths []string) slog.Level {
	switch {
	// storage outages are answered with Retry-After and are expected to clear
	case status == http.StatusServiceUnavailable:
		return slog.LevelWarn
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case slices.Contains(quietPaths, path):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// RequestLogger returns the logger bound to this request, or the default logger
// outside RequestLogging.
func RequestLogger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
