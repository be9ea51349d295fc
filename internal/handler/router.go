package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lounge-booking/internal/handler/api"
	"lounge-booking/internal/handler/middleware"
	"lounge-booking/internal/pkg/config"
)

const (
	healthPath  = "/health"
	webhookPath = "/api/payments/webhook"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Availability *api.AvailabilityHandler
	SlotBlocks   *api.SlotBlockHandler
	Payments     *api.PaymentHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, webhookVerifier middleware.SignatureVerifier) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, webhookVerifier)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, webhookPath))
	engine.Use(middleware.RequestLogging(logger, healthPath))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, webhookVerifier middleware.SignatureVerifier) {
	engine.GET(healthPath, healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/availability", Handler: h.Availability.Check},
			{Method: http.MethodPost, Path: "/slot-blocks", Handler: h.SlotBlocks.Create},
			{Method: http.MethodDelete, Path: "/slot-blocks", Handler: h.SlotBlocks.Release},
			{Method: http.MethodPost, Path: "/checkout", Handler: h.Payments.Checkout},
		})

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{
					Method:  http.MethodPost,
					Path:    "/webhook",
					Handler: h.Payments.Webhook,
					Mw:      []gin.HandlerFunc{middleware.RequireWebhookSignature(webhookVerifier)},
				},
				{Method: http.MethodPost, Path: "/return", Handler: h.Payments.Return},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
