package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/apexgazer/internal/service"
	"github.com/langchou/apexgazer/pkg/ws"
)

// Handler serves the dashboard API.
type Handler struct {
	logger   *zap.Logger
	analysis *service.AnalysisService
	wsHub    *ws.Hub
	upgrader websocket.Upgrader
}

// NewHandler creates the handler.
func NewHandler(logger *zap.Logger, analysis *service.AnalysisService, wsHub *ws.Hub) *Handler {
	return &Handler{
		logger:   logger,
		analysis: analysis,
		wsHub:    wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // dashboard is served from a different origin in dev
			},
		},
	}
}

// RegisterRoutes wires the API routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// Selector data
		api.GET("/circuits", h.ListCircuits)
		api.GET("/session-types", h.ListSessionTypes)
		api.GET("/sessions", h.ListCachedSessions)
		api.GET("/sessions/:id/laps", h.ListSessionLaps)
		api.DELETE("/sessions/:id", h.EvictSession)

		// Analysis
		api.POST("/analyses", h.RunAnalysis)
		api.GET("/analyses", h.ListAnalyses)
		api.GET("/analyses/:id", h.GetAnalysis)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// Health check
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket upgrades the connection and attaches it to the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
