package http

import "github.com/gin-gonic/gin"

// Register mounts the REST API on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/summary", h.MetricsSummary)

	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.POST("/sessions/:id/activate", h.ActivateSession)
	r.DELETE("/sessions/:id", h.CloseSession)
	r.GET("/sessions/:id/transcript", h.Transcript)
	r.POST("/input", h.SendInput)

	r.GET("/services", h.ListServices)
	r.POST("/services/discover", h.DiscoverServices)
	r.POST("/services/execute", h.ExecuteService)
}
