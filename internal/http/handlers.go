package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/opsconsole/internal/service"
	"github.com/GriffinCanCode/opsconsole/internal/shared/types"
	"github.com/GriffinCanCode/opsconsole/internal/shared/utils"
)

// Version is reported by the root and health endpoints.
const Version = "0.3.0"

// Console is the session manager surface the REST API drives.
type Console interface {
	CreateSession() (console.SessionInfo, error)
	ActivateSession(id string) error
	CloseSession(id string) error
	RouteInput(raw string) bool
	SendInput(id, raw string) error
	Sessions() []console.SessionInfo
	Session(id string) (console.SessionInfo, error)
	Active() (console.SessionInfo, bool)
}

// Transcripts gives access to session scrollback.
type Transcripts interface {
	Transcript(id string) ([]byte, bool)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	console     Console
	transcripts Transcripts
	registry    *service.Registry
	metrics     *monitoring.Metrics
	started     time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(c Console, transcripts Transcripts, registry *service.Registry, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		console:     c,
		transcripts: transcripts,
		registry:    registry,
		metrics:     metrics,
		started:     time.Now(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Ops Console",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	sessions := h.console.Sessions()
	var activeID *string
	if active, ok := h.console.Active(); ok {
		activeID = &active.ID
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"console": gin.H{
			"sessions":       len(sessions),
			"active_session": activeID,
		},
		"service_registry": h.registry.Stats(),
		"metrics":          h.metrics.Snapshot(),
	})
}

// MetricsSummary returns the metrics snapshot as JSON
func (h *Handlers) MetricsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListSessions lists sessions in creation order
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.console.Sessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// CreateSession opens a new session and makes it active
func (h *Handlers) CreateSession(c *gin.Context) {
	info, err := h.console.CreateSession()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// GetSession describes one session
func (h *Handlers) GetSession(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}
	info, err := h.console.Session(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ActivateSession switches the active session
func (h *Handlers) ActivateSession(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}
	if err := h.console.ActivateSession(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": id,
	})
}

// CloseSession disposes a session
func (h *Handlers) CloseSession(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}
	if err := h.console.CloseSession(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": id,
	})
}

// SendInput feeds raw keystrokes to a session, or to the active one
func (h *Handlers) SendInput(c *gin.Context) {
	var req types.InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateInput(req.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateID(req.SessionID, "session_id", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SessionID == "" {
		if !h.console.RouteInput(req.Data) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
			return
		}
	} else if err := h.console.SendInput(req.SessionID, req.Data); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"bytes":   len(req.Data),
	})
}

// Transcript downloads a session's scrollback, gzip-compressed when the
// client accepts it. ?format=plain strips escape sequences.
func (h *Handlers) Transcript(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}
	body, ok := h.transcripts.Transcript(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}

	contentType := "text/plain; charset=utf-8"
	switch c.DefaultQuery("format", "ansi") {
	case "plain":
		body = []byte(utils.StripANSI(string(body)))
	case "ansi":
		contentType = "text/x-ansi; charset=utf-8"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be ansi or plain"})
		return
	}

	etag := utils.ETag(body)
	c.Header("ETag", etag)
	c.Header("Vary", "Accept-Encoding")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	if !acceptsGzip(c.GetHeader("Accept-Encoding")) {
		c.Data(http.StatusOK, contentType, body)
		return
	}

	c.Header("Content-Encoding", "gzip")
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	gz := gzip.NewWriter(c.Writer)
	if _, err := gz.Write(body); err != nil {
		_ = c.Error(err)
		return
	}
	if err := gz.Close(); err != nil {
		_ = c.Error(err)
	}
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		if err := utils.ValidateID(categoryStr, "category", false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices finds services relevant to a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		Limit int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateString(req.Query, "query", 1, utils.MaxCommandSize, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": h.registry.Discover(req.Query, req.Limit),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID != nil {
		if err := utils.ValidateID(*req.SessionID, "session_id", false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	sctx := &types.Context{
		SessionID: req.SessionID,
		ClientIP:  c.ClientIP(),
	}
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, sctx)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidToolID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError maps console errors onto status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, console.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, console.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func sessionParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return quality(params) > 0
		}
	}
	return false
}

// quality returns the q parameter of an Accept-Encoding entry, 1 when absent.
func quality(params string) float64 {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return q
	}
	return 1
}
