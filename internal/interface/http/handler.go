package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// Handler wires the HTTP transport to the intent service.
type Handler struct {
	svc    intent.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc intent.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Assign derives intents for a posted corpus.
func (h *Handler) Assign(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	run, err := h.svc.Assign(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, run)
}

// Export derives intents and stores the generated chatbot project files.
func (h *Handler) Export(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.Export(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest returns the most recent run of a corpus.
func (h *Handler) Latest(c *gin.Context) {
	run, err := h.svc.Latest(c.Request.Context(), c.Param("corpus"))
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, run)
}

// Assignments lists the persisted assignments of a corpus.
func (h *Handler) Assignments(c *gin.Context) {
	items, err := h.svc.Assignments(c.Request.Context(), c.Param("corpus"))
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": items})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindRequest(c *gin.Context) (intent.Request, bool) {
	var req intent.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return intent.Request{}, false
	}
	return req, true
}
