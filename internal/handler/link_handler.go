package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/service"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service service.LinkService
	logger  *zap.Logger
	devMode bool
}

func NewLinkHandler(service service.LinkService, logger *zap.Logger, devMode bool) *LinkHandler {
	return &LinkHandler{
		service: service,
		logger:  logger,
		devMode: devMode,
	}
}

// CreateLinkRequest is the POST /urls body. ExpiresInDays stays
// untyped so that numbers, numeric strings, and garbage all reach the
// normalizer instead of failing JSON binding.
type CreateLinkRequest struct {
	URL           string `json:"url"`
	ExpiresInDays any    `json:"expires_in_days"`
	UserID        string `json:"user_id"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func (h *LinkHandler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetRequestID(c),
	})
}

// CreateLink handles POST /urls.
func (h *LinkHandler) CreateLink(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid JSON in request",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.errorResponse(c, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.URL == "" {
		h.logger.Warn("missing URL in request", zap.String("request_id", requestID))
		h.errorResponse(c, http.StatusBadRequest, "URL is required")
		return
	}

	input := &models.CreateLinkInput{
		OriginalURL:   req.URL,
		ExpiresInDays: req.ExpiresInDays,
		OwnerID:       req.UserID,
		RequestID:     requestID,
	}

	resp, err := h.service.CreateShortURL(c.Request.Context(), input)
	if err != nil {
		h.handleCreateError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) handleCreateError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.errorResponse(c, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrAllocExhausted):
		h.errorResponse(c, http.StatusInternalServerError, "Unable to generate unique short URL")
	default:
		h.logger.Error("failed to create short URL",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.errorResponse(c, http.StatusInternalServerError, h.internalMessage(err))
	}
}

// Redirect handles GET requests for a short identifier. The id comes
// from the path parameter, falling back to the bare request path.
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortID := strings.Trim(c.Param("shortID"), "/")
	if shortID == "" {
		shortID = strings.Trim(c.Request.URL.Path, "/")
	}

	decision, err := h.service.Redirect(c.Request.Context(), shortID)
	if err != nil {
		h.handleRedirectError(c, shortID, err)
		return
	}

	c.Redirect(http.StatusMovedPermanently, decision.Location)
}

func (h *LinkHandler) handleRedirectError(c *gin.Context, shortID string, err error) {
	requestID := middleware.GetRequestID(c)
	switch {
	case errors.Is(err, service.ErrEmptyID):
		h.errorResponse(c, http.StatusBadRequest, "Short URL is required")
	case errors.Is(err, service.ErrNotFound):
		h.logger.Warn("URL not found",
			zap.String("request_id", requestID),
			zap.String("short_id", shortID),
		)
		h.errorResponse(c, http.StatusNotFound, "URL not found")
	case errors.Is(err, service.ErrExpired):
		h.errorResponse(c, http.StatusGone, "URL has expired")
	default:
		h.logger.Error("failed to resolve short URL",
			zap.String("request_id", requestID),
			zap.String("short_id", shortID),
			zap.Error(err),
		)
		h.errorResponse(c, http.StatusInternalServerError, "Error retrieving URL")
	}
}

// Health reports liveness.
func (h *LinkHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "urlkit"})
}

// MethodNotAllowed answers any method/path combination outside the
// two front doors.
func (h *LinkHandler) MethodNotAllowed(c *gin.Context) {
	h.errorResponse(c, http.StatusMethodNotAllowed, "Method not allowed or invalid path")
}

// internalMessage hides backend error detail unless the process runs
// in development mode.
func (h *LinkHandler) internalMessage(err error) string {
	if h.devMode {
		return err.Error()
	}
	return "Database error"
}
