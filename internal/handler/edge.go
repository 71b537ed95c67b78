package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/urlkit/urlkit/internal/middleware"
	"go.uber.org/zap"
)

// EdgeRequest is the event shape an edge cache posts when it wants a
// redirect resolved: the raw URI of the request it intercepted.
type EdgeRequest struct {
	URI string `json:"uri"`
}

// EdgeHeader mirrors the key/value pairs edge caches expect inside
// header lists.
type EdgeHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EdgeResponse is the response document the edge front door returns:
// string status, description, and lowercased header-name lists.
type EdgeResponse struct {
	Status            string                  `json:"status"`
	StatusDescription string                  `json:"statusDescription"`
	Headers           map[string][]EdgeHeader `json:"headers"`
}

// EdgeRedirect handles POST /edge/redirect. It resolves the same
// redirect decision as the API front door but shapes the success
// response for the edge cache. The identifier comes from the event
// URI only; there is no fallback to any other source.
func (h *LinkHandler) EdgeRedirect(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req EdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed edge request",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.errorResponse(c, http.StatusBadRequest, "Invalid edge request")
		return
	}

	shortID := strings.Trim(req.URI, "/")

	decision, err := h.service.Redirect(c.Request.Context(), shortID)
	if err != nil {
		h.handleRedirectError(c, shortID, err)
		return
	}

	c.JSON(http.StatusOK, newEdgeRedirectResponse(decision.Location, requestID))
}

func newEdgeRedirectResponse(location, requestID string) EdgeResponse {
	return EdgeResponse{
		Status:            "301",
		StatusDescription: "Moved Permanently",
		Headers: map[string][]EdgeHeader{
			"location":      {{Key: "Location", Value: location}},
			"cache-control": {{Key: "Cache-Control", Value: "no-cache, no-store, must-revalidate"}},
			"pragma":        {{Key: "Pragma", Value: "no-cache"}},
			"expires":       {{Key: "Expires", Value: "0"}},
			"x-request-id":  {{Key: "X-Request-ID", Value: requestID}},
		},
	}
}
