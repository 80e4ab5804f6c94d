package enrichment

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fetcher is the part of Client the HTTP handler depends on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*ProductInfo, error)
}

// Handler exposes enrichment over HTTP so clients can preview metadata
// without submitting.
type Handler struct {
	client Fetcher
	logger *zap.Logger
}

// NewHandler creates a new enrichment handler
func NewHandler(client Fetcher, logger *zap.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// ResourceInfoRequest is the body of a resource-info lookup
type ResourceInfoRequest struct {
	URL string `json:"url"`
}

// ResourceInfoResponse is returned on a successful lookup
type ResourceInfoResponse struct {
	ProductInfo *ProductInfo `json:"productInfo"`
	Success     bool         `json:"success"`
}

// ResourceInfo looks up metadata for a URL
// @Summary Look up resource metadata
// @Description Ask the completion API for a title, descriptions and tags for a URL
// @Tags enrichment
// @Accept json
// @Produce json
// @Param request body ResourceInfoRequest true "URL to describe"
// @Success 200 {object} ResourceInfoResponse
// @Failure 400 {object} map[string]interface{} "URL is required"
// @Failure 500 {object} map[string]interface{} "Lookup failed"
// @Router /perplexity/resource-info [post]
func (h *Handler) ResourceInfo(c *gin.Context) {
	var req ResourceInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required", "success": false})
		return
	}

	info, err := h.client.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Warn("resource info lookup failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product information", "success": false})
		return
	}

	c.JSON(http.StatusOK, ResourceInfoResponse{ProductInfo: info, Success: true})
}

// RegisterRoutes registers enrichment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/perplexity/resource-info", h.ResourceInfo)
}
