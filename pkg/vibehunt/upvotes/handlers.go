package upvotes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
)

// Handler handles upvote requests
type Handler struct {
	service *Service
}

// NewHandler creates a new upvotes handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ToggleResponse is returned after a successful toggle
type ToggleResponse struct {
	Action Action `json:"action"`
	Status int    `json:"status"`
}

// MineResponse lists the products the caller has upvoted
type MineResponse struct {
	ProductIDs []string `json:"product_ids"`
}

// Toggle flips the caller's vote on a product
// @Summary Toggle upvote
// @Description Add the caller's upvote, or remove it if already present
// @Tags upvotes
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ToggleResponse
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Failure 404 {object} map[string]interface{} "Product not found"
// @Failure 500 {object} map[string]interface{} "Failed to process upvote"
// @Security BearerAuth
// @Router /products/{id}/upvote [post]
func (h *Handler) Toggle(c *gin.Context) {
	action, err := h.service.Toggle(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		c.JSON(err.Status, gin.H{"error": err.Message, "status": err.Status})
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Action: action, Status: http.StatusOK})
}

// Mine lists the caller's upvotes
// @Summary My upvotes
// @Tags upvotes
// @Produce json
// @Success 200 {object} MineResponse
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Security BearerAuth
// @Router /upvotes [get]
func (h *Handler) Mine(c *gin.Context) {
	ids, err := h.service.Mine(c.Request.Context(), auth.GetIdentity(c))
	if err != nil {
		c.JSON(err.Status, gin.H{"error": err.Message, "status": err.Status})
		return
	}
	c.JSON(http.StatusOK, MineResponse{ProductIDs: ids})
}

// RegisterRoutes registers upvote routes on an optionally authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products/:id/upvote", h.Toggle)
	rg.GET("/upvotes", h.Mine)
}
