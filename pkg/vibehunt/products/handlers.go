package products

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/urlnorm"
	"go.uber.org/zap"
)

// Handler handles product-related requests
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new products handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// SubmitResponse is returned after a successful submission
type SubmitResponse struct {
	Product ProductResponse `json:"product"`
	Status  int             `json:"status"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "status": status})
}

// Submit adds a new product
// @Summary Submit a resource
// @Description Enrich a URL and add it to the directory. Provided fields override enrichment.
// @Tags products
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Resource to submit"
// @Success 200 {object} SubmitResponse
// @Failure 400 {object} map[string]interface{} "Invalid URL"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Failure 500 {object} map[string]interface{} "Failed to add product"
// @Security BearerAuth
// @Router /products [post]
func (h *Handler) Submit(c *gin.Context) {
	identity := auth.GetIdentity(c)
	if identity.Anonymous() {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "URL is required")
		return
	}

	normalized, err := urlnorm.Normalize(req.URL)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Please enter a valid URL")
		return
	}
	req.URL = normalized

	product, serr := h.service.Submit(c.Request.Context(), identity, req)
	if serr != nil {
		respondError(c, serr.Status, serr.Message)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		Product: productToResponse(*product, false),
		Status:  http.StatusOK,
	})
}

// List returns the directory
// @Summary List products
// @Description All products ordered by upvotes, with has_upvoted for the caller
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Router /products [get]
func (h *Handler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context(), auth.GetIdentity(c))
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get returns a single product
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), auth.GetIdentity(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("get product failed", zap.String("product_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// RegisterRoutes registers product routes. The group is expected to run
// optional authentication so reads work anonymously.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.POST("/products", h.Submit)
	rg.GET("/products/:id", h.Get)
}
