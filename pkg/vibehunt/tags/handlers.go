package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"gorm.io/gorm"
)

// Handler handles tag-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count,omitempty"`
}

// List returns every tag in use with the number of products carrying it
// @Summary List tags
// @Description All tags linked to at least one product, most used first
// @Tags tags
// @Produce json
// @Success 200 {array} TagResponse
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	type tagWithCount struct {
		ID           uint
		Name         string
		ProductCount int
	}

	var results []tagWithCount
	err := h.db.Table("tags").
		Select("tags.id, tags.name, COUNT(DISTINCT products.id) as product_count").
		Joins("INNER JOIN products_tags ON tags.id = products_tags.tag_id").
		Joins("INNER JOIN products ON products_tags.product_id = products.id AND products.deleted_at IS NULL").
		Group("tags.id, tags.name").
		Order("product_count DESC, tags.name ASC").
		Find(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	tags := make([]TagResponse, len(results))
	for i, r := range results {
		tags[i] = TagResponse{ID: r.ID, Name: r.Name, ProductCount: r.ProductCount}
	}
	c.JSON(http.StatusOK, tags)
}

// GetProductTags returns the normalized tags linked to a product
// @Summary Get product tags
// @Tags tags
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} TagResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id}/tags [get]
func (h *Handler) GetProductTags(c *gin.Context) {
	var product models.Product
	if err := h.db.Preload("TagRecords").Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tags := make([]TagResponse, len(product.TagRecords))
	for i, t := range product.TagRecords {
		tags[i] = TagResponse{ID: t.ID, Name: t.Name}
	}
	c.JSON(http.StatusOK, tags)
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.GET("/products/:id/tags", h.GetProductTags)
}
