package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"github.com/mikepea/vibehunt/pkg/vibehunt/upvotes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles admin requests
type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// UserResponse represents user data in admin responses
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	SystemRole   string `json:"system_role"`
	CreatedAt    string `json:"created_at"`
	ProductCount int64  `json:"product_count"`
	UpvoteCount  int64  `json:"upvote_count"`
}

// UpdateUserRequest represents the request to update a user
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	SystemRole *string `json:"system_role"`
}

// StatsResponse represents directory-wide statistics
type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	AdminUsers    int64 `json:"admin_users"`
	TotalProducts int64 `json:"total_products"`
	TotalTags     int64 `json:"total_tags"`
	TotalUpvotes  int64 `json:"total_upvotes"`
	ActiveAPIKeys int64 `json:"active_api_keys"`
	// CountDrift is the number of products whose upvote_count disagrees
	// with their vote rows.
	CountDrift int64 `json:"count_drift"`
}

// ReconcileResponse reports the outcome of a vote count reconciliation
type ReconcileResponse struct {
	Corrected int64 `json:"corrected"`
}

func (h *Handler) userResponse(user models.User) UserResponse {
	var productCount, upvoteCount int64
	h.db.Model(&models.Product{}).Where("created_by_id = ?", user.ID).Count(&productCount)
	h.db.Model(&models.Upvote{}).Where("user_id = ?", user.ID).Count(&upvoteCount)

	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		SystemRole:   string(user.SystemRole),
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		ProductCount: productCount,
		UpvoteCount:  upvoteCount,
	}
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}

// ListUsers returns all users (admin only)
// @Summary List users
// @Tags admin
// @Produce json
// @Param q query string false "Search email or name"
// @Param role query string false "Filter by system role"
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User

	query := h.db.Order("created_at DESC")

	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("system_role = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = h.userResponse(user)
	}
	c.JSON(http.StatusOK, responses)
}

// GetUser returns a single user by ID (admin only)
// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, h.userResponse(user))
}

// UpdateUser updates a user's name or role (admin only)
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// An admin cannot demote themselves
	caller := auth.GetIdentity(c)
	if id == caller.UserID && req.SystemRole != nil && *req.SystemRole != string(models.SystemRoleAdmin) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot demote yourself"})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SystemRole != nil {
		role := models.SystemRole(*req.SystemRole)
		if role != models.SystemRoleAdmin && role != models.SystemRoleUser {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid system role"})
			return
		}
		updates["system_role"] = role
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			h.logger.Error("update user failed", zap.Uint("user_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	h.db.First(&user, id)
	c.JSON(http.StatusOK, h.userResponse(user))
}

// DeleteUser removes a user with their API keys, votes and submissions
// (admin only)
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if id == auth.GetIdentity(c).UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.APIKey{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.OIDCIdentity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		var productIDs []string
		if err := tx.Model(&models.Product{}).Where("created_by_id = ?", user.ID).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.Upvote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductTag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", productIDs).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		// Withdrawn votes leave counters stale
		if _, err := upvotes.ReconcileCounts(c.Request.Context(), tx); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		h.logger.Error("delete user failed", zap.Uint("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.logger.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", auth.GetIdentity(c).UserID))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// DeleteProduct removes a product and its votes and tag links (admin only)
// @Summary Delete product
// @Tags admin
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /admin/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	var product models.Product
	if err := h.db.Where("id = ?", productID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		h.logger.Error("delete product failed", zap.String("product_id", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	h.logger.Info("product deleted", zap.String("product_id", productID), zap.Uint("by", auth.GetIdentity(c).UserID))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ReconcileVotes recomputes upvote counters from vote rows (admin only)
// @Summary Reconcile vote counts
// @Tags admin
// @Produce json
// @Success 200 {object} ReconcileResponse
// @Security BearerAuth
// @Router /admin/reconcile-votes [post]
func (h *Handler) ReconcileVotes(c *gin.Context) {
	corrected, err := upvotes.ReconcileCounts(c.Request.Context(), h.db)
	if err != nil {
		h.logger.Error("reconcile votes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile votes"})
		return
	}
	h.logger.Info("vote counts reconciled", zap.Int64("corrected", corrected))
	c.JSON(http.StatusOK, ReconcileResponse{Corrected: corrected})
}

// GetStats returns directory-wide statistics (admin only)
// @Summary Directory statistics
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&stats.AdminUsers)
	h.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	h.db.Model(&models.Tag{}).Count(&stats.TotalTags)
	h.db.Model(&models.Upvote{}).Count(&stats.TotalUpvotes)
	h.db.Model(&models.APIKey{}).Count(&stats.ActiveAPIKeys)

	h.db.Model(&models.Product{}).
		Where("upvote_count <> (SELECT COUNT(*) FROM upvotes WHERE upvotes.product_id = products.id)").
		Count(&stats.CountDrift)

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id", h.UpdateUser)
	rg.DELETE("/users/:id", h.DeleteUser)
	rg.DELETE("/products/:id", h.DeleteProduct)
	rg.POST("/reconcile-votes", h.ReconcileVotes)
}
