package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"gorm.io/gorm"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               string   `json:"id"`
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	ImageURL         string   `json:"image_url,omitempty"`
	Tags             []string `json:"tags"`
	UpvoteCount      int      `json:"upvote_count"`
	CreatedBy        uint     `json:"created_by"`
	CreatedAt        string   `json:"created_at"`
	HasUpvoted       bool     `json:"has_upvoted"`
}

func productToResponse(p models.Product, hasUpvoted bool) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductResponse{
		ID:               p.ID,
		URL:              p.URL,
		Title:            p.Title,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		ImageURL:         p.ImageURL,
		Tags:             tags,
		UpvoteCount:      p.UpvoteCount,
		CreatedBy:        p.CreatedByID,
		CreatedAt:        p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		HasUpvoted:       hasUpvoted,
	}
}

// upvotedSet returns the ids of products the caller has upvoted.
func (s *Service) upvotedSet(ctx context.Context, id auth.Identity) (map[string]bool, error) {
	set := map[string]bool{}
	if id.Anonymous() {
		return set, nil
	}
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Upvote{}).Where("user_id = ?", id.UserID).Pluck("product_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load upvotes: %w", err)
	}
	for _, pid := range ids {
		set[pid] = true
	}
	return set, nil
}

// List returns every product, most upvoted first, marked with whether the
// caller has upvoted it.
func (s *Service) List(ctx context.Context, id auth.Identity) ([]ProductResponse, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("upvote_count DESC, created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	upvoted, err := s.upvotedSet(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = productToResponse(p, upvoted[p.ID])
	}
	return out, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id auth.Identity, productID string) (*ProductResponse, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	hasUpvoted := false
	if !id.Anonymous() {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Upvote{}).
			Where("product_id = ? AND user_id = ?", productID, id.UserID).
			Count(&n).Error; err != nil {
			return nil, fmt.Errorf("load upvote: %w", err)
		}
		hasUpvoted = n > 0
	}

	resp := productToResponse(product, hasUpvoted)
	return &resp, nil
}
