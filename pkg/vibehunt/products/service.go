// Package products implements resource submission and the directory listing.
package products

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/enrichment"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"github.com/mikepea/vibehunt/pkg/vibehunt/tags"
	"github.com/mikepea/vibehunt/pkg/vibehunt/urlnorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultEnrichmentTimeout bounds how long a submission waits on enrichment.
const DefaultEnrichmentTimeout = 30 * time.Second

var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrPersistFailed = errors.New("failed to add product")
	ErrNotFound      = errors.New("product not found")
)

// Error is a failure converted to a result value: an HTTP status and a short
// message safe to show to the caller.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func authRequired() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Authentication required", Err: ErrAuthRequired}
}

// Enricher describes a URL on a best-effort basis. A nil result means no
// information could be obtained.
type Enricher interface {
	Lookup(ctx context.Context, url string) *enrichment.ProductInfo
}

// SubmitRequest is a submission. Non-empty fields override enrichment; a
// non-nil Tags slice overrides enriched tags even when empty.
type SubmitRequest struct {
	URL              string   `json:"url" binding:"required"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	ImageURL         string   `json:"image_url"`
	Tags             []string `json:"tags"`
}

// Service runs submissions against the store.
type Service struct {
	db       *gorm.DB
	enricher Enricher
	logger   *zap.Logger
	timeout  time.Duration
}

// NewService creates a submission service. A non-positive timeout means
// DefaultEnrichmentTimeout.
func NewService(db *gorm.DB, enricher Enricher, logger *zap.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultEnrichmentTimeout
	}
	return &Service{db: db, enricher: enricher, logger: logger, timeout: timeout}
}

// Submit enriches, persists and tags a new product on behalf of id.
// Enrichment and tag linking failures are logged and never fail the
// submission; only a missing identity or a failed insert do.
func (s *Service) Submit(ctx context.Context, id auth.Identity, req SubmitRequest) (*models.Product, *Error) {
	if id.Anonymous() {
		return nil, authRequired()
	}

	product := s.describe(ctx, req)
	product.CreatedByID = id.UserID
	product.UpvoteCount = 0

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		s.logger.Error("persist product failed", zap.String("url", req.URL), zap.Uint("user_id", id.UserID), zap.Error(err))
		return nil, &Error{Status: http.StatusInternalServerError, Message: "Failed to add product", Err: fmt.Errorf("%w: %v", ErrPersistFailed, err)}
	}

	if len(product.Tags) > 0 {
		tags.LinkProduct(s.db.WithContext(ctx), s.logger, product.ID, product.Tags)
	}

	s.logger.Info("product submitted",
		zap.String("product_id", product.ID),
		zap.String("url", product.URL),
		zap.Uint("user_id", id.UserID))
	return &product, nil
}

// describe builds the product fields from enrichment or the hostname
// fallback, then applies the caller's overrides.
func (s *Service) describe(ctx context.Context, req SubmitRequest) models.Product {
	product := models.Product{
		URL:              req.URL,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		ImageURL:         req.ImageURL,
		Tags:             req.Tags,
	}

	var info *enrichment.ProductInfo
	if s.enricher != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
		info = s.enricher.Lookup(lookupCtx, req.URL)
		cancel()
	}

	if info != nil {
		product.Title = firstNonEmpty(product.Title, info.Title)
		product.Description = firstNonEmpty(product.Description, info.Description)
		product.ShortDescription = firstNonEmpty(product.ShortDescription, info.ShortDescription)
		if product.Tags == nil {
			product.Tags = info.Tags
		}
	} else {
		product.Title = firstNonEmpty(product.Title, urlnorm.FallbackTitle(req.URL))
		product.Description = firstNonEmpty(product.Description, "Resource from "+product.Title)
		product.ShortDescription = firstNonEmpty(product.ShortDescription, "Check out this resource: "+product.Title)
	}

	product.Tags = tags.Normalize(product.Tags)
	return product
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
