// Package upvotes implements the upvote toggle and keeps each product's
// denormalized upvote_count in step with the vote rows.
package upvotes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Action is the outcome of a toggle.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrProductNotFound = errors.New("product not found")
	ErrVoteWriteFailed = errors.New("failed to process upvote")
)

// Error is a toggle failure converted to an HTTP status and message.
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

// Service flips votes.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates an upvote service
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Toggle removes the caller's vote on a product if present, otherwise adds
// one. Delete, insert and the upvote_count adjustment share one transaction;
// the unique (product_id, user_id) index rejects a racing duplicate insert.
func (s *Service) Toggle(ctx context.Context, id auth.Identity, productID string) (Action, *Error) {
	if id.Anonymous() {
		return "", &Error{Status: http.StatusUnauthorized, Message: "Authentication required", Err: ErrAuthRequired}
	}

	var action Action
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").Where("id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		res := tx.Where("product_id = ? AND user_id = ?", productID, id.UserID).Delete(&models.Upvote{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		action = ActionRemoved
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.Upvote{ProductID: productID, UserID: id.UserID}).Error; err != nil {
				return err
			}
			delta = 1
			action = ActionAdded
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("upvote_count", gorm.Expr("upvote_count + ?", delta)).Error
	})

	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return "", &Error{Status: http.StatusNotFound, Message: "Product not found", Err: err}
		}
		s.logger.Error("upvote toggle failed", zap.String("product_id", productID), zap.Uint("user_id", id.UserID), zap.Error(err))
		return "", &Error{Status: http.StatusInternalServerError, Message: "Failed to process upvote", Err: fmt.Errorf("%w: %v", ErrVoteWriteFailed, err)}
	}

	s.logger.Debug("upvote toggled", zap.String("product_id", productID), zap.Uint("user_id", id.UserID), zap.String("action", string(action)))
	return action, nil
}

// Mine returns the ids of products the caller has upvoted.
func (s *Service) Mine(ctx context.Context, id auth.Identity) ([]string, *Error) {
	if id.Anonymous() {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "Authentication required", Err: ErrAuthRequired}
	}
	ids := []string{}
	if err := s.db.WithContext(ctx).Model(&models.Upvote{}).Where("user_id = ?", id.UserID).Order("created_at DESC").Pluck("product_id", &ids).Error; err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "Failed to fetch upvotes", Err: err}
	}
	return ids, nil
}
