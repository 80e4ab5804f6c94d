package tags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkResult reports what LinkProduct managed to do. Failures are per tag
// and never undo earlier links.
type LinkResult struct {
	Linked []models.Tag
	Failed map[string]error
}

// Partial reports whether at least one tag could not be linked.
func (r LinkResult) Partial() bool {
	return len(r.Failed) > 0
}

// Normalize trims tag names, drops empty ones and removes exact duplicates
// while keeping the first-seen order.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FindOrCreate returns the tag with exactly this name, creating it if needed.
// A concurrent creator winning the unique index race is tolerated by
// re-reading the row.
func FindOrCreate(db *gorm.DB, name string) (models.Tag, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, fmt.Errorf("look up tag %q: %w", name, err)
	}

	tag = models.Tag{Name: name}
	if createErr := db.Create(&tag).Error; createErr != nil {
		var existing models.Tag
		if db.Where("name = ?", name).First(&existing).Error == nil {
			return existing, nil
		}
		return models.Tag{}, fmt.Errorf("create tag %q: %w", name, createErr)
	}
	return tag, nil
}

// LinkProduct maps names onto Tag rows and links each to the product. Each
// tag is handled independently: a failure is logged and skipped.
func LinkProduct(db *gorm.DB, logger *zap.Logger, productID string, names []string) LinkResult {
	result := LinkResult{Failed: map[string]error{}}

	for _, name := range Normalize(names) {
		tag, err := FindOrCreate(db, name)
		if err != nil {
			logger.Error("tag create failed", zap.String("product_id", productID), zap.String("tag", name), zap.Error(err))
			result.Failed[name] = err
			continue
		}

		link := models.ProductTag{ProductID: productID, TagID: tag.ID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			logger.Error("tag link failed", zap.String("product_id", productID), zap.String("tag", name), zap.Error(err))
			result.Failed[name] = err
			continue
		}
		result.Linked = append(result.Linked, tag)
	}

	if result.Partial() {
		logger.Warn("product tags partially linked",
			zap.String("product_id", productID),
			zap.Int("linked", len(result.Linked)),
			zap.Int("failed", len(result.Failed)))
	}
	return result
}
