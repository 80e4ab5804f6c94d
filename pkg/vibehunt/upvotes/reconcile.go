package upvotes

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const reconcileSQL = `UPDATE products
SET upvote_count = (SELECT COUNT(*) FROM upvotes WHERE upvotes.product_id = products.id)
WHERE upvote_count <> (SELECT COUNT(*) FROM upvotes WHERE upvotes.product_id = products.id)`

// ReconcileCounts recomputes every product's upvote_count from the vote rows
// and returns how many products were corrected.
func ReconcileCounts(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Exec(reconcileSQL)
	if res.Error != nil {
		return 0, fmt.Errorf("reconcile upvote counts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
