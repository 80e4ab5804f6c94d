package models

import "time"

// Upvote records that a user endorses a product. The row is hard-deleted
// when the vote is withdrawn, so there is no DeletedAt.
type Upvote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_upvote_product_user" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvote_product_user;index" json:"user_id"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}
