package models

import "time"

// Tag is a normalized tag name. Tags are created lazily the first time a
// product is submitted with them and are never deleted.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`

	// Relationships
	Products []Product `gorm:"many2many:products_tags;" json:"products,omitempty"`
}

// ProductTag is the products_tags join row. The composite primary key keeps
// at most one link per (product, tag) pair.
type ProductTag struct {
	ProductID string    `gorm:"type:varchar(36);primaryKey" json:"product_id"`
	TagID     uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the join table name shared with the many2many tags.
func (ProductTag) TableName() string {
	return "products_tags"
}
