package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a submitted resource: a URL plus generated or user-provided metadata.
//
// Tags keeps the ordered list exactly as submitted; TagRecords is the
// normalized view through the products_tags join table. UpvoteCount is a
// denormalized counter kept in step with the upvotes table by the toggle.
type Product struct {
	ID               string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	URL              string         `gorm:"not null" json:"url"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	ImageURL         string         `json:"image_url,omitempty"`
	Tags             []string       `gorm:"serializer:json;type:text" json:"tags"`
	UpvoteCount      int            `gorm:"default:0;not null;index" json:"upvote_count"`
	CreatedByID      uint           `gorm:"not null;index" json:"created_by"`

	// Relationships
	CreatedBy  User  `gorm:"foreignKey:CreatedByID" json:"-"`
	TagRecords []Tag `gorm:"many2many:products_tags;" json:"-"`
}

// BeforeCreate assigns a random UUID when the caller did not set one.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
