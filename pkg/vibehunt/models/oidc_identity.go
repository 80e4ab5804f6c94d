package models

import "time"

// OIDCIdentity links a user to an account at the configured identity provider.
type OIDCIdentity struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Issuer    string    `gorm:"not null;uniqueIndex:idx_oidc_issuer_subject" json:"issuer"`
	Subject   string    `gorm:"not null;uniqueIndex:idx_oidc_issuer_subject" json:"subject"` // sub claim
	Email     string    `json:"email"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
