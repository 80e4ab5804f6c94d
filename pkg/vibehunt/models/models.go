package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Product must be migrated before the products_tags join table
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&APIKey{},
		&Product{},
		&Tag{},
		&ProductTag{},
		&Upvote{},
		&OIDCIdentity{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	// The join table carries its own columns, so gorm has to be told about it
	// before the many2many relations are migrated.
	if err := db.SetupJoinTable(&Product{}, "TagRecords", &ProductTag{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&Tag{}, "Products", &ProductTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(AllModels()...)
}
