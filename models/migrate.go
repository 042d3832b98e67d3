package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All returns every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Skill{},
		&UserSkill{},
		&Demo{},
		&Project{},
		&Application{},
		&Task{},
		&ProjectLink{},
		&ChatMessage{},
		&ProjectNote{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
