package database

import (
	"log"

	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}
	log.Printf("database migrated with %d models", len(models))
	return nil
}
