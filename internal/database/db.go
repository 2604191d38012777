package database

import (
	"log"

	"yayasan-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens a GORM connection pool against PostgreSQL and
// auto-migrates the core schema.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.TransactionCategory{},
		&model.Request{},
		&model.RequestItem{},
		&model.Approval{},
		&model.InventoryItem{},
		&model.InventoryMovement{},
		&model.Transaction{},
		&model.Patient{},
		&model.Room{},
		&model.Facility{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
