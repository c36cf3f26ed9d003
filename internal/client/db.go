package client

import (
	"log"
	"time"

	"storefront-checkout/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitDBClient(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&model.CaptureRecord{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
