package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrivero/blogsync/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.PostType{},
		&entities.Category{},
		&entities.Tag{},
		&entities.Post{},
		&entities.MediaContent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetStats() (totalPosts int64, totalUsers int64, totalMedia int64, err error) {
	err = d.DB.Model(&entities.Post{}).Count(&totalPosts).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.User{}).Count(&totalUsers).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.MediaContent{}).Count(&totalMedia).Error
	return
}
