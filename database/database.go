// File: /database/database.go
package database

import (
	"fmt"

	"fiesta-api/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Feed snapshots always scan the whole collection in creation order
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at ASC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_creator_created ON events(creator_id, created_at ASC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events creator: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB, startingBalance int64) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	password, err := bcrypt.GenerateFromPassword([]byte("Fiesta123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	testUsers := []models.User{
		{
			ID:       "user-1",
			Name:     "John Doe",
			Email:    "john@example.com",
			Password: string(password),
			Balance:  startingBalance,
		},
		{
			ID:       "user-2",
			Name:     "Jane Smith",
			Email:    "jane@example.com",
			Password: string(password),
			Balance:  startingBalance,
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Email, err)
		}
	}

	halloweenImage := "https://firebasestorage.googleapis.com/v0/b/programacion-ec39e.appspot.com/o/162fae60-77df-11ee-bd0d-2d70b013b479.jpg.webp?alt=media&token=657d353c-98b6-4826-94b1-3ef021510c0e"
	testEvents := []models.Event{
		{
			ID:          uuid.New().String(),
			Name:        "Rooftop Halloween",
			Date:        "2026-10-31",
			StartTime:   "20:00",
			Location:    "Downtown rooftop, Cali",
			Coordinates: models.Coordinates{Lat: 3.405, Lng: -76.49},
			EventType:   "Halloween",
			DressCode:   "Costume required",
			Description: "Costumes, music and a view of the city.",
			CreatorID:   "user-2",
			Image:       &halloweenImage,
			Amount:      30,
		},
	}

	for _, event := range testEvents {
		if err := db.Create(&event).Error; err != nil {
			fmt.Printf("Warning: Could not create test event %s: %v\n", event.Name, err)
		}
	}

	fmt.Println("Database seeded with test users and events")
	return nil
}
