// File: /services/testutil_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"fiesta-api/database"
	"fiesta-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database migrated to the current
// schema. cache=shared keeps the schema visible across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string, balance int64) {
	t.Helper()

	user := models.User{
		ID:       id,
		Name:     "Test User",
		Email:    id + "@example.com",
		Password: "hashed",
		Balance:  balance,
	}
	require.NoError(t, db.Create(&user).Error)
}

func userBalance(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user.Balance
}

func eventCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	return count
}
