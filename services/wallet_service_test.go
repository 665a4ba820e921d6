// File: /services/wallet_service_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"fiesta-api/database"
	"fiesta-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWalletService_Reserve(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{
			name:        "debits when funds cover the amount",
			balance:     100,
			amount:      30,
			wantErr:     nil,
			wantBalance: 70,
		},
		{
			name:        "exact balance drains to zero",
			balance:     50,
			amount:      50,
			wantErr:     nil,
			wantBalance: 0,
		},
		{
			name:        "rejects when funds are short",
			balance:     20,
			amount:      21,
			wantErr:     ErrInsufficientFunds,
			wantBalance: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			seedUser(t, db, "user-1", tt.balance)
			ws := NewWalletService(db)

			err := ws.Reserve("user-1", tt.amount)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, userBalance(t, db, "user-1"))
		})
	}
}

func TestWalletService_Reserve_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	ws := NewWalletService(db)

	err := ws.Reserve("nobody", 10)

	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestWalletService_Reserve_BumpsVersion(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ws := NewWalletService(db)

	require.NoError(t, ws.Reserve("user-1", 10))
	require.NoError(t, ws.Reserve("user-1", 10))

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	assert.Equal(t, uint(2), user.BalanceVersion)
	assert.Equal(t, int64(80), user.Balance)
}

func TestWalletService_SequentialReservations(t *testing.T) {
	// Balance 100: reserving 30 leaves 70, then 80 must be rejected and the
	// balance must stay exactly 70.
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ws := NewWalletService(db)

	require.NoError(t, ws.Reserve("user-1", 30))
	assert.Equal(t, int64(70), userBalance(t, db, "user-1"))

	err := ws.Reserve("user-1", 80)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(70), userBalance(t, db, "user-1"))
}

// newAutocommitDB opens a test database without GORM's implicit per-write
// transaction, so an update callback can touch the same row out-of-band
// while a conditional write is being prepared.
func newAutocommitDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// stealVersion registers a callback that bumps the user's balance_version
// right before each of the first n conditional writes executes, simulating a
// concurrent debit winning the race every time.
func stealVersion(t *testing.T, db *gorm.DB, userID string, n int) {
	t.Helper()

	stolen := 0
	err := db.Callback().Update().Before("gorm:update").Register("steal_version", func(tx *gorm.DB) {
		if stolen < n {
			stolen++
			db.Exec("UPDATE users SET balance_version = balance_version + 1 WHERE id = ?", userID)
		}
	})
	require.NoError(t, err)
}

func TestWalletService_Reserve_ConflictExhaustsRetries(t *testing.T) {
	db := newAutocommitDB(t)
	seedUser(t, db, "user-1", 100)
	stealVersion(t, db, "user-1", reserveRetries)
	ws := NewWalletService(db)

	err := ws.Reserve("user-1", 30)

	require.ErrorIs(t, err, ErrConcurrentModification)
	// Every attempt lost its conditional write; nothing was debited
	assert.Equal(t, int64(100), userBalance(t, db, "user-1"))
}

func TestWalletService_Reserve_RetriesPastConflict(t *testing.T) {
	db := newAutocommitDB(t)
	seedUser(t, db, "user-1", 100)
	stealVersion(t, db, "user-1", 1)
	ws := NewWalletService(db)

	require.NoError(t, ws.Reserve("user-1", 30))
	assert.Equal(t, int64(70), userBalance(t, db, "user-1"))

	// One lost attempt plus the winning write
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	assert.Equal(t, uint(2), user.BalanceVersion)
}

func TestWalletService_Refund(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ws := NewWalletService(db)

	require.NoError(t, ws.Reserve("user-1", 40))
	require.NoError(t, ws.Refund("user-1", 40))

	assert.Equal(t, int64(100), userBalance(t, db, "user-1"))
}

func TestWalletService_Balance(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 55)
	ws := NewWalletService(db)

	balance, err := ws.Balance("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(55), balance)

	_, err = ws.Balance("nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
