// File: /services/wallet_service.go
package services

import (
	"errors"
	"fmt"

	"fiesta-api/models"

	"gorm.io/gorm"
)

// reserveRetries bounds the optimistic read-check-write loop. Two sessions
// debiting the same account race on balance_version; the loser re-reads and
// tries again.
const reserveRetries = 3

type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// Reserve debits amount from the user's balance. The write is conditional on
// the balance_version read, so a concurrent debit can never double-spend the
// same balance. No side effect on failure.
func (ws *WalletService) Reserve(userID string, amount int64) error {
	for attempt := 0; attempt < reserveRetries; attempt++ {
		var user models.User
		if err := ws.db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if user.Balance < amount {
			return ErrInsufficientFunds
		}

		result := ws.db.Model(&models.User{}).
			Where("id = ? AND balance_version = ?", userID, user.BalanceVersion).
			Updates(map[string]interface{}{
				"balance":         user.Balance - amount,
				"balance_version": user.BalanceVersion + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to debit account: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			return nil
		}
		// Version moved under us, re-read and retry
	}

	return ErrConcurrentModification
}

// Refund restores amount to the user's balance. Used as the compensating
// write when persisting an event fails after its debit succeeded.
func (ws *WalletService) Refund(userID string, amount int64) error {
	for attempt := 0; attempt < reserveRetries; attempt++ {
		var user models.User
		if err := ws.db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		result := ws.db.Model(&models.User{}).
			Where("id = ? AND balance_version = ?", userID, user.BalanceVersion).
			Updates(map[string]interface{}{
				"balance":         user.Balance + amount,
				"balance_version": user.BalanceVersion + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to credit account: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			return nil
		}
	}

	return ErrConcurrentModification
}

// Balance returns the user's current balance.
func (ws *WalletService) Balance(userID string) (int64, error) {
	var user models.User
	if err := ws.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	return user.Balance, nil
}
