// File: /services/errors.go
package services

import "errors"

// Draft validation failures, in the order Submit checks them.
var (
	ErrLocationNotSet = errors.New("location not set")
	ErrMissingFields  = errors.New("missing fields")
	ErrAmountTooLow   = errors.New("amount too low")
)

var (
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrUserNotFound           = errors.New("user not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrConcurrentModification = errors.New("concurrent balance modification")
)
