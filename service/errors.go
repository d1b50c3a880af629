package service

import (
	"errors"
	"fmt"
)

const (
	MinXPPerMessage = 1
	MaxXPPerMessage = 100
	MinCooldownSecs = 0
	MaxCooldownSecs = 3600
	MaxAdminXP      = 10_000_000
)

var (
	ErrInvalidXPPerMessage = errors.New("xp per message out of range")
	ErrInvalidCooldown     = errors.New("cooldown out of range")
	ErrNonPositiveXP       = errors.New("xp amount must be positive")
	ErrNegativeXP          = errors.New("xp amount cannot be negative")
	ErrXPTooLarge          = errors.New("xp amount too large")
	ErrInvalidLevel        = errors.New("level must be positive")
	ErrInvalidRole         = errors.New("role is required")
)

// ValidationError wraps a rejected input together with the message shown to the user
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error, message string) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// AsValidationError extracts a ValidationError from err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func validateXPPerMessage(xp int) error {
	if xp < MinXPPerMessage || xp > MaxXPPerMessage {
		return newValidationError("xp_per_message", ErrInvalidXPPerMessage, "XP per message must be between 1 and 100!")
	}
	return nil
}

func validateCooldown(seconds int) error {
	if seconds < MinCooldownSecs || seconds > MaxCooldownSecs {
		return newValidationError("cooldown", ErrInvalidCooldown, "Cooldown must be between 0 and 3600 seconds!")
	}
	return nil
}

func validateAddAmount(amount int64) error {
	if amount <= 0 {
		return newValidationError("amount", ErrNonPositiveXP, "XP amount must be positive!")
	}
	if amount > MaxAdminXP {
		return newValidationError("amount", ErrXPTooLarge, fmt.Sprintf("XP amount cannot exceed %d!", MaxAdminXP))
	}
	return nil
}

func validateSetAmount(amount int64) error {
	if amount < 0 {
		return newValidationError("amount", ErrNegativeXP, "XP amount cannot be negative!")
	}
	if amount > MaxAdminXP {
		return newValidationError("amount", ErrXPTooLarge, fmt.Sprintf("XP amount cannot exceed %d!", MaxAdminXP))
	}
	return nil
}

func validateLevel(level int) error {
	if level <= 0 {
		return newValidationError("level", ErrInvalidLevel, "Level must be positive!")
	}
	return nil
}
