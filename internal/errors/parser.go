package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFound reports whether err is gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a unique or primary key violation.
// Translated gorm errors are checked first, then postgres (23505) and sqlite driver text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// IsForeignKeyViolation reports whether err is a foreign key violation (23503).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "sqlstate 23503")
}

// IsCheckViolation reports whether err is a check constraint violation (23514).
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "check constraint") || strings.Contains(msg, "sqlstate 23514")
}
