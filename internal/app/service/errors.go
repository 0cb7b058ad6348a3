package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotPresent          = errors.New("not present")
	ErrSelfSubscription    = errors.New("self subscription")
	ErrEmptyCart           = errors.New("shopping cart is empty")
	ErrDuplicateIngredient = errors.New("duplicate ingredient")
	ErrDuplicateTag        = errors.New("duplicate tag")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCookingTime  = errors.New("invalid cooking time")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

var (
	ErrRecipeNotFound     = fmt.Errorf("recipe %w", ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("tag %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
)

// Error carries a user-visible message for a sentinel. With Field set it is a field-scoped
// validation error and also matches ErrValidation.
type Error struct {
	Err     error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Field != "" && e.Err != ErrValidation {
		return []error{e.Err, ErrValidation}
	}
	return []error{e.Err}
}

func newError(err error, message string) *Error {
	return &Error{Err: err, Message: message}
}

func fieldError(err error, field, message string) *Error {
	return &Error{Err: err, Field: field, Message: message}
}

// FieldMessages collects field -> messages from every field-scoped Error in err's tree.
func FieldMessages(err error) map[string][]string {
	fields := map[string][]string{}
	collectFields(err, fields)
	return fields
}

func collectFields(err error, fields map[string][]string) {
	if err == nil {
		return
	}
	if e, ok := err.(*Error); ok {
		if e.Field != "" {
			fields[e.Field] = append(fields[e.Field], e.Message)
		}
		return
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			collectFields(inner, fields)
		}
	case interface{ Unwrap() error }:
		collectFields(x.Unwrap(), fields)
	}
}

// Message returns the user-visible message of the first Error in err's tree.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
