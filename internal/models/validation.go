package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
)

// Bounds on the trimmed message, counted in characters (runes), inclusive.
const (
	MessageMinLength = 5
	MessageMaxLength = 140
)

var validate = validator.New()

// messageInput carries the trimmed message through the validator.
// Keep the tag in sync with MessageMinLength and MessageMaxLength.
type messageInput struct {
	Message string `validate:"required,min=5,max=140"`
}

// ValidateMessage trims the message and checks its length.
// It returns the trimmed message, which is the form that gets persisted.
func ValidateMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)

	err := validate.Struct(messageInput{Message: trimmed})
	if err == nil {
		return trimmed, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "", customerrors.ValidationError{Field: "message", Reason: err.Error()}
	}

	var reason string
	switch fieldErrs[0].Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = fmt.Sprintf("must be at least %d characters", MessageMinLength)
	case "max":
		reason = fmt.Sprintf("must be at most %d characters", MessageMaxLength)
	default:
		reason = fieldErrs[0].Error()
	}
	return "", customerrors.ValidationError{Field: "message", Reason: reason}
}

// IsValidThoughtID reports whether id has the shape of an identifier the store hands out.
func IsValidThoughtID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
