package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// fieldLabels maps struct field names to user-facing labels
var fieldLabels = map[string]string{
	"Email":           "Email",
	"Password":        "Password",
	"NewPassword":     "New password",
	"ConfirmPassword": "Password confirmation",
	"Token":           "Reset token",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := e.Field()
	if l, ok := fieldLabels[e.Field()]; ok {
		label = l
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", label, e.Param())
	case "eqfield":
		other := e.Param()
		if l, ok := fieldLabels[other]; ok {
			other = l
		}
		return fmt.Sprintf("%s must match %s", label, other)
	default:
		return fmt.Sprintf("%s failed %s validation", label, e.Tag())
	}
}
