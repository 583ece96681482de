package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Name":    "Name",
	"Email":   "Email",
	"Message": "Message",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Malformed JSON and friends: don't echo decoder internals back
		return []string{"Request body must be a JSON object with name, email and message"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s: This field is required", label)
	case "min":
		return fmt.Sprintf("%s: Must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s: Must be at most %s characters", label, param)
	case "email":
		return fmt.Sprintf("%s: Invalid email format", label)
	case "valid_name":
		return fmt.Sprintf("%s: Only letters, spaces and . ' - , are allowed", label)
	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s: Validation failed (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
