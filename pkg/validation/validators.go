package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Letters (any script), spaces and the punctuation people put in names: . ' - ,
var nameRegex = regexp.MustCompile(`^[\p{L}\p{M} .',-]+$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("valid_name", ValidName)
}

// NotBlank rejects strings made only of whitespace. "required" alone lets "   " through.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidName validates that a string contains only valid name characters
// Rejects digits and most special symbols
func ValidName(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}
