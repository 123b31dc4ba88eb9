package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thesavant42/gitsome-search/internal/models"
)

var validate = validator.New()

// ValidateFilters checks MinStars and MinForks are whole numbers when set.
// Only used in strict mode; by default values go to the search API verbatim.
func ValidateFilters(filters models.Filters) error {
	err := validate.Struct(filters)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidFilters, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilters, strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "number":
		return fmt.Sprintf("%s must be a whole number, got %q", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
