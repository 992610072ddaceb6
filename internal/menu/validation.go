package menu

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error on a menu item field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateMenuItem validates a menu item before create or update.
func ValidateMenuItem(item *MenuItem) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(item.ShortCode) == "" {
		errors = append(errors, ValidationError{
			Field:   "short_code",
			Message: "short_code is required",
		})
	}

	if strings.TrimSpace(item.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if item.BasePrice < 0 {
		errors = append(errors, ValidationError{
			Field:   "base_price",
			Message: "base_price cannot be negative",
		})
	}

	for i, size := range item.Sizes {
		if strings.TrimSpace(size.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sizes[%d].name", i),
				Message: "size name cannot be empty",
			})
		}
		if item.BasePrice+size.PriceDelta < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sizes[%d].price_delta", i),
				Message: "size price cannot drop below zero",
			})
		}
	}

	for i, group := range item.Customization {
		if strings.TrimSpace(group.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("customization[%d].name", i),
				Message: "customization group name cannot be empty",
			})
		}
		if len(group.Options) == 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("customization[%d].options", i),
				Message: "customization group needs at least one option",
			})
		}
	}

	return errors
}
