package search

import (
	"fmt"

	"github.com/stwalsh4118/hearth/internal/models"
)

// Upper bounds for the count filters.
const (
	MaxRoomCount     = 20
	MaxParkingSpaces = 20
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of ValidateFilter.
type ValidationResult struct {
	IsValid bool         `json:"is_valid"`
	Errors  []FieldError `json:"errors"`
}

// ValidateFilter checks a filter for internally consistent ranges and
// bounded counts. Every rule is evaluated; errors accumulate.
func ValidateFilter(f models.ListingFilter) ValidationResult {
	errs := make([]FieldError, 0)
	fail := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if f.MinPrice != nil && *f.MinPrice < 0 {
		fail("min_price", "Minimum price must be non-negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		fail("max_price", "Maximum price must be non-negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		fail("price_range", "Minimum price cannot be greater than maximum price")
	}

	if f.Bedrooms != nil && (*f.Bedrooms < 0 || *f.Bedrooms > MaxRoomCount) {
		fail("bedrooms", "Bedrooms must be between 0 and %d", MaxRoomCount)
	}
	if f.Bathrooms != nil && (*f.Bathrooms < 0 || *f.Bathrooms > MaxRoomCount) {
		fail("bathrooms", "Bathrooms must be between 0 and %d", MaxRoomCount)
	}

	if f.MinSqft != nil && *f.MinSqft < 0 {
		fail("min_sqft", "Minimum square footage must be non-negative")
	}
	if f.MaxSqft != nil && *f.MaxSqft < 0 {
		fail("max_sqft", "Maximum square footage must be non-negative")
	}
	if f.MinSqft != nil && f.MaxSqft != nil && *f.MinSqft > *f.MaxSqft {
		fail("sqft_range", "Minimum square footage cannot be greater than maximum square footage")
	}

	if f.ParkingSpaces != nil && (*f.ParkingSpaces < 0 || *f.ParkingSpaces > MaxParkingSpaces) {
		fail("parking_spaces", "Parking spaces must be between 0 and %d", MaxParkingSpaces)
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
