package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInventory matches any *InsufficientInventoryError.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrInvalidConfiguration matches any *InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// InsufficientInventoryError is returned when a demand cannot be placed on
// any profile of its candidate pool.
type InsufficientInventoryError struct {
	LengthMm   int
	Preference string // Profile id, profile type or "any"
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory to allocate length %dmm (profile preference: %s)", e.LengthMm, e.Preference)
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// InvalidConfigurationError reports a precondition violation detected before planning.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ValidatePlanInput checks the preconditions the planner relies on. It
// rejects an empty catalog, malformed profiles and malformed requirements.
// A requirement pinned to an unknown profile id passes: the planner reports
// it as insufficient inventory.
func ValidatePlanInput(profiles []StockProfile, requirements []CutRequirement) error {
	if len(profiles) == 0 {
		return &InvalidConfigurationError{Field: "profiles", Reason: "no stock profiles are registered"}
	}

	ids := make(map[string]bool, len(profiles))
	for i, p := range profiles {
		field := fmt.Sprintf("profiles[%d]", i)
		if p.ID == "" {
			return &InvalidConfigurationError{Field: field, Reason: "id is required"}
		}
		if ids[p.ID] {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("duplicate profile id %q", p.ID)}
		}
		ids[p.ID] = true
		if p.LengthMm <= 0 {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("length must be positive, got %d", p.LengthMm)}
		}
		if p.ScrapAllowanceMm < 0 {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("scrap allowance must not be negative, got %d", p.ScrapAllowanceMm)}
		}
	}

	for i, r := range requirements {
		field := fmt.Sprintf("requirements[%d]", i)
		if r.LengthMm <= 0 {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("length must be positive, got %d", r.LengthMm)}
		}
		if r.Quantity <= 0 {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("quantity must be positive, got %d", r.Quantity)}
		}
	}
	return nil
}
