package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and converts failures into a single
// validation error listing the offending fields.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return apperrors.NewValidationError("invalid payload", nil)
}

// ParseAmount converts a decimal string from the wire. Amounts travel
// as strings to avoid float rounding.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("invalid amount", map[string]any{"amount": raw})
	}
	return amount, nil
}
