package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMinLength      = "must contain at least %s items"
	ErrMaxLength      = "must contain at most %s items"
	ErrDefaultInvalid = "is invalid"

	// Seat labels look like "Premium-A12": section name, dash, row letter,
	// column number.
	seatLabelRgx = regexp.MustCompile(`^[A-Za-z0-9 ]+-[A-Z][0-9]{1,2}$`)
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_label", validateSeatLabel)

	return validator
}

func validateSeatLabel(fl validator.FieldLevel) bool {
	return seatLabelRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", err.Param())
	case "url":
		return "must be a valid URL"
	case "unique":
		return "must not contain duplicates"
	case "seat_label":
		return "must be a valid seat label, e.g. Premium-A12"
	default:
		return ErrDefaultInvalid
	}
}
