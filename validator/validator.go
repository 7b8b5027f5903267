// Package validator wraps go-playground/validator for the structs the client
// accepts from user input, returning joined, human-readable errors.
//
// Besides the built-in tags it registers "ether_amount": a non-negative
// decimal string with at most 18 fractional digits and a non-zero value.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of every validation failure chain.
var ErrValidationFailed = errors.New("validation failed")

var validator *gvalidator.Validate

const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

var etherAmountRE = regexp.MustCompile(`^[0-9]*(\.[0-9]{1,18})?$`)

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
	_ = validator.RegisterValidation("ether_amount", validateEtherAmount)
}

// validateEtherAmount accepts positive decimal ether amounts with at most 18
// fractional digits. Zero is rejected.
func validateEtherAmount(fl gvalidator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || s == "." || !etherAmountRE.MatchString(s) {
		return false
	}
	return strings.Trim(s, "0.") != ""
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` tags.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}
	return nil
}

// Var validates a single value against tag, e.g. Var(addr, "eth_addr").
func Var(v any, tag string) error {
	if err := validator.Var(v, tag); err != nil {
		return formatError(err)
	}
	return nil
}
