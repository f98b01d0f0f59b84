package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation codes surfaced to the donor.
const (
	CodeAmountInvalid      = "amount_invalid"
	CodeAmountBelowMinimum = "amount_below_minimum"
	CodePresetUnknown      = "preset_unknown"
	CodeFrequencyInvalid   = "frequency_invalid"
	CodeSelectionRequired  = "selection_required"
	CodeFirstNameRequired  = "first_name_required"
	CodeEmailInvalid       = "email_invalid"
	CodePhoneRequired      = "phone_required"
	CodePhoneLength        = "phone_length"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports a field the donor has to fix before moving on.
type ValidationError struct {
	Field string
	Code  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: %s: %s", e.Field, e.Code)
}

func invalid(field, code string) error {
	return &ValidationError{Field: field, Code: code}
}

// ValidateAmount checks the final amount and returns its decimal value.
func ValidateAmount(s State, r Rules) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s.FinalAmount())
	if raw == "" {
		return decimal.Zero, invalid("amount", CodeAmountInvalid)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, invalid("amount", CodeAmountInvalid)
	}
	if v.LessThan(r.MinAmount) {
		return decimal.Zero, invalid("amount", CodeAmountBelowMinimum)
	}
	return v, nil
}

// ValidateSelection checks that a cause or beneficiary is selected.
func ValidateSelection(s State) error {
	if strings.TrimSpace(s.SelectedID) == "" {
		return invalid("selection", CodeSelectionRequired)
	}
	return nil
}

// ValidateDonor requires a first name and a well-formed email, in that order.
func ValidateDonor(d Donor) error {
	if strings.TrimSpace(d.FirstName) == "" {
		return invalid("first_name", CodeFirstNameRequired)
	}
	if !IsEmail(d.Email) {
		return invalid("email", CodeEmailInvalid)
	}
	return nil
}

// IsEmail reports whether v looks like an email address.
func IsEmail(v string) bool {
	return emailPattern.MatchString(strings.TrimSpace(v))
}

// ValidatePayment requires a mobile money number. When the rules fix a digit
// count the number must have exactly that many digits.
func ValidatePayment(p Payment, r Rules) error {
	digits := PhoneDigits(p.PhoneNumber)
	if strings.TrimSpace(p.PhoneNumber) == "" || digits == "" {
		return invalid("phone_number", CodePhoneRequired)
	}
	if r.PhoneDigits > 0 && len(digits) != r.PhoneDigits {
		return invalid("phone_number", CodePhoneLength)
	}
	return nil
}

// PhoneDigits strips everything but digits from a phone number.
func PhoneDigits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
