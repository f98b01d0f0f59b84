// Package wizard holds the checkout wizard as a pure state machine: the state
// a checkout owns, the events that move it, and the mapping between that
// state and the URL query string that makes a selection shareable.
//
// Nothing in this package performs I/O. Callers feed events into Reduce and
// decide what to do with the resulting state.
package wizard

import (
	"strings"

	"github.com/shopspring/decimal"

	"donorsite/internal/domain"
)

// Step is one of the four ordered wizard steps.
type Step int

const (
	StepAmount       Step = 1
	StepDonor        Step = 2
	StepPayment      Step = 3
	StepConfirmation Step = 4
)

func (s Step) String() string {
	switch s {
	case StepAmount:
		return "amount"
	case StepDonor:
		return "donor"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// Donor is the identity collected on the donor step.
type Donor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name, skipping an empty last name.
func (d Donor) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

// Payment holds the mobile money details collected on the payment step.
type Payment struct {
	PhoneNumber string `json:"phone_number"`
}

// State is everything a checkout knows about the donor's progress.
//
// Amount holds a preset selection and CustomAmount a free entry; at most one
// of them is non-empty. Both keep the text the donor chose so the URL
// representation stays stable.
type State struct {
	Step         Step                  `json:"step"`
	Kind         domain.SubmissionKind `json:"kind"`
	SelectedID   string                `json:"selected_id"`
	Category     domain.Category       `json:"category,omitempty"`
	Amount       string                `json:"amount"`
	CustomAmount string                `json:"custom_amount"`
	Frequency    domain.Frequency      `json:"frequency"`
	Donor        Donor                 `json:"donor"`
	Payment      Payment               `json:"payment"`
}

// FinalAmount is the preset amount if one is selected, otherwise the custom entry.
func (s State) FinalAmount() string {
	if s.Amount != "" {
		return s.Amount
	}
	return s.CustomAmount
}

// IsSponsorship reports whether the state targets a beneficiary.
func (s State) IsSponsorship() bool {
	return s.Kind == domain.KindSponsorship
}

// Rules are the configurable gates the wizard enforces.
type Rules struct {
	MinAmount    decimal.Decimal
	Presets      []decimal.Decimal
	PhoneDigits  int
	DefaultCause string
}

// NewRules builds Rules from integer currency units.
func NewRules(minAmount int, presets []int, phoneDigits int, defaultCause string) Rules {
	r := Rules{
		MinAmount:    decimal.NewFromInt(int64(minAmount)),
		PhoneDigits:  phoneDigits,
		DefaultCause: defaultCause,
	}
	for _, p := range presets {
		r.Presets = append(r.Presets, decimal.NewFromInt(int64(p)))
	}
	return r
}

// IsPreset reports whether raw parses to one of the preset amounts.
func (r Rules) IsPreset(raw string) bool {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	for _, p := range r.Presets {
		if p.Equal(v) {
			return true
		}
	}
	return false
}

// Initial returns the Step-1 state used when no URL parameter says otherwise.
func (r Rules) Initial() State {
	return State{
		Step:       StepAmount,
		Kind:       domain.KindDonation,
		SelectedID: r.DefaultCause,
		Frequency:  domain.FrequencyMonthly,
	}
}

// setAmount stores raw as a preset or a custom entry, clearing the other.
func (s *State) setAmount(raw string, r Rules) {
	raw = strings.TrimSpace(raw)
	if r.IsPreset(raw) {
		s.Amount = raw
		s.CustomAmount = ""
		return
	}
	s.Amount = ""
	s.CustomAmount = raw
}

// WithDefaultAmount fills the amount from a suggestion (a beneficiary's
// monthly need) when the donor has not entered one yet.
func WithDefaultAmount(s State, amount decimal.Decimal, r Rules) State {
	if s.FinalAmount() != "" || !amount.IsPositive() {
		return s
	}
	s.setAmount(amount.String(), r)
	return s
}
