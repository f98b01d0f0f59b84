package wizard

import (
	"net/url"

	"donorsite/internal/domain"
)

// Event is an input to Reduce.
type Event interface {
	// Name is a short identifier used for logs and metrics.
	Name() string
}

// SelectCause targets a donation cause.
type SelectCause struct{ ID string }

// SelectBeneficiary targets a beneficiary for sponsorship.
type SelectBeneficiary struct {
	ID       string
	Category domain.Category
}

// SelectPreset picks one of the preset amounts.
type SelectPreset struct{ Amount string }

// EnterCustom sets a free-entry amount.
type EnterCustom struct{ Amount string }

// SelectFrequency changes the payment cadence.
type SelectFrequency struct{ Frequency string }

// UpdateDonor replaces the donor fields.
type UpdateDonor struct{ Donor Donor }

// UpdatePayment replaces the payment fields.
type UpdatePayment struct{ Payment Payment }

// Next asks to advance to the following step.
type Next struct{}

// Back returns to the previous step.
type Back struct{}

// Confirmed records that the backend accepted the submission without
// requiring a redirect.
type Confirmed struct{}

// Reset starts a new submission from the confirmation step.
type Reset struct{}

// Navigate re-derives the selection from a URL the donor navigated to.
type Navigate struct{ Query url.Values }

func (SelectCause) Name() string       { return "select_cause" }
func (SelectBeneficiary) Name() string { return "select_beneficiary" }
func (SelectPreset) Name() string      { return "select_preset" }
func (EnterCustom) Name() string       { return "enter_custom" }
func (SelectFrequency) Name() string   { return "select_frequency" }
func (UpdateDonor) Name() string       { return "update_donor" }
func (UpdatePayment) Name() string     { return "update_payment" }
func (Next) Name() string              { return "next" }
func (Back) Name() string              { return "back" }
func (Confirmed) Name() string         { return "confirmed" }
func (Reset) Name() string             { return "reset" }
func (Navigate) Name() string          { return "navigate" }
