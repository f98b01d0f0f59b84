package wizard

import (
	"time"

	"github.com/shopspring/decimal"

	"donorsite/internal/domain"
)

// Target describes what the donor gave to, as shown on the confirmation.
type Target struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	Image     string `json:"image,omitempty"`
	Sponsored bool   `json:"sponsored"`
}

// Confirmation is the read-only summary shown once a submission went through.
type Confirmation struct {
	Kind        domain.SubmissionKind `json:"kind"`
	Amount      decimal.Decimal       `json:"amount"`
	Frequency   domain.Frequency      `json:"frequency"`
	Target      Target                `json:"target"`
	DonorName   string                `json:"donor_name"`
	DonorEmail  string                `json:"donor_email"`
	Reference   string                `json:"reference,omitempty"`
	Certificate *Certificate          `json:"certificate,omitempty"`
}

// Certificate is the sponsorship certificate preview.
type Certificate struct {
	Beneficiary string           `json:"beneficiary"`
	Location    string           `json:"location,omitempty"`
	Image       string           `json:"image,omitempty"`
	SponsoredBy string           `json:"sponsored_by"`
	Amount      decimal.Decimal  `json:"amount"`
	Frequency   domain.Frequency `json:"frequency"`
	IssuedOn    string           `json:"issued_on"`
	Reference   string           `json:"reference"`
}

// BuildConfirmation summarizes a submitted state. Sponsorship targets are
// reported as sponsored; that flag is display-only and never written back.
func BuildConfirmation(s State, target Target, reference string, issued time.Time) Confirmation {
	amount, _ := decimal.NewFromString(s.FinalAmount())
	c := Confirmation{
		Kind:       s.Kind,
		Amount:     amount,
		Frequency:  s.Frequency,
		Target:     target,
		DonorName:  s.Donor.FullName(),
		DonorEmail: s.Donor.Email,
		Reference:  reference,
	}
	if s.IsSponsorship() {
		c.Target.Sponsored = true
		c.Certificate = &Certificate{
			Beneficiary: target.Name,
			Location:    target.Location,
			Image:       target.Image,
			SponsoredBy: s.Donor.FullName(),
			Amount:      amount,
			Frequency:   s.Frequency,
			IssuedOn:    issued.Format(StartDateLayout),
			Reference:   reference,
		}
	}
	return c
}
