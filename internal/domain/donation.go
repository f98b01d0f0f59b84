package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is the payment cadence of a pledge.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// ParseFrequency returns the frequency for raw and whether it is known.
func ParseFrequency(raw string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(raw))) {
	case FrequencyMonthly:
		return FrequencyMonthly, true
	case FrequencyQuarterly:
		return FrequencyQuarterly, true
	case FrequencyYearly:
		return FrequencyYearly, true
	}
	return "", false
}

// SubmissionKind discriminates donations from sponsorships.
type SubmissionKind string

const (
	KindDonation    SubmissionKind = "donation"
	KindSponsorship SubmissionKind = "sponsorship"
)

// PaymentMethodMobileMoney is the only payment method the checkout offers.
const PaymentMethodMobileMoney = "mobile_money"

// Submission is the body posted to the backend to create a donation or a
// sponsorship record. Identifier fields are mutually exclusive and depend on
// Type and SponsorshipType.
type Submission struct {
	Amount          decimal.Decimal `json:"amount"`
	StartDate       string          `json:"start_date"`
	Frequency       Frequency       `json:"frequency"`
	Type            SubmissionKind  `json:"type"`
	SponsorshipType Category        `json:"sponsorship_type,omitempty"`
	DonorName       string          `json:"donor_name"`
	DonorEmail      string          `json:"donor_email"`
	DonorPhone      string          `json:"donor_phone,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentPhone    string          `json:"payment_phone"`
	CampaignID      ID              `json:"campaign_id,omitempty"`
	OrphanID        ID              `json:"orphan_id,omitempty"`
	FamilyID        ID              `json:"family_id,omitempty"`
}

// SubmissionResult is the backend answer to a submission.
type SubmissionResult struct {
	// AuthorizationURL, when set, is the payment gateway page the donor must
	// be sent to. The checkout flow ends there.
	AuthorizationURL string
	Success          bool
	Reference        string
}

// ID is an entity identifier. Purely numeric identifiers are encoded as JSON
// numbers because the backend keys its rows by integer.
type ID string

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return strconv.AppendUint(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}
