package wizard

import (
	"fmt"
	"strings"
	"time"

	"donorsite/internal/domain"
)

// StartDateLayout is the date format the backend expects for start_date.
const StartDateLayout = "2006-01-02"

// BuildSubmission validates s and composes the backend payload. The
// identifier fields depend on the kind of submission and, for sponsorships,
// on the beneficiary category.
func BuildSubmission(s State, r Rules, now time.Time) (domain.Submission, error) {
	if err := ValidateSelection(s); err != nil {
		return domain.Submission{}, err
	}
	amount, err := ValidateAmount(s, r)
	if err != nil {
		return domain.Submission{}, err
	}
	if err := ValidateDonor(s.Donor); err != nil {
		return domain.Submission{}, err
	}
	if err := ValidatePayment(s.Payment, r); err != nil {
		return domain.Submission{}, err
	}

	frequency := s.Frequency
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	sub := domain.Submission{
		Amount:        amount,
		StartDate:     now.Format(StartDateLayout),
		Frequency:     frequency,
		Type:          s.Kind,
		DonorName:     s.Donor.FullName(),
		DonorEmail:    strings.TrimSpace(s.Donor.Email),
		DonorPhone:    strings.TrimSpace(s.Donor.Phone),
		PaymentMethod: domain.PaymentMethodMobileMoney,
		PaymentPhone:  PhoneDigits(s.Payment.PhoneNumber),
	}

	switch s.Kind {
	case domain.KindDonation:
		sub.CampaignID = domain.ID(s.SelectedID)
	case domain.KindSponsorship:
		sub.SponsorshipType = s.Category
		switch s.Category {
		case domain.CategoryOrphan:
			sub.OrphanID = domain.ID(s.SelectedID)
		case domain.CategoryWidow, domain.CategoryFamily:
			sub.FamilyID = domain.ID(s.SelectedID)
		default:
			return domain.Submission{}, fmt.Errorf("wizard: build submission: %w: %q", domain.ErrInvalidCategory, s.Category)
		}
	default:
		return domain.Submission{}, fmt.Errorf("wizard: build submission: unknown kind %q", s.Kind)
	}
	return sub, nil
}
