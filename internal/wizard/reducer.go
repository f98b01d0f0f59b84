package wizard

import (
	"errors"
	"fmt"
	"strings"

	"donorsite/internal/domain"
)

// ErrInvalidTransition is returned for events that are not allowed on the
// current step.
var ErrInvalidTransition = errors.New("wizard: invalid transition")

// Reduce applies ev to s. On error the returned state equals s.
func Reduce(s State, ev Event, r Rules) (State, error) {
	next := s
	switch e := ev.(type) {
	case SelectCause:
		if s.Step != StepAmount {
			return s, transitionError(s, ev)
		}
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return s, invalid("selection", CodeSelectionRequired)
		}
		next.Kind = domain.KindDonation
		next.SelectedID = id
		next.Category = ""

	case SelectBeneficiary:
		if s.Step != StepAmount {
			return s, transitionError(s, ev)
		}
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return s, invalid("selection", CodeSelectionRequired)
		}
		if e.Category.Collection() == "" {
			return s, invalid("category", CodeSelectionRequired)
		}
		next.Kind = domain.KindSponsorship
		next.SelectedID = id
		next.Category = e.Category

	case SelectPreset:
		if s.Step != StepAmount {
			return s, transitionError(s, ev)
		}
		raw := strings.TrimSpace(e.Amount)
		if !r.IsPreset(raw) {
			return s, invalid("amount", CodePresetUnknown)
		}
		next.Amount = raw
		next.CustomAmount = ""

	case EnterCustom:
		if s.Step != StepAmount {
			return s, transitionError(s, ev)
		}
		next.Amount = ""
		next.CustomAmount = strings.TrimSpace(e.Amount)

	case SelectFrequency:
		if s.Step == StepConfirmation {
			return s, transitionError(s, ev)
		}
		f, ok := domain.ParseFrequency(e.Frequency)
		if !ok {
			return s, invalid("frequency", CodeFrequencyInvalid)
		}
		next.Frequency = f

	case UpdateDonor:
		if s.Step != StepDonor {
			return s, transitionError(s, ev)
		}
		next.Donor = e.Donor

	case UpdatePayment:
		if s.Step != StepPayment {
			return s, transitionError(s, ev)
		}
		next.Payment = e.Payment

	case Next:
		switch s.Step {
		case StepAmount:
			if err := ValidateSelection(s); err != nil {
				return s, err
			}
			if _, err := ValidateAmount(s, r); err != nil {
				return s, err
			}
			next.Step = StepDonor
		case StepDonor:
			if err := ValidateDonor(s.Donor); err != nil {
				return s, err
			}
			next.Step = StepPayment
		default:
			return s, transitionError(s, ev)
		}

	case Back:
		switch s.Step {
		case StepDonor:
			next.Step = StepAmount
		case StepPayment:
			next.Step = StepDonor
		default:
			return s, transitionError(s, ev)
		}

	case Confirmed:
		if s.Step != StepPayment {
			return s, transitionError(s, ev)
		}
		next.Step = StepConfirmation

	case Reset:
		if s.Step != StepConfirmation {
			return s, transitionError(s, ev)
		}
		next = State{
			Step:       StepAmount,
			Kind:       s.Kind,
			SelectedID: s.SelectedID,
			Category:   s.Category,
			Frequency:  domain.FrequencyMonthly,
		}

	case Navigate:
		if s.Step != StepAmount {
			return s, transitionError(s, ev)
		}
		next = applyQuery(s, e.Query, r)

	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
	return next, nil
}

func transitionError(s State, ev Event) error {
	return fmt.Errorf("%w: %s on step %s", ErrInvalidTransition, ev.Name(), s.Step)
}
