package wizard

import (
	"net/url"
	"strings"

	"donorsite/internal/domain"
)

// Query parameter names that carry wizard state.
const (
	ParamCause     = "cause"
	ParamID        = "id"
	ParamCategory  = "category"
	ParamAmount    = "amount"
	ParamFrequency = "frequency"
)

// StateToQuery merges the shareable part of s into a copy of base. Keys with
// an empty value are removed and unrelated keys are kept as they are.
func StateToQuery(s State, base url.Values) url.Values {
	out := url.Values{}
	for k, v := range base {
		out[k] = append([]string(nil), v...)
	}

	params := map[string]string{
		ParamAmount: s.FinalAmount(),
	}
	switch s.Kind {
	case domain.KindSponsorship:
		params[ParamID] = s.SelectedID
		params[ParamCategory] = string(s.Category)
		params[ParamCause] = ""
	default:
		params[ParamCause] = s.SelectedID
		params[ParamID] = ""
		params[ParamCategory] = ""
	}
	if s.Frequency != "" && s.Frequency != domain.FrequencyMonthly {
		params[ParamFrequency] = string(s.Frequency)
	} else {
		params[ParamFrequency] = ""
	}

	for key, value := range params {
		if value != "" {
			out.Set(key, value)
		} else {
			out.Del(key)
		}
	}
	return out
}

// QueryToState derives a Step-1 state from URL parameters, starting from
// defaults for anything the URL does not say.
func QueryToState(params url.Values, defaults State, r Rules) State {
	s := defaults
	s.Step = StepAmount
	if s.Frequency == "" {
		s.Frequency = domain.FrequencyMonthly
	}
	return applyQuery(s, params, r)
}

// applyQuery overwrites the selection with whatever params carry. Absent
// parameters leave the current value alone.
func applyQuery(s State, params url.Values, r Rules) State {
	if id := strings.TrimSpace(params.Get(ParamID)); id != "" {
		s.Kind = domain.KindSponsorship
		s.SelectedID = id
		category, err := domain.ParseCategory(params.Get(ParamCategory))
		if err != nil {
			category = domain.CategoryOrphan
		}
		s.Category = category
	} else if cause := strings.TrimSpace(params.Get(ParamCause)); cause != "" {
		s.Kind = domain.KindDonation
		s.SelectedID = cause
		s.Category = ""
	}

	// The URL does not say whether an amount was typed or picked, so a custom
	// entry equal to a preset comes back as that preset.
	if amount := strings.TrimSpace(params.Get(ParamAmount)); amount != "" && amount != s.FinalAmount() {
		s.setAmount(amount, r)
	}

	if f, ok := domain.ParseFrequency(params.Get(ParamFrequency)); ok {
		s.Frequency = f
	}
	return s
}
