package wizard

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"donorsite/internal/domain"
)

func TestQueryRoundTrip(t *testing.T) {
	r := testRules()
	s := mustReduce(t, r.Initial(), SelectCause{ID: "c3"})
	s = mustReduce(t, s, SelectPreset{Amount: "250"})

	q := StateToQuery(s, url.Values{})
	require.Equal(t, "c3", q.Get(ParamCause))
	require.Equal(t, "250", q.Get(ParamAmount))
	require.Equal(t, "amount=250&cause=c3", q.Encode())

	reloaded := QueryToState(q, r.Initial(), r)
	require.Equal(t, "c3", reloaded.SelectedID)
	require.Equal(t, "250", reloaded.Amount)
	require.Empty(t, reloaded.CustomAmount)
	if diff := cmp.Diff(s, reloaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryRoundTripCustomSponsorship(t *testing.T) {
	r := testRules()
	s := mustReduce(t, r.Initial(), SelectBeneficiary{ID: "w2", Category: domain.CategoryWidow})
	s = mustReduce(t, s, EnterCustom{Amount: "175"})
	s = mustReduce(t, s, SelectFrequency{Frequency: "yearly"})

	q := StateToQuery(s, url.Values{"cause": {"c1"}, "utm_source": {"mail"}})
	require.Equal(t, "w2", q.Get(ParamID))
	require.Equal(t, "widow", q.Get(ParamCategory))
	require.Equal(t, "175", q.Get(ParamAmount))
	require.Equal(t, "yearly", q.Get(ParamFrequency))
	require.Empty(t, q.Get(ParamCause), "cause must be dropped for sponsorships")
	require.Equal(t, "mail", q.Get("utm_source"), "unrelated params are preserved")

	reloaded := QueryToState(q, r.Initial(), r)
	if diff := cmp.Diff(s, reloaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStateToQueryDeletesEmptyValues(t *testing.T) {
	s := testRules().Initial()
	q := StateToQuery(s, url.Values{"amount": {"500"}, "frequency": {"yearly"}})
	require.False(t, q.Has(ParamAmount))
	require.False(t, q.Has(ParamFrequency))
	require.Equal(t, "c1", q.Get(ParamCause))
}

func TestStateToQueryDoesNotMutateBase(t *testing.T) {
	base := url.Values{"amount": {"500"}}
	s := mustReduce(t, testRules().Initial(), SelectPreset{Amount: "100"})
	_ = StateToQuery(s, base)
	require.Equal(t, "500", base.Get("amount"))
}

func TestQueryToStateDefaults(t *testing.T) {
	r := testRules()
	s := QueryToState(url.Values{}, r.Initial(), r)
	require.Equal(t, StepAmount, s.Step)
	require.Equal(t, domain.KindDonation, s.Kind)
	require.Equal(t, "c1", s.SelectedID)
	require.Equal(t, domain.FrequencyMonthly, s.Frequency)
	require.Empty(t, s.FinalAmount())
}

func TestQueryToStateSponsorshipCategoryFallback(t *testing.T) {
	r := testRules()
	s := QueryToState(url.Values{"id": {"42"}, "category": {"pets"}, "amount": {"333"}}, r.Initial(), r)
	require.Equal(t, domain.KindSponsorship, s.Kind)
	require.Equal(t, domain.CategoryOrphan, s.Category)
	require.Equal(t, "333", s.CustomAmount)
	require.Empty(t, s.Amount)
}

func TestNavigateUpdatesSelection(t *testing.T) {
	s := mustReduce(t, testRules().Initial(), EnterCustom{Amount: "300"})
	s = mustReduce(t, s, Navigate{Query: url.Values{"cause": {"c5"}, "amount": {"500"}}})
	require.Equal(t, "c5", s.SelectedID)
	require.Equal(t, "500", s.Amount)
	require.Empty(t, s.CustomAmount)

	// absent params keep the current selection
	s = mustReduce(t, s, Navigate{Query: url.Values{}})
	require.Equal(t, "c5", s.SelectedID)
	require.Equal(t, "500", s.Amount)
}

func TestWithDefaultAmount(t *testing.T) {
	r := testRules()
	s := QueryToState(url.Values{"id": {"42"}, "category": {"orphan"}}, r.Initial(), r)

	got := WithDefaultAmount(s, decimal.NewFromInt(250), r)
	if got.Amount != "250" || got.CustomAmount != "" {
		t.Fatalf("preset need: amount=%q custom=%q", got.Amount, got.CustomAmount)
	}
	got = WithDefaultAmount(s, decimal.NewFromInt(180), r)
	if got.CustomAmount != "180" || got.Amount != "" {
		t.Fatalf("custom need: amount=%q custom=%q", got.Amount, got.CustomAmount)
	}

	s.CustomAmount = "900"
	if got := WithDefaultAmount(s, decimal.NewFromInt(250), r); got.CustomAmount != "900" {
		t.Fatalf("explicit amount overwritten: %+v", got)
	}
}

func TestCustomAmountMatchingPresetReloadsAsPreset(t *testing.T) {
	r := testRules()
	s := mustReduce(t, r.Initial(), EnterCustom{Amount: "250"})
	require.Equal(t, "250", s.CustomAmount)

	q := StateToQuery(s, url.Values{})
	require.Equal(t, "250", q.Get(ParamAmount))

	reloaded := QueryToState(q, r.Initial(), r)
	require.Equal(t, "250", reloaded.Amount)
	require.Empty(t, reloaded.CustomAmount)
	require.Equal(t, s.FinalAmount(), reloaded.FinalAmount())
}
