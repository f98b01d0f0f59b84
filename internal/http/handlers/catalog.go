package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"donorsite/internal/content"
	"donorsite/internal/domain"
	"donorsite/internal/i18n"
	"donorsite/internal/middleware"
)

func (a *App) CausesList(w http.ResponseWriter, r *http.Request) {
	causes, err := a.Checkout.Causes(r.Context())
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": causes})
}

// BeneficiariesList lists beneficiaries of one category, or of every category
// when none is given, filtered by a name or location search.
func (a *App) BeneficiariesList(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			a.fail(w, r, err, nil)
			return
		}
		categories = []domain.Category{c}
	}
	search := r.URL.Query().Get("q")

	items := make([]domain.Beneficiary, 0)
	waiting := 0
	for _, c := range categories {
		list, err := a.Catalog.ListBeneficiaries(r.Context(), c)
		if err != nil {
			a.fail(w, r, err, nil)
			return
		}
		for _, b := range list {
			if !b.Matches(search) {
				continue
			}
			if !b.Sponsored {
				waiting++
			}
			items = append(items, b)
		}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "waiting": waiting})
}

func (a *App) BeneficiaryGet(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	b, err := a.Catalog.GetBeneficiary(r.Context(), category, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	a.json(w, http.StatusOK, b)
}

func (a *App) BlogList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"items":      a.Content.Posts(r.URL.Query().Get("category")),
		"categories": a.Content.Categories(),
	})
}

func (a *App) BlogGet(w http.ResponseWriter, r *http.Request) {
	post, err := a.Content.Post(chi.URLParam(r, "id"))
	if errors.Is(err, content.ErrPostNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	a.json(w, http.StatusOK, post)
}

func (a *App) Impact(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	impact := a.Content.Impact
	a.json(w, http.StatusOK, map[string]any{
		"orphans_sponsored":        impact.OrphansSponsored,
		"countries_served":         impact.CountriesServed,
		"donations_raised":         impact.DonationsRaised,
		"donations_raised_display": i18n.FormatAmount(locale, decimal.NewFromInt(impact.DonationsRaised), a.Currency),
		"volunteers_active":        impact.VolunteersActive,
	})
}
