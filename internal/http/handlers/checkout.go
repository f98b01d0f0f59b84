package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"donorsite/internal/checkout"
	"donorsite/internal/domain"
	"donorsite/internal/i18n"
	"donorsite/internal/middleware"
	"donorsite/internal/wizard"
)

type startRequest struct {
	Query string `json:"query"`
}

// flexString accepts a JSON string or number, so amounts can be sent either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type eventRequest struct {
	Type        string     `json:"type"`
	ID          flexString `json:"id"`
	Category    string     `json:"category"`
	Amount      flexString `json:"amount"`
	Frequency   string     `json:"frequency"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	PhoneNumber string     `json:"phone_number"`
	Query       string     `json:"query"`
}

func (req eventRequest) event() (wizard.Event, error) {
	switch req.Type {
	case "select_cause":
		return wizard.SelectCause{ID: string(req.ID)}, nil
	case "select_beneficiary":
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		return wizard.SelectBeneficiary{ID: string(req.ID), Category: category}, nil
	case "select_preset":
		return wizard.SelectPreset{Amount: string(req.Amount)}, nil
	case "enter_custom":
		return wizard.EnterCustom{Amount: string(req.Amount)}, nil
	case "select_frequency":
		return wizard.SelectFrequency{Frequency: req.Frequency}, nil
	case "update_donor":
		return wizard.UpdateDonor{Donor: wizard.Donor{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		}}, nil
	case "update_payment":
		return wizard.UpdatePayment{Payment: wizard.Payment{PhoneNumber: req.PhoneNumber}}, nil
	case "next":
		return wizard.Next{}, nil
	case "back":
		return wizard.Back{}, nil
	case "reset":
		return wizard.Reset{}, nil
	case "navigate":
		q, err := url.ParseQuery(req.Query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", checkout.ErrBadQuery, err)
		}
		return wizard.Navigate{Query: q}, nil
	}
	return nil, fmt.Errorf("%w: unknown event %q", wizard.ErrInvalidTransition, req.Type)
}

type viewResponse struct {
	checkout.View
	FormattedAmount string `json:"formatted_amount,omitempty"`
	Message         string `json:"message,omitempty"`
}

func (a *App) present(r *http.Request, v checkout.View) viewResponse {
	locale := middleware.LocaleFromContext(r.Context())
	resp := viewResponse{View: v}
	if v.Confirmation != nil {
		resp.FormattedAmount = i18n.FormatAmount(locale, v.Confirmation.Amount, a.Currency)
		resp.Message = i18n.Message(locale, i18n.CodeSubmissionAccepted)
	}
	return resp
}

func (a *App) CheckoutStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, i18n.CodeBadRequest, "invalid payload")
			return
		}
	}
	v, err := a.Checkout.Start(r.Context(), req.Query)
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	a.json(w, http.StatusCreated, a.present(r, v))
}

func (a *App) CheckoutGet(w http.ResponseWriter, r *http.Request) {
	v, err := a.Checkout.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	a.json(w, http.StatusOK, a.present(r, v))
}

func (a *App) CheckoutEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, i18n.CodeBadRequest, "invalid payload")
		return
	}
	ev, err := req.event()
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	v, err := a.Checkout.Apply(r.Context(), chi.URLParam(r, "id"), ev)
	if err != nil {
		if v.SessionID == "" {
			a.fail(w, r, err, nil)
			return
		}
		a.fail(w, r, err, a.present(r, v))
		return
	}
	a.json(w, http.StatusOK, a.present(r, v))
}

func (a *App) CheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	res, err := a.Checkout.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if res.View.SessionID == "" {
			a.fail(w, r, err, nil)
			return
		}
		a.fail(w, r, err, a.present(r, res.View))
		return
	}
	if res.RedirectURL != "" {
		a.json(w, http.StatusOK, map[string]string{"redirect_url": res.RedirectURL})
		return
	}
	a.json(w, http.StatusOK, a.present(r, res.View))
}

func (a *App) CheckoutDiscard(w http.ResponseWriter, r *http.Request) {
	if err := a.Checkout.Discard(chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
