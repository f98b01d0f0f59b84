package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"donorsite/internal/checkout"
	"donorsite/internal/content"
	"donorsite/internal/domain"
	"donorsite/internal/i18n"
	"donorsite/internal/infra"
	"donorsite/internal/middleware"
	"donorsite/internal/wizard"
)

// App carries the dependencies shared by every handler.
type App struct {
	Checkout *checkout.Service
	Catalog  domain.CatalogSource
	Content  *content.Catalog
	Logger   *infra.Logger
	Currency string
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
	View  any       `json:"view,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errorBody{Code: errCode, Message: message}})
}

func (a *App) logger() *infra.Logger {
	if a.Logger == nil {
		return infra.NopLogger()
	}
	return a.Logger
}

// fail maps a service error to a status code and a localized message. view,
// when non-nil, is echoed so the client can keep rendering the unchanged
// state.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, view any) {
	locale := middleware.LocaleFromContext(r.Context())
	status, body := classify(err)
	body.Message = i18n.Message(locale, body.Code)
	if status >= http.StatusInternalServerError {
		a.logger().Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	a.json(w, status, errorResponse{Error: body, View: view})
}

func classify(err error) (int, errorBody) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Code: verr.Code, Field: verr.Field}
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		return http.StatusConflict, errorBody{Code: i18n.CodeSubmissionInFlight}
	case errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict, errorBody{Code: i18n.CodeInvalidTransition}
	case errors.Is(err, checkout.ErrSessionNotFound):
		return http.StatusNotFound, errorBody{Code: i18n.CodeSessionNotFound}
	case errors.Is(err, checkout.ErrBadQuery), errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, errorBody{Code: i18n.CodeBadRequest}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Code: i18n.CodeBeneficiaryNotFound}
	case errors.Is(err, domain.ErrBackendFailure):
		return http.StatusBadGateway, errorBody{Code: i18n.CodeBackendFailure}
	}
	return http.StatusInternalServerError, errorBody{Code: "internal"}
}
