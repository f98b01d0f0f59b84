package httpapi

import (
	"net/http"
	"time"

	"donorsite/internal/http/handlers"
	"donorsite/internal/infra"
	mw "donorsite/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options carries the cross-cutting settings applied by the router.
type Options struct {
	Logger         infra.Logger
	AllowedOrigins []string
	RateLimit      int
	DefaultLocale  string
	CountryLookup  mw.CountryLookup
	Metrics        http.Handler
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		mw.Logger(opts.Logger),
		mw.CORS(opts.AllowedOrigins),
		mw.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/v1/causes", app.CausesList)
	r.Route("/v1/beneficiaries", func(r chi.Router) {
		r.Get("/", app.BeneficiariesList)
		r.Get("/{category}/{id}", app.BeneficiaryGet)
	})
	r.Route("/v1/blog", func(r chi.Router) {
		r.Get("/", app.BlogList)
		r.Get("/{id}", app.BlogGet)
	})
	r.Get("/v1/impact", app.Impact)

	r.Route("/v1/checkout/sessions", func(r chi.Router) {
		r.With(mw.RateLimit(opts.RateLimit, time.Minute)).Post("/", app.CheckoutStart)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.CheckoutGet)
			r.Delete("/", app.CheckoutDiscard)
			r.Post("/events", app.CheckoutEvent)
			r.With(mw.RateLimit(opts.RateLimit, time.Minute)).Post("/submit", app.CheckoutSubmit)
		})
	})

	return r
}
