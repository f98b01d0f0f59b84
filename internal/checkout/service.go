// Package checkout runs wizard sessions on behalf of HTTP clients: it owns
// the in-memory session store, resolves the selected cause or beneficiary
// against the backend and guards submissions so each session issues at most
// one backend call at a time.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"donorsite/internal/domain"
	"donorsite/internal/infra"
	"donorsite/internal/wizard"
)

var (
	// ErrSessionNotFound is returned for unknown, expired or discarded sessions.
	ErrSessionNotFound = errors.New("checkout: session not found")
	// ErrSubmissionInFlight is returned while a submission for the session is outstanding.
	ErrSubmissionInFlight = errors.New("checkout: submission already in flight")
	// ErrBadQuery is returned when a session is started from an unparsable query string.
	ErrBadQuery = errors.New("checkout: malformed query")
)

// Options configures a Service.
type Options struct {
	Backend       domain.Backend
	Rules         wizard.Rules
	Store         *Store
	Logger        *infra.Logger
	Metrics       *Metrics
	SubmitTimeout time.Duration
	Now           func() time.Time
	NewID         func() string
}

// Service drives checkout sessions.
type Service struct {
	backend       domain.Backend
	rules         wizard.Rules
	store         *Store
	logger        *infra.Logger
	metrics       *Metrics
	submitTimeout time.Duration
	now           func() time.Time
	newID         func() string
	group         singleflight.Group
}

// SubmitResult is the outcome of a successful submission. RedirectURL is set
// when the backend asked the donor to authorize the payment elsewhere; the
// session is then terminal.
type SubmitResult struct {
	RedirectURL string
	View        View
}

// NewService wires a Service with defaults for anything left unset.
func NewService(opts Options) (*Service, error) {
	if opts.Backend == nil {
		return nil, errors.New("checkout: backend is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	store := opts.Store
	if store == nil {
		store = NewStore(30*time.Minute, now)
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	timeout := opts.SubmitTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		backend:       opts.Backend,
		rules:         opts.Rules,
		store:         store,
		logger:        logger,
		metrics:       opts.Metrics,
		submitTimeout: timeout,
		now:           now,
		newID:         newID,
	}, nil
}

// Rules returns the gates the wizard enforces.
func (s *Service) Rules() wizard.Rules { return s.rules }

// Store returns the session store, for sweeping.
func (s *Service) Store() *Store { return s.store }

// Causes lists donation campaigns. Concurrent callers share one backend call.
func (s *Service) Causes(ctx context.Context) ([]domain.Cause, error) {
	v, err, _ := s.group.Do("causes", func() (any, error) {
		// shared by every waiting caller, so no single caller may cancel it
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
		defer cancel()
		return s.backend.ListCauses(fetchCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Cause), nil
}

// Start opens a session whose Step-1 selection is derived from rawQuery.
func (s *Service) Start(ctx context.Context, rawQuery string) (View, error) {
	params, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(rawQuery), "?"))
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrBadQuery, err)
	}
	sess := &Session{
		ID:       s.newID(),
		state:    wizard.QueryToState(params, s.rules.Initial(), s.rules),
		lastSeen: s.now(),
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.resolveTarget(ctx, sess)
	sess.query = wizard.StateToQuery(sess.state, params)

	s.store.put(sess)
	s.metrics.sessions(s.store.Len())
	s.logger.Debug().
		Str("session_id", sess.ID).
		Str("kind", string(sess.state.Kind)).
		Str("selected_id", sess.state.SelectedID).
		Msg("checkout session started")
	return sess.view(), nil
}

// Get returns the current view of a session.
func (s *Service) Get(id string) (View, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Apply feeds ev into the session's wizard. On error the returned view shows
// the unchanged state.
func (s *Service) Apply(ctx context.Context, id string, ev wizard.Event) (View, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	if sess.submitting {
		s.metrics.event(ev.Name(), "in_flight")
		return sess.view(), ErrSubmissionInFlight
	}
	if sess.redirectURL != "" {
		s.metrics.event(ev.Name(), "rejected")
		return sess.view(), fmt.Errorf("%w: session redirected to payment", wizard.ErrInvalidTransition)
	}
	if _, ok := ev.(wizard.Next); ok {
		if err := sess.missingBeneficiary(); err != nil {
			s.metrics.event(ev.Name(), "not_found")
			return sess.view(), err
		}
	}

	next, err := wizard.Reduce(sess.state, ev, s.rules)
	if err != nil {
		s.metrics.event(ev.Name(), eventOutcome(err))
		return sess.view(), err
	}
	sess.state = next
	if _, ok := ev.(wizard.Reset); ok {
		sess.confirmation = nil
	}
	if sess.state.Step == wizard.StepAmount {
		s.resolveTarget(ctx, sess)
		sess.query = wizard.StateToQuery(sess.state, sess.query)
	}
	s.metrics.event(ev.Name(), "ok")
	return sess.view(), nil
}

// Submit sends the session's payload to the backend. Only one submission per
// session may be outstanding; the backend call outlives ctx cancellation and
// is bounded by the submit timeout instead.
func (s *Service) Submit(ctx context.Context, id string) (SubmitResult, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return SubmitResult{}, err
	}
	kind := string(sess.state.Kind)
	if sess.submitting {
		sess.mu.Unlock()
		s.metrics.submission(kind, "in_flight")
		return SubmitResult{}, ErrSubmissionInFlight
	}
	if sess.state.Step != wizard.StepPayment || sess.redirectURL != "" {
		v := sess.view()
		sess.mu.Unlock()
		s.metrics.submission(kind, "rejected")
		return SubmitResult{View: v}, fmt.Errorf("%w: submit on step %s", wizard.ErrInvalidTransition, v.Step)
	}
	if err := sess.missingBeneficiary(); err != nil {
		v := sess.view()
		sess.mu.Unlock()
		s.metrics.submission(kind, "not_found")
		return SubmitResult{View: v}, err
	}
	sub, err := wizard.BuildSubmission(sess.state, s.rules, s.now())
	if err != nil {
		v := sess.view()
		sess.mu.Unlock()
		s.metrics.submission(kind, "invalid")
		return SubmitResult{View: v}, err
	}
	sess.submitting = true
	sess.mu.Unlock()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
	defer cancel()
	res, callErr := s.backend.Submit(callCtx, sub)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.submitting = false
	sess.lastSeen = s.now()

	if sess.discarded {
		s.logger.Info().Str("session_id", sess.ID).Err(callErr).Msg("dropping submission response for discarded session")
		return SubmitResult{}, ErrSessionNotFound
	}
	if callErr != nil {
		s.metrics.submission(kind, "failed")
		s.logger.Warn().Err(callErr).Str("session_id", sess.ID).Str("kind", kind).Msg("checkout submission failed")
		return SubmitResult{View: sess.view()}, callErr
	}

	if res.AuthorizationURL != "" {
		sess.redirectURL = res.AuthorizationURL
		s.metrics.submission(kind, "redirect")
		s.logger.Info().Str("session_id", sess.ID).Str("kind", kind).Msg("checkout redirected to payment authorization")
		return SubmitResult{RedirectURL: res.AuthorizationURL, View: sess.view()}, nil
	}

	next, err := wizard.Reduce(sess.state, wizard.Confirmed{}, s.rules)
	if err != nil {
		return SubmitResult{View: sess.view()}, err
	}
	reference := res.Reference
	if reference == "" {
		reference = s.newID()
	}
	target, _ := sess.target()
	confirmation := wizard.BuildConfirmation(sess.state, target, reference, s.now())
	sess.state = next
	sess.confirmation = &confirmation
	s.metrics.submission(kind, "confirmed")
	s.logger.Info().Str("session_id", sess.ID).Str("kind", kind).Str("reference", reference).Msg("checkout confirmed")
	return SubmitResult{View: sess.view()}, nil
}

// Discard drops a session. A submission still in flight completes, but its
// response is ignored.
func (s *Service) Discard(id string) error {
	sess, ok := s.store.remove(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	sess.discarded = true
	sess.mu.Unlock()
	s.metrics.sessions(s.store.Len())
	return nil
}

// StartSweeper expires idle sessions on the cron schedule spec until the
// returned stop function is called. stop waits for a running sweep to finish
// or for ctx to end.
func (s *Service) StartSweeper(spec string) (stop func(context.Context), err error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("checkout: sweep schedule %q: %w", spec, err)
	}
	c.Start()
	return func(ctx context.Context) {
		done := c.Stop()
		select {
		case <-done.Done():
		case <-ctx.Done():
		}
	}, nil
}

func (s *Service) sweep() {
	n := s.store.Sweep()
	live := s.store.Len()
	s.metrics.sessions(live)
	if n > 0 {
		s.logger.Debug().Int("removed", n).Int("live", live).Msg("expired checkout sessions")
	}
}

// acquire looks up a live session and returns it locked.
func (s *Service) acquire(id string) (*Session, error) {
	sess, ok := s.store.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	if sess.discarded {
		sess.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// resolveTarget loads the beneficiary or the cause list for the current
// selection. It must be called with sess.mu held. Lookup failures leave the
// session showing the not-found view.
func (s *Service) resolveTarget(ctx context.Context, sess *Session) {
	st := sess.state
	if !st.IsSponsorship() {
		sess.beneficiary = nil
		sess.targetKey = ""
		sess.notFound = false
		if len(sess.causes) == 0 {
			causes, err := s.Causes(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("load causes")
				return
			}
			sess.causes = causes
		}
		return
	}

	key := string(st.Category) + "/" + st.SelectedID
	if key == sess.targetKey {
		return
	}
	sess.targetKey = key
	sess.beneficiary = nil
	sess.notFound = false

	b, err := s.backend.GetBeneficiary(ctx, st.Category, st.SelectedID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		sess.notFound = true
	case err != nil:
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Str("beneficiary_id", st.SelectedID).Msg("load beneficiary")
		sess.notFound = true
	default:
		sess.beneficiary = b
		sess.state = wizard.WithDefaultAmount(st, b.MonthlyNeed, s.rules)
	}
}

func eventOutcome(err error) string {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, wizard.ErrInvalidTransition):
		return "rejected"
	}
	return "error"
}
