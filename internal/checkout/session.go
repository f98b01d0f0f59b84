package checkout

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"donorsite/internal/domain"
	"donorsite/internal/wizard"
)

// Session is one donor's checkout. All fields are guarded by mu.
type Session struct {
	ID string

	mu           sync.Mutex
	state        wizard.State
	beneficiary  *domain.Beneficiary
	targetKey    string
	causes       []domain.Cause
	notFound     bool
	submitting   bool
	discarded    bool
	redirectURL  string
	confirmation *wizard.Confirmation
	query        url.Values
	lastSeen     time.Time
}

// View is the snapshot of a session returned to clients.
type View struct {
	SessionID    string                `json:"session_id"`
	Step         wizard.Step           `json:"step"`
	Kind         domain.SubmissionKind `json:"kind"`
	State        wizard.State          `json:"state"`
	Query        string                `json:"query"`
	Target       *wizard.Target        `json:"target,omitempty"`
	Causes       []domain.Cause        `json:"causes,omitempty"`
	NotFound     bool                  `json:"not_found"`
	RedirectURL  string                `json:"redirect_url,omitempty"`
	Confirmation *wizard.Confirmation  `json:"confirmation,omitempty"`
}

// view must be called with mu held.
func (s *Session) view() View {
	v := View{
		SessionID:    s.ID,
		Step:         s.state.Step,
		Kind:         s.state.Kind,
		State:        s.state,
		Query:        s.query.Encode(),
		NotFound:     s.notFound,
		RedirectURL:  s.redirectURL,
		Confirmation: s.confirmation,
	}
	if !s.state.IsSponsorship() {
		v.Causes = s.causes
	}
	if t, ok := s.target(); ok {
		v.Target = &t
	}
	return v
}

// target describes what the session currently gives to. It must be called
// with mu held.
func (s *Session) target() (wizard.Target, bool) {
	if s.state.IsSponsorship() {
		if s.beneficiary == nil {
			return wizard.Target{}, false
		}
		b := s.beneficiary
		return wizard.Target{
			ID:        b.ID,
			Name:      b.Name,
			Location:  b.Location,
			Image:     b.Image,
			Sponsored: b.Sponsored,
		}, true
	}
	c, ok := domain.FindCause(s.causes, s.state.SelectedID)
	if !ok {
		return wizard.Target{ID: s.state.SelectedID}, s.state.SelectedID != ""
	}
	return wizard.Target{ID: c.ID, Name: c.Title}, true
}

// missingBeneficiary reports a sponsorship whose beneficiary could not be
// loaded. Such a session only shows the not-found view and cannot advance.
// It must be called with mu held.
func (s *Session) missingBeneficiary() error {
	if s.state.IsSponsorship() && s.notFound {
		return fmt.Errorf("checkout: beneficiary %s: %w", s.state.SelectedID, domain.ErrNotFound)
	}
	return nil
}
