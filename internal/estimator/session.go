package estimator

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrNotReady is returned by Submit when the session is not on a
	// complete summary step.
	ErrNotReady = errors.New("estimator: quote is not ready to submit")
	// ErrSubmissionInFlight is returned by Submit while a previous
	// submission has not resolved.
	ErrSubmissionInFlight = errors.New("estimator: submission already in progress")
	// ErrAlreadySubmitted is returned by Submit after a successful submission.
	ErrAlreadySubmitted = errors.New("estimator: quote already submitted")
)

// Selections are the catalog ids a quote was built from.
type Selections struct {
	TypeID     string   `json:"typeId"`
	FeatureIDs []string `json:"featureIds"`
	SupportID  string   `json:"supportId"`
}

// Quote is the finished payload handed to a Submitter.
type Quote struct {
	Selections Selections `json:"selections"`
	Computed   Estimate   `json:"computed"`
	Contact    Contact    `json:"contact"`
}

// Submitter transmits a finished quote and returns a reference for it.
type Submitter interface {
	SubmitQuote(ctx context.Context, q Quote) (string, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, q Quote) (string, error)

func (f SubmitterFunc) SubmitQuote(ctx context.Context, q Quote) (string, error) { return f(ctx, q) }

// SubmissionError reports a failed submission. The session stays on the
// summary step with its data intact.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string { return e.Message }

func (e *SubmissionError) Unwrap() error { return e.Err }

// Session is one wizard run over a catalog. It is not safe for concurrent
// use.
type Session struct {
	catalog *Catalog
	state   State
}

// NewSession starts a session in the initial state.
func NewSession(c *Catalog) *Session {
	return &Session{catalog: c, state: InitialState()}
}

// Catalog returns the catalog the session selects from.
func (s *Session) Catalog() *Catalog { return s.catalog }

// State returns a copy of the current state.
func (s *Session) State() State {
	st := s.state
	st.SelectedFeatures = slices.Clone(st.SelectedFeatures)
	return st
}

// Dispatch applies an action to the session state.
func (s *Session) Dispatch(a Action) error {
	next, err := Reduce(s.catalog, s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Estimate is the live estimate for the current selections.
func (s *Session) Estimate() Estimate {
	return PriceEstimate(s.catalog, s.state.SelectedType, s.state.SelectedFeatures, s.state.SelectedSupport)
}

// Quote assembles the submission payload from the current state.
func (s *Session) Quote() Quote {
	return Quote{
		Selections: Selections{
			TypeID:     s.state.SelectedType,
			FeatureIDs: slices.Clone(s.state.SelectedFeatures),
			SupportID:  s.state.SelectedSupport,
		},
		Computed: s.Estimate(),
		Contact:  s.state.Contact,
	}
}

// BeginSubmit enters the submitting phase and returns the quote to send.
// Callers that release a lock while the quote is in transit report the
// outcome with CompleteSubmit.
func (s *Session) BeginSubmit() (Quote, error) {
	switch s.state.Phase {
	case PhaseSubmitting:
		return Quote{}, ErrSubmissionInFlight
	case PhaseSubmitted:
		return Quote{}, ErrAlreadySubmitted
	}
	if err := s.Dispatch(BeginSubmit{}); err != nil {
		return Quote{}, err
	}
	if s.state.Phase != PhaseSubmitting {
		return Quote{}, ErrNotReady
	}
	return s.Quote(), nil
}

// CompleteSubmit records the outcome of a submission started with
// BeginSubmit. A non-nil err is returned wrapped in a *SubmissionError.
func (s *Session) CompleteSubmit(quoteID string, err error) error {
	if err != nil {
		serr := &SubmissionError{Message: "quote submission failed: " + err.Error(), Err: err}
		_ = s.Dispatch(SubmitFailed{Message: serr.Message})
		return serr
	}
	return s.Dispatch(SubmitSucceeded{QuoteID: quoteID})
}

// Submit sends the quote through sub and waits for the outcome.
func (s *Session) Submit(ctx context.Context, sub Submitter) (string, error) {
	q, err := s.BeginSubmit()
	if err != nil {
		return "", err
	}
	id, err := sub.SubmitQuote(ctx, q)
	if err := s.CompleteSubmit(id, err); err != nil {
		return "", err
	}
	return id, nil
}
