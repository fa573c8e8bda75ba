package estimator

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownContactField is returned when UpdateContactField names a field
// the contact form does not have.
var ErrUnknownContactField = errors.New("unknown contact field")

// Phase is the submission sub-state of a wizard session.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// Contact holds the free-text contact form. Required fields are only
// checked when leaving the summary step.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// State is the selection state of one wizard session. Values are treated as
// immutable; Reduce returns a new State.
type State struct {
	Step             Step     `json:"step"`
	Phase            Phase    `json:"phase"`
	SelectedType     string   `json:"selectedType,omitempty"`
	SelectedFeatures []string `json:"selectedFeatures"`
	SelectedSupport  string   `json:"selectedSupport,omitempty"`
	Contact          Contact  `json:"contact"`
	ActiveCategory   string   `json:"activeCategory,omitempty"`
	LastError        string   `json:"lastError,omitempty"`
	QuoteID          string   `json:"quoteId,omitempty"`
}

// InitialState is the state of a fresh session.
func InitialState() State {
	return State{Step: StepType, Phase: PhaseEditing, SelectedFeatures: []string{}}
}

// Equal reports whether two states hold the same values. Feature order is
// not significant.
func (s State) Equal(o State) bool {
	a, b := slices.Clone(s.SelectedFeatures), slices.Clone(o.SelectedFeatures)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b) &&
		s.Step == o.Step &&
		s.Phase == o.Phase &&
		s.SelectedType == o.SelectedType &&
		s.SelectedSupport == o.SelectedSupport &&
		s.Contact == o.Contact &&
		s.ActiveCategory == o.ActiveCategory &&
		s.LastError == o.LastError &&
		s.QuoteID == o.QuoteID
}

// HasFeature reports whether the user picked the feature.
func (s State) HasFeature(id string) bool {
	return slices.Contains(s.SelectedFeatures, id)
}

// Action is a state transition handled by Reduce.
type Action interface {
	apply(c *Catalog, s State) (State, error)
}

// Reduce applies an action to a state and returns the resulting state. The
// input is never modified. Unknown catalog ids return a lookup error with
// the original state; refused transitions return the state unchanged and no
// error. A submitted session only accepts Reset, and a session that is
// submitting only accepts the submission outcome.
func Reduce(c *Catalog, s State, a Action) (State, error) {
	switch s.Phase {
	case PhaseSubmitted:
		if _, ok := a.(Reset); !ok {
			return s, nil
		}
	case PhaseSubmitting:
		switch a.(type) {
		case SubmitSucceeded, SubmitFailed:
		default:
			return s, nil
		}
	}

	next := s
	next.SelectedFeatures = slices.Clone(s.SelectedFeatures)
	next, err := a.apply(c, next)
	if err != nil {
		return s, err
	}
	return next, nil
}

// SelectType chooses the website type. Previously chosen features are
// dropped and the active category moves to the first one shown for the type.
type SelectType struct {
	TypeID string `json:"typeId"`
}

func (a SelectType) apply(c *Catalog, s State) (State, error) {
	if _, err := c.Type(a.TypeID); err != nil {
		return s, err
	}
	s.SelectedType = a.TypeID
	s.SelectedFeatures = []string{}
	s.ActiveCategory = ""
	if cats := VisibleCategories(c, a.TypeID); len(cats) > 0 {
		s.ActiveCategory = cats[0].ID
	}
	return s, nil
}

// ToggleFeature adds or removes an optional feature. Features bundled with
// the current type, or not offered for it, cannot be toggled.
type ToggleFeature struct {
	FeatureID string `json:"featureId"`
}

func (a ToggleFeature) apply(c *Catalog, s State) (State, error) {
	f, err := c.Feature(a.FeatureID)
	if err != nil {
		return s, err
	}
	if !f.OfferedFor(s.SelectedType) || IsIncluded(f, s.SelectedType) {
		return s, nil
	}
	if i := slices.Index(s.SelectedFeatures, f.ID); i >= 0 {
		s.SelectedFeatures = slices.Delete(s.SelectedFeatures, i, i+1)
	} else {
		s.SelectedFeatures = append(s.SelectedFeatures, f.ID)
	}
	return s, nil
}

// SelectSupport chooses the support plan.
type SelectSupport struct {
	PlanID string `json:"planId"`
}

func (a SelectSupport) apply(c *Catalog, s State) (State, error) {
	if _, err := c.SupportPlan(a.PlanID); err != nil {
		return s, err
	}
	s.SelectedSupport = a.PlanID
	return s, nil
}

// SetActiveCategory switches the features tab. Categories not shown for the
// current type are ignored.
type SetActiveCategory struct {
	CategoryID string `json:"categoryId"`
}

func (a SetActiveCategory) apply(c *Catalog, s State) (State, error) {
	cat, err := c.Category(a.CategoryID)
	if err != nil {
		return s, err
	}
	if slices.Contains(cat.ShowFor, s.SelectedType) {
		s.ActiveCategory = cat.ID
	}
	return s, nil
}

// UpdateContactField sets one contact form field without validating it.
type UpdateContactField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (a UpdateContactField) apply(_ *Catalog, s State) (State, error) {
	switch a.Field {
	case "name":
		s.Contact.Name = a.Value
	case "email":
		s.Contact.Email = a.Value
	case "phone":
		s.Contact.Phone = a.Value
	case "company":
		s.Contact.Company = a.Value
	case "notes":
		s.Contact.Notes = a.Value
	default:
		return s, fmt.Errorf("%w %q", ErrUnknownContactField, a.Field)
	}
	return s, nil
}

// Reset discards every selection and returns to the first step.
type Reset struct{}

func (Reset) apply(*Catalog, State) (State, error) {
	return InitialState(), nil
}

// BeginSubmit moves a complete summary into the submitting phase.
type BeginSubmit struct{}

func (BeginSubmit) apply(_ *Catalog, s State) (State, error) {
	if s.Phase != PhaseEditing || s.Step != StepSummary || !CanProceed(s) {
		return s, nil
	}
	s.Phase = PhaseSubmitting
	s.LastError = ""
	return s, nil
}

// SubmitSucceeded completes the session.
type SubmitSucceeded struct {
	QuoteID string `json:"quoteId"`
}

func (a SubmitSucceeded) apply(_ *Catalog, s State) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, nil
	}
	s.Phase = PhaseSubmitted
	s.QuoteID = a.QuoteID
	return s, nil
}

// SubmitFailed returns the session to the summary step with the failure
// message so it can be resubmitted.
type SubmitFailed struct {
	Message string `json:"message"`
}

func (a SubmitFailed) apply(_ *Catalog, s State) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, nil
	}
	s.Phase = PhaseEditing
	s.LastError = a.Message
	return s, nil
}
