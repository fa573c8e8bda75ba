package estimator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Step is a position in the wizard.
type Step int

const (
	StepType Step = iota
	StepFeatures
	StepSupport
	StepSummary
)

// StepInfo labels a wizard step for display.
type StepInfo struct {
	Step       Step   `json:"step"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
}

// Steps lists the wizard steps in order.
func Steps() []StepInfo {
	return []StepInfo{
		{Step: StepType, Label: "Website Type", ShortLabel: "Type"},
		{Step: StepFeatures, Label: "Extra Features", ShortLabel: "Features"},
		{Step: StepSupport, Label: "Maintenance", ShortLabel: "Support"},
		{Step: StepSummary, Label: "Send", ShortLabel: "Send"},
	}
}

var validate = validator.New()

// CanProceed reports whether the current step is complete. Features are
// optional; the summary needs a name and a well-formed email.
func CanProceed(s State) bool {
	switch s.Step {
	case StepType:
		return s.SelectedType != ""
	case StepFeatures:
		return true
	case StepSupport:
		return s.SelectedSupport != ""
	case StepSummary:
		return strings.TrimSpace(s.Contact.Name) != "" &&
			validate.Var(strings.TrimSpace(s.Contact.Email), "required,email") == nil
	default:
		return false
	}
}

// CanNavigateTo reports whether a step indicator may jump to target. Only
// steps already passed can be revisited directly.
func CanNavigateTo(s State, target Step) bool {
	return target >= StepType && target < s.Step
}

// GoNext advances one step when the current one is complete.
type GoNext struct{}

func (GoNext) apply(_ *Catalog, s State) (State, error) {
	if CanProceed(s) && s.Step < StepSummary {
		s.Step++
	}
	return s, nil
}

// GoBack returns to the previous step.
type GoBack struct{}

func (GoBack) apply(_ *Catalog, s State) (State, error) {
	if s.Step > StepType {
		s.Step--
	}
	return s, nil
}

// NavigateTo jumps back to an already completed step.
type NavigateTo struct {
	Step Step `json:"step"`
}

func (a NavigateTo) apply(_ *Catalog, s State) (State, error) {
	if CanNavigateTo(s, a.Step) {
		s.Step = a.Step
	}
	return s, nil
}
