package domain

import "strings"


// WizardStep is a page of the preference form.
type WizardStep int

const (
	StepInfo WizardStep = iota
	StepDestination
	StepAvailability

	// TotalSteps is the number of pages in the form.
	TotalSteps = 3
)

func (s WizardStep) String() string {
	switch s {
	case StepInfo:
		return "info"
	case StepDestination:
		return "destination"
	case StepAvailability:
		return "availability"
	}
	return "unknown"
}

// Wizard is the state of one attendee filling in the preference form.
// Transitions are value-returning; the zero value starts at StepInfo with an
// empty draft. Out-of-range moves leave the step unchanged.
type Wizard struct {
	Step  WizardStep
	Draft AttendeePreferences
}

// NewWizard starts the form from an existing draft, e.g. a previous
// submission being edited.
func NewWizard(draft AttendeePreferences) Wizard {
	return Wizard{Step: StepInfo, Draft: draft}
}

// Next advances one step unless already on the last one.
func (w Wizard) Next() Wizard {
	return w.GoTo(w.Step + 1)
}

// Prev goes back one step unless already on the first one.
func (w Wizard) Prev() Wizard {
	return w.GoTo(w.Step - 1)
}

// GoTo jumps to step when 0 <= step < TotalSteps.
func (w Wizard) GoTo(step WizardStep) Wizard {
	if step >= 0 && step < TotalSteps {
		w.Step = step
	}
	return w
}

// IsLastStep reports whether the form is on its final page.
func (w Wizard) IsLastStep() bool {
	return w.Step == TotalSteps-1
}

// SetInfo replaces the name and location of the draft.
func (w Wizard) SetInfo(name, location string) Wizard {
	w.Draft.Name = name
	w.Draft.Location = location
	return w
}

// SetRegions replaces the selected regions of the draft.
func (w Wizard) SetRegions(regionIDs []string) Wizard {
	w.Draft.SelectedRegions = append([]string(nil), regionIDs...)
	return w
}

// SetAvailability records one weekend answer, replacing any earlier answer
// for the same key. New keys keep the order they were answered in.
func (w Wizard) SetAvailability(weekendKey string, available bool) Wizard {
	out := make([]Availability, 0, len(w.Draft.Availability)+1)
	replaced := false
	for _, av := range w.Draft.Availability {
		if av.WeekendKey == weekendKey {
			av.IsAvailable = available
			replaced = true
		}
		out = append(out, av)
	}
	if !replaced {
		out = append(out, Availability{WeekendKey: weekendKey, IsAvailable: available})
	}
	w.Draft.Availability = out
	return w
}

// Complete reports whether the draft can be submitted.
func (w Wizard) Complete() bool {
	return strings.TrimSpace(w.Draft.Name) != ""
}
