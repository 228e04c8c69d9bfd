package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

func TestWizard_StepTransitions(t *testing.T) {
	var w domain.Wizard
	assert.Equal(t, domain.StepInfo, w.Step)

	w = w.Prev()
	assert.Equal(t, domain.StepInfo, w.Step, "Prev on first step is a no-op")

	w = w.Next().Next()
	assert.Equal(t, domain.StepAvailability, w.Step)
	assert.True(t, w.IsLastStep())

	w = w.Next()
	assert.Equal(t, domain.StepAvailability, w.Step, "Next on last step is a no-op")

	w = w.GoTo(domain.StepDestination)
	assert.Equal(t, domain.StepDestination, w.Step)

	w = w.GoTo(domain.WizardStep(7))
	assert.Equal(t, domain.StepDestination, w.Step, "out-of-range GoTo is ignored")
	w = w.GoTo(domain.WizardStep(-1))
	assert.Equal(t, domain.StepDestination, w.Step)
}

func TestWizard_TransitionsDoNotMutateReceiver(t *testing.T) {
	w := domain.NewWizard(domain.AttendeePreferences{Name: "Sam"})

	next := w.Next()

	assert.Equal(t, domain.StepInfo, w.Step)
	assert.Equal(t, domain.StepDestination, next.Step)
	assert.Equal(t, "Sam", next.Draft.Name)
}

func TestWizard_SetAvailability_ReplacesByKey(t *testing.T) {
	w := domain.Wizard{}.
		SetAvailability("2023-07-01", true).
		SetAvailability("2023-07-08", true).
		SetAvailability("2023-07-01", false)

	assert.Equal(t, []domain.Availability{
		{WeekendKey: "2023-07-01", IsAvailable: false},
		{WeekendKey: "2023-07-08", IsAvailable: true},
	}, w.Draft.Availability)
}

func TestWizard_SetRegions_Copies(t *testing.T) {
	ids := []string{"cornwall", "devon"}
	w := domain.Wizard{}.SetRegions(ids)
	ids[0] = "alps"

	assert.Equal(t, []string{"cornwall", "devon"}, w.Draft.SelectedRegions)
}

func TestWizard_Complete(t *testing.T) {
	assert.False(t, domain.Wizard{}.Complete())
	assert.False(t, domain.Wizard{}.SetInfo("   ", "Bristol").Complete())
	assert.True(t, domain.Wizard{}.SetInfo("Sam", "").Complete())
}

func TestWizardStep_String(t *testing.T) {
	assert.Equal(t, "info", domain.StepInfo.String())
	assert.Equal(t, "availability", domain.StepAvailability.String())
	assert.Equal(t, "unknown", domain.WizardStep(9).String())
}

func TestAttendee_IsAvailable(t *testing.T) {
	a := domain.Attendee{Availability: []domain.Availability{
		{WeekendKey: "2023-07-01", IsAvailable: true},
		{WeekendKey: "2023-07-08", IsAvailable: false},
	}}

	assert.True(t, a.IsAvailable("2023-07-01"))
	assert.False(t, a.IsAvailable("2023-07-08"))
	assert.False(t, a.IsAvailable("2023-07-15"), "missing entry counts as unavailable")
}
