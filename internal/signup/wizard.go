package signup

import "errors"

var (
	// ErrNotOnFinalStep is returned when a submission is attempted before the
	// last page.
	ErrNotOnFinalStep = errors.New("signup: submit is only available on the last step")
	// ErrInFlight is returned while an earlier submission has not finished.
	ErrInFlight = errors.New("signup: submission already in flight")
	// ErrStepInvalid is returned when the current page fails validation.
	ErrStepInvalid = errors.New("signup: current step has invalid fields")
)

// Wizard is the state of one pass through the signup form. Every method takes
// and returns a value, so callers keep full control over which state is
// current.
type Wizard struct {
	Data       FormData
	Errors     FormErrors
	Step       Step
	Submitting bool
}

// NewWizard returns an empty wizard on the first page.
func NewWizard() Wizard {
	return Wizard{Errors: FormErrors{}, Step: StepAccountInfo}
}

// OnFieldChange stores raw under f and clears the field's error. The field is
// not re-validated until the next step transition or submission attempt.
func (w Wizard) OnFieldChange(f Field, raw string) Wizard {
	data, ok := w.Data.With(f, raw)
	if !ok {
		return w
	}
	w.Data = data
	w.Errors = w.Errors.Without(f)
	return w
}

// Next validates the current page and moves forward when it passes. On
// failure the step is unchanged and Errors holds the messages for display.
func (w Wizard) Next() Wizard {
	w.Errors = ValidateStep(w.Step, w.Data)
	if !w.Errors.Empty() {
		return w
	}
	if w.Step < LastStep {
		w.Step++
	}
	return w
}

// Back moves to the previous page without validating. It never goes below the
// first page.
func (w Wizard) Back() Wizard {
	if w.Step > StepAccountInfo {
		w.Step--
	}
	return w
}

// OnLastStep reports whether the submit action is available.
func (w Wizard) OnLastStep() bool {
	return w.Step == LastStep
}

// BeginSubmit re-validates the last page and raises the in-flight flag. The
// returned wizard always reflects the attempt: on ErrStepInvalid it carries the
// field errors.
func (w Wizard) BeginSubmit() (Wizard, error) {
	if w.Step != LastStep {
		return w, ErrNotOnFinalStep
	}
	if w.Submitting {
		return w, ErrInFlight
	}
	w.Errors = ValidateStep(w.Step, w.Data)
	if !w.Errors.Empty() {
		return w, ErrStepInvalid
	}
	w.Submitting = true
	return w, nil
}

// EndSubmit lowers the in-flight flag. Form data is left untouched.
func (w Wizard) EndSubmit() Wizard {
	w.Submitting = false
	return w
}
