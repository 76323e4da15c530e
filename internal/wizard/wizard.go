// Package wizard implements the multi-step intake forms: help requests,
// SOS reports, volunteer registration and relief requests.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFirstStep    = errors.New("already on first step")
	ErrLastStep     = errors.New("already on last step")
	ErrNotLastStep  = errors.New("submit is only allowed on the last step")
	ErrSubmitting   = errors.New("submission in progress")
	ErrSubmitted    = errors.New("form already submitted")
)

type Fields map[string]string

// Bool reports whether field name holds a true value ("true", "1", "on").
func (f Fields) Bool(name string) bool {
	v := strings.TrimSpace(f[name])
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func (f Fields) missing(names []string) []string {
	var out []string
	for _, n := range names {
		if strings.TrimSpace(f[n]) == "" {
			out = append(out, n)
		}
	}
	return out
}

// ValidationError blocks a step transition or a submit. The wizard keeps
// its fields and current step.
type ValidationError struct {
	models.Notice
	Step    int      `json:"step"`
	Missing []string `json:"missing,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("step %d: %s: missing %s", e.Step, e.Title, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("step %d: %s", e.Step, e.Title)
}

// Invalid builds a ValidationError for checks beyond required fields.
func Invalid(title, description string) *ValidationError {
	return &ValidationError{Notice: models.Destructive(title, description)}
}

type Step struct {
	Name     string
	Required []string
	// Validate runs after the required check passes.
	Validate func(Fields) *ValidationError
	// MissingNotice replaces the generic notice when a required field is empty.
	MissingNotice *models.Notice
}

func (s Step) check(f Fields, n int) *ValidationError {
	if missing := f.missing(s.Required); len(missing) > 0 {
		notice := models.Destructive("Missing information", "Please fill in all required fields to continue.")
		if s.MissingNotice != nil {
			notice = *s.MissingNotice
		}
		return &ValidationError{Notice: notice, Step: n, Missing: missing}
	}
	if s.Validate != nil {
		if verr := s.Validate(f); verr != nil {
			verr.Step = n
			return verr
		}
	}
	return nil
}

type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// Submitter turns a complete form into a tracking identifier.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (string, error)
}

type Submission struct {
	Kind   Kind
	Fields Fields
}

type State struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Step       int    `json:"step"`
	Steps      int    `json:"steps"`
	StepName   string `json:"step_name"`
	Fields     Fields `json:"fields"`
	Status     Status `json:"status"`
	TrackingID string `json:"tracking_id,omitempty"`
}

// Wizard is a linear form: Next validates the current step before
// advancing, Back never validates, Submit only works on the last step.
type Wizard struct {
	def     *Definition
	metrics *metrics.Metrics

	mu         sync.Mutex
	fields     Fields
	step       int // 1-based
	status     Status
	trackingID string
}

func New(def *Definition, m *metrics.Metrics) *Wizard {
	w := &Wizard{def: def, metrics: m}
	w.reset()
	return w
}

func (w *Wizard) reset() {
	w.fields = maps.Clone(w.def.Defaults)
	if w.fields == nil {
		w.fields = Fields{}
	}
	w.step = 1
	w.status = StatusEditing
	w.trackingID = ""
}

func (w *Wizard) Kind() Kind { return w.def.Kind }

// Set stores a field value. Only fields declared by the definition are
// accepted, and only while the form is being edited.
func (w *Wizard) Set(name, value string) error {
	if !w.def.hasField(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.fields[name] = value
	return nil
}

// SetAll applies every value in f, rejecting the whole batch if any field
// is unknown.
func (w *Wizard) SetAll(f Fields) error {
	for name := range f {
		if !w.def.hasField(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	maps.Copy(w.fields, f)
	return nil
}

func (w *Wizard) editable() error {
	switch w.status {
	case StatusSubmitting:
		return ErrSubmitting
	case StatusSubmitted:
		return ErrSubmitted
	}
	return nil
}

func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	if w.step == len(w.def.Steps) {
		return ErrLastStep
	}
	if verr := w.def.Steps[w.step-1].check(w.fields, w.step); verr != nil {
		w.reject()
		return verr
	}
	w.step++
	return nil
}

func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	if w.step == 1 {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// Submit validates every step plus the submit-only fields, then hands the
// form to s. The lock is not held while s runs, so State stays readable
// and reports StatusSubmitting. On failure the form returns to editing.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (string, error) {
	w.mu.Lock()
	if err := w.editable(); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if w.step != len(w.def.Steps) {
		w.mu.Unlock()
		return "", ErrNotLastStep
	}
	if verr := w.def.validate(w.fields); verr != nil {
		w.reject()
		w.mu.Unlock()
		return "", verr
	}
	w.status = StatusSubmitting
	sub := Submission{Kind: w.def.Kind, Fields: maps.Clone(w.fields)}
	w.mu.Unlock()

	id, err := s.Submit(ctx, sub)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.status = StatusEditing
		return "", err
	}
	w.status = StatusSubmitted
	w.trackingID = id
	return id, nil
}

// Reset clears the form back to its defaults on the first step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusSubmitting {
		return
	}
	w.reset()
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Kind:       w.def.Kind,
		Title:      w.def.Title,
		Step:       w.step,
		Steps:      len(w.def.Steps),
		StepName:   w.def.Steps[w.step-1].Name,
		Fields:     maps.Clone(w.fields),
		Status:     w.status,
		TrackingID: w.trackingID,
	}
}

func (w *Wizard) reject() {
	if w.metrics != nil {
		w.metrics.FormRejections.WithLabelValues(string(w.def.Kind)).Inc()
	}
}
