package wizard

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var trackingPattern = regexp.MustCompile(`^REQ-\d{6}$`)

func fillRelief(t *testing.T, w *Wizard) {
	t.Helper()
	steps := []Fields{
		{"relief_type": "food"},
		{"full_name": "Asha Patil", "phone": "+91 98765 43210", "location": "Kurla West, Mumbai"},
	}
	for _, f := range steps {
		if err := w.SetAll(f); err != nil {
			t.Fatalf("SetAll: %v", err)
		}
		if err := w.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
}

func TestDefinitions_RequiredFieldsAreDeclared(t *testing.T) {
	for _, d := range Definitions {
		for _, s := range d.Steps {
			for _, name := range s.Required {
				if !d.hasField(name) {
					t.Errorf("%s step %q requires undeclared field %q", d.Kind, s.Name, name)
				}
			}
		}
		for _, name := range d.SubmitRequired {
			if !d.hasField(name) {
				t.Errorf("%s submit requires undeclared field %q", d.Kind, name)
			}
		}
		for name := range d.Defaults {
			if !d.hasField(name) {
				t.Errorf("%s default for undeclared field %q", d.Kind, name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	d, err := Lookup(KindReliefRequest)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if d.Prefix != "REQ" {
		t.Errorf("expected prefix REQ, got %s", d.Prefix)
	}
	if _, err := Lookup("payment"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestWizard_MissingFieldBlocksNext(t *testing.T) {
	w := New(ReliefRequest, nil)
	w.Set("relief_type", "medical")
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	w.Set("full_name", "Asha Patil")

	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Title != "Missing information" {
		t.Errorf("unexpected title %q", verr.Title)
	}
	if !slices.Equal(verr.Missing, []string{"phone", "location"}) {
		t.Errorf("unexpected missing fields %v", verr.Missing)
	}
	if verr.Variant != models.VariantDestructive {
		t.Errorf("expected destructive notice, got %s", verr.Variant)
	}

	st := w.State()
	if st.Step != 2 {
		t.Errorf("expected to stay on step 2, got %d", st.Step)
	}
	if st.Fields["full_name"] != "Asha Patil" || st.Fields["relief_type"] != "medical" {
		t.Errorf("entered values were lost: %v", st.Fields)
	}
}

func TestWizard_ReliefTypeRequired(t *testing.T) {
	w := New(ReliefRequest, nil)
	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Title != "Relief type required" {
		t.Errorf("unexpected title %q", verr.Title)
	}

	w.Set("relief_type", "teleportation")
	if err := w.Next(); !errors.As(err, &verr) {
		t.Errorf("expected unknown relief type to be rejected, got %v", err)
	}
}

func TestWizard_ContactValidation(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		email string
		title string
	}{
		{"valid", "(022) 2345-6789", "", ""},
		{"valid with email", "+919876543210", "asha@example.org", ""},
		{"short phone", "12345", "", "Invalid phone number"},
		{"letters in phone", "call me maybe", "", "Invalid phone number"},
		{"bad email", "+919876543210", "asha@example", "Invalid email"},
		{"email without user", "+919876543210", "@example.org", "Invalid email"},
		{"email with space", "+919876543210", "asha patil@example.org", "Invalid email"},
		{"double at", "+919876543210", "asha@@example.org", "Invalid email"},
		{"subdomain email", "+919876543210", "asha@relief.example.co.in", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(ReliefRequest, nil)
			w.Set("relief_type", "shelter")
			if err := w.Next(); err != nil {
				t.Fatalf("Next: %v", err)
			}
			w.SetAll(Fields{"full_name": "Asha", "phone": tt.phone, "email": tt.email, "location": "Dadar"})

			err := w.Next()
			if tt.title == "" {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Title != tt.title {
				t.Errorf("expected %q, got %v", tt.title, err)
			}
			if w.State().Step != 2 {
				t.Error("wizard advanced past invalid contact step")
			}
		})
	}
}

func TestWizard_BackKeepsValues(t *testing.T) {
	w := New(ReliefRequest, nil)
	if err := w.Back(); !errors.Is(err, ErrFirstStep) {
		t.Errorf("expected ErrFirstStep, got %v", err)
	}
	fillRelief(t, w)
	if err := w.Next(); !errors.Is(err, ErrLastStep) {
		t.Errorf("expected ErrLastStep, got %v", err)
	}
	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	st := w.State()
	if st.Step != 2 || st.StepName != "Contact" {
		t.Errorf("expected step 2 Contact, got %d %s", st.Step, st.StepName)
	}
	if st.Fields["phone"] != "+91 98765 43210" {
		t.Errorf("phone lost after Back: %v", st.Fields)
	}
}

func TestWizard_UnknownField(t *testing.T) {
	w := New(SOS, nil)
	if err := w.Set("card_number", "4111"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if err := w.SetAll(Fields{"location": "Andheri", "card_number": "4111"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if got := w.State().Fields["location"]; got != "" {
		t.Errorf("rejected batch was partially applied: %q", got)
	}
}

func TestWizard_Defaults(t *testing.T) {
	w := New(ReliefRequest, nil)
	st := w.State()
	if st.Fields["urgency"] != "medium" || st.Fields["people_count"] != "1" {
		t.Errorf("unexpected defaults %v", st.Fields)
	}
	w.Set("urgency", "critical")
	if ReliefRequest.Defaults["urgency"] != "medium" {
		t.Error("editing a wizard changed the definition defaults")
	}
}

func TestWizard_SubmitRequiresConsent(t *testing.T) {
	p := NewProcessor(WithDelay(0))
	defer p.Close()

	w := New(ReliefRequest, nil)
	if _, err := w.Submit(context.Background(), p); !errors.Is(err, ErrNotLastStep) {
		t.Errorf("expected ErrNotLastStep, got %v", err)
	}
	fillRelief(t, w)

	_, err := w.Submit(context.Background(), p)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Title != "Consent required" {
		t.Fatalf("expected consent error, got %v", err)
	}
	if w.State().Status != StatusEditing {
		t.Errorf("expected editing status, got %s", w.State().Status)
	}
}

func TestWizard_SubmitReliefRequest(t *testing.T) {
	store := repository.NewMemoryStore(repository.Catalog{})
	b := events.NewBroadcaster()
	defer b.Close()
	subID, ch := b.Subscribe()
	defer b.Unsubscribe(subID)

	p := NewProcessor(WithDelay(0), WithRecorder(ReliefRecorder{Repo: store}), WithPublisher(b))
	defer p.Close()

	w := New(ReliefRequest, nil)
	fillRelief(t, w)
	w.SetAll(Fields{"consent": "true", "special_needs": "on", "people_count": "4"})

	id, err := w.Submit(context.Background(), p)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !trackingPattern.MatchString(id) {
		t.Errorf("unexpected tracking id %q", id)
	}

	st := w.State()
	if st.Status != StatusSubmitted || st.TrackingID != id {
		t.Errorf("unexpected state %+v", st)
	}
	if err := w.Set("phone", "000"); !errors.Is(err, ErrSubmitted) {
		t.Errorf("expected ErrSubmitted, got %v", err)
	}

	req, err := store.GetRequest(context.Background(), id)
	if err != nil {
		t.Fatalf("submitted request not stored: %v", err)
	}
	if req.Type != "food" || req.Urgency != models.UrgencyMedium || req.PeopleCount != 4 || !req.SpecialNeeds {
		t.Errorf("unexpected stored request %+v", req)
	}
	if req.Status != models.ReliefSubmitted || len(req.Timeline) != 1 {
		t.Errorf("expected one submitted timeline entry, got %+v", req.Timeline)
	}

	select {
	case e := <-ch:
		if e.Type != events.FormSubmitted {
			t.Errorf("unexpected event %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Error("no submission event published")
	}

	w.Reset()
	if st := w.State(); st.Step != 1 || st.TrackingID != "" || st.Fields["relief_type"] != "" {
		t.Errorf("Reset left state behind: %+v", st)
	}
}

func TestWizard_VolunteerTerms(t *testing.T) {
	p := NewProcessor(WithDelay(0))
	defer p.Close()

	w := New(Volunteer, nil)
	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Title != "Missing Information" {
		t.Fatalf("expected missing information, got %v", err)
	}
	w.SetAll(Fields{"first_name": "Rahul", "last_name": "Sharma", "email": "rahul@example.org", "phone": "9876543210"})
	w.Next()
	w.Next()

	if _, err := w.Submit(context.Background(), p); !errors.As(err, &verr) || verr.Title != "Terms Not Accepted" {
		t.Fatalf("expected terms error, got %v", err)
	}
	w.Set("terms_accepted", "true")
	id, err := w.Submit(context.Background(), p)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !regexp.MustCompile(`^VOL-\d{6}$`).MatchString(id) {
		t.Errorf("unexpected id %q", id)
	}
}

func TestWizard_HelpRequestDetails(t *testing.T) {
	w := New(HelpRequest, nil)
	w.SetAll(Fields{"name": "Meera", "location": "Sion"})
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	w.SetAll(Fields{"disaster_type": "Meteor", "people_affected": "3"})
	var verr *ValidationError
	if err := w.Next(); !errors.As(err, &verr) || verr.Title != "Invalid disaster type" {
		t.Errorf("expected invalid disaster type, got %v", err)
	}
	w.Set("disaster_type", "Flood")
	if err := w.Next(); err != nil {
		t.Errorf("Next: %v", err)
	}
}

func TestWizard_SubmitCanceled(t *testing.T) {
	store := repository.NewMemoryStore(repository.Catalog{})
	p := NewProcessor(WithDelay(time.Hour), WithRecorder(ReliefRecorder{Repo: store}))
	defer p.Close()

	w := New(ReliefRequest, nil)
	fillRelief(t, w)
	w.Set("consent", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := w.Submit(ctx, p); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if st := w.State(); st.Status != StatusEditing || st.TrackingID != "" {
		t.Errorf("canceled submit changed state: %+v", st)
	}
}

func TestProcessor_Closed(t *testing.T) {
	p := NewProcessor(WithDelay(0))
	p.Close()

	_, err := p.Submit(context.Background(), Submission{Kind: KindSOS, Fields: Fields{}})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestProcessor_UnknownKind(t *testing.T) {
	p := NewProcessor(WithDelay(0))
	defer p.Close()

	if _, err := p.Submit(context.Background(), Submission{Kind: "payment"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestProcessor_DistinctIDs(t *testing.T) {
	p := NewProcessor(WithDelay(0), WithWorkers(4, 10))
	defer p.Close()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := p.Submit(context.Background(), Submission{Kind: KindReliefRequest, Fields: Fields{}})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if !trackingPattern.MatchString(id) {
			t.Errorf("unexpected id %q", id)
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIDs_SkipIssuedAndReserved(t *testing.T) {
	draws := []int{23456, 23456, 11111, 99999}
	ids := &IDs{issued: make(map[string]struct{}), intn: func(int) int {
		n := draws[0]
		draws = draws[1:]
		return n
	}}
	ids.Reserve("REQ-111111")

	if got := ids.Next("REQ"); got != "REQ-123456" {
		t.Errorf("expected REQ-123456, got %s", got)
	}
	if got := ids.Next("REQ"); got != "REQ-199999" {
		t.Errorf("expected collisions to be skipped, got %s", got)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(nil)

	if _, _, err := m.Create("payment"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	id, w, err := m.Create(KindSOS)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := m.Get(KindSOS, id.String())
	if err != nil || got != w {
		t.Fatalf("Get returned %v, %v", got, err)
	}
	if _, err := m.Get(KindVolunteer, id.String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected kind mismatch to be not found, got %v", err)
	}
	if _, err := m.Get(KindSOS, "not-a-uuid"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	m.Delete(id.String())
	if m.Len() != 0 {
		t.Errorf("expected no sessions, got %d", m.Len())
	}
}
