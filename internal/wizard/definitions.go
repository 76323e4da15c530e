package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var ErrUnknownKind = errors.New("unknown form")

type Kind string

const (
	KindHelpRequest   Kind = "help-request"
	KindSOS           Kind = "sos"
	KindVolunteer     Kind = "volunteer"
	KindReliefRequest Kind = "relief-request"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{8,20}$`)

// contact validates single field values. The phone tag allows the spaced and
// bracketed numbers people type, which e164 rejects.
var contact = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validEmail accepts an address whose domain has a top-level part.
func validEmail(email string) bool {
	if contact.Var(email, "email") != nil {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	return contact.Var(domain, "fqdn") == nil
}

var DisasterTypes = []string{"Flood", "Earthquake", "Hurricane", "Wildfire", "Landslide", "Tsunami", "Other"}

type Definition struct {
	Kind   Kind
	Title  string
	Prefix string
	// Delay is the simulated processing time of a submission.
	Delay    time.Duration
	Fields   []string
	Defaults Fields
	Steps    []Step
	// SubmitRequired fields must hold a true value when submitting.
	SubmitRequired []string
	SubmitNotice   models.Notice
	// Success is shown once the submission has been accepted.
	Success models.Notice
}

func (d *Definition) hasField(name string) bool {
	return slices.Contains(d.Fields, name)
}

func (d *Definition) validate(f Fields) *ValidationError {
	for i, s := range d.Steps {
		if verr := s.check(f, i+1); verr != nil {
			return verr
		}
	}
	for _, name := range d.SubmitRequired {
		if !f.Bool(name) {
			return &ValidationError{Notice: d.SubmitNotice, Step: len(d.Steps), Missing: []string{name}}
		}
	}
	return nil
}

// Lookup returns the definition for kind.
func Lookup(kind Kind) (*Definition, error) {
	for _, d := range Definitions {
		if d.Kind == kind {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

var Definitions = []*Definition{HelpRequest, SOS, Volunteer, ReliefRequest}

var HelpRequest = &Definition{
	Kind:   KindHelpRequest,
	Title:  "Request Help",
	Prefix: "HLP",
	Delay:  1500 * time.Millisecond,
	Fields: []string{"name", "location", "disaster_type", "people_affected", "description"},
	Steps: []Step{
		{Name: "Info", Required: []string{"name", "location"}},
		{Name: "Details", Required: []string{"disaster_type", "people_affected"}, Validate: validateHelpDetails},
		{Name: "Submit", Required: []string{"description"}},
	},
	Success: models.Info("Help Request Submitted", "Your request has been sent to nearby relief teams."),
}

func validateHelpDetails(f Fields) *ValidationError {
	if !slices.Contains(DisasterTypes, f["disaster_type"]) {
		return Invalid("Invalid disaster type", "Please select a disaster type from the list.")
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f["people_affected"])); err != nil || n < 1 {
		return Invalid("Invalid number of people", "Please enter how many people are affected.")
	}
	return nil
}

var SOS = &Definition{
	Kind:   KindSOS,
	Title:  "Emergency SOS",
	Prefix: "SOS",
	Delay:  2 * time.Second,
	Fields: []string{"location", "phone", "description"},
	Steps: []Step{
		{Name: "Location", Required: []string{"location"}},
		{Name: "Contact", Required: []string{"phone"}},
		{Name: "Details", Required: []string{"description"}},
	},
	Success: models.Info("SOS Sent", "Emergency services have been notified of your situation."),
}

var Volunteer = &Definition{
	Kind:   KindVolunteer,
	Title:  "Volunteer Registration",
	Prefix: "VOL",
	Fields: []string{
		"first_name", "last_name", "email", "phone", "address", "city", "state", "zip_code",
		"skills", "availability", "experience", "transportation",
		"emergency_contact", "emergency_phone", "additional_info", "terms_accepted",
	},
	Steps: []Step{
		{Name: "Personal", Required: []string{"first_name", "last_name", "email", "phone"}, MissingNotice: &missingInformation},
		{Name: "Skills"},
		{Name: "Emergency Contact"},
	},
	SubmitRequired: []string{"terms_accepted"},
	SubmitNotice:   models.Destructive("Terms Not Accepted", "Please accept the terms and conditions to continue."),
	Success:        models.Info("Registration Successful!", "Thank you for volunteering. We'll contact you soon."),
}

var missingInformation = models.Destructive("Missing Information", "Please fill in all required fields to continue.")

var ReliefRequest = &Definition{
	Kind:   KindReliefRequest,
	Title:  "Request Relief",
	Prefix: "REQ",
	Delay:  2 * time.Second,
	Fields: []string{
		"relief_type", "urgency", "full_name", "phone", "email", "location", "address",
		"people_count", "special_needs", "special_needs_details", "description", "consent",
	},
	Defaults: Fields{"urgency": string(models.UrgencyMedium), "people_count": "1", "special_needs": "false", "consent": "false"},
	Steps: []Step{
		{
			Name:          "Relief Type",
			Required:      []string{"relief_type"},
			MissingNotice: &reliefTypeRequired,
			Validate:      validateReliefType,
		},
		{
			Name:     "Contact",
			Required: []string{"full_name", "phone", "location"},
			Validate: validateReliefContact,
		},
		{Name: "Details"},
	},
	SubmitRequired: []string{"consent"},
	SubmitNotice:   models.Destructive("Consent required", "Please agree to the terms and conditions to submit your request."),
	Success:        models.Info("Request submitted successfully", "Your relief request has been submitted."),
}

var reliefTypeRequired = models.Destructive("Relief type required", "Please select a relief type to continue.")

func validateReliefType(f Fields) *ValidationError {
	if _, ok := models.ReliefTypes[f["relief_type"]]; !ok {
		return Invalid("Relief type required", "Please select a relief type to continue.")
	}
	if _, err := models.ParseUrgency(f["urgency"]); err != nil {
		return Invalid("Invalid urgency", "Please select an urgency level.")
	}
	return nil
}

func validateReliefContact(f Fields) *ValidationError {
	if contact.Var(f["phone"], "required,phone") != nil {
		return Invalid("Invalid phone number", "Please enter a valid phone number.")
	}
	if email := f["email"]; email != "" && !validEmail(email) {
		return Invalid("Invalid email", "Please enter a valid email address.")
	}
	return nil
}
