// Package geo turns a client-reported device position into the location
// text used by the forms.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDenied      Reason = "denied"
	ReasonUnavailable Reason = "unavailable"
	ReasonTimeout     Reason = "timeout"
	ReasonUnsupported Reason = "unsupported"
)

// Report is what the client sends after asking the device for a position:
// either coordinates or the reason it got none.
type Report struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     Reason   `json:"error,omitempty"`
}

// Error is a failed detection. The user is asked to type the location in.
type Error struct {
	models.Notice
	Reason Reason
}

func (e *Error) Error() string {
	return fmt.Sprintf("location detection: %s", e.Reason)
}

var (
	noticeFailed      = models.Destructive("Location Detection Failed", "Please enter your location manually.")
	noticeUnsupported = models.Destructive("Geolocation Not Supported", "Your browser doesn't support location detection.")
)

// Resolve formats a reported position as "lat, lon" with five decimals.
// There is no retry and no fallback lookup.
func Resolve(r Report) (string, error) {
	switch r.Error {
	case ReasonNone:
	case ReasonUnsupported:
		return "", &Error{Notice: noticeUnsupported, Reason: r.Error}
	default:
		// denied, unavailable, timeout and anything unrecognized
		return "", &Error{Notice: noticeFailed, Reason: r.Error}
	}

	if r.Latitude == nil || r.Longitude == nil {
		return "", fmt.Errorf("%w: missing latitude or longitude", ErrInvalidCoordinates)
	}
	lat, lon := *r.Latitude, *r.Longitude
	if !Valid(lat, lon) {
		return "", fmt.Errorf("%w: %v, %v", ErrInvalidCoordinates, lat, lon)
	}
	return Format(lat, lon), nil
}

func Valid(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func Format(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}
