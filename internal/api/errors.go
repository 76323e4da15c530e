package api

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-relief-coordinator/internal/classifier"
	"github.com/mr1hm/go-relief-coordinator/internal/geo"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/optimizer"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/tracking"
	"github.com/mr1hm/go-relief-coordinator/internal/triage"
	"github.com/mr1hm/go-relief-coordinator/internal/volunteer"
	"github.com/mr1hm/go-relief-coordinator/internal/wizard"
)

// nginx's code for a client that went away mid-request
const statusClientClosedRequest = 499

type errorResponse struct {
	Error   string         `json:"error"`
	Notice  *models.Notice `json:"notice,omitempty"`
	Step    int            `json:"step,omitempty"`
	Missing []string       `json:"missing,omitempty"`
}

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error) {
	var (
		verr *wizard.ValidationError
		gerr *geo.Error
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:   err.Error(),
			Notice:  &verr.Notice,
			Step:    verr.Step,
			Missing: verr.Missing,
		})
	case errors.As(err, &gerr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Notice: &gerr.Notice})

	case errors.Is(err, tracking.ErrIDRequired):
		n, _ := tracking.Notice(err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Notice: &n})
	case errors.Is(err, models.ErrInvalidSupplies),
		errors.Is(err, volunteer.ErrInvalidProfile):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})

	case errors.Is(err, repository.ErrNotFound):
		resp := errorResponse{Error: err.Error()}
		if n, ok := tracking.Notice(err); ok && isTrackingRoute(c) {
			resp.Notice = &n
		}
		c.JSON(http.StatusNotFound, resp)
	case errors.Is(err, wizard.ErrSessionNotFound),
		errors.Is(err, wizard.ErrUnknownKind):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, triage.ErrUnknownFilter),
		errors.Is(err, volunteer.ErrUnknownSort),
		errors.Is(err, volunteer.ErrUnknownOrder),
		errors.Is(err, volunteer.ErrUnknownWindow),
		errors.Is(err, volunteer.ErrInvalidHours),
		errors.Is(err, volunteer.ErrInvalidFlag),
		errors.Is(err, models.ErrUnknownVolunteerStatus),
		errors.Is(err, models.ErrUnknownUrgency),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, geo.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, classifier.ErrAlreadyRunning),
		errors.Is(err, volunteer.ErrTaskFull),
		errors.Is(err, wizard.ErrFirstStep),
		errors.Is(err, wizard.ErrLastStep),
		errors.Is(err, wizard.ErrNotLastStep),
		errors.Is(err, wizard.ErrSubmitting),
		errors.Is(err, wizard.ErrSubmitted):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, optimizer.ErrUnavailable),
		errors.Is(err, classifier.ErrClosed),
		errors.Is(err, wizard.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosedRequest)

	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isTrackingRoute(c *gin.Context) bool {
	p := c.FullPath()
	return p == "/api/relief" || p == "/api/relief/:id"
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
