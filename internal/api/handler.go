package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-relief-coordinator/internal/classifier"
	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/optimizer"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/tracking"
	"github.com/mr1hm/go-relief-coordinator/internal/triage"
	"github.com/mr1hm/go-relief-coordinator/internal/volunteer"
	"github.com/mr1hm/go-relief-coordinator/internal/wizard"
)

const (
	defaultDisasterLimit = 20
	maxDisasterLimit     = 500
)

// Deps are the services the handlers read from and drive.
type Deps struct {
	Store       repository.Store
	Classifiers map[string]*classifier.Classifier
	Optimizer   *optimizer.Optimizer
	Forms       *wizard.Manager
	Submitter   wizard.Submitter
	Tracker     *tracking.Tracker
	Volunteers  *volunteer.Service
	Events      *events.Broadcaster
	Metrics     *metrics.Metrics
	// ProfileID is the signed-in volunteer; there is no real authentication.
	ProfileID string
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.ProfileID == "" {
		d.ProfileID = repository.DefaultProfileID
	}
	return &Handler{Deps: d}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/alerts", h.getAlerts)
	api.GET("/alerts/intake", h.getIntake)
	api.GET("/alerts/:id", h.getAlert)

	api.GET("/classifiers", h.listClassifiers)
	api.GET("/classifiers/:name", h.getClassifier)
	api.POST("/classifiers/:name/start", h.startClassifier)

	api.GET("/disasters", h.getDisasters)
	api.GET("/disasters/summary", h.getSummary)
	api.GET("/disasters/:id", h.getDisaster)
	api.GET("/disasters/:id/optimize", h.getOptimizeStatus)
	api.POST("/disasters/:id/optimize", h.optimize)

	api.GET("/relief-map", h.getReliefMap)

	forms := api.Group("/forms/:kind")
	forms.POST("", h.createForm)
	forms.GET("/:id", h.getForm)
	forms.PATCH("/:id/fields", h.setFormFields)
	forms.POST("/:id/next", h.nextStep)
	forms.POST("/:id/back", h.prevStep)
	forms.POST("/:id/location", h.setFormLocation)
	forms.POST("/:id/submit", h.submitForm)
	forms.DELETE("/:id", h.deleteForm)

	api.GET("/relief", h.trackRelief)
	api.GET("/relief/:id", h.trackRelief)

	api.GET("/volunteer/tasks", h.getTasks)
	api.POST("/volunteer/tasks/:id/signup", h.signUp)
	api.GET("/volunteer/profile", h.getProfile)
	api.PATCH("/volunteer/profile", h.updateProfile)
	api.GET("/volunteer/roster", h.getRoster)

	api.GET("/events", h.streamEvents)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getAlerts(c *gin.Context) {
	filter, err := triage.ParseFilter(c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}

	alerts, err := h.Store.ListAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.AlertQueries.WithLabelValues(string(filter)).Inc()
	}
	c.JSON(http.StatusOK, triage.Present(alerts, filter))
}

func (h *Handler) getAlert(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	alert, err := h.Store.GetAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) getIntake(c *gin.Context) {
	alerts, err := h.Store.ListIntake(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, triage.GroupByStatus(triage.Search(alerts, c.Query("q"))))
}

func (h *Handler) listClassifiers(c *gin.Context) {
	out := make([]classifier.Snapshot, 0, len(h.Classifiers))
	for _, name := range sortedKeys(h.Classifiers) {
		out = append(out, h.Classifiers[name].Snapshot())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) classifier(c *gin.Context) (*classifier.Classifier, bool) {
	cl, ok := h.Classifiers[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown classifier"})
		return nil, false
	}
	return cl, true
}

func (h *Handler) getClassifier(c *gin.Context) {
	cl, ok := h.classifier(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cl.Snapshot())
}

func (h *Handler) startClassifier(c *gin.Context) {
	cl, ok := h.classifier(c)
	if !ok {
		return
	}
	// The run outlives this request; Close on shutdown stops it.
	if err := cl.Start(context.WithoutCancel(c.Request.Context())); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, cl.Snapshot())
}

func (h *Handler) getDisasters(c *gin.Context) {
	filter := repository.Filter{
		Query: c.Query("q"),
		Limit: defaultDisasterLimit,
	}
	if s := c.Query("severity"); s != "" {
		sev, err := models.ParseSeverity(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		filter.Severity = &sev
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxDisasterLimit {
			filter.Limit = lim
		}
	}

	disasters, err := h.Store.ListDisasters(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, disasters)
}

func (h *Handler) getDisaster(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	d, err := h.Store.GetDisaster(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) getSummary(c *gin.Context) {
	s, err := h.Optimizer.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) getOptimizeStatus(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "pending": h.Optimizer.Pending(id)})
}

// optimize blocks for the optimization delay and returns the updated record.
func (h *Handler) optimize(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	d, err := h.Optimizer.Optimize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) getReliefMap(c *gin.Context) {
	zones, err := h.Store.ListZones(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(zones))
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
