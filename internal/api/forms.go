package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-relief-coordinator/internal/geo"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/wizard"
)

type formResponse struct {
	ID    string       `json:"id"`
	State wizard.State `json:"state"`
}

type submitResponse struct {
	TrackingID string        `json:"tracking_id"`
	Notice     models.Notice `json:"notice"`
	State      wizard.State  `json:"state"`
}

func (h *Handler) createForm(c *gin.Context) {
	id, w, err := h.Forms.Create(wizard.Kind(c.Param("kind")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, formResponse{ID: id.String(), State: w.State()})
}

func (h *Handler) form(c *gin.Context) (*wizard.Wizard, bool) {
	w, err := h.Forms.Get(wizard.Kind(c.Param("kind")), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return w, true
}

func (h *Handler) getForm(c *gin.Context) {
	w, ok := h.form(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, formResponse{ID: c.Param("id"), State: w.State()})
}

func (h *Handler) setFormFields(c *gin.Context) {
	w, ok := h.form(c)
	if !ok {
		return
	}
	var fields wizard.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := w.SetAll(fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{ID: c.Param("id"), State: w.State()})
}

func (h *Handler) nextStep(c *gin.Context) {
	h.step(c, (*wizard.Wizard).Next)
}

func (h *Handler) prevStep(c *gin.Context) {
	h.step(c, (*wizard.Wizard).Back)
}

func (h *Handler) step(c *gin.Context, move func(*wizard.Wizard) error) {
	w, ok := h.form(c)
	if !ok {
		return
	}
	if err := move(w); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{ID: c.Param("id"), State: w.State()})
}

// setFormLocation fills the location field from a device position report.
func (h *Handler) setFormLocation(c *gin.Context) {
	w, ok := h.form(c)
	if !ok {
		return
	}
	var report geo.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	loc, err := geo.Resolve(report)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := w.Set("location", loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{ID: c.Param("id"), State: w.State()})
}

// submitForm blocks for the form's processing delay. Abandoning the request
// abandons the submission.
func (h *Handler) submitForm(c *gin.Context) {
	w, ok := h.form(c)
	if !ok {
		return
	}
	trackingID, err := w.Submit(c.Request.Context(), h.Submitter)
	if err != nil {
		respondError(c, err)
		return
	}

	def, _ := wizard.Lookup(w.Kind())
	notice := def.Success
	if w.Kind() == wizard.KindReliefRequest {
		notice.Description += " Your request ID is " + trackingID + "."
	}
	c.JSON(http.StatusOK, submitResponse{TrackingID: trackingID, Notice: notice, State: w.State()})
}

func (h *Handler) deleteForm(c *gin.Context) {
	if _, ok := h.form(c); !ok {
		return
	}
	h.Forms.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}
