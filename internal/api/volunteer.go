package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/volunteer"
)

func (h *Handler) trackRelief(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	req, err := h.Tracker.Track(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) getTasks(c *gin.Context) {
	q, err := taskQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	tasks, err := h.Volunteers.Tasks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func taskQuery(c *gin.Context) (volunteer.Query, error) {
	q := volunteer.Query{
		Search: c.Query("q"),
		City:   c.Query("city"),
		Skill:  c.Query("skill"),
	}
	var err error
	if u := c.Query("urgency"); u != "" && u != "all" {
		if q.Urgency, err = models.ParseUrgency(u); err != nil {
			return q, err
		}
	}
	if q.City == "all" {
		q.City = ""
	}
	if q.Skill == "all" {
		q.Skill = ""
	}
	if q.Window, err = volunteer.ParseWindow(c.Query("date")); err != nil {
		return q, err
	}
	if q.SortBy, err = volunteer.ParseSortField(c.Query("sort")); err != nil {
		return q, err
	}
	if q.Order, err = volunteer.ParseOrder(c.Query("order")); err != nil {
		return q, err
	}
	if q.MinHours, err = volunteer.ParseHours(c.Query("min_hours")); err != nil {
		return q, err
	}
	if q.MaxHours, err = volunteer.ParseHours(c.Query("max_hours")); err != nil {
		return q, err
	}
	if q.OnlyAvailable, err = volunteer.ParseFlag(c.Query("available")); err != nil {
		return q, err
	}
	return q, nil
}

func (h *Handler) getRoster(c *gin.Context) {
	status, err := volunteer.ParseRosterStatus(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	roster, err := h.Volunteers.Roster(c.Request.Context(), volunteer.RosterQuery{Search: c.Query("q"), Status: status})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *Handler) signUp(c *gin.Context) {
	t, err := h.Volunteers.SignUp(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "notice": volunteer.NoticeSignedUp})
}

func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.Volunteers.Profile(c.Request.Context(), h.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "initials": p.Initials()})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var u volunteer.ProfileUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	p, err := h.Volunteers.UpdateProfile(c.Request.Context(), h.ProfileID, u)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "notice": volunteer.NoticeProfileUpdated})
}
