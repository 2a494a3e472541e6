package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// Reference-data endpoints for operators: templates, workers, recurring
// preferences, and operating hours. The generation engine only reads these.

// ListTemplates returns the shift templates for a location
func (h *Handler) ListTemplates(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}
	templates, err := h.Store.LoadTemplates(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate creates a shift template
func (h *Handler) CreateTemplate(c *gin.Context) {
	var t models.ShiftTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if t.LocationID == "" || t.Position == "" || len(t.Weekdays) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id, position and weekdays are required"})
		return
	}
	for _, d := range t.Weekdays {
		if d.Index() < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown weekday: " + string(d)})
			return
		}
	}
	created, err := h.Store.CreateTemplate(c.Request.Context(), t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": created})
}

// DeleteTemplate removes a shift template
func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.Store.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// ListWorkers returns all workers
func (h *Handler) ListWorkers(c *gin.Context) {
	workers, err := h.Store.LoadWorkers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// CreateWorker creates a worker
func (h *Handler) CreateWorker(c *gin.Context) {
	var w models.Worker
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if w.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	created, err := h.Store.CreateWorker(c.Request.Context(), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create worker"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": created})
}

// DeleteWorker removes a worker
func (h *Handler) DeleteWorker(c *gin.Context) {
	if err := h.Store.DeleteWorker(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete worker"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted"})
}

// ListRecurring returns the standing preferences for a location
func (h *Handler) ListRecurring(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}
	recurring, err := h.Store.LoadRecurring(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_assignments": recurring})
}

// CreateRecurring creates a standing preference
func (h *Handler) CreateRecurring(c *gin.Context) {
	var r models.RecurringShiftAssignment
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if r.WorkerID == "" || r.LocationID == "" || r.Position == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "worker_id, location_id and position are required"})
		return
	}
	if r.Weekday.Index() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown weekday: " + string(r.Weekday)})
		return
	}
	if !r.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be lead, regular or training"})
		return
	}
	created, err := h.Store.CreateRecurring(c.Request.Context(), r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create recurring assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_assignment": created})
}

// DeleteRecurring removes a standing preference
func (h *Handler) DeleteRecurring(c *gin.Context) {
	if err := h.Store.DeleteRecurring(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete recurring assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recurring assignment deleted"})
}

// SetOperatingHours upserts the morning/afternoon cutoff for a weekday
func (h *Handler) SetOperatingHours(c *gin.Context) {
	var oh models.OperatingHours
	if err := c.ShouldBindJSON(&oh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if oh.LocationID == "" || oh.Weekday.Index() < 0 || oh.MorningCutoff == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id, weekday and morning_cutoff are required"})
		return
	}
	if err := h.Store.SetOperatingHours(c.Request.Context(), oh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save operating hours"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Operating hours saved"})
}

// ListOperatingHours returns the cutoffs for a location
func (h *Handler) ListOperatingHours(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}
	hours, err := h.Store.LoadOperatingHours(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operating_hours": hours})
}
