package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/rostergen-go/pkg/auth"
	"github.com/arnavshah/rostergen-go/pkg/database"
	"github.com/arnavshah/rostergen-go/pkg/engine"
	"github.com/arnavshah/rostergen-go/pkg/models"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB        *gorm.DB
	Store     *database.Store
	Generator *engine.Generator
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for scheduler routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		name, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      name,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Next()
	}
}

// GenerateSchedule runs the weekly generation pipeline for one location/week
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weekStart, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be formatted 2006-01-02"})
		return
	}
	if weekStart.Weekday() != time.Monday {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be a Monday"})
		return
	}

	result, err := h.Generator.GenerateWeeklySchedule(c.Request.Context(), req.LocationID, weekStart, req.ExcludeWorkerID)
	if err != nil {
		// Fatal: prerequisites or persistence. Warnings gathered so far are
		// kept for diagnostics.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":  false,
			"error":    err.Error(),
			"warnings": result.Warnings,
		})
		return
	}

	h.RecordUsage(c, len(result.Shifts), len(result.Warnings))

	c.JSON(http.StatusOK, result)
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, shiftCount, warningCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_shifts":   gorm.Expr("total_shifts + ?", shiftCount),
			"total_warnings": gorm.Expr("total_warnings + ?", warningCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:         apiKey.ID,
		Date:          today,
		RequestCount:  1,
		TotalShifts:   shiftCount,
		TotalWarnings: warningCount,
	})
}

// ValidateInput checks reference data for a location before a generation run
func (h *Handler) ValidateInput(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "location_id is required"})
		return
	}

	ctx := c.Request.Context()
	templates, err := h.Store.LoadTemplates(ctx, locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
		return
	}
	if len(templates) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "No shift templates exist for this location"})
		return
	}

	workers, err := h.Store.LoadWorkers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
		return
	}
	schedulable := 0
	for i := range workers {
		w := &workers[i]
		if !w.Inactive && !w.IsManager && w.AssignedTo(locationID) {
			schedulable++
		}
	}
	if schedulable == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "No schedulable workers for this location"})
		return
	}

	// Recurring preferences that no template can satisfy are the most
	// common operator mistake; flag them up front.
	recurring, err := h.Store.LoadRecurring(ctx, locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
		return
	}
	unmatched := 0
	for i := range recurring {
		rec := &recurring[i]
		found := false
		for j := range templates {
			t := &templates[j]
			if t.Position == rec.Position && t.AppliesOn(rec.Weekday) &&
				t.StartTime == rec.StartTime && t.EndTime == rec.EndTime {
				found = true
				break
			}
		}
		if !found {
			unmatched++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"template_count":      len(templates),
			"schedulable_workers": schedulable,
			"recurring_count":     len(recurring),
			"unmatched_recurring": unmatched,
		},
	})
}
