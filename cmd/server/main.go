package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/arnavshah/rostergen-go/pkg/auth"
	"github.com/arnavshah/rostergen-go/pkg/config"
	"github.com/arnavshah/rostergen-go/pkg/database"
	"github.com/arnavshah/rostergen-go/pkg/engine"
	"github.com/arnavshah/rostergen-go/pkg/handlers"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	settings, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("could not load scheduler config: %v", err)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	store := database.NewStore(db)
	generator := engine.New(store, settings)
	h := &handlers.Handler{DB: db, Store: store, Generator: generator}

	r := gin.Default()

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "RosterGen Schedule API",
			"version": "1.3.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Scheduler Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/generate", h.GenerateSchedule)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)

		api.GET("/templates", h.ListTemplates)
		api.POST("/templates", h.CreateTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)

		api.GET("/workers", h.ListWorkers)
		api.POST("/workers", h.CreateWorker)
		api.DELETE("/workers/:id", h.DeleteWorker)

		api.GET("/recurring", h.ListRecurring)
		api.POST("/recurring", h.CreateRecurring)
		api.DELETE("/recurring/:id", h.DeleteRecurring)

		api.GET("/operating-hours", h.ListOperatingHours)
		api.PUT("/operating-hours", h.SetOperatingHours)
	}

	startAutoGenerate(generator)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

// startAutoGenerate schedules unattended weekly generation when
// AUTO_GENERATE_CRON is set. Each firing generates next week's schedule for
// every location in AUTO_GENERATE_LOCATIONS.
func startAutoGenerate(generator *engine.Generator) {
	spec := os.Getenv("AUTO_GENERATE_CRON")
	if spec == "" {
		return
	}
	locations := strings.Split(os.Getenv("AUTO_GENERATE_LOCATIONS"), ",")

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		weekStart := nextMonday(time.Now().UTC())
		for _, loc := range locations {
			loc = strings.TrimSpace(loc)
			if loc == "" {
				continue
			}
			result, err := generator.GenerateWeeklySchedule(context.Background(), loc, weekStart, "")
			if err != nil {
				log.Printf("auto-generate %s week %s failed: %v", loc, weekStart.Format("2006-01-02"), err)
				continue
			}
			log.Printf("auto-generate %s week %s: %d shifts, %d warnings, %d unassigned templates",
				loc, weekStart.Format("2006-01-02"), len(result.Shifts), len(result.Warnings), len(result.UnassignedTemplates))
		}
	})
	if err != nil {
		log.Fatalf("invalid AUTO_GENERATE_CRON %q: %v", spec, err)
	}
	c.Start()
	log.Printf("auto-generation scheduled: %s (%d locations)", spec, len(locations))
}

// nextMonday returns the Monday strictly after t, at midnight UTC.
func nextMonday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
