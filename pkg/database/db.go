package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Worker represents the workers table. Set-valued fields (positions,
// locations, availability) are stored pipe-delimited; the Store converts
// them to and from the domain representation.
type Worker struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	JobLevel     int    `json:"job_level"`
	IsLead       bool   `json:"is_lead"`
	Inactive     bool   `json:"inactive"`
	IsManager    bool   `json:"is_manager"`
	Positions    string `json:"positions"`    // "barista|prep"
	Locations    string `json:"locations"`    // "downtown|harbor"
	Availability string `json:"availability"` // "monday:morning|tuesday:all_day"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShiftTemplate represents the shift_templates table.
type ShiftTemplate struct {
	ID              string `gorm:"primaryKey" json:"id"`
	LocationID      string `gorm:"index;not null" json:"location_id"`
	Position        string `gorm:"not null" json:"position"`
	Weekdays        string `gorm:"not null" json:"weekdays"` // "monday|tuesday"
	StartTime       string `gorm:"not null" json:"start_time"`
	EndTime         string `gorm:"not null" json:"end_time"`
	LeadDesignation string `json:"lead_designation"`
	PairTag         string `json:"pair_tag"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecurringAssignment represents the recurring_assignments table.
type RecurringAssignment struct {
	ID         string `gorm:"primaryKey" json:"id"`
	WorkerID   string `gorm:"index;not null" json:"worker_id"`
	Weekday    string `gorm:"not null" json:"weekday"`
	LocationID string `gorm:"index;not null" json:"location_id"`
	Position   string `gorm:"not null" json:"position"`
	StartTime  string `gorm:"not null" json:"start_time"`
	EndTime    string `gorm:"not null" json:"end_time"`
	Type       string `gorm:"not null" json:"type"`
	CreatedAt  time.Time
}

// OperatingHours represents the operating_hours table.
type OperatingHours struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	LocationID    string `gorm:"uniqueIndex:idx_location_weekday;not null" json:"location_id"`
	Weekday       string `gorm:"uniqueIndex:idx_location_weekday;not null" json:"weekday"`
	MorningCutoff string `gorm:"not null" json:"morning_cutoff"`
}

// ScheduledShift represents the scheduled_shifts table.
type ScheduledShift struct {
	ID                   string `gorm:"primaryKey" json:"id"`
	Date                 string `gorm:"index;not null" json:"date"` // "2006-01-02"
	TemplateID           string `gorm:"index" json:"template_id"`
	LocationID           string `gorm:"index;not null" json:"location_id"`
	Position             string `json:"position"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	IsRecurringGenerated bool   `json:"is_recurring_generated"`
	CreatedAt            time.Time
}

// ShiftAssignment represents the shift_assignments table.
type ShiftAssignment struct {
	ID             string  `gorm:"primaryKey" json:"id"`
	ShiftID        string  `gorm:"index;not null" json:"shift_id"`
	WorkerID       string  `gorm:"index;not null" json:"worker_id"`
	Type           string  `gorm:"not null" json:"type"`
	ManualOverride bool    `json:"manual_override"`
	AssignedStart  *string `json:"assigned_start"`
	AssignedEnd    *string `json:"assigned_end"`
	CreatedAt      time.Time
}

// APIKey represents the api_keys table.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table.
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalShifts   int    `gorm:"default:0" json:"total_shifts"`
	TotalWarnings int    `gorm:"default:0" json:"total_warnings"`
}

// MasterUser represents the master_users table.
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects Postgres; otherwise a SQLite file at DATA_PATH is
// used.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "rostergen.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(
		&Worker{}, &ShiftTemplate{}, &RecurringAssignment{}, &OperatingHours{},
		&ScheduledShift{}, &ShiftAssignment{},
		&APIKey{}, &APIUsage{}, &MasterUser{},
	)

	return db
}
