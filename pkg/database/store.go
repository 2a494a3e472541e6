package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

const dateFormat = "2006-01-02"

// Store adapts the relational schema to the generation engine's domain
// types. All reads within a generation run go through it, and SaveSchedule
// writes the run's output as a unit.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on an initialized database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadWorkers returns every worker, ordered by name then id so generation
// runs scan candidates in a stable order.
func (s *Store) LoadWorkers(ctx context.Context) ([]models.Worker, error) {
	var rows []Worker
	if err := s.db.WithContext(ctx).Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Worker, 0, len(rows))
	for _, r := range rows {
		out = append(out, workerToDomain(r))
	}
	return out, nil
}

// LoadTemplates returns the shift templates for a location.
func (s *Store) LoadTemplates(ctx context.Context, locationID string) ([]models.ShiftTemplate, error) {
	var rows []ShiftTemplate
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("position, start_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.ShiftTemplate, 0, len(rows))
	for _, r := range rows {
		out = append(out, templateToDomain(r))
	}
	return out, nil
}

// LoadRecurring returns the standing preferences for a location in their
// stable processing order.
func (s *Store) LoadRecurring(ctx context.Context, locationID string) ([]models.RecurringShiftAssignment, error) {
	var rows []RecurringAssignment
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return recurringToDomain(rows), nil
}

// LoadAllRecurring returns every standing preference for the given workers,
// across all locations, for cross-location conflict seeding.
func (s *Store) LoadAllRecurring(ctx context.Context, workerIDs []string) ([]models.RecurringShiftAssignment, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	var rows []RecurringAssignment
	err := s.db.WithContext(ctx).
		Where("worker_id IN ?", workerIDs).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return recurringToDomain(rows), nil
}

// LoadOperatingHours returns the morning/afternoon cutoffs for a location.
func (s *Store) LoadOperatingHours(ctx context.Context, locationID string) ([]models.OperatingHours, error) {
	var rows []OperatingHours
	if err := s.db.WithContext(ctx).Where("location_id = ?", locationID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.OperatingHours, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.OperatingHours{
			LocationID:    r.LocationID,
			Weekday:       models.Weekday(r.Weekday),
			MorningCutoff: r.MorningCutoff,
		})
	}
	return out, nil
}

// LoadWeekShifts returns the workers' existing commitments in the target
// week across all locations except the one being regenerated, so a rerun
// never conflicts with its own previous output.
func (s *Store) LoadWeekShifts(ctx context.Context, workerIDs []string, weekStart time.Time, excludeLocationID string) ([]models.ExistingShift, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	from := weekStart.Format(dateFormat)
	to := weekStart.AddDate(0, 0, 6).Format(dateFormat)

	var shifts []ScheduledShift
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ? AND location_id <> ?", from, to, excludeLocationID).
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, nil
	}

	shiftIDs := make([]string, 0, len(shifts))
	byID := make(map[string]*ScheduledShift, len(shifts))
	for i := range shifts {
		shiftIDs = append(shiftIDs, shifts[i].ID)
		byID[shifts[i].ID] = &shifts[i]
	}

	var asgns []ShiftAssignment
	err = s.db.WithContext(ctx).
		Where("shift_id IN ? AND worker_id IN ?", shiftIDs, workerIDs).
		Find(&asgns).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.ExistingShift, 0, len(asgns))
	for _, a := range asgns {
		sh := byID[a.ShiftID]
		date, err := time.Parse(dateFormat, sh.Date)
		if err != nil {
			return nil, fmt.Errorf("shift %s has malformed date %q", sh.ID, sh.Date)
		}
		out = append(out, models.ExistingShift{
			WorkerID:   a.WorkerID,
			LocationID: sh.LocationID,
			Date:       date,
			StartTime:  sh.StartTime,
			EndTime:    sh.EndTime,
		})
	}
	return out, nil
}

// SaveSchedule replaces the location/week's generated schedule inside one
// transaction: prior rows for the window are removed, then the new sets are
// inserted. A failure part-way rolls everything back so no partial schedule
// is ever visible.
func (s *Store) SaveSchedule(ctx context.Context, locationID string, weekStart time.Time, shifts []models.ScheduledShift, assignments []models.ShiftAssignment) error {
	from := weekStart.Format(dateFormat)
	to := weekStart.AddDate(0, 0, 6).Format(dateFormat)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior := tx.Model(&ScheduledShift{}).
			Select("id").
			Where("location_id = ? AND date >= ? AND date <= ?", locationID, from, to)
		if err := tx.Where("shift_id IN (?)", prior).Delete(&ShiftAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("location_id = ? AND date >= ? AND date <= ?", locationID, from, to).
			Delete(&ScheduledShift{}).Error; err != nil {
			return err
		}

		for _, sh := range shifts {
			if err := tx.Create(shiftFromDomain(sh)).Error; err != nil {
				return err
			}
		}
		for _, a := range assignments {
			if err := tx.Create(assignmentFromDomain(a)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateWorker inserts a worker, minting an id when absent.
func (s *Store) CreateWorker(ctx context.Context, w models.Worker) (models.Worker, error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	row := workerFromDomain(w)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Worker{}, err
	}
	return w, nil
}

// CreateTemplate inserts a shift template, minting an id when absent.
func (s *Store) CreateTemplate(ctx context.Context, t models.ShiftTemplate) (models.ShiftTemplate, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	row := templateFromDomain(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ShiftTemplate{}, err
	}
	return t, nil
}

// CreateRecurring inserts a standing preference, minting an id when absent.
func (s *Store) CreateRecurring(ctx context.Context, r models.RecurringShiftAssignment) (models.RecurringShiftAssignment, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	row := RecurringAssignment{
		ID:         r.ID,
		WorkerID:   r.WorkerID,
		Weekday:    string(r.Weekday),
		LocationID: r.LocationID,
		Position:   r.Position,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Type:       string(r.Type),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.RecurringShiftAssignment{}, err
	}
	return r, nil
}

// SetOperatingHours upserts the cutoff for one location and weekday.
func (s *Store) SetOperatingHours(ctx context.Context, h models.OperatingHours) error {
	var row OperatingHours
	err := s.db.WithContext(ctx).
		Where(OperatingHours{LocationID: h.LocationID, Weekday: string(h.Weekday)}).
		Assign(OperatingHours{MorningCutoff: h.MorningCutoff}).
		FirstOrCreate(&row).Error
	return err
}

// DeleteTemplate removes a template by id.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&ShiftTemplate{}, "id = ?", id).Error
}

// DeleteRecurring removes a standing preference by id.
func (s *Store) DeleteRecurring(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&RecurringAssignment{}, "id = ?", id).Error
}

// DeleteWorker removes a worker by id.
func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Worker{}, "id = ?", id).Error
}

// Conversions between table rows and the engine's domain types.

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

func joinSet(parts []string) string {
	return strings.Join(parts, "|")
}

func workerToDomain(r Worker) models.Worker {
	avail := make(map[models.Weekday]models.Availability)
	for _, entry := range splitSet(r.Availability) {
		day, window, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		avail[models.Weekday(day)] = models.Availability(window)
	}
	return models.Worker{
		ID:           r.ID,
		Name:         r.Name,
		JobLevel:     r.JobLevel,
		IsLead:       r.IsLead,
		Inactive:     r.Inactive,
		IsManager:    r.IsManager,
		Positions:    splitSet(r.Positions),
		LocationIDs:  splitSet(r.Locations),
		Availability: avail,
	}
}

func workerFromDomain(w models.Worker) Worker {
	entries := make([]string, 0, len(w.Availability))
	for _, day := range models.Weekdays {
		if a, ok := w.Availability[day]; ok {
			entries = append(entries, string(day)+":"+string(a))
		}
	}
	return Worker{
		ID:           w.ID,
		Name:         w.Name,
		JobLevel:     w.JobLevel,
		IsLead:       w.IsLead,
		Inactive:     w.Inactive,
		IsManager:    w.IsManager,
		Positions:    joinSet(w.Positions),
		Locations:    joinSet(w.LocationIDs),
		Availability: joinSet(entries),
	}
}

func templateToDomain(r ShiftTemplate) models.ShiftTemplate {
	days := make([]models.Weekday, 0, 7)
	for _, d := range splitSet(r.Weekdays) {
		days = append(days, models.Weekday(d))
	}
	return models.ShiftTemplate{
		ID:              r.ID,
		LocationID:      r.LocationID,
		Position:        r.Position,
		Weekdays:        days,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		LeadDesignation: models.LeadDesignation(r.LeadDesignation),
		PairTag:         r.PairTag,
	}
}

func templateFromDomain(t models.ShiftTemplate) ShiftTemplate {
	days := make([]string, 0, len(t.Weekdays))
	for _, d := range t.Weekdays {
		days = append(days, string(d))
	}
	return ShiftTemplate{
		ID:              t.ID,
		LocationID:      t.LocationID,
		Position:        t.Position,
		Weekdays:        joinSet(days),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		LeadDesignation: string(t.LeadDesignation),
		PairTag:         t.PairTag,
	}
}

func recurringToDomain(rows []RecurringAssignment) []models.RecurringShiftAssignment {
	out := make([]models.RecurringShiftAssignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.RecurringShiftAssignment{
			ID:         r.ID,
			WorkerID:   r.WorkerID,
			Weekday:    models.Weekday(r.Weekday),
			LocationID: r.LocationID,
			Position:   r.Position,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			Type:       models.AssignmentType(r.Type),
		})
	}
	return out
}

func shiftFromDomain(sh models.ScheduledShift) *ScheduledShift {
	return &ScheduledShift{
		ID:                   sh.ID,
		Date:                 sh.Date.Format(dateFormat),
		TemplateID:           sh.TemplateID,
		LocationID:           sh.LocationID,
		Position:             sh.Position,
		StartTime:            sh.StartTime,
		EndTime:              sh.EndTime,
		IsRecurringGenerated: sh.IsRecurringGenerated,
	}
}

func assignmentFromDomain(a models.ShiftAssignment) *ShiftAssignment {
	row := &ShiftAssignment{
		ID:             a.ID,
		ShiftID:        a.ShiftID,
		WorkerID:       a.WorkerID,
		Type:           string(a.Type),
		ManualOverride: a.ManualOverride,
	}
	if a.AssignedStart != "" {
		v := a.AssignedStart
		row.AssignedStart = &v
	}
	if a.AssignedEnd != "" {
		v := a.AssignedEnd
		row.AssignedEnd = &v
	}
	return row
}
