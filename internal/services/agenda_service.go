package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// ===== NOTE (anotação) =====

type noteService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNoteService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) NoteService {
	return &noteService{repo: repo, db: db, logger: logger, validator: validator}
}

// Create stamps the caller RA. A missing date means today.
func (s *noteService) Create(ctx context.Context, user *models.User, req *NoteCreateRequest) (*NoteResponse, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	note := &models.Note{
		RA:    user.RA,
		Title: strings.TrimSpace(req.Title),
		Body:  req.Body,
		Date:  today(),
	}
	if req.Date != nil {
		d, err := parseDate("dt_anotacao", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		note.Date = d
	}

	if err := s.repo.Note().Create(ctx, nil, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.InfoContext(ctx, "Note created", "id_anotacao", note.ID, "ra", user.RA)
	return NewNoteResponse(note), nil
}

func (s *noteService) Get(ctx context.Context, user *models.User, id uint) (*NoteResponse, error) {
	note, err := loadOwned(ctx, nil, s.repo.Note().GetByID, id, user, "note", "read", ErrNoteNotFound)
	if err != nil {
		return nil, err
	}
	return NewNoteResponse(note), nil
}

func (s *noteService) List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*NoteResponse], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.Note().ListByRA(ctx, nil, user.RA, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return newListResult(items, total, page, NewNoteResponse), nil
}

func (s *noteService) Replace(ctx context.Context, user *models.User, id uint, req *NoteCreateRequest) (*NoteResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "replace", func(n *models.Note) error {
		n.Title = strings.TrimSpace(req.Title)
		n.Body = req.Body
		n.Date = today()
		if req.Date != nil {
			d, err := parseDate("dt_anotacao", *req.Date)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			n.Date = d
		}
		return nil
	})
}

func (s *noteService) Update(ctx context.Context, user *models.User, id uint, req *NoteUpdateRequest) (*NoteResponse, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "update", func(n *models.Note) error {
		if req.Title != nil {
			n.Title = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			n.Body = *req.Body
		}
		if req.Date != nil {
			d, err := parseDate("dt_anotacao", *req.Date)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			n.Date = d
		}
		return nil
	})
}

func (s *noteService) update(ctx context.Context, user *models.User, id uint, action string, apply func(*models.Note) error) (*NoteResponse, error) {
	var note *models.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = loadOwned(ctx, tx, s.repo.Note().GetByID, id, user, "note", action, ErrNoteNotFound)
		if err != nil {
			return err
		}
		if err := apply(note); err != nil {
			return err
		}
		if err := s.repo.Note().Update(ctx, tx, note); err != nil {
			return fmt.Errorf("failed to %s note: %w", action, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Note().GetByID, id, user, "note", "delete", ErrNoteNotFound); err != nil {
			return err
		}
		if err := s.repo.Note().Delete(ctx, tx, id); err != nil {
			return mapRepoError(err, ErrNoteNotFound, "delete note")
		}
		s.logger.InfoContext(ctx, "Note deleted", "id_anotacao", id, "ra", user.RA)
		return nil
	})
}

// ===== CALENDAR (calendário) =====

type calendarService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCalendarService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CalendarService {
	return &calendarService{repo: repo, db: db, logger: logger, validator: validator, publisher: publisher}
}

func errDateTaken() error {
	return NewConflictError("data_evento", "Já existe um evento cadastrado para esta data")
}

func (s *calendarService) Create(ctx context.Context, user *models.User, req *CalendarCreateRequest) (*CalendarEventResponse, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	date, err := parseDate("data_evento", req.Date)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	event := &models.CalendarEvent{RA: user.RA, Date: date, DateTypeID: req.DateTypeID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDateType(ctx, tx, req.DateTypeID); err != nil {
			return err
		}
		if err := s.checkDateFree(ctx, tx, user.RA, time.Time(date), 0); err != nil {
			return err
		}
		if err := s.repo.CalendarEvent().Create(ctx, tx, event); err != nil {
			if repositories.IsDuplicateError(err) {
				return errDateTaken()
			}
			return fmt.Errorf("failed to create calendar event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := NewCalendarEventResponse(event)
	s.logger.InfoContext(ctx, "Calendar event created", "id_data_evento", event.ID, "ra", user.RA, "data_evento", resp.Date)
	publish(ctx, s.publisher, s.logger, events.CalendarEventCreated, map[string]interface{}{
		"id_data_evento": event.ID,
		"ra":             event.RA,
		"data_evento":    resp.Date,
		"id_tipo_data":   event.DateTypeID,
	})
	return resp, nil
}

func (s *calendarService) Get(ctx context.Context, user *models.User, id uint) (*CalendarEventResponse, error) {
	event, err := loadOwned(ctx, nil, s.repo.CalendarEvent().GetByID, id, user, "calendar_event", "read", ErrCalendarEventNotFound)
	if err != nil {
		return nil, err
	}
	return NewCalendarEventResponse(event), nil
}

func (s *calendarService) List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error) {
	return s.list(ctx, user, repositories.CalendarFilters{}, page)
}

func (s *calendarService) ListByDate(ctx context.Context, user *models.User, date string, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error) {
	t, errs := s.validator.GetBusinessValidator().ValidateDate("data_evento", date)
	if errs != nil {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}
	return s.list(ctx, user, repositories.CalendarFilters{Date: &t}, page)
}

func (s *calendarService) ListByDateType(ctx context.Context, user *models.User, dateTypeID uint, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error) {
	if errs := s.validator.GetBusinessValidator().ValidateDateType(dateTypeID); errs != nil {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}
	return s.list(ctx, user, repositories.CalendarFilters{DateTypeID: &dateTypeID}, page)
}

func (s *calendarService) list(ctx context.Context, user *models.User, filters repositories.CalendarFilters, page repositories.Pagination) (*ListResult[*CalendarEventResponse], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.CalendarEvent().ListByRA(ctx, nil, user.RA, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return newListResult(items, total, page, NewCalendarEventResponse), nil
}

func (s *calendarService) Replace(ctx context.Context, user *models.User, id uint, req *CalendarCreateRequest) (*CalendarEventResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.Update(ctx, user, id, &CalendarUpdateRequest{Date: &req.Date, DateTypeID: &req.DateTypeID})
}

func (s *calendarService) Update(ctx context.Context, user *models.User, id uint, req *CalendarUpdateRequest) (*CalendarEventResponse, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var event *models.CalendarEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = loadOwned(ctx, tx, s.repo.CalendarEvent().GetByID, id, user, "calendar_event", "update", ErrCalendarEventNotFound)
		if err != nil {
			return err
		}

		if req.Date != nil {
			date, err := parseDate("data_evento", *req.Date)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if err := s.checkDateFree(ctx, tx, user.RA, time.Time(date), event.ID); err != nil {
				return err
			}
			event.Date = date
		}
		if req.DateTypeID != nil {
			if err := s.requireDateType(ctx, tx, *req.DateTypeID); err != nil {
				return err
			}
			event.DateTypeID = *req.DateTypeID
		}

		if err := s.repo.CalendarEvent().Update(ctx, tx, event); err != nil {
			if repositories.IsDuplicateError(err) {
				return errDateTaken()
			}
			return fmt.Errorf("failed to update calendar event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCalendarEventResponse(event), nil
}

func (s *calendarService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.CalendarEvent().GetByID, id, user, "calendar_event", "delete", ErrCalendarEventNotFound); err != nil {
			return err
		}
		if err := s.repo.CalendarEvent().Delete(ctx, tx, id); err != nil {
			return mapRepoError(err, ErrCalendarEventNotFound, "delete calendar event")
		}
		return nil
	})
}

// checkDateFree enforces one event per RA and date, ignoring excludeID
func (s *calendarService) checkDateFree(ctx context.Context, tx *gorm.DB, ra string, date time.Time, excludeID uint) error {
	existing, _, err := s.repo.CalendarEvent().ListByRA(ctx, tx, ra, repositories.CalendarFilters{Date: &date}, repositories.Pagination{})
	if err != nil {
		return fmt.Errorf("failed to check calendar date: %w", err)
	}
	for _, e := range existing {
		if e.ID != excludeID {
			return errDateTaken()
		}
	}
	return nil
}

func (s *calendarService) requireDateType(ctx context.Context, tx *gorm.DB, id uint) error {
	if errs := s.validator.GetBusinessValidator().ValidateDateType(id); errs != nil {
		return fmt.Errorf("validation failed: %w", errs)
	}
	if _, err := s.repo.DateType().GetByID(ctx, tx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("validation failed: %w", validationError("id_tipo_data", "tipo de data não encontrado", id))
		}
		return fmt.Errorf("failed to load date type: %w", err)
	}
	return nil
}

// ===== SCHEDULE (horário) =====

type scheduleService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScheduleService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ScheduleService {
	return &scheduleService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *scheduleService) Create(ctx context.Context, user *models.User, req *ScheduleCreateRequest) (*models.Schedule, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slot := &models.Schedule{
		RA:          user.RA,
		Weekday:     req.Weekday,
		ClassNumber: req.ClassNumber,
		Discipline:  strings.TrimSpace(req.Discipline),
	}
	if err := s.repo.Schedule().Create(ctx, nil, slot); err != nil {
		return nil, fmt.Errorf("failed to create schedule slot: %w", err)
	}

	s.logger.InfoContext(ctx, "Schedule slot created", "id_horario", slot.ID, "ra", user.RA)
	return slot, nil
}

func (s *scheduleService) Get(ctx context.Context, user *models.User, id uint) (*models.Schedule, error) {
	return loadOwned(ctx, nil, s.repo.Schedule().GetByID, id, user, "schedule", "read", ErrScheduleNotFound)
}

func (s *scheduleService) List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Schedule], error) {
	return s.list(ctx, user, repositories.ScheduleFilters{}, page)
}

func (s *scheduleService) ListByWeekday(ctx context.Context, user *models.User, weekday int, page repositories.Pagination) (*ListResult[*models.Schedule], error) {
	if errs := s.validator.GetBusinessValidator().ValidateWeekday(weekday); errs != nil {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}
	return s.list(ctx, user, repositories.ScheduleFilters{Weekday: &weekday}, page)
}

func (s *scheduleService) list(ctx context.Context, user *models.User, filters repositories.ScheduleFilters, page repositories.Pagination) (*ListResult[*models.Schedule], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.Schedule().ListByRA(ctx, nil, user.RA, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Schedule]), nil
}

func (s *scheduleService) Replace(ctx context.Context, user *models.User, id uint, req *ScheduleCreateRequest) (*models.Schedule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "replace", func(slot *models.Schedule) {
		slot.Weekday = req.Weekday
		slot.ClassNumber = req.ClassNumber
		slot.Discipline = strings.TrimSpace(req.Discipline)
	})
}

func (s *scheduleService) Update(ctx context.Context, user *models.User, id uint, req *ScheduleUpdateRequest) (*models.Schedule, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "update", func(slot *models.Schedule) {
		if req.Weekday != nil {
			slot.Weekday = *req.Weekday
		}
		if req.ClassNumber != nil {
			slot.ClassNumber = req.ClassNumber
		}
		if req.Discipline != nil {
			slot.Discipline = strings.TrimSpace(*req.Discipline)
		}
	})
}

func (s *scheduleService) update(ctx context.Context, user *models.User, id uint, action string, apply func(*models.Schedule)) (*models.Schedule, error) {
	var slot *models.Schedule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		slot, err = loadOwned(ctx, tx, s.repo.Schedule().GetByID, id, user, "schedule", action, ErrScheduleNotFound)
		if err != nil {
			return err
		}
		apply(slot)
		if err := s.repo.Schedule().Update(ctx, tx, slot); err != nil {
			return fmt.Errorf("failed to %s schedule slot: %w", action, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *scheduleService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Schedule().GetByID, id, user, "schedule", "delete", ErrScheduleNotFound); err != nil {
			return err
		}
		if err := s.repo.Schedule().Delete(ctx, tx, id); err != nil {
			return mapRepoError(err, ErrScheduleNotFound, "delete schedule slot")
		}
		return nil
	})
}
