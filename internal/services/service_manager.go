package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// Dependencies groups what every service is built from
type Dependencies struct {
	DB        *gorm.DB
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Tokens    *auth.TokenManager
	Hasher    *auth.PasswordHasher
	Publisher events.EventPublisher
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps Dependencies

	// Service instances
	authService        AuthService
	userService        UserService
	institutionService InstitutionService
	courseService      CourseService
	disciplineService  DisciplineService
	dateTypeService    DateTypeService
	teacherService     TeacherService
	studentService     StudentService
	gradeService       GradeService
	noteService        NoteService
	calendarService    CalendarService
	scheduleService    ScheduleService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.validateDependencies(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	d := sm.deps
	d.Logger.Info("Initializing service manager")

	sm.authService = NewAuthService(d.Repo, d.DB, d.Logger, d.Validator, d.Tokens, d.Hasher)
	sm.userService = NewUserService(d.Repo, d.DB, d.Logger, d.Validator, d.Hasher, d.Publisher)
	sm.institutionService = NewInstitutionService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.courseService = NewCourseService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.disciplineService = NewDisciplineService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.dateTypeService = NewDateTypeService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.teacherService = NewTeacherService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.studentService = NewStudentService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.gradeService = NewGradeService(d.Repo, d.DB, d.Logger, d.Validator, d.Publisher)
	sm.noteService = NewNoteService(d.Repo, d.DB, d.Logger, d.Validator)
	sm.calendarService = NewCalendarService(d.Repo, d.DB, d.Logger, d.Validator, d.Publisher)
	sm.scheduleService = NewScheduleService(d.Repo, d.DB, d.Logger, d.Validator)

	sm.initialized = true
	d.Logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) validateDependencies() error {
	switch {
	case sm.deps.DB == nil:
		return fmt.Errorf("database is required")
	case sm.deps.Repo == nil:
		return fmt.Errorf("repository is required")
	case sm.deps.Logger == nil:
		return fmt.Errorf("logger is required")
	case sm.deps.Validator == nil:
		return fmt.Errorf("validator is required")
	case sm.deps.Tokens == nil:
		return fmt.Errorf("token manager is required")
	case sm.deps.Hasher == nil:
		return fmt.Errorf("password hasher is required")
	}
	return nil
}

// get guards every accessor; using a service before Initialize is a programming error
func get[S any](sm *serviceManager, name string, svc func() S) S {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.shutdown {
		panic(name + " service used after shutdown")
	}
	return svc()
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	return get(sm, "auth", func() AuthService { return sm.authService })
}

func (sm *serviceManager) User() UserService {
	return get(sm, "user", func() UserService { return sm.userService })
}

func (sm *serviceManager) Institution() InstitutionService {
	return get(sm, "institution", func() InstitutionService { return sm.institutionService })
}

func (sm *serviceManager) Course() CourseService {
	return get(sm, "course", func() CourseService { return sm.courseService })
}

func (sm *serviceManager) Discipline() DisciplineService {
	return get(sm, "discipline", func() DisciplineService { return sm.disciplineService })
}

func (sm *serviceManager) DateType() DateTypeService {
	return get(sm, "date type", func() DateTypeService { return sm.dateTypeService })
}

func (sm *serviceManager) Teacher() TeacherService {
	return get(sm, "teacher", func() TeacherService { return sm.teacherService })
}

func (sm *serviceManager) Student() StudentService {
	return get(sm, "student", func() StudentService { return sm.studentService })
}

func (sm *serviceManager) Grade() GradeService {
	return get(sm, "grade", func() GradeService { return sm.gradeService })
}

func (sm *serviceManager) Note() NoteService {
	return get(sm, "note", func() NoteService { return sm.noteService })
}

func (sm *serviceManager) Calendar() CalendarService {
	return get(sm, "calendar", func() CalendarService { return sm.calendarService })
}

func (sm *serviceManager) Schedule() ScheduleService {
	return get(sm, "schedule", func() ScheduleService { return sm.scheduleService })
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}
