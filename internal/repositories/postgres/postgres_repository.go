package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/cache"
	"github.com/agenda-academica/academic-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user              repositories.UserRepository
	institution       repositories.InstitutionRepository
	course            repositories.CourseRepository
	discipline        repositories.DisciplineRepository
	courseDiscipline  repositories.CourseDisciplineRepository
	dateType          repositories.DateTypeRepository
	teacher           repositories.TeacherRepository
	disciplineTeacher repositories.DisciplineTeacherRepository
	student           repositories.StudentRepository
	grade             repositories.GradeRepository
	note              repositories.NoteRepository
	calendarEvent     repositories.CalendarEventRepository
	schedule          repositories.ScheduleRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newPostgreSQLRepository(config.DB, config.RedisClient, cache.NewCacheManager(config.RedisClient))
}

func newPostgreSQLRepository(db *gorm.DB, redisClient *redis.Client, cacheManager *cache.CacheManager) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:                db,
		redisClient:       redisClient,
		cacheManager:      cacheManager,
		user:              NewUserPostgreSQL(db, cacheManager),
		institution:       NewInstitutionPostgreSQL(db),
		course:            NewCoursePostgreSQL(db),
		discipline:        NewDisciplinePostgreSQL(db),
		courseDiscipline:  NewCourseDisciplinePostgreSQL(db),
		dateType:          NewDateTypePostgreSQL(db, cacheManager),
		teacher:           NewTeacherPostgreSQL(db),
		disciplineTeacher: NewDisciplineTeacherPostgreSQL(db),
		student:           NewStudentPostgreSQL(db),
		grade:             NewGradePostgreSQL(db),
		note:              NewNotePostgreSQL(db),
		calendarEvent:     NewCalendarEventPostgreSQL(db),
		schedule:          NewSchedulePostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Institution() repositories.InstitutionRepository {
	return r.institution
}

func (r *PostgreSQLRepository) Course() repositories.CourseRepository { return r.course }

func (r *PostgreSQLRepository) Discipline() repositories.DisciplineRepository {
	return r.discipline
}

func (r *PostgreSQLRepository) CourseDiscipline() repositories.CourseDisciplineRepository {
	return r.courseDiscipline
}

func (r *PostgreSQLRepository) DateType() repositories.DateTypeRepository { return r.dateType }

func (r *PostgreSQLRepository) Teacher() repositories.TeacherRepository { return r.teacher }

func (r *PostgreSQLRepository) DisciplineTeacher() repositories.DisciplineTeacherRepository {
	return r.disciplineTeacher
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository { return r.student }

func (r *PostgreSQLRepository) Grade() repositories.GradeRepository { return r.grade }

func (r *PostgreSQLRepository) Note() repositories.NoteRepository { return r.note }

func (r *PostgreSQLRepository) CalendarEvent() repositories.CalendarEventRepository {
	return r.calendarEvent
}

func (r *PostgreSQLRepository) Schedule() repositories.ScheduleRepository { return r.schedule }

// WithTransaction executes a function within a database transaction.
// The repository handed to fn is bound to the transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newPostgreSQLRepository(tx, r.redisClient, r.cacheManager))
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
