package repositories

import "context"

// Repository aggregates every entity repository of the service
type Repository interface {
	// Accounts and academic catalog
	User() UserRepository
	Institution() InstitutionRepository
	Course() CourseRepository
	Discipline() DisciplineRepository
	CourseDiscipline() CourseDisciplineRepository
	DateType() DateTypeRepository

	// Per-user records, owned by RA
	Teacher() TeacherRepository
	DisciplineTeacher() DisciplineTeacherRepository
	Student() StudentRepository
	Grade() GradeRepository
	Note() NoteRepository
	CalendarEvent() CalendarEventRepository
	Schedule() ScheduleRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
