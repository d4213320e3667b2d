package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
)

// Every repository in this file stores rows owned by a user RA.
// DeleteByRA removes all of them when the owner account is deleted.

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Teacher, error)
	Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, page Pagination) ([]*models.Teacher, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error)
}

// DisciplineTeacherRepository links disciplines to the teachers that lecture them
type DisciplineTeacherRepository interface {
	Add(ctx context.Context, tx *gorm.DB, link *models.DisciplineTeacher) error
	Remove(ctx context.Context, tx *gorm.DB, disciplineID, teacherID uint) error
	Exists(ctx context.Context, tx *gorm.DB, disciplineID, teacherID uint) (bool, error)
	ListTeachers(ctx context.Context, tx *gorm.DB, disciplineID uint, page Pagination) ([]*models.Teacher, int64, error)
	ListDisciplines(ctx context.Context, tx *gorm.DB, teacherID uint, page Pagination) ([]*models.Discipline, int64, error)
	DeleteByTeacherRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, page Pagination) ([]*models.Student, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error)
}

type GradeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, grade *models.Grade) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error)
	Update(ctx context.Context, tx *gorm.DB, grade *models.Grade) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters GradeFilters, page Pagination) ([]*models.Grade, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
}

type NoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, note *models.Note) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Note, error)
	Update(ctx context.Context, tx *gorm.DB, note *models.Note) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, page Pagination) ([]*models.Note, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
}

type CalendarEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CalendarEvent, error)
	Update(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters CalendarFilters, page Pagination) ([]*models.CalendarEvent, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error)
	Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters ScheduleFilters, page Pagination) ([]*models.Schedule, int64, error)
	DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error)
}
