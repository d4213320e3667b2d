package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
)

type InstitutionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, institution *models.Institution) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Institution, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Institution, error)
	Update(ctx context.Context, tx *gorm.DB, institution *models.Institution) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, page Pagination) ([]*models.Institution, int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string, institutionID uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters, page Pagination) ([]*models.Course, int64, error)
}

type DisciplineRepository interface {
	Create(ctx context.Context, tx *gorm.DB, discipline *models.Discipline) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Discipline, error)
	Update(ctx context.Context, tx *gorm.DB, discipline *models.Discipline) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, page Pagination) ([]*models.Discipline, int64, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Discipline, error)
}

// CourseDisciplineRepository manages the course curriculum
type CourseDisciplineRepository interface {
	Add(ctx context.Context, tx *gorm.DB, link *models.CourseDiscipline) error
	Get(ctx context.Context, tx *gorm.DB, courseID, disciplineID uint) (*models.CourseDiscipline, error)
	Update(ctx context.Context, tx *gorm.DB, link *models.CourseDiscipline) error
	Remove(ctx context.Context, tx *gorm.DB, courseID, disciplineID uint) error
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, page Pagination) ([]*models.CourseDiscipline, int64, error)
}

type DateTypeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, dateType *models.DateType) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.DateType, error)
	Update(ctx context.Context, tx *gorm.DB, dateType *models.DateType) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.DateType, error)
}
