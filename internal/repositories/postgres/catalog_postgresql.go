package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/cache"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
)

// ===== INSTITUTION =====

type InstitutionPostgreSQL struct {
	baseRepository[models.Institution]
}

func NewInstitutionPostgreSQL(db *gorm.DB) repositories.InstitutionRepository {
	return &InstitutionPostgreSQL{
		baseRepository: newBaseRepository[models.Institution](db, "institution", "id_instituicao"),
	}
}

func (r *InstitutionPostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Institution, error) {
	return r.findOne(ctx, tx, "get institution by name", "nome = ?", name)
}

func (r *InstitutionPostgreSQL) List(ctx context.Context, tx *gorm.DB, page repositories.Pagination) ([]*models.Institution, int64, error) {
	return r.list(ctx, tx, nil, page)
}

// ===== COURSE =====

type CoursePostgreSQL struct {
	baseRepository[models.Course]
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{
		baseRepository: newBaseRepository[models.Course](db, "course", "id_curso"),
	}
}

func (r *CoursePostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string, institutionID uint) (*models.Course, error) {
	return r.findOne(ctx, tx, "get course by name", "nome = ? AND id_instituicao = ?", name, institutionID)
}

func (r *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters, page repositories.Pagination) ([]*models.Course, int64, error) {
	return r.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		if filters.InstitutionID != nil {
			q = q.Where("id_instituicao = ?", *filters.InstitutionID)
		}
		return q
	}, page)
}

// ===== DISCIPLINE =====

type DisciplinePostgreSQL struct {
	baseRepository[models.Discipline]
}

func NewDisciplinePostgreSQL(db *gorm.DB) repositories.DisciplineRepository {
	return &DisciplinePostgreSQL{
		baseRepository: newBaseRepository[models.Discipline](db, "discipline", "id_disciplina"),
	}
}

func (r *DisciplinePostgreSQL) List(ctx context.Context, tx *gorm.DB, page repositories.Pagination) ([]*models.Discipline, int64, error) {
	return r.list(ctx, tx, nil, page)
}

func (r *DisciplinePostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Discipline, error) {
	disciplines := make([]*models.Discipline, 0, len(ids))
	if len(ids) == 0 {
		return disciplines, nil
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).Where("id_disciplina IN ?", ids).Order("id_disciplina ASC").Find(&disciplines).Error; err != nil {
		return nil, handleDBError(err, "get disciplines by ids")
	}
	return disciplines, nil
}

// ===== COURSE <-> DISCIPLINE =====

type CourseDisciplinePostgreSQL struct {
	db *gorm.DB
}

func NewCourseDisciplinePostgreSQL(db *gorm.DB) repositories.CourseDisciplineRepository {
	return &CourseDisciplinePostgreSQL{db: db}
}

func (r *CourseDisciplinePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *CourseDisciplinePostgreSQL) Add(ctx context.Context, tx *gorm.DB, link *models.CourseDiscipline) error {
	err := r.getDB(tx).WithContext(ctx).Omit("Course", "Discipline").Create(link).Error
	return handleDBError(err, "add discipline to course")
}

func (r *CourseDisciplinePostgreSQL) Get(ctx context.Context, tx *gorm.DB, courseID, disciplineID uint) (*models.CourseDiscipline, error) {
	var link models.CourseDiscipline
	err := r.getDB(tx).WithContext(ctx).
		Preload("Discipline").
		Where("id_curso = ? AND id_disciplina = ?", courseID, disciplineID).
		First(&link).Error
	if err != nil {
		return nil, handleDBError(err, fmt.Sprintf("get discipline %d of course %d", disciplineID, courseID))
	}
	return &link, nil
}

func (r *CourseDisciplinePostgreSQL) Update(ctx context.Context, tx *gorm.DB, link *models.CourseDiscipline) error {
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.CourseDiscipline{}).
		Where("id_curso = ? AND id_disciplina = ?", link.CourseID, link.DisciplineID).
		Update("modulo", link.Module).Error
	return handleDBError(err, "update course discipline")
}

func (r *CourseDisciplinePostgreSQL) Remove(ctx context.Context, tx *gorm.DB, courseID, disciplineID uint) error {
	result := r.getDB(tx).WithContext(ctx).
		Where("id_curso = ? AND id_disciplina = ?", courseID, disciplineID).
		Delete(&models.CourseDiscipline{})
	if result.Error != nil {
		return handleDBError(result.Error, "remove discipline from course")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("remove discipline %d from course %d failed: %w", disciplineID, courseID, repositories.ErrNotFound)
	}
	return nil
}

func (r *CourseDisciplinePostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, page repositories.Pagination) ([]*models.CourseDiscipline, int64, error) {
	query := func() *gorm.DB {
		return r.getDB(tx).Model(&models.CourseDiscipline{}).Where("id_curso = ?", courseID)
	}

	var total int64
	if err := query().WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count course disciplines")
	}

	links := make([]*models.CourseDiscipline, 0)
	err := ApplyPagination(query().WithContext(ctx).Preload("Discipline"), "id_disciplina", page).Find(&links).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list course disciplines")
	}
	return links, total, nil
}

// ===== DATE TYPE =====

// DateTypePostgreSQL caches the full catalog, which every calendar screen reads
type DateTypePostgreSQL struct {
	baseRepository[models.DateType]
	cacheManager *cache.CacheManager
}

func NewDateTypePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.DateTypeRepository {
	return &DateTypePostgreSQL{
		baseRepository: newBaseRepository[models.DateType](db, "date type", "id_tipo_data"),
		cacheManager:   cacheManager,
	}
}

func (r *DateTypePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.DateType, error) {
	load := func() ([]*models.DateType, error) {
		items, _, err := r.list(ctx, tx, nil, repositories.Pagination{})
		return items, err
	}
	if tx != nil || !r.cacheManager.Enabled() {
		return load()
	}
	return cache.CacheOrExecute(ctx, r.cacheManager.Catalog, cache.DateTypesKey, cache.CatalogCacheConfig.TTL, load)
}

func (r *DateTypePostgreSQL) Create(ctx context.Context, tx *gorm.DB, dateType *models.DateType) error {
	if err := r.baseRepository.Create(ctx, tx, dateType); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx, r.cacheManager)
	return nil
}

func (r *DateTypePostgreSQL) Update(ctx context.Context, tx *gorm.DB, dateType *models.DateType) error {
	if err := r.baseRepository.Update(ctx, tx, dateType); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx, r.cacheManager)
	return nil
}

func (r *DateTypePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := r.baseRepository.Delete(ctx, tx, id); err != nil {
		return err
	}
	cache.InvalidateCatalog(ctx, r.cacheManager)
	return nil
}
