package postgres

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
)

// ===== TEACHER =====

type TeacherPostgreSQL struct {
	baseRepository[models.Teacher]
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &TeacherPostgreSQL{
		baseRepository: newBaseRepository[models.Teacher](db, "teacher", "id_docente"),
	}
}

func (r *TeacherPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Teacher, error) {
	return r.findOne(ctx, tx, "get teacher by email", "email = ?", email)
}

func (r *TeacherPostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, page repositories.Pagination) ([]*models.Teacher, int64, error) {
	return r.list(ctx, tx, byRA(ra), page)
}

func (r *TeacherPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, tx, "email", email, excludeID)
}

// ===== DISCIPLINE <-> TEACHER =====

type DisciplineTeacherPostgreSQL struct {
	db *gorm.DB
}

func NewDisciplineTeacherPostgreSQL(db *gorm.DB) repositories.DisciplineTeacherRepository {
	return &DisciplineTeacherPostgreSQL{db: db}
}

func (r *DisciplineTeacherPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *DisciplineTeacherPostgreSQL) Add(ctx context.Context, tx *gorm.DB, link *models.DisciplineTeacher) error {
	err := r.getDB(tx).WithContext(ctx).Omit("Discipline", "Teacher").Create(link).Error
	return handleDBError(err, "add teacher to discipline")
}

func (r *DisciplineTeacherPostgreSQL) Remove(ctx context.Context, tx *gorm.DB, disciplineID, teacherID uint) error {
	result := r.getDB(tx).WithContext(ctx).
		Where("id_disciplina = ? AND id_docente = ?", disciplineID, teacherID).
		Delete(&models.DisciplineTeacher{})
	if result.Error != nil {
		return handleDBError(result.Error, "remove teacher from discipline")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "remove teacher from discipline")
	}
	return nil
}

func (r *DisciplineTeacherPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, disciplineID, teacherID uint) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.DisciplineTeacher{}).
		Where("id_disciplina = ? AND id_docente = ?", disciplineID, teacherID).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check discipline teacher")
	}
	return count > 0, nil
}

func (r *DisciplineTeacherPostgreSQL) ListTeachers(ctx context.Context, tx *gorm.DB, disciplineID uint, page repositories.Pagination) ([]*models.Teacher, int64, error) {
	query := func() *gorm.DB {
		return r.getDB(tx).Model(&models.Teacher{}).
			Joins("JOIN disciplina_docente dd ON dd.id_docente = docente.id_docente").
			Where("dd.id_disciplina = ?", disciplineID)
	}
	return listPage[models.Teacher](ctx, query, "docente.id_docente", page, "discipline teachers")
}

// ListDisciplines returns the disciplines a teacher is linked to
func (r *DisciplineTeacherPostgreSQL) ListDisciplines(ctx context.Context, tx *gorm.DB, teacherID uint, page repositories.Pagination) ([]*models.Discipline, int64, error) {
	query := func() *gorm.DB {
		return r.getDB(tx).Model(&models.Discipline{}).
			Joins("JOIN disciplina_docente dd ON dd.id_disciplina = disciplina.id_disciplina").
			Where("dd.id_docente = ?", teacherID)
	}
	return listPage[models.Discipline](ctx, query, "disciplina.id_disciplina", page, "teacher disciplines")
}

// DeleteByTeacherRA removes the links of every teacher owned by ra
func (r *DisciplineTeacherPostgreSQL) DeleteByTeacherRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error) {
	db := r.getDB(tx)
	owned := db.Model(&models.Teacher{}).Select("id_docente").Where("ra = ?", ra)
	result := db.WithContext(ctx).Where("id_docente IN (?)", owned).Delete(&models.DisciplineTeacher{})
	if result.Error != nil {
		return 0, handleDBError(result.Error, "delete discipline teachers by ra")
	}
	return result.RowsAffected, nil
}

// ===== STUDENT =====

type StudentPostgreSQL struct {
	baseRepository[models.Student]
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{
		baseRepository: newBaseRepository[models.Student](db, "student", "id_discente"),
	}
}

func (r *StudentPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	return r.findOne(ctx, tx, "get student by email", "email = ?", email)
}

func (r *StudentPostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, page repositories.Pagination) ([]*models.Student, int64, error) {
	return r.list(ctx, tx, byRA(ra), page)
}

func (r *StudentPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, tx, "email", email, excludeID)
}

// ===== GRADE =====

type GradePostgreSQL struct {
	baseRepository[models.Grade]
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{
		baseRepository: newBaseRepository[models.Grade](db, "grade", "id_nota"),
	}
}

func (r *GradePostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters repositories.GradeFilters, page repositories.Pagination) ([]*models.Grade, int64, error) {
	return r.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		q = q.Where("ra = ?", ra)
		if filters.DisciplineID != nil {
			q = q.Where("id_disciplina = ?", *filters.DisciplineID)
		}
		if filters.Bimester != nil {
			q = q.Where("bimestre = ?", *filters.Bimester)
		}
		return q
	}, page)
}

// ===== NOTE =====

type NotePostgreSQL struct {
	baseRepository[models.Note]
}

func NewNotePostgreSQL(db *gorm.DB) repositories.NoteRepository {
	return &NotePostgreSQL{
		baseRepository: newBaseRepository[models.Note](db, "note", "id_anotacao"),
	}
}

func (r *NotePostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, page repositories.Pagination) ([]*models.Note, int64, error) {
	return r.list(ctx, tx, byRA(ra), page)
}

// ===== CALENDAR =====

type CalendarEventPostgreSQL struct {
	baseRepository[models.CalendarEvent]
}

func NewCalendarEventPostgreSQL(db *gorm.DB) repositories.CalendarEventRepository {
	return &CalendarEventPostgreSQL{
		baseRepository: newBaseRepository[models.CalendarEvent](db, "calendar event", "id_data_evento"),
	}
}

func (r *CalendarEventPostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters repositories.CalendarFilters, page repositories.Pagination) ([]*models.CalendarEvent, int64, error) {
	return r.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		q = q.Where("ra = ?", ra)
		if filters.Date != nil {
			q = q.Where("data_evento = ?", datatypes.Date(*filters.Date))
		}
		if filters.DateTypeID != nil {
			q = q.Where("id_tipo_data = ?", *filters.DateTypeID)
		}
		return q
	}, page)
}

// ===== SCHEDULE =====

type SchedulePostgreSQL struct {
	baseRepository[models.Schedule]
}

func NewSchedulePostgreSQL(db *gorm.DB) repositories.ScheduleRepository {
	return &SchedulePostgreSQL{
		baseRepository: newBaseRepository[models.Schedule](db, "schedule", "id_horario"),
	}
}

func (r *SchedulePostgreSQL) ListByRA(ctx context.Context, tx *gorm.DB, ra string, filters repositories.ScheduleFilters, page repositories.Pagination) ([]*models.Schedule, int64, error) {
	return r.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		q = q.Where("ra = ?", ra)
		if filters.Weekday != nil {
			q = q.Where("dia_semana = ?", *filters.Weekday)
		}
		return q
	}, page)
}
