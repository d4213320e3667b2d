package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// deleteError maps a failed delete of a shared catalog row
func deleteError(err error, notFound error, resource string) error {
	switch {
	case repositories.IsNotFoundError(err):
		return notFound
	case repositories.IsInvalidReferenceError(err):
		return ErrResourceInUse
	default:
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
}

// ===== INSTITUTION =====

type institutionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewInstitutionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) InstitutionService {
	return &institutionService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *institutionService) Create(ctx context.Context, req *InstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	institution := &models.Institution{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Institution().Create(ctx, nil, institution); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewDuplicateError("nome", "Instituição já cadastrada")
		}
		return nil, fmt.Errorf("failed to create institution: %w", err)
	}

	s.logger.InfoContext(ctx, "Institution created", "id_instituicao", institution.ID)
	return institution, nil
}

func (s *institutionService) Get(ctx context.Context, id uint) (*models.Institution, error) {
	institution, err := s.repo.Institution().GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoError(err, ErrInstitutionNotFound, "get institution")
	}
	return institution, nil
}

func (s *institutionService) List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.Institution], error) {
	items, total, err := s.repo.Institution().List(ctx, nil, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list institutions: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Institution]), nil
}

func (s *institutionService) Update(ctx context.Context, id uint, req *InstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var institution *models.Institution
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		institution, err = s.repo.Institution().GetByID(ctx, tx, id)
		if err != nil {
			return mapRepoError(err, ErrInstitutionNotFound, "get institution")
		}

		institution.Name = strings.TrimSpace(req.Name)
		if err := s.repo.Institution().Update(ctx, tx, institution); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewDuplicateError("nome", "Instituição já cadastrada")
			}
			return fmt.Errorf("failed to update institution: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return institution, nil
}

func (s *institutionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Institution().Delete(ctx, nil, id); err != nil {
		return deleteError(err, ErrInstitutionNotFound, "institution")
	}
	s.logger.InfoContext(ctx, "Institution deleted", "id_instituicao", id)
	return nil
}

// ===== COURSE =====

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	course := &models.Course{Name: strings.TrimSpace(req.Name), InstitutionID: req.InstitutionID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireInstitution(ctx, tx, req.InstitutionID); err != nil {
			return err
		}
		if err := s.repo.Course().Create(ctx, tx, course); err != nil {
			return s.writeError(err, "create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Course created", "id_curso", course.ID, "id_instituicao", course.InstitutionID)
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoError(err, ErrCourseNotFound, "get course")
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, page repositories.Pagination) (*ListResult[*models.Course], error) {
	items, total, err := s.repo.Course().List(ctx, nil, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Course]), nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var course *models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.repo.Course().GetByID(ctx, tx, id)
		if err != nil {
			return mapRepoError(err, ErrCourseNotFound, "get course")
		}

		if req.Name != nil {
			course.Name = strings.TrimSpace(*req.Name)
		}
		if req.InstitutionID != nil {
			if err := s.requireInstitution(ctx, tx, *req.InstitutionID); err != nil {
				return err
			}
			course.InstitutionID = *req.InstitutionID
		}

		if err := s.repo.Course().Update(ctx, tx, course); err != nil {
			return s.writeError(err, "update")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return deleteError(err, ErrCourseNotFound, "course")
	}
	s.logger.InfoContext(ctx, "Course deleted", "id_curso", id)
	return nil
}

func (s *courseService) requireInstitution(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, err := s.repo.Institution().GetByID(ctx, tx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("validation failed: %w", validationError("id_instituicao", "instituição não encontrada", id))
		}
		return fmt.Errorf("failed to load institution: %w", err)
	}
	return nil
}

func (s *courseService) writeError(err error, action string) error {
	if repositories.IsDuplicateError(err) {
		return NewDuplicateError("nome", "Curso já cadastrado nesta instituição")
	}
	return fmt.Errorf("failed to %s course: %w", action, err)
}

// ===== CURRICULUM =====

func (s *courseService) ListDisciplines(ctx context.Context, courseID uint, page repositories.Pagination) (*ListResult[*CourseDisciplineResponse], error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	links, total, err := s.repo.CourseDiscipline().ListByCourse(ctx, nil, courseID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list course disciplines: %w", err)
	}
	return newListResult(links, total, page, NewCourseDisciplineResponse), nil
}

func (s *courseService) AddDiscipline(ctx context.Context, courseID uint, req *CourseDisciplineRequest) (*CourseDisciplineResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	link := &models.CourseDiscipline{CourseID: courseID, DisciplineID: req.DisciplineID, Module: req.Module}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.Course().GetByID(ctx, tx, courseID); err != nil {
			return mapRepoError(err, ErrCourseNotFound, "get course")
		}
		discipline, err := s.repo.Discipline().GetByID(ctx, tx, req.DisciplineID)
		if err != nil {
			return mapRepoError(err, ErrDisciplineNotFound, "get discipline")
		}

		if err := s.repo.CourseDiscipline().Add(ctx, tx, link); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewConflictError("id_disciplina", "Disciplina já vinculada ao curso")
			}
			return fmt.Errorf("failed to link discipline: %w", err)
		}
		link.Discipline = discipline
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Discipline linked to course", "id_curso", courseID, "id_disciplina", req.DisciplineID)
	return NewCourseDisciplineResponse(link), nil
}

func (s *courseService) UpdateDiscipline(ctx context.Context, courseID, disciplineID uint, req *CourseDisciplineUpdateRequest) (*CourseDisciplineResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var link *models.CourseDiscipline
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		link, err = s.repo.CourseDiscipline().Get(ctx, tx, courseID, disciplineID)
		if err != nil {
			return mapRepoError(err, ErrCourseDisciplineNotFound, "get course discipline")
		}

		link.Module = req.Module
		if err := s.repo.CourseDiscipline().Update(ctx, tx, link); err != nil {
			return mapRepoError(err, ErrCourseDisciplineNotFound, "update course discipline")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCourseDisciplineResponse(link), nil
}

func (s *courseService) RemoveDiscipline(ctx context.Context, courseID, disciplineID uint) error {
	if err := s.repo.CourseDiscipline().Remove(ctx, nil, courseID, disciplineID); err != nil {
		return mapRepoError(err, ErrCourseDisciplineNotFound, "remove course discipline")
	}
	return nil
}

// ===== DISCIPLINE =====

type disciplineService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDisciplineService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) DisciplineService {
	return &disciplineService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *disciplineService) Create(ctx context.Context, req *DisciplineCreateRequest) (*models.Discipline, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	discipline := &models.Discipline{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Discipline().Create(ctx, nil, discipline); err != nil {
		return nil, fmt.Errorf("failed to create discipline: %w", err)
	}

	s.logger.InfoContext(ctx, "Discipline created", "id_disciplina", discipline.ID)
	return discipline, nil
}

func (s *disciplineService) Get(ctx context.Context, id uint) (*models.Discipline, error) {
	discipline, err := s.repo.Discipline().GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoError(err, ErrDisciplineNotFound, "get discipline")
	}
	return discipline, nil
}

func (s *disciplineService) List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.Discipline], error) {
	items, total, err := s.repo.Discipline().List(ctx, nil, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Discipline]), nil
}

func (s *disciplineService) Update(ctx context.Context, id uint, req *DisciplineUpdateRequest) (*models.Discipline, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var discipline *models.Discipline
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		discipline, err = s.repo.Discipline().GetByID(ctx, tx, id)
		if err != nil {
			return mapRepoError(err, ErrDisciplineNotFound, "get discipline")
		}

		discipline.Name = strings.TrimSpace(*req.Name)
		if err := s.repo.Discipline().Update(ctx, tx, discipline); err != nil {
			return fmt.Errorf("failed to update discipline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return discipline, nil
}

func (s *disciplineService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Discipline().Delete(ctx, nil, id); err != nil {
		return deleteError(err, ErrDisciplineNotFound, "discipline")
	}
	s.logger.InfoContext(ctx, "Discipline deleted", "id_disciplina", id)
	return nil
}

func (s *disciplineService) ListTeachers(ctx context.Context, disciplineID uint, page repositories.Pagination) (*ListResult[*models.Teacher], error) {
	if _, err := s.Get(ctx, disciplineID); err != nil {
		return nil, err
	}

	teachers, total, err := s.repo.DisciplineTeacher().ListTeachers(ctx, nil, disciplineID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list discipline teachers: %w", err)
	}
	return newListResult(teachers, total, page, identity[*models.Teacher]), nil
}

func (s *disciplineService) AddTeacher(ctx context.Context, user *models.User, disciplineID, teacherID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.Discipline().GetByID(ctx, tx, disciplineID); err != nil {
			return mapRepoError(err, ErrDisciplineNotFound, "get discipline")
		}
		if _, err := loadOwned(ctx, tx, s.repo.Teacher().GetByID, teacherID, user, "teacher", "link", ErrTeacherNotFound); err != nil {
			return err
		}

		link := &models.DisciplineTeacher{DisciplineID: disciplineID, TeacherID: teacherID}
		if err := s.repo.DisciplineTeacher().Add(ctx, tx, link); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewConflictError("id_docente", "Docente já vinculado à disciplina")
			}
			return fmt.Errorf("failed to link teacher: %w", err)
		}
		return nil
	})
}

func (s *disciplineService) RemoveTeacher(ctx context.Context, user *models.User, disciplineID, teacherID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Teacher().GetByID, teacherID, user, "teacher", "unlink", ErrTeacherNotFound); err != nil {
			return err
		}
		if err := s.repo.DisciplineTeacher().Remove(ctx, tx, disciplineID, teacherID); err != nil {
			return mapRepoError(err, ErrDisciplineTeacherNotFound, "unlink teacher")
		}
		return nil
	})
}

// ===== DATE TYPE =====

type dateTypeService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDateTypeService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) DateTypeService {
	return &dateTypeService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *dateTypeService) Create(ctx context.Context, req *DateTypeRequest) (*models.DateType, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	dateType := &models.DateType{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.DateType().Create(ctx, nil, dateType); err != nil {
		return nil, fmt.Errorf("failed to create date type: %w", err)
	}
	return dateType, nil
}

func (s *dateTypeService) Get(ctx context.Context, id uint) (*models.DateType, error) {
	dateType, err := s.repo.DateType().GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoError(err, ErrDateTypeNotFound, "get date type")
	}
	return dateType, nil
}

// List pages over the cached catalog
func (s *dateTypeService) List(ctx context.Context, page repositories.Pagination) (*ListResult[*models.DateType], error) {
	items, err := s.repo.DateType().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list date types: %w", err)
	}

	total := int64(len(items))
	start := min(page.Skip, len(items))
	end := len(items)
	if page.Limit > 0 {
		end = min(start+page.Limit, len(items))
	}
	return newListResult(items[start:end], total, page, identity[*models.DateType]), nil
}

func (s *dateTypeService) Update(ctx context.Context, id uint, req *DateTypeRequest) (*models.DateType, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var dateType *models.DateType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		dateType, err = s.repo.DateType().GetByID(ctx, tx, id)
		if err != nil {
			return mapRepoError(err, ErrDateTypeNotFound, "get date type")
		}
		dateType.Name = strings.TrimSpace(req.Name)
		if err := s.repo.DateType().Update(ctx, tx, dateType); err != nil {
			return fmt.Errorf("failed to update date type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dateType, nil
}

func (s *dateTypeService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DateType().Delete(ctx, nil, id); err != nil {
		return deleteError(err, ErrDateTypeNotFound, "date type")
	}
	return nil
}
