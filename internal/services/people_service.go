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

// ===== TEACHER (docente) =====

type teacherService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTeacherService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) TeacherService {
	return &teacherService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *teacherService) Create(ctx context.Context, user *models.User, req *TeacherCreateRequest) (*models.Teacher, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	teacher := &models.Teacher{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		RA:         user.RA,
		Discipline: req.Discipline,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkEmail(ctx, tx, req.Email, 0); err != nil {
			return err
		}
		if err := s.repo.Teacher().Create(ctx, tx, teacher); err != nil {
			return teacherWriteError(err, "create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Teacher created", "id_docente", teacher.ID, "ra", user.RA)
	return teacher, nil
}

func (s *teacherService) Get(ctx context.Context, user *models.User, id uint) (*models.Teacher, error) {
	return loadOwned(ctx, nil, s.repo.Teacher().GetByID, id, user, "teacher", "read", ErrTeacherNotFound)
}

func (s *teacherService) GetByEmail(ctx context.Context, user *models.User, email string) (*models.Teacher, error) {
	teacher, err := s.repo.Teacher().GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, mapRepoError(err, ErrTeacherNotFound, "get teacher by email")
	}
	if err := AssertOwns(teacher, user); err != nil {
		return nil, ownershipError(err, teacher.ID, "teacher", "read")
	}
	return teacher, nil
}

func (s *teacherService) List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Teacher], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.Teacher().ListByRA(ctx, nil, user.RA, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Teacher]), nil
}

// ListDisciplines returns the disciplines linked to one of the caller's teachers
func (s *teacherService) ListDisciplines(ctx context.Context, user *models.User, id uint, page repositories.Pagination) (*ListResult[*models.Discipline], error) {
	if _, err := s.Get(ctx, user, id); err != nil {
		return nil, err
	}

	items, total, err := s.repo.DisciplineTeacher().ListDisciplines(ctx, nil, id, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher disciplines: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Discipline]), nil
}

// Replace overwrites every editable field
func (s *teacherService) Replace(ctx context.Context, user *models.User, id uint, req *TeacherCreateRequest) (*models.Teacher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "replace", req.Email, func(t *models.Teacher) {
		t.Name = strings.TrimSpace(req.Name)
		t.Email = req.Email
		t.Discipline = req.Discipline
	})
}

func (s *teacherService) Update(ctx context.Context, user *models.User, id uint, req *TeacherUpdateRequest) (*models.Teacher, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email := ""
	if req.Email != nil {
		email = *req.Email
	}
	return s.update(ctx, user, id, "update", email, func(t *models.Teacher) {
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			t.Email = *req.Email
		}
		if req.Discipline != nil {
			t.Discipline = req.Discipline
		}
	})
}

func (s *teacherService) update(ctx context.Context, user *models.User, id uint, action, email string, apply func(*models.Teacher)) (*models.Teacher, error) {
	var teacher *models.Teacher
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		teacher, err = loadOwned(ctx, tx, s.repo.Teacher().GetByID, id, user, "teacher", action, ErrTeacherNotFound)
		if err != nil {
			return err
		}
		if email != "" && email != teacher.Email {
			if err := s.checkEmail(ctx, tx, email, teacher.ID); err != nil {
				return err
			}
		}

		apply(teacher)
		if err := s.repo.Teacher().Update(ctx, tx, teacher); err != nil {
			return teacherWriteError(err, action)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

func (s *teacherService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Teacher().GetByID, id, user, "teacher", "delete", ErrTeacherNotFound); err != nil {
			return err
		}
		if err := s.repo.Teacher().Delete(ctx, tx, id); err != nil {
			return deleteError(err, ErrTeacherNotFound, "teacher")
		}
		s.logger.InfoContext(ctx, "Teacher deleted", "id_docente", id, "ra", user.RA)
		return nil
	})
}

func (s *teacherService) checkEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) error {
	taken, err := s.repo.Teacher().ExistsByEmail(ctx, tx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check teacher email: %w", err)
	}
	if taken {
		return NewDuplicateError("email", "Email já cadastrado")
	}
	return nil
}

func teacherWriteError(err error, action string) error {
	if repositories.IsDuplicateError(err) {
		return NewDuplicateError("email", "Email já cadastrado")
	}
	return fmt.Errorf("failed to %s teacher: %w", action, err)
}

// ===== STUDENT (discente) =====

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{repo: repo, db: db, logger: logger, validator: validator}
}

func (s *studentService) Create(ctx context.Context, user *models.User, req *StudentCreateRequest) (*models.Student, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	student := &models.Student{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		CourseID: req.CourseID,
		RA:       user.RA,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkEmail(ctx, tx, req.Email, 0); err != nil {
			return err
		}
		if err := s.checkCourse(ctx, tx, req.CourseID); err != nil {
			return err
		}
		if err := s.repo.Student().Create(ctx, tx, student); err != nil {
			return studentWriteError(err, "create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Student created", "id_discente", student.ID, "ra", user.RA)
	return student, nil
}

func (s *studentService) Get(ctx context.Context, user *models.User, id uint) (*models.Student, error) {
	return loadOwned(ctx, nil, s.repo.Student().GetByID, id, user, "student", "read", ErrStudentNotFound)
}

func (s *studentService) GetByEmail(ctx context.Context, user *models.User, email string) (*models.Student, error) {
	student, err := s.repo.Student().GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, mapRepoError(err, ErrStudentNotFound, "get student by email")
	}
	if err := AssertOwns(student, user); err != nil {
		return nil, ownershipError(err, student.ID, "student", "read")
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, user *models.User, page repositories.Pagination) (*ListResult[*models.Student], error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	items, total, err := s.repo.Student().ListByRA(ctx, nil, user.RA, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return newListResult(items, total, page, identity[*models.Student]), nil
}

func (s *studentService) Replace(ctx context.Context, user *models.User, id uint, req *StudentCreateRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.update(ctx, user, id, "replace", req.Email, req.CourseID, func(st *models.Student) {
		st.Name = strings.TrimSpace(req.Name)
		st.Email = req.Email
		st.Phone = req.Phone
		st.CourseID = req.CourseID
	})
}

func (s *studentService) Update(ctx context.Context, user *models.User, id uint, req *StudentUpdateRequest) (*models.Student, error) {
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email := ""
	if req.Email != nil {
		email = *req.Email
	}
	return s.update(ctx, user, id, "update", email, req.CourseID, func(st *models.Student) {
		if req.Name != nil {
			st.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			st.Email = *req.Email
		}
		if req.Phone != nil {
			st.Phone = req.Phone
		}
		if req.CourseID != nil {
			st.CourseID = req.CourseID
		}
	})
}

func (s *studentService) update(ctx context.Context, user *models.User, id uint, action, email string, courseID *uint, apply func(*models.Student)) (*models.Student, error) {
	var student *models.Student
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		student, err = loadOwned(ctx, tx, s.repo.Student().GetByID, id, user, "student", action, ErrStudentNotFound)
		if err != nil {
			return err
		}
		if email != "" && email != student.Email {
			if err := s.checkEmail(ctx, tx, email, student.ID); err != nil {
				return err
			}
		}
		if err := s.checkCourse(ctx, tx, courseID); err != nil {
			return err
		}

		apply(student)
		if err := s.repo.Student().Update(ctx, tx, student); err != nil {
			return studentWriteError(err, action)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, user *models.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(ctx, tx, s.repo.Student().GetByID, id, user, "student", "delete", ErrStudentNotFound); err != nil {
			return err
		}
		if err := s.repo.Student().Delete(ctx, tx, id); err != nil {
			return mapRepoError(err, ErrStudentNotFound, "delete student")
		}
		s.logger.InfoContext(ctx, "Student deleted", "id_discente", id, "ra", user.RA)
		return nil
	})
}

func (s *studentService) checkEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) error {
	taken, err := s.repo.Student().ExistsByEmail(ctx, tx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check student email: %w", err)
	}
	if taken {
		return NewDuplicateError("email", "Email já cadastrado")
	}
	return nil
}

func (s *studentService) checkCourse(ctx context.Context, tx *gorm.DB, courseID *uint) error {
	if courseID == nil {
		return nil
	}
	if _, err := s.repo.Course().GetByID(ctx, tx, *courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("validation failed: %w", validationError("id_curso", "curso não encontrado", *courseID))
		}
		return fmt.Errorf("failed to load course: %w", err)
	}
	return nil
}

func studentWriteError(err error, action string) error {
	if repositories.IsDuplicateError(err) {
		return NewDuplicateError("email", "Email já cadastrado")
	}
	return fmt.Errorf("failed to %s student: %w", action, err)
}
