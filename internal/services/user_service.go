package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.PasswordHasher
	publisher events.EventPublisher
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, hasher *auth.PasswordHasher, publisher events.EventPublisher) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		publisher: publisher,
	}
}

// ===== REGISTRATION =====

func (s *userService) Register(ctx context.Context, req *UserCreateRequest) (*UserResponse, error) {
	s.logger.InfoContext(ctx, "Registering user", "ra", req.RA, "username", req.Username)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkUniqueness(ctx, nil, 0, &req.RA, &req.Email, &req.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		RA:           req.RA,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Phone:        req.Phone,
		CourseID:     req.CourseID,
		Module:       1,
		Bimester:     req.Bimester,
	}
	if req.Module != nil {
		user.Module = *req.Module
	}
	if req.BirthDate != nil {
		d, err := parseDate("dt_nascimento", *req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		user.BirthDate = &d
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		institution, err := s.findOrCreateInstitution(ctx, tx, req.InstitutionName)
		if err != nil {
			return err
		}
		user.InstitutionID = institution.ID

		if user.CourseID != nil {
			if _, err := s.repo.Course().GetByID(ctx, tx, *user.CourseID); err != nil {
				if repositories.IsNotFoundError(err) {
					return fmt.Errorf("validation failed: %w", validationError("id_curso", "curso não encontrado", *user.CourseID))
				}
				return fmt.Errorf("failed to load course: %w", err)
			}
		}

		if err := s.repo.User().Create(ctx, tx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewDuplicateError("usuario", "Usuário já cadastrado")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "ra", user.RA)
	publish(ctx, s.publisher, s.logger, events.UserRegistered, map[string]interface{}{
		"id_usuario":     user.ID,
		"ra":             user.RA,
		"id_instituicao": user.InstitutionID,
	})

	return NewUserResponse(user), nil
}

// checkUniqueness reports the first taken value among ra, email and username.
// Nil values are skipped and excludeID ignores the caller's own row.
func (s *userService) checkUniqueness(ctx context.Context, tx *gorm.DB, excludeID uint, ra, email, username *string) error {
	checks := []struct {
		value   *string
		field   string
		message string
		exists  func(context.Context, *gorm.DB, string, uint) (bool, error)
	}{
		{ra, "ra", "RA já cadastrado", s.repo.User().ExistsByRA},
		{email, "email", "Email já cadastrado", s.repo.User().ExistsByEmail},
		{username, "username", "Username já cadastrado", s.repo.User().ExistsByUsername},
	}

	for _, c := range checks {
		if c.value == nil {
			continue
		}
		taken, err := c.exists(ctx, tx, *c.value, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check %s uniqueness: %w", c.field, err)
		}
		if taken {
			return NewDuplicateError(c.field, c.message)
		}
	}
	return nil
}

func (s *userService) findOrCreateInstitution(ctx context.Context, tx *gorm.DB, name string) (*models.Institution, error) {
	name = strings.TrimSpace(name)
	return findOrCreate(ctx, tx, s.logger, "institution",
		func(db *gorm.DB) (*models.Institution, error) {
			return s.repo.Institution().GetByName(ctx, db, name)
		},
		func(db *gorm.DB) (*models.Institution, error) {
			institution := &models.Institution{Name: name}
			if err := s.repo.Institution().Create(ctx, db, institution); err != nil {
				return nil, err
			}
			s.logger.InfoContext(ctx, "Institution created on demand", "id_instituicao", institution.ID, "nome", name)
			return institution, nil
		},
	)
}

func (s *userService) findOrCreateCourse(ctx context.Context, tx *gorm.DB, name string, institutionID uint) (*models.Course, error) {
	name = strings.TrimSpace(name)
	return findOrCreate(ctx, tx, s.logger, "course",
		func(db *gorm.DB) (*models.Course, error) {
			return s.repo.Course().GetByName(ctx, db, name, institutionID)
		},
		func(db *gorm.DB) (*models.Course, error) {
			course := &models.Course{Name: name, InstitutionID: institutionID}
			if err := s.repo.Course().Create(ctx, db, course); err != nil {
				return nil, err
			}
			return course, nil
		},
	)
}

// ===== LOOKUPS =====

func (s *userService) GetByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound, "get user")
	}
	return NewUserResponse(user), nil
}

func (s *userService) GetByRA(ctx context.Context, ra string) (*UserResponse, error) {
	user, err := s.repo.User().GetByRA(ctx, nil, ra)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound, "get user by ra")
	}
	return NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, page repositories.Pagination) (*ListResult[*UserResponse], error) {
	users, total, err := s.repo.User().List(ctx, nil, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return newListResult(users, total, page, NewUserResponse), nil
}

func (s *userService) ListByInstitution(ctx context.Context, institutionID uint, page repositories.Pagination) (*ListResult[*UserResponse], error) {
	users, total, err := s.repo.User().ListByInstitution(ctx, nil, institutionID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by institution: %w", err)
	}
	return newListResult(users, total, page, NewUserResponse), nil
}

func (s *userService) ListByCourse(ctx context.Context, courseID uint, page repositories.Pagination) (*ListResult[*UserResponse], error) {
	users, total, err := s.repo.User().ListByCourse(ctx, nil, courseID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by course: %w", err)
	}
	return newListResult(users, total, page, NewUserResponse), nil
}

// ===== SELF SERVICE =====

// UpdateSelf applies the non nil fields of req to the caller's account
func (s *userService) UpdateSelf(ctx context.Context, current *models.User, req *UserUpdateRequest) (*UserResponse, error) {
	if current == nil {
		return nil, ErrUnauthorized
	}
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Updating user", "user_id", current.ID)

	var updated *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.repo.User().GetByID(ctx, tx, current.ID)
		if err != nil {
			return mapRepoError(err, ErrUserNotFound, "reload user")
		}

		if err := s.checkUniqueness(ctx, tx, user.ID, nil, req.Email, req.Username); err != nil {
			return err
		}

		if err := s.applyUpdate(ctx, tx, user, req); err != nil {
			return err
		}

		if err := s.repo.User().Update(ctx, tx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return NewDuplicateError("usuario", "Email ou username já cadastrado")
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.repo.User().InvalidateCache(ctx, updated.ID)

	s.logger.InfoContext(ctx, "User updated", "user_id", updated.ID)
	return NewUserResponse(updated), nil
}

func (s *userService) applyUpdate(ctx context.Context, tx *gorm.DB, user *models.User, req *UserUpdateRequest) error {
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	if req.BirthDate != nil {
		d, err := parseDate("dt_nascimento", *req.BirthDate)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		user.BirthDate = &d
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Module != nil {
		user.Module = *req.Module
	}
	if req.Bimester != nil {
		user.Bimester = req.Bimester
	}

	if req.InstitutionName != nil {
		institution, err := s.findOrCreateInstitution(ctx, tx, *req.InstitutionName)
		if err != nil {
			return err
		}
		user.InstitutionID = institution.ID
	}
	// The course is resolved inside the (possibly new) institution
	if req.CourseName != nil {
		course, err := s.findOrCreateCourse(ctx, tx, *req.CourseName, user.InstitutionID)
		if err != nil {
			return err
		}
		user.CourseID = &course.ID
	}
	return nil
}

// DeleteSelf removes the account and every record it owns in one transaction
func (s *userService) DeleteSelf(ctx context.Context, current *models.User) error {
	if current == nil {
		return ErrUnauthorized
	}

	s.logger.InfoContext(ctx, "Deleting user", "user_id", current.ID, "ra", current.RA)

	removed := map[string]int64{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ra := current.RA

		links, err := s.repo.DisciplineTeacher().DeleteByTeacherRA(ctx, tx, ra)
		if err != nil {
			return fmt.Errorf("failed to delete teacher links: %w", err)
		}
		removed["disciplina_docente"] = links

		owned := []struct {
			table  string
			delete func(context.Context, *gorm.DB, string) (int64, error)
		}{
			{"docente", s.repo.Teacher().DeleteByRA},
			{"discente", s.repo.Student().DeleteByRA},
			{"nota", s.repo.Grade().DeleteByRA},
			{"anotacao", s.repo.Note().DeleteByRA},
			{"calendario", s.repo.CalendarEvent().DeleteByRA},
			{"horario", s.repo.Schedule().DeleteByRA},
		}
		for _, o := range owned {
			n, err := o.delete(ctx, tx, ra)
			if err != nil {
				return fmt.Errorf("failed to delete %s rows: %w", o.table, err)
			}
			removed[o.table] = n
		}

		if err := s.repo.User().Delete(ctx, tx, current.ID); err != nil {
			return mapRepoError(err, ErrUserNotFound, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.repo.User().InvalidateCache(ctx, current.ID)

	s.logger.InfoContext(ctx, "User deleted", "user_id", current.ID, "removed", removed)
	publish(ctx, s.publisher, s.logger, events.UserDeleted, map[string]interface{}{
		"id_usuario": current.ID,
		"ra":         current.RA,
	})
	return nil
}
