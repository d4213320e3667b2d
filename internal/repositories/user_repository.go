package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
)

// UserRepository stores accounts. Unique columns are ra, email and username.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByRA(ctx context.Context, tx *gorm.DB, ra string) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// InvalidateCache drops the cached row. Writes inside a transaction leave
	// the cache alone; the caller invalidates once the transaction commits.
	InvalidateCache(ctx context.Context, id uint)

	List(ctx context.Context, tx *gorm.DB, page Pagination) ([]*models.User, int64, error)
	ListByInstitution(ctx context.Context, tx *gorm.DB, institutionID uint, page Pagination) ([]*models.User, int64, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, page Pagination) ([]*models.User, int64, error)

	// Uniqueness checks. excludeID skips the caller's own row on update.
	ExistsByRA(ctx context.Context, tx *gorm.DB, ra string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string, excludeID uint) (bool, error)
}
