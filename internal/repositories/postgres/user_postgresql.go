package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agenda-academica/academic-service/internal/cache"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
)

// UserPostgreSQL caches lookups by id outside transactions. Cached rows carry
// no password hash, so Update never writes an empty hash back. Writes made
// inside a transaction are invalidated by the caller after commit.
type UserPostgreSQL struct {
	baseRepository[models.User]
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		baseRepository: newBaseRepository[models.User](db, "user", "id_usuario"),
		cacheManager:   cacheManager,
	}
}

// GetByID serves from cache when called outside a transaction
func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	if tx != nil || !u.cacheManager.Enabled() {
		return u.baseRepository.GetByID(ctx, tx, id)
	}

	return cache.CacheOrExecute(ctx, u.cacheManager.User, cache.UserKey(id), cache.UserCacheConfig.TTL, func() (*models.User, error) {
		return u.baseRepository.GetByID(ctx, nil, id)
	})
}

func (u *UserPostgreSQL) GetByRA(ctx context.Context, tx *gorm.DB, ra string) (*models.User, error) {
	return u.findOne(ctx, tx, fmt.Sprintf("get user by ra %s", ra), "ra = ?", ra)
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	return u.findOne(ctx, tx, "get user by username", "username = ?", username)
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	omit := []string{clause.Associations}
	if user.PasswordHash == "" {
		omit = append(omit, "senha_hash")
	}
	if err := u.getDB(tx).WithContext(ctx).Omit(omit...).Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}

	if tx == nil {
		u.InvalidateCache(ctx, user.ID)
	}
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := u.baseRepository.Delete(ctx, tx, id); err != nil {
		return err
	}

	if tx == nil {
		u.InvalidateCache(ctx, id)
	}
	return nil
}

func (u *UserPostgreSQL) InvalidateCache(ctx context.Context, id uint) {
	cache.InvalidateUserCache(ctx, u.cacheManager, id)
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, page repositories.Pagination) ([]*models.User, int64, error) {
	return u.list(ctx, tx, nil, page)
}

func (u *UserPostgreSQL) ListByInstitution(ctx context.Context, tx *gorm.DB, institutionID uint, page repositories.Pagination) ([]*models.User, int64, error) {
	return u.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id_instituicao = ?", institutionID)
	}, page)
}

func (u *UserPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, page repositories.Pagination) ([]*models.User, int64, error) {
	return u.list(ctx, tx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id_curso = ?", courseID)
	}, page)
}

func (u *UserPostgreSQL) ExistsByRA(ctx context.Context, tx *gorm.DB, ra string, excludeID uint) (bool, error) {
	return u.exists(ctx, tx, "ra", ra, excludeID)
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID uint) (bool, error) {
	return u.exists(ctx, tx, "email", email, excludeID)
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string, excludeID uint) (bool, error) {
	return u.exists(ctx, tx, "username", username, excludeID)
}
