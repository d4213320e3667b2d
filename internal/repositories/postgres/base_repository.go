package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agenda-academica/academic-service/internal/repositories"
)

// baseRepository holds the single-key CRUD shared by every table
type baseRepository[T any] struct {
	db         *gorm.DB
	entity     string
	primaryKey string
}

func newBaseRepository[T any](db *gorm.DB, entity, primaryKey string) baseRepository[T] {
	return baseRepository[T]{db: db, entity: entity, primaryKey: primaryKey}
}

func (r *baseRepository[T]) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *baseRepository[T]) Create(ctx context.Context, tx *gorm.DB, entity *T) error {
	db := r.getDB(tx)
	err := db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
	return handleDBError(err, "create "+r.entity)
}

func (r *baseRepository[T]) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*T, error) {
	db := r.getDB(tx)
	var entity T
	if err := db.WithContext(ctx).Where(r.primaryKey+" = ?", id).First(&entity).Error; err != nil {
		return nil, handleDBError(err, fmt.Sprintf("get %s %d", r.entity, id))
	}
	return &entity, nil
}

// Update writes every column of entity
func (r *baseRepository[T]) Update(ctx context.Context, tx *gorm.DB, entity *T) error {
	db := r.getDB(tx)
	err := db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
	return handleDBError(err, "update "+r.entity)
}

func (r *baseRepository[T]) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Where(r.primaryKey+" = ?", id).Delete(new(T))
	if result.Error != nil {
		return handleDBError(result.Error, fmt.Sprintf("delete %s %d", r.entity, id))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d failed: %w", r.entity, id, repositories.ErrNotFound)
	}
	return nil
}

func (r *baseRepository[T]) findOne(ctx context.Context, tx *gorm.DB, operation string, query string, args ...interface{}) (*T, error) {
	db := r.getDB(tx)
	var entity T
	if err := db.WithContext(ctx).Where(query, args...).First(&entity).Error; err != nil {
		return nil, handleDBError(err, operation)
	}
	return &entity, nil
}

// list counts the filtered rows and then reads one page of them
func (r *baseRepository[T]) list(ctx context.Context, tx *gorm.DB, scope func(*gorm.DB) *gorm.DB, page repositories.Pagination) ([]*T, int64, error) {
	db := r.getDB(tx)
	query := func() *gorm.DB {
		q := db.WithContext(ctx).Model(new(T))
		if scope != nil {
			q = scope(q)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count "+r.entity)
	}

	items := make([]*T, 0)
	if err := ApplyPagination(query(), r.primaryKey, page).Find(&items).Error; err != nil {
		return nil, 0, handleDBError(err, "list "+r.entity)
	}
	return items, total, nil
}

func (r *baseRepository[T]) exists(ctx context.Context, tx *gorm.DB, column string, value interface{}, excludeID uint) (bool, error) {
	db := r.getDB(tx)
	query := db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value)
	if excludeID > 0 {
		query = query.Where(r.primaryKey+" <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check "+r.entity+" "+column)
	}
	return count > 0, nil
}

func (r *baseRepository[T]) deleteWhere(ctx context.Context, tx *gorm.DB, query string, args ...interface{}) (int64, error) {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Where(query, args...).Delete(new(T))
	if result.Error != nil {
		return 0, handleDBError(result.Error, "delete "+r.entity)
	}
	return result.RowsAffected, nil
}

// DeleteByRA removes every row owned by ra
func (r *baseRepository[T]) DeleteByRA(ctx context.Context, tx *gorm.DB, ra string) (int64, error) {
	return r.deleteWhere(ctx, tx, "ra = ?", ra)
}

func byRA(ra string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("ra = ?", ra)
	}
}
