package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/repositories"
)

// ApplyPagination orders by the primary key so consecutive windows never overlap
func ApplyPagination(query *gorm.DB, orderColumn string, page repositories.Pagination) *gorm.DB {
	query = query.Order(orderColumn + " ASC")

	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Skip > 0 {
		query = query.Offset(page.Skip)
	}
	return query
}

// listPage counts the rows matched by query and loads one window of them.
// query must build a fresh statement on each call.
func listPage[T any](ctx context.Context, query func() *gorm.DB, orderColumn string, page repositories.Pagination, operation string) ([]*T, int64, error) {
	var total int64
	if err := query().WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count "+operation)
	}

	items := make([]*T, 0)
	if err := ApplyPagination(query().WithContext(ctx), orderColumn, page).Find(&items).Error; err != nil {
		return nil, 0, handleDBError(err, "list "+operation)
	}
	return items, total, nil
}

// handleDBError maps driver errors to repository sentinels and wraps them with the operation
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrInvalidReference)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
