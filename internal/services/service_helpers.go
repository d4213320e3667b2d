package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/events"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// findOrCreate looks a row up and creates it when absent. The insert runs in
// a savepoint; on a unique violation the lookup is retried once, so a
// concurrent creator wins without failing the caller's transaction.
func findOrCreate[T any](
	ctx context.Context,
	tx *gorm.DB,
	logger *slog.Logger,
	kind string,
	lookup func(*gorm.DB) (T, error),
	create func(*gorm.DB) (T, error),
) (T, error) {
	var zero T

	found, err := lookup(tx)
	if err == nil {
		return found, nil
	}
	if !repositories.IsNotFoundError(err) {
		return zero, fmt.Errorf("failed to look up %s: %w", kind, err)
	}

	var created T
	err = tx.Transaction(func(sp *gorm.DB) error {
		var createErr error
		created, createErr = create(sp)
		return createErr
	})
	if err == nil {
		return created, nil
	}
	if !repositories.IsDuplicateError(err) {
		return zero, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	logger.WarnContext(ctx, "Concurrent insert detected, retrying lookup", "kind", kind)
	found, err = lookup(tx)
	if err != nil {
		return zero, fmt.Errorf("failed to look up %s after conflict: %w", kind, err)
	}
	return found, nil
}

// parseDate converts a validated YYYY-MM-DD string into a date column value
func parseDate(field, raw string) (datatypes.Date, error) {
	t, err := validator.ParseDate(raw)
	if err != nil {
		return datatypes.Date{}, validationError(field, "data deve estar no formato YYYY-MM-DD", raw)
	}
	return datatypes.Date(t), nil
}

func today() datatypes.Date {
	now := time.Now().UTC()
	return datatypes.Date(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

func newListResult[M any, R any](items []M, total int64, page repositories.Pagination, convert func(M) R) *ListResult[R] {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return &ListResult[R]{
		Items: out,
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}
}

func identity[T any](v T) T { return v }

// publish sends an event after commit. Delivery failures are logged only.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType events.EventType, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "event_type", eventType, "error", err)
	}
}

// mapRepoError turns repository sentinels into service errors
func mapRepoError(err error, notFound error, action string) error {
	switch {
	case err == nil:
		return nil
	case repositories.IsNotFoundError(err):
		return notFound
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
