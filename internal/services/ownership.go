package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
)

// Owned is implemented by every record keyed on a user RA
type Owned interface {
	OwnerRA() string
}

// AssertOwns fails with a PermissionError unless user owns resource.
// RAs are compared byte for byte.
func AssertOwns(resource Owned, user *models.User) error {
	if user == nil {
		return ErrUnauthorized
	}
	if resource.OwnerRA() != user.RA {
		return NewPermissionError(user.RA, 0, "resource", "access", "owned by another user")
	}
	return nil
}

// loadOwned fetches a record and checks ownership. Missing rows map to
// notFound before ownership is looked at, so an unknown id is always 404.
func loadOwned[T Owned](
	ctx context.Context,
	tx *gorm.DB,
	get func(context.Context, *gorm.DB, uint) (T, error),
	id uint,
	user *models.User,
	resource, action string,
	notFound error,
) (T, error) {
	var zero T

	item, err := get(ctx, tx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return zero, notFound
		}
		return zero, fmt.Errorf("failed to load %s %d: %w", resource, id, err)
	}

	if err := AssertOwns(item, user); err != nil {
		return zero, ownershipError(err, id, resource, action)
	}
	return item, nil
}

// ownershipError names the resource on a PermissionError from AssertOwns
func ownershipError(err error, id uint, resource, action string) error {
	var permErr *PermissionError
	if errors.As(err, &permErr) {
		permErr.ResourceID = id
		permErr.Resource = resource
		permErr.Action = action
	}
	return err
}
