package repositories

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate reports a unique constraint violation
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidReference reports a foreign key violation
	ErrInvalidReference = errors.New("invalid reference")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

func IsInvalidReferenceError(err error) bool {
	return errors.Is(err, ErrInvalidReference)
}
