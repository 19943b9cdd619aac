package services

import (
	"errors"

	"gorm.io/gorm"
)

// Domain errors surfaced to the transport layer. Handlers branch on these
// with errors.Is to pick status codes, so each failure kind stays distinct.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrSelfFollow             = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing       = errors.New("already following this user")
	ErrNotFollowing           = errors.New("not following this user")
	ErrNotFound               = errors.New("resource not found")
	ErrPermissionDenied       = errors.New("permission denied")
)

// translateNotFound maps a storage-level missing-record error onto the
// domain taxonomy.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
