package app

import (
	"errors"

	"henalis/domain"
	"henalis/pkg/httperror"
)

// MapError turns a repository error into an HTTP error whose code is prefixed by action,
// e.g. "item.update.not_found".
func MapError(err error, action string) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return httperror.NotFound(action+".not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		return httperror.Conflict(action+".conflict", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidArgument):
		return httperror.BadRequest(action+".invalid_argument", err.Error(), nil)
	}

	return httperror.InternalServerError(
		action+".failed",
		"An unexpected error occurred",
		[]string{err.Error()},
	)
}
