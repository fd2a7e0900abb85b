package app

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"henalis/pkg/httperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of req.
func Validate(req any, action string) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return httperror.BadRequest(
				action+".validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return httperror.InternalServerError(
			action+".validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}
	return nil
}

// Paging clamps limit and offset query values.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Paging) Clamp(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return limit, max(offset, 0)
}

// Created marks a response that should be sent with 201.
type Created struct{}

func (Created) StatusCode() int { return 201 }
