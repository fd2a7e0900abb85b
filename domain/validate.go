package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func checkEmail(column string, v Optional[string]) error {
	if !v.Set || v.Null {
		return nil
	}
	if err := validate.Var(v.Value, "email"); err != nil {
		return fmt.Errorf("%w: %s is not a valid email address", ErrInvalidArgument, column)
	}
	return nil
}
