package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"henalis/domain"
)

// mapError translates driver errors into domain sentinels. SQLite messages are matched
// as text so the test driver maps the same way as Postgres.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Detail)
		case "23503", "23514", "22P02":
			return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, pqErr.Message)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, msg)
	}
	return err
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
}
