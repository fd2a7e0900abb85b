package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

// setClause renders the SET list for a patch, appending updated_at when the table tracks it.
func (r *PgRepository) setClause(entity domain.Entity, assigns []domain.Assignment) (string, []any) {
	sets := make([]string, 0, len(assigns)+1)
	args := make([]any, 0, len(assigns)+1)
	for _, a := range assigns {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	if entity.TracksUpdates() {
		sets = append(sets, "updated_at = ?")
		args = append(args, r.now())
	}
	return strings.Join(sets, ", "), args
}

// updateByID applies a patch to a single row. A patch without assignments only checks existence.
func (r *PgRepository) updateByID(ctx context.Context, q sqlx.ExtContext, entity domain.Entity, id string, patch domain.Patch) error {
	table, err := entity.Table()
	if err != nil {
		return err
	}

	assigns, err := patch.Assignments()
	if err != nil {
		return err
	}

	if len(assigns) == 0 {
		ok, err := r.exists(ctx, q, table, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(table, id)
		}
		return nil
	}

	set, args := r.setClause(entity, assigns)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, set)

	res, err := q.ExecContext(ctx, r.db.Rebind(query), append(args, id)...)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(table, id)
	}
	return nil
}

func (r *PgRepository) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)), id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(table, id)
	}
	return nil
}

// BulkUpdate applies the same patch to every row of entity whose id is in ids and returns
// the number of rows changed. Empty ids or an empty patch is a no-op.
func (r *PgRepository) BulkUpdate(ctx context.Context, entity domain.Entity, ids []string, patch domain.Patch) (int, error) {
	table, err := entity.Table()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	assigns, err := patch.Assignments()
	if err != nil {
		return 0, err
	}
	if len(assigns) == 0 {
		return 0, nil
	}

	set, args := r.setClause(entity, assigns)
	query, args, err := sqlx.In(fmt.Sprintf("UPDATE %s SET %s WHERE id IN (?)", table, set), append(args, ids)...)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return mapError(err)
		}
		updated, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("bulk update %s: %w", table, err)
	}
	return int(updated), nil
}

// BulkDelete removes every row of entity whose id is in ids and returns how many were removed.
func (r *PgRepository) BulkDelete(ctx context.Context, entity domain.Entity, ids []string) (int, error) {
	table, err := entity.Table()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int
	err = r.withTx(ctx, func(tx *sqlx.Tx) error {
		deleted, err = r.deleteIn(ctx, tx, table, ids)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("bulk delete %s: %w", table, err)
	}
	return deleted, nil
}

func (r *PgRepository) deleteIn(ctx context.Context, tx *sqlx.Tx, table string, ids []string) (int, error) {
	query, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE id IN (?)", table), ids)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
