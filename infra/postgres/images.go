package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

// ListItemImages returns the item's images, primary first, then oldest first.
func (r *PgRepository) ListItemImages(ctx context.Context, itemID string) ([]domain.ItemImage, error) {
	ok, err := r.exists(ctx, r.db, "items", itemID)
	if err != nil {
		return nil, fmt.Errorf("list images of item %s: %w", itemID, err)
	}
	if !ok {
		return nil, notFound("item", itemID)
	}

	images := make([]domain.ItemImage, 0)
	query := r.db.Rebind("SELECT * FROM item_images WHERE item_id = ? ORDER BY is_primary DESC, created_at ASC, id ASC")
	if err := r.db.SelectContext(ctx, &images, query, itemID); err != nil {
		return nil, fmt.Errorf("list images of item %s: %w", itemID, mapError(err))
	}
	return images, nil
}

// AddItemImage stores image metadata. The first image of an item always becomes primary,
// and a new primary image demotes the others in the same transaction.
func (r *PgRepository) AddItemImage(ctx context.Context, img domain.ItemImage) (domain.ItemImage, error) {
	img.ID = uuid.NewString()
	img.CreatedAt = r.now()

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockItem(ctx, tx, img.ItemID); err != nil {
			return err
		}

		existing, err := r.count(ctx, tx, "SELECT COUNT(*) FROM item_images WHERE item_id = ?", img.ItemID)
		if err != nil {
			return err
		}
		if existing == 0 {
			img.IsPrimary = true
		} else if img.IsPrimary {
			if err := clearPrimary(ctx, tx, img.ItemID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO item_images (id, item_id, storage_path, url, is_primary, created_at)
			VALUES (:id, :item_id, :storage_path, :url, :is_primary, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, img); err != nil {
			return mapError(err)
		}
		return nil
	})
	if err != nil {
		return domain.ItemImage{}, fmt.Errorf("add image to item %s: %w", img.ItemID, err)
	}
	return img, nil
}

// SetPrimaryImage clears the flag on every image of the item and sets it on imageID inside
// one transaction, so readers never see zero or two primaries.
func (r *PgRepository) SetPrimaryImage(ctx context.Context, itemID, imageID string) (domain.ItemImage, error) {
	var img domain.ItemImage

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockItem(ctx, tx, itemID); err != nil {
			return err
		}

		var err error
		img, err = getItemImage(ctx, tx, itemID, imageID)
		if err != nil {
			return err
		}
		if err := clearPrimary(ctx, tx, itemID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE item_images SET is_primary = ? WHERE id = ?"), true, imageID); err != nil {
			return mapError(err)
		}
		img.IsPrimary = true
		return nil
	})
	if err != nil {
		return domain.ItemImage{}, fmt.Errorf("set primary image %s: %w", imageID, err)
	}
	return img, nil
}

// DeleteItemImage removes the image row and returns it. When the primary image goes, the
// oldest remaining image is promoted.
func (r *PgRepository) DeleteItemImage(ctx context.Context, itemID, imageID string) (domain.ItemImage, error) {
	var img domain.ItemImage

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockItem(ctx, tx, itemID); err != nil {
			return err
		}

		// Read after the lock: a concurrent SetPrimaryImage may have moved the flag.
		var err error
		img, err = getItemImage(ctx, tx, itemID, imageID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM item_images WHERE id = ?"), imageID); err != nil {
			return mapError(err)
		}
		if !img.IsPrimary {
			return nil
		}

		var next string
		query := tx.Rebind("SELECT id FROM item_images WHERE item_id = ? ORDER BY created_at ASC, id ASC LIMIT 1")
		if err := tx.GetContext(ctx, &next, query, itemID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return mapError(err)
		}
		_, err = tx.ExecContext(ctx, tx.Rebind("UPDATE item_images SET is_primary = ? WHERE id = ?"), true, next)
		return mapError(err)
	})
	if err != nil {
		return domain.ItemImage{}, fmt.Errorf("delete image %s: %w", imageID, err)
	}
	return img, nil
}

// lockItem takes the row lock on the parent item for the rest of tx. Every transaction that
// reads or moves is_primary goes through it first, so image changes of one item are serialised.
func lockItem(ctx context.Context, tx *sqlx.Tx, itemID string) error {
	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE items SET updated_at = updated_at WHERE id = ?"), itemID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("item", itemID)
	}
	return nil
}

func getItemImage(ctx context.Context, tx *sqlx.Tx, itemID, imageID string) (domain.ItemImage, error) {
	var img domain.ItemImage
	query := tx.Rebind("SELECT * FROM item_images WHERE id = ? AND item_id = ?")
	if err := tx.GetContext(ctx, &img, query, imageID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return img, fmt.Errorf("%w: image %s of item %s", domain.ErrNotFound, imageID, itemID)
		}
		return img, mapError(err)
	}
	return img, nil
}

func clearPrimary(ctx context.Context, tx *sqlx.Tx, itemID string) error {
	_, err := tx.ExecContext(ctx, tx.Rebind("UPDATE item_images SET is_primary = ? WHERE item_id = ?"), false, itemID)
	return mapError(err)
}
