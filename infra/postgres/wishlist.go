package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"henalis/domain"
)

// AddToWishlist is idempotent: an existing (user, item) entry is returned unchanged.
func (r *PgRepository) AddToWishlist(ctx context.Context, userID, itemID string) (domain.WishlistEntry, error) {
	item, err := r.GetItem(ctx, itemID)
	if err != nil {
		return domain.WishlistEntry{}, err
	}

	entry, err := r.wishlistEntry(ctx, userID, itemID)
	if err == nil {
		entry.Item = &item
		return entry, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.WishlistEntry{}, err
	}

	entry = domain.WishlistEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    itemID,
		CreatedAt: r.now(),
	}
	query := `
		INSERT INTO wishlists (id, user_id, item_id, created_at)
		VALUES (:id, :user_id, :item_id, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		err = mapError(err)
		if !errors.Is(err, domain.ErrConflict) {
			return domain.WishlistEntry{}, fmt.Errorf("add item %s to wishlist: %w", itemID, err)
		}
		// lost a race with a concurrent add of the same pair
		if entry, err = r.wishlistEntry(ctx, userID, itemID); err != nil {
			return domain.WishlistEntry{}, err
		}
	}

	entry.Item = &item
	return entry, nil
}

func (r *PgRepository) wishlistEntry(ctx context.Context, userID, itemID string) (domain.WishlistEntry, error) {
	var entry domain.WishlistEntry
	query := r.db.Rebind("SELECT * FROM wishlists WHERE user_id = ? AND item_id = ?")
	if err := r.db.GetContext(ctx, &entry, query, userID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, fmt.Errorf("%w: wishlist entry for item %s", domain.ErrNotFound, itemID)
		}
		return entry, mapError(err)
	}
	return entry, nil
}

func (r *PgRepository) RemoveFromWishlist(ctx context.Context, userID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM wishlists WHERE user_id = ? AND item_id = ?"), userID, itemID)
	if err != nil {
		return false, fmt.Errorf("remove item %s from wishlist: %w", itemID, mapError(err))
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PgRepository) ClearWishlist(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM wishlists WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("clear wishlist: %w", mapError(err))
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListWishlist returns the user's entries newest first with their items attached.
func (r *PgRepository) ListWishlist(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	entries := make([]domain.WishlistEntry, 0)
	query := r.db.Rebind("SELECT * FROM wishlists WHERE user_id = ? ORDER BY created_at DESC, id ASC")
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", mapError(err))
	}
	if len(entries) == 0 {
		return entries, nil
	}

	itemIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		itemIDs = append(itemIDs, e.ItemID)
	}

	var items []domain.Item
	if err := r.selectIn(ctx, r.db, &items, "SELECT "+itemColumns+" FROM items i WHERE i.id IN (?)", itemIDs); err != nil {
		return nil, fmt.Errorf("load wishlist items: %w", err)
	}
	if err := r.attachItemRelations(ctx, r.db, items); err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for i := range entries {
		entries[i].Item = byID[entries[i].ItemID]
	}
	return entries, nil
}
