package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

const itemColumns = `i.id, i.name, i.sku, i.description, i.price, i.currency, i.category_id, i.material_id,
	i.stock_quantity, i.likes, i.is_active, i.created_at, i.updated_at`

// ListItems returns one page of items matching every predicate in f, with the total count
// of matches independent of limit and offset.
func (r *PgRepository) ListItems(ctx context.Context, f domain.ItemFilter) (domain.ItemPage, error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultItemLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := buildItemWhere(f)

	query := "SELECT " + itemColumns + " FROM items i" + where.String() + itemOrderBy(f.Sort) + " LIMIT ? OFFSET ?"
	query, args, err := sqlx.In(query, append(where.args, f.Limit, f.Offset)...)
	if err != nil {
		return domain.ItemPage{}, err
	}

	var total int
	items := make([]domain.Item, 0)
	err = r.readTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		total, err = r.count(ctx, tx, "SELECT COUNT(*) FROM items i"+where.String(), where.args...)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}

		if err := tx.SelectContext(ctx, &items, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("list items: %w", mapError(err))
		}

		return r.attachItemRelations(ctx, tx, items)
	})
	if err != nil {
		return domain.ItemPage{}, err
	}

	return domain.ItemPage{
		Items:  items,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}, nil
}

func (r *PgRepository) GetItem(ctx context.Context, id string) (domain.Item, error) {
	return r.getItem(ctx, r.db, id)
}

func (r *PgRepository) getItem(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Item, error) {
	var item domain.Item
	query := r.db.Rebind("SELECT " + itemColumns + " FROM items i WHERE i.id = ?")
	if err := sqlx.GetContext(ctx, q, &item, query, id); err != nil {
		return item, fmt.Errorf("get item %s: %w", id, mapError(err))
	}

	items := []domain.Item{item}
	if err := r.attachItemRelations(ctx, q, items); err != nil {
		return domain.Item{}, err
	}
	return items[0], nil
}

func (r *PgRepository) CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	now := r.now()
	item := domain.Item{
		ID:            uuid.NewString(),
		Name:          in.Name,
		SKU:           in.SKU,
		Description:   in.Description,
		Price:         in.Price,
		Currency:      in.Currency,
		CategoryID:    in.CategoryID,
		MaterialID:    in.MaterialID,
		StockQuantity: in.StockQuantity,
		IsActive:      in.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	query := `
		INSERT INTO items (
			id, name, sku, description, price, currency, category_id, material_id,
			stock_quantity, likes, is_active, created_at, updated_at
		) VALUES (
			:id, :name, :sku, :description, :price, :currency, :category_id, :material_id,
			:stock_quantity, :likes, :is_active, :created_at, :updated_at
		)`

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
			return mapError(err)
		}
		return r.linkItemTags(ctx, tx, item.ID, in.TagIDs)
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}

	return r.GetItem(ctx, item.ID)
}

func (r *PgRepository) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityItem, id, patch); err != nil {
		return domain.Item{}, fmt.Errorf("update item %s: %w", id, err)
	}
	return r.GetItem(ctx, id)
}

// DeleteItem removes the item and returns the storage paths of the images that went with it.
func (r *PgRepository) DeleteItem(ctx context.Context, id string) ([]string, error) {
	paths, n, err := r.deleteItems(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("delete item %s: %w", id, err)
	}
	if n == 0 {
		return nil, notFound("item", id)
	}
	return paths, nil
}

// DeleteItems bulk deletes items and returns the storage paths of their images with the count removed.
func (r *PgRepository) DeleteItems(ctx context.Context, ids []string) ([]string, int, error) {
	if len(ids) == 0 {
		return nil, 0, nil
	}
	paths, n, err := r.deleteItems(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("bulk delete items: %w", err)
	}
	return paths, n, nil
}

func (r *PgRepository) deleteItems(ctx context.Context, ids []string) ([]string, int, error) {
	paths := make([]string, 0)
	var deleted int

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sqlx.In("SELECT storage_path FROM item_images WHERE item_id IN (?) ORDER BY created_at ASC", ids)
		if err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &paths, tx.Rebind(query), args...); err != nil {
			return mapError(err)
		}

		deleted, err = r.deleteIn(ctx, tx, "items", ids)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return paths, deleted, nil
}

// IncrementLikes bumps the counter in a single UPDATE so concurrent likes are never lost.
func (r *PgRepository) IncrementLikes(ctx context.Context, id string) (domain.Item, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE items SET likes = likes + 1 WHERE id = ?"), id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("increment likes %s: %w", id, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Item{}, notFound("item", id)
	}
	return r.GetItem(ctx, id)
}

// AssignTags attaches tags to an item, skipping ones it already holds, and returns the item's tags.
func (r *PgRepository) AssignTags(ctx context.Context, itemID string, tagIDs []string) ([]domain.Tag, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := r.exists(ctx, tx, "items", itemID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("item", itemID)
		}
		return r.linkItemTags(ctx, tx, itemID, tagIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("assign tags to item %s: %w", itemID, err)
	}

	tags, err := r.itemTags(ctx, r.db, []string{itemID})
	if err != nil {
		return nil, err
	}
	if t := tags[itemID]; t != nil {
		return t, nil
	}
	return []domain.Tag{}, nil
}

func (r *PgRepository) RemoveItemTag(ctx context.Context, itemID, tagID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?"), itemID, tagID)
	if err != nil {
		return fmt.Errorf("remove tag %s from item %s: %w", tagID, itemID, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: tag %s is not attached to item %s", domain.ErrNotFound, tagID, itemID)
	}
	return nil
}

func (r *PgRepository) linkItemTags(ctx context.Context, tx *sqlx.Tx, itemID string, tagIDs []string) error {
	tagIDs = unique(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}

	found, err := r.count(ctx, tx, "SELECT COUNT(*) FROM tags WHERE id IN (?)", tagIDs)
	if err != nil {
		return err
	}
	if found != len(tagIDs) {
		return fmt.Errorf("%w: one or more tags do not exist", domain.ErrInvalidArgument)
	}

	query := tx.Rebind("INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, query, itemID, tagID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
