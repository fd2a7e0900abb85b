package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

// attachItemRelations loads category, material, images and tags for every item with one
// IN query per relation.
func (r *PgRepository) attachItemRelations(ctx context.Context, q sqlx.QueryerContext, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	itemIDs := make([]string, 0, len(items))
	var categoryIDs, materialIDs []string
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
		if item.CategoryID != nil {
			categoryIDs = append(categoryIDs, *item.CategoryID)
		}
		if item.MaterialID != nil {
			materialIDs = append(materialIDs, *item.MaterialID)
		}
	}

	var categories []domain.Category
	if err := r.selectIn(ctx, q, &categories, "SELECT * FROM categories WHERE id IN (?)", unique(categoryIDs)); err != nil {
		return fmt.Errorf("load item categories: %w", err)
	}
	categoryByID := make(map[string]*domain.Category, len(categories))
	for i := range categories {
		categoryByID[categories[i].ID] = &categories[i]
	}

	var materials []domain.Material
	if err := r.selectIn(ctx, q, &materials, "SELECT * FROM materials WHERE id IN (?)", unique(materialIDs)); err != nil {
		return fmt.Errorf("load item materials: %w", err)
	}
	materialByID := make(map[string]*domain.Material, len(materials))
	for i := range materials {
		materialByID[materials[i].ID] = &materials[i]
	}

	var images []domain.ItemImage
	if err := r.selectIn(ctx, q, &images,
		"SELECT * FROM item_images WHERE item_id IN (?) ORDER BY is_primary DESC, created_at ASC, id ASC", itemIDs); err != nil {
		return fmt.Errorf("load item images: %w", err)
	}
	imagesByItem := make(map[string][]domain.ItemImage, len(items))
	for _, img := range images {
		imagesByItem[img.ItemID] = append(imagesByItem[img.ItemID], img)
	}

	tagsByItem, err := r.itemTags(ctx, q, itemIDs)
	if err != nil {
		return err
	}

	for i := range items {
		item := &items[i]
		if item.CategoryID != nil {
			item.Category = categoryByID[*item.CategoryID]
		}
		if item.MaterialID != nil {
			item.Material = materialByID[*item.MaterialID]
		}
		item.Images = imagesByItem[item.ID]
		if item.Images == nil {
			item.Images = []domain.ItemImage{}
		}
		item.Tags = tagsByItem[item.ID]
		if item.Tags == nil {
			item.Tags = []domain.Tag{}
		}
	}
	return nil
}

type itemTagRow struct {
	ItemID string `db:"item_id"`
	domain.Tag
}

func (r *PgRepository) itemTags(ctx context.Context, q sqlx.QueryerContext, itemIDs []string) (map[string][]domain.Tag, error) {
	var rows []itemTagRow
	query := `
		SELECT it.item_id, t.id, t.name, t.created_at, t.updated_at
		FROM item_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id IN (?)
		ORDER BY t.name ASC`

	if err := r.selectIn(ctx, q, &rows, query, itemIDs); err != nil {
		return nil, fmt.Errorf("load item tags: %w", err)
	}

	tags := make(map[string][]domain.Tag, len(itemIDs))
	for _, row := range rows {
		tags[row.ItemID] = append(tags[row.ItemID], row.Tag)
	}
	return tags, nil
}

// selectIn runs a query with a single IN (?) list. An empty list selects nothing.
func (r *PgRepository) selectIn(ctx context.Context, q sqlx.QueryerContext, dest any, query string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	if err := sqlx.SelectContext(ctx, q, dest, r.db.Rebind(query), args...); err != nil {
		return mapError(err)
	}
	return nil
}
