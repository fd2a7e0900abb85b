package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

// listByName pages through a lookup table ordered by name, optionally narrowed by a
// case-insensitive substring match on name.
func (r *PgRepository) listByName(ctx context.Context, dest any, table, search string, limit, offset int) error {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	var args []any
	if search != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	query += " ORDER BY name ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	if err := r.db.SelectContext(ctx, dest, r.db.Rebind(query), args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PgRepository) getByID(ctx context.Context, q sqlx.QueryerContext, dest any, table, id string) error {
	query := r.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table))
	if err := sqlx.GetContext(ctx, q, dest, query, id); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PgRepository) ListCategories(ctx context.Context, search string, limit, offset int) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	if err := r.listByName(ctx, &categories, "categories", search, limit, offset); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *PgRepository) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	if err := r.getByID(ctx, r.db, &c, "categories", id); err != nil {
		return c, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (r *PgRepository) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = r.now()
	c.UpdatedAt = c.CreatedAt

	query := `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES (:id, :name, :slug, :description, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", mapError(err))
	}
	return c, nil
}

func (r *PgRepository) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (domain.Category, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityCategory, id, patch); err != nil {
		return domain.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	return r.GetCategory(ctx, id)
}

func (r *PgRepository) DeleteCategory(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "categories", id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

func (r *PgRepository) ListMaterials(ctx context.Context, search string, limit, offset int) ([]domain.Material, error) {
	materials := make([]domain.Material, 0)
	if err := r.listByName(ctx, &materials, "materials", search, limit, offset); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

func (r *PgRepository) GetMaterial(ctx context.Context, id string) (domain.Material, error) {
	var m domain.Material
	if err := r.getByID(ctx, r.db, &m, "materials", id); err != nil {
		return m, fmt.Errorf("get material %s: %w", id, err)
	}
	return m, nil
}

func (r *PgRepository) CreateMaterial(ctx context.Context, m domain.Material) (domain.Material, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = r.now()
	m.UpdatedAt = m.CreatedAt

	query := `
		INSERT INTO materials (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return domain.Material{}, fmt.Errorf("create material: %w", mapError(err))
	}
	return m, nil
}

func (r *PgRepository) UpdateMaterial(ctx context.Context, id string, patch domain.MaterialPatch) (domain.Material, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityMaterial, id, patch); err != nil {
		return domain.Material{}, fmt.Errorf("update material %s: %w", id, err)
	}
	return r.GetMaterial(ctx, id)
}

func (r *PgRepository) DeleteMaterial(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "materials", id); err != nil {
		return fmt.Errorf("delete material %s: %w", id, err)
	}
	return nil
}

func (r *PgRepository) ListTags(ctx context.Context, search string, limit, offset int) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0)
	if err := r.listByName(ctx, &tags, "tags", search, limit, offset); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *PgRepository) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	var t domain.Tag
	if err := r.getByID(ctx, r.db, &t, "tags", id); err != nil {
		return t, fmt.Errorf("get tag %s: %w", id, err)
	}
	return t, nil
}

func (r *PgRepository) CreateTag(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = r.now()
	t.UpdatedAt = t.CreatedAt

	query := `
		INSERT INTO tags (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", mapError(err))
	}
	return t, nil
}

func (r *PgRepository) UpdateTag(ctx context.Context, id string, patch domain.TagPatch) (domain.Tag, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityTag, id, patch); err != nil {
		return domain.Tag{}, fmt.Errorf("update tag %s: %w", id, err)
	}
	return r.GetTag(ctx, id)
}

func (r *PgRepository) DeleteTag(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "tags", id); err != nil {
		return fmt.Errorf("delete tag %s: %w", id, err)
	}
	return nil
}
