package catalog

import (
	"context"

	"henalis/app"
	"henalis/domain"
)

type Repository interface {
	ListCategories(ctx context.Context, search string, limit, offset int) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListMaterials(ctx context.Context, search string, limit, offset int) ([]domain.Material, error)
	GetMaterial(ctx context.Context, id string) (domain.Material, error)
	CreateMaterial(ctx context.Context, m domain.Material) (domain.Material, error)
	UpdateMaterial(ctx context.Context, id string, patch domain.MaterialPatch) (domain.Material, error)
	DeleteMaterial(ctx context.Context, id string) error

	ListTags(ctx context.Context, search string, limit, offset int) ([]domain.Tag, error)
	GetTag(ctx context.Context, id string) (domain.Tag, error)
	CreateTag(ctx context.Context, t domain.Tag) (domain.Tag, error)
	UpdateTag(ctx context.Context, id string, patch domain.TagPatch) (domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

var paging = app.Paging{DefaultLimit: 100, MaxLimit: 1000}

type ListRequest struct {
	Query  string `query:"q"`
	Limit  int    `query:"limit" validate:"gte=0"`
	Offset int    `query:"offset" validate:"gte=0"`
}

type ByIDRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}

type Empty struct {
}
