package catalog

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type GetCategoriesHandler struct {
	repository Repository
}

func NewGetCategoriesHandler(repository Repository) *GetCategoriesHandler {
	return &GetCategoriesHandler{repository: repository}
}

type GetCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

func (h GetCategoriesHandler) Handle(ctx context.Context, req *ListRequest) (*GetCategoriesResponse, error) {
	if err := app.Validate(req, "category.index"); err != nil {
		return nil, err
	}

	limit, offset := paging.Clamp(req.Limit, req.Offset)
	categories, err := h.repository.ListCategories(ctx, strings.TrimSpace(req.Query), limit, offset)
	if err != nil {
		return nil, app.MapError(err, "category.index")
	}

	return &GetCategoriesResponse{Categories: categories}, nil
}

type GetCategoryHandler struct {
	repository Repository
}

func NewGetCategoryHandler(repository Repository) *GetCategoryHandler {
	return &GetCategoryHandler{repository: repository}
}

type CategoryResponse struct {
	Category domain.Category `json:"category"`
}

func (h GetCategoryHandler) Handle(ctx context.Context, req *ByIDRequest) (*CategoryResponse, error) {
	if err := app.Validate(req, "category.show"); err != nil {
		return nil, err
	}

	category, err := h.repository.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, app.MapError(err, "category.show")
	}

	return &CategoryResponse{Category: category}, nil
}

type CreateCategoryHandler struct {
	repository Repository
}

func NewCreateCategoryHandler(repository Repository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repository: repository}
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"required,max=255"`
	Description *string `json:"description"`
}

type CreateCategoryResponse struct {
	app.Created
	Category domain.Category `json:"category"`
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	if err := app.Validate(req, "category.create"); err != nil {
		return nil, err
	}

	category, err := h.repository.CreateCategory(ctx, domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
	})
	if err != nil {
		return nil, app.MapError(err, "category.create")
	}

	return &CreateCategoryResponse{Category: category}, nil
}

type UpdateCategoryHandler struct {
	repository Repository
}

func NewUpdateCategoryHandler(repository Repository) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{repository: repository}
}

type UpdateCategoryRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.CategoryPatch
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := app.Validate(req, "category.update"); err != nil {
		return nil, err
	}

	category, err := h.repository.UpdateCategory(ctx, req.ID, req.CategoryPatch)
	if err != nil {
		return nil, app.MapError(err, "category.update")
	}

	return &CategoryResponse{Category: category}, nil
}

type DeleteCategoryHandler struct {
	repository Repository
}

func NewDeleteCategoryHandler(repository Repository) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{repository: repository}
}

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *ByIDRequest) (*Empty, error) {
	if err := app.Validate(req, "category.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteCategory(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "category.destroy")
	}

	return nil, httperror.NoContent("category.destroy.success", "Category deleted successfully", nil)
}
