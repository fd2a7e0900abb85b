package catalog

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type GetMaterialsHandler struct {
	repository Repository
}

func NewGetMaterialsHandler(repository Repository) *GetMaterialsHandler {
	return &GetMaterialsHandler{repository: repository}
}

type GetMaterialsResponse struct {
	Materials []domain.Material `json:"materials"`
}

func (h GetMaterialsHandler) Handle(ctx context.Context, req *ListRequest) (*GetMaterialsResponse, error) {
	if err := app.Validate(req, "material.index"); err != nil {
		return nil, err
	}

	limit, offset := paging.Clamp(req.Limit, req.Offset)
	materials, err := h.repository.ListMaterials(ctx, strings.TrimSpace(req.Query), limit, offset)
	if err != nil {
		return nil, app.MapError(err, "material.index")
	}

	return &GetMaterialsResponse{Materials: materials}, nil
}

type GetMaterialHandler struct {
	repository Repository
}

func NewGetMaterialHandler(repository Repository) *GetMaterialHandler {
	return &GetMaterialHandler{repository: repository}
}

type MaterialResponse struct {
	Material domain.Material `json:"material"`
}

func (h GetMaterialHandler) Handle(ctx context.Context, req *ByIDRequest) (*MaterialResponse, error) {
	if err := app.Validate(req, "material.show"); err != nil {
		return nil, err
	}

	material, err := h.repository.GetMaterial(ctx, req.ID)
	if err != nil {
		return nil, app.MapError(err, "material.show")
	}

	return &MaterialResponse{Material: material}, nil
}

type CreateMaterialHandler struct {
	repository Repository
}

func NewCreateMaterialHandler(repository Repository) *CreateMaterialHandler {
	return &CreateMaterialHandler{repository: repository}
}

type CreateMaterialRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

type CreateMaterialResponse struct {
	app.Created
	Material domain.Material `json:"material"`
}

func (h CreateMaterialHandler) Handle(ctx context.Context, req *CreateMaterialRequest) (*CreateMaterialResponse, error) {
	if err := app.Validate(req, "material.create"); err != nil {
		return nil, err
	}

	material, err := h.repository.CreateMaterial(ctx, domain.Material{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return nil, app.MapError(err, "material.create")
	}

	return &CreateMaterialResponse{Material: material}, nil
}

type UpdateMaterialHandler struct {
	repository Repository
}

func NewUpdateMaterialHandler(repository Repository) *UpdateMaterialHandler {
	return &UpdateMaterialHandler{repository: repository}
}

type UpdateMaterialRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.MaterialPatch
}

func (h UpdateMaterialHandler) Handle(ctx context.Context, req *UpdateMaterialRequest) (*MaterialResponse, error) {
	if err := app.Validate(req, "material.update"); err != nil {
		return nil, err
	}

	material, err := h.repository.UpdateMaterial(ctx, req.ID, req.MaterialPatch)
	if err != nil {
		return nil, app.MapError(err, "material.update")
	}

	return &MaterialResponse{Material: material}, nil
}

type DeleteMaterialHandler struct {
	repository Repository
}

func NewDeleteMaterialHandler(repository Repository) *DeleteMaterialHandler {
	return &DeleteMaterialHandler{repository: repository}
}

func (h DeleteMaterialHandler) Handle(ctx context.Context, req *ByIDRequest) (*Empty, error) {
	if err := app.Validate(req, "material.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteMaterial(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "material.destroy")
	}

	return nil, httperror.NoContent("material.destroy.success", "Material deleted successfully", nil)
}
