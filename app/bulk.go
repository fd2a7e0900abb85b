package app

import (
	"context"

	"henalis/domain"
)

type BulkRepository interface {
	BulkUpdate(ctx context.Context, entity domain.Entity, ids []string, patch domain.Patch) (int, error)
	BulkDelete(ctx context.Context, entity domain.Entity, ids []string) (int, error)
}

// BulkUpdateHandler applies one typed patch to every listed row of entity.
type BulkUpdateHandler[P domain.Patch] struct {
	repository BulkRepository
	entity     domain.Entity
}

func NewBulkUpdateHandler[P domain.Patch](repository BulkRepository, entity domain.Entity) *BulkUpdateHandler[P] {
	return &BulkUpdateHandler[P]{repository: repository, entity: entity}
}

type BulkUpdateRequest[P domain.Patch] struct {
	IDs   []string `json:"ids" validate:"dive,uuid"`
	Patch P        `json:"patch"`
}

type BulkUpdateResponse struct {
	Updated int `json:"updated"`
}

func (h BulkUpdateHandler[P]) Handle(ctx context.Context, req *BulkUpdateRequest[P]) (*BulkUpdateResponse, error) {
	action := string(h.entity) + ".bulk_update"
	if err := Validate(req, action); err != nil {
		return nil, err
	}

	n, err := h.repository.BulkUpdate(ctx, h.entity, req.IDs, req.Patch)
	if err != nil {
		return nil, MapError(err, action)
	}

	return &BulkUpdateResponse{Updated: n}, nil
}

type BulkDeleteHandler struct {
	repository BulkRepository
	entity     domain.Entity
}

func NewBulkDeleteHandler(repository BulkRepository, entity domain.Entity) *BulkDeleteHandler {
	return &BulkDeleteHandler{repository: repository, entity: entity}
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"dive,uuid"`
}

type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

func (h BulkDeleteHandler) Handle(ctx context.Context, req *BulkDeleteRequest) (*BulkDeleteResponse, error) {
	action := string(h.entity) + ".bulk_destroy"
	if err := Validate(req, action); err != nil {
		return nil, err
	}

	n, err := h.repository.BulkDelete(ctx, h.entity, req.IDs)
	if err != nil {
		return nil, MapError(err, action)
	}

	return &BulkDeleteResponse{Deleted: n}, nil
}
