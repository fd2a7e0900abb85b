package catalog

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type GetTagsHandler struct {
	repository Repository
}

func NewGetTagsHandler(repository Repository) *GetTagsHandler {
	return &GetTagsHandler{repository: repository}
}

type GetTagsResponse struct {
	Tags []domain.Tag `json:"tags"`
}

func (h GetTagsHandler) Handle(ctx context.Context, req *ListRequest) (*GetTagsResponse, error) {
	if err := app.Validate(req, "tag.index"); err != nil {
		return nil, err
	}

	limit, offset := paging.Clamp(req.Limit, req.Offset)
	tags, err := h.repository.ListTags(ctx, strings.TrimSpace(req.Query), limit, offset)
	if err != nil {
		return nil, app.MapError(err, "tag.index")
	}

	return &GetTagsResponse{Tags: tags}, nil
}

type GetTagHandler struct {
	repository Repository
}

func NewGetTagHandler(repository Repository) *GetTagHandler {
	return &GetTagHandler{repository: repository}
}

type TagResponse struct {
	Tag domain.Tag `json:"tag"`
}

func (h GetTagHandler) Handle(ctx context.Context, req *ByIDRequest) (*TagResponse, error) {
	if err := app.Validate(req, "tag.show"); err != nil {
		return nil, err
	}

	tag, err := h.repository.GetTag(ctx, req.ID)
	if err != nil {
		return nil, app.MapError(err, "tag.show")
	}

	return &TagResponse{Tag: tag}, nil
}

type CreateTagHandler struct {
	repository Repository
}

func NewCreateTagHandler(repository Repository) *CreateTagHandler {
	return &CreateTagHandler{repository: repository}
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateTagResponse struct {
	app.Created
	Tag domain.Tag `json:"tag"`
}

func (h CreateTagHandler) Handle(ctx context.Context, req *CreateTagRequest) (*CreateTagResponse, error) {
	if err := app.Validate(req, "tag.create"); err != nil {
		return nil, err
	}

	tag, err := h.repository.CreateTag(ctx, domain.Tag{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return nil, app.MapError(err, "tag.create")
	}

	return &CreateTagResponse{Tag: tag}, nil
}

type UpdateTagHandler struct {
	repository Repository
}

func NewUpdateTagHandler(repository Repository) *UpdateTagHandler {
	return &UpdateTagHandler{repository: repository}
}

type UpdateTagRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.TagPatch
}

func (h UpdateTagHandler) Handle(ctx context.Context, req *UpdateTagRequest) (*TagResponse, error) {
	if err := app.Validate(req, "tag.update"); err != nil {
		return nil, err
	}

	tag, err := h.repository.UpdateTag(ctx, req.ID, req.TagPatch)
	if err != nil {
		return nil, app.MapError(err, "tag.update")
	}

	return &TagResponse{Tag: tag}, nil
}

type DeleteTagHandler struct {
	repository Repository
}

func NewDeleteTagHandler(repository Repository) *DeleteTagHandler {
	return &DeleteTagHandler{repository: repository}
}

func (h DeleteTagHandler) Handle(ctx context.Context, req *ByIDRequest) (*Empty, error) {
	if err := app.Validate(req, "tag.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteTag(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "tag.destroy")
	}

	return nil, httperror.NoContent("tag.destroy.success", "Tag deleted successfully", nil)
}
