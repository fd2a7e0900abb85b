package blog

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

type GetTagsRequest struct {
}

type GetTagsResponse struct {
	Tags []domain.BlogTag `json:"tags"`
}

func (h GetTagsHandler) Handle(ctx context.Context, _ *GetTagsRequest) (*GetTagsResponse, error) {
	tags, err := h.repository.ListBlogTags(ctx)
	if err != nil {
		return nil, app.MapError(err, "blog_tag.index")
	}

	return &GetTagsResponse{Tags: tags}, nil
}

type CreateTagHandler struct {
	repository Repository
}

func NewCreateTagHandler(repository Repository) *CreateTagHandler {
	return &CreateTagHandler{repository: repository}
}

type CreateTagRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	IsCategory bool   `json:"is_category"`
}

type CreateTagResponse struct {
	app.Created
	Tag domain.BlogTag `json:"tag"`
}

func (h CreateTagHandler) Handle(ctx context.Context, req *CreateTagRequest) (*CreateTagResponse, error) {
	if err := app.Validate(req, "blog_tag.create"); err != nil {
		return nil, err
	}

	tag, err := h.repository.CreateBlogTag(ctx, domain.BlogTag{
		Name:       strings.TrimSpace(req.Name),
		IsCategory: req.IsCategory,
	})
	if err != nil {
		return nil, app.MapError(err, "blog_tag.create")
	}

	return &CreateTagResponse{Tag: tag}, nil
}

type TagRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}

type UpdateTagHandler struct {
	repository Repository
}

func NewUpdateTagHandler(repository Repository) *UpdateTagHandler {
	return &UpdateTagHandler{repository: repository}
}

type UpdateTagRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.BlogTagPatch
}

type TagResponse struct {
	Tag domain.BlogTag `json:"tag"`
}

func (h UpdateTagHandler) Handle(ctx context.Context, req *UpdateTagRequest) (*TagResponse, error) {
	if err := app.Validate(req, "blog_tag.update"); err != nil {
		return nil, err
	}

	tag, err := h.repository.UpdateBlogTag(ctx, req.ID, req.BlogTagPatch)
	if err != nil {
		return nil, app.MapError(err, "blog_tag.update")
	}

	return &TagResponse{Tag: tag}, nil
}

type DeleteTagHandler struct {
	repository Repository
}

func NewDeleteTagHandler(repository Repository) *DeleteTagHandler {
	return &DeleteTagHandler{repository: repository}
}

func (h DeleteTagHandler) Handle(ctx context.Context, req *TagRequest) (*DeleteResponse, error) {
	if err := app.Validate(req, "blog_tag.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteBlogTag(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "blog_tag.destroy")
	}

	return nil, httperror.NoContent("blog_tag.destroy.success", "Tag deleted", nil)
}
