package blog

import (
	"context"
	"strings"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type Repository interface {
	ListBlogPosts(ctx context.Context, f domain.BlogPostFilter) ([]domain.BlogPost, error)
	GetBlogPost(ctx context.Context, id string, publishedOnly bool) (domain.BlogPost, error)
	CreateBlogPost(ctx context.Context, in domain.NewBlogPost) (domain.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, patch domain.BlogPostPatch) (domain.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	ListBlogTags(ctx context.Context) ([]domain.BlogTag, error)
	CreateBlogTag(ctx context.Context, t domain.BlogTag) (domain.BlogTag, error)
	UpdateBlogTag(ctx context.Context, id string, patch domain.BlogTagPatch) (domain.BlogTag, error)
	DeleteBlogTag(ctx context.Context, id string) error
}

var paging = app.Paging{DefaultLimit: domain.DefaultBlogLimit, MaxLimit: domain.MaxBlogLimit}

type GetPostsHandler struct {
	repository Repository
}

func NewGetPostsHandler(repository Repository) *GetPostsHandler {
	return &GetPostsHandler{repository: repository}
}

type GetPostsRequest struct {
	Search string `query:"search"`
	TagID  string `query:"tag_id" validate:"omitempty,uuid"`
	Limit  int    `query:"limit" validate:"gte=0"`
	Offset int    `query:"offset" validate:"gte=0"`
}

type GetPostsResponse struct {
	Posts []domain.BlogPost `json:"posts"`
}

// Handle lists published posts only.
func (h GetPostsHandler) Handle(ctx context.Context, req *GetPostsRequest) (*GetPostsResponse, error) {
	if err := app.Validate(req, "blog_post.index"); err != nil {
		return nil, err
	}

	filter := domain.BlogPostFilter{
		Search:        strings.TrimSpace(req.Search),
		PublishedOnly: true,
	}
	if req.TagID != "" {
		filter.TagID = &req.TagID
	}
	filter.Limit, filter.Offset = paging.Clamp(req.Limit, req.Offset)

	posts, err := h.repository.ListBlogPosts(ctx, filter)
	if err != nil {
		return nil, app.MapError(err, "blog_post.index")
	}

	return &GetPostsResponse{Posts: posts}, nil
}

type PostRequest struct {
	ID string `params:"id" validate:"required,uuid"`
}

type PostResponse struct {
	Post domain.BlogPost `json:"post"`
}

type GetPostHandler struct {
	repository Repository
}

func NewGetPostHandler(repository Repository) *GetPostHandler {
	return &GetPostHandler{repository: repository}
}

func (h GetPostHandler) Handle(ctx context.Context, req *PostRequest) (*PostResponse, error) {
	if err := app.Validate(req, "blog_post.show"); err != nil {
		return nil, err
	}

	post, err := h.repository.GetBlogPost(ctx, req.ID, true)
	if err != nil {
		return nil, app.MapError(err, "blog_post.show")
	}

	return &PostResponse{Post: post}, nil
}

type CreatePostHandler struct {
	repository Repository
}

func NewCreatePostHandler(repository Repository) *CreatePostHandler {
	return &CreatePostHandler{repository: repository}
}

type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Slug          string   `json:"slug" validate:"required,max=255"`
	Excerpt       *string  `json:"excerpt"`
	Content       string   `json:"content" validate:"required"`
	CoverImageURL *string  `json:"cover_image_url" validate:"omitempty,url"`
	Author        string   `json:"author" validate:"required,max=100"`
	IsPublished   bool     `json:"is_published"`
	TagIDs        []string `json:"tag_ids" validate:"omitempty,dive,uuid"`
}

type CreatePostResponse struct {
	app.Created
	Post domain.BlogPost `json:"post"`
}

func (h CreatePostHandler) Handle(ctx context.Context, req *CreatePostRequest) (*CreatePostResponse, error) {
	if err := app.Validate(req, "blog_post.create"); err != nil {
		return nil, err
	}

	post, err := h.repository.CreateBlogPost(ctx, domain.NewBlogPost{
		Title:         strings.TrimSpace(req.Title),
		Slug:          strings.TrimSpace(req.Slug),
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Author:        strings.TrimSpace(req.Author),
		IsPublished:   req.IsPublished,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		return nil, app.MapError(err, "blog_post.create")
	}

	return &CreatePostResponse{Post: post}, nil
}

type UpdatePostHandler struct {
	repository Repository
}

func NewUpdatePostHandler(repository Repository) *UpdatePostHandler {
	return &UpdatePostHandler{repository: repository}
}

type UpdatePostRequest struct {
	ID string `params:"id" validate:"required,uuid"`
	domain.BlogPostPatch
}

func (h UpdatePostHandler) Handle(ctx context.Context, req *UpdatePostRequest) (*PostResponse, error) {
	if err := app.Validate(req, "blog_post.update"); err != nil {
		return nil, err
	}

	post, err := h.repository.UpdateBlogPost(ctx, req.ID, req.BlogPostPatch)
	if err != nil {
		return nil, app.MapError(err, "blog_post.update")
	}

	return &PostResponse{Post: post}, nil
}

type DeletePostHandler struct {
	repository Repository
}

func NewDeletePostHandler(repository Repository) *DeletePostHandler {
	return &DeletePostHandler{repository: repository}
}

type DeleteResponse struct {
}

func (h DeletePostHandler) Handle(ctx context.Context, req *PostRequest) (*DeleteResponse, error) {
	if err := app.Validate(req, "blog_post.destroy"); err != nil {
		return nil, err
	}

	if err := h.repository.DeleteBlogPost(ctx, req.ID); err != nil {
		return nil, app.MapError(err, "blog_post.destroy")
	}

	return nil, httperror.NoContent("blog_post.destroy.success", "Post deleted", nil)
}
