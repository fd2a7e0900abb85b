package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"henalis/domain"
)

func (r *PgRepository) ListBlogPosts(ctx context.Context, f domain.BlogPostFilter) ([]domain.BlogPost, error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultBlogLimit
	}

	w := &itemWhere{}
	if f.PublishedOnly {
		w.add("p.is_published = ?", true)
	}
	if f.Search != "" {
		w.add(`LOWER(p.title) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}
	if f.TagID != nil {
		w.add("p.id IN (SELECT pt.post_id FROM blog_post_tags pt WHERE pt.tag_id = ?)", *f.TagID)
	}

	query := "SELECT p.* FROM blog_posts p" + w.String() + " ORDER BY p.created_at DESC, p.id ASC LIMIT ? OFFSET ?"
	args := append(w.args, f.Limit, f.Offset)

	posts := make([]domain.BlogPost, 0)
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", mapError(err))
	}
	if err := r.attachBlogTags(ctx, r.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBlogPost fetches a post by id. With publishedOnly set, drafts are reported as not found.
func (r *PgRepository) GetBlogPost(ctx context.Context, id string, publishedOnly bool) (domain.BlogPost, error) {
	var post domain.BlogPost
	if err := r.getByID(ctx, r.db, &post, "blog_posts", id); err != nil {
		return post, fmt.Errorf("get blog post %s: %w", id, err)
	}
	if publishedOnly && !post.IsPublished {
		return domain.BlogPost{}, notFound("blog post", id)
	}

	posts := []domain.BlogPost{post}
	if err := r.attachBlogTags(ctx, r.db, posts); err != nil {
		return domain.BlogPost{}, err
	}
	return posts[0], nil
}

func (r *PgRepository) CreateBlogPost(ctx context.Context, in domain.NewBlogPost) (domain.BlogPost, error) {
	now := r.now()
	post := domain.BlogPost{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Slug:          in.Slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Author:        in.Author,
		ReadTime:      domain.ReadTime(in.Content),
		IsPublished:   in.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Excerpt == nil {
		excerpt := domain.Excerpt(in.Content)
		post.Excerpt = &excerpt
	}

	query := `
		INSERT INTO blog_posts (
			id, title, slug, excerpt, content, cover_image_url, author, read_time,
			is_published, created_at, updated_at
		) VALUES (
			:id, :title, :slug, :excerpt, :content, :cover_image_url, :author, :read_time,
			:is_published, :created_at, :updated_at
		)`

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
			return mapError(err)
		}
		return r.linkBlogTags(ctx, tx, post.ID, in.TagIDs)
	})
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("create blog post: %w", err)
	}
	return r.GetBlogPost(ctx, post.ID, false)
}

// UpdateBlogPost applies the column patch and, when tag_ids is present, replaces the tag set.
func (r *PgRepository) UpdateBlogPost(ctx context.Context, id string, patch domain.BlogPostPatch) (domain.BlogPost, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.updateByID(ctx, tx, domain.EntityBlogPost, id, patch); err != nil {
			return err
		}
		if !patch.TagIDs.Set {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM blog_post_tags WHERE post_id = ?"), id); err != nil {
			return mapError(err)
		}
		if patch.TagIDs.Null {
			return nil
		}
		return r.linkBlogTags(ctx, tx, id, patch.TagIDs.Value)
	})
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("update blog post %s: %w", id, err)
	}
	return r.GetBlogPost(ctx, id, false)
}

func (r *PgRepository) DeleteBlogPost(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "blog_posts", id); err != nil {
		return fmt.Errorf("delete blog post %s: %w", id, err)
	}
	return nil
}

func (r *PgRepository) ListBlogTags(ctx context.Context) ([]domain.BlogTag, error) {
	tags := make([]domain.BlogTag, 0)
	if err := r.db.SelectContext(ctx, &tags, "SELECT * FROM blog_tags ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list blog tags: %w", mapError(err))
	}
	return tags, nil
}

func (r *PgRepository) GetBlogTag(ctx context.Context, id string) (domain.BlogTag, error) {
	var t domain.BlogTag
	if err := r.getByID(ctx, r.db, &t, "blog_tags", id); err != nil {
		return t, fmt.Errorf("get blog tag %s: %w", id, err)
	}
	return t, nil
}

func (r *PgRepository) CreateBlogTag(ctx context.Context, t domain.BlogTag) (domain.BlogTag, error) {
	t.ID = uuid.NewString()
	query := "INSERT INTO blog_tags (id, name, is_category) VALUES (:id, :name, :is_category)"
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return domain.BlogTag{}, fmt.Errorf("create blog tag: %w", mapError(err))
	}
	return t, nil
}

func (r *PgRepository) UpdateBlogTag(ctx context.Context, id string, patch domain.BlogTagPatch) (domain.BlogTag, error) {
	if err := r.updateByID(ctx, r.db, domain.EntityBlogTag, id, patch); err != nil {
		return domain.BlogTag{}, fmt.Errorf("update blog tag %s: %w", id, err)
	}
	return r.GetBlogTag(ctx, id)
}

func (r *PgRepository) DeleteBlogTag(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, "blog_tags", id); err != nil {
		return fmt.Errorf("delete blog tag %s: %w", id, err)
	}
	return nil
}

func (r *PgRepository) linkBlogTags(ctx context.Context, tx *sqlx.Tx, postID string, tagIDs []string) error {
	tagIDs = unique(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}

	found, err := r.count(ctx, tx, "SELECT COUNT(*) FROM blog_tags WHERE id IN (?)", tagIDs)
	if err != nil {
		return err
	}
	if found != len(tagIDs) {
		return fmt.Errorf("%w: one or more blog tags do not exist", domain.ErrInvalidArgument)
	}

	query := tx.Rebind("INSERT INTO blog_post_tags (post_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, query, postID, tagID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

type postTagRow struct {
	PostID string `db:"post_id"`
	domain.BlogTag
}

func (r *PgRepository) attachBlogTags(ctx context.Context, q sqlx.QueryerContext, posts []domain.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []postTagRow
	query := `
		SELECT pt.post_id, t.id, t.name, t.is_category
		FROM blog_post_tags pt
		JOIN blog_tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (?)
		ORDER BY t.name ASC`
	if err := r.selectIn(ctx, q, &rows, query, ids); err != nil {
		return fmt.Errorf("load blog post tags: %w", err)
	}

	byPost := make(map[string][]domain.BlogTag, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.BlogTag)
	}
	for i := range posts {
		posts[i].Tags = byPost[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []domain.BlogTag{}
		}
	}
	return nil
}
