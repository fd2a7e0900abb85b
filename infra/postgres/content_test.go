package postgres_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"henalis/domain"
)

func TestContactMessages(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.CreateContactMessage(ctx, domain.ContactMessage{
		FullName: "Ada Lovelace", Email: "ada@example.com", Subject: domain.SubjectFeedback, Message: "Lovely chairs",
	})
	require.NoError(t, err)
	second, err := repo.CreateContactMessage(ctx, domain.ContactMessage{
		FullName: "Alan Turing", Email: "alan@example.com", Subject: domain.SubjectOrderStatus, Message: "Where is my desk?",
	})
	require.NoError(t, err)

	messages, err := repo.ListContactMessages(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, second.ID, messages[0].ID)

	phone := "+44 20 7946 0000"
	updated, err := repo.UpdateContactMessage(ctx, first.ID, domain.ContactMessagePatch{Phone: domain.Some(phone)})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, "Lovely chairs", updated.Message)

	require.NoError(t, repo.DeleteContactMessage(ctx, first.ID))
	assert.ErrorIs(t, repo.DeleteContactMessage(ctx, first.ID), domain.ErrNotFound)

	n, err := repo.DeleteAllContactMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubscribers(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a, err := repo.CreateSubscriber(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	_, err = repo.CreateSubscriber(ctx, "b@example.org")
	require.NoError(t, err)

	_, err = repo.CreateSubscriber(ctx, "a@example.com")
	assert.ErrorIs(t, err, domain.ErrConflict)

	found, err := repo.ListSubscribers(ctx, "EXAMPLE.ORG", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b@example.org", found[0].Email)

	updated, err := repo.UpdateSubscriber(ctx, a.ID, domain.SubscriberPatch{IsActive: domain.Some(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = repo.UpdateSubscriber(ctx, a.ID, domain.SubscriberPatch{Email: domain.Some("not-an-email")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBlogPosts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	news, err := repo.CreateBlogTag(ctx, domain.BlogTag{Name: "news", IsCategory: true})
	require.NoError(t, err)
	tips, err := repo.CreateBlogTag(ctx, domain.BlogTag{Name: "tips"})
	require.NoError(t, err)

	content := strings.Repeat("word ", 450)
	post, err := repo.CreateBlogPost(ctx, domain.NewBlogPost{
		Title: "Caring for Oak", Slug: "caring-for-oak", Content: content, Author: "Henalis", IsPublished: true,
		TagIDs: []string{news.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "3 min read", post.ReadTime)
	require.NotNil(t, post.Excerpt)
	assert.Len(t, []rune(*post.Excerpt), 200)
	require.Len(t, post.Tags, 1)

	draft, err := repo.CreateBlogPost(ctx, domain.NewBlogPost{
		Title: "Draft", Slug: "draft", Content: "soon", Author: "Henalis",
	})
	require.NoError(t, err)

	_, err = repo.CreateBlogPost(ctx, domain.NewBlogPost{Title: "Dup", Slug: "draft", Content: "x", Author: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	published, err := repo.ListBlogPosts(ctx, domain.BlogPostFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, post.ID, published[0].ID)

	_, err = repo.GetBlogPost(ctx, draft.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byTag, err := repo.ListBlogPosts(ctx, domain.BlogPostFilter{TagID: &tips.ID})
	require.NoError(t, err)
	assert.Empty(t, byTag)

	updated, err := repo.UpdateBlogPost(ctx, post.ID, domain.BlogPostPatch{
		Content: domain.Some("short"),
		TagIDs:  domain.Some([]string{tips.ID}),
	})
	require.NoError(t, err)
	assert.Equal(t, "1 min read", updated.ReadTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "tips", updated.Tags[0].Name)

	_, err = repo.UpdateBlogPost(ctx, post.ID, domain.BlogPostPatch{TagIDs: domain.Some([]string{"33333333-3333-3333-3333-333333333333"})})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	kept, err := repo.GetBlogPost(ctx, post.ID, false)
	require.NoError(t, err)
	require.Len(t, kept.Tags, 1)
	assert.Equal(t, "tips", kept.Tags[0].Name)

	searched, err := repo.ListBlogPosts(ctx, domain.BlogPostFilter{Search: "OAK"})
	require.NoError(t, err)
	assert.Len(t, searched, 1)
}
