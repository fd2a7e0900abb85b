package postgres_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"henalis/domain"
)

func TestBulkUpdateNoOps(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	item := mustItem(t, repo, "Sofa", "BU-1", 100)

	n, err := repo.BulkUpdate(ctx, domain.EntityItem, nil, domain.ItemPatch{IsActive: domain.Some(false)})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.BulkUpdate(ctx, domain.EntityItem, []string{item.ID}, domain.ItemPatch{})
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, item.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestBulkUpdateItems(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := mustItem(t, repo, "A", "BU-2", 100)
	b := mustItem(t, repo, "B", "BU-3", 100)
	untouched := mustItem(t, repo, "C", "BU-4", 100)

	n, err := repo.BulkUpdate(ctx, domain.EntityItem, []string{a.ID, b.ID},
		domain.ItemPatch{IsActive: domain.Some(false), Price: domain.Some(decimal.NewFromInt(80))})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{a.ID, b.ID} {
		got, err := repo.GetItem(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.True(t, got.Price.Equal(decimal.NewFromInt(80)))
	}

	got, err := repo.GetItem(ctx, untouched.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestBulkUpdateRollsBackOnConflict(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	one, err := repo.CreateCategory(ctx, domain.Category{Name: "One", Slug: "one"})
	require.NoError(t, err)
	two, err := repo.CreateCategory(ctx, domain.Category{Name: "Two", Slug: "two"})
	require.NoError(t, err)

	_, err = repo.BulkUpdate(ctx, domain.EntityCategory, []string{one.ID, two.ID},
		domain.CategoryPatch{Name: domain.Some("Same"), Slug: domain.Some("same")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	for _, c := range []domain.Category{one, two} {
		got, err := repo.GetCategory(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)
		assert.Equal(t, c.Slug, got.Slug)
	}
}

func TestBulkUpdateRejectsUnknownEntity(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.BulkUpdate(context.Background(), domain.Entity("users; DROP TABLE items"), []string{"x"}, domain.TagPatch{Name: domain.Some("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBulkDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var tagIDs []string
	for _, name := range []string{"a", "b", "c"} {
		tag, err := repo.CreateTag(ctx, domain.Tag{Name: name})
		require.NoError(t, err)
		tagIDs = append(tagIDs, tag.ID)
	}

	n, err := repo.BulkDelete(ctx, domain.EntityTag, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.BulkDelete(ctx, domain.EntityTag, tagIDs[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range tagIDs[:2] {
		_, err := repo.GetTag(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err = repo.GetTag(ctx, tagIDs[2])
	assert.NoError(t, err)
}

func TestDeleteItemsCollectsImagePaths(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := mustItem(t, repo, "A", "BD-1", 10)
	b := mustItem(t, repo, "B", "BD-2", 10)
	addImage(t, repo, a.ID, "items/a.jpg", false)
	addImage(t, repo, b.ID, "items/b.jpg", false)

	paths, n, err := repo.DeleteItems(ctx, []string{a.ID, b.ID, "00000000-0000-0000-0000-000000000000"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"items/a.jpg", "items/b.jpg"}, paths)
}
