package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"henalis/domain"
	"henalis/infra/postgres"
)

func addImage(t *testing.T, repo *postgres.PgRepository, itemID, path string, primary bool) domain.ItemImage {
	t.Helper()
	img, err := repo.AddItemImage(context.Background(), domain.ItemImage{
		ItemID:      itemID,
		StoragePath: path,
		URL:         "http://cdn/" + path,
		IsPrimary:   primary,
	})
	require.NoError(t, err)
	return img
}

func primaries(t *testing.T, repo *postgres.PgRepository, itemID string) []string {
	t.Helper()
	images, err := repo.ListItemImages(context.Background(), itemID)
	require.NoError(t, err)
	var out []string
	for _, img := range images {
		if img.IsPrimary {
			out = append(out, img.ID)
		}
	}
	return out
}

func TestFirstImageBecomesPrimary(t *testing.T) {
	repo := newRepo(t)
	item := mustItem(t, repo, "Sofa", "IMG-1", 500)

	first := addImage(t, repo, item.ID, "items/1.jpg", false)
	second := addImage(t, repo, item.ID, "items/2.jpg", false)

	assert.True(t, first.IsPrimary)
	assert.False(t, second.IsPrimary)
	assert.Equal(t, []string{first.ID}, primaries(t, repo, item.ID))

	third := addImage(t, repo, item.ID, "items/3.jpg", true)
	assert.Equal(t, []string{third.ID}, primaries(t, repo, item.ID))

	images, err := repo.ListItemImages(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, third.ID, images[0].ID)
	assert.Equal(t, first.ID, images[1].ID)
}

func TestSetPrimaryImageKeepsExactlyOne(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	item := mustItem(t, repo, "Chair", "IMG-2", 80)

	a := addImage(t, repo, item.ID, "items/a.jpg", false)
	b := addImage(t, repo, item.ID, "items/b.jpg", false)

	got, err := repo.SetPrimaryImage(ctx, item.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)
	assert.Equal(t, []string{b.ID}, primaries(t, repo, item.ID))

	_, err = repo.SetPrimaryImage(ctx, item.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, primaries(t, repo, item.ID))
}

func TestSetPrimaryImageRejectsForeignImage(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	one := mustItem(t, repo, "One", "IMG-3", 10)
	two := mustItem(t, repo, "Two", "IMG-4", 10)

	own := addImage(t, repo, one.ID, "items/own.jpg", false)
	foreign := addImage(t, repo, two.ID, "items/foreign.jpg", false)

	_, err := repo.SetPrimaryImage(ctx, one.ID, foreign.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the failed call left the existing primary untouched
	assert.Equal(t, []string{own.ID}, primaries(t, repo, one.ID))
	assert.Equal(t, []string{foreign.ID}, primaries(t, repo, two.ID))
}

func TestDeletePrimaryImagePromotesOldest(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	item := mustItem(t, repo, "Desk", "IMG-5", 300)

	first := addImage(t, repo, item.ID, "items/1.jpg", false)
	second := addImage(t, repo, item.ID, "items/2.jpg", false)
	third := addImage(t, repo, item.ID, "items/3.jpg", false)

	deleted, err := repo.DeleteItemImage(ctx, item.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "items/1.jpg", deleted.StoragePath)
	assert.Equal(t, []string{second.ID}, primaries(t, repo, item.ID))

	_, err = repo.DeleteItemImage(ctx, item.ID, third.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, primaries(t, repo, item.ID))

	_, err = repo.DeleteItemImage(ctx, item.ID, third.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImagesOfMissingItem(t *testing.T) {
	repo := newRepo(t)
	missing := "00000000-0000-0000-0000-000000000000"

	_, err := repo.ListItemImages(context.Background(), missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.AddItemImage(context.Background(), domain.ItemImage{ItemID: missing, StoragePath: "x", URL: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentFirstImagesElectOnePrimary(t *testing.T) {
	repo := newSharedRepo(t)
	ctx := context.Background()

	for round := range 5 {
		item := mustItem(t, repo, "Shelf", fmt.Sprintf("SH-%d", round), 90)

		const uploads = 6
		var wg sync.WaitGroup
		for i := range uploads {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.AddItemImage(ctx, domain.ItemImage{
					ItemID:      item.ID,
					StoragePath: fmt.Sprintf("items/%d-%d.jpg", round, i),
					URL:         "http://cdn/items/x.jpg",
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		images, err := repo.ListItemImages(ctx, item.ID)
		require.NoError(t, err)
		assert.Len(t, images, uploads)
		assert.Len(t, primaries(t, repo, item.ID), 1, "round %d", round)
	}
}

func TestSetPrimaryRacingDeleteOfPrimary(t *testing.T) {
	repo := newSharedRepo(t)
	ctx := context.Background()

	for round := range 10 {
		item := mustItem(t, repo, "Lamp", fmt.Sprintf("LP-%d", round), 40)
		p := addImage(t, repo, item.ID, "items/p.jpg", false)
		addImage(t, repo, item.ID, "items/a.jpg", false)
		b := addImage(t, repo, item.ID, "items/b.jpg", false)
		require.Equal(t, []string{p.ID}, primaries(t, repo, item.ID))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := repo.SetPrimaryImage(ctx, item.ID, b.ID)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := repo.DeleteItemImage(ctx, item.ID, p.ID)
			assert.NoError(t, err)
		}()
		wg.Wait()

		got := primaries(t, repo, item.ID)
		assert.Len(t, got, 1, "round %d", round)
	}
}
