package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"henalis/domain"
	"henalis/infra/postgres"
	"henalis/internal/testdb"
)

// steppingClock returns a clock that advances one second per call so rows get distinct timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newRepo(t *testing.T) *postgres.PgRepository {
	t.Helper()
	return postgres.NewRepository(testdb.New(t), postgres.WithClock(steppingClock()))
}

// newSharedRepo is newRepo on a database with a multi-connection pool, so transactions really overlap.
func newSharedRepo(t *testing.T) *postgres.PgRepository {
	t.Helper()
	return postgres.NewRepository(testdb.NewShared(t), postgres.WithClock(steppingClock()))
}

func mustItem(t *testing.T, repo *postgres.PgRepository, name, sku string, price int64, mods ...func(*domain.NewItem)) domain.Item {
	t.Helper()
	in := domain.NewItem{
		Name:          name,
		SKU:           sku,
		Price:         decimal.NewFromInt(price),
		Currency:      "USD",
		StockQuantity: 5,
		IsActive:      true,
	}
	for _, mod := range mods {
		mod(&in)
	}
	item, err := repo.CreateItem(context.Background(), in)
	require.NoError(t, err)
	return item
}

func ids(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestListItemsPriceScenario(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a := mustItem(t, repo, "Armchair", "A-1", 100)
	b := mustItem(t, repo, "Bookcase", "B-1", 200)
	c := mustItem(t, repo, "Cabinet", "C-1", 150)

	page, err := repo.ListItems(ctx, domain.ItemFilter{Sort: domain.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(page.Items))
	assert.Equal(t, 3, page.Total)

	page, err = repo.ListItems(ctx, domain.ItemFilter{Sort: domain.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, ids(page.Items))

	lo, hi := decimal.NewFromInt(120), decimal.NewFromInt(180)
	page, err = repo.ListItems(ctx, domain.ItemFilter{PriceMin: &lo, PriceMax: &hi})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(page.Items))
	assert.Equal(t, 1, page.Total)
}

func TestListItemsDefaultsToNewestFirst(t *testing.T) {
	repo := newRepo(t)

	first := mustItem(t, repo, "First", "S-1", 10)
	second := mustItem(t, repo, "Second", "S-2", 10)
	third := mustItem(t, repo, "Third", "S-3", 10)

	page, err := repo.ListItems(context.Background(), domain.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(page.Items))
	assert.Equal(t, domain.DefaultItemLimit, page.Limit)
}

func TestListItemsTotalIgnoresPagination(t *testing.T) {
	repo := newRepo(t)
	for i, sku := range []string{"P-1", "P-2", "P-3", "P-4", "P-5"} {
		mustItem(t, repo, "Chair", sku, int64(10+i))
	}

	page, err := repo.ListItems(context.Background(), domain.ItemFilter{Sort: domain.SortPriceLow, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.Items[0].Price.Equal(decimal.NewFromInt(12)))
	assert.True(t, page.Items[1].Price.Equal(decimal.NewFromInt(13)))
}

func TestListItemsFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	living, err := repo.CreateCategory(ctx, domain.Category{Name: "Living Room", Slug: "living-room"})
	require.NoError(t, err)
	bedroom, err := repo.CreateCategory(ctx, domain.Category{Name: "Bedroom", Slug: "bedroom"})
	require.NoError(t, err)
	oak, err := repo.CreateMaterial(ctx, domain.Material{Name: "Oak"})
	require.NoError(t, err)
	modern, err := repo.CreateTag(ctx, domain.Tag{Name: "modern"})
	require.NoError(t, err)
	rustic, err := repo.CreateTag(ctx, domain.Tag{Name: "rustic"})
	require.NoError(t, err)
	vintage, err := repo.CreateTag(ctx, domain.Tag{Name: "vintage"})
	require.NoError(t, err)

	desc := "A 100% solid_oak sofa"
	sofa := mustItem(t, repo, "Velvet Sofa", "SOFA-1", 900, func(in *domain.NewItem) {
		in.CategoryID = &living.ID
		in.MaterialID = &oak.ID
		in.Description = &desc
		in.TagIDs = []string{modern.ID}
	})
	bed := mustItem(t, repo, "Oak Bed", "BED-1", 700, func(in *domain.NewItem) {
		in.CategoryID = &bedroom.ID
		in.MaterialID = &oak.ID
		in.TagIDs = []string{rustic.ID}
	})
	lamp := mustItem(t, repo, "Floor Lamp", "LAMP-1", 80, func(in *domain.NewItem) {
		in.CategoryID = &living.ID
		in.IsActive = false
		in.TagIDs = []string{vintage.ID}
	})

	list := func(f domain.ItemFilter) domain.ItemPage {
		t.Helper()
		page, err := repo.ListItems(ctx, f)
		require.NoError(t, err)
		return page
	}

	byID := domain.ParseCategoryRef(living.ID)
	assert.ElementsMatch(t, []string{sofa.ID, lamp.ID}, ids(list(domain.ItemFilter{Category: &byID}).Items))

	bySlug := domain.ParseCategoryRef("bedroom")
	assert.Equal(t, []string{bed.ID}, ids(list(domain.ItemFilter{Category: &bySlug}).Items))

	assert.ElementsMatch(t, []string{sofa.ID, bed.ID}, ids(list(domain.ItemFilter{MaterialID: &oak.ID}).Items))

	page := list(domain.ItemFilter{TagIDs: []string{modern.ID, rustic.ID}})
	assert.ElementsMatch(t, []string{sofa.ID, bed.ID}, ids(page.Items))
	assert.Equal(t, 2, page.Total)

	inactive := false
	assert.Equal(t, []string{lamp.ID}, ids(list(domain.ItemFilter{IsActive: &inactive}).Items))

	assert.Equal(t, []string{bed.ID}, ids(list(domain.ItemFilter{Search: "OAK BED"}).Items))
	assert.Equal(t, []string{sofa.ID}, ids(list(domain.ItemFilter{Search: "100%"}).Items))
	assert.Equal(t, []string{sofa.ID}, ids(list(domain.ItemFilter{Search: "solid_oak"}).Items))
	assert.Empty(t, list(domain.ItemFilter{Search: "nothing like this"}).Items)
}

func TestListItemsAttachesRelations(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, domain.Category{Name: "Office", Slug: "office"})
	require.NoError(t, err)
	tag, err := repo.CreateTag(ctx, domain.Tag{Name: "ergonomic"})
	require.NoError(t, err)
	item := mustItem(t, repo, "Desk Chair", "DC-1", 250, func(in *domain.NewItem) {
		in.CategoryID = &cat.ID
		in.TagIDs = []string{tag.ID}
	})
	_, err = repo.AddItemImage(ctx, domain.ItemImage{ItemID: item.ID, StoragePath: "items/a.jpg", URL: "http://cdn/items/a.jpg"})
	require.NoError(t, err)

	page, err := repo.ListItems(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	got := page.Items[0]
	require.NotNil(t, got.Category)
	assert.Equal(t, "office", got.Category.Slug)
	assert.Nil(t, got.Material)
	require.Len(t, got.Images, 1)
	assert.True(t, got.Images[0].IsPrimary)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "ergonomic", got.Tags[0].Name)
}

func TestSortMostLoved(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	quiet := mustItem(t, repo, "Stool", "ST-1", 30)
	loved := mustItem(t, repo, "Rocker", "RK-1", 300)
	for range 3 {
		_, err := repo.IncrementLikes(ctx, loved.ID)
		require.NoError(t, err)
	}
	_, err := repo.IncrementLikes(ctx, quiet.ID)
	require.NoError(t, err)

	page, err := repo.ListItems(ctx, domain.ItemFilter{Sort: domain.SortMostLoved})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, loved.ID, page.Items[0].ID)
	assert.Equal(t, 3, page.Items[0].Likes)
	assert.Equal(t, 1, page.Items[1].Likes)
}

func TestIncrementLikesConcurrently(t *testing.T) {
	for name, open := range map[string]func(*testing.T) *postgres.PgRepository{
		// One pooled connection: statements from the goroutines never overlap,
		// so this only checks the handler path.
		"single connection": newRepo,
		"shared pool":       newSharedRepo,
	} {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()
			item := mustItem(t, repo, "Bench", "BN-1", 120)

			const n = 20
			var wg sync.WaitGroup
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := repo.IncrementLikes(ctx, item.ID)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := repo.GetItem(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, n, got.Likes)
		})
	}
}

func TestListItemsCountMatchesPageUnderWrites(t *testing.T) {
	repo := newSharedRepo(t)
	ctx := context.Background()
	mustItem(t, repo, "Seed", "SEED-0", 10)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 30 {
			_, err := repo.CreateItem(ctx, domain.NewItem{
				Name:     "Crate",
				SKU:      fmt.Sprintf("CR-%d", i),
				Price:    decimal.NewFromInt(15),
				Currency: "USD",
				IsActive: true,
			})
			assert.NoError(t, err)
		}
	}()

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				page, err := repo.ListItems(ctx, domain.ItemFilter{Limit: 1000})
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, page.Items, page.Total)
			}
		}()
	}
	wg.Wait()

	page, err := repo.ListItems(ctx, domain.ItemFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 31, page.Total)
	assert.Len(t, page.Items, 31)
}

func TestIncrementLikesMissingItem(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.IncrementLikes(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateItemConflictsAndUnknownTags(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	mustItem(t, repo, "Table", "T-1", 400)

	_, err := repo.CreateItem(ctx, domain.NewItem{Name: "Other", SKU: "T-1", Price: decimal.NewFromInt(1), Currency: "USD"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.CreateItem(ctx, domain.NewItem{
		Name: "Tagged", SKU: "T-2", Price: decimal.NewFromInt(1), Currency: "USD",
		TagIDs: []string{"11111111-1111-1111-1111-111111111111"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	// the failed insert was rolled back together with the tag check
	page, err := repo.ListItems(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestUpdateItemPartialPatch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, domain.Category{Name: "Kitchen", Slug: "kitchen"})
	require.NoError(t, err)
	item := mustItem(t, repo, "Stool", "K-1", 45, func(in *domain.NewItem) { in.CategoryID = &cat.ID })

	updated, err := repo.UpdateItem(ctx, item.ID, domain.ItemPatch{
		Price:      domain.Some(decimal.NewFromInt(55)),
		CategoryID: domain.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stool", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(55)))
	assert.Nil(t, updated.CategoryID)
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))

	_, err = repo.UpdateItem(ctx, item.ID, domain.ItemPatch{Name: domain.Null[string]()})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = repo.UpdateItem(ctx, "00000000-0000-0000-0000-000000000000", domain.ItemPatch{Name: domain.Some("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCategoryClearsItemReference(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, domain.Category{Name: "Garden", Slug: "garden"})
	require.NoError(t, err)
	item := mustItem(t, repo, "Planter", "G-1", 35, func(in *domain.NewItem) { in.CategoryID = &cat.ID })

	require.NoError(t, repo.DeleteCategory(ctx, cat.ID))

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestAssignAndRemoveTags(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	item := mustItem(t, repo, "Shelf", "SH-1", 60)
	a, err := repo.CreateTag(ctx, domain.Tag{Name: "alpha"})
	require.NoError(t, err)
	b, err := repo.CreateTag(ctx, domain.Tag{Name: "beta"})
	require.NoError(t, err)

	tags, err := repo.AssignTags(ctx, item.ID, []string{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tags, err = repo.AssignTags(ctx, item.ID, []string{a.ID})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	require.NoError(t, repo.RemoveItemTag(ctx, item.ID, a.ID))
	assert.ErrorIs(t, repo.RemoveItemTag(ctx, item.ID, a.ID), domain.ErrNotFound)

	_, err = repo.AssignTags(ctx, item.ID, []string{"22222222-2222-2222-2222-222222222222"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestDeleteItemReturnsImagePaths(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	item := mustItem(t, repo, "Mirror", "M-1", 90)
	for _, p := range []string{"items/1.jpg", "items/2.jpg"} {
		_, err := repo.AddItemImage(ctx, domain.ItemImage{ItemID: item.ID, StoragePath: p, URL: "http://cdn/" + p})
		require.NoError(t, err)
	}

	paths, err := repo.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"items/1.jpg", "items/2.jpg"}, paths)

	_, err = repo.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
