package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryRef(t *testing.T) {
	ref := ParseCategoryRef("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.Equal(t, CategoryByID, ref.Kind)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", ref.Value)

	ref = ParseCategoryRef("living-room")
	assert.Equal(t, CategoryRef{Kind: CategoryBySlug, Value: "living-room"}, ref)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSortOrder("price-low"))
	assert.Equal(t, SortPriceHigh, ParseSortOrder("price-high"))
	assert.Equal(t, SortMostLoved, ParseSortOrder("most-loved"))
	assert.Equal(t, SortNewest, ParseSortOrder(""))
	assert.Equal(t, SortNewest, ParseSortOrder("cheapest"))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadTime(""))
	assert.Equal(t, "1 min read", ReadTime(strings.Repeat("w ", 200)))
	assert.Equal(t, "2 min read", ReadTime(strings.Repeat("w ", 201)))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short"))
	long := strings.Repeat("é", 250)
	assert.Equal(t, strings.Repeat("é", 200), Excerpt(long))
}
