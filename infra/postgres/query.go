package postgres

import (
	"strings"

	"henalis/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases s, escapes LIKE metacharacters with \ and wraps it for a substring match.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// itemWhere collects the predicates of an item listing. Placeholders are ? and slices are
// expanded later with sqlx.In.
type itemWhere struct {
	clauses []string
	args    []any
}

func (w *itemWhere) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *itemWhere) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func buildItemWhere(f domain.ItemFilter) *itemWhere {
	w := &itemWhere{}

	if f.Category != nil {
		switch f.Category.Kind {
		case domain.CategoryByID:
			w.add("i.category_id = ?", f.Category.Value)
		case domain.CategoryBySlug:
			w.add("i.category_id IN (SELECT c.id FROM categories c WHERE c.slug = ?)", f.Category.Value)
		}
	}
	if f.MaterialID != nil {
		w.add("i.material_id = ?", *f.MaterialID)
	}
	if f.PriceMin != nil {
		w.add("i.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		w.add("i.price <= ?", *f.PriceMax)
	}
	if len(f.TagIDs) > 0 {
		w.add("i.id IN (SELECT it.item_id FROM item_tags it WHERE it.tag_id IN (?))", f.TagIDs)
	}
	if f.IsActive != nil {
		w.add("i.is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		w.add(`(LOWER(i.name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(i.description, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return w
}

func itemOrderBy(s domain.SortOrder) string {
	switch s {
	case domain.SortPriceLow:
		return " ORDER BY i.price ASC, i.created_at DESC, i.id ASC"
	case domain.SortPriceHigh:
		return " ORDER BY i.price DESC, i.created_at DESC, i.id ASC"
	case domain.SortMostLoved:
		return " ORDER BY i.likes DESC, i.created_at DESC, i.id ASC"
	default:
		return " ORDER BY i.created_at DESC, i.id ASC"
	}
}
