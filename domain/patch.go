package domain

import (
	"fmt"
	"strings"
)

// Assignment is a single column = value pair produced by a patch.
type Assignment struct {
	Column string
	Value  any
}

// Patch is implemented by the per-entity partial update structs.
type Patch interface {
	Assignments() ([]Assignment, error)
}

// Entity names a table that supports bulk update and bulk delete.
type Entity string

const (
	EntityCategory       Entity = "categories"
	EntityMaterial       Entity = "materials"
	EntityTag            Entity = "tags"
	EntityItem           Entity = "items"
	EntityContactMessage Entity = "contact_messages"
	EntitySubscriber     Entity = "subscribers"
	EntityBlogPost       Entity = "blog_posts"
	EntityBlogTag        Entity = "blog_tags"
)

// Table returns the table backing the entity, rejecting anything outside the known set.
func (e Entity) Table() (string, error) {
	switch e {
	case EntityCategory, EntityMaterial, EntityTag, EntityItem,
		EntityContactMessage, EntitySubscriber, EntityBlogPost, EntityBlogTag:
		return string(e), nil
	}
	return "", fmt.Errorf("%w: unknown entity %q", ErrInvalidArgument, string(e))
}

// TracksUpdates reports whether the table carries an updated_at column.
func (e Entity) TracksUpdates() bool {
	switch e {
	case EntityCategory, EntityMaterial, EntityTag, EntityItem, EntityBlogPost:
		return true
	}
	return false
}

type assignments []Assignment

func (a *assignments) required(column string, v Optional[string]) error {
	if !v.Set {
		return nil
	}
	if v.Null || strings.TrimSpace(v.Value) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, column)
	}
	*a = append(*a, Assignment{Column: column, Value: v.Value})
	return nil
}

func (a *assignments) nullable(column string, v Optional[string]) {
	if !v.Set {
		return
	}
	if v.Null {
		*a = append(*a, Assignment{Column: column, Value: nil})
		return
	}
	*a = append(*a, Assignment{Column: column, Value: v.Value})
}

func setValue[T any](a *assignments, column string, v Optional[T]) error {
	if !v.Set {
		return nil
	}
	if v.Null {
		return fmt.Errorf("%w: %s must not be null", ErrInvalidArgument, column)
	}
	*a = append(*a, Assignment{Column: column, Value: v.Value})
	return nil
}
