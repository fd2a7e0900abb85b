package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

type BlogPost struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Excerpt       *string   `json:"excerpt" db:"excerpt"`
	Content       string    `json:"content" db:"content"`
	CoverImageURL *string   `json:"cover_image_url" db:"cover_image_url"`
	Author        string    `json:"author" db:"author"`
	ReadTime      string    `json:"read_time" db:"read_time"`
	IsPublished   bool      `json:"is_published" db:"is_published"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Tags []BlogTag `json:"tags" db:"-"`
}

type NewBlogPost struct {
	Title         string
	Slug          string
	Excerpt       *string
	Content       string
	CoverImageURL *string
	Author        string
	IsPublished   bool
	TagIDs        []string
}

type BlogTag struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	IsCategory bool   `json:"is_category" db:"is_category"`
}

type BlogTagPatch struct {
	Name       Optional[string] `json:"name"`
	IsCategory Optional[bool]   `json:"is_category"`
}

func (p BlogTagPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("name", p.Name); err != nil {
		return nil, err
	}
	if err := setValue(&a, "is_category", p.IsCategory); err != nil {
		return nil, err
	}
	return a, nil
}

// BlogPostPatch updates post columns; TagIDs replaces the tag set when present.
type BlogPostPatch struct {
	Title         Optional[string]   `json:"title"`
	Slug          Optional[string]   `json:"slug"`
	Excerpt       Optional[string]   `json:"excerpt"`
	Content       Optional[string]   `json:"content"`
	CoverImageURL Optional[string]   `json:"cover_image_url"`
	Author        Optional[string]   `json:"author"`
	IsPublished   Optional[bool]     `json:"is_published"`
	TagIDs        Optional[[]string] `json:"tag_ids"`
}

func (p BlogPostPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("title", p.Title); err != nil {
		return nil, err
	}
	if err := a.required("slug", p.Slug); err != nil {
		return nil, err
	}
	a.nullable("excerpt", p.Excerpt)
	if err := a.required("content", p.Content); err != nil {
		return nil, err
	}
	if p.Content.Set {
		a = append(a, Assignment{Column: "read_time", Value: ReadTime(p.Content.Value)})
	}
	a.nullable("cover_image_url", p.CoverImageURL)
	if err := a.required("author", p.Author); err != nil {
		return nil, err
	}
	if err := setValue(&a, "is_published", p.IsPublished); err != nil {
		return nil, err
	}
	return a, nil
}

const wordsPerMinute = 200

// ReadTime estimates reading time at 200 words per minute, never less than a minute.
func ReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
	return fmt.Sprintf("%d min read", minutes)
}

const excerptLength = 200

// Excerpt returns the first 200 characters of content.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	return string([]rune(content)[:excerptLength])
}

const (
	DefaultBlogLimit = 10
	MaxBlogLimit     = 50
)

type BlogPostFilter struct {
	Search        string
	TagID         *string
	PublishedOnly bool
	Limit         int
	Offset        int
}
