package domain

import "time"

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CategoryPatch struct {
	Name        Optional[string] `json:"name"`
	Slug        Optional[string] `json:"slug"`
	Description Optional[string] `json:"description"`
}

func (p CategoryPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("name", p.Name); err != nil {
		return nil, err
	}
	if err := a.required("slug", p.Slug); err != nil {
		return nil, err
	}
	a.nullable("description", p.Description)
	return a, nil
}

type Material struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type MaterialPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (p MaterialPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("name", p.Name); err != nil {
		return nil, err
	}
	a.nullable("description", p.Description)
	return a, nil
}

type Tag struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TagPatch struct {
	Name Optional[string] `json:"name"`
}

func (p TagPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("name", p.Name); err != nil {
		return nil, err
	}
	return a, nil
}
