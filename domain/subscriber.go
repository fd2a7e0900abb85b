package domain

import "time"

type Subscriber struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SubscriberPatch struct {
	Email    Optional[string] `json:"email"`
	IsActive Optional[bool]   `json:"is_active"`
}

func (p SubscriberPatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := checkEmail("email", p.Email); err != nil {
		return nil, err
	}
	if err := a.required("email", p.Email); err != nil {
		return nil, err
	}
	if err := setValue(&a, "is_active", p.IsActive); err != nil {
		return nil, err
	}
	return a, nil
}
