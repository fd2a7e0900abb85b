package domain

import "time"

type WishlistEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Item *Item `json:"item,omitempty" db:"-"`
}
