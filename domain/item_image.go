package domain

import "time"

type ItemImage struct {
	ID          string    `json:"id" db:"id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	URL         string    `json:"url" db:"url"`
	IsPrimary   bool      `json:"is_primary" db:"is_primary"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
