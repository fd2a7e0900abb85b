package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const ShopExchange = "henalis.shop"

// Event names
const (
	ItemCreatedEvent            = "item.created"
	ItemUpdatedEvent            = "item.updated"
	ItemDeletedEvent            = "item.deleted"
	ItemLikedEvent              = "item.liked"
	ItemImageUploadedEvent      = "item.image.uploaded"
	ItemImageDeletedEvent       = "item.image.deleted"
	ContactMessageReceivedEvent = "contact.message.received"
	SubscriberCreatedEvent      = "subscriber.created"
)

const (
	EventVersionV1 = "v1"
)

type ItemPayload struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StockQuantity int             `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ItemDeletedPayload lists the storage paths of the images removed with the items.
type ItemDeletedPayload struct {
	IDs          []string  `json:"ids"`
	StoragePaths []string  `json:"storagePaths"`
	DeletedAt    time.Time `json:"deletedAt"`
}

type ItemLikedPayload struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

type ItemImageUploadedPayload struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	ImageURL  string    `json:"imageUrl"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemImageDeletedPayload struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"itemId"`
	StoragePath string    `json:"storagePath"`
	DeletedAt   time.Time `json:"deletedAt"`
}

type ContactMessageReceivedPayload struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscriberCreatedPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
