package item

import (
	"context"

	"henalis/domain"
)

type Repository interface {
	ListItems(ctx context.Context, f domain.ItemFilter) (domain.ItemPage, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error)
	UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) ([]string, error)
	DeleteItems(ctx context.Context, ids []string) ([]string, int, error)
	IncrementLikes(ctx context.Context, id string) (domain.Item, error)
	AssignTags(ctx context.Context, itemID string, tagIDs []string) ([]domain.Tag, error)
	RemoveItemTag(ctx context.Context, itemID, tagID string) error

	ListItemImages(ctx context.Context, itemID string) ([]domain.ItemImage, error)
	AddItemImage(ctx context.Context, img domain.ItemImage) (domain.ItemImage, error)
	SetPrimaryImage(ctx context.Context, itemID, imageID string) (domain.ItemImage, error)
	DeleteItemImage(ctx context.Context, itemID, imageID string) (domain.ItemImage, error)
}
