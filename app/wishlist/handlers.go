package wishlist

import (
	"context"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type Repository interface {
	AddToWishlist(ctx context.Context, userID, itemID string) (domain.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, userID, itemID string) (bool, error)
	ClearWishlist(ctx context.Context, userID string) (int, error)
	ListWishlist(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
}

type GetWishlistHandler struct {
	repository Repository
}

func NewGetWishlistHandler(repository Repository) *GetWishlistHandler {
	return &GetWishlistHandler{repository: repository}
}

type GetWishlistRequest struct {
}

type GetWishlistResponse struct {
	Entries []domain.WishlistEntry `json:"entries"`
}

func (h GetWishlistHandler) Handle(ctx context.Context, _ *GetWishlistRequest) (*GetWishlistResponse, error) {
	userID, err := app.UserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := h.repository.ListWishlist(ctx, userID)
	if err != nil {
		return nil, app.MapError(err, "wishlist.index")
	}

	return &GetWishlistResponse{Entries: entries}, nil
}

type AddToWishlistHandler struct {
	repository Repository
}

func NewAddToWishlistHandler(repository Repository) *AddToWishlistHandler {
	return &AddToWishlistHandler{repository: repository}
}

type ItemRequest struct {
	ItemID string `params:"itemId" validate:"required,uuid"`
}

type AddToWishlistResponse struct {
	app.Created
	Entry domain.WishlistEntry `json:"entry"`
}

// Adding an item twice returns the existing entry.
func (h AddToWishlistHandler) Handle(ctx context.Context, req *ItemRequest) (*AddToWishlistResponse, error) {
	userID, err := app.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := app.Validate(req, "wishlist.add"); err != nil {
		return nil, err
	}

	entry, err := h.repository.AddToWishlist(ctx, userID, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "wishlist.add")
	}

	return &AddToWishlistResponse{Entry: entry}, nil
}

type RemoveFromWishlistHandler struct {
	repository Repository
}

func NewRemoveFromWishlistHandler(repository Repository) *RemoveFromWishlistHandler {
	return &RemoveFromWishlistHandler{repository: repository}
}

type RemoveFromWishlistResponse struct {
}

func (h RemoveFromWishlistHandler) Handle(ctx context.Context, req *ItemRequest) (*RemoveFromWishlistResponse, error) {
	userID, err := app.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := app.Validate(req, "wishlist.remove"); err != nil {
		return nil, err
	}

	removed, err := h.repository.RemoveFromWishlist(ctx, userID, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "wishlist.remove")
	}
	if !removed {
		return nil, httperror.NotFound("wishlist.remove.not_found", "Item is not in the wishlist", nil)
	}

	return nil, httperror.NoContent("wishlist.remove.success", "Item removed from wishlist", nil)
}

type ClearWishlistHandler struct {
	repository Repository
}

func NewClearWishlistHandler(repository Repository) *ClearWishlistHandler {
	return &ClearWishlistHandler{repository: repository}
}

type ClearWishlistResponse struct {
	Deleted int `json:"deleted"`
}

func (h ClearWishlistHandler) Handle(ctx context.Context, _ *GetWishlistRequest) (*ClearWishlistResponse, error) {
	userID, err := app.UserID(ctx)
	if err != nil {
		return nil, err
	}

	n, err := h.repository.ClearWishlist(ctx, userID)
	if err != nil {
		return nil, app.MapError(err, "wishlist.clear")
	}

	return &ClearWishlistResponse{Deleted: n}, nil
}
