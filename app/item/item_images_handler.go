package item

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

const imageFolder = "items"

type GetItemImagesHandler struct {
	repository Repository
}

func NewGetItemImagesHandler(repository Repository) *GetItemImagesHandler {
	return &GetItemImagesHandler{
		repository: repository,
	}
}

type GetItemImagesRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
}

type GetItemImagesResponse struct {
	Images []domain.ItemImage `json:"images"`
}

func (h GetItemImagesHandler) Handle(ctx context.Context, req *GetItemImagesRequest) (*GetItemImagesResponse, error) {
	if err := app.Validate(req, "item_image.index"); err != nil {
		return nil, err
	}

	images, err := h.repository.ListItemImages(ctx, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "item_image.index")
	}

	return &GetItemImagesResponse{Images: images}, nil
}

type UploadItemImageHandler struct {
	repository Repository
	storage    app.ObjectStorage
	emitter    *events.Emitter
}

func NewUploadItemImageHandler(repository Repository, storage app.ObjectStorage, emitter *events.Emitter) *UploadItemImageHandler {
	return &UploadItemImageHandler{
		repository: repository,
		storage:    storage,
		emitter:    emitter,
	}
}

type UploadItemImageRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
}

type UploadItemImageResponse struct {
	app.Created
	Image domain.ItemImage `json:"image"`
}

func (h *UploadItemImageHandler) Handle(ctx context.Context, req *UploadItemImageRequest) (*UploadItemImageResponse, error) {
	if err := app.Validate(req, "item_image.upload"); err != nil {
		return nil, err
	}

	c, err := app.FiberCtx(ctx)
	if err != nil {
		return nil, err
	}

	isPrimary := false
	if raw := c.FormValue("is_primary"); raw != "" {
		if isPrimary, err = strconv.ParseBool(raw); err != nil {
			return nil, httperror.BadRequest("item_image.upload.invalid_is_primary", "is_primary must be a boolean", nil)
		}
	}

	image, err := app.ReadImage(ctx, "file")
	if err != nil {
		return nil, err
	}

	return h.processUpload(ctx, req.ItemID, image, isPrimary)
}

func (h *UploadItemImageHandler) processUpload(ctx context.Context, itemID string, image app.Image, isPrimary bool) (*UploadItemImageResponse, error) {
	path, url, err := h.storage.Upload(ctx, imageFolder, image.Ext, image.Data)
	if err != nil {
		return nil, httperror.InternalServerError("item_image.upload.failed", "Failed to upload image to storage", err.Error())
	}

	saved, err := h.repository.AddItemImage(ctx, domain.ItemImage{
		ItemID:      itemID,
		StoragePath: path,
		URL:         url,
		IsPrimary:   isPrimary,
	})
	if err != nil {
		if delErr := h.storage.Delete(ctx, path); delErr != nil {
			zap.L().Warn("Failed to remove orphaned upload", zap.String("path", path), zap.Error(delErr))
		}
		return nil, app.MapError(err, "item_image.upload")
	}

	h.emitter.Emit(ctx, events.ItemImageUploadedEvent, events.ItemImageUploadedPayload{
		ID:        saved.ID,
		ItemID:    saved.ItemID,
		ImageURL:  saved.URL,
		IsPrimary: saved.IsPrimary,
		CreatedAt: saved.CreatedAt,
	})

	return &UploadItemImageResponse{Image: saved}, nil
}

type SetPrimaryImageHandler struct {
	repository Repository
}

func NewSetPrimaryImageHandler(repository Repository) *SetPrimaryImageHandler {
	return &SetPrimaryImageHandler{
		repository: repository,
	}
}

type ItemImageRequest struct {
	ItemID  string `params:"id" validate:"required,uuid"`
	ImageID string `params:"imageId" validate:"required,uuid"`
}

type SetPrimaryImageResponse struct {
	Image domain.ItemImage `json:"image"`
}

func (h SetPrimaryImageHandler) Handle(ctx context.Context, req *ItemImageRequest) (*SetPrimaryImageResponse, error) {
	if err := app.Validate(req, "item_image.primary"); err != nil {
		return nil, err
	}

	image, err := h.repository.SetPrimaryImage(ctx, req.ItemID, req.ImageID)
	if err != nil {
		return nil, app.MapError(err, "item_image.primary")
	}

	return &SetPrimaryImageResponse{Image: image}, nil
}

type DeleteItemImageHandler struct {
	repository Repository
	storage    app.ObjectStorage
	emitter    *events.Emitter
}

func NewDeleteItemImageHandler(repository Repository, storage app.ObjectStorage, emitter *events.Emitter) *DeleteItemImageHandler {
	return &DeleteItemImageHandler{
		repository: repository,
		storage:    storage,
		emitter:    emitter,
	}
}

type DeleteItemImageResponse struct {
}

func (h *DeleteItemImageHandler) Handle(ctx context.Context, req *ItemImageRequest) (*DeleteItemImageResponse, error) {
	if err := app.Validate(req, "item_image.destroy"); err != nil {
		return nil, err
	}

	image, err := h.repository.DeleteItemImage(ctx, req.ItemID, req.ImageID)
	if err != nil {
		return nil, app.MapError(err, "item_image.destroy")
	}

	// The row is gone either way; a storage failure only leaves an orphaned object.
	if err := h.storage.Delete(ctx, image.StoragePath); err != nil {
		zap.L().Error("Failed to delete image from storage",
			zap.String("imageId", image.ID),
			zap.String("path", image.StoragePath),
			zap.Error(err),
		)
	}

	h.emitter.Emit(ctx, events.ItemImageDeletedEvent, events.ItemImageDeletedPayload{
		ID:          image.ID,
		ItemID:      image.ItemID,
		StoragePath: image.StoragePath,
		DeletedAt:   time.Now().UTC(),
	})

	return nil, httperror.NoContent("item_image.destroy.success", "Image deleted successfully.", nil)
}
