package item

import (
	"context"
	"time"

	"go.uber.org/zap"

	"henalis/app"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

// StorageCleaner disposes of the files left behind by deleted items. With a broker it
// publishes item.deleted for the worker, otherwise it deletes the files itself.
type StorageCleaner struct {
	storage app.ObjectStorage
	emitter *events.Emitter
}

func NewStorageCleaner(storage app.ObjectStorage, emitter *events.Emitter) *StorageCleaner {
	return &StorageCleaner{storage: storage, emitter: emitter}
}

func (c *StorageCleaner) ItemsDeleted(ctx context.Context, ids, paths []string) {
	if c.emitter.Enabled() {
		c.emitter.Emit(ctx, events.ItemDeletedEvent, events.ItemDeletedPayload{
			IDs:          ids,
			StoragePaths: paths,
			DeletedAt:    time.Now().UTC(),
		})
		return
	}

	if c.storage == nil {
		return
	}
	for _, path := range paths {
		if err := c.storage.Delete(ctx, path); err != nil {
			zap.L().Warn("Failed to delete item image from storage",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}

type DeleteItemHandler struct {
	repository Repository
	cleaner    *StorageCleaner
}

func NewDeleteItemHandler(repository Repository, cleaner *StorageCleaner) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository: repository,
		cleaner:    cleaner,
	}
}

type DeleteItemRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
}

type DeleteItemResponse struct {
}

func (h DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	if err := app.Validate(req, "item.destroy"); err != nil {
		return nil, err
	}

	paths, err := h.repository.DeleteItem(ctx, req.ItemID)
	if err != nil {
		return nil, app.MapError(err, "item.destroy")
	}

	h.cleaner.ItemsDeleted(ctx, []string{req.ItemID}, paths)

	return nil, httperror.NoContent(
		"item.destroy.success",
		"Item deleted successfully",
		nil,
	)
}

type BulkDeleteItemsHandler struct {
	repository Repository
	cleaner    *StorageCleaner
}

func NewBulkDeleteItemsHandler(repository Repository, cleaner *StorageCleaner) *BulkDeleteItemsHandler {
	return &BulkDeleteItemsHandler{
		repository: repository,
		cleaner:    cleaner,
	}
}

func (h BulkDeleteItemsHandler) Handle(ctx context.Context, req *app.BulkDeleteRequest) (*app.BulkDeleteResponse, error) {
	if err := app.Validate(req, "item.bulk_destroy"); err != nil {
		return nil, err
	}

	paths, n, err := h.repository.DeleteItems(ctx, req.IDs)
	if err != nil {
		return nil, app.MapError(err, "item.bulk_destroy")
	}
	if n > 0 {
		h.cleaner.ItemsDeleted(ctx, req.IDs, paths)
	}

	return &app.BulkDeleteResponse{Deleted: n}, nil
}
