package consumers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"henalis/app"
	"henalis/pkg/events"
)

// StorageCleanupHandler deletes the stored images of items removed through the API.
type StorageCleanupHandler struct {
	storage app.ObjectStorage
}

func NewStorageCleanupHandler(storage app.ObjectStorage) *StorageCleanupHandler {
	return &StorageCleanupHandler{
		storage: storage,
	}
}

func (h *StorageCleanupHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Shop event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.ItemDeletedEvent:
		return h.handleItemDeleted(ctx, event)
	default:
		zap.L().Warn("Unknown shop event type", zap.String("event", event.Event))
		return nil
	}
}

// handleItemDeleted attempts every path before reporting failures, so one bad object does
// not leave the rest behind.
func (h *StorageCleanupHandler) handleItemDeleted(ctx context.Context, event *events.Event) error {
	var payload events.ItemDeletedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}

	var errs []error
	for _, path := range payload.StoragePaths {
		if path == "" {
			continue
		}
		if err := h.storage.Delete(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("deleting %q: %w", path, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	zap.L().Info("Deleted item images from storage",
		zap.Strings("itemIds", payload.IDs),
		zap.Int("paths", len(payload.StoragePaths)),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
