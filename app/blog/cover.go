package blog

import (
	"context"

	"henalis/app"
	"henalis/pkg/httperror"
)

const coverFolder = "blog"

type UploadCoverHandler struct {
	storage app.ObjectStorage
}

func NewUploadCoverHandler(storage app.ObjectStorage) *UploadCoverHandler {
	return &UploadCoverHandler{storage: storage}
}

type UploadCoverRequest struct {
}

type UploadCoverResponse struct {
	app.Created
	URL  string `json:"url"`
	Path string `json:"path"`
}

func (h *UploadCoverHandler) Handle(ctx context.Context, _ *UploadCoverRequest) (*UploadCoverResponse, error) {
	image, err := app.ReadImage(ctx, "file")
	if err != nil {
		return nil, err
	}

	path, url, err := h.storage.Upload(ctx, coverFolder, image.Ext, image.Data)
	if err != nil {
		return nil, httperror.InternalServerError("blog.upload_image.failed", "Failed to upload image to storage", err.Error())
	}

	return &UploadCoverResponse{URL: url, Path: path}, nil
}
