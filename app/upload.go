package app

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"henalis/pkg/httperror"
)

// ObjectStorage stores uploaded files and removes them again.
type ObjectStorage interface {
	Upload(ctx context.Context, folder, ext string, data []byte) (path string, url string, err error)
	Delete(ctx context.Context, path string) error
}

const maxImageSize = 5 * 1024 * 1024

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ReadImage reads the multipart image in field and checks its size and content type.
func ReadImage(ctx context.Context, field string) (Image, error) {
	c, err := FiberCtx(ctx)
	if err != nil {
		return Image{}, err
	}

	file, err := c.FormFile(field)
	if err != nil {
		return Image{}, httperror.BadRequest("upload.missing_file", "Image file is required (use '"+field+"' field)", fiber.Map{"error": err.Error()})
	}

	if file.Size > maxImageSize {
		return Image{}, httperror.BadRequest("upload.file_too_large", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(file.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Image{}, httperror.BadRequest("upload.invalid_content_type", "Only PNG, JPEG/JPG and WEBP images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg", "image/webp"},
			})
	}

	fileReader, err := file.Open()
	if err != nil {
		return Image{}, httperror.InternalServerError("upload.file_open_error", "Failed to open uploaded file", err.Error())
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		return Image{}, httperror.InternalServerError("upload.file_read_error", "Failed to read file content", err.Error())
	}

	return Image{Data: data, ContentType: contentType, Ext: ext}, nil
}
