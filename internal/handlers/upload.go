package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

const maxPhotoBytes = 5 * 1024 * 1024

// IsMultipart reports whether the request carries a multipart form.
func IsMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// FormFiles reads up to max image files from a multipart field. Requests
// that are not multipart yield no files.
func FormFiles(c *fiber.Ctx, field string, max int) ([]storage.Object, error) {
	if !IsMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.BadRequest("invalid multipart form")
	}

	headers := form.File[field]
	if len(headers) > max {
		return nil, apperr.BadRequest(fmt.Sprintf("at most %d files allowed in %s", max, field))
	}

	objects := make([]storage.Object, 0, len(headers))
	for _, fh := range headers {
		obj, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// FormFile reads a single optional image file.
func FormFile(c *fiber.Ctx, field string) (*storage.Object, error) {
	files, err := FormFiles(c, field, 1)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func readImage(fh *multipart.FileHeader) (storage.Object, error) {
	if fh.Size > maxPhotoBytes {
		return storage.Object{}, apperr.BadRequest(fh.Filename + " exceeds the 5MB limit")
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Object{}, apperr.BadRequest("unreadable file " + fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return storage.Object{}, apperr.BadRequest("unreadable file " + fh.Filename)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return storage.Object{}, apperr.BadRequest(fh.Filename + " is not an image")
	}
	return storage.Object{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}
