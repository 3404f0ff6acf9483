// Package upload validates incoming images and writes them to the image store
// before any place or user operation runs.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/model"
)

// KeyPrefix is the key namespace of uploaded images.
const KeyPrefix = "images/"

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
}

// Images stores uploaded images under generated keys.
type Images struct {
	store    model.ImageStore
	maxBytes int64
}

func NewImages(store model.ImageStore, maxBytes int64) *Images {
	return &Images{store: store, maxBytes: maxBytes}
}

// Store sniffs the content type of r, rejects anything but png and jpeg
// larger than the configured limit, and stores it. It returns the new key.
func (i *Images) Store(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, i.maxBytes+1))
	if err != nil {
		return "", apierror.NewErrValidation(fmt.Sprintf("could not read image: %v", err))
	}
	if len(data) == 0 {
		return "", apierror.NewErrValidation("image is empty")
	}
	if int64(len(data)) > i.maxBytes {
		return "", apierror.NewErrValidation(fmt.Sprintf("image is larger than %d bytes", i.maxBytes))
	}

	mime := mimetype.Detect(data)
	ext := ""
	for m, e := range extensions {
		if mime.Is(m) {
			ext = e
			break
		}
	}
	if ext == "" {
		return "", apierror.NewErrValidation(fmt.Sprintf("invalid mime type %s", mime.String()))
	}

	key := fmt.Sprintf("%s%s.%s", KeyPrefix, uuid.NewString(), ext)
	if err := i.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "image/"+ext); err != nil {
		return "", apierror.NewErrStorage(err)
	}

	return key, nil
}
