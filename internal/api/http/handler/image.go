package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/dtroode/places-server/internal/api/http/response"
	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

// Image streams stored images under /uploads/.
type Image struct {
	store  model.ImageStore
	logger *logger.Logger
}

func NewImage(store model.ImageStore, logger *logger.Logger) *Image {
	return &Image{store: store, logger: logger}
}

func (h *Image) Download(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" {
		response.Error(w, apierror.NewErrImageNotFound(key), h.logger)
		return
	}

	rc, err := h.store.Download(r.Context(), key)
	if errors.Is(err, model.ErrNotFound) {
		response.Error(w, apierror.NewErrImageNotFound(key), h.logger)
		return
	}
	if err != nil {
		response.Error(w, apierror.NewErrStorage(err), h.logger)
		return
	}
	defer rc.Close()

	// DetectReader consumes only a prefix; it is replayed before the rest.
	var head bytes.Buffer
	mtype, err := mimetype.DetectReader(io.TeeReader(rc, &head))
	if err != nil {
		response.Error(w, apierror.NewErrStorage(err), h.logger)
		return
	}

	w.Header().Set("Content-Type", mtype.String())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, io.MultiReader(&head, rc)); err != nil {
		h.logger.Debug("failed to write image", "image_key", key, "error", err.Error())
	}
}
