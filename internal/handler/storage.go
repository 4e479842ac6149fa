package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

var publicBuckets = map[string]bool{
	domain.AvatarBucket: true,
}

type UploadResult struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

func objectPath(r *http.Request) (string, bool) {
	p := chi.URLParam(r, "*")
	if p == "" || strings.Contains(p, "..") || path.Clean("/"+p) != "/"+p {
		return "", false
	}
	return p, true
}

// UploadObject stores the request body. The first path segment must be the
// caller's id and an existing object is never overwritten.
func (h *Handler) UploadObject(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if !publicBuckets[bucket] {
		h.notFound(w, r, "bucket not found")
		return
	}

	p, ok := objectPath(r)
	if !ok {
		h.badRequest(w, r, errors.New("invalid object path"))
		return
	}

	sub, _ := callerID(r)
	if owner, _, _ := strings.Cut(p, "/"); owner != sub.String() {
		h.forbidden(w, r, "objects must be stored under your own folder")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorResponse(w, r, http.StatusRequestEntityTooLarge, domain.CodeBadRequest, "file is too large")
			return
		}
		h.badRequest(w, r, err)
		return
	}
	if len(data) == 0 {
		h.badRequest(w, r, errors.New("file is empty"))
		return
	}

	// the stored type is sniffed from the bytes, the request header is ignored
	contentType := mimetype.Detect(data).String()
	if bucket == domain.AvatarBucket && !strings.HasPrefix(contentType, "image/") {
		h.badRequest(w, r, errors.New("avatars must be images"))
		return
	}

	obj := &domain.Object{
		Bucket:      bucket,
		Path:        p,
		Owner:       sub,
		ContentType: contentType,
		Data:        data,
	}
	if err := h.store.PutObject(r.Context(), obj); err != nil {
		var constraintErr *repository.ConstraintError
		switch {
		case errors.As(err, &constraintErr):
			h.errorResponse(w, r, http.StatusConflict, domain.CodeConflict, "object already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusCreated, "object uploaded", UploadResult{
		Bucket:    bucket,
		Path:      p,
		PublicURL: strings.TrimSuffix(h.config.Server.PublicURL, "/") + "/storage/v1/object/public/" + bucket + "/" + p,
	})
}

func (h *Handler) GetPublicObject(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	p, ok := objectPath(r)
	if !publicBuckets[bucket] || !ok {
		h.notFound(w, r, "object not found")
		return
	}

	obj, err := h.store.GetObject(r.Context(), bucket, p)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "object not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(obj.Data); err != nil {
		h.logInternalServerError(r, err)
	}
}
