package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tavle/internal/assets"
	"github.com/starford/tavle/internal/checksum"
)

// maxUploadBytes caps multipart asset uploads.
const maxUploadBytes = 50 << 20 // 50 MB

// AssetHandler accepts, serves, and deletes managed asset files.
type AssetHandler struct {
	store *assets.Store
}

// NewAssetHandler creates a handler backed by the given asset store.
func NewAssetHandler(store *assets.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

// fileTypeFor picks the declared file type for an upload: an explicit form
// value wins, otherwise the part's content type is consulted.
func fileTypeFor(declared, contentType string) string {
	if declared != "" {
		return declared
	}
	switch {
	case contentType == "application/pdf":
		return "pdf"
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	default:
		return ""
	}
}

// Upload handles POST /api/assets (multipart/form-data, field "file").
// An optional "file_type" field overrides category routing.
//
//	@Summary		Upload an asset file
//	@Tags			assets
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"File to store"
//	@Param			file_type	formData	string	false	"Declared type (pdf, image)"
//	@Success		201			{object}	AssetUploadResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets [post]
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	fileType := fileTypeFor(r.FormValue("file_type"), header.Header.Get("Content-Type"))
	loc, err := h.store.IngestFromReader(bytes.NewReader(data), header.Filename, fileType)
	if err != nil {
		slog.Error("asset upload failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AssetUploadResponse{
		Locator:  string(loc),
		Size:     int64(len(data)),
		Checksum: checksum.Sum(data),
		URL:      "/api/assets/" + string(loc),
	})
}

// Import handles POST /api/assets/import. The server copies a file from a
// local filesystem path into the managed asset tree; the source is left
// untouched.
//
//	@Summary		Import an asset from a server-local path
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportAssetRequest	true	"Source path and declared type"
//	@Success		201		{object}	AssetUploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/import [post]
func (h *AssetHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	loc, err := h.store.IngestFromPath(req.Path, req.FileType)
	if err != nil {
		writeErr(w, err)
		return
	}
	resolved, err := h.store.Resolve(loc)
	if err != nil {
		writeErr(w, err)
		return
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AssetUploadResponse{
		Locator:  string(loc),
		Size:     int64(len(data)),
		Checksum: checksum.Sum(data),
		URL:      "/api/assets/" + string(loc),
	})
}

// locatorParam rebuilds the asset locator from the category and filename
// URL parameters.
func locatorParam(r *http.Request) assets.Locator {
	return assets.Locator(chi.URLParam(r, "category") + "/" + chi.URLParam(r, "filename"))
}

// ServeFile handles GET /api/assets/{category}/{filename}.
//
//	@Summary		Download a stored asset
//	@Tags			assets
//	@Param			category	path	string	true	"Asset category"
//	@Param			filename	path	string	true	"Stored filename"
//	@Success		200			"File contents"
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{category}/{filename} [get]
func (h *AssetHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.store.Resolve(locatorParam(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Delete handles DELETE /api/assets/{category}/{filename}. Deleting an
// asset that is already gone returns 404 rather than an error.
//
//	@Summary		Delete a stored asset
//	@Tags			assets
//	@Param			category	path	string	true	"Asset category"
//	@Param			filename	path	string	true	"Stored filename"
//	@Success		204			"Asset deleted"
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{category}/{filename} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Delete(locatorParam(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
