package documents

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

type HTTPHandler struct {
	Service *DocumentService
}

func NewHTTPHandler(service *DocumentService) *HTTPHandler {
	return &HTTPHandler{Service: service}
}

func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form
	// Max memory 32MB
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"error": "failed to parse form"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error": "file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	record, err := h.Service.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		slog.ErrorContext(r.Context(), "document upload failed", "error", err)
		http.Error(w, `{"error": "upload failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *HTTPHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	reader, contentType, err := h.Service.Download(r.Context(), key)
	if err != nil {
		http.Error(w, `{"error": "document not found"}`, http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, reader)
}
