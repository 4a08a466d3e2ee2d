package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/media"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/middleware"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/profilesync"
)

// MaxUploadBytes caps avatar files at 5 MiB. The boundary is inclusive: a
// file of exactly this size is accepted.
const MaxUploadBytes = 5 * 1024 * 1024

// multipart framing overhead allowed on top of the file itself.
const uploadFormSlack = 1 << 20

type UploadHandler struct {
	uploader profilesync.Uploader
}

func NewUploadHandler(uploader profilesync.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload validates the multipart "file" field and forwards it to the media
// host. Validation failures never reach the host; host failures surface the
// host's reported status and message when available.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.UploadErrorResponse{Error: "Unauthorized"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+uploadFormSlack)
	if err := r.ParseMultipartForm(MaxUploadBytes + uploadFormSlack); err != nil {
		writeJSON(w, http.StatusBadRequest, models.UploadErrorResponse{Error: "File too large or invalid form data"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.UploadErrorResponse{Error: "No file provided"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		writeJSON(w, http.StatusBadRequest, models.UploadErrorResponse{Error: "Only JPG/PNG/WEBP files allowed"})
		return
	}
	if header.Size > MaxUploadBytes {
		writeJSON(w, http.StatusBadRequest, models.UploadErrorResponse{Error: "File size exceeds 5MB limit"})
		return
	}

	url, err := h.uploader.Upload(r.Context(), file, userID)
	if err != nil {
		var hostErr *media.HostError
		if errors.As(err, &hostErr) {
			status := hostErr.Code
			if status < 400 || status > 599 {
				status = http.StatusInternalServerError
			}
			writeJSON(w, status, models.UploadErrorResponse{
				Error:   hostErr.Message,
				Code:    hostErr.Code,
				Details: hostErr.Details,
			})
			return
		}
		log.Printf("[Upload] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.UploadErrorResponse{Error: "Failed to upload image"})
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{Success: true, URL: url})
}

func isAllowedImageType(contentType string) bool {
	allowed := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	return allowed[contentType]
}
