package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/middleware"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/profilesync"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/store"
)

type profileReader interface {
	GetByUID(ctx context.Context, uid string) (*models.Profile, error)
	GetOrCreate(ctx context.Context, uid, email, username string) (*models.Profile, error)
}

type identityReader interface {
	GetUser(ctx context.Context, uid string) (*models.Identity, error)
}

type ProfileHandler struct {
	profiles   profileReader
	identity   identityReader
	controller *profilesync.Controller
}

func NewProfileHandler(profiles profileReader, identity identityReader, controller *profilesync.Controller) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, identity: identity, controller: controller}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	email := middleware.GetUserEmail(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.GetOrCreate(ctx, userID, email, "")
	if err != nil {
		log.Printf("[GetProfile] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// UpdateProfile applies an edit through the sync controller: identity
// provider first, profile store second. A validation failure or a failed
// write on either side reports an error; the caller's local edits are theirs
// to retry with.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.controller.Save(ctx, userID, &req)
	if err != nil {
		var verr *profilesync.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(verr.Fields))
			return
		}
		log.Printf("[UpdateProfile] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save changes. Please try again."))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// SetPhoto records an uploaded avatar URL on both the identity provider and
// the profile document. Clients call this after a successful upload.
func (h *ProfileHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing photo URL"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.controller.SetPhoto(ctx, userID, req.URL)
	if err != nil {
		log.Printf("[SetPhoto] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update photo"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// GetProfileByUID returns another user's profile for the directory detail
// page. Missing fields are backfilled best-effort from the identity record.
func (h *ProfileHandler) GetProfileByUID(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	targetID := chi.URLParam(r, "uid")
	if targetID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing uid"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.GetByUID(ctx, targetID)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			log.Printf("[GetProfileByUID] uid=%s error=%v", targetID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
			return
		}
		// No document yet; fall back to the identity record.
		if h.identity == nil {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		u, err2 := h.identity.GetUser(ctx, targetID)
		if err2 != nil {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.DirectoryEntry{
			UID:      u.UID,
			Username: u.DisplayName,
			Email:    u.Email,
			PhotoURL: u.PhotoURL,
		}))
		return
	}

	entry := prof.DirectoryEntry()
	if h.identity != nil && (entry.Username == "" || entry.PhotoURL == "") {
		if u, err2 := h.identity.GetUser(ctx, targetID); err2 == nil {
			if entry.Username == "" {
				entry.Username = u.DisplayName
			}
			if entry.PhotoURL == "" {
				entry.PhotoURL = u.PhotoURL
			}
		}
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entry))
}
