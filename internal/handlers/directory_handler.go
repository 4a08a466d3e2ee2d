package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/middleware"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

type profileLister interface {
	ListExcluding(ctx context.Context, uid string) ([]models.Profile, error)
}

type DirectoryHandler struct {
	profiles profileLister
}

func NewDirectoryHandler(profiles profileLister) *DirectoryHandler {
	return &DirectoryHandler{profiles: profiles}
}

// List returns every stored profile in the store's natural order, minus the
// caller's own. The exclusion runs at query level so the caller's document
// never crosses the wire.
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	profiles, err := h.profiles.ListExcluding(ctx, userID)
	if err != nil {
		log.Printf("[Directory] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Unable to fetch user profiles"})
		return
	}

	entries := make([]models.DirectoryEntry, 0, len(profiles))
	for i := range profiles {
		entries = append(entries, profiles[i].DirectoryEntry())
	}
	writeJSON(w, http.StatusOK, models.DirectoryResponse{Profiles: entries})
}
