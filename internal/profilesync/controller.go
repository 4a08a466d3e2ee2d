package profilesync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

var ErrMissingUID = errors.New("profilesync: missing user id")

// ValidationError reports field-level problems found before any write was
// issued.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profilesync: validation failed: %v", e.Fields)
}

// IdentityWriter is the slice of the identity provider the controller
// writes to.
type IdentityWriter interface {
	UpdateUser(ctx context.Context, uid string, displayName, photoURL *string) error
}

// ProfileWriter is the slice of the profile store the controller writes to.
type ProfileWriter interface {
	Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// Controller reconciles the identity provider and the profile store. Every
// accepted edit is written to both: the identity update (display name, photo
// reference) is issued and awaited before the store update, so an identity
// refresh immediately after a save reads its own write. A failure on either
// side is reported as a failure — a save is never claimed successful after a
// partial write, even though the first write may have landed.
type Controller struct {
	identity IdentityWriter
	store    ProfileWriter
}

func NewController(identity IdentityWriter, store ProfileWriter) *Controller {
	return &Controller{identity: identity, store: store}
}

// Save validates the edit and performs the ordered dual write. Validation
// failures return before any network call.
func (c *Controller) Save(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	if fields := req.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if req.Username != nil || req.PhotoURL != nil {
		if err := c.identity.UpdateUser(ctx, uid, req.Username, req.PhotoURL); err != nil {
			log.Printf("[SaveProfile] user=%s identity update error=%v", uid, err)
			return nil, fmt.Errorf("profilesync: identity update: %w", err)
		}
	}

	prof, err := c.store.Update(ctx, uid, req)
	if err != nil {
		// The identity write may already have landed. The store remains the
		// display source of truth for profile fields, so the divergence is
		// visible only in session chrome until the next successful save.
		log.Printf("[SaveProfile] user=%s store update error=%v", uid, err)
		return nil, fmt.Errorf("profilesync: store update: %w", err)
	}
	return prof, nil
}

// SetPhoto performs the photoURL-only dual write used after a successful
// avatar upload, in the same order as Save.
func (c *Controller) SetPhoto(ctx context.Context, uid, url string) (*models.Profile, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	return c.Save(ctx, uid, &models.UpdateProfileRequest{PhotoURL: &url})
}
