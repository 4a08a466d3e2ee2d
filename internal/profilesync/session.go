package profilesync

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

// State of a profile-editing session.
type State int

const (
	// StateViewing shows last-known values; editing controls are disabled.
	StateViewing State = iota
	// StateEditing holds mutable local copies; the stores are untouched.
	StateEditing
	// StateSaving has a dual write in flight; submission is gated.
	StateSaving
)

var (
	ErrNotEditing     = errors.New("profilesync: session is not in editing state")
	ErrSaveInFlight   = errors.New("profilesync: a save is already in flight")
	ErrUploadInFlight = errors.New("profilesync: an upload is in flight")
	ErrSessionClosed  = errors.New("profilesync: session is closed")
)

// Uploader sends an avatar file to the upload gateway and returns the
// assigned URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, userID string) (string, error)
}

// EditSession is one user's profile-editing session: a small state machine
// over local form copies of the identity record and the profile document.
// Edits touch the stores only on Save; Cancel or teardown discards them.
//
// The session serializes its own writes — one save or upload at a time —
// which is the only concurrency guard. Two sessions editing the same
// profile race with last-write-wins semantics at the store.
type EditSession struct {
	mu         sync.Mutex
	controller *Controller
	uploader   Uploader

	uid    string
	email  string
	view   models.Profile              // last-known saved values
	form   models.UpdateProfileRequest // local edits, valid while editing
	state  State
	upload bool
	closed bool
}

// NewEditSession seeds the view from the identity record and the profile
// document. The document wins for username/age/gender/location; the identity
// record supplies the photo and fills username when the document has none.
func NewEditSession(ctrl *Controller, up Uploader, ident *models.Identity, prof *models.Profile) *EditSession {
	view := models.Profile{}
	if prof != nil {
		view = *prof
	}
	if ident != nil {
		if view.UID == "" {
			view.UID = ident.UID
		}
		if view.Email == "" {
			view.Email = ident.Email
		}
		if view.Username == "" {
			view.Username = ident.DisplayName
		}
		if view.PhotoURL == "" {
			view.PhotoURL = ident.PhotoURL
		}
	}
	return &EditSession{
		controller: ctrl,
		uploader:   up,
		uid:        view.UID,
		email:      view.Email,
		view:       view,
		state:      StateViewing,
	}
}

// NewEditSessionFromAuth seeds the session from a resolved auth state. It
// returns nil while the state is still loading or after sign-out; callers
// show their neutral loading / signed-out view instead of starting a session.
func NewEditSessionFromAuth(ctrl *Controller, up Uploader, auth *AuthState, prof *models.Profile) *EditSession {
	snap := auth.Current()
	if snap.Status != StatusSignedIn {
		return nil
	}
	return NewEditSession(ctrl, up, snap.User, prof)
}

func (s *EditSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *EditSession) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

// View returns the last-known saved values.
func (s *EditSession) View() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// BeginEdit copies the current view into mutable form fields.
func (s *EditSession) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateViewing {
		return ErrSaveInFlight
	}
	s.form = models.UpdateProfileRequest{
		Username: strPtr(s.view.Username),
		PhotoURL: strPtr(s.view.PhotoURL),
		Age:      s.view.Age,
		Gender:   strPtr(s.view.Gender),
		Location: strPtr(s.view.Location),
	}
	s.state = StateEditing
	return nil
}

func (s *EditSession) SetUsername(v string) error { return s.setField(func() { s.form.Username = &v }) }
func (s *EditSession) SetAge(v int) error         { return s.setField(func() { s.form.Age = &v }) }
func (s *EditSession) SetGender(v string) error   { return s.setField(func() { s.form.Gender = &v }) }
func (s *EditSession) SetLocation(v string) error { return s.setField(func() { s.form.Location = &v }) }

func (s *EditSession) setField(apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateEditing {
		return ErrNotEditing
	}
	apply()
	return nil
}

// Form returns the current local edits.
func (s *EditSession) Form() models.UpdateProfileRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Cancel discards local edits and returns to viewing. In-flight requests are
// not aborted; their results are discarded when they complete.
func (s *EditSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing {
		s.form = models.UpdateProfileRequest{}
		s.state = StateViewing
	}
}

// Save validates the full profile and issues the ordered dual write. On
// validation failure no network call is made; on write failure the session
// stays in editing with local edits preserved. Only a fully successful save
// transitions back to viewing.
func (s *EditSession) Save(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	if s.state != StateEditing {
		s.mu.Unlock()
		return nil, ErrNotEditing
	}
	if s.upload {
		s.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	req := s.form
	if fields := req.ValidateComplete(); len(fields) > 0 {
		s.mu.Unlock()
		return nil, &ValidationError{Fields: fields}
	}
	s.state = StateSaving
	uid := s.uid
	s.mu.Unlock()

	prof, err := s.controller.Save(ctx, uid, &req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if err != nil {
		s.state = StateEditing
		return nil, err
	}
	s.view = *prof
	s.form = models.UpdateProfileRequest{}
	s.state = StateViewing
	return prof, nil
}

// UploadAvatar sends the selected file through the upload gateway and, on
// success, dual-writes the returned URL as the new photo reference. Failures
// leave the previous photo reference in place. Saves are gated while the
// upload is in flight.
func (s *EditSession) UploadAvatar(ctx context.Context, file io.Reader) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionClosed
	}
	if s.state != StateEditing {
		s.mu.Unlock()
		return "", ErrNotEditing
	}
	if s.upload {
		s.mu.Unlock()
		return "", ErrUploadInFlight
	}
	s.upload = true
	uid := s.uid
	s.mu.Unlock()

	url, err := s.uploader.Upload(ctx, file, uid)
	if err == nil {
		_, err = s.controller.SetPhoto(ctx, uid, url)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = false
	if s.closed {
		return "", ErrSessionClosed
	}
	if err != nil {
		return "", err
	}
	s.form.PhotoURL = &url
	s.view.PhotoURL = url
	return url, nil
}

// Close tears the session down. Local edits are dropped and no implicit
// save occurs; results of requests still in flight are discarded.
func (s *EditSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.form = models.UpdateProfileRequest{}
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
