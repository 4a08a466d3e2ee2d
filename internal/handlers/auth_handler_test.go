package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/identity"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

type stubIdentity struct {
	created *models.Identity
	err     error
}

func (s *stubIdentity) CreateUser(ctx context.Context, email, password, displayName string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &models.Identity{UID: "new-uid", Email: email, DisplayName: displayName}
	return s.created, nil
}

type stubSignIn struct {
	result *identity.SignInResult
	err    error
}

func (s *stubSignIn) SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubProfiles struct {
	created *models.Profile
	err     error
}

func (s *stubProfiles) Create(ctx context.Context, prof *models.Profile) error {
	if s.err != nil {
		return s.err
	}
	now := time.Now().UTC()
	prof.CreatedAt = now
	prof.UpdatedAt = now
	s.created = prof
	return nil
}

func (s *stubProfiles) GetOrCreate(ctx context.Context, uid, email, username string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Profile{UID: uid, Email: email, Username: username}, nil
}

func newAuthHandler(ident *stubIdentity, signIn *stubSignIn, profiles *stubProfiles) *AuthHandler {
	return NewAuthHandler(ident, signIn, profiles, "test-secret", time.Hour)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterCreatesIdentityAndProfile(t *testing.T) {
	ident := &stubIdentity{}
	profiles := &stubProfiles{}
	h := newAuthHandler(ident, &stubSignIn{}, profiles)

	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret-pw","age":"30","gender":"female","location":"NYC"}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NotNil(t, profiles.created)
	assert.Equal(t, "new-uid", profiles.created.UID, "profile keyed by the new identity's uid")
	assert.Equal(t, "alice", profiles.created.Username)
	require.NotNil(t, profiles.created.Age)
	assert.Equal(t, 30, *profiles.created.Age, "age stored as integer")
	assert.False(t, profiles.created.CreatedAt.IsZero())

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data, _ := json.Marshal(resp.Data)
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(data, &auth))
	assert.NotEmpty(t, auth.Token, "fresh account is signed in immediately")
	assert.Equal(t, "new-uid", auth.User.UID)
}

func TestRegisterValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"username":"alice","password":"secret-pw"}`},
		{"short password", `{"username":"alice","email":"a@x.com","password":"abc"}`},
		{"age too low", `{"username":"alice","email":"a@x.com","password":"secret-pw","age":"5"}`},
		{"age too high", `{"username":"alice","email":"a@x.com","password":"secret-pw","age":"200"}`},
		{"age not a number", `{"username":"alice","email":"a@x.com","password":"secret-pw","age":"old"}`},
		{"bad gender", `{"username":"alice","email":"a@x.com","password":"secret-pw","gender":"robot"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident := &stubIdentity{}
			h := newAuthHandler(ident, &stubSignIn{}, &stubProfiles{})
			rec := httptest.NewRecorder()
			h.Register(rec, postJSON("/api/auth/register", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, ident.created, "no account created on validation failure")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ident := &stubIdentity{err: identity.ErrEmailExists}
	h := newAuthHandler(ident, &stubSignIn{}, &stubProfiles{})
	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret-pw"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginReturnsProviderToken(t *testing.T) {
	signIn := &stubSignIn{result: &identity.SignInResult{
		UID:         "u1",
		Email:       "a@x.com",
		DisplayName: "alice",
		IDToken:     "provider-id-token",
	}}
	h := newAuthHandler(&stubIdentity{}, signIn, &stubProfiles{})
	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/api/auth/login", `{"email":"a@x.com","password":"secret-pw"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := json.Marshal(resp.Data)
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(data, &auth))
	assert.Equal(t, "provider-id-token", auth.Token)
	assert.Equal(t, "u1", auth.User.UID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newAuthHandler(&stubIdentity{}, &stubSignIn{err: identity.ErrInvalidCredentials}, &stubProfiles{})
	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/api/auth/login", `{"email":"a@x.com","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
