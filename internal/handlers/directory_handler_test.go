package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/middleware"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

type stubLister struct {
	excluded string
	profiles []models.Profile
	err      error
}

func (s *stubLister) ListExcluding(ctx context.Context, uid string) ([]models.Profile, error) {
	s.excluded = uid
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.UID != uid {
			out = append(out, p)
		}
	}
	return out, nil
}

func directoryRequest(uid string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	if uid != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uid))
	}
	return req
}

func TestDirectoryExcludesCaller(t *testing.T) {
	age := 30
	lister := &stubLister{profiles: []models.Profile{
		{UID: "u1", Username: "alice", Email: "a@x.com", Age: &age, Gender: "female", Location: "NYC"},
		{UID: "u2", Username: "bob", Email: "b@x.com"},
	}}
	h := NewDirectoryHandler(lister)

	rec := httptest.NewRecorder()
	h.List(rec, directoryRequest("u2"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", lister.excluded, "exclusion pushed to the query")

	var resp models.DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Profiles, 1)
	assert.Equal(t, "u1", resp.Profiles[0].UID)
	require.NotNil(t, resp.Profiles[0].Age)
	assert.Equal(t, 30, *resp.Profiles[0].Age)
}

func TestDirectoryIncludesOtherCallersProfile(t *testing.T) {
	// The u1 profile created at signup is visible to a different identity.
	lister := &stubLister{profiles: []models.Profile{
		{UID: "u1", Username: "alice", Email: "a@x.com"},
	}}
	h := NewDirectoryHandler(lister)

	rec := httptest.NewRecorder()
	h.List(rec, directoryRequest("u9"))

	var resp models.DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Profiles, 1)
	assert.Equal(t, "alice", resp.Profiles[0].Username)
}

func TestDirectoryEmptyStoreReturnsEmptyList(t *testing.T) {
	h := NewDirectoryHandler(&stubLister{})
	rec := httptest.NewRecorder()
	h.List(rec, directoryRequest("u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profiles":[]}`, rec.Body.String())
}

func TestDirectoryStoreFailureIs500(t *testing.T) {
	h := NewDirectoryHandler(&stubLister{err: errors.New("mongo down")})
	rec := httptest.NewRecorder()
	h.List(rec, directoryRequest("u1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unable to fetch user profiles", resp["error"])
}
