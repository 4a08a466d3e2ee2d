package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signInServer(t *testing.T, handler http.HandlerFunc) *PasswordSignIn {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := NewPasswordSignIn("test-api-key")
	p.Endpoint = srv.URL
	return p
}

func TestPasswordSignInSuccess(t *testing.T) {
	p := signInServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"localId":      "u1",
			"email":        "a@x.com",
			"displayName":  "alice",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
		})
	})

	res, err := p.SignIn(context.Background(), "a@x.com", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UID)
	assert.Equal(t, "alice", res.DisplayName)
	assert.Equal(t, "id-token", res.IDToken)
}

func TestPasswordSignInInvalidCredentials(t *testing.T) {
	for _, msg := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS"} {
		p := signInServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": msg},
			})
		})

		_, err := p.SignIn(context.Background(), "a@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials, msg)
	}
}

func TestPasswordSignInSurfacesOtherProviderErrors(t *testing.T) {
	p := signInServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": "USER_DISABLED"},
		})
	})

	_, err := p.SignIn(context.Background(), "a@x.com", "secret-pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "USER_DISABLED")
}

func TestPasswordSignInRequiresAPIKey(t *testing.T) {
	p := NewPasswordSignIn("")
	_, err := p.SignIn(context.Background(), "a@x.com", "secret-pw")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
