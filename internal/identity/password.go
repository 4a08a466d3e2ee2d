package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("identity: invalid email or password")

// PasswordSignIn signs users in with email/password against the Identity
// Toolkit REST API. The admin SDK has no password check, so login goes
// through this endpoint with the project's web API key.
type PasswordSignIn struct {
	APIKey     string
	HTTPClient *http.Client
	Endpoint   string
}

type SignInResult struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type signInErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewPasswordSignIn(apiKey string) *PasswordSignIn {
	return &PasswordSignIn{
		APIKey:   apiKey,
		Endpoint: "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *PasswordSignIn) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if p == nil || strings.TrimSpace(p.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint+"?key="+p.APIKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var out signInErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil {
			switch {
			case strings.HasPrefix(out.Error.Message, "INVALID_PASSWORD"),
				strings.HasPrefix(out.Error.Message, "EMAIL_NOT_FOUND"),
				strings.HasPrefix(out.Error.Message, "INVALID_LOGIN_CREDENTIALS"):
				return nil, ErrInvalidCredentials
			}
			if out.Error.Message != "" {
				return nil, fmt.Errorf("identity: sign-in rejected: %s", out.Error.Message)
			}
		}
		return nil, fmt.Errorf("identity: sign-in http %d", resp.StatusCode)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &SignInResult{
		UID:          out.LocalID,
		Email:        out.Email,
		DisplayName:  out.DisplayName,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
	}, nil
}
