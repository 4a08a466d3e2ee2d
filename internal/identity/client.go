package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

var (
	ErrNotConfigured = errors.New("identity: firebase auth not configured")
	ErrEmailExists   = errors.New("identity: email already registered")
)

// Config carries the service-account credentials for the Firebase project.
type Config struct {
	ProjectID   string
	ClientEmail string
	// PrivateKey may contain literal "\n" sequences when sourced from an env
	// file; they are normalized to real newlines.
	PrivateKey string
}

// Client wraps the Firebase Auth admin SDK: account creation, user record
// lookup, display name / photo updates and ID token verification.
type Client struct {
	auth *fbauth.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, ErrNotConfigured
	}

	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("identity: init app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: init auth client: %w", err)
	}
	return &Client{auth: authClient}, nil
}

func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (*models.Identity, error) {
	if c == nil || c.auth == nil {
		return nil, ErrNotConfigured
	}

	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	u, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return identityFromRecord(u), nil
}

func (c *Client) GetUser(ctx context.Context, uid string) (*models.Identity, error) {
	if c == nil || c.auth == nil {
		return nil, ErrNotConfigured
	}
	u, err := c.auth.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return identityFromRecord(u), nil
}

// UpdateUser sets the display name and/or photo reference on the Firebase
// user record. Nil pointers leave the corresponding field unchanged.
func (c *Client) UpdateUser(ctx context.Context, uid string, displayName, photoURL *string) error {
	if c == nil || c.auth == nil {
		return ErrNotConfigured
	}
	if displayName == nil && photoURL == nil {
		return nil
	}

	params := &fbauth.UserToUpdate{}
	if displayName != nil {
		params = params.DisplayName(*displayName)
	}
	if photoURL != nil {
		params = params.PhotoURL(*photoURL)
	}

	_, err := c.auth.UpdateUser(ctx, uid, params)
	return err
}

// VerifyIDToken checks a Firebase ID token and returns the caller's UID and
// email claim.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (uid, email string, err error) {
	if c == nil || c.auth == nil {
		return "", "", ErrNotConfigured
	}
	tok, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", err
	}
	if v, ok := tok.Claims["email"].(string); ok {
		email = v
	}
	return tok.UID, email, nil
}

func identityFromRecord(u *fbauth.UserRecord) *models.Identity {
	return &models.Identity{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}
