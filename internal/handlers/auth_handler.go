package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/identity"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

type identityCreator interface {
	CreateUser(ctx context.Context, email, password, displayName string) (*models.Identity, error)
}

type passwordSignIn interface {
	SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error)
}

type profileCreator interface {
	Create(ctx context.Context, prof *models.Profile) error
	GetOrCreate(ctx context.Context, uid, email, username string) (*models.Profile, error)
}

type AuthHandler struct {
	identity      identityCreator
	signIn        passwordSignIn
	profiles      profileCreator
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthHandler(identity identityCreator, signIn passwordSignIn, profiles profileCreator, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		signIn:        signIn,
		profiles:      profiles,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates the Firebase account, then the profile document keyed by
// the new UID. The response carries a server-minted session token so the
// fresh account is signed in immediately, before the client ever holds a
// provider ID token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.identity.CreateUser(ctx, req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
			return
		}
		log.Printf("[Register] email=%s error=%v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	prof := &models.Profile{
		UID:      user.UID,
		Username: req.Username,
		Email:    req.Email,
		Age:      req.AgeValue(),
		Gender:   req.Gender,
		Location: req.Location,
	}
	if err := h.profiles.Create(ctx, prof); err != nil {
		log.Printf("[Register] user=%s profile create error=%v", user.UID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create profile"))
		return
	}

	token, err := h.generateToken(user.UID, user.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.AuthResponse{
		Token:   token,
		User:    *user,
		Profile: prof,
	}))
}

// Login signs in with email/password through the identity provider and
// returns the provider's ID token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.signIn.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid email or password"))
			return
		}
		log.Printf("[Login] email=%s error=%v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	prof, err := h.profiles.GetOrCreate(ctx, res.UID, res.Email, res.DisplayName)
	if err != nil {
		log.Printf("[Login] user=%s profile load error=%v", res.UID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token: res.IDToken,
		User: models.Identity{
			UID:         res.UID,
			Email:       res.Email,
			DisplayName: res.DisplayName,
			PhotoURL:    prof.PhotoURL,
		},
		Profile: prof,
	}))
}

func (h *AuthHandler) generateToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
