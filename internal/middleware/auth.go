package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
)

// TokenVerifier checks a Firebase ID token and returns the subject's UID and
// email claim.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (uid, email string, err error)
}

// Auth validates the Authorization bearer token. Firebase ID tokens are the
// primary credential; server-minted HS256 session tokens (issued at
// registration, before the client holds a provider token) are accepted as a
// fallback.
func Auth(verifier TokenVerifier, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid authorization header format"))
				return
			}
			tokenString := parts[1]

			if verifier != nil {
				if uid, email, err := verifier.VerifyIDToken(r.Context(), tokenString); err == nil {
					next.ServeHTTP(w, r.WithContext(withUser(r.Context(), uid, email)))
					return
				}
			}

			uid, email, ok := parseSessionToken(tokenString, jwtSecret)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), uid, email)))
		})
	}
}

func parseSessionToken(tokenString, jwtSecret string) (uid, email string, ok bool) {
	if jwtSecret == "" {
		return "", "", false
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}
	claims, isMap := token.Claims.(jwt.MapClaims)
	if !isMap {
		return "", "", false
	}
	uid, isStr := claims["user_id"].(string)
	if !isStr || uid == "" {
		return "", "", false
	}
	email, _ = claims["email"].(string)
	return uid, email, true
}

func withUser(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, UserEmailKey, email)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserEmail extracts the authenticated user's email from context
func GetUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(UserEmailKey).(string)
	if !ok {
		return ""
	}
	return email
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
