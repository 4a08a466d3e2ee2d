package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/config"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/handlers"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/identity"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/media"
	appMiddleware "github.com/abdullah-imran-1713/firebase-user-profile-app/internal/middleware"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/profilesync"
	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// Firebase Auth (account creation, user record updates, ID token
	// verification). The server still comes up without it so local work on
	// the unauthenticated surface is possible.
	identityClient, err := identity.NewClient(ctx, identity.Config{
		ProjectID:   cfg.FirebaseProjectID,
		ClientEmail: cfg.FirebaseClientEmail,
		PrivateKey:  cfg.FirebasePrivateKey,
	})
	if err != nil {
		log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
	}
	signIn := identity.NewPasswordSignIn(cfg.FirebaseWebAPIKey)

	profileStore, err := store.NewProfileStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer profileStore.Close(ctx)

	uploader, err := media.NewUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.UploadTimeout)
	if err != nil {
		log.Printf("Warning: failed to initialize Cloudinary uploader: %v", err)
	}

	controller := profilesync.NewController(identityClient, profileStore)

	authHandler := handlers.NewAuthHandler(identityClient, signIn, profileStore, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileStore, identityClient, controller)
	uploadHandler := handlers.NewUploadHandler(uploader)
	directoryHandler := handlers.NewDirectoryHandler(profileStore)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Auth(identityClient, cfg.JWTSecret))

			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
			r.Put("/profile/photo", profileHandler.SetPhoto)

			r.Get("/profiles", directoryHandler.List)
			r.Get("/profiles/{uid}", profileHandler.GetProfileByUID)

			r.Post("/upload", uploadHandler.Upload)
		})
	})

	log.Printf("profile API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
