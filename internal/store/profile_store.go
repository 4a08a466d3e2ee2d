package store

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

var ErrProfileNotFound = errors.New("store: profile not found")

// ProfileStore reads and writes profile documents in the "profiles"
// collection, one document per Firebase UID.
type ProfileStore struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewProfileStore(ctx context.Context, mongoURI, dbName string) (*ProfileStore, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiles")

	// Best-effort index.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &ProfileStore{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *ProfileStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *ProfileStore) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"uid": uid}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

// Create inserts the initial profile document for a freshly created account.
// CreatedAt is set once here and never touched again.
func (s *ProfileStore) Create(ctx context.Context, prof *models.Profile) error {
	now := time.Now().UTC()
	prof.CreatedAt = now
	prof.UpdatedAt = now
	_, err := s.profilesCol.InsertOne(ctx, prof)
	return err
}

// GetOrCreate returns the profile for uid, creating a minimal document from
// the identity record when none exists yet (e.g. Google sign-in accounts
// that never went through the registration form).
func (s *ProfileStore) GetOrCreate(ctx context.Context, uid, email, username string) (*models.Profile, error) {
	var prof models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"uid": uid}).Decode(&prof)
	if err == nil {
		if email != "" && prof.Email == "" {
			now := time.Now().UTC()
			_, _ = s.profilesCol.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{
				"$set": bson.M{"email": email, "updated_at": now},
			})
			prof.Email = email
			prof.UpdatedAt = now
		}
		return &prof, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prof = models.Profile{
		UID:      uid,
		Email:    email,
		Username: username,
	}
	if err := s.Create(ctx, &prof); err != nil {
		// If a race created it, fetch again.
		var retry models.Profile
		if err2 := s.profilesCol.FindOne(ctx, bson.M{"uid": uid}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, err
	}
	return &prof, nil
}

// Update applies a partial edit to the stored document. Every write
// refreshes updated_at, including writes that change no other field.
func (s *ProfileStore) Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := UpdateFields(req)

	_, err := s.profilesCol.UpdateOne(
		ctx,
		bson.M{"uid": uid},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"uid":        uid,
				"created_at": set["updated_at"],
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"uid": uid}).Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

// UpdateFields translates a partial edit into the $set document. Nil request
// fields are omitted so existing values survive.
func UpdateFields(req *models.UpdateProfileRequest) bson.M {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if req.Username != nil {
		set["username"] = *req.Username
	}
	if req.PhotoURL != nil {
		set["photo_url"] = *req.PhotoURL
	}
	if req.Age != nil {
		set["age"] = *req.Age
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	return set
}

// List returns every profile document in the store's natural order.
func (s *ProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	return s.list(ctx, bson.M{})
}

// ListExcluding returns every profile except the one owned by uid. The
// filter runs at query level so the excluded document never leaves the
// database.
func (s *ProfileStore) ListExcluding(ctx context.Context, uid string) ([]models.Profile, error) {
	if uid == "" {
		return s.list(ctx, bson.M{})
	}
	return s.list(ctx, bson.M{"uid": bson.M{"$ne": uid}})
}

func (s *ProfileStore) list(ctx context.Context, filter bson.M) ([]models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]models.Profile, 0)
	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
