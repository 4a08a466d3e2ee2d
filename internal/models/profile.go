package models

import "time"

// Gender values accepted on a profile. Anything else is rejected at
// validation time; absent means "not set".
var AllowedGenders = map[string]bool{
	"male":       true,
	"female":     true,
	"other":      true,
	"prefer-not": true,
}

const (
	MinAge = 13
	MaxAge = 120
)

// Profile is the user-editable profile document stored in Mongo, keyed by the
// Firebase UID. UID is immutable after creation and is the sole join key to
// the Firebase user record.
type Profile struct {
	UID       string    `json:"uid" bson:"uid"`
	Username  string    `json:"username,omitempty" bson:"username,omitempty"`
	Email     string    `json:"email" bson:"email,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty" bson:"photo_url,omitempty"`
	Age       *int      `json:"age,omitempty" bson:"age,omitempty"`
	Gender    string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// DirectoryEntry is the public projection of a profile returned by the
// directory endpoint.
type DirectoryEntry struct {
	UID      string `json:"uid"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
}

func (p *Profile) DirectoryEntry() DirectoryEntry {
	return DirectoryEntry{
		UID:      p.UID,
		Username: p.Username,
		Email:    p.Email,
		PhotoURL: p.PhotoURL,
		Age:      p.Age,
		Gender:   p.Gender,
		Location: p.Location,
	}
}

// UpdateProfileRequest carries a partial profile edit. Nil fields are left
// unchanged in both the Firebase user record and the stored document.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	PhotoURL *string `json:"photoURL"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
	Location *string `json:"location"`
}

// Validate checks field-level rules. A request that fails here never reaches
// the network.
func (r *UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Age != nil && (*r.Age < MinAge || *r.Age > MaxAge) {
		errors["age"] = "Age must be between 13 and 120"
	}
	if r.Gender != nil && *r.Gender != "" && !AllowedGenders[*r.Gender] {
		errors["gender"] = "Gender must be one of: male, female, other, prefer-not"
	}

	return errors
}

// ValidateComplete enforces the full-profile completion rules used by the
// profile editing flow: username, age, gender and location must all be
// present and non-empty.
func (r *UpdateProfileRequest) ValidateComplete() map[string]string {
	errors := r.Validate()

	if r.Username == nil || *r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Age == nil {
		errors["age"] = "Age is required"
	}
	if r.Gender == nil || *r.Gender == "" {
		errors["gender"] = "Gender is required"
	}
	if r.Location == nil || *r.Location == "" {
		errors["location"] = "Location is required"
	}

	return errors
}
