package models

import "strconv"

// Identity is the slice of the Firebase user record this app consumes.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Age arrives as form text and is stored as an integer.
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string   `json:"token"`
	User    Identity `json:"user"`
	Profile *Profile `json:"profile,omitempty"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Age != "" {
		age, err := strconv.Atoi(r.Age)
		if err != nil {
			errors["age"] = "Age must be a number"
		} else if age < MinAge || age > MaxAge {
			errors["age"] = "Age must be between 13 and 120"
		}
	}
	if r.Gender != "" && !AllowedGenders[r.Gender] {
		errors["gender"] = "Gender must be one of: male, female, other, prefer-not"
	}

	return errors
}

// AgeValue returns the parsed age, or nil when the field was left blank.
// Validate must have accepted the request first.
func (r *RegisterRequest) AgeValue() *int {
	if r.Age == "" {
		return nil
	}
	age, err := strconv.Atoi(r.Age)
	if err != nil {
		return nil
	}
	return &age
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
