package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestUpdateProfileRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       UpdateProfileRequest
		wantField string
	}{
		{"empty is valid", UpdateProfileRequest{}, ""},
		{"age 13 ok", UpdateProfileRequest{Age: intp(13)}, ""},
		{"age 120 ok", UpdateProfileRequest{Age: intp(120)}, ""},
		{"age 12 rejected", UpdateProfileRequest{Age: intp(12)}, "age"},
		{"age 121 rejected", UpdateProfileRequest{Age: intp(121)}, "age"},
		{"age 5 rejected", UpdateProfileRequest{Age: intp(5)}, "age"},
		{"age 200 rejected", UpdateProfileRequest{Age: intp(200)}, "age"},
		{"known gender ok", UpdateProfileRequest{Gender: strp("prefer-not")}, ""},
		{"unknown gender rejected", UpdateProfileRequest{Gender: strp("robot")}, "gender"},
		{"empty gender ok", UpdateProfileRequest{Gender: strp("")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			if tt.wantField == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestValidateCompleteRequiresAllFields(t *testing.T) {
	errs := (&UpdateProfileRequest{}).ValidateComplete()
	for _, field := range []string{"username", "age", "gender", "location"} {
		assert.Contains(t, errs, field)
	}

	full := UpdateProfileRequest{
		Username: strp("alice"),
		Age:      intp(30),
		Gender:   strp("female"),
		Location: strp("NYC"),
	}
	assert.Empty(t, full.ValidateComplete())
}

func TestRegisterRequestAgeHandling(t *testing.T) {
	req := RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret-pw", Age: "30"}
	assert.Empty(t, req.Validate())
	age := req.AgeValue()
	if assert.NotNil(t, age) {
		assert.Equal(t, 30, *age)
	}

	blank := RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret-pw"}
	assert.Empty(t, blank.Validate())
	assert.Nil(t, blank.AgeValue())

	bad := RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret-pw", Age: "old"}
	assert.Contains(t, bad.Validate(), "age")
}

func TestDirectoryEntryProjection(t *testing.T) {
	age := 30
	p := Profile{
		UID:      "u1",
		Username: "alice",
		Email:    "a@x.com",
		PhotoURL: "https://img.example/a.png",
		Age:      &age,
		Gender:   "female",
		Location: "NYC",
	}
	e := p.DirectoryEntry()
	assert.Equal(t, "u1", e.UID)
	assert.Equal(t, "alice", e.Username)
	assert.Equal(t, &age, e.Age)
}
