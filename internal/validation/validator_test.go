package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	City  string `json:"city" validate:"max=5"`
}

func TestStruct(t *testing.T) {
	v := New()
	v.Struct(signup{Email: "bad", City: "Anuradhapura"})

	assert.False(t, v.Valid())
	assert.Equal(t, "name is required", v.Errors["name"])
	assert.Equal(t, "Please provide a valid email address", v.Errors["email"])
	assert.Equal(t, "city must not be more than 5 characters long", v.Errors["city"])
	assert.Equal(t, v.Errors["city"], v.First())
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "too short", password: "1234567", valid: false},
		{name: "minimum", password: "12345678", valid: true},
		{name: "too long", password: strings.Repeat("a", MaxPasswordLength+1), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Password("password", tt.password)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestAddErrorKeepsFirst(t *testing.T) {
	v := New()
	v.AddError("email", "first")
	v.Check(false, "email", "second")
	v.Check(true, "name", "ignored")

	assert.Equal(t, map[string]string{"email": "first"}, v.Errors)
	assert.Equal(t, "", New().First())
}
