package handlers

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpRequest_Normalize(t *testing.T) {
	req := signUpRequest{Name: "  Ann  ", Email: "  A@X.com ", Password: "secret1"}
	req.normalize()

	assert.Equal(t, "Ann", req.Name)
	assert.Equal(t, "a@x.com", req.Email)
	assert.Equal(t, "user", req.Role)
	assert.NoError(t, req.Validate())
}

func TestSignUpRequest_Validate(t *testing.T) {
	valid := signUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret1", Role: "user"}

	tests := []struct {
		name   string
		mutate func(r *signUpRequest)
		field  string
	}{
		{name: "missing name", mutate: func(r *signUpRequest) { r.Name = "" }, field: "name"},
		{name: "long name", mutate: func(r *signUpRequest) { r.Name = strings.Repeat("a", 256) }, field: "name"},
		{name: "missing email", mutate: func(r *signUpRequest) { r.Email = "" }, field: "email"},
		{name: "email without domain", mutate: func(r *signUpRequest) { r.Email = "a@" }, field: "email"},
		{name: "long email", mutate: func(r *signUpRequest) { r.Email = strings.Repeat("a", 250) + "@x.com" }, field: "email"},
		{name: "short password", mutate: func(r *signUpRequest) { r.Password = "12345" }, field: "password"},
		{name: "long password", mutate: func(r *signUpRequest) { r.Password = strings.Repeat("p", 101) }, field: "password"},
		{name: "guest role", mutate: func(r *signUpRequest) { r.Role = "guest" }, field: "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			details, ok := fieldErrors(r.Validate())
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
			assert.Len(t, details, 1)
		})
	}

	t.Run("boundaries pass", func(t *testing.T) {
		r := valid
		r.Name = "Al"
		r.Password = "123456"
		r.Role = "admin"
		assert.NoError(t, r.Validate())
	})
}

func TestSignInRequest_Validate(t *testing.T) {
	req := signInRequest{Email: " A@X.COM", Password: "secret1"}
	req.normalize()
	assert.Equal(t, "a@x.com", req.Email)
	assert.NoError(t, req.Validate())

	details, ok := fieldErrors(signInRequest{}.Validate())
	require.True(t, ok)
	assert.Equal(t, "Email is required", details["email"])
	assert.Equal(t, "Password is required", details["password"])
}

func TestFieldErrors_NotValidation(t *testing.T) {
	_, ok := fieldErrors(errors.New("boom"))
	assert.False(t, ok)
}

func TestCookieOptionsFor(t *testing.T) {
	prod := CookieOptionsFor(true)
	assert.True(t, prod.Secure)
	assert.Equal(t, fiber.CookieSameSiteStrictMode, prod.SameSite)

	dev := CookieOptionsFor(false)
	assert.False(t, dev.Secure)
	assert.Equal(t, fiber.CookieSameSiteLaxMode, dev.SameSite)
	assert.Equal(t, prod.MaxAge, dev.MaxAge)
}
