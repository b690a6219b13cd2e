package handlers

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/artem13815/acquisitions/pkg/auth"
)

// emailPattern matches lower-cased addresses; checked after normalization.
var emailPattern = regexp.MustCompile(`^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// normalize trims the name, trims and lower-cases the email and applies the
// default role.
func (r *signUpRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = auth.NormalizeEmail(r.Email)
	if strings.TrimSpace(r.Role) == "" {
		r.Role = string(auth.RoleUser)
	}
}

func (r signUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Name is required"),
			validation.RuneLength(2, 255).Error("Name must be between 2 and 255 characters"),
		),
		emailField(&r.Email),
		passwordField(&r.Password),
		validation.Field(&r.Role,
			validation.In(string(auth.RoleUser), string(auth.RoleAdmin)).Error("Role must be one of: user, admin"),
		),
	)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *signInRequest) normalize() {
	r.Email = auth.NormalizeEmail(r.Email)
}

func (r signInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		emailField(&r.Email),
		passwordField(&r.Password),
	)
}

func emailField(email *string) *validation.FieldRules {
	return validation.Field(email,
		validation.Required.Error("Email is required"),
		validation.RuneLength(0, 255).Error("Email is too long"),
		validation.Match(emailPattern).Error("Invalid email address"),
	)
}

func passwordField(password *string) *validation.FieldRules {
	return validation.Field(password,
		validation.Required.Error("Password is required"),
		validation.RuneLength(6, 100).Error("Password must be between 6 and 100 characters"),
	)
}

// fieldErrors flattens ozzo validation errors into field -> message. ok is
// false when err is not a field-level validation failure.
func fieldErrors(err error) (map[string]string, bool) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, false
	}
	out := make(map[string]string, len(errs))
	for field, fe := range errs {
		out[field] = fe.Error()
	}
	return out, true
}
