package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/acquisitions/api/http/presenter"
	"github.com/artem13815/acquisitions/pkg/auth"
	"github.com/artem13815/acquisitions/pkg/logging"
	"github.com/artem13815/acquisitions/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
	cookies CookieOptions
	log     logging.Logger
}

func NewAuthHandler(useCase auth.AuthUseCase, cookies CookieOptions, log logging.Logger) *AuthHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthHandler{useCase: useCase, cookies: cookies, log: log}
}

// SignUp handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body signUpRequest true "registration payload"
// @Success 201 {object} presenter.UserEnvelope
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /api/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return h.validationFailed(c, err)
	}

	result, err := h.useCase.SignUp(c.UserContext(), auth.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     auth.Role(req.Role),
	})
	if err != nil {
		h.log.Error(c.UserContext(), "signup error", "email", req.Email, "error", err)
		if errors.Is(err, auth.ErrDuplicateEmail) {
			return presenter.Error(c, http.StatusConflict, "Email already exist")
		}
		return err
	}

	h.cookies.set(c, result.Token)
	h.log.Info(c.UserContext(), "user registered successfully", "email", result.User.Email)
	return presenter.JSON(c, http.StatusCreated, presenter.UserEnvelope{
		Message: "User registered",
		User:    userResponse(result.User),
	})
}

// SignIn handles user login.
// @Summary Sign in
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body signInRequest true "sign-in payload"
// @Success 200 {object} presenter.UserEnvelope
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /api/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return h.validationFailed(c, err)
	}

	result, err := h.useCase.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		// not-found and wrong-password stay distinct in the log only
		h.log.Error(c.UserContext(), "sign in error", "email", req.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	h.cookies.set(c, result.Token)
	h.log.Info(c.UserContext(), "user signed in successfully", "email", result.User.Email)
	return presenter.JSON(c, http.StatusOK, presenter.UserEnvelope{
		Message: "User signed in successfully",
		User:    userResponse(result.User),
	})
}

// SignOut clears the session cookie. It always succeeds.
// @Summary Sign out
// @Tags    auth
// @Produce json
// @Success 200 {object} presenter.MessageResponse
// @Router  /api/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	h.cookies.clear(c)
	h.log.Info(c.UserContext(), "user signed out successfully")
	return presenter.JSON(c, http.StatusOK, presenter.MessageResponse{Message: "User signed out successfully"})
}

// Me returns the identity carried by the caller's token.
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} presenter.UserEnvelope
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := jwt.ClaimsFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication required")
	}
	return presenter.JSON(c, http.StatusOK, presenter.UserEnvelope{
		User: presenter.UserResponse{ID: claims.UserID, Email: claims.Email, Role: string(claims.Role)},
	})
}

func (h *AuthHandler) validationFailed(c *fiber.Ctx, err error) error {
	details, ok := fieldErrors(err)
	if !ok {
		return err
	}
	return presenter.ValidationError(c, details)
}

func userResponse(u auth.User) presenter.UserResponse {
	return presenter.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
