package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/auth"
	"github.com/learnloop/learnloop/store"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	UserUID     string `json:"userUid"`
	Role        string `json:"role"`
}

// SignUp registers a new account and returns an access token.
// POST /api/v1/auth/signup
func (s *APIV1Service) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	role := store.RoleStudent
	switch req.Role {
	case "", string(store.RoleStudent):
	case string(store.RoleInstructor):
		role = store.RoleInstructor
	default:
		// Admin accounts are provisioned operationally, never self-served.
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
	}

	existing, err := s.Modules.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return errorResponse(c, err)
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
	}

	user, err := s.Modules.Users.CreateUser(c.Request().Context(), req.Email, req.Nickname, req.Password, role)
	if err != nil {
		return errorResponse(c, err)
	}
	return s.issueToken(c, user)
}

// SignIn verifies credentials and returns an access token.
// POST /api/v1/auth/signin
func (s *APIV1Service) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	user, err := s.Modules.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return errorResponse(c, err)
	}
	if user == nil || !s.Modules.Users.CheckPassword(user, req.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	return s.issueToken(c, user)
}

func (s *APIV1Service) issueToken(c echo.Context, user *store.User) error {
	role, err := auth.RoleFromString(string(user.Role))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "invalid stored role"})
	}
	token, err := auth.GenerateAccessToken(user.UID, role, s.Secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to sign token"})
	}
	return c.JSON(http.StatusOK, authResponse{
		AccessToken: token,
		UserUID:     user.UID,
		Role:        role.String(),
	})
}
