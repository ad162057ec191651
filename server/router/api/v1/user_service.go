package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/middleware"
	"github.com/learnloop/learnloop/store"
)

type userResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

type updateMeRequest struct {
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Password string  `json:"password"`
}

// GetMe returns the calling account.
// GET /api/v1/me
func (s *APIV1Service) GetMe(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	user, err := s.Modules.Users.GetByID(c.Request().Context(), principal.UserID)
	if err != nil {
		return errorResponse(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe updates the calling account.
// PATCH /api/v1/me
func (s *APIV1Service) UpdateMe(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	user, err := s.Modules.Users.UpdateUser(c.Request().Context(), &store.UpdateUser{
		ID:       principal.UserID,
		Nickname: req.Nickname,
		Email:    req.Email,
	}, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *store.User) userResponse {
	return userResponse{
		UID:      user.UID,
		Email:    user.Email,
		Nickname: user.Nickname,
		Role:     string(user.Role),
	}
}
