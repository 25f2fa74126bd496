package apistub

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservation-client/internal/model"
)

// register handles POST /users/register.  The body must carry a
// username, an email and a password; duplicates are rejected with 409.
// A registered user is expected to log in afterwards, so no token is
// issued here.
func (s *Server) register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	id, err := s.store.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case ErrUsernameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       id,
		"username": req.Username,
		"email":    req.Email,
	})
}

// login handles POST /users/login.  On success it returns the exact
// shape the client persists in its credential store: token, userId,
// email and username.  Failed logins return {"error": ...} with 401 so
// the client can surface the server's message.
func (s *Server) login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := newToken(s.cfg.JWTSecret, u.ID, u.Username, s.cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, model.LoginResponse{
		Token:    token,
		UserID:   strconv.FormatUint(u.ID, 10),
		Email:    u.Email,
		Username: u.Username,
	})
}
