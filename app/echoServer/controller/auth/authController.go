// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"

	"bookswap/app/echoServer/jwtx"
	"bookswap/model"
	authsvc "bookswap/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Register a new user with email uniqueness and validation
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Failure      500  {object}  map[string]any
// @Router       /v1/auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrEmailTaken:
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case authsvc.ErrBadInput:
			return echo.NewHTTPError(http.StatusBadRequest, "bad input")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":  u,
		"token": token,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	_, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds:
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		case authsvc.ErrBadInput:
			return echo.NewHTTPError(http.StatusBadRequest, "bad input")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Logout
// @Summary      Logout
// @Description  Invalidate the presented bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /v1/auth/logout [post]
func (ct *Controller) Logout(c echo.Context) error {
	jti, err := jwtx.JTIFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	exp, err := jwtx.ExpiryFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := ct.Svc.Logout(c.Request().Context(), jti, exp); err != nil {
		ct.Log.Error("logout failed", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// PasswordReset
// @Summary      Request password reset
// @Description  Send a one-time reset link to the given email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.PasswordResetReq  true  "Email"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /v1/auth/password-reset [post]
func (ct *Controller) PasswordReset(c echo.Context) error {
	var req model.PasswordResetReq

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	if err := ct.Svc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrNotFound:
			return echo.NewHTTPError(http.StatusBadRequest, "no user is associated with this email address")
		default:
			ct.Log.Error("password reset request failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "password reset failed")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset email sent"})
}

// PasswordResetConfirm
// @Summary      Confirm password reset
// @Description  Set a new password using a one-time token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token    path  string                         true  "Reset token"
// @Param        payload  body  model.PasswordResetConfirmReq  true  "New password"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any "invalid or expired token"
// @Router       /v1/auth/password-reset/confirm/{token} [post]
func (ct *Controller) PasswordResetConfirm(c echo.Context) error {
	var req model.PasswordResetConfirmReq

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	if err := ct.Svc.ConfirmPasswordReset(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidToken:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
		case authsvc.ErrBadInput:
			return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
		default:
			ct.Log.Error("password reset confirm failed", "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "password reset failed")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}
