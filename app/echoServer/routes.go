package echoServer

import (
	"net/http"

	"bookswap/app/echoServer/controller/auth"
	"bookswap/app/echoServer/controller/book"
	"bookswap/app/echoServer/controller/exchange"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth     *auth.Controller
	Book     *book.Controller
	Exchange *exchange.Controller

	JWTSecret string

	// IsRevoked consults the logout denylist; wired from the auth service.
	IsRevoked func(c echo.Context, jti string) (bool, error)
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.POST("/auth/password-reset", c.Auth.PasswordReset)
	pub.POST("/auth/password-reset/confirm/:token", c.Auth.PasswordResetConfirm)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
		// missing and malformed tokens both read as 401 to the caller
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		},
	}))
	authed.Use(UserContext(c.IsRevoked))

	authed.POST("/auth/logout", c.Auth.Logout)

	// Books
	authed.GET("/books", c.Book.List)
	authed.POST("/books/create", c.Book.Create)
	authed.GET("/books/:id", c.Book.Detail)
	authed.PUT("/books/:id/update", c.Book.Update)
	authed.DELETE("/books/:id/delete", c.Book.Delete)
	authed.GET("/dashboard/books", c.Book.BrowseAll)

	// Exchange requests
	authed.GET("/exchange-requests", c.Exchange.List)
	authed.POST("/exchange-requests/create", c.Exchange.Create)
	authed.GET("/exchange-requests/:id", c.Exchange.Detail)
	authed.PUT("/exchange-requests/:id/update", c.Exchange.Update)
	authed.DELETE("/exchange-requests/:id/delete", c.Exchange.Delete)
}
