// Package main bookswap API.
//
// @title           bookswap API
// @version         1.0
// @description     Peer-to-peer book exchange backend (auth, book listings, exchange requests).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"bookswap/app/echoServer"
	authctrl "bookswap/app/echoServer/controller/auth"
	bookctrl "bookswap/app/echoServer/controller/book"
	exchangectrl "bookswap/app/echoServer/controller/exchange"
	"bookswap/app/echoServer/validation"
	"bookswap/config"
	bookrepo "bookswap/repository/book"
	exchangerepo "bookswap/repository/exchange"
	mailerrepo "bookswap/repository/mailer"
	tokenrepo "bookswap/repository/token"
	userrepo "bookswap/repository/user"
	authsvc "bookswap/service/auth"
	booksvc "bookswap/service/book"
	exchangesvc "bookswap/service/exchange"
	"bookswap/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB over pgx
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// mailer: HTTP relay if configured, log-only otherwise
	var mail mailerrepo.Repo
	if cfg.MailAPIURL != "" {
		mail = mailerrepo.NewHTTP(cfg.MailAPIURL, cfg.MailAPIKey)
	} else {
		mail = mailerrepo.NewLog(log)
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	er := exchangerepo.New(db)
	tr := tokenrepo.New(db)

	// services
	as := authsvc.New(ur, tr, mail, cfg.JWTSecret, cfg.ResetURL)
	bs := booksvc.New(br)
	es := exchangesvc.New(db, er, br)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	exchangeC := &exchangectrl.Controller{Svc: es, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Book:     bookC,
		Exchange: exchangeC,

		JWTSecret: cfg.JWTSecret,
		IsRevoked: func(c echo.Context, jti string) (bool, error) {
			return as.IsRevoked(c.Request().Context(), jti)
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
