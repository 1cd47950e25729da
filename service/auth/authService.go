package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bookswap/model"
	"bookswap/util/hash"
	jwtutil "bookswap/util/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrInvalidCreds ErrCode = "INVALID_CREDS"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrInvalidToken ErrCode = "INVALID_TOKEN"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return string(e.code) + ": " + e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func wrap(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const resetTokenTTL = time.Hour

type UserRepo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type TokenRepo interface {
	InsertResetToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (userID int64, expiresAt time.Time, err error)
	RevokeJTI(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type service struct {
	ur       UserRepo
	tr       TokenRepo
	mail     Mailer
	secret   string
	resetURL string
}

func New(ur UserRepo, tr TokenRepo, mail Mailer, secret, resetURL string) Service {
	return &service{ur: ur, tr: tr, mail: mail, secret: secret, resetURL: resetURL}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 6 {
		return nil, "", wrap(ErrBadInput, "email and password (min 6) required")
	}

	if existing, err := s.ur.ByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", wrap(ErrEmailTaken, email)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// mapDuplicateErr translates a unique-violation from the users table
// into ErrEmailTaken. Covers the race the ByEmail pre-check leaves open.
func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "email") ||
			strings.Contains(strings.ToLower(pgErr.Message), "email") {
			return wrap(ErrEmailTaken, "")
		}
		return wrap(ErrBadInput, "")
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", wrap(ErrBadInput, "email and password required")
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", wrap(ErrInvalidCreds, "")
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", wrap(ErrInvalidCreds, "")
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout denylists the token's jti until its natural expiry.
func (s *service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return wrap(ErrBadInput, "missing jti")
	}
	return s.tr.RevokeJTI(ctx, jti, expiresAt)
}

func (s *service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tr.IsRevoked(ctx, jti)
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.ur.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		return wrap(ErrNotFound, "no user is associated with this email address")
	}

	token := uuid.NewString()
	if err := s.tr.InsertResetToken(ctx, token, u.ID, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return err
	}
	return s.mail.SendPasswordReset(ctx, u.Email, s.resetURL+"/"+token)
}

func (s *service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return wrap(ErrBadInput, "password must be at least 6 characters")
	}

	userID, expiresAt, err := s.tr.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wrap(ErrInvalidToken, "")
		}
		return err
	}
	if time.Now().UTC().After(expiresAt) {
		return wrap(ErrInvalidToken, "expired")
	}

	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.ur.UpdatePassword(ctx, userID, hashed)
}
