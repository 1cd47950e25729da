package book

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookswap/model"
	booksvc "bookswap/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type svcMock struct {
	createFn func(ctx context.Context, ownerID int64, f booksvc.Fields) (*model.Book, error)
	listFn   func(ctx context.Context, ownerID int64, filters model.BookFilters) ([]model.Book, error)
	getFn    func(ctx context.Context, ownerID, id int64) (*model.Book, error)
	updateFn func(ctx context.Context, ownerID, id int64, f booksvc.Fields) (*model.Book, error)
	deleteFn func(ctx context.Context, ownerID, id int64) error
	browseFn func(ctx context.Context, filters model.BookFilters, page, pageSize int) (*model.BookPage, error)
}

var _ booksvc.Service = (*svcMock)(nil)

func (m *svcMock) Create(ctx context.Context, ownerID int64, f booksvc.Fields) (*model.Book, error) {
	return m.createFn(ctx, ownerID, f)
}
func (m *svcMock) List(ctx context.Context, ownerID int64, filters model.BookFilters) ([]model.Book, error) {
	return m.listFn(ctx, ownerID, filters)
}
func (m *svcMock) Get(ctx context.Context, ownerID, id int64) (*model.Book, error) {
	return m.getFn(ctx, ownerID, id)
}
func (m *svcMock) Update(ctx context.Context, ownerID, id int64, f booksvc.Fields) (*model.Book, error) {
	return m.updateFn(ctx, ownerID, id, f)
}
func (m *svcMock) Delete(ctx context.Context, ownerID, id int64) error {
	return m.deleteFn(ctx, ownerID, id)
}
func (m *svcMock) BrowseAll(ctx context.Context, filters model.BookFilters, page, pageSize int) (*model.BookPage, error) {
	return m.browseFn(ctx, filters, page, pageSize)
}

func newCtx(t *testing.T, method, target, body string, uid int64, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func ctrl(svc booksvc.Service) *Controller {
	return &Controller{Svc: svc, V: validator.New(), Log: slog.Default()}
}

// A metadata-only edit says nothing about availability; the service must
// see that absence, not a defaulted true.
func TestUpdate_OmittedAvailabilityStaysNil(t *testing.T) {
	var got booksvc.Fields
	m := &svcMock{
		updateFn: func(ctx context.Context, ownerID, id int64, f booksvc.Fields) (*model.Book, error) {
			got = f
			return &model.Book{ID: id, Title: f.Title, Author: f.Author, UserID: ownerID}, nil
		},
	}
	h := ctrl(m)

	c, rec := newCtx(t, http.MethodPut, "/v1/books/9/update", `{"title":"Dune","author":"Herbert"}`, 1, "id", "9")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, got.Availability)
}

func TestUpdate_ExplicitFalsePassedThrough(t *testing.T) {
	var got booksvc.Fields
	m := &svcMock{
		updateFn: func(ctx context.Context, ownerID, id int64, f booksvc.Fields) (*model.Book, error) {
			got = f
			return &model.Book{ID: id}, nil
		},
	}
	h := ctrl(m)

	c, rec := newCtx(t, http.MethodPut, "/v1/books/9/update", `{"title":"Dune","author":"Herbert","availability":false}`, 1, "id", "9")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Availability)
	require.False(t, *got.Availability)
}

func TestCreate_ValidationRejectsMissingTitle(t *testing.T) {
	called := false
	m := &svcMock{
		createFn: func(ctx context.Context, ownerID int64, f booksvc.Fields) (*model.Book, error) {
			called = true
			return nil, nil
		},
	}
	h := ctrl(m)

	c, rec := newCtx(t, http.MethodPost, "/v1/books/create", `{"author":"Herbert"}`, 1)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, called)
}
