package book

import (
	"log/slog"
	"net/http"
	"strconv"

	booksvc "bookswap/service/book"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func fields(req BookReq) booksvc.Fields {
	return booksvc.Fields{
		Title:        req.Title,
		Author:       req.Author,
		Genre:        req.Genre,
		Condition:    req.Condition,
		Availability: req.Availability,
		Location:     req.Location,
	}
}

// List own books
// @Summary      List own books
// @Description  Books listed by the caller, with optional title/author/genre/location substring filters
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        title     query  string  false  "Title filter"
// @Param        author    query  string  false  "Author filter"
// @Param        genre     query  string  false  "Genre filter"
// @Param        location  query  string  false  "Location filter"
// @Success      200  {object}  map[string]any
// @Router       /v1/books [get]
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	f := filtersFromQuery(c.QueryParam)

	rows, err := h.Svc.List(c.Request().Context(), uid, f)
	if err != nil {
		h.Log.Error("book list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/books/create
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  BookReq  true  "Book payload"
// @Success      201  {object}  model.Book
// @Failure      400  {object}  map[string]any
// @Router       /v1/books/create [post]
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"title": "required", "author": "required"},
		})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Create(c.Request().Context(), uid, fields(req))
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("book create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /v1/books/:id
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Book ID"
// @Success      200  {object}  model.Book
// @Failure      404  {object}  map[string]any
// @Router       /v1/books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// PUT /v1/books/:id/update
// @Summary      Update book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int      true  "Book ID"
// @Param        payload  body  BookReq  true  "Book payload"
// @Success      200  {object}  model.Book
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/books/{id}/update [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"title": "required", "author": "required"},
		})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Update(c.Request().Context(), uid, id, fields(req))
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("book update error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /v1/books/:id/delete
// @Summary      Delete book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  int  true  "Book ID"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /v1/books/{id}/delete [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/dashboard/books
// @Summary      Browse all books
// @Description  All users' books, newest first, paginated
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        title      query  string  false  "Title filter"
// @Param        author     query  string  false  "Author filter"
// @Param        genre      query  string  false  "Genre filter"
// @Param        location   query  string  false  "Location filter"
// @Param        page       query  int     false  "Page number"
// @Param        page_size  query  int     false  "Page size (max 100)"
// @Success      200  {object}  model.BookPage
// @Router       /v1/dashboard/books [get]
func (h *Controller) BrowseAll(c echo.Context) error {
	f := filtersFromQuery(c.QueryParam)
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	out, err := h.Svc.BrowseAll(c.Request().Context(), f, page, pageSize)
	if err != nil {
		h.Log.Error("dashboard books error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}
