package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"bookswap/model"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Fields carries the mutable book attributes. Availability is a
// tri-state: nil means the caller did not send it.
type Fields struct {
	Title        string
	Author       string
	Genre        string
	Condition    string
	Availability *bool
	Location     string
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ListByOwner(ctx context.Context, ownerID int64, f model.BookFilters) ([]model.Book, error)
	ByIDForOwner(ctx context.Context, ownerID, id int64) (*model.Book, error)
	UpdateForOwner(ctx context.Context, ownerID int64, b *model.Book) (bool, error)
	DeleteForOwner(ctx context.Context, ownerID, id int64) (bool, error)
	ListAll(ctx context.Context, f model.BookFilters, limit, offset int) ([]model.Book, int64, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, f Fields) (*model.Book, error)
	List(ctx context.Context, ownerID int64, filters model.BookFilters) ([]model.Book, error)
	Get(ctx context.Context, ownerID, id int64) (*model.Book, error)
	Update(ctx context.Context, ownerID, id int64, f Fields) (*model.Book, error)
	Delete(ctx context.Context, ownerID, id int64) error
	BrowseAll(ctx context.Context, filters model.BookFilters, page, pageSize int) (*model.BookPage, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, ownerID int64, f Fields) (*model.Book, error) {
	if f.Title == "" || f.Author == "" {
		return nil, makeErr(ErrBadInput)
	}
	avail := true
	if f.Availability != nil {
		avail = *f.Availability
	}
	b := &model.Book{
		Title:        f.Title,
		Author:       f.Author,
		Genre:        f.Genre,
		Condition:    f.Condition,
		Availability: avail,
		Location:     f.Location,
		UserID:       ownerID,
	}
	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, ownerID int64, filters model.BookFilters) ([]model.Book, error) {
	return s.r.ListByOwner(ctx, ownerID, filters)
}

func (s *service) Get(ctx context.Context, ownerID, id int64) (*model.Book, error) {
	b, err := s.r.ByIDForOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

// Update replaces the mutable fields. Owner stays fixed, and an omitted
// availability keeps the stored value, so a metadata edit cannot
// silently re-list an unavailable book. A miss on (id, owner) reads as
// not found whether the book is absent or someone else's.
func (s *service) Update(ctx context.Context, ownerID, id int64, f Fields) (*model.Book, error) {
	if f.Title == "" || f.Author == "" {
		return nil, makeErr(ErrBadInput)
	}
	existing, err := s.r.ByIDForOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	avail := existing.Availability
	if f.Availability != nil {
		avail = *f.Availability
	}
	b := &model.Book{
		ID:           id,
		Title:        f.Title,
		Author:       f.Author,
		Genre:        f.Genre,
		Condition:    f.Condition,
		Availability: avail,
		Location:     f.Location,
		UserID:       ownerID,
		CreatedAt:    existing.CreatedAt,
	}
	ok, err := s.r.UpdateForOwner(ctx, ownerID, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotFound)
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id int64) error {
	ok, err := s.r.DeleteForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) BrowseAll(ctx context.Context, filters model.BookFilters, page, pageSize int) (*model.BookPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	books, count, err := s.r.ListAll(ctx, filters, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &model.BookPage{
		Count:    count,
		Page:     page,
		PageSize: pageSize,
		Results:  books,
	}, nil
}
