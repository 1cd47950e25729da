package bookrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookswap/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ListByOwner(ctx context.Context, ownerID int64, f model.BookFilters) ([]model.Book, error)
	ByIDForOwner(ctx context.Context, ownerID, id int64) (*model.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateForOwner(ctx context.Context, ownerID int64, b *model.Book) (bool, error)
	DeleteForOwner(ctx context.Context, ownerID, id int64) (bool, error)
	ListAll(ctx context.Context, f model.BookFilters, limit, offset int) ([]model.Book, int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, genre, condition, availability, location, user_id, created_at`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (title, author, genre, condition, availability, location, user_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Genre, b.Condition, b.Availability, b.Location, b.UserID,
	).Scan(&b.ID, &b.CreatedAt)
}

// likeEscaper neutralizes ILIKE metacharacters in user-supplied filter
// values so "100%" matches the literal string, not everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterClause renders the optional substring filters as AND'ed ILIKE
// predicates, numbering placeholders from the given offset.
func filterClause(f model.BookFilters, args []any) (string, []any) {
	var sb strings.Builder
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, "%"+likeEscaper.Replace(val)+"%")
		fmt.Fprintf(&sb, " AND %s ILIKE $%d", col, len(args))
	}
	add("title", f.Title)
	add("author", f.Author)
	add("genre", f.Genre)
	add("location", f.Location)
	return sb.String(), args
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, f model.BookFilters) ([]model.Book, error) {
	args := []any{ownerID}
	clause, args := filterClause(f, args)
	q := `SELECT ` + bookCols + ` FROM books WHERE user_id = $1` + clause + ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) ByIDForOwner(ctx context.Context, ownerID, id int64) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id = $1 AND user_id = $2`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Condition, &b.Availability, &b.Location, &b.UserID, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ok)
	return ok, err
}

// UpdateForOwner mutates everything except owner and id. The false return
// means no row matched: absent, or owned by someone else.
func (r *repo) UpdateForOwner(ctx context.Context, ownerID int64, b *model.Book) (bool, error) {
	const q = `
UPDATE books
SET title=$3, author=$4, genre=$5, condition=$6, availability=$7, location=$8
WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, ownerID, b.Title, b.Author, b.Genre, b.Condition, b.Availability, b.Location)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) DeleteForOwner(ctx context.Context, ownerID, id int64) (bool, error) {
	const q = `DELETE FROM books WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ListAll(ctx context.Context, f model.BookFilters, limit, offset int) ([]model.Book, int64, error) {
	args := []any{}
	clause, args := filterClause(f, args)
	where := ` WHERE true` + clause

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	args = append(args, limit)
	limArg := len(args)
	args = append(args, offset)
	offArg := len(args)
	q := fmt.Sprintf(`SELECT `+bookCols+` FROM books`+where+` ORDER BY id DESC LIMIT $%d OFFSET $%d`, limArg, offArg)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Genre, &b.Condition, &b.Availability, &b.Location, &b.UserID, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
