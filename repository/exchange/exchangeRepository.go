package exchangerepo

import (
	"context"
	"database/sql"

	"bookswap/model"
)

type Repo interface {
	Insert(ctx context.Context, r *model.ExchangeRequest) error
	ListForUser(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error)
	ByID(ctx context.Context, id int64) (*model.ExchangeRequest, error)

	// Read-modify-write pieces, tx-scoped so a status update locks the row.
	ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const reqCols = `id, sender_id, receiver_id, book_id, status, delivery_method, exchange_duration, created_at`

func (r *repo) Insert(ctx context.Context, er *model.ExchangeRequest) error {
	const q = `
INSERT INTO exchange_requests (sender_id, receiver_id, book_id, status, delivery_method, exchange_duration)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		er.SenderID, er.ReceiverID, er.BookID, er.Status, er.DeliveryMethod, er.ExchangeDuration,
	).Scan(&er.ID, &er.CreatedAt)
}

// ListForUser returns every request the user is a party to, joined with
// the book's displayable attributes. The single OR predicate means a row
// never appears twice.
func (r *repo) ListForUser(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error) {
	const q = `
SELECT r.id, r.sender_id, r.receiver_id, r.book_id, r.status, r.delivery_method, r.exchange_duration, r.created_at,
       b.id, b.title, b.author, b.genre, b.condition, b.availability, b.location, b.user_id, b.created_at
FROM exchange_requests r
JOIN books b ON b.id = r.book_id
WHERE r.sender_id = $1 OR r.receiver_id = $1
ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExchangeRequestView
	for rows.Next() {
		var v model.ExchangeRequestView
		if err := rows.Scan(
			&v.ID, &v.SenderID, &v.ReceiverID, &v.BookID, &v.Status, &v.DeliveryMethod, &v.ExchangeDuration, &v.CreatedAt,
			&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.Genre, &v.Book.Condition, &v.Book.Availability, &v.Book.Location, &v.Book.UserID, &v.Book.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.ExchangeRequest, error) {
	const q = `SELECT ` + reqCols + ` FROM exchange_requests WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
	const q = `SELECT ` + reqCols + ` FROM exchange_requests WHERE id = $1 FOR UPDATE`
	return scanRequest(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
	const q = `UPDATE exchange_requests SET status = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `DELETE FROM exchange_requests WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func scanRequest(row *sql.Row) (*model.ExchangeRequest, error) {
	er := &model.ExchangeRequest{}
	err := row.Scan(
		&er.ID, &er.SenderID, &er.ReceiverID, &er.BookID, &er.Status, &er.DeliveryMethod, &er.ExchangeDuration, &er.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return er, nil
}
