package exchangesvc

import (
	"context"
	"database/sql"
	"errors"

	"bookswap/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound  ErrCode = "BOOK_NOT_FOUND"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrForbidden     ErrCode = "FORBIDDEN"
	ErrInvalidStatus ErrCode = "INVALID_STATUS"
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

type CreateReq struct {
	BookID           int64
	ReceiverID       int64
	DeliveryMethod   string
	ExchangeDuration int
}

type Repo interface {
	Insert(ctx context.Context, r *model.ExchangeRequest) error
	ListForUser(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error)
	ByID(ctx context.Context, id int64) (*model.ExchangeRequest, error)

	ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type BookRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	// Create: open a pending negotiation over one book, sender = caller.
	Create(ctx context.Context, senderID int64, req CreateReq) (*model.ExchangeRequest, error)

	// List: every request the caller is sender or receiver of, with book details.
	List(ctx context.Context, callerID int64) ([]model.ExchangeRequestView, error)

	// Get: full record, parties only.
	Get(ctx context.Context, callerID, id int64) (*model.ExchangeRequest, error)

	// UpdateStatus: receiver-only status transition.
	UpdateStatus(ctx context.Context, callerID, id int64, newStatus model.ExchangeStatus) (*model.ExchangeRequest, error)

	// Delete: either party may end the negotiation.
	Delete(ctx context.Context, callerID, id int64) error
}

type service struct {
	db *sql.DB
	r  Repo
	br BookRepo
}

func New(db *sql.DB, r Repo, br BookRepo) Service {
	return &service{db: db, r: r, br: br}
}

// Create inserts a pending request. The book must exist, for any owner.
// The receiver is not checked for existence here; the foreign key
// rejects unknown ids, and a user may target themselves.
func (s *service) Create(ctx context.Context, senderID int64, req CreateReq) (*model.ExchangeRequest, error) {
	exists, err := s.br.Exists(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, makeErr(ErrBookNotFound)
	}

	er := &model.ExchangeRequest{
		SenderID:         senderID,
		ReceiverID:       req.ReceiverID,
		BookID:           req.BookID,
		Status:           model.ExchangePending,
		DeliveryMethod:   req.DeliveryMethod,
		ExchangeDuration: req.ExchangeDuration,
	}
	if err := s.r.Insert(ctx, er); err != nil {
		return nil, err
	}
	return er, nil
}

func (s *service) List(ctx context.Context, callerID int64) ([]model.ExchangeRequestView, error) {
	return s.r.ListForUser(ctx, callerID)
}

func (s *service) Get(ctx context.Context, callerID, id int64) (*model.ExchangeRequest, error) {
	er, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !er.IsParty(callerID) {
		return nil, makeErr(ErrForbidden)
	}
	return er, nil
}

// applyTransition moves the record to newStatus. Authorization and the
// allowed-set check happen here, on the loaded record, before anything
// is persisted. Any enumerated state may follow any other; only the
// receiver may move the machine.
func applyTransition(er *model.ExchangeRequest, callerID int64, newStatus model.ExchangeStatus) error {
	if !er.IsReceiver(callerID) {
		return makeErr(ErrForbidden)
	}
	if !newStatus.Valid() {
		return makeErr(ErrInvalidStatus)
	}
	er.Status = newStatus
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, callerID, id int64, newStatus model.ExchangeStatus) (er *model.ExchangeRequest, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	er, err = s.r.ByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if err = applyTransition(er, callerID, newStatus); err != nil {
		return nil, err
	}
	if err = s.r.UpdateStatus(ctx, tx, id, er.Status); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return er, nil
}

func (s *service) Delete(ctx context.Context, callerID, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	er, err := s.r.ByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if !er.IsParty(callerID) {
		return makeErr(ErrForbidden)
	}

	if err = s.r.Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}
