package exchangesvc

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"bookswap/model"

	"github.com/stretchr/testify/require"
)

// A stub sql driver so the service's transaction boundary can run
// without a database. Commit and rollback are no-ops; the repo mocks
// never touch the tx they are handed.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() { sql.Register("exchangestub", stubDriver{}) }

func stubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("exchangestub", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// --- mocks ---

type repoMock struct {
	insertFn        func(ctx context.Context, r *model.ExchangeRequest) error
	listForUserFn   func(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error)
	byIDFn          func(ctx context.Context, id int64) (*model.ExchangeRequest, error)
	byIDForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error)
	updateStatusFn  func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error
	deleteFn        func(ctx context.Context, tx *sql.Tx, id int64) error
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Insert(ctx context.Context, r *model.ExchangeRequest) error {
	return m.insertFn(ctx, r)
}
func (m *repoMock) ListForUser(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error) {
	return m.listForUserFn(ctx, userID)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.ExchangeRequest, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
	return m.byIDForUpdateFn(ctx, tx, id)
}
func (m *repoMock) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
	return m.updateStatusFn(ctx, tx, id, status)
}
func (m *repoMock) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	return m.deleteFn(ctx, tx, id)
}

type bookRepoMock struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *bookRepoMock) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

func sampleRequest() *model.ExchangeRequest {
	return &model.ExchangeRequest{
		ID:               10,
		SenderID:         2,
		ReceiverID:       1,
		BookID:           5,
		Status:           model.ExchangePending,
		DeliveryMethod:   "mail",
		ExchangeDuration: 7,
		CreatedAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- Create ---

func TestCreate_DefaultsToPending(t *testing.T) {
	ctx := context.Background()
	var inserted *model.ExchangeRequest
	m := &repoMock{
		insertFn: func(ctx context.Context, r *model.ExchangeRequest) error {
			r.ID = 10
			r.CreatedAt = time.Now()
			inserted = r
			return nil
		},
	}
	bm := &bookRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil }}
	s := New(stubDB(t), m, bm)

	er, err := s.Create(ctx, 2, CreateReq{BookID: 5, ReceiverID: 1, DeliveryMethod: "mail", ExchangeDuration: 7})
	require.NoError(t, err)
	require.Equal(t, model.ExchangePending, er.Status)
	require.Equal(t, int64(2), er.SenderID)
	require.Equal(t, int64(1), er.ReceiverID)
	require.Equal(t, int64(5), er.BookID)
	require.NotNil(t, inserted)
}

func TestCreate_BookNotFound(t *testing.T) {
	bm := &bookRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil }}
	s := New(stubDB(t), &repoMock{}, bm)

	_, err := s.Create(context.Background(), 2, CreateReq{BookID: 99, ReceiverID: 1})
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, Code(err))
}

// Create runs no receiver-existence check of its own and allows a user
// to target themselves; both pass through to the insert untouched.
func TestCreate_NoReceiverOrSelfCheck(t *testing.T) {
	m := &repoMock{insertFn: func(ctx context.Context, r *model.ExchangeRequest) error { return nil }}
	bm := &bookRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil }}
	s := New(stubDB(t), m, bm)

	er, err := s.Create(context.Background(), 2, CreateReq{BookID: 5, ReceiverID: 2, DeliveryMethod: "pickup", ExchangeDuration: 3})
	require.NoError(t, err)
	require.Equal(t, er.SenderID, er.ReceiverID)
}

// --- Get ---

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.ExchangeRequest, error) {
		return nil, sql.ErrNoRows
	}}
	s := New(stubDB(t), m, &bookRepoMock{})

	_, err := s.Get(context.Background(), 1, 10)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestGet_ThirdPartyForbidden(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.ExchangeRequest, error) {
		return sampleRequest(), nil
	}}
	s := New(stubDB(t), m, &bookRepoMock{})

	_, err := s.Get(context.Background(), 99, 10)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestGet_BothPartiesAllowed(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.ExchangeRequest, error) {
		return sampleRequest(), nil
	}}
	s := New(stubDB(t), m, &bookRepoMock{})

	for _, uid := range []int64{1, 2} {
		er, err := s.Get(context.Background(), uid, 10)
		require.NoError(t, err)
		require.Equal(t, int64(10), er.ID)
	}
}

// --- UpdateStatus ---

func TestUpdateStatus_SenderForbidden(t *testing.T) {
	updated := false
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return sampleRequest(), nil
		},
		updateStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			updated = true
			return nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	// caller 2 is the sender; only receiver 1 may approve
	_, err := s.UpdateStatus(context.Background(), 2, 10, model.ExchangeAccepted)
	require.Equal(t, ErrForbidden, Code(err))
	require.False(t, updated)
}

func TestUpdateStatus_InvalidStatusLeavesRecordUnchanged(t *testing.T) {
	updated := false
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return sampleRequest(), nil
		},
		updateStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			updated = true
			return nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	_, err := s.UpdateStatus(context.Background(), 1, 10, model.ExchangeStatus("shipped"))
	require.Equal(t, ErrInvalidStatus, Code(err))
	require.False(t, updated)
}

func TestUpdateStatus_AnyStateReachable(t *testing.T) {
	from := sampleRequest()
	from.Status = model.ExchangeRejected

	var persisted model.ExchangeStatus
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			cp := *from
			return &cp, nil
		},
		updateStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			persisted = status
			return nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	// no transition graph: re-accepting a rejected request is legal
	er, err := s.UpdateStatus(context.Background(), 1, 10, model.ExchangeAccepted)
	require.NoError(t, err)
	require.Equal(t, model.ExchangeAccepted, er.Status)
	require.Equal(t, model.ExchangeAccepted, persisted)
}

func TestUpdateStatus_ImmutableIdentity(t *testing.T) {
	orig := sampleRequest()
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			cp := *orig
			return &cp, nil
		},
		updateStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.ExchangeStatus) error {
			return nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	er, err := s.UpdateStatus(context.Background(), 1, 10, model.ExchangeModified)
	require.NoError(t, err)
	require.Equal(t, orig.SenderID, er.SenderID)
	require.Equal(t, orig.ReceiverID, er.ReceiverID)
	require.Equal(t, orig.BookID, er.BookID)
	require.Equal(t, orig.CreatedAt, er.CreatedAt)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	_, err := s.UpdateStatus(context.Background(), 1, 999, model.ExchangeAccepted)
	require.Equal(t, ErrNotFound, Code(err))
}

// --- Delete ---

func TestDelete_EitherPartyMayDelete(t *testing.T) {
	for _, uid := range []int64{1, 2} {
		deleted := false
		m := &repoMock{
			byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
				return sampleRequest(), nil
			},
			deleteFn: func(ctx context.Context, tx *sql.Tx, id int64) error {
				deleted = true
				return nil
			},
		}
		s := New(stubDB(t), m, &bookRepoMock{})

		require.NoError(t, s.Delete(context.Background(), uid, 10))
		require.True(t, deleted)
	}
}

func TestDelete_ThirdPartyForbidden(t *testing.T) {
	deleted := false
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return sampleRequest(), nil
		},
		deleteFn: func(ctx context.Context, tx *sql.Tx, id int64) error {
			deleted = true
			return nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	err := s.Delete(context.Background(), 42, 10)
	require.Equal(t, ErrForbidden, Code(err))
	require.False(t, deleted)
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		byIDForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.ExchangeRequest, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	err := s.Delete(context.Background(), 1, 999)
	require.Equal(t, ErrNotFound, Code(err))
}

// --- List ---

func TestList_PassesCallerThrough(t *testing.T) {
	m := &repoMock{
		listForUserFn: func(ctx context.Context, userID int64) ([]model.ExchangeRequestView, error) {
			require.Equal(t, int64(7), userID)
			v := model.ExchangeRequestView{ExchangeRequest: *sampleRequest()}
			v.Book = model.Book{ID: 5, Title: "Dune", Author: "Herbert"}
			return []model.ExchangeRequestView{v}, nil
		},
	}
	s := New(stubDB(t), m, &bookRepoMock{})

	rows, err := s.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Dune", rows[0].Book.Title)
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrForbidden, Code(makeErr(ErrForbidden)))
	require.Equal(t, ErrCode(""), Code(sql.ErrNoRows))
}
