package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/models"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// Error is a user-facing failure. Msg is safe to show as-is.
type Error struct {
	Kind  error
	Msg   string
	Level models.Level
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg, Level: models.LevelDanger}
}

// UserError returns the user-facing part of err, if any. A false result
// means err came from the store and should fail the request.
func UserError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

type Storage struct {
	store db.Store
	ready atomic.Bool

	// Now is the clock used for "today"; tests may replace it.
	Now func() time.Time
}

func New(store db.Store) *Storage {
	return &Storage{store: store, Now: time.Now}
}

// with opens a connection for the duration of fn.
func (s *Storage) with(ctx context.Context, fn func(*db.Conn) error) error {
	conn, err := s.store.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}
