package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a non-admin user. Emails are stored lower-cased.
func (s *Storage) Register(ctx context.Context, in RegisterInput) (int64, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)

	if fullName == "" || email == "" || in.Password == "" {
		return 0, invalid("All fields are required.")
	}
	if in.Password != in.ConfirmPassword {
		return 0, invalid("Passwords do not match.")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return 0, invalid("Password should be at least 6 characters.")
	}

	var id int64
	err := s.with(ctx, func(c *db.Conn) error {
		var existing int64
		err := c.Get(ctx, &existing, `SELECT id FROM users WHERE email = ?`, email)
		if err == nil {
			return errEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return invalid("Password is too long.")
		}
		if err != nil {
			return err
		}

		id, err = insertUser(ctx, c, fullName, email, string(hash))
		return err
	})
	return id, err
}

var errEmailTaken = &Error{Kind: ErrConflict, Msg: "An account already exists with that email.", Level: models.LevelWarning}

// insertUser adds a non-admin user. A concurrent registration that slips
// past the email lookup is caught by the unique constraint.
func insertUser(ctx context.Context, c *db.Conn, fullName, email, hash string) (int64, error) {
	var id int64
	err := c.Get(ctx, &id, `
		INSERT INTO users (full_name, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id
	`, fullName, email, hash)
	if db.IsUniqueViolation(err) {
		return 0, errEmailTaken
	}
	return id, err
}

// Authenticate returns the user matching the credentials. Unknown emails
// and wrong passwords fail identically.
func (s *Storage) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &u, `
			SELECT id, full_name, email, password_hash, is_admin
			FROM users
			WHERE email = ?
		`, normalizeEmail(email))
	})

	bad := &Error{Kind: ErrInvalidCredentials, Msg: "Invalid email or password.", Level: models.LevelDanger}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bad
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, bad
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
