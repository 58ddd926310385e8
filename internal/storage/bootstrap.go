package storage

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
)

// Default admin identity seeded when no admin exists. The password is
// public; change it after first login.
const (
	DefaultAdminName     = "Clinic Admin"
	DefaultAdminEmail    = "admin@clinic.com"
	DefaultAdminPassword = "admin123"
)

var defaultDoctors = [][]any{
	{"Dr. Smith", "Cardiologist"},
	{"Dr. Patel", "General Physician"},
	{"Dr. Chen", "Dermatologist"},
}

// Bootstrap creates the schema and seeds the default admin and doctors.
// Every step checks before inserting, so it can run repeatedly.
func (s *Storage) Bootstrap(ctx context.Context) error {
	return s.with(ctx, func(c *db.Conn) error {
		if err := db.InitSchema(ctx, c); err != nil {
			return err
		}
		if err := ensureDefaultAdmin(ctx, c); err != nil {
			return err
		}
		return ensureDefaultDoctors(ctx, c)
	})
}

// EnsureReady runs Bootstrap until it first succeeds. Failures are not
// remembered, so the next caller retries.
//
// Two callers racing on a cold start may both bootstrap; the admin check
// is not atomic and could then insert the default admin twice.
func (s *Storage) EnsureReady(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	if err := s.Bootstrap(ctx); err != nil {
		return err
	}
	s.ready.Store(true)
	return nil
}

func (s *Storage) Ready() bool {
	return s.ready.Load()
}

func ensureDefaultAdmin(ctx context.Context, c *db.Conn) error {
	var admins int
	if err := c.Get(ctx, &admins, `SELECT COUNT(*) FROM users WHERE is_admin = 1`); err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = c.Exec(ctx, `
		INSERT INTO users (full_name, email, password_hash, is_admin)
		VALUES (?, ?, ?, 1)
	`, DefaultAdminName, DefaultAdminEmail, string(hash))
	if err != nil {
		return err
	}

	log.Warn().Str("email", DefaultAdminEmail).Msg("created default admin with the documented starter password; change it")
	return nil
}

func ensureDefaultDoctors(ctx context.Context, c *db.Conn) error {
	var count int
	if err := c.Get(ctx, &count, `SELECT COUNT(*) FROM doctors`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return c.ExecMany(ctx, `INSERT INTO doctors (name, specialty) VALUES (?, ?)`, defaultDoctors)
}
