package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/models"
)

var errDoctorNotFound = &Error{Kind: ErrNotFound, Msg: "Doctor not found.", Level: models.LevelDanger}

func (s *Storage) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors := []models.Doctor{}
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Select(ctx, &doctors, `SELECT id, name, specialty FROM doctors ORDER BY name`)
	})
	return doctors, err
}

func (s *Storage) GetDoctor(ctx context.Context, id int64) (*models.Doctor, error) {
	var d models.Doctor
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &d, `SELECT id, name, specialty FROM doctors WHERE id = ?`, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Storage) AddDoctor(ctx context.Context, name, specialty string) (int64, error) {
	name, specialty, err := doctorFields(name, specialty)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &id, `INSERT INTO doctors (name, specialty) VALUES (?, ?) RETURNING id`, name, specialty)
	})
	return id, err
}

// UpdateDoctor fails with ErrNotFound before looking at the new fields.
func (s *Storage) UpdateDoctor(ctx context.Context, id int64, name, specialty string) error {
	if _, err := s.GetDoctor(ctx, id); err != nil {
		return err
	}

	name, specialty, err := doctorFields(name, specialty)
	if err != nil {
		return err
	}

	return s.with(ctx, func(c *db.Conn) error {
		_, err := c.Exec(ctx, `UPDATE doctors SET name = ?, specialty = ? WHERE id = ?`, name, specialty, id)
		return err
	})
}

// DeleteDoctor removes the row if present. Appointments keep the doctor's
// name as text and are left untouched.
func (s *Storage) DeleteDoctor(ctx context.Context, id int64) error {
	return s.with(ctx, func(c *db.Conn) error {
		_, err := c.Exec(ctx, `DELETE FROM doctors WHERE id = ?`, id)
		return err
	})
}

func doctorFields(name, specialty string) (string, string, error) {
	name = strings.TrimSpace(name)
	specialty = strings.TrimSpace(specialty)
	if name == "" || specialty == "" {
		return "", "", invalid("Name and specialty are required.")
	}
	return name, specialty, nil
}
