package storage

import (
	"context"
	"strings"
	"time"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/models"
)

const dateLayout = "2006-01-02"

type AppointmentInput struct {
	UserID int64
	Doctor string
	Date   string
	Time   string
	Reason string
}

// CreateAppointment books a pending appointment for today or later.
func (s *Storage) CreateAppointment(ctx context.Context, in AppointmentInput) (int64, error) {
	doctor := strings.TrimSpace(in.Doctor)
	date := strings.TrimSpace(in.Date)
	tm := strings.TrimSpace(in.Time)
	reason := strings.TrimSpace(in.Reason)

	if doctor == "" || date == "" || tm == "" || reason == "" {
		return 0, invalid("Please complete all booking fields.")
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, invalid("Invalid appointment date.")
	}
	if day.Before(s.today()) {
		return 0, &Error{Kind: ErrValidation, Msg: "Please choose today or a future date.", Level: models.LevelWarning}
	}

	var id int64
	err = s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &id, `
			INSERT INTO appointments (user_id, doctor_name, appointment_date, appointment_time, reason, status)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, in.UserID, doctor, day.Format(dateLayout), tm, reason, string(models.StatusPending))
	})
	return id, err
}

// today is the local calendar date expressed as UTC midnight, comparable
// with dates parsed by time.Parse.
func (s *Storage) today() time.Time {
	y, m, d := s.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListForUser returns the user's appointments, soonest first.
func (s *Storage) ListForUser(ctx context.Context, userID int64) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Select(ctx, &appts, `
			SELECT id, user_id, doctor_name, appointment_date, appointment_time, reason, status, created_at
			FROM appointments
			WHERE user_id = ?
			ORDER BY appointment_date, appointment_time
		`, userID)
	})
	return appts, err
}

// ListAll returns every appointment with its owner, most recent date first.
func (s *Storage) ListAll(ctx context.Context) ([]models.AppointmentView, error) {
	appts := []models.AppointmentView{}
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Select(ctx, &appts, `
			SELECT
				a.id,
				a.user_id,
				a.doctor_name,
				a.appointment_date,
				a.appointment_time,
				a.reason,
				a.status,
				a.created_at,
				u.full_name,
				u.email
			FROM appointments a
			JOIN users u ON a.user_id = u.id
			ORDER BY a.appointment_date DESC, a.appointment_time DESC
		`)
	})
	return appts, err
}

// UpdateStatus sets any known status. A missing appointment is not an error.
func (s *Storage) UpdateStatus(ctx context.Context, id int64, status string) error {
	st, ok := models.ParseStatus(status)
	if !ok {
		return invalid("Invalid status selected.")
	}
	return s.with(ctx, func(c *db.Conn) error {
		_, err := c.Exec(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, string(st), id)
		return err
	})
}

func (s *Storage) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &st, `
			SELECT
				COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_count,
				COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_count
			FROM appointments
		`)
	})
	return st, err
}

// Today is the earliest bookable date.
func (s *Storage) Today() string {
	return s.today().Format(dateLayout)
}
