package models

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusCancelled, StatusCompleted}

// ParseStatus lower-cases s and reports whether it names a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Appointment dates are ISO calendar dates; times are free-form text.
type Appointment struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Doctor    string `db:"doctor_name" json:"doctor_name"`
	Date      string `db:"appointment_date" json:"appointment_date"`
	Time      string `db:"appointment_time" json:"appointment_time"`
	Reason    string `db:"reason" json:"reason"`
	Status    Status `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// AppointmentView is an appointment joined with its owner, as shown to admins.
type AppointmentView struct {
	Appointment
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

type Stats struct {
	Pending  int64 `db:"pending_count" json:"pending_count"`
	Approved int64 `db:"approved_count" json:"approved_count"`
}
