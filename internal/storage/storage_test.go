package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/clinicbook/internal/db"
	"github.com/vaughan-dsouza/clinicbook/internal/models"
)

var fixedNow = time.Date(2030, time.June, 15, 12, 0, 0, 0, time.Local)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s := New(db.NewSQLite(filepath.Join(t.TempDir(), "clinic.db")))
	s.Now = func() time.Time { return fixedNow }
	require.NoError(t, s.EnsureReady(context.Background()))
	return s
}

func register(t *testing.T, s *Storage, name, email string) int64 {
	t.Helper()
	id, err := s.Register(context.Background(), RegisterInput{
		FullName: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return id
}

func book(t *testing.T, s *Storage, userID int64, date, tm string) int64 {
	t.Helper()
	id, err := s.CreateAppointment(context.Background(), AppointmentInput{
		UserID: userID, Doctor: "Dr. Smith", Date: date, Time: tm, Reason: "checkup",
	})
	require.NoError(t, err)
	return id
}

// ---------------------- USERS ----------------------

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	id := register(t, s, "Ann", "Ann@X.com")

	u, err := s.Authenticate(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Ann", u.FullName)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "secret1", u.Password)
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	register(t, s, "Ann", "ann@x.com")

	_, err := s.Register(ctx, RegisterInput{
		FullName: "Other", Email: "ANN@x.com", Password: "secret2", ConfirmPassword: "secret2",
	})
	assert.ErrorIs(t, err, ErrConflict)

	ue, ok := UserError(err)
	require.True(t, ok)
	assert.Equal(t, models.LevelWarning, ue.Level)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestStorage(t)

	cases := map[string]RegisterInput{
		"blank name":      {FullName: " ", Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"},
		"blank email":     {FullName: "A", Email: "", Password: "secret1", ConfirmPassword: "secret1"},
		"blank password":  {FullName: "A", Email: "a@x.com"},
		"mismatch":        {FullName: "A", Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2"},
		"too short":       {FullName: "A", Email: "a@x.com", Password: "abc", ConfirmPassword: "abc"},
		"short multibyte": {FullName: "A", Email: "a@x.com", Password: "ééé", ConfirmPassword: "ééé"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterCountsCharacters(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	// six characters, twelve bytes
	_, err := s.Register(ctx, RegisterInput{
		FullName: "Zoë", Email: "zoe@x.com", Password: "éééééé", ConfirmPassword: "éééééé",
	})
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "zoe@x.com", "éééééé")
	assert.NoError(t, err)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestStorage(t)
	long := strings.Repeat("a", 73)

	_, err := s.Register(context.Background(), RegisterInput{
		FullName: "Ann", Email: "ann@x.com", Password: long, ConfirmPassword: long,
	})
	require.ErrorIs(t, err, ErrValidation)
	ue, ok := UserError(err)
	require.True(t, ok)
	assert.Equal(t, "Password is too long.", ue.Msg)
}

func TestInsertUserDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	register(t, s, "Ann", "ann@x.com")

	err := s.with(ctx, func(c *db.Conn) error {
		_, err := c.Exec(ctx, `INSERT INTO users (full_name, email, password_hash) VALUES (?, ?, ?)`, "Ann", "ann@x.com", "x")
		assert.True(t, db.IsUniqueViolation(err))

		_, err = insertUser(ctx, c, "Ann Again", "ann@x.com", "x")
		return err
	})
	assert.ErrorIs(t, err, ErrConflict)

	ue, ok := UserError(err)
	require.True(t, ok)
	assert.Equal(t, "An account already exists with that email.", ue.Msg)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	register(t, s, "Ann", "ann@x.com")

	_, err := s.Authenticate(ctx, "ann@x.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err2 := s.Authenticate(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err2, ErrInvalidCredentials)

	// same message either way
	assert.Equal(t, err.Error(), err2.Error())
}

// ---------------------- BOOTSTRAP ----------------------

func TestBootstrapSeedsOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.Bootstrap(ctx))

	admin, err := s.Authenticate(ctx, DefaultAdminEmail, DefaultAdminPassword)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	doctors, err := s.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Dr. Chen", doctors[0].Name)

	var admins int
	require.NoError(t, s.with(ctx, func(c *db.Conn) error {
		return c.Get(ctx, &admins, `SELECT COUNT(*) FROM users WHERE is_admin = 1`)
	}))
	assert.Equal(t, 1, admins)
}

func TestBootstrapKeepsData(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	uid := register(t, s, "Ann", "ann@x.com")
	book(t, s, uid, "2030-07-01", "10:00")

	require.NoError(t, s.Bootstrap(ctx))

	appts, err := s.ListForUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

type flakyStore struct {
	db.Store
	failures int
}

func (f *flakyStore) Open(ctx context.Context) (*db.Conn, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection refused")
	}
	return f.Store.Open(ctx)
}

func TestEnsureReadyRetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{Store: db.NewSQLite(filepath.Join(t.TempDir(), "clinic.db")), failures: 1}
	s := New(flaky)

	assert.Error(t, s.EnsureReady(ctx))
	assert.False(t, s.Ready())

	require.NoError(t, s.EnsureReady(ctx))
	assert.True(t, s.Ready())

	// once ready, the store is not touched again
	flaky.failures = 1
	assert.NoError(t, s.EnsureReady(ctx))
}

// ---------------------- APPOINTMENTS ----------------------

func TestCreateAppointmentDates(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	uid := register(t, s, "Ann", "ann@x.com")

	in := AppointmentInput{UserID: uid, Doctor: "Dr. Smith", Time: "10:00", Reason: "checkup"}

	in.Date = "2030-06-14"
	_, err := s.CreateAppointment(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Please choose today or a future date.", err.Error())

	in.Date = "2030-13-40"
	_, err = s.CreateAppointment(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Invalid appointment date.", err.Error())

	in.Date = "2030-06-15"
	id, err := s.CreateAppointment(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, id)

	appts, err := s.ListForUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, models.StatusPending, appts[0].Status)
	assert.NotEmpty(t, appts[0].CreatedAt)
}

func TestCreateAppointmentRequiresFields(t *testing.T) {
	s := newTestStorage(t)
	uid := register(t, s, "Ann", "ann@x.com")

	_, err := s.CreateAppointment(context.Background(), AppointmentInput{
		UserID: uid, Doctor: "Dr. Smith", Date: "2030-07-01", Time: "10:00", Reason: "   ",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	ann := register(t, s, "Ann", "ann@x.com")
	bob := register(t, s, "Bob", "bob@x.com")

	book(t, s, ann, "2030-08-01", "09:00")
	book(t, s, ann, "2030-07-01", "14:00")
	book(t, s, ann, "2030-07-01", "08:30")
	book(t, s, bob, "2030-09-01", "11:00")

	mine, err := s.ListForUser(ctx, ann)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{"2030-07-01 08:30", "2030-07-01 14:00", "2030-08-01 09:00"}, slots(mine))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Bob", all[0].FullName)
	assert.Equal(t, "bob@x.com", all[0].Email)

	var got []string
	for _, a := range all {
		got = append(got, a.Date+" "+a.Time)
	}
	assert.Equal(t, []string{"2030-09-01 11:00", "2030-08-01 09:00", "2030-07-01 14:00", "2030-07-01 08:30"}, got)
}

func slots(appts []models.Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.Date+" "+a.Time)
	}
	return out
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	uid := register(t, s, "Ann", "ann@x.com")
	id := book(t, s, uid, "2030-07-01", "10:00")

	require.NoError(t, s.UpdateStatus(ctx, id, "APPROVED"))
	appts, _ := s.ListForUser(ctx, uid)
	assert.Equal(t, models.StatusApproved, appts[0].Status)

	err := s.UpdateStatus(ctx, id, "archived")
	assert.ErrorIs(t, err, ErrValidation)
	appts, _ = s.ListForUser(ctx, uid)
	assert.Equal(t, models.StatusApproved, appts[0].Status)

	// any status is reachable from any other
	require.NoError(t, s.UpdateStatus(ctx, id, "completed"))
	require.NoError(t, s.UpdateStatus(ctx, id, "pending"))

	assert.NoError(t, s.UpdateStatus(ctx, 9999, "cancelled"))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{}, st)

	uid := register(t, s, "Ann", "ann@x.com")
	a := book(t, s, uid, "2030-07-01", "10:00")
	book(t, s, uid, "2030-07-02", "10:00")
	require.NoError(t, s.UpdateStatus(ctx, a, "approved"))

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Pending: 1, Approved: 1}, st)
}

// ---------------------- DOCTORS ----------------------

func TestDoctorCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.AddDoctor(ctx, "Dr. Adams", "")
	assert.ErrorIs(t, err, ErrValidation)

	id, err := s.AddDoctor(ctx, "  Dr. Adams ", "Neurologist")
	require.NoError(t, err)

	d, err := s.GetDoctor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Adams", d.Name)

	require.NoError(t, s.UpdateDoctor(ctx, id, "Dr. Adams", "Neurosurgeon"))
	d, _ = s.GetDoctor(ctx, id)
	assert.Equal(t, "Neurosurgeon", d.Specialty)

	assert.ErrorIs(t, s.UpdateDoctor(ctx, id, "", "x"), ErrValidation)
	assert.ErrorIs(t, s.UpdateDoctor(ctx, 9999, "", ""), ErrNotFound)

	doctors, err := s.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Adams", doctors[0].Name)
}

func TestDeleteDoctorWithAppointments(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	uid := register(t, s, "Ann", "ann@x.com")
	book(t, s, uid, "2030-07-01", "10:00")

	doctors, err := s.ListDoctors(ctx)
	require.NoError(t, err)
	for _, d := range doctors {
		require.NoError(t, s.DeleteDoctor(ctx, d.ID))
	}
	assert.NoError(t, s.DeleteDoctor(ctx, 9999))

	_, err = s.GetDoctor(ctx, doctors[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	appts, err := s.ListForUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "Dr. Smith", appts[0].Doctor)
}
