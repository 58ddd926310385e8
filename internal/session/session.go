package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

const (
	SessionCookie = "session"
	FlashCookie   = "flash"

	flashTTL   = 10 * time.Minute
	maxFlashes = 5
)

// Manager issues and reads the signed session and flash cookies.
type Manager struct {
	secret string
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: secret, ttl: ttl, secure: secure}
}

// Current returns the verified session carried by r, if any.
func (m *Manager) Current(r *http.Request) (*utils.SessionClaims, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	var claims utils.SessionClaims
	if err := utils.VerifyToken(c.Value, m.secret, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

// Login establishes a session for u.
func (m *Manager) Login(w http.ResponseWriter, u *models.User) error {
	token, err := utils.SignToken(utils.NewSessionClaims(u, m.ttl), m.secret)
	if err != nil {
		return err
	}
	m.set(w, SessionCookie, token, m.ttl)
	return nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	m.set(w, SessionCookie, "", -1)
}

// Flash queues a message for the next rendered page. Messages already
// pending on r are kept, up to the most recent maxFlashes.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, level models.Level, msg string) {
	flashes := append(m.pending(r), models.Flash{Level: level, Message: msg})
	if len(flashes) > maxFlashes {
		flashes = flashes[len(flashes)-maxFlashes:]
	}

	now := time.Now()
	token, err := utils.SignToken(&utils.FlashClaims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}, m.secret)
	if err != nil {
		return
	}
	m.set(w, FlashCookie, token, flashTTL)
}

// Flashes returns pending messages and consumes them.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []models.Flash {
	flashes := m.pending(r)
	if _, err := r.Cookie(FlashCookie); err == nil {
		m.set(w, FlashCookie, "", -1)
	}
	return flashes
}

func (m *Manager) pending(r *http.Request) []models.Flash {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	var claims utils.FlashClaims
	if err := utils.VerifyToken(c.Value, m.secret, &claims); err != nil {
		return nil
	}
	return claims.Flashes
}

func (m *Manager) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

// WithClaims stores the session in ctx for downstream handlers.
func WithClaims(ctx context.Context, claims *utils.SessionClaims) context.Context {
	return context.WithValue(ctx, utils.CtxSessionKey, claims)
}

// FromContext returns the session placed by the auth gate.
func FromContext(ctx context.Context) (*utils.SessionClaims, bool) {
	claims, ok := ctx.Value(utils.CtxSessionKey).(*utils.SessionClaims)
	return claims, ok
}
