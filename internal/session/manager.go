package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/glosshq/gloss/internal/cookie"
)

// Config holds session manager configuration.
type Config struct {
	CookieName    string        `env:"SESSION_COOKIE" envDefault:"gloss_session"`
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
}

// Manager handles session lifecycle: loading from the cookie transport,
// creating fresh sessions for new visitors, and persisting changes.
type Manager[Data any] struct {
	store         Store[Data]
	cookies       *cookie.Manager
	cookieName    string
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a session manager with the given store and signed
// cookie transport.
func NewManager[Data any](store Store[Data], cookies *cookie.Manager, cfg Config) *Manager[Data] {
	return &Manager[Data]{
		store:         store,
		cookies:       cookies,
		cookieName:    cfg.CookieName,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}
}

// Load resolves the request's session. A missing, invalid, or expired
// cookie yields a fresh anonymous session; the cookie is (re)issued in
// that case. Load never fails on bad client input, only on store or
// token-generation errors.
func (m *Manager[Data]) Load(w http.ResponseWriter, r *http.Request) (Session[Data], error) {
	token, err := m.cookies.GetSigned(r, m.cookieName)
	if err == nil {
		sess, err := m.store.GetByToken(r.Context(), token)
		switch {
		case err == nil && !sess.IsExpired():
			return *sess, nil
		case err == nil:
			// Expired but still present in the store.
			_ = m.store.Delete(r.Context(), token)
		case !errors.Is(err, ErrNotFound):
			return Session[Data]{}, err
		}
	}

	sess, err := New[Data](m.ttl)
	if err != nil {
		return Session[Data]{}, err
	}
	m.cookies.SetSigned(w, m.cookieName, sess.Token, cookie.WithMaxAge(int(m.ttl.Seconds())))
	return sess, nil
}

// Save persists the session if it was modified, extending its expiry
// according to the touch interval.
func (m *Manager[Data]) Save(ctx context.Context, sess *Session[Data]) error {
	sess.Touch(m.ttl, m.touchInterval)
	if !sess.IsModified() {
		return nil
	}
	return m.store.Save(ctx, sess)
}

// TTL returns the configured session time-to-live.
func (m *Manager[Data]) TTL() time.Duration {
	return m.ttl
}
