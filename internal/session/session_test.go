package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glosshq/gloss/internal/cookie"
	"github.com/glosshq/gloss/internal/session"
)

type testData struct {
	Counter int `json:"counter"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	sess, err := session.New[testData](time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsExpired())
	assert.True(t, sess.IsModified())
}

func TestAuthenticateRotatesToken(t *testing.T) {
	t.Parallel()

	sess, err := session.New[testData](time.Hour)
	require.NoError(t, err)
	before := sess.Token

	require.NoError(t, sess.Authenticate(uuid.New()))
	assert.NotEqual(t, before, sess.Token)
	assert.True(t, sess.IsAuthenticated())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[testData]()

		sess, err := session.New[testData](time.Hour)
		require.NoError(t, err)
		sess.SetData(testData{Counter: 42})
		require.NoError(t, store.Save(ctx, &sess))

		got, err := store.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, 42, got.Data.Counter)
		assert.False(t, got.IsModified())
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[testData]()

		_, err := store.GetByToken(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[testData]()

		alive, err := session.New[testData](time.Hour)
		require.NoError(t, err)
		dead, err := session.New[testData](-time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, &alive))
		require.NoError(t, store.Save(ctx, &dead))

		deleted, err := store.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		_, err = store.GetByToken(ctx, dead.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.GetByToken(ctx, alive.Token)
		assert.NoError(t, err)
	})
}

func newTestManager(t *testing.T) *session.Manager[testData] {
	t.Helper()
	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	return session.NewManager(session.NewMemoryStore[testData](), cookies, session.Config{
		CookieName:    "gloss_session",
		TTL:           time.Hour,
		TouchInterval: time.Minute,
	})
}

func TestManagerLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fresh visitor gets new session and cookie", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		sess, err := m.Load(rec, req)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		require.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("returning visitor keeps session", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		rec := httptest.NewRecorder()
		sess, err := m.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		sess.SetData(testData{Counter: 7})
		require.NoError(t, m.Save(ctx, &sess))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}

		again, err := m.Load(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, again.ID)
		assert.Equal(t, 7, again.Data.Counter)
	})

	t.Run("tampered cookie yields fresh session", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "gloss_session", Value: "garbage"})

		sess, err := m.Load(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
	})
}
