package binder_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glosshq/gloss/internal/binder"
)

type searchForm struct {
	Query   string    `query:"q"`
	Type    string    `query:"type"`
	Offset  int       `query:"offset"`
	SID     uuid.UUID `query:"sid"`
	Ignored string    `query:"-"`
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds all supported kinds", func(t *testing.T) {
		t.Parallel()
		sid := uuid.New()
		r := httptest.NewRequest("GET", "/translate?q=hello&type=fuzzy&offset=4&sid="+sid.String(), nil)

		var form searchForm
		require.NoError(t, binder.Query(r, &form))
		assert.Equal(t, "hello", form.Query)
		assert.Equal(t, "fuzzy", form.Type)
		assert.Equal(t, 4, form.Offset)
		assert.Equal(t, sid, form.SID)
	})

	t.Run("missing parameters keep zero values", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/translate", nil)

		var form searchForm
		require.NoError(t, binder.Query(r, &form))
		assert.Empty(t, form.Query)
		assert.Zero(t, form.Offset)
	})

	t.Run("invalid integer fails with parameter name", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/translate?offset=abc", nil)

		var form searchForm
		err := binder.Query(r, &form)
		require.ErrorIs(t, err, binder.ErrBindQuery)
		assert.Contains(t, err.Error(), `"offset"`)
	})

	t.Run("rejects non-pointer target", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		assert.ErrorIs(t, binder.Query(r, searchForm{}), binder.ErrInvalidTarget)
	})
}

func TestForm(t *testing.T) {
	t.Parallel()

	type translateForm struct {
		Target   string   `form:"target"`
		Fuzzy    bool     `form:"fuzzy"`
		Merge    *int     `form:"merge"`
		Checkers []string `form:"checkers"`
	}

	post := func(t *testing.T, body url.Values) *translateForm {
		t.Helper()
		r := httptest.NewRequest("POST", "/translate", strings.NewReader(body.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var form translateForm
		require.NoError(t, binder.Form(r, &form))
		return &form
	}

	t.Run("binds fields, checkboxes, and slices", func(t *testing.T) {
		t.Parallel()
		form := post(t, url.Values{
			"target":   {"Ahoj"},
			"fuzzy":    {"on"},
			"checkers": {"end_stop", "placeholders"},
		})
		assert.Equal(t, "Ahoj", form.Target)
		assert.True(t, form.Fuzzy)
		assert.Equal(t, []string{"end_stop", "placeholders"}, form.Checkers)
		assert.Nil(t, form.Merge)
	})

	t.Run("pointer fields bind when present", func(t *testing.T) {
		t.Parallel()
		form := post(t, url.Values{"merge": {"7"}})
		require.NotNil(t, form.Merge)
		assert.Equal(t, 7, *form.Merge)
	})
}
