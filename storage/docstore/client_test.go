package docstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	testutil "github.com/shulehub/shule/tests"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(&core.Config{
		DocstoreURL: baseURL,
		HTTPTimeout: 2 * time.Second,
	}, staticToken("tok-123"))
}

func TestClient_documents(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFakeDocstore(t)
	client := newTestClient(t, store.URL)

	type doc struct {
		Name string `json:"name"`
	}

	t.Run("missing document", func(t *testing.T) {
		var out doc
		err := client.Get(ctx, "teachers/uid-1", &out)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "teachers/uid-1", doc{Name: "Jane"}, false))

		var out doc
		require.NoError(t, client.Get(ctx, "teachers/uid-1", &out))
		assert.Equal(t, "Jane", out.Name)
	})

	t.Run("merge keeps unrelated fields", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "teachers/uid-2",
			map[string]interface{}{"name": "Amy", "email": "amy@school.org"}, false))
		require.NoError(t, client.Set(ctx, "teachers/uid-2",
			map[string]interface{}{"name": "Amy B"}, true))

		stored := store.Doc("teachers/uid-2")
		assert.Equal(t, "Amy B", stored["name"])
		assert.Equal(t, "amy@school.org", stored["email"])
	})

	t.Run("replace drops unrelated fields", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "teachers/uid-2",
			map[string]interface{}{"name": "Amy C"}, false))
		stored := store.Doc("teachers/uid-2")
		assert.Equal(t, "Amy C", stored["name"])
		assert.NotContains(t, stored, "email")
	})

	t.Run("count and delete", func(t *testing.T) {
		n, err := client.Count(ctx, "teachers")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, client.Delete(ctx, "teachers/uid-2"))
		n, err = client.Count(ctx, "teachers")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("bearer token attached", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		t.Cleanup(srv.Close)

		var out map[string]interface{}
		require.NoError(t, newTestClient(t, srv.URL).Get(ctx, "teachers/uid-1", &out))
		assert.Equal(t, "Bearer tok-123", gotAuth)
	})

	t.Run("non-JSON response rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		t.Cleanup(srv.Close)

		var out map[string]interface{}
		err := newTestClient(t, srv.URL).Get(ctx, "teachers/uid-1", &out)
		var rErr *core.RemoteError
		require.ErrorAs(t, err, &rErr)
		assert.Contains(t, rErr.Message, `"text/html"`)
	})
}
