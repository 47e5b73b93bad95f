package stockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(NewConfig(srv.URL, "secret", timeout, 100))
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadConfig(t *testing.T) {
	_, err := NewClient(NewConfig("", "", 0, 0))
	assert.Error(t, err)

	_, err = NewClient(NewConfig("inventory:8081", "", 0, 0))
	assert.Error(t, err)
}

func TestClient_GetInventory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/inventory/1", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
			_, _ = w.Write([]byte(`{"book_id":1,"quantity":3,"last_updated":"2024-05-01T10:00:00Z"}`))
		}, time.Second)

		rec, ok := c.GetInventory(t.Context(), 1)
		require.True(t, ok)
		assert.Equal(t, int64(1), rec.BookID)
		assert.Equal(t, 3, rec.Quantity)
		assert.Equal(t, 2024, rec.LastUpdated.Year())
	})

	t.Run("non success status is absent", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, time.Second)

		rec, ok := c.GetInventory(t.Context(), 1)
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("timeout is absent", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}, 50*time.Millisecond)

		rec, ok := c.GetInventory(t.Context(), 1)
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("transport failure is absent", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := NewClient(NewConfig(url, "", time.Second, 10))
		require.NoError(t, err)

		rec, ok := c.GetInventory(t.Context(), 1)
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("garbage body is absent", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}, time.Second)

		_, ok := c.GetInventory(t.Context(), 1)
		assert.False(t, ok)
	})
}

func TestClient_ListLowStock(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/inventory/low-stock", r.URL.Path)
			_, _ = w.Write([]byte(`{"items":[{"book_id":4,"quantity":1},{"book_id":9,"quantity":0}]}`))
		}, time.Second)

		items := c.ListLowStock(t.Context())
		require.Len(t, items, 2)
		assert.Equal(t, int64(9), items[1].BookID)
	})

	t.Run("failure is empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, time.Second)

		items := c.ListLowStock(t.Context())
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestClient_SetStock(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/inventory/7", r.URL.Path)

			var body setStockBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 12, body.Quantity)
			w.WriteHeader(http.StatusNoContent)
		}, time.Second)

		assert.True(t, c.SetStock(t.Context(), 7, 12))
	})

	t.Run("failure is false", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}, time.Second)

		assert.False(t, c.SetStock(t.Context(), 7, 12))
	})
}
