package imagesearch

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/models"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		APIKey:   "key",
		EngineID: "cx",
		BaseURL:  srv.URL,
		Results:  3,
		Timeout:  time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		assert.Equal(t, "sharks", q.Get("q"))
		assert.Equal(t, "image", q.Get("searchType"))
		assert.Equal(t, "3", q.Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"link": "http://img/1.jpg",
					"mime": "image/jpeg",
					"image": {
						"width": 800, "height": 600, "byteSize": 12345,
						"thumbnailLink": "http://thumb/1.jpg", "thumbnailWidth": 80, "thumbnailHeight": 60
					}
				},
				{"link": ""},
				{"link": "http://img/2.png", "mime": "image/png"}
			]
		}`))
	})

	images, err := c.Search(context.Background(), "sharks")
	require.NoError(t, err)

	expected := []models.Image{
		{
			URL: "http://img/1.jpg", Type: "image/jpeg", Width: 800, Height: 600, Size: 12345,
			Thumbnail: models.Thumbnail{URL: "http://thumb/1.jpg", Width: 80, Height: 60},
		},
		{URL: "http://img/2.png", Type: "image/png"},
	}
	assert.Equal(t, expected, images)
}

func TestSearchNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"searchInformation": {"totalResults": "0"}}`))
	})

	images, err := c.Search(context.Background(), "nothing at all")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestSearchFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "quota_exceeded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded"}}`))
			},
		},
		{
			name: "server_error_without_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "broken_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"items": [`))
			},
		},
		{
			name: "non_json_success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<html>captive portal</html>`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)

			images, err := c.Search(context.Background(), "sharks")
			assert.Nil(t, images)

			var searchErr *SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, "sharks", searchErr.Term)
		})
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Options{EngineID: "cx"})
	assert.Error(t, err)

	_, err = New(Options{APIKey: "key"})
	assert.Error(t, err)
}
