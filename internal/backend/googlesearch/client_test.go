package googlesearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muse/internal/backend/googlesearch"
)

func newFakeSearch(t *testing.T, handler http.HandlerFunc) *googlesearch.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := googlesearch.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/", "engine-1")
	require.NoError(t, err)
	return client
}

func TestSearch_ReturnsLinks(t *testing.T) {
	var gotQuery map[string]string
	client := newFakeSearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":          q.Get("q"),
			"cx":         q.Get("cx"),
			"searchType": q.Get("searchType"),
			"num":        q.Get("num"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"link": "https://img.example/1.jpg"},
				{"link": ""},
				{"link": "https://img.example/2.jpg"},
			},
		})
	})

	links, err := client.Search(context.Background(), "running inspo", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://img.example/1.jpg", "https://img.example/2.jpg"}, links)
	assert.Equal(t, map[string]string{
		"q":          "running inspo",
		"cx":         "engine-1",
		"searchType": "image",
		"num":        "5",
	}, gotQuery)
}

func TestSearch_NoItems(t *testing.T) {
	client := newFakeSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"kind":"customsearch#search"}`))
	})

	links, err := client.Search(context.Background(), "obscure", 4)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestSearch_ClampsNum(t *testing.T) {
	var nums []string
	client := newFakeSearch(t, func(w http.ResponseWriter, r *http.Request) {
		nums = append(nums, r.URL.Query().Get("num"))
		w.Write([]byte(`{}`))
	})

	_, err := client.Search(context.Background(), "x", 50)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), "x", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "1"}, nums)
}

func TestSearch_QuotaError(t *testing.T) {
	client := newFakeSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"Daily Limit Exceeded"}}`))
	})

	_, err := client.Search(context.Background(), "x", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := googlesearch.New(context.Background(), "", "cx")
	assert.Error(t, err)

	_, err = googlesearch.New(context.Background(), "key", "")
	assert.Error(t, err)
}
