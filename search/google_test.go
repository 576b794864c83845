package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/prodlookup/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxResults int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", "test-cx", srv.URL, maxResults)
	c.httpClient = srv.Client()
	return c
}

func TestSearch_ParsesItems(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"key": q.Get("key"),
			"cx":  q.Get("cx"),
			"q":   q.Get("q"),
			"num": q.Get("num"),
		}
		w.Write([]byte(`{"items":[
			{"title":"Acme Widget Pro","snippet":"The pro widget.","link":"https://shop.example.com/widget-pro"},
			{"title":"Acme Widget Lite","snippet":"The lite widget.","link":"https://shop.example.com/widget-lite"}
		]}`))
	}, 10)

	got, err := c.Search(context.Background(), "acme widget", 5)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"key": "test-key",
		"cx":  "test-cx",
		"q":   "acme widget",
		"num": "5",
	}, gotQuery)

	require.Len(t, got, 2)
	assert.Equal(t, models.ProductRecord{
		Name:        "Acme Widget Pro",
		Description: "The pro widget.",
		SourceURL:   "https://shop.example.com/widget-pro",
	}, got[0])
}

func TestSearch_DropsItemsWithoutLink(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"title":"No link","snippet":"nothing to crawl"},
			{"title":"Has link","link":"https://shop.example.com/ok"}
		]}`))
	}, 10)

	got, err := c.Search(context.Background(), "widget", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://shop.example.com/ok", got[0].SourceURL)
}

func TestSearch_ClampsMaxResults(t *testing.T) {
	var gotNum string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotNum = r.URL.Query().Get("num")
		w.Write([]byte(`{"items":[]}`))
	}, 5)

	// Above the client cap falls back to it.
	_, err := c.Search(context.Background(), "widget", 50)
	require.NoError(t, err)
	assert.Equal(t, "5", gotNum)

	// Zero and negative fall back too.
	_, err = c.Search(context.Background(), "widget", 0)
	require.NoError(t, err)
	assert.Equal(t, "5", gotNum)
}

func TestNewClient_ClampsConfiguredMax(t *testing.T) {
	c := NewClient("k", "cx", "http://example.invalid", 25)
	assert.Equal(t, hardMaxResults, c.maxResults)

	c = NewClient("k", "cx", "http://example.invalid", 0)
	assert.Equal(t, hardMaxResults, c.maxResults)
}

func TestSearch_NoItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, 10)

	got, err := c.Search(context.Background(), "obscure query", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_APIErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, 10)

	_, err := c.Search(context.Background(), "widget", 5)
	require.Error(t, err)

	var le *models.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, models.ErrCodeSearchFailed, le.Code)
}

func TestSearch_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}, 10)

	_, err := c.Search(context.Background(), "widget", 5)
	require.Error(t, err)
}
