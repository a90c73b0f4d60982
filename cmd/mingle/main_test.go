package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"mingle/client"
	"mingle/services"
	"mingle/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// likeBackend scripts just enough of the API for the like command: a valid
// session, a one-post feed, and a reaction endpoint that always fails.
func likeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":7,"display_name":"Ada","email":"ada@example.com"}`)
	})
	mux.HandleFunc("GET /feed", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":42,"text_content":"hello","is_liked_by_me":false,"stats":{"likes":3,"comments":0}}]`)
	})
	mux.HandleFunc("POST /reactions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Internal server error"}`)
	})
	return mux
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestCmdLikeReportsFailedToggle(t *testing.T) {
	ts := httptest.NewServer(likeBackend())
	defer ts.Close()

	api := client.New(ts.URL)
	require.NoError(t, api.SetToken("opaque-session-token"))
	svcs := services.New(api)
	sess := session.NewStore(api)

	stderr := captureStderr(t, func() {
		// The toggle fails and the card reverts, but the command itself
		// completes: the failure is a notice, not an abort.
		err := cmdLike(context.Background(), []string{"42"}, svcs, sess)
		require.NoError(t, err)
	})
	assert.Contains(t, stderr, "like failed")
}
