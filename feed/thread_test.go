package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mingle/client"
	"mingle/models"
	"mingle/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentServer scripts the comment endpoints. When gate is set, list
// requests block until it is closed.
type commentServer struct {
	mu       sync.Mutex
	listCode int
	gate     chan struct{}
	nextID   atomic.Uint32

	fetches atomic.Int32
	creates atomic.Int32
}

func (s *commentServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /comments", func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		s.mu.Lock()
		code := s.listCode
		gate := s.gate
		s.mu.Unlock()
		if gate != nil {
			<-gate
		}
		if code != 0 {
			w.WriteHeader(code)
			io.WriteString(w, `{"error":"Internal server error"}`)
			return
		}
		io.WriteString(w, `[
			{"id":1,"commentable_id":42,"commentable_type":"POST","text_content":"first"},
			{"id":2,"commentable_id":42,"commentable_type":"POST","text_content":"reply","parent_comment_id":1},
			{"id":3,"commentable_id":42,"commentable_type":"POST","text_content":"second"}
		]`)
	})
	mux.HandleFunc("POST /comments", func(w http.ResponseWriter, r *http.Request) {
		s.creates.Add(1)
		id := s.nextID.Add(1) + 100
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":`+strconv.Itoa(int(id))+`,"commentable_id":42,"commentable_type":"POST","text_content":"created"}`)
	})
	return mux
}

func newThreadFixture(t *testing.T) (*Card, *commentServer) {
	t.Helper()
	srv := &commentServer{}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	svcs := services.New(client.New(ts.URL))
	post := &models.Post{ID: 42, Stats: models.PostStats{Comments: 3}}
	return NewCard(svcs.Interactions, post, 7), srv
}

func TestThreadFetchesOnceAcrossExpands(t *testing.T) {
	card, srv := newThreadFixture(t)
	thread := card.Thread()
	assert.Same(t, thread, card.Thread(), "a card owns one thread")

	expanded, err := thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, expanded)
	assert.Len(t, thread.Comments(), 3)

	// Collapse and re-expand: the cached thread is served, no refetch.
	expanded, err = thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, expanded)

	expanded, err = thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, expanded)
	assert.Equal(t, int32(1), srv.fetches.Load())
}

func TestThreadPartitionsRepliesOneLevelDeep(t *testing.T) {
	card, _ := newThreadFixture(t)
	thread := card.Thread()
	_, err := thread.Toggle(context.Background())
	require.NoError(t, err)

	top := thread.TopLevel()
	require.Len(t, top, 2)
	assert.Equal(t, uint(1), top[0].ID)
	assert.Equal(t, uint(3), top[1].ID)

	replies := thread.Replies(1)
	require.Len(t, replies, 1)
	assert.Equal(t, uint(2), replies[0].ID)
	assert.Empty(t, thread.Replies(3))
}

func TestThreadFailedFetchRetriesOnNextExpand(t *testing.T) {
	card, srv := newThreadFixture(t)
	thread := card.Thread()

	srv.mu.Lock()
	srv.listCode = http.StatusInternalServerError
	srv.mu.Unlock()

	expanded, err := thread.Toggle(context.Background())
	require.Error(t, err)
	assert.True(t, expanded, "the section still expands; only the fetch failed")
	assert.Empty(t, thread.Comments())

	srv.mu.Lock()
	srv.listCode = 0
	srv.mu.Unlock()

	// Collapse, then expand again: the fetch is retried because the first
	// one never loaded.
	_, err = thread.Toggle(context.Background())
	require.NoError(t, err)
	_, err = thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.Len(t, thread.Comments(), 3)
	assert.Equal(t, int32(2), srv.fetches.Load())
}

func TestThreadIssuesNoSecondFetchWhileOneIsPending(t *testing.T) {
	card, srv := newThreadFixture(t)
	thread := card.Thread()

	srv.mu.Lock()
	srv.gate = make(chan struct{})
	srv.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := thread.Toggle(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return srv.fetches.Load() == 1 },
		time.Second, time.Millisecond, "the first expand starts a fetch")

	// Collapse and re-expand while that fetch is still pending: the pending
	// one is reused, nothing new is issued.
	expanded, err := thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, expanded)

	expanded, err = thread.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, expanded)

	srv.mu.Lock()
	close(srv.gate)
	srv.mu.Unlock()
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), srv.fetches.Load())
	assert.Len(t, thread.Comments(), 3)
}

func TestAddCommentAppendsServerRecordAndBumpsCounter(t *testing.T) {
	card, _ := newThreadFixture(t)
	thread := card.Thread()
	_, err := thread.Toggle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, card.CommentCount())

	comment, err := thread.AddComment(context.Background(), "a new comment", nil)
	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.NotZero(t, comment.ID, "the appended record carries the server-assigned id")

	comments := thread.Comments()
	require.Len(t, comments, 4)
	assert.Equal(t, comment.ID, comments[3].ID)
	assert.Equal(t, 4, card.CommentCount())
}

func TestAddEmptyCommentIssuesNoRequest(t *testing.T) {
	card, srv := newThreadFixture(t)
	thread := card.Thread()

	_, err := thread.AddComment(context.Background(), "   \n\t  ", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, int32(0), srv.creates.Load(), "whitespace-only comments are rejected locally")
	assert.Equal(t, 3, card.CommentCount())
}
