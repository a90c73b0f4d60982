package feed

import (
	"context"
	"sync"

	"mingle/models"
	"mingle/services"
)

// Thread is one target's comment section. Comments are fetched lazily on
// first expand and cached for later expands. The flat server sequence is
// partitioned into top-level comments and one level of replies; deeper
// nesting is not rendered.
type Thread struct {
	interactions *services.InteractionService
	target       models.Target
	onAdded      func()

	mu       sync.Mutex
	expanded bool
	loaded   bool
	fetching bool
	comments []models.Comment
}

func newThread(interactions *services.InteractionService, target models.Target, onAdded func()) *Thread {
	return &Thread{
		interactions: interactions,
		target:       target,
		onAdded:      onAdded,
	}
}

// Toggle flips expansion. The first successful expand fetches the thread;
// a failed fetch leaves the thread unloaded so the next expand retries.
// While a fetch is pending no second one is issued, so a rapid
// collapse/re-expand cannot race two settlements into the cache.
// Returns whether the thread is now expanded.
func (t *Thread) Toggle(ctx context.Context) (bool, error) {
	t.mu.Lock()
	t.expanded = !t.expanded
	expanded := t.expanded
	if !expanded || t.loaded || t.fetching {
		t.mu.Unlock()
		return expanded, nil
	}
	t.fetching = true
	t.mu.Unlock()

	comments, err := t.interactions.Comments(ctx, t.target)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetching = false
	if err != nil {
		return expanded, err
	}
	t.comments = comments
	t.loaded = true
	return expanded, nil
}

// AddComment submits a comment (or a reply when parentID is set) and, only
// after the server acknowledges it, appends the authoritative record to the
// thread and bumps the counter. Comment creation is deliberately not
// optimistic: a fabricated local id could collide with or precede the
// server-assigned one.
func (t *Thread) AddComment(ctx context.Context, text string, parentID *uint) (*models.Comment, error) {
	comment, err := t.interactions.CreateComment(ctx, t.target, text, parentID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.comments = append(t.comments, *comment)
	t.mu.Unlock()

	if t.onAdded != nil {
		t.onAdded()
	}
	return comment, nil
}

// Expanded reports whether the thread is currently shown.
func (t *Thread) Expanded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded
}

// Comments returns a snapshot of the cached flat sequence.
func (t *Thread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

// TopLevel returns the comments without a parent, in thread order.
func (t *Thread) TopLevel() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []models.Comment
	for _, c := range t.comments {
		if c.ParentCommentID == nil {
			out = append(out, c)
		}
	}
	return out
}

// Replies returns the direct replies to a top-level comment, in thread order.
func (t *Thread) Replies(parentID uint) []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []models.Comment
	for _, c := range t.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentID {
			out = append(out, c)
		}
	}
	return out
}
