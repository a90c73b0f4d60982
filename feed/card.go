// Package feed holds the per-post interaction state a view binds to: the
// optimistic like toggle and the lazily loaded comment thread. Each Card
// owns its own copy of server-derived counters; two cards showing the same
// post do not share state and may disagree until each reloads.
package feed

import (
	"context"
	"sync"

	"mingle/models"
	"mingle/services"
)

// Card tracks one post's local interaction state.
type Card struct {
	interactions *services.InteractionService
	target       models.Target
	userID       uint

	mu           sync.Mutex
	liked        bool
	likes        int
	comments     int
	likeInFlight bool
	closed       bool
	thread       *Thread
}

// NewCard seeds a card from a fetched post for the given viewing user.
func NewCard(interactions *services.InteractionService, post *models.Post, currentUserID uint) *Card {
	return &Card{
		interactions: interactions,
		target:       models.PostTarget(post.ID),
		userID:       currentUserID,
		liked:        post.IsLikedByMe,
		likes:        post.Stats.Likes,
		comments:     post.Stats.Comments,
	}
}

// ToggleLike optimistically flips the liked flag and adjusts the counter
// before the request resolves. On failure both are restored to their exact
// pre-toggle values and the error is returned for a transient, non-blocking
// notification; nothing is retried. On success the optimistic state is
// trusted as final: the true server-side count is never re-fetched, so
// under concurrent likes from other clients the displayed count can drift
// until the containing list reloads.
//
// A toggle issued while one is already in flight is a no-op, not queued.
func (c *Card) ToggleLike(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.likeInFlight {
		c.mu.Unlock()
		return nil
	}

	prevLiked, prevLikes := c.liked, c.likes

	c.liked = !prevLiked
	if c.liked {
		c.likes = prevLikes + 1
	} else {
		c.likes = max(0, prevLikes-1)
	}
	nowLiked := c.liked
	c.likeInFlight = true
	c.mu.Unlock()

	var err error
	if nowLiked {
		err = c.interactions.React(ctx, c.target)
	} else {
		err = c.interactions.Unreact(ctx, c.userID, c.target)
	}

	c.mu.Lock()
	c.likeInFlight = false
	if err != nil && !c.closed {
		c.liked = prevLiked
		c.likes = prevLikes
	}
	c.mu.Unlock()
	return err
}

// Liked reports the locally tracked liked flag.
func (c *Card) Liked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked
}

// Likes reports the locally tracked like counter.
func (c *Card) Likes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.likes
}

// CommentCount reports the locally tracked comment counter.
func (c *Card) CommentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comments
}

// Thread returns the card's comment thread, creating it on first use.
func (c *Card) Thread() *Thread {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.thread == nil {
		c.thread = newThread(c.interactions, c.target, c.bumpComments)
	}
	return c.thread
}

// Close marks the card unmounted. In-flight settlements no longer mutate
// state and further toggles are no-ops.
func (c *Card) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Card) bumpComments() {
	c.mu.Lock()
	if !c.closed {
		c.comments++
	}
	c.mu.Unlock()
}
