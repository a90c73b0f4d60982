package devserver

import (
	"fmt"
	"testing"
	"time"

	"mingle/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestFlow(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, idA := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")

	// Self-requests are invalid.
	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idA), tokenA, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Requests to unknown users 404.
	resp = doJSON(t, app, "POST", "/api/v1/friends/99999", tokenA, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// A duplicate request conflicts, in either direction.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idA), tokenB, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The addressee sees the pending request.
	resp = doJSON(t, app, "GET", "/api/v1/friends/requests", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var requests []struct {
		RequesterID uint `json:"requester_id"`
		Requester   struct {
			DisplayName string `json:"display_name"`
		} `json:"requester"`
	}
	decodeBody(t, resp, &requests)
	require.Len(t, requests, 1)
	assert.Equal(t, idA, requests[0].RequesterID)
	assert.Equal(t, "Ada", requests[0].Requester.DisplayName)

	// The requester cannot accept their own request.
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/friends/%d/accept", idB), tokenA, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/friends/%d/accept", idA), tokenB, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Both sides list each other as friends.
	for _, tc := range []struct {
		token    string
		expected string
	}{
		{tokenA, "Ben"},
		{tokenB, "Ada"},
	} {
		resp = doJSON(t, app, "GET", "/api/v1/friends/", tc.token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var friends []struct {
			DisplayName string `json:"display_name"`
		}
		decodeBody(t, resp, &friends)
		require.Len(t, friends, 1)
		assert.Equal(t, tc.expected, friends[0].DisplayName)
	}

	// Unfriending works from either side and is final.
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/friends/%d", idA), tokenB, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRejectFriendRequest(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, idA := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/friends/%d/reject", idA), tokenB, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// After a rejection a fresh request can be sent.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestSuggestionsExcludeRelatedUsers(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, idA := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")
	_, idC := registerUser(t, app, "Cam", "cam@example.com")
	_, idD := registerUser(t, app, "Dee", "dee@example.com")

	befriend(t, app, tokenA, idA, tokenB, idB)

	resp := doJSON(t, app, "GET", "/api/v1/users/suggestions", tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var suggestions []struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &suggestions)

	ids := make([]uint, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ID)
	}
	assert.NotContains(t, ids, idA, "never suggest the caller")
	assert.NotContains(t, ids, idB, "never suggest existing friends")
	assert.Contains(t, ids, idC)
	assert.Contains(t, ids, idD)
}

func TestSuggestionsServedFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cache.InitRedis(mr.Addr())
	t.Cleanup(cache.Close)

	_, app := newTestServer(t)
	tokenA, idA := registerUser(t, app, "Ada", "ada@example.com")
	_, idB := registerUser(t, app, "Ben", "ben@example.com")

	suggested := func() []uint {
		resp := doJSON(t, app, "GET", "/api/v1/users/suggestions", tokenA, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var suggestions []struct {
			ID uint `json:"id"`
		}
		decodeBody(t, resp, &suggestions)
		ids := make([]uint, 0, len(suggestions))
		for _, s := range suggestions {
			ids = append(ids, s.ID)
		}
		return ids
	}

	assert.Contains(t, suggested(), idB)
	require.True(t, mr.Exists(fmt.Sprintf("suggestions:%d", idA)),
		"the first lookup populates the cache")

	// Cam registers after the list was cached, so the cached window still
	// answers without them.
	_, idC := registerUser(t, app, "Cam", "cam@example.com")
	second := suggested()
	assert.Contains(t, second, idB)
	assert.NotContains(t, second, idC)

	// Once the entry expires the lookup falls through to the database.
	mr.FastForward(suggestionCacheTTL + time.Second)
	assert.Contains(t, suggested(), idC)
}
