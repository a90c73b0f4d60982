package devserver

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPage(t *testing.T, app *fiber.App, token, name string) uint {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/v1/pages/", token, map[string]any{
		"page_name": name,
		"category":  "Community",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var page struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &page)
	return page.ID
}

func TestPageFollowLifecycle(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, _ := registerUser(t, app, "Ben", "ben@example.com")
	pageID := createPage(t, app, tokenA, "Gopher News")

	follow := fmt.Sprintf("/api/v1/pages/%d/follow", pageID)
	resp := doJSON(t, app, "POST", follow, tokenB, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", follow, tokenB, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/pages/%d", pageID), tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		FollowerCount int  `json:"follower_count"`
		IsFollowedBy  bool `json:"is_followed_by_me"`
	}
	decodeBody(t, resp, &page)
	assert.Equal(t, 1, page.FollowerCount)
	assert.True(t, page.IsFollowedBy)

	resp = doJSON(t, app, "DELETE", follow, tokenB, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", follow, tokenB, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPageRolesByEmail(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")
	pageID := createPage(t, app, tokenA, "Gopher News")

	rolesPath := fmt.Sprintf("/api/v1/pages/%d/roles", pageID)

	// Only the owner can assign roles.
	resp := doJSON(t, app, "POST", rolesPath, tokenB, map[string]string{
		"email": "ben@example.com",
		"role":  "EDITOR",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", rolesPath, tokenA, map[string]string{
		"email": "BEN@example.com",
		"role":  "EDITOR",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var role struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	decodeBody(t, resp, &role)
	assert.Equal(t, idB, role.UserID, "grantees resolve by email, case-insensitively")
	assert.Equal(t, "EDITOR", role.Role)

	// Unknown emails 404, duplicates conflict.
	resp = doJSON(t, app, "POST", rolesPath, tokenA, map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, "POST", rolesPath, tokenA, map[string]string{"email": "ben@example.com"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Role holders can edit the page.
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/pages/%d", pageID), tokenB,
		map[string]string{"description": "updated by editor"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The page shows up in the editor's managed pages.
	resp = doJSON(t, app, "GET", "/api/v1/me/pages", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, pageID, mine[0].ID)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("%s/%d", rolesPath, idB), tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestPagePostsKeysetPagination(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "Ada", "ada@example.com")
	pageID := createPage(t, app, token, "Gopher News")

	var postIDs []uint
	for i := 0; i < 5; i++ {
		resp := doJSON(t, app, "POST", "/api/v1/posts/", token, map[string]any{
			"text_content": fmt.Sprintf("update %d", i),
			"page_id":      pageID,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var post struct {
			ID uint `json:"id"`
		}
		decodeBody(t, resp, &post)
		postIDs = append(postIDs, post.ID)
	}

	fetch := func(path string) []uint {
		resp := doJSON(t, app, "GET", path, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var posts []struct {
			ID uint `json:"id"`
		}
		decodeBody(t, resp, &posts)
		ids := make([]uint, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		return ids
	}

	base := fmt.Sprintf("/api/v1/pages/%d/posts", pageID)
	first := fetch(base + "?limit=2")
	require.Len(t, first, 2)
	assert.Equal(t, postIDs[4], first[0], "newest first")
	assert.Equal(t, postIDs[3], first[1])

	second := fetch(fmt.Sprintf("%s?limit=2&last_post_id=%d", base, first[1]))
	require.Len(t, second, 2)
	assert.Equal(t, postIDs[2], second[0])
	assert.Equal(t, postIDs[1], second[1])

	last := fetch(fmt.Sprintf("%s?limit=2&last_post_id=%d", base, second[1]))
	require.Len(t, last, 1)
	assert.Equal(t, postIDs[0], last[0])
}
