package devserver

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createGroup(t *testing.T, app *fiber.App, token, name, privacy string) uint {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/v1/groups/", token, map[string]any{
		"group_name":   name,
		"privacy_type": privacy,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var group struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &group)
	return group.ID
}

func TestPublicGroupJoinIsImmediate(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, _ := registerUser(t, app, "Ben", "ben@example.com")
	groupID := createGroup(t, app, tokenA, "Gophers", "PUBLIC")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var member struct {
		Status string `json:"status"`
		Role   string `json:"role"`
	}
	decodeBody(t, resp, &member)
	assert.Equal(t, "APPROVED", member.Status)
	assert.Equal(t, "MEMBER", member.Role)

	// Joining twice conflicts.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Both users appear in the member list; the creator is the admin.
	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/groups/%d/members", groupID), tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var members []struct {
		Role string `json:"role"`
	}
	decodeBody(t, resp, &members)
	assert.Len(t, members, 2)
}

func TestPrivateGroupJoinNeedsApproval(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")
	groupID := createGroup(t, app, tokenA, "Secret Society", "PRIVATE")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB,
		map[string]any{
			"answers": []map[string]any{
				{"question_id": 1, "answer_text": "because"},
			},
		})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var member struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &member)
	assert.Equal(t, "PENDING", member.Status)

	// Pending members cannot post.
	resp = doJSON(t, app, "POST", "/api/v1/posts/", tokenB, map[string]any{
		"text_content": "let me in",
		"group_id":     groupID,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin sees and approves the request.
	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/groups/%d/pending-requests", groupID), tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var pending []struct {
		UserID uint `json:"user_id"`
	}
	decodeBody(t, resp, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, idB, pending[0].UserID)

	resp = doJSON(t, app, "POST",
		fmt.Sprintf("/api/v1/groups/%d/members/%d/approve", groupID, idB), tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Approved members can post to the group; the post stays off the feed.
	resp = doJSON(t, app, "POST", "/api/v1/posts/", tokenB, map[string]any{
		"text_content": "hello group",
		"group_id":     groupID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var groupPost struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &groupPost)

	assert.NotContains(t, feedIDs(t, app, tokenB), groupPost.ID)
	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/groups/%d/posts", groupID), tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var posts []struct {
		TextContent string `json:"text_content"`
	}
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello group", posts[0].TextContent)
}

func TestBanAndUnban(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, idB := registerUser(t, app, "Ben", "ben@example.com")
	groupID := createGroup(t, app, tokenA, "Gophers", "PUBLIC")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Only admins can ban.
	resp = doJSON(t, app, "POST",
		fmt.Sprintf("/api/v1/groups/%d/members/%d/ban", groupID, idB), tokenB, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST",
		fmt.Sprintf("/api/v1/groups/%d/members/%d/ban", groupID, idB), tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Banned users cannot rejoin.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// After an unban the membership is gone and rejoining works.
	resp = doJSON(t, app, "POST",
		fmt.Sprintf("/api/v1/groups/%d/members/%d/unban", groupID, idB), tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/join", groupID), tokenB, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestGroupRulesAndQuestions(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	tokenB, _ := registerUser(t, app, "Ben", "ben@example.com")
	groupID := createGroup(t, app, tokenA, "Gophers", "PUBLIC")

	// Non-admins cannot create rules.
	resp := doJSON(t, app, "POST", "/api/v1/group-rules", tokenB, map[string]any{
		"group_id": groupID,
		"title":    "Be kind",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/v1/group-rules", tokenA, map[string]any{
		"group_id":      groupID,
		"title":         "Be kind",
		"details":       "No flame wars.",
		"display_order": 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var rule struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &rule)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/group-rules?group_id=%d", groupID), tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rules []struct {
		Title string `json:"title"`
	}
	decodeBody(t, resp, &rules)
	require.Len(t, rules, 1)
	assert.Equal(t, "Be kind", rules[0].Title)

	resp = doJSON(t, app, "POST", "/api/v1/membership-questions", tokenA, map[string]any{
		"group_id":      groupID,
		"question_text": "Why do you want to join?",
		"is_required":   true,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/group-rules/%d", rule.ID), tokenA, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestOwnerCannotLeaveOwnGroup(t *testing.T) {
	_, app := newTestServer(t)
	tokenA, _ := registerUser(t, app, "Ada", "ada@example.com")
	groupID := createGroup(t, app, tokenA, "Gophers", "PUBLIC")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/groups/%d/leave", groupID), tokenA, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
