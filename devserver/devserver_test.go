package devserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mingle/config"
	"mingle/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer creates a server over a fresh in-memory SQLite database.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "test-secret-key",
		DBDriver:       "sqlite",
		AllowedOrigins: "*",
	}
	s := NewServerWithDB(cfg, db)
	return s, s.App()
}

// doJSON issues a request against the test app with an optional bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser creates an account and returns its token and user id.
func registerUser(t *testing.T, app *fiber.App, name, email string) (string, uint) {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"display_name": name,
		"email":        email,
		"password":     "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	require.NotZero(t, body.User.ID)
	return body.Token, body.User.ID
}

// createPost publishes a post and returns its id.
func createPost(t *testing.T, app *fiber.App, token, text, privacy string) uint {
	t.Helper()

	payload := map[string]any{"text_content": text}
	if privacy != "" {
		payload["privacy_setting"] = privacy
	}
	resp := doJSON(t, app, "POST", "/api/v1/posts/", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &post)
	require.NotZero(t, post.ID)
	return post.ID
}

// befriend establishes an accepted friendship between two users.
func befriend(t *testing.T, app *fiber.App, tokenA string, idA uint, tokenB string, idB uint) {
	t.Helper()

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/friends/%d", idB), tokenA, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/friends/%d/accept", idA), tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
