package devserver

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectToken    bool
	}{
		{
			name: "valid registration",
			body: map[string]string{
				"display_name": "Ada",
				"email":        "ada@example.com",
				"password":     "password123",
			},
			expectedStatus: fiber.StatusCreated,
			expectToken:    true,
		},
		{
			name: "missing display name",
			body: map[string]string{
				"email":    "no-name@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "missing email",
			body: map[string]string{
				"display_name": "NoEmail",
				"password":     "password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "missing password",
			body: map[string]string{
				"display_name": "NoPassword",
				"email":        "no-password@example.com",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: map[string]string{
				"display_name": "Ada Again",
				"email":        "ada@example.com",
				"password":     "password123",
			},
			expectedStatus: fiber.StatusConflict,
		},
		{
			name: "email is case-insensitive for duplicates",
			body: map[string]string{
				"display_name": "Ada Shouting",
				"email":        "ADA@EXAMPLE.COM",
				"password":     "password123",
			},
			expectedStatus: fiber.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			decodeBody(t, resp, &body)
			if tt.expectToken {
				assert.NotEmpty(t, body["token"])
				assert.NotNil(t, body["user"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "Ada", "ada@example.com")

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"valid credentials", "ada@example.com", "password123", fiber.StatusOK},
		{"uppercase email", "ADA@example.com", "password123", fiber.StatusOK},
		{"wrong password", "ada@example.com", "nope", fiber.StatusUnauthorized},
		{"unknown account", "ghost@example.com", "password123", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			decodeBody(t, resp, &body)
			if tt.expectedStatus == fiber.StatusOK {
				assert.NotEmpty(t, body["token"])
			} else {
				assert.Equal(t, "Invalid credentials", body["error"],
					"rejections must not reveal whether the account exists")
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/v1/users/me", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestMeReturnsAccountWithoutPassword(t *testing.T) {
	_, app := newTestServer(t)
	token, id := registerUser(t, app, "Ada", "ada@example.com")

	resp := doJSON(t, app, "GET", "/api/v1/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.EqualValues(t, id, body["id"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.NotContains(t, body, "password")
}
