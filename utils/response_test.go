package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create customer", errors.New("connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Customer not found", body["message"])
	assert.NotContains(t, body, "details")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "connection refused", body["details"])
}

func TestSuccessResponse(t *testing.T) {
	resp := SuccessResponse("payload")
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "payload", resp["data"])
}

func TestPointer(t *testing.T) {
	name := Pointer("Ada")
	require.NotNil(t, name)
	assert.Equal(t, "Ada", *name)

	count := Pointer(42)
	assert.Equal(t, 42, *count)
}
