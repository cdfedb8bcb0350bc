package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/pkg/response"
)

func mapUpstreamError(t *testing.T, err error) (int, response.Response) {
	t.Helper()
	app := fiber.New()
	app.Get("/data", func(c *fiber.Ctx) error {
		return upstreamError(c, err, "Failed to load data")
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/data", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	body := response.Response{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestUpstreamErrorSurfacesRejectionMessage(t *testing.T) {
	err := fmt.Errorf("failed to fetch reports: %w", &upstream.RejectionError{Message: "Invalid StartDate"})

	status, body := mapUpstreamError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.IsSuccess)
	assert.Equal(t, response.TypeFailure, body.Type)
	require.NotNil(t, body.Message)
	assert.Equal(t, "Invalid StartDate", *body.Message)
}

func TestUpstreamErrorForwardsClientStatusMessage(t *testing.T) {
	err := &upstream.APIError{Status: http.StatusForbidden, Message: "Access denied"}

	status, body := mapUpstreamError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Message)
	assert.Equal(t, "Access denied", *body.Message)
}

func TestUpstreamErrorHidesServerFailures(t *testing.T) {
	err := &upstream.APIError{Status: http.StatusInternalServerError, Message: "sql timeout"}

	status, body := mapUpstreamError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	require.NotNil(t, body.Message)
	assert.Equal(t, "Failed to load data", *body.Message)
}
