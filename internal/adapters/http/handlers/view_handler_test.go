package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
)

func TestGetViewsReportsViewingState(t *testing.T) {
	authz := services.NewAuthzService()
	views := services.NewViewService(authz)
	h := NewViewHandler(authz, views)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsIdentity, &domain.Identity{ID: 1, Username: "root", Role: domain.RoleAdmin})
		c.Locals(middleware.LocalsSessionID, "sid-1")
		return c.Next()
	})
	app.Get("/views", h.GetViews)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/views", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	payload := struct {
		Data ViewState `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, domain.StateViewing, payload.Data.State)
	assert.Equal(t, domain.ViewDashboard, payload.Data.CurrentView)
	assert.Equal(t, domain.ViewDashboard, payload.Data.DefaultView)
	assert.Contains(t, payload.Data.AllowedViews, domain.ViewCompanies)
}
