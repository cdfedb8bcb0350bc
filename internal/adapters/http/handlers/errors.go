package handlers

import (
	"errors"

	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// upstreamError maps an upstream failure onto a response. Rejections that
// carry a backend-provided message, whether an isSuccess=false envelope or a
// client-caused HTTP status, surface that message as a 400; anything else
// hides behind a 502 with the caller's fallback text.
func upstreamError(c *fiber.Ctx, err error, fallback string) error {
	var rejection *upstream.RejectionError
	if errors.As(err, &rejection) {
		return response.BadRequest(c, rejection.Message)
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return response.BadRequest(c, apiErr.Message)
	}
	return response.BadGateway(c, fallback)
}
