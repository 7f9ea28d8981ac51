package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const statusSuccess = "success"

// respondError maps err onto its HTTP status and writes {"error": ...}.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(models.ErrorResponse{Error: err.Error()})
}

// Preflight answers OPTIONS with permissive CORS headers and an empty body.
func Preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, X-File-Name, x-ms-file-name")
	c.Status(fiber.StatusOK)
	return nil
}

// decodeJSONBody ignores Content-Type; clients of these routes do not always set it.
func decodeJSONBody(c *fiber.Ctx, out any) error {
	return c.App().Config().JSONDecoder(c.Body(), out)
}
