package controller

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"prophunter_backend/internal/export"
	"prophunter_backend/internal/model"
)

type Archiver interface {
	Upload(ctx context.Context, label, contentType string, body []byte) (string, error)
}

var archiver Archiver

func InitExportController(a Archiver) {
	archiver = a
}

// sendCSV writes listings as a CSV attachment. With ?archive=true and an
// archiver configured, a copy is stored and its key returned in a header.
func sendCSV(c *fiber.Ctx, label string, listings []model.Listing) error {
	body := []byte(export.CSV(listings))

	if c.QueryBool("archive") && archiver != nil {
		key, err := archiver.Upload(c.UserContext(), label, export.ContentType, body)
		if err != nil {
			slog.Error("export archive failed", "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Could not archive export",
			})
		}
		c.Set("X-Export-Key", key)
	}

	c.Attachment(export.FileName)
	c.Set(fiber.HeaderContentType, export.ContentType+"; charset=utf-8")
	return c.Send(body)
}
