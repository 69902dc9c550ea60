package controller

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"prophunter_backend/pkg/utils/jwt"
)

type TokenInput struct {
	AccessKey string `json:"access_key"`
}

var (
	jwtSecret     []byte
	accessKeyHash []byte
	tokenTTL      time.Duration
)

func InitAuthController(secret, keyHash string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	accessKeyHash = []byte(keyHash)
	tokenTTL = ttl
}

// IssueToken exchanges the dashboard access key for a bearer token.
func IssueToken(c *fiber.Ctx) error {
	if len(jwtSecret) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Authentication is disabled",
		})
	}

	input := new(TokenInput)
	if err := c.BodyParser(input); err != nil || input.AccessKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := bcrypt.CompareHashAndPassword(accessKeyHash, []byte(input.AccessKey)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid access key",
		})
	}

	token, err := jwt.GenerateToken(jwtSecret, "dashboard", tokenTTL)
	if err != nil {
		slog.Error("could not sign token", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_in": int(tokenTTL.Seconds()),
	})
}
