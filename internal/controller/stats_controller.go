package controller

import (
	"github.com/gofiber/fiber/v2"

	"prophunter_backend/internal/stats"
)

// DashboardStats is the payload of the analytics view.
type DashboardStats struct {
	Results  stats.Market        `json:"results"`
	Pipeline stats.Market        `json:"pipeline"`
	Funnel   []stats.StatusCount `json:"funnel"`
}

func GetDashboardStats(c *fiber.Ctx) error {
	_, results := currentResults()
	board := repository.Board()

	return c.JSON(DashboardStats{
		Results:  stats.Compute(results),
		Pipeline: stats.Compute(board.All()),
		Funnel:   stats.Funnel(board.Counts()),
	})
}
