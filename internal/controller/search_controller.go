package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"

	"prophunter_backend/internal/model"
	"prophunter_backend/internal/search"
)

type Searcher interface {
	Search(ctx context.Context, filters model.FilterState) ([]model.Listing, error)
}

var (
	searcher Searcher

	resultsMu   sync.RWMutex
	lastResults = []model.Listing{}
	lastFilters model.FilterState
)

func InitSearchController(s Searcher) {
	searcher = s
	setResults(model.FilterState{}, []model.Listing{})
}

func setResults(f model.FilterState, listings []model.Listing) {
	resultsMu.Lock()
	defer resultsMu.Unlock()
	lastFilters = f
	lastResults = listings
}

// currentResults returns a copy of the last search result set.
func currentResults() (model.FilterState, []model.Listing) {
	resultsMu.RLock()
	defer resultsMu.RUnlock()
	out := make([]model.Listing, len(lastResults))
	copy(out, lastResults)
	return lastFilters, out
}

func findResult(id string) (model.Listing, bool) {
	resultsMu.RLock()
	defer resultsMu.RUnlock()
	for _, l := range lastResults {
		if l.ID == id {
			return l, true
		}
	}
	return model.Listing{}, false
}

// StartSearch runs a search and replaces the current result set. A failed
// search keeps the previous results.
func StartSearch(c *fiber.Ctx) error {
	var filters model.FilterState
	if err := c.BodyParser(&filters); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	filters = filters.Normalize()

	listings, err := searcher.Search(c.UserContext(), filters)
	switch {
	case errors.Is(err, model.ErrInvalidFilter):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, search.ErrSearchFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Search provider failed, try again",
		})
	case err != nil:
		return err
	}

	setResults(filters, listings)
	return c.JSON(fiber.Map{
		"listings": withPipelineFlag(listings),
		"count":    len(listings),
	})
}

func GetListings(c *fiber.Ctx) error {
	filters, listings := currentResults()
	return c.JSON(fiber.Map{
		"filters":  filters,
		"listings": withPipelineFlag(listings),
		"count":    len(listings),
	})
}

func ExportListings(c *fiber.Ctx) error {
	filters, listings := currentResults()
	label := "resultados " + filters.City
	return sendCSV(c, label, listings)
}

type listingView struct {
	model.Listing
	Saved bool `json:"saved"`
}

// withPipelineFlag marks results that are already leads.
func withPipelineFlag(listings []model.Listing) []listingView {
	out := make([]listingView, 0, len(listings))
	for _, l := range listings {
		saved := repository != nil && repository.Board().Has(l.ID)
		out = append(out, listingView{Listing: l, Saved: saved})
	}
	return out
}
