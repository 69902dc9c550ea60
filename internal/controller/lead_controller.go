package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"prophunter_backend/internal/leadsync"
	"prophunter_backend/internal/model"
	"prophunter_backend/internal/pipeline"
)

var repository *leadsync.Repository

func InitLeadController(r *leadsync.Repository) {
	repository = r
}

type statusInput struct {
	Status string `json:"status"`
}

// GetLeads lists the pipeline, or one column with ?status=.
func GetLeads(c *fiber.Ctx) error {
	board := repository.Board()

	if s := c.Query("status"); s != "" {
		status, err := model.ParseLeadStatus(s)
		if err != nil {
			return invalidStatus(c)
		}
		leads := board.ListByStatus(status)
		return c.JSON(fiber.Map{
			"status": status,
			"leads":  leads,
			"count":  len(leads),
		})
	}

	columns := make([]fiber.Map, 0, len(model.LeadStatuses))
	for _, s := range model.LeadStatuses {
		leads := board.ListByStatus(s)
		columns = append(columns, fiber.Map{
			"status": s,
			"leads":  leads,
			"count":  len(leads),
		})
	}
	return c.JSON(fiber.Map{
		"columns": columns,
		"count":   board.Len(),
	})
}

type promoteInput struct {
	ID string `json:"id"`
}

// CreateLead promotes a listing from the current search results. Only
// listings produced by a search can enter the pipeline.
func CreateLead(c *fiber.Ctx) error {
	input := new(promoteInput)
	if err := c.BodyParser(input); err != nil || input.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	listing, ok := findResult(input.ID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found in current results",
		})
	}

	res, err := repository.Apply(c.UserContext(), leadsync.AddLead{Listing: listing})
	if err != nil {
		return applyError(c, err, res)
	}

	status := fiber.StatusOK
	if res.Changed {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(res)
}

func UpdateLeadStatus(c *fiber.Ctx) error {
	input := new(statusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	status, err := model.ParseLeadStatus(input.Status)
	if err != nil {
		return invalidStatus(c)
	}

	res, err := repository.Apply(c.UserContext(), leadsync.UpdateStatus{ID: c.Params("id"), Status: status})
	if err != nil {
		return applyError(c, err, res)
	}
	return c.JSON(res)
}

func DeleteLead(c *fiber.Ctx) error {
	res, err := repository.Apply(c.UserContext(), leadsync.DeleteLead{ID: c.Params("id")})
	if err != nil {
		return applyError(c, err, res)
	}
	return c.JSON(res)
}

func ResyncLeads(c *fiber.Ctx) error {
	if err := repository.Resync(c.UserContext()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not reload leads",
		})
	}
	return c.JSON(fiber.Map{
		"count": repository.Board().Len(),
	})
}

func ExportLeads(c *fiber.Ctx) error {
	return sendCSV(c, "pipeline", repository.Board().All())
}

func applyError(c *fiber.Ctx, err error, res leadsync.Result) error {
	switch {
	case errors.Is(err, leadsync.ErrPersistence):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    "Could not save lead, changes were not kept",
			"recovery": res.Recovery,
		})
	case errors.Is(err, pipeline.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, model.ErrInvalidStatus):
		return invalidStatus(c)
	case errors.Is(err, model.ErrMissingField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return err
}

func invalidStatus(c *fiber.Ctx) error {
	valid := make([]string, 0, len(model.LeadStatuses))
	for _, s := range model.LeadStatuses {
		valid = append(valid, string(s))
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":          "Invalid status value",
		"valid_statuses": valid,
	})
}
