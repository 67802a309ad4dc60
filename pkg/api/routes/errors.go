package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
)

func planningErrorStatus(planningError *ctdf.PlanningError) int {
	switch planningError.Category {
	case ctdf.PlanningErrorCategoryConfiguration:
		return fiber.StatusServiceUnavailable
	case ctdf.PlanningErrorCategoryNoResults:
		return fiber.StatusNotFound
	case ctdf.PlanningErrorCategoryUpstream:
		if errors.Is(planningError, source.ErrQuotaExceeded) {
			return fiber.StatusTooManyRequests
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	var planningError *ctdf.PlanningError
	if !errors.As(err, &planningError) {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(planningErrorStatus(planningError))
	return c.JSON(fiber.Map{
		"error":      planningError.Message,
		"code":       planningError.Code,
		"category":   planningError.Category,
		"suggestion": planningError.Suggestion,
	})
}

func sendBadRequest(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}
