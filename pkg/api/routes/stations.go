package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/liverail/pkg/stations"
)

func StationsRouter(router fiber.Router) {
	router.Get("/", searchStations)
	router.Get("/:crs", getStation)
}

func searchStations(c *fiber.Ctx) error {
	search := c.Query("search")
	if search == "" {
		return sendBadRequest(c, "A search filter must be applied to the request")
	}

	if stations.GlobalDirectory == nil {
		return c.JSON([]any{})
	}

	matches := stations.GlobalDirectory.Search(search)
	if matches == nil {
		return c.JSON([]any{})
	}

	return c.JSON(matches)
}

func getStation(c *fiber.Ctx) error {
	if stations.GlobalDirectory != nil {
		if station := stations.GlobalDirectory.Get(c.Params("crs")); station != nil {
			return c.JSON(station)
		}
	}

	c.SendStatus(fiber.StatusNotFound)
	return c.JSON(fiber.Map{
		"error": "Could not find Station matching CRS",
	})
}
