package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/gethome"
)

func GetHomeRouter(router fiber.Router) {
	router.Get("/", getHomeOptions)
}

func getHomeOptions(c *fiber.Ctx) error {
	planner := gethome.GlobalPlanner
	if planner == nil {
		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{
			"error": "Get home planner is not configured",
		})
	}

	latitude := c.QueryFloat("lat", 1000)
	longitude := c.QueryFloat("lon", 1000)

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return sendBadRequest(c, "Parameters lat and lon must be valid coordinates")
	}
	user := ctdf.NewPointLocation(latitude, longitude)

	home := planner.Stations.Get(c.Query("home"))
	if home == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Unknown home station",
		})
	}

	options, err := planner.Options(c.Context(), user, home)
	if err != nil {
		return sendError(c, err)
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: []string{"basic"}}, fiber.Map{
		"home":    home,
		"metro":   planner.IsMetro(user),
		"options": options,
	})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce get home options",
		})
	}

	return c.JSON(reduced)
}
