package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/liverail/pkg/dataaggregator"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/util"
)

func PlannerRouter(router fiber.Router) {
	router.Get("/:origin/:destination", getPlanBetweenStations)
}

func getPlanBetweenStations(c *fiber.Ctx) error {
	if dataaggregator.GlobalAggregator == nil {
		return sendError(c, dataaggregator.ErrNoProviderConfigured)
	}

	origin := util.NormaliseCrs(c.Params("origin"))
	destination := util.NormaliseCrs(c.Params("destination"))
	if origin == destination {
		return sendBadRequest(c, "Origin and destination must be different stations")
	}

	var startDateTime time.Time
	if startDateTimeString := c.Query("datetime"); startDateTimeString != "" {
		var err error
		startDateTime, err = time.Parse(time.RFC3339, startDateTimeString)
		if err != nil {
			return sendBadRequest(c, "Parameter datetime should be an RFC3339/ISO8601 datetime")
		}
	}

	results, err := dataaggregator.GlobalAggregator.PlanJourney(c.Context(), query.JourneyPlan{
		Origin:          origin,
		OriginName:      c.Query("originName"),
		Destination:     destination,
		DestinationName: c.Query("destinationName"),
		StartDateTime:   startDateTime,
	})
	if err != nil {
		return sendError(c, err)
	}

	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: groups}, results)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce journey plans",
		})
	}

	return c.JSON(reduced)
}
