package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/liverail/pkg/api/routes"
	"github.com/travigo/liverail/pkg/metrics"
)

func NewApp() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(metrics.Middleware())

	webApp.Get("/metrics", metrics.Handler())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.PlannerRouter(group.Group("/planner"))
	routes.GetHomeRouter(group.Group("/gethome"))
	routes.StationsRouter(group.Group("/stations"))

	return webApp
}

func SetupServer(listen string) error {
	return NewApp().Listen(listen)
}
