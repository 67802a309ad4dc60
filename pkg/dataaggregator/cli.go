package dataaggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "planner",
		Usage: "Plan rail journeys with the configured provider",
		Subcommands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "plan a journey between two stations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "origin",
						Usage:    "CRS code of the origin station",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "destination",
						Usage:    "CRS code of the destination station",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "datetime",
						Usage: "departure time in RFC3339, defaults to now",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "dump the full results",
					},
				},
				Action: func(c *cli.Context) error {
					if GlobalAggregator == nil {
						return errors.New("journey planning has not been set up")
					}

					q := query.JourneyPlan{
						Origin:      util.NormaliseCrs(c.String("origin")),
						Destination: util.NormaliseCrs(c.String("destination")),
					}

					if datetime := c.String("datetime"); datetime != "" {
						startDateTime, err := time.Parse(time.RFC3339, datetime)
						if err != nil {
							return fmt.Errorf("parsing datetime: %w", err)
						}
						q.StartDateTime = startDateTime
					}

					results, err := GlobalAggregator.PlanJourney(context.Background(), q)
					if err != nil {
						var planningError *ctdf.PlanningError
						if errors.As(err, &planningError) && planningError.Suggestion != "" {
							log.Info().Msg(planningError.Suggestion)
						}
						return err
					}

					if c.Bool("debug") {
						pretty.Println(results)
						return nil
					}

					printResults(results)

					return nil
				},
			},
		},
	}
}

func printResults(results *ctdf.JourneyPlanResults) {
	log.Info().
		Str("provider", results.Provider).
		Bool("cached", results.FromCache).
		Bool("stale", results.Stale).
		Int("journeys", len(results.JourneyPlans)).
		Msg("Journey plan results")

	london := util.LondonTimezone()

	for _, plan := range results.JourneyPlans {
		fmt.Printf("%s -> %s  %s, %d change(s)\n",
			plan.StartTime.In(london).Format("15:04"),
			plan.ArrivalTime.In(london).Format("15:04"),
			ctdf.FormatDuration(plan.Duration),
			plan.NumberOfChanges(),
		)

		for _, leg := range plan.Legs {
			fmt.Printf("    %s %s  %s -> %s  %s\n",
				leg.DepartureTime.In(london).Format("15:04"),
				leg.Mode,
				leg.Origin.Name,
				leg.Destination.Name,
				leg.OperatorName,
			)
			if leg.Disruption != "" {
				fmt.Printf("        ! %s\n", leg.Disruption)
			}
		}
	}
}
