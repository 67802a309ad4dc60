package gethome

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "get-home",
		Usage: "Find stations to catch a train home from",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:     "lat",
				Usage:    "current latitude",
				Required: true,
			},
			&cli.Float64Flag{
				Name:     "lon",
				Usage:    "current longitude",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "home",
				Usage:    "CRS code of the home station",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if GlobalPlanner == nil {
				return errors.New("get home planner has not been set up")
			}

			home := GlobalPlanner.Stations.Get(c.String("home"))
			if home == nil {
				return fmt.Errorf("unknown home station %s", c.String("home"))
			}

			user := ctdf.NewPointLocation(c.Float64("lat"), c.Float64("lon"))

			options, err := GlobalPlanner.Options(context.Background(), user, home)
			if err != nil {
				return err
			}

			log.Info().Str("home", home.Name).Int("options", len(options)).Msg("Get home options")

			for _, option := range options {
				fmt.Printf("%s  ~%d min walk, %d service(s)\n", option.FromStation.Name, option.WalkTimeMinutes, len(option.Services))

				for _, service := range option.Services {
					fmt.Printf("    %s  %s  platform %s  %s\n", service.ScheduledDeparture, service.DestinationName(), service.Platform, service.Status())
				}

				if option.HasTransitDisruption() {
					fmt.Printf("    ! %s\n", option.TransitDisruptionMessage)
				}
			}

			return nil
		},
	}
}
