package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/api"
	"github.com/travigo/liverail/pkg/dataaggregator"
	"github.com/travigo/liverail/pkg/dataaggregator/global"
	"github.com/travigo/liverail/pkg/elastic_client"
	"github.com/travigo/liverail/pkg/gethome"
	"github.com/travigo/liverail/pkg/redis_client"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	if err := redis_client.Connect(false); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	if err := elastic_client.Connect(false); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Elasticsearch")
	}
	defer elastic_client.WaitUntilQueueEmpty()

	if err := global.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up journey planning")
	}

	app := &cli.App{
		Name:        "liverail",
		Description: "UK rail journey planning with live corrections",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataaggregator.RegisterCLI(),
			gethome.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
