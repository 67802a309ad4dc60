package global

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/dataaggregator"
	"github.com/travigo/liverail/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/liverail/pkg/dataaggregator/source/huxley"
	"github.com/travigo/liverail/pkg/dataaggregator/source/journeyplanner"
	"github.com/travigo/liverail/pkg/dataaggregator/source/tfl"
	"github.com/travigo/liverail/pkg/dataaggregator/source/transportapi"
	"github.com/travigo/liverail/pkg/gethome"
	"github.com/travigo/liverail/pkg/interchange"
	"github.com/travigo/liverail/pkg/realtime/livecorrection"
	"github.com/travigo/liverail/pkg/redis_client"
	"github.com/travigo/liverail/pkg/stations"
	"github.com/travigo/liverail/pkg/util"
)

// Setup builds the shared aggregator and get home planner. Redis and Elasticsearch
// should already be connected, both are optional.
func Setup() error {
	env := util.GetEnvironmentVariables()

	catalog, err := loadCatalog(env["TRAVIGO_INTERCHANGE_CATALOG"])
	if err != nil {
		return err
	}

	directory, err := loadStations(env["TRAVIGO_STATIONS_FILE"])
	if err != nil {
		return err
	}
	stations.GlobalDirectory = directory

	var cache *cachedresults.Cache
	if redis_client.Client != nil {
		cache = &cachedresults.Cache{}
		cache.Setup()
	}

	boards := &cachedresults.BoardFallback{
		Boards: huxley.NewSource(env["TRAVIGO_HUXLEY_ENDPOINT"], env["TRAVIGO_DARWIN_API_TOKEN"]),
		Cache:  cache,
	}

	tflSource := tfl.NewSource(env["TRAVIGO_TFL_APP_ID"], env["TRAVIGO_TFL_API_KEY"])
	corrector := livecorrection.NewEngine(tflSource)

	smartPlanner := journeyplanner.NewSource(boards, catalog)

	dataaggregator.GlobalAggregator = &dataaggregator.Aggregator{
		Credentials: dataaggregator.CredentialsFromEnvironment,
		TransportAPI: func(credentials dataaggregator.Credentials) dataaggregator.JourneySource {
			return transportapi.NewSource(credentials.TransportAPIAppID, credentials.TransportAPIAppKey)
		},
		TfL: func(credentials dataaggregator.Credentials) dataaggregator.JourneySource {
			return tfl.NewSource(credentials.TfLAppID, credentials.TfLAppKey)
		},
		SmartPlanner: smartPlanner,
		Corrector:    corrector,
		Cache:        cache,
	}

	planner := gethome.NewPlanner(boards, directory, catalog.GetHome)
	planner.Directions = tflSource
	planner.Corrector = corrector
	gethome.GlobalPlanner = planner

	log.Info().
		Str("provider", dataaggregator.SelectProvider(dataaggregator.CredentialsFromEnvironment()).String()).
		Bool("cache", cache != nil).
		Int("stations", len(directory.All())).
		Msg("Journey planning configured")

	return nil
}

func loadCatalog(path string) (*interchange.Catalog, error) {
	if path == "" {
		return interchange.Default()
	}

	catalog, err := interchange.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading interchange catalog %s: %w", path, err)
	}

	return catalog, nil
}

func loadStations(path string) (*stations.Directory, error) {
	if path == "" {
		return stations.Default()
	}

	directory, err := stations.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading stations %s: %w", path, err)
	}

	return directory, nil
}
