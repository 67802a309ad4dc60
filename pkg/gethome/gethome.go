package gethome

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/elastic_client"
	"github.com/travigo/liverail/pkg/interchange"
	"github.com/travigo/liverail/pkg/metrics"
	"github.com/travigo/liverail/pkg/stations"
)

const (
	WalkingMetresPerMinute = 80.0

	DefaultCandidateTimeout = 30 * time.Second
	DefaultBoardRows        = 10
)

var ErrNoRoutesFound = &ctdf.PlanningError{
	Category:   ctdf.PlanningErrorCategoryNoResults,
	Code:       "no_routes",
	Message:    "No trains home found from any nearby station",
	Suggestion: "Try again later or check a different home station",
}

type BoardClient interface {
	DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error)
}

type DirectionsClient interface {
	TransitDirections(ctx context.Context, q query.TransitDirections) (*ctdf.JourneyPlan, error)
}

type Corrector interface {
	Correct(ctx context.Context, plan *ctdf.JourneyPlan) *ctdf.JourneyPlan
}

type GetHomeOption struct {
	ID          string        `groups:"basic"`
	FromStation *ctdf.Station `groups:"basic"`

	Services []*ctdf.BoardService `groups:"basic"`

	WalkDistanceMeters float64 `groups:"basic"`
	WalkTimeMinutes    int     `groups:"basic"`

	TransitJourney           *ctdf.JourneyPlan `groups:"basic"`
	TransitDisruptionMessage string            `groups:"basic"`
}

func (o *GetHomeOption) HasTransitDisruption() bool {
	return o.TransitDisruptionMessage != ""
}

// Planner finds stations the user can board a train home from
type Planner struct {
	Boards     BoardClient
	Directions DirectionsClient
	Corrector  Corrector

	Stations *stations.Directory
	Settings interchange.GetHomeSettings

	Rows             int
	CandidateTimeout time.Duration
}

var GlobalPlanner *Planner

func NewPlanner(boards BoardClient, directory *stations.Directory, settings interchange.GetHomeSettings) *Planner {
	return &Planner{
		Boards:           boards,
		Stations:         directory,
		Settings:         settings,
		Rows:             DefaultBoardRows,
		CandidateTimeout: DefaultCandidateTimeout,
	}
}

func (p *Planner) IsMetro(location *ctdf.Location) bool {
	return p.Settings.MetroBounds.Contains(location)
}

func (p *Planner) candidates(user *ctdf.Location, home *ctdf.Station) []*ctdf.Station {
	if p.IsMetro(user) {
		var termini []*ctdf.Station
		for _, crs := range p.Settings.MetroTermini {
			if crs == home.Crs {
				continue
			}

			station := p.Stations.Get(crs)
			if station == nil {
				log.Warn().Str("crs", crs).Msg("Metro terminus missing from station directory")
				continue
			}
			termini = append(termini, station)
		}

		return termini
	}

	return p.Stations.Nearest(user, p.Settings.NearestStations, home.Crs)
}

func (p *Planner) Options(ctx context.Context, user *ctdf.Location, home *ctdf.Station) ([]*GetHomeOption, error) {
	startTime := time.Now()
	metro := p.IsMetro(user)
	candidates := p.candidates(user, home)

	// One task per candidate, the candidate list is small
	tasks := pool.NewWithResults[*GetHomeOption]()
	for _, candidate := range candidates {
		tasks.Go(func() *GetHomeOption {
			return p.option(ctx, user, home, candidate, metro)
		})
	}

	var options []*GetHomeOption
	for _, option := range tasks.Wait() {
		if option != nil {
			options = append(options, option)
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].WalkDistanceMeters < options[j].WalkDistanceMeters
	})

	elastic_client.IndexGetHomeEvent(&elastic_client.GetHomeEvent{
		Timestamp:  startTime,
		Home:       home.Crs,
		Metro:      metro,
		Candidates: len(candidates),
		Options:    len(options),
		Latency:    time.Since(startTime),
	})

	if len(options) == 0 {
		return nil, ErrNoRoutesFound
	}

	return options, nil
}

func (p *Planner) option(ctx context.Context, user *ctdf.Location, home *ctdf.Station, station *ctdf.Station, metro bool) *GetHomeOption {
	ctx, cancel := context.WithTimeout(ctx, p.candidateTimeout())
	defer cancel()

	board, err := p.Boards.DeparturesBoard(ctx, station.Crs, home.Crs, p.Rows)
	if err != nil {
		metrics.GetHomeCandidates.WithLabelValues("failed").Inc()
		log.Debug().Err(err).Str("station", station.Crs).Msg("Dropping get home candidate")
		return nil
	}

	var services []*ctdf.BoardService
	for _, service := range board.Services {
		if !service.Cancelled() {
			services = append(services, service)
		}
	}
	if len(services) == 0 {
		metrics.GetHomeCandidates.WithLabelValues("empty").Inc()
		return nil
	}
	metrics.GetHomeCandidates.WithLabelValues("usable").Inc()

	distance := user.DistanceTo(station.Location)

	option := &GetHomeOption{
		ID:                 uuid.NewString(),
		FromStation:        station,
		Services:           services,
		WalkDistanceMeters: distance,
		WalkTimeMinutes:    WalkingMinutes(distance),
	}

	if metro && p.Directions != nil {
		p.attachTransit(ctx, option, user)
	}

	return option
}

func (p *Planner) attachTransit(ctx context.Context, option *GetHomeOption, user *ctdf.Location) {
	journey, err := p.Directions.TransitDirections(ctx, query.TransitDirections{
		From:          user,
		To:            option.FromStation,
		StartDateTime: time.Now(),
	})
	if err != nil {
		log.Debug().Err(err).Str("station", option.FromStation.Crs).Msg("Transit directions unavailable")
		return
	}
	if journey == nil {
		return
	}

	if p.Corrector != nil {
		journey = p.Corrector.Correct(ctx, journey)
	}

	option.TransitJourney = journey
	if disruptions := journey.Disruptions(); len(disruptions) > 0 {
		option.TransitDisruptionMessage = disruptions[0]
	}
}

func (p *Planner) candidateTimeout() time.Duration {
	if p.CandidateTimeout <= 0 {
		return DefaultCandidateTimeout
	}

	return p.CandidateTimeout
}

// WalkingMinutes estimates a walk over distance metres, rounded up to the next minute
func WalkingMinutes(distance float64) int {
	return int(math.Ceil(distance / WalkingMetresPerMinute))
}
