package journeyplanner

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/interchange"
	"github.com/travigo/liverail/pkg/metrics"
	"github.com/travigo/liverail/pkg/util"
)

const (
	DefaultMaxResults = 5
	DefaultBoardRows  = 20
)

var (
	ErrNoInterchangesFound = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryNoResults,
		Code:       "no_interchanges",
		Message:    "No interchange stations are known for this route",
		Suggestion: "Look for a direct train, this origin is normally served without changing",
	}
	ErrNoConnectionsFound = &ctdf.PlanningError{
		Category:   ctdf.PlanningErrorCategoryNoResults,
		Code:       "no_connections",
		Message:    "No connecting trains found",
		Suggestion: "Try a later departure time, or configure a journey planning API for wider coverage",
	}
)

type BoardClient interface {
	ArrivalsBoard(ctx context.Context, station string, fromOrigin string, rows int) (*ctdf.Board, error)
	DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error)
}

// Source builds two leg journeys out of independent arrival and departure boards
type Source struct {
	Boards  BoardClient
	Catalog *interchange.Catalog
	Matcher *Matcher

	Rows           int
	MaxResults     int
	MaxConcurrency int
}

func NewSource(boards BoardClient, catalog *interchange.Catalog) *Source {
	return &Source{
		Boards:  boards,
		Catalog: catalog,
		Matcher: &Matcher{Durations: catalog},

		Rows:           DefaultBoardRows,
		MaxResults:     DefaultMaxResults,
		MaxConcurrency: 10,
	}
}

func (s *Source) GetName() string {
	return "Smart Journey Planner"
}

type interchangeOutcome interface {
	isInterchangeOutcome()
}

type interchangeJourneys struct {
	plans []*ctdf.JourneyPlan
}

type interchangeEmpty struct{}

type interchangeFailed struct {
	err error
}

func (interchangeJourneys) isInterchangeOutcome() {}
func (interchangeEmpty) isInterchangeOutcome()    {}
func (interchangeFailed) isInterchangeOutcome()   {}

type interchangeResult struct {
	index       int
	interchange string
	outcome     interchangeOutcome
}

func (s *Source) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) ([]*ctdf.JourneyPlan, error) {
	candidates := s.Catalog.Interchanges(q.Origin, q.Destination)
	if len(candidates) == 0 {
		return nil, ErrNoInterchangesFound
	}

	if q.StartDateTime.IsZero() {
		q.StartDateTime = time.Now()
	}
	q.StartDateTime = q.StartDateTime.In(util.LondonTimezone())

	p := pool.NewWithResults[interchangeResult]().WithMaxGoroutines(s.MaxConcurrency)
	for i, candidate := range candidates {
		p.Go(func() interchangeResult {
			return interchangeResult{
				index:       i,
				interchange: candidate,
				outcome:     s.searchInterchange(ctx, q, candidate),
			}
		})
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	var plans []*ctdf.JourneyPlan
	for _, result := range results {
		switch outcome := result.outcome.(type) {
		case interchangeJourneys:
			metrics.InterchangeOutcomes.WithLabelValues("journeys").Inc()
			plans = append(plans, outcome.plans...)
		case interchangeEmpty:
			metrics.InterchangeOutcomes.WithLabelValues("empty").Inc()
			log.Debug().Str("interchange", result.interchange).Msg("No connections at interchange")
		case interchangeFailed:
			metrics.InterchangeOutcomes.WithLabelValues("failed").Inc()
			log.Debug().Err(outcome.err).Str("interchange", result.interchange).Msg("Interchange search failed")
		}
	}

	if len(plans) == 0 {
		return nil, ErrNoConnectionsFound
	}

	return RankJourneys(plans, s.MaxResults), nil
}

func (s *Source) searchInterchange(ctx context.Context, q query.JourneyPlan, arrivalInterchange string) interchangeOutcome {
	departureStation := s.Catalog.DepartureStation(arrivalInterchange)

	var arrivals, departures *ctdf.Board

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		board, err := s.Boards.ArrivalsBoard(ctx, arrivalInterchange, q.Origin, s.Rows)
		arrivals = board
		return err
	})
	p.Go(func(ctx context.Context) error {
		board, err := s.Boards.DeparturesBoard(ctx, departureStation.Station, q.Destination, s.Rows)
		departures = board
		return err
	})

	if err := p.Wait(); err != nil {
		return interchangeFailed{err: err}
	}

	plans := s.Matcher.Match(arrivals.Services, departures.Services, ConnectionQuery{
		Origin:     q.Origin,
		OriginName: firstNonEmpty(q.OriginName, arrivals.FilterLocationName, q.Origin),

		Destination:     q.Destination,
		DestinationName: firstNonEmpty(q.DestinationName, departures.FilterLocationName, q.Destination),

		ArrivalInterchange:     arrivalInterchange,
		ArrivalInterchangeName: firstNonEmpty(arrivals.LocationName, arrivalInterchange),

		DepartureInterchange:     departureStation.Station,
		DepartureInterchangeName: firstNonEmpty(departures.LocationName, departureStation.Station),

		Walk:     departureStation.Walk,
		BaseDate: q.StartDateTime,
	})

	if len(plans) == 0 {
		return interchangeEmpty{}
	}

	return interchangeJourneys{plans: plans}
}

// RankJourneys drops journeys riding the same services, then keeps the fastest limit
func RankJourneys(plans []*ctdf.JourneyPlan, limit int) []*ctdf.JourneyPlan {
	seen := map[string]bool{}
	unique := []*ctdf.JourneyPlan{}

	for _, plan := range plans {
		key := plan.ServiceKey()
		if seen[key] {
			continue
		}

		seen[key] = true
		unique = append(unique, plan)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Duration < unique[j].Duration
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}

	return unique
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
