package dataaggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
	"github.com/travigo/liverail/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/liverail/pkg/elastic_client"
	"github.com/travigo/liverail/pkg/metrics"
)

var ErrNoJourneysFound = &ctdf.PlanningError{
	Category:   ctdf.PlanningErrorCategoryNoResults,
	Code:       "no_journeys",
	Message:    "No routes found for this journey",
	Suggestion: "Try a different departure time or check the station codes",
}

// Aggregator routes journey planning to whichever provider the current credentials select
type Aggregator struct {
	Credentials func() Credentials

	TransportAPI func(Credentials) JourneySource
	TfL          func(Credentials) JourneySource
	SmartPlanner JourneySource

	Corrector Corrector
	Cache     *cachedresults.Cache

	Now func() time.Time
}

var GlobalAggregator *Aggregator

func (a *Aggregator) source(provider Provider, credentials Credentials) (JourneySource, error) {
	switch provider {
	case ProviderTransportAPI:
		return a.TransportAPI(credentials), nil
	case ProviderTfL:
		return a.TfL(credentials), nil
	case ProviderSmartPlanner:
		if a.SmartPlanner == nil {
			return nil, ErrSmartPlannerNotConfigured
		}
		return a.SmartPlanner, nil
	case ProviderNone:
		return nil, ErrNoProviderConfigured
	default:
		return nil, fmt.Errorf("unknown provider %d", provider)
	}
}

func (a *Aggregator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}

	return a.Now()
}

func (a *Aggregator) PlanJourney(ctx context.Context, q query.JourneyPlan) (*ctdf.JourneyPlanResults, error) {
	startTime := time.Now()

	credentials := CredentialsFromEnvironment()
	if a.Credentials != nil {
		credentials = a.Credentials()
	}

	provider := SelectProvider(credentials)

	journeySource, err := a.source(provider, credentials)
	if err != nil {
		metrics.JourneyPlans.WithLabelValues(provider.String(), "configuration").Inc()
		return nil, err
	}

	if q.StartDateTime.IsZero() {
		q.StartDateTime = a.now()
	}

	log.Debug().
		Str("provider", journeySource.GetName()).
		Str("origin", q.Origin).
		Str("destination", q.Destination).
		Time("datetime", q.StartDateTime).
		Msg("Planning journey")

	results, err := a.plan(ctx, provider, journeySource, q)

	event := &elastic_client.JourneyPlanEvent{
		Timestamp:   startTime,
		Origin:      q.Origin,
		Destination: q.Destination,
		Provider:    provider.String(),
		Latency:     time.Since(startTime),
	}

	if err != nil {
		event.Outcome = outcome(err)
	} else {
		event.Outcome = "success"
		event.Results = len(results.JourneyPlans)
		event.FromCache = results.FromCache
		if len(results.JourneyPlans) > 0 {
			event.ShortestDuration = results.JourneyPlans[0].Duration
		}
	}

	metrics.JourneyPlans.WithLabelValues(provider.String(), event.Outcome).Inc()
	elastic_client.IndexJourneyPlanEvent(event)

	return results, err
}

func (a *Aggregator) plan(ctx context.Context, provider Provider, journeySource JourneySource, q query.JourneyPlan) (*ctdf.JourneyPlanResults, error) {
	cacheKey := cachedresults.JourneyKey(q.Origin, q.Destination, q.StartDateTime)

	plans, err := journeySource.JourneyPlanQuery(ctx, q)
	if err == nil && len(plans) == 0 {
		err = ErrNoJourneysFound
	}

	if err != nil {
		if a.Cache != nil && source.IsCacheRecoverable(err) {
			var cached ctdf.JourneyPlanResults
			if lookup, ok := a.Cache.Get(ctx, cacheKey, &cached, cachedresults.JourneyFreshness); ok {
				log.Warn().Err(err).Str("key", cacheKey).Time("fetched", lookup.FetchedAt).Msg("Serving cached journeys after planning failure")

				cached.FromCache = true
				cached.Stale = lookup.Stale
				cached.FetchedAt = lookup.FetchedAt

				return &cached, nil
			}
		}

		return nil, fmt.Errorf("%s: %w", journeySource.GetName(), err)
	}

	if provider == ProviderTfL && a.Corrector != nil {
		plans = a.Corrector.CorrectAll(ctx, plans)
	}

	results := &ctdf.JourneyPlanResults{
		JourneyPlans: plans,
		Provider:     journeySource.GetName(),
		FetchedAt:    a.now(),
	}

	if a.Cache != nil {
		if err := a.Cache.Put(ctx, cacheKey, results, cachedresults.JourneyFreshness); err != nil {
			log.Error().Err(err).Str("key", cacheKey).Msg("Failed to cache journeys")
		}
	}

	return results, nil
}

func outcome(err error) string {
	var planningError *ctdf.PlanningError
	if errors.As(err, &planningError) {
		return planningError.Code
	}

	return "error"
}
