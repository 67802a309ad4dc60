package livecorrection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/metrics"
)

const DefaultMinimumTransfer = 180 * time.Second

var directionKeywords = []string{"northbound", "southbound", "eastbound", "westbound", "inner", "outer"}

type ArrivalsClient interface {
	StopArrivals(ctx context.Context, stopID string) ([]*ctdf.ArrivalPrediction, error)
}

// Engine replaces timetable departures that leave before the previous leg arrives
// with the next live prediction for the same line at the same stop.
type Engine struct {
	Arrivals ArrivalsClient

	MinimumTransfer time.Duration
	MaxConcurrency  int
}

func NewEngine(arrivals ArrivalsClient) *Engine {
	return &Engine{
		Arrivals:        arrivals,
		MinimumTransfer: DefaultMinimumTransfer,
		MaxConcurrency:  5,
	}
}

type classification interface {
	isClassification()
}

type serviceFound struct {
	departure time.Time
}

type noService struct{}

type serviceUnknown struct{}

func (serviceFound) isClassification()   {}
func (noService) isClassification()      {}
func (serviceUnknown) isClassification() {}

// Correct returns a corrected copy of plan. The original is never modified.
func (e *Engine) Correct(ctx context.Context, plan *ctdf.JourneyPlan) *ctdf.JourneyPlan {
	if plan == nil {
		return nil
	}

	corrected := copyJourneyPlan(plan)

	for i := 1; i < len(corrected.Legs); i++ {
		previous := corrected.Legs[i-1]
		leg := corrected.Legs[i]

		if !leg.DepartureTime.Before(previous.ArrivalTime) {
			continue
		}

		minimumTransfer := previous.ArrivalTime.Add(e.minimumTransfer())
		departure := minimumTransfer

		switch result := e.classify(ctx, leg, previous.ArrivalTime).(type) {
		case serviceFound:
			metrics.LiveCorrections.WithLabelValues("found").Inc()
			departure = result.departure
		case noService:
			metrics.LiveCorrections.WithLabelValues("no_service").Inc()
			leg.Disruption = fmt.Sprintf("No live %s service found at %s. The line may be suspended.", lineName(leg), leg.Origin.Name)
		case serviceUnknown:
			metrics.LiveCorrections.WithLabelValues("unknown").Inc()
		}

		log.Debug().
			Str("leg", leg.ID).
			Time("timetabled", leg.DepartureTime).
			Time("corrected", departure).
			Msg("Corrected leg departure")

		leg.DepartureTime = departure
		leg.ArrivalTime = departure.Add(leg.Duration)
	}

	corrected.Recalculate()

	return corrected
}

// CorrectAll corrects each plan independently, keeping their order
func (e *Engine) CorrectAll(ctx context.Context, plans []*ctdf.JourneyPlan) []*ctdf.JourneyPlan {
	corrected := make([]*ctdf.JourneyPlan, len(plans))

	p := pool.New().WithMaxGoroutines(max(e.MaxConcurrency, 1))
	for i, plan := range plans {
		p.Go(func() {
			corrected[i] = e.Correct(ctx, plan)
		})
	}
	p.Wait()

	return corrected
}

func (e *Engine) minimumTransfer() time.Duration {
	if e.MinimumTransfer <= 0 {
		return DefaultMinimumTransfer
	}

	return e.MinimumTransfer
}

func (e *Engine) classify(ctx context.Context, leg *ctdf.JourneyPlanLeg, previousArrival time.Time) classification {
	if e.Arrivals == nil || leg.Origin.StopID == "" || leg.LineID == "" {
		return serviceUnknown{}
	}

	predictions, err := e.Arrivals.StopArrivals(ctx, leg.Origin.StopID)
	if err != nil {
		log.Debug().Err(err).Str("stop", leg.Origin.StopID).Msg("Live arrivals unavailable")
		return serviceUnknown{}
	}
	if len(predictions) == 0 {
		return serviceUnknown{}
	}

	legDirection := directionKeyword(leg.Platform)

	var lineFound bool
	var earliest time.Time

	for _, prediction := range predictions {
		if !strings.EqualFold(prediction.LineID, leg.LineID) {
			continue
		}
		lineFound = true

		predictionDirection := directionKeyword(prediction.PlatformName + " " + prediction.Direction)
		if legDirection != "" && predictionDirection != "" && legDirection != predictionDirection {
			continue
		}

		if !prediction.ExpectedArrival.After(previousArrival) {
			continue
		}

		if earliest.IsZero() || prediction.ExpectedArrival.Before(earliest) {
			earliest = prediction.ExpectedArrival
		}
	}

	switch {
	case !earliest.IsZero():
		return serviceFound{departure: earliest}
	case !lineFound:
		return noService{}
	default:
		return serviceUnknown{}
	}
}

func directionKeyword(text string) string {
	text = strings.ToLower(text)

	for _, keyword := range directionKeywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}

	return ""
}

func lineName(leg *ctdf.JourneyPlanLeg) string {
	if leg.OperatorName != "" {
		return leg.OperatorName
	}

	return leg.LineID
}

func copyJourneyPlan(plan *ctdf.JourneyPlan) *ctdf.JourneyPlan {
	var corrected ctdf.JourneyPlan
	if err := copier.Copy(&corrected, plan); err != nil {
		log.Error().Err(err).Str("plan", plan.ID).Msg("Failed to copy journey plan")
		corrected = *plan
	}

	corrected.Legs = make([]*ctdf.JourneyPlanLeg, len(plan.Legs))
	for i, leg := range plan.Legs {
		var copiedLeg ctdf.JourneyPlanLeg
		if err := copier.Copy(&copiedLeg, leg); err != nil {
			copiedLeg = *leg
		}
		corrected.Legs[i] = &copiedLeg
	}

	return &corrected
}
