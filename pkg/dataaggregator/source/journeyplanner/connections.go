package journeyplanner

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/util"
)

const (
	MinimumChangeTime = 5 * time.Minute
	MaximumChangeTime = 60 * time.Minute

	// A departure this far before the earliest usable time is read as tomorrow's
	rolloverThreshold = 12 * time.Hour
)

type DurationTable interface {
	OutboundDuration(origin string, interchange string) time.Duration
	InboundDuration(interchange string, destination string) time.Duration
}

// ConnectionQuery describes one interchange being tried for an origin and destination.
// ArrivalInterchange and DepartureInterchange differ when the change involves a walk.
type ConnectionQuery struct {
	Origin     string
	OriginName string

	Destination     string
	DestinationName string

	ArrivalInterchange     string
	ArrivalInterchangeName string

	DepartureInterchange     string
	DepartureInterchangeName string

	Walk     time.Duration
	BaseDate time.Time
}

type Matcher struct {
	Durations DurationTable
}

// Match pairs every usable arrival with every departure that leaves inside the change window
func (m *Matcher) Match(arrivals []*ctdf.BoardService, departures []*ctdf.BoardService, q ConnectionQuery) []*ctdf.JourneyPlan {
	plans := []*ctdf.JourneyPlan{}

	for _, arrival := range arrivals {
		if arrival.Cancelled() {
			continue
		}

		arrivalTime, ok := util.ParseClockTime(arrival.ArrivalClock(), q.BaseDate)
		if !ok {
			continue
		}
		arrivalTime = rollover(arrivalTime, q.BaseDate)

		earliestDeparture := arrivalTime.Add(q.Walk)

		for _, departure := range departures {
			if departure.Cancelled() {
				continue
			}

			departureTime, ok := util.ParseClockTime(departure.DepartureClock(), q.BaseDate)
			if !ok {
				continue
			}
			departureTime = rollover(departureTime, earliestDeparture)

			if !withinChangeWindow(departureTime.Sub(earliestDeparture)) {
				continue
			}

			plans = append(plans, m.buildJourney(arrival, arrivalTime, departure, departureTime, q))
		}
	}

	return plans
}

func withinChangeWindow(change time.Duration) bool {
	return change >= MinimumChangeTime && change <= MaximumChangeTime
}

func rollover(t time.Time, reference time.Time) time.Time {
	if reference.Sub(t) > rolloverThreshold {
		return t.Add(24 * time.Hour)
	}

	return t
}

func (m *Matcher) buildJourney(arrival *ctdf.BoardService, arrivalTime time.Time, departure *ctdf.BoardService, departureTime time.Time, q ConnectionQuery) *ctdf.JourneyPlan {
	outbound := m.Durations.OutboundDuration(q.Origin, q.ArrivalInterchange)
	inbound := m.Durations.InboundDuration(q.DepartureInterchange, q.Destination)

	arrivalInterchange := ctdf.JourneyPlanLocation{Name: q.ArrivalInterchangeName, Crs: q.ArrivalInterchange}
	departureInterchange := ctdf.JourneyPlanLocation{Name: q.DepartureInterchangeName, Crs: q.DepartureInterchange}

	destinationName := q.DestinationName
	if destinationName == "" {
		destinationName = departure.DestinationName()
	}

	plan := &ctdf.JourneyPlan{
		ID: uuid.NewString(),
	}

	plan.Legs = append(plan.Legs, &ctdf.JourneyPlanLeg{
		ID:                uuid.NewString(),
		Mode:              ctdf.TransportModeTrain,
		Origin:            ctdf.JourneyPlanLocation{Name: q.OriginName, Crs: q.Origin},
		Destination:       arrivalInterchange,
		DepartureTime:     arrivalTime.Add(-outbound),
		ArrivalTime:       arrivalTime,
		Duration:          outbound,
		OperatorName:      arrival.Operator,
		ServiceIdentifier: arrival.ServiceID,
	})

	if q.ArrivalInterchange != q.DepartureInterchange {
		plan.Legs = append(plan.Legs, &ctdf.JourneyPlanLeg{
			ID:            uuid.NewString(),
			Mode:          ctdf.TransportModeWalking,
			Origin:        arrivalInterchange,
			Destination:   departureInterchange,
			DepartureTime: arrivalTime,
			ArrivalTime:   arrivalTime.Add(q.Walk),
			Duration:      q.Walk,
			Instructions:  fmt.Sprintf("Walk between stations (~%d min)", int(math.Round(q.Walk.Minutes()))),
		})
	}

	plan.Legs = append(plan.Legs, &ctdf.JourneyPlanLeg{
		ID:                uuid.NewString(),
		Mode:              ctdf.TransportModeTrain,
		Origin:            departureInterchange,
		Destination:       ctdf.JourneyPlanLocation{Name: destinationName, Crs: q.Destination},
		DepartureTime:     departureTime,
		ArrivalTime:       departureTime.Add(inbound),
		Duration:          inbound,
		OperatorName:      departure.Operator,
		ServiceIdentifier: departure.ServiceID,
		Platform:          departure.Platform,
	})

	plan.Recalculate()

	return plan
}
