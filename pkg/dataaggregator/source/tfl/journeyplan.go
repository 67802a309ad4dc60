package tfl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/util"
)

const transitModes = "tube,dlr,overground,elizabeth-line,tram,bus,walking"

// JourneyPlanQuery plans national rail journeys between two CRS codes
func (s *Source) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) ([]*ctdf.JourneyPlan, error) {
	startDateTime := q.StartDateTime.In(util.LondonTimezone())

	params := url.Values{}
	params.Set("mode", "national-rail")
	params.Set("time", startDateTime.Format("1504"))
	params.Set("date", startDateTime.Format("20060102"))
	params.Set("timeIs", "Departing")

	var results tflJourneyResults
	path := fmt.Sprintf("/Journey/JourneyResults/%s/to/%s", url.PathEscape(q.Origin), url.PathEscape(q.Destination))
	if err := s.get(ctx, path, params, &results); err != nil {
		return nil, err
	}

	return results.toCTDF(), nil
}

// TransitDirections plans a local transit journey from a coordinate to a station
func (s *Source) TransitDirections(ctx context.Context, q query.TransitDirections) (*ctdf.JourneyPlan, error) {
	if !q.From.Valid() || q.To == nil || !q.To.Location.Valid() {
		return nil, fmt.Errorf("transit directions need coordinates for both ends")
	}

	startDateTime := q.StartDateTime
	if startDateTime.IsZero() {
		startDateTime = time.Now()
	}
	startDateTime = startDateTime.In(util.LondonTimezone())

	params := url.Values{}
	params.Set("mode", transitModes)
	params.Set("time", startDateTime.Format("1504"))
	params.Set("date", startDateTime.Format("20060102"))
	params.Set("timeIs", "Departing")

	from := fmt.Sprintf("%f,%f", q.From.Latitude(), q.From.Longitude())
	to := fmt.Sprintf("%f,%f", q.To.Location.Latitude(), q.To.Location.Longitude())

	var results tflJourneyResults
	if err := s.get(ctx, fmt.Sprintf("/Journey/JourneyResults/%s/to/%s", from, to), params, &results); err != nil {
		return nil, err
	}

	plans := results.toCTDF()
	if len(plans) == 0 {
		return nil, nil
	}

	return plans[0], nil
}

type tflJourneyResults struct {
	Journeys []tflJourney `json:"journeys"`
}

type tflJourney struct {
	StartDateTime   string   `json:"startDateTime"`
	ArrivalDateTime string   `json:"arrivalDateTime"`
	Duration        int      `json:"duration"`
	Legs            []tflLeg `json:"legs"`
}

type tflPoint struct {
	NaptanID     string  `json:"naptanId"`
	CommonName   string  `json:"commonName"`
	PlatformName string  `json:"platformName"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

type tflLeg struct {
	Duration      int    `json:"duration"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`

	Instruction struct {
		Summary  string `json:"summary"`
		Detailed string `json:"detailed"`
	} `json:"instruction"`

	Mode struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"mode"`

	DeparturePoint tflPoint `json:"departurePoint"`
	ArrivalPoint   tflPoint `json:"arrivalPoint"`

	Path struct {
		StopPoints []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"stopPoints"`
	} `json:"path"`

	RouteOptions []struct {
		Name           string   `json:"name"`
		Directions     []string `json:"directions"`
		LineIdentifier struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"lineIdentifier"`
	} `json:"routeOptions"`

	IsDisrupted bool `json:"isDisrupted"`
	Disruptions []struct {
		Description string `json:"description"`
	} `json:"disruptions"`
}

func (r *tflJourneyResults) toCTDF() []*ctdf.JourneyPlan {
	plans := []*ctdf.JourneyPlan{}

	for _, journey := range r.Journeys {
		plan := &ctdf.JourneyPlan{
			ID: uuid.NewString(),
		}

		for _, leg := range journey.Legs {
			if converted := leg.toCTDF(); converted != nil {
				plan.Legs = append(plan.Legs, converted)
			}
		}

		if len(plan.Legs) == 0 {
			continue
		}

		plan.Recalculate()
		plans = append(plans, plan)
	}

	return plans
}

func (l *tflLeg) toCTDF() *ctdf.JourneyPlanLeg {
	departureTime, err := parseTflTime(l.DepartureTime)
	if err != nil {
		return nil
	}
	arrivalTime, err := parseTflTime(l.ArrivalTime)
	if err != nil {
		return nil
	}

	leg := &ctdf.JourneyPlanLeg{
		ID:            uuid.NewString(),
		Mode:          ctdf.ParseTransportMode(l.Mode.ID),
		Origin:        l.DeparturePoint.toCTDF(),
		Destination:   l.ArrivalPoint.toCTDF(),
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Duration:      arrivalTime.Sub(departureTime),
		Platform:      l.DeparturePoint.PlatformName,
		Instructions:  l.Instruction.Summary,
	}

	if leg.Duration <= 0 && l.Duration > 0 {
		leg.Duration = time.Duration(l.Duration) * time.Minute
		leg.ArrivalTime = leg.DepartureTime.Add(leg.Duration)
	}

	stopPoints := l.Path.StopPoints
	if leg.Origin.StopID == "" && len(stopPoints) > 0 {
		leg.Origin.StopID = stopPoints[0].ID
		leg.Origin.Name = stopPoints[0].Name
	}
	if leg.Destination.Name == "" && len(stopPoints) > 0 {
		leg.Destination.StopID = stopPoints[len(stopPoints)-1].ID
		leg.Destination.Name = stopPoints[len(stopPoints)-1].Name
	}

	if len(l.RouteOptions) > 0 {
		routeOption := l.RouteOptions[0]

		leg.LineID = routeOption.LineIdentifier.ID
		leg.OperatorName = routeOption.LineIdentifier.Name
		if leg.OperatorName == "" {
			leg.OperatorName = routeOption.Name
		}
	}

	if leg.Mode != ctdf.TransportModeWalking && l.Instruction.Detailed != "" {
		leg.Instructions = l.Instruction.Detailed
	}

	if l.IsDisrupted && len(l.Disruptions) > 0 {
		leg.Disruption = l.Disruptions[0].Description
	}

	return leg
}

func (p tflPoint) toCTDF() ctdf.JourneyPlanLocation {
	location := ctdf.JourneyPlanLocation{
		Name:   p.CommonName,
		StopID: p.NaptanID,
	}

	if p.Lat != 0 || p.Lon != 0 {
		location.Location = ctdf.NewPointLocation(p.Lat, p.Lon)
	}

	return location
}

func parseTflTime(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05", value, util.LondonTimezone())
}
