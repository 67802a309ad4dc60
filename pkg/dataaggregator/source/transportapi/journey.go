package transportapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/util"
)

const defaultWalkDuration = 5 * time.Minute

var minutesRegex = regexp.MustCompile(`^(\d+)\s*min`)

type journeyResponse struct {
	Routes []route `json:"routes"`
}

type route struct {
	DepartureTime string      `json:"departure_time"`
	ArrivalTime   string      `json:"arrival_time"`
	Duration      string      `json:"duration"`
	RouteParts    []routePart `json:"route_parts"`
}

type routePart struct {
	Mode string `json:"mode"`

	FromStationName string `json:"from_station_name"`
	ToStationName   string `json:"to_station_name"`
	FromStationCode string `json:"from_station_code"`
	ToStationCode   string `json:"to_station_code"`

	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`

	OperatorName string `json:"operator_name"`
	Platform     string `json:"platform"`

	ServiceTimetable *struct {
		ID string `json:"id"`
	} `json:"service_timetable"`
}

func (r *journeyResponse) toCTDF(baseDate time.Time) []*ctdf.JourneyPlan {
	plans := []*ctdf.JourneyPlan{}

	for _, route := range r.Routes {
		if plan := route.toCTDF(baseDate); plan != nil {
			plans = append(plans, plan)
		}
	}

	return plans
}

func (r *route) toCTDF(baseDate time.Time) *ctdf.JourneyPlan {
	routeDeparture, ok := util.ParseClockTime(r.DepartureTime, baseDate)
	if !ok {
		return nil
	}
	// Journeys asked for late in the evening may start after midnight
	if baseDate.Sub(routeDeparture) > 12*time.Hour {
		routeDeparture = routeDeparture.Add(24 * time.Hour)
	}

	plan := &ctdf.JourneyPlan{
		ID: uuid.NewString(),
	}

	cursor := routeDeparture
	for _, part := range r.RouteParts {
		leg := part.toCTDF(cursor)
		if leg == nil {
			continue
		}

		plan.Legs = append(plan.Legs, leg)
		cursor = leg.ArrivalTime
	}

	if len(plan.Legs) == 0 {
		return nil
	}

	plan.Recalculate()

	return plan
}

// toCTDF maps a part whose clock times are read relative to cursor, the previous leg's arrival
func (p *routePart) toCTDF(cursor time.Time) *ctdf.JourneyPlanLeg {
	mode := ctdf.ParseTransportMode(p.Mode)

	leg := &ctdf.JourneyPlanLeg{
		ID:   uuid.NewString(),
		Mode: mode,
		Origin: ctdf.JourneyPlanLocation{
			Name: p.FromStationName,
			Crs:  p.FromStationCode,
		},
		Destination: ctdf.JourneyPlanLocation{
			Name: p.ToStationName,
			Crs:  p.ToStationCode,
		},
		OperatorName: p.OperatorName,
		Platform:     p.Platform,
	}

	if p.ServiceTimetable != nil {
		leg.ServiceIdentifier = p.ServiceTimetable.ID
	}

	departureTime, departureOk := util.ParseClockTime(p.DepartureTime, cursor)
	arrivalTime, arrivalOk := util.ParseClockTime(p.ArrivalTime, cursor)

	if mode == ctdf.TransportModeWalking {
		if !departureOk {
			departureTime = cursor
		}

		if !arrivalOk {
			walkDuration, err := parseDuration(p.Duration)
			if err != nil {
				walkDuration = defaultWalkDuration
			}
			arrivalTime = departureTime.Add(walkDuration)
		}

		leg.Instructions = fmt.Sprintf("Walk to %s", p.ToStationName)
	} else if !departureOk || !arrivalOk {
		return nil
	}

	departureTime = util.RollForward(departureTime, cursor.Add(-12*time.Hour))
	arrivalTime = util.RollForward(arrivalTime, departureTime)

	leg.DepartureTime = departureTime
	leg.ArrivalTime = arrivalTime
	leg.Duration = arrivalTime.Sub(departureTime)

	return leg
}

// parseDuration accepts "1:23", "01:23:00" and "83 minutes"
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if matches := minutesRegex.FindStringSubmatch(value); len(matches) == 2 {
		minutes, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, err
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unrecognised duration %q", value)
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("unrecognised duration %q: %w", value, err)
		}
		total += time.Duration(n) * units[i]
	}

	return total, nil
}
