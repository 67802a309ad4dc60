package ctdf

import (
	"fmt"
	"strings"
	"time"
)

type JourneyPlanResults struct {
	JourneyPlans []*JourneyPlan `groups:"basic"`

	Provider  string    `groups:"basic"`
	FromCache bool      `groups:"basic"`
	Stale     bool      `groups:"basic"`
	FetchedAt time.Time `groups:"basic"`
}

type JourneyPlan struct {
	ID   string            `groups:"basic"`
	Legs []*JourneyPlanLeg `groups:"basic"`

	StartTime   time.Time     `groups:"basic"`
	ArrivalTime time.Time     `groups:"basic"`
	Duration    time.Duration `groups:"basic"`
}

type JourneyPlanLeg struct {
	ID   string        `groups:"basic"`
	Mode TransportMode `groups:"basic"`

	Origin      JourneyPlanLocation `groups:"basic"`
	Destination JourneyPlanLocation `groups:"basic"`

	DepartureTime time.Time     `groups:"basic"`
	ArrivalTime   time.Time     `groups:"basic"`
	Duration      time.Duration `groups:"basic"`

	OperatorName      string `groups:"basic"`
	ServiceIdentifier string `groups:"detailed"`
	Platform          string `groups:"basic"`
	Instructions      string `groups:"basic"`
	LineID            string `groups:"detailed"`

	Disruption string `groups:"basic"`
}

type JourneyPlanLocation struct {
	Name     string    `groups:"basic"`
	Crs      string    `groups:"basic"`
	StopID   string    `groups:"detailed"`
	Location *Location `groups:"detailed"`
}

// ServiceKey identifies a journey by the services it rides, ignoring walks
func (j *JourneyPlan) ServiceKey() string {
	var identifiers []string

	for _, leg := range j.Legs {
		if leg.Mode == TransportModeWalking {
			continue
		}

		if leg.ServiceIdentifier != "" {
			identifiers = append(identifiers, leg.ServiceIdentifier)
		} else {
			identifiers = append(identifiers, leg.ID)
		}
	}

	return strings.Join(identifiers, "|")
}

func (j *JourneyPlan) Recalculate() {
	if len(j.Legs) == 0 {
		return
	}

	j.StartTime = j.Legs[0].DepartureTime
	j.ArrivalTime = j.Legs[len(j.Legs)-1].ArrivalTime
	j.Duration = j.ArrivalTime.Sub(j.StartTime)
}

func (j *JourneyPlan) NumberOfChanges() int {
	rides := 0
	for _, leg := range j.Legs {
		if leg.Mode != TransportModeWalking {
			rides++
		}
	}

	if rides == 0 {
		return 0
	}
	return rides - 1
}

// Disruptions returns every disruption message across the legs in order
func (j *JourneyPlan) Disruptions() []string {
	var disruptions []string
	for _, leg := range j.Legs {
		if leg.Disruption != "" {
			disruptions = append(disruptions, leg.Disruption)
		}
	}

	return disruptions
}

func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute).Minutes())

	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
