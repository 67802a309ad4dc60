package query

import (
	"time"
)

type JourneyPlan struct {
	Origin          string
	Destination     string
	OriginName      string
	DestinationName string
	StartDateTime   time.Time
}
