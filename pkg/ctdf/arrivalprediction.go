package ctdf

import "time"

type ArrivalPrediction struct {
	StopID   string
	StopName string

	LineID   string
	LineName string

	PlatformName string
	Direction    string

	DestinationName string

	ExpectedArrival time.Time
}
