package ctdf

import (
	"time"
)

const (
	BoardEstimateOnTime    = "On time"
	BoardEstimateCancelled = "Cancelled"
	BoardEstimateDelayed   = "Delayed"
	BoardEstimateNoReport  = "No report"
)

type Board struct {
	GeneratedAt time.Time `groups:"basic"`

	LocationName string `groups:"basic"`
	Crs          string `groups:"basic"`

	FilterLocationName string `groups:"basic"`
	FilterCrs          string `groups:"basic"`

	Services []*BoardService `groups:"basic"`
	Messages []string        `groups:"basic"`
}

type BoardLocation struct {
	LocationName string `groups:"basic"`
	Crs          string `groups:"basic"`
}

type BoardService struct {
	ServiceID string `groups:"basic"`

	Origin      []BoardLocation `groups:"basic"`
	Destination []BoardLocation `groups:"basic"`

	ScheduledArrival   string `groups:"basic"`
	EstimatedArrival   string `groups:"basic"`
	ScheduledDeparture string `groups:"basic"`
	EstimatedDeparture string `groups:"basic"`

	Platform     string `groups:"basic"`
	Operator     string `groups:"basic"`
	OperatorCode string `groups:"basic"`

	IsCancelled  bool   `groups:"basic"`
	CancelReason string `groups:"basic"`
	DelayReason  string `groups:"basic"`
}

type BoardServiceStatus string

const (
	BoardServiceStatusOnTime    BoardServiceStatus = "OnTime"
	BoardServiceStatusDelayed   BoardServiceStatus = "Delayed"
	BoardServiceStatusCancelled BoardServiceStatus = "Cancelled"
)

func (s *BoardService) Status() BoardServiceStatus {
	estimate := s.EstimatedDeparture
	scheduled := s.ScheduledDeparture
	if estimate == "" && scheduled == "" {
		estimate = s.EstimatedArrival
		scheduled = s.ScheduledArrival
	}

	switch {
	case s.IsCancelled || estimate == BoardEstimateCancelled:
		return BoardServiceStatusCancelled
	case estimate == BoardEstimateDelayed:
		return BoardServiceStatusDelayed
	case isClockTime(estimate) && estimate != scheduled:
		return BoardServiceStatusDelayed
	default:
		return BoardServiceStatusOnTime
	}
}

func (s *BoardService) Cancelled() bool {
	return s.Status() == BoardServiceStatusCancelled
}

// ArrivalClock prefers a clock-time estimate over the scheduled arrival
func (s *BoardService) ArrivalClock() string {
	if isClockTime(s.EstimatedArrival) {
		return s.EstimatedArrival
	}

	return s.ScheduledArrival
}

func (s *BoardService) DepartureClock() string {
	return s.ScheduledDeparture
}

func (s *BoardService) DestinationName() string {
	if len(s.Destination) == 0 {
		return ""
	}

	return s.Destination[len(s.Destination)-1].LocationName
}

func (s *BoardService) DestinationCrs() string {
	if len(s.Destination) == 0 {
		return ""
	}

	return s.Destination[len(s.Destination)-1].Crs
}

func isClockTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}
