package ctdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardServiceStatus(t *testing.T) {
	tests := []struct {
		name     string
		service  BoardService
		expected BoardServiceStatus
	}{
		{"on time sentinel", BoardService{ScheduledDeparture: "10:00", EstimatedDeparture: "On time"}, BoardServiceStatusOnTime},
		{"late clock estimate", BoardService{ScheduledDeparture: "10:00", EstimatedDeparture: "10:07"}, BoardServiceStatusDelayed},
		{"delayed sentinel", BoardService{ScheduledDeparture: "10:00", EstimatedDeparture: "Delayed"}, BoardServiceStatusDelayed},
		{"cancelled sentinel", BoardService{ScheduledDeparture: "10:00", EstimatedDeparture: "Cancelled"}, BoardServiceStatusCancelled},
		{"cancelled flag", BoardService{ScheduledDeparture: "10:00", EstimatedDeparture: "On time", IsCancelled: true}, BoardServiceStatusCancelled},
		{"arrival only", BoardService{ScheduledArrival: "10:00", EstimatedArrival: "10:03"}, BoardServiceStatusDelayed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.service.Status())
		})
	}
}

func TestBoardServiceArrivalClock(t *testing.T) {
	assert.Equal(t, "10:04", (&BoardService{ScheduledArrival: "10:00", EstimatedArrival: "10:04"}).ArrivalClock())
	assert.Equal(t, "10:00", (&BoardService{ScheduledArrival: "10:00", EstimatedArrival: "On time"}).ArrivalClock())
	assert.Equal(t, "", (&BoardService{EstimatedArrival: "Delayed"}).ArrivalClock())
}

func TestBoardServiceDestination(t *testing.T) {
	service := &BoardService{
		Destination: []BoardLocation{
			{LocationName: "Crewe", Crs: "CRE"},
			{LocationName: "London Euston", Crs: "EUS"},
		},
	}

	assert.Equal(t, "London Euston", service.DestinationName())
	assert.Equal(t, "EUS", service.DestinationCrs())
	assert.Equal(t, "", (&BoardService{}).DestinationCrs())
}
