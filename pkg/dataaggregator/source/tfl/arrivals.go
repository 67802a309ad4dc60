package tfl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
)

type tflArrivalPrediction struct {
	ID string `json:"id"`

	NaptanID    string `json:"naptanId"`
	StationName string `json:"stationName"`

	LineID   string `json:"lineId"`
	LineName string `json:"lineName"`

	PlatformName string `json:"platformName"`
	Direction    string `json:"direction"`

	DestinationNaptanID string `json:"destinationNaptanId"`
	DestinationName     string `json:"destinationName"`
	Towards             string `json:"towards"`

	TimeToStation   int    `json:"timeToStation"`
	ExpectedArrival string `json:"expectedArrival"`

	ModeName string `json:"modeName"`
}

// StopArrivals returns live predictions at a stop. An empty slice means the stop reported nothing.
func (s *Source) StopArrivals(ctx context.Context, stopID string) ([]*ctdf.ArrivalPrediction, error) {
	var arrivalPredictions []tflArrivalPrediction
	if err := s.get(ctx, fmt.Sprintf("/StopPoint/%s/Arrivals", url.PathEscape(stopID)), nil, &arrivalPredictions); err != nil {
		return nil, err
	}

	predictions := []*ctdf.ArrivalPrediction{}
	for _, prediction := range arrivalPredictions {
		expectedArrival, err := time.Parse(time.RFC3339, prediction.ExpectedArrival)
		if err != nil {
			log.Debug().Str("id", prediction.ID).Str("value", prediction.ExpectedArrival).Msg("Skipping arrival prediction without a valid time")
			continue
		}

		destinationName := prediction.DestinationName
		if destinationName == "" && prediction.Towards != "Check Front of Train" {
			destinationName = prediction.Towards
		}

		predictions = append(predictions, &ctdf.ArrivalPrediction{
			StopID:          prediction.NaptanID,
			StopName:        prediction.StationName,
			LineID:          prediction.LineID,
			LineName:        prediction.LineName,
			PlatformName:    prediction.PlatformName,
			Direction:       prediction.Direction,
			DestinationName: destinationName,
			ExpectedArrival: expectedArrival,
		})
	}

	return predictions, nil
}
