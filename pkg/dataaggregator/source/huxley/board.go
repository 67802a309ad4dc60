package huxley

import (
	"time"

	"github.com/travigo/liverail/pkg/ctdf"
)

type huxleyBoard struct {
	GeneratedAt string `json:"generatedAt"`

	LocationName       string `json:"locationName"`
	Crs                string `json:"crs"`
	FilterLocationName string `json:"filterLocationName"`
	FilterCrs          string `json:"filterCrs"`

	FilteredServices []huxleyService `json:"filteredServices"`
	TrainServices    []huxleyService `json:"trainServices"`

	NrccMessages []struct {
		Value string `json:"value"`
	} `json:"nrccMessages"`
}

type huxleyLocation struct {
	LocationName string `json:"locationName"`
	Crs          string `json:"crs"`
}

type huxleyService struct {
	Origin      []huxleyLocation `json:"origin"`
	Destination []huxleyLocation `json:"destination"`

	Sta string `json:"sta"`
	Eta string `json:"eta"`
	Std string `json:"std"`
	Etd string `json:"etd"`

	Platform     string `json:"platform"`
	Operator     string `json:"operator"`
	OperatorCode string `json:"operatorCode"`

	IsCancelled  bool   `json:"isCancelled"`
	CancelReason string `json:"cancelReason"`
	DelayReason  string `json:"delayReason"`

	ServiceID        string `json:"serviceID"`
	ServiceIDURLSafe string `json:"serviceIdUrlSafe"`
}

func (b *huxleyBoard) services() []huxleyService {
	if b.FilteredServices != nil {
		return b.FilteredServices
	}

	return b.TrainServices
}

func (b *huxleyBoard) toCTDF() *ctdf.Board {
	board := &ctdf.Board{
		LocationName:       b.LocationName,
		Crs:                b.Crs,
		FilterLocationName: b.FilterLocationName,
		FilterCrs:          b.FilterCrs,
		Services:           []*ctdf.BoardService{},
	}

	if generatedAt, err := time.Parse(time.RFC3339Nano, b.GeneratedAt); err == nil {
		board.GeneratedAt = generatedAt
	}

	for _, message := range b.NrccMessages {
		if message.Value != "" {
			board.Messages = append(board.Messages, message.Value)
		}
	}

	for _, service := range b.services() {
		serviceID := service.ServiceIDURLSafe
		if serviceID == "" {
			serviceID = service.ServiceID
		}

		board.Services = append(board.Services, &ctdf.BoardService{
			ServiceID: serviceID,

			Origin:      convertLocations(service.Origin),
			Destination: convertLocations(service.Destination),

			ScheduledArrival:   service.Sta,
			EstimatedArrival:   service.Eta,
			ScheduledDeparture: service.Std,
			EstimatedDeparture: service.Etd,

			Platform:     service.Platform,
			Operator:     service.Operator,
			OperatorCode: service.OperatorCode,

			IsCancelled:  service.IsCancelled,
			CancelReason: service.CancelReason,
			DelayReason:  service.DelayReason,
		})
	}

	return board
}

func convertLocations(locations []huxleyLocation) []ctdf.BoardLocation {
	var converted []ctdf.BoardLocation
	for _, location := range locations {
		converted = append(converted, ctdf.BoardLocation{
			LocationName: location.LocationName,
			Crs:          location.Crs,
		})
	}

	return converted
}
