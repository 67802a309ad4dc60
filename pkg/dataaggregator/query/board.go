package query

type BoardType string

const (
	BoardTypeArrivals   BoardType = "arrivals"
	BoardTypeDepartures BoardType = "departures"
)

// Board is a single station board optionally filtered to services calling at FilterCrs
type Board struct {
	Type      BoardType
	Station   string
	FilterCrs string
	Rows      int
}
