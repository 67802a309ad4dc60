package query

import (
	"time"

	"github.com/travigo/liverail/pkg/ctdf"
)

type TransitDirections struct {
	From          *ctdf.Location
	To            *ctdf.Station
	StartDateTime time.Time
}
