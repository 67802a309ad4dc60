package journeyplanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/liverail/pkg/ctdf"
)

type fixedDurations struct {
	outbound time.Duration
	inbound  time.Duration
}

func (f fixedDurations) OutboundDuration(origin string, interchange string) time.Duration {
	return f.outbound
}

func (f fixedDurations) InboundDuration(interchange string, destination string) time.Duration {
	return f.inbound
}

var testBaseDate = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestMatcher() *Matcher {
	return &Matcher{Durations: fixedDurations{outbound: 24 * time.Minute, inbound: 2 * time.Hour}}
}

func arrivalAt(id string, clock string) *ctdf.BoardService {
	return &ctdf.BoardService{ServiceID: id, ScheduledArrival: clock, EstimatedArrival: "On time", Operator: "Northern"}
}

func departureAt(id string, clock string) *ctdf.BoardService {
	return &ctdf.BoardService{
		ServiceID:          id,
		ScheduledDeparture: clock,
		EstimatedDeparture: "On time",
		Operator:           "Avanti West Coast",
		Platform:           "4",
		Destination:        []ctdf.BoardLocation{{LocationName: "London Euston", Crs: "EUS"}},
	}
}

func sameStationQuery() ConnectionQuery {
	return ConnectionQuery{
		Origin:                   "WKD",
		OriginName:               "Walkden",
		Destination:              "EUS",
		DestinationName:          "London Euston",
		ArrivalInterchange:       "CRE",
		ArrivalInterchangeName:   "Crewe",
		DepartureInterchange:     "CRE",
		DepartureInterchangeName: "Crewe",
		BaseDate:                 testBaseDate,
	}
}

func TestWithinChangeWindow(t *testing.T) {
	assert.False(t, withinChangeWindow(4*time.Minute+59*time.Second))
	assert.True(t, withinChangeWindow(5*time.Minute))
	assert.True(t, withinChangeWindow(60*time.Minute))
	assert.False(t, withinChangeWindow(60*time.Minute+time.Second))
	assert.False(t, withinChangeWindow(-10*time.Minute))
}

func TestMatchChangeWindowBoundaries(t *testing.T) {
	matcher := newTestMatcher()
	arrivals := []*ctdf.BoardService{arrivalAt("a1", "10:00")}

	departures := []*ctdf.BoardService{
		departureAt("d-4", "10:04"),
		departureAt("d-5", "10:05"),
		departureAt("d-60", "11:00"),
		departureAt("d-61", "11:01"),
	}

	plans := matcher.Match(arrivals, departures, sameStationQuery())
	require.Len(t, plans, 2)

	assert.Equal(t, "a1|d-5", plans[0].ServiceKey())
	assert.Equal(t, "a1|d-60", plans[1].ServiceKey())
}

func TestMatchWalkCountsTowardsChange(t *testing.T) {
	matcher := newTestMatcher()

	q := sameStationQuery()
	q.ArrivalInterchange = "WGW"
	q.ArrivalInterchangeName = "Wigan Wallgate"
	q.DepartureInterchange = "WGN"
	q.DepartureInterchangeName = "Wigan North Western"
	q.Walk = 7 * time.Minute

	plans := matcher.Match(
		[]*ctdf.BoardService{arrivalAt("a1", "10:00")},
		[]*ctdf.BoardService{departureAt("d-11", "10:11"), departureAt("d-12", "10:12")},
		q,
	)
	require.Len(t, plans, 1)

	plan := plans[0]
	require.Len(t, plan.Legs, 3)

	walk := plan.Legs[1]
	assert.Equal(t, ctdf.TransportModeWalking, walk.Mode)
	assert.Equal(t, "Walk between stations (~7 min)", walk.Instructions)
	assert.Equal(t, "WGW", walk.Origin.Crs)
	assert.Equal(t, "WGN", walk.Destination.Crs)
	assert.Equal(t, 7*time.Minute, walk.Duration)

	assert.Equal(t, "a1|d-12", plan.ServiceKey())
}

func TestMatchBuildsLegs(t *testing.T) {
	matcher := newTestMatcher()

	plans := matcher.Match(
		[]*ctdf.BoardService{arrivalAt("a1", "10:00")},
		[]*ctdf.BoardService{departureAt("d1", "10:20")},
		sameStationQuery(),
	)
	require.Len(t, plans, 1)

	plan := plans[0]
	require.Len(t, plan.Legs, 2)

	first := plan.Legs[0]
	assert.Equal(t, "Walkden", first.Origin.Name)
	assert.Equal(t, "CRE", first.Destination.Crs)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 36, 0, 0, time.UTC), first.DepartureTime)
	assert.Equal(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), first.ArrivalTime)
	assert.Equal(t, "Northern", first.OperatorName)

	second := plan.Legs[1]
	assert.Equal(t, time.Date(2024, 3, 10, 10, 20, 0, 0, time.UTC), second.DepartureTime)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 20, 0, 0, time.UTC), second.ArrivalTime)
	assert.Equal(t, "4", second.Platform)
	assert.Equal(t, "EUS", second.Destination.Crs)

	assert.Equal(t, first.DepartureTime, plan.StartTime)
	assert.Equal(t, second.ArrivalTime, plan.ArrivalTime)
	assert.Equal(t, 2*time.Hour+44*time.Minute, plan.Duration)
}

func TestMatchMidnightRollover(t *testing.T) {
	matcher := newTestMatcher()

	q := sameStationQuery()
	q.BaseDate = time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	plans := matcher.Match(
		[]*ctdf.BoardService{arrivalAt("a1", "23:50")},
		[]*ctdf.BoardService{departureAt("d1", "00:10")},
		q,
	)
	require.Len(t, plans, 1)

	second := plans[0].Legs[1]
	assert.Equal(t, time.Date(2024, 3, 11, 0, 10, 0, 0, time.UTC), second.DepartureTime)
	assert.Equal(t, 20*time.Minute, second.DepartureTime.Sub(plans[0].Legs[0].ArrivalTime))
}

func TestMatchArrivalAfterMidnight(t *testing.T) {
	matcher := newTestMatcher()

	q := sameStationQuery()
	q.BaseDate = time.Date(2024, 3, 10, 23, 40, 0, 0, time.UTC)

	plans := matcher.Match(
		[]*ctdf.BoardService{arrivalAt("a1", "00:05")},
		[]*ctdf.BoardService{departureAt("d1", "00:20")},
		q,
	)
	require.Len(t, plans, 1)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 5, 0, 0, time.UTC), plans[0].Legs[0].ArrivalTime)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 20, 0, 0, time.UTC), plans[0].Legs[1].DepartureTime)
}

func TestMatchSkipsCancelledAndUnparsable(t *testing.T) {
	matcher := newTestMatcher()

	cancelledArrival := arrivalAt("a-cancelled", "10:00")
	cancelledArrival.IsCancelled = true

	cancelledDeparture := departureAt("d-cancelled", "10:20")
	cancelledDeparture.EstimatedDeparture = "Cancelled"

	plans := matcher.Match(
		[]*ctdf.BoardService{
			cancelledArrival,
			{ServiceID: "a-none", EstimatedArrival: "Delayed"},
			arrivalAt("a1", "10:00"),
		},
		[]*ctdf.BoardService{
			cancelledDeparture,
			{ServiceID: "d-none", ScheduledDeparture: "soon"},
			departureAt("d1", "10:30"),
		},
		sameStationQuery(),
	)
	require.Len(t, plans, 1)
	assert.Equal(t, "a1|d1", plans[0].ServiceKey())
}

func TestMatchUsesEstimatedArrival(t *testing.T) {
	matcher := newTestMatcher()

	late := arrivalAt("a1", "10:00")
	late.EstimatedArrival = "10:17"

	plans := matcher.Match(
		[]*ctdf.BoardService{late},
		[]*ctdf.BoardService{departureAt("d1", "10:20"), departureAt("d2", "10:25")},
		sameStationQuery(),
	)
	require.Len(t, plans, 1)
	assert.Equal(t, "a1|d2", plans[0].ServiceKey())
}

func TestMatchCrossProduct(t *testing.T) {
	matcher := newTestMatcher()

	plans := matcher.Match(
		[]*ctdf.BoardService{arrivalAt("a1", "10:00"), arrivalAt("a2", "10:10")},
		[]*ctdf.BoardService{departureAt("d1", "10:20"), departureAt("d2", "10:40")},
		sameStationQuery(),
	)

	var keys []string
	for _, plan := range plans {
		keys = append(keys, plan.ServiceKey())
	}
	assert.Equal(t, []string{"a1|d1", "a1|d2", "a2|d1", "a2|d2"}, keys)
}
