package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
	"github.com/travigo/liverail/pkg/gethome"
	"github.com/travigo/liverail/pkg/interchange"
	"github.com/travigo/liverail/pkg/stations"
)

type fakeJourneySource struct {
	plans []*ctdf.JourneyPlan
	err   error
	last  query.JourneyPlan
}

func (f *fakeJourneySource) GetName() string {
	return "Smart Journey Planner"
}

func (f *fakeJourneySource) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) ([]*ctdf.JourneyPlan, error) {
	f.last = q
	return f.plans, f.err
}

type fakeBoards struct {
	services map[string][]*ctdf.BoardService
}

func (f *fakeBoards) DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error) {
	return &ctdf.Board{Crs: station, Services: f.services[station]}, nil
}

func setupPlanner(t *testing.T, credentials dataaggregator.Credentials, journeySource *fakeJourneySource) {
	dataaggregator.GlobalAggregator = &dataaggregator.Aggregator{
		Credentials:  func() dataaggregator.Credentials { return credentials },
		SmartPlanner: journeySource,
	}
	t.Cleanup(func() {
		dataaggregator.GlobalAggregator = nil
	})
}

func doRequest(t *testing.T, target string) (int, map[string]any) {
	response, err := NewApp().Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &decoded))
	}

	return response.StatusCode, decoded
}

func testJourney() *ctdf.JourneyPlan {
	start := time.Date(2024, 3, 10, 9, 36, 0, 0, time.UTC)

	plan := &ctdf.JourneyPlan{
		ID: "plan-1",
		Legs: []*ctdf.JourneyPlanLeg{
			{ID: "leg-1", Mode: ctdf.TransportModeTrain, DepartureTime: start, ArrivalTime: start.Add(24 * time.Minute), ServiceIdentifier: "a1"},
			{ID: "leg-2", Mode: ctdf.TransportModeTrain, DepartureTime: start.Add(44 * time.Minute), ArrivalTime: start.Add(164 * time.Minute), ServiceIdentifier: "d1"},
		},
	}
	plan.Recalculate()

	return plan
}

func TestVersion(t *testing.T) {
	status, body := doRequest(t, "/core/version")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v0.2", body["version"])
}

func TestPlannerSuccess(t *testing.T) {
	journeySource := &fakeJourneySource{plans: []*ctdf.JourneyPlan{testJourney()}}
	setupPlanner(t, dataaggregator.Credentials{SmartPlannerEnabled: true}, journeySource)

	status, body := doRequest(t, "/core/planner/wkd/eus?originName=Walkden&datetime=2024-03-10T09:00:00Z")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "Smart Journey Planner", body["Provider"])
	plans := body["JourneyPlans"].([]any)
	require.Len(t, plans, 1)

	legs := plans[0].(map[string]any)["Legs"].([]any)
	require.Len(t, legs, 2)
	assert.NotContains(t, legs[0].(map[string]any), "ServiceIdentifier")

	assert.Equal(t, "WKD", journeySource.last.Origin)
	assert.Equal(t, "EUS", journeySource.last.Destination)
	assert.Equal(t, "Walkden", journeySource.last.OriginName)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), journeySource.last.StartDateTime.UTC())
}

func TestPlannerDetailed(t *testing.T) {
	setupPlanner(t, dataaggregator.Credentials{SmartPlannerEnabled: true}, &fakeJourneySource{plans: []*ctdf.JourneyPlan{testJourney()}})

	status, body := doRequest(t, "/core/planner/WKD/EUS?detailed=true")
	require.Equal(t, http.StatusOK, status)

	legs := body["JourneyPlans"].([]any)[0].(map[string]any)["Legs"].([]any)
	assert.Equal(t, "a1", legs[0].(map[string]any)["ServiceIdentifier"])
}

func TestPlannerErrors(t *testing.T) {
	tests := []struct {
		name        string
		credentials dataaggregator.Credentials
		err         error
		status      int
		code        string
	}{
		{name: "no provider", status: http.StatusServiceUnavailable, code: "no_provider"},
		{
			name:        "quota",
			credentials: dataaggregator.Credentials{SmartPlannerEnabled: true},
			err:         source.ErrQuotaExceeded.WithStatus(403),
			status:      http.StatusTooManyRequests,
			code:        "quota_exceeded",
		},
		{
			name:        "authentication",
			credentials: dataaggregator.Credentials{SmartPlannerEnabled: true},
			err:         source.ErrAuthenticationRequired.WithStatus(401),
			status:      http.StatusBadGateway,
			code:        "authentication_required",
		},
		{
			name:        "no journeys",
			credentials: dataaggregator.Credentials{SmartPlannerEnabled: true},
			status:      http.StatusNotFound,
			code:        "no_journeys",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			setupPlanner(t, test.credentials, &fakeJourneySource{err: test.err})

			status, body := doRequest(t, "/core/planner/WKD/EUS")
			assert.Equal(t, test.status, status)
			assert.Equal(t, test.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPlannerBadRequests(t *testing.T) {
	setupPlanner(t, dataaggregator.Credentials{SmartPlannerEnabled: true}, &fakeJourneySource{})

	status, _ := doRequest(t, "/core/planner/WKD/EUS?datetime=tomorrow")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, "/core/planner/EUS/eus")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStations(t *testing.T) {
	directory, err := stations.Default()
	require.NoError(t, err)
	stations.GlobalDirectory = directory
	t.Cleanup(func() { stations.GlobalDirectory = nil })

	status, body := doRequest(t, "/core/stations/eus")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "London Euston", body["Name"])

	status, _ = doRequest(t, "/core/stations/ZZZ")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, "/core/stations/")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetHome(t *testing.T) {
	directory, err := stations.Default()
	require.NoError(t, err)
	catalog, err := interchange.Default()
	require.NoError(t, err)

	boards := &fakeBoards{services: map[string][]*ctdf.BoardService{
		"EUS": {{ServiceID: "eus-1", ScheduledDeparture: "21:10", EstimatedDeparture: "On time"}},
	}}
	gethome.GlobalPlanner = gethome.NewPlanner(boards, directory, catalog.GetHome)
	t.Cleanup(func() { gethome.GlobalPlanner = nil })

	status, body := doRequest(t, "/core/gethome?lat=51.508&lon=-0.1247&home=MAN")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["metro"])

	options := body["options"].([]any)
	require.Len(t, options, 1)
	assert.Equal(t, "EUS", options[0].(map[string]any)["FromStation"].(map[string]any)["Crs"])

	status, _ = doRequest(t, "/core/gethome?lat=51.508&lon=-0.1247&home=ZZZ")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, "/core/gethome?home=MAN")
	assert.Equal(t, http.StatusBadRequest, status)

	boards.services = nil
	status, body = doRequest(t, "/core/gethome?lat=51.508&lon=-0.1247&home=MAN")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no_routes", body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	response, err := NewApp().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}
