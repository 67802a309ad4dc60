package transportapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
	"github.com/travigo/liverail/pkg/util"
)

const DefaultEndpoint = "https://transportapi.com/v3/uk/public"

// Source is the metered TransportAPI journey planner, used for full UK coverage
type Source struct {
	AppID  string
	AppKey string

	Endpoint   string
	HTTPClient *http.Client
}

func NewSource(appID string, appKey string) *Source {
	return &Source{
		AppID:      appID,
		AppKey:     appKey,
		Endpoint:   DefaultEndpoint,
		HTTPClient: source.NewHTTPClient(),
	}
}

func (s *Source) GetName() string {
	return "TransportAPI"
}

func (s *Source) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) ([]*ctdf.JourneyPlan, error) {
	startDateTime := q.StartDateTime.In(util.LondonTimezone())

	params := url.Values{}
	params.Set("app_id", s.AppID)
	params.Set("app_key", s.AppKey)
	params.Set("date", startDateTime.Format("2006-01-02"))
	params.Set("time", startDateTime.Format("15:04"))
	params.Set("type", "public")

	requestURL := fmt.Sprintf("%s/journey/from/%s/to/%s.json?%s",
		strings.TrimSuffix(s.Endpoint, "/"),
		url.PathEscape(q.Origin),
		url.PathEscape(q.Destination),
		params.Encode(),
	)

	var response journeyResponse
	if err := source.GetJSON(ctx, s.HTTPClient, s.GetName(), requestURL, nil, &response); err != nil {
		return nil, err
	}

	return response.toCTDF(startDateTime), nil
}
