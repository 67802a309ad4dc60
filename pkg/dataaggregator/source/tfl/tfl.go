package tfl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/travigo/liverail/pkg/dataaggregator/source"
)

const DefaultEndpoint = "https://api.tfl.gov.uk"

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
	return "Transport for London API"
}

func (s *Source) get(ctx context.Context, path string, params url.Values, target any) error {
	if params == nil {
		params = url.Values{}
	}
	if s.AppID != "" {
		params.Set("app_id", s.AppID)
	}
	if s.AppKey != "" {
		params.Set("app_key", s.AppKey)
	}

	requestURL := fmt.Sprintf("%s%s?%s", strings.TrimSuffix(s.Endpoint, "/"), path, params.Encode())

	// TfL sits behind cloudflare which rejects the default Go user agent
	headers := map[string]string{
		"user-agent": "curl/7.54.1",
	}

	return source.GetJSON(ctx, s.HTTPClient, s.GetName(), requestURL, headers, target)
}
