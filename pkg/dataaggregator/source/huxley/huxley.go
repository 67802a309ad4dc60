package huxley

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
	"github.com/travigo/liverail/pkg/dataaggregator/source"
	"golang.org/x/time/rate"
)

const DefaultEndpoint = "https://huxley2.azurewebsites.net"

const DefaultRows = 20

// Source reads Darwin arrival and departure boards through a Huxley2 proxy
type Source struct {
	Endpoint    string
	AccessToken string

	HTTPClient *http.Client
	Limiter    *rate.Limiter

	MaxRetries    uint64
	RetryInterval time.Duration
}

func NewSource(endpoint string, accessToken string) *Source {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Source{
		Endpoint:    strings.TrimSuffix(endpoint, "/"),
		AccessToken: accessToken,

		HTTPClient: source.NewHTTPClient(),
		Limiter:    rate.NewLimiter(rate.Limit(5), 10),

		MaxRetries:    2,
		RetryInterval: 500 * time.Millisecond,
	}
}

func (s *Source) GetName() string {
	return "Huxley2 National Rail"
}

func (s *Source) ArrivalsBoard(ctx context.Context, station string, fromOrigin string, rows int) (*ctdf.Board, error) {
	return s.BoardQuery(ctx, query.Board{
		Type:      query.BoardTypeArrivals,
		Station:   station,
		FilterCrs: fromOrigin,
		Rows:      rows,
	})
}

func (s *Source) DeparturesBoard(ctx context.Context, station string, toDestination string, rows int) (*ctdf.Board, error) {
	return s.BoardQuery(ctx, query.Board{
		Type:      query.BoardTypeDepartures,
		Station:   station,
		FilterCrs: toDestination,
		Rows:      rows,
	})
}

func (s *Source) BoardQuery(ctx context.Context, q query.Board) (*ctdf.Board, error) {
	requestURL, err := s.boardURL(q)
	if err != nil {
		return nil, source.ErrInvalidRequest.Wrap(err)
	}

	var board huxleyBoard

	operation := func() error {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return backoff.Permanent(source.NetworkError(s.GetName(), err))
			}
		}

		err := source.GetJSON(ctx, s.HTTPClient, s.GetName(), requestURL, nil, &board)
		if err != nil && !source.IsTransient(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = s.RetryInterval

	err = backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(retryBackoff, s.MaxRetries), ctx), func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("station", q.Station).Str("wait", wait.String()).Msg("Retrying Huxley board request")
	})
	if err != nil {
		return nil, err
	}

	return board.toCTDF(), nil
}

func (s *Source) boardURL(q query.Board) (string, error) {
	if q.Station == "" {
		return "", fmt.Errorf("board query has no station")
	}

	rows := q.Rows
	if rows <= 0 {
		rows = DefaultRows
	}

	path := fmt.Sprintf("%s/%s/%s", s.Endpoint, q.Type, url.PathEscape(strings.ToUpper(q.Station)))

	if q.FilterCrs != "" {
		direction := "to"
		if q.Type == query.BoardTypeArrivals {
			direction = "from"
		}

		path = fmt.Sprintf("%s/%s/%s", path, direction, url.PathEscape(strings.ToUpper(q.FilterCrs)))
	}

	path = fmt.Sprintf("%s/%d", path, rows)

	if s.AccessToken != "" {
		path = fmt.Sprintf("%s?accessToken=%s", path, url.QueryEscape(s.AccessToken))
	}

	return path, nil
}
