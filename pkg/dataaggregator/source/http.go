package source

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/metrics"
)

const (
	ConnectTimeout = 15 * time.Second
	RequestTimeout = 30 * time.Second
)

func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = ConnectTimeout
	transport.ResponseHeaderTimeout = ConnectTimeout

	return &http.Client{
		Transport: transport,
		Timeout:   RequestTimeout,
	}
}

// GetJSON performs a GET and decodes the JSON body into target
func GetJSON(ctx context.Context, client *http.Client, sourceName string, url string, headers map[string]string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ErrInvalidRequest.Wrap(err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	startTime := time.Now()
	resp, err := client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(sourceName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(sourceName, "error").Inc()
		return NetworkError(sourceName, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(sourceName, strconv.Itoa(resp.StatusCode)).Inc()

	log.Debug().
		Str("source", sourceName).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Upstream request")

	if err := StatusError(sourceName, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NetworkError(sourceName, err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return DecodingError(sourceName, err)
	}

	return nil
}
