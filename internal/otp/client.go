// Package otp fetches live vehicle positions from an OTP2 GraphQL endpoint
// and mirrors the last successful raw response to a local cache file.
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/metrics"
)

// userAgent mimics a browser; the endpoint rejects unidentified clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:140.0) Gecko/20100101 Firefox/140.0"

type Client struct {
	endpoint   string
	cachePath  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// NewClient validates the endpoint and builds a fetch client. An unusable
// endpoint URL is a configuration error and fails fast here, before any
// scheduler is started.
func NewClient(endpoint, cachePath string, timeout time.Duration, logger *slog.Logger, collector *metrics.Collector) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid upstream endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}

	return &Client{
		endpoint:  endpoint,
		cachePath: cachePath,
		timeout:   timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: collector,
	}, nil
}

// Fetch issues the vehicle positions query and returns the validated raw
// records plus the fetch time. Records missing an identity or a coordinate
// are dropped with a warning; a successful response is mirrored to the cache
// file best-effort. On failure nothing is written and a *FetchError with a
// classified kind is returned.
func (c *Client) Fetch(ctx context.Context) ([]VehiclePosition, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(graphQLRequest{Query: vehiclePositionsQuery})
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: FetchTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: FetchTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: classifyTransportError(ctx, err), Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "upstream_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, &FetchError{
			Kind: FetchUpstream,
			Err:  fmt.Errorf("upstream returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: classifyTransportError(ctx, err), Err: err}
	}

	records, err := parseResponse(body)
	if err != nil {
		return nil, time.Time{}, err
	}

	fetchedAt := time.Now()
	kept := c.validateRecords(records, fetchedAt)

	if err := c.writeCache(body); err != nil {
		logging.LogError(c.logger, "failed to write response cache", err,
			slog.String("path", c.cachePath))
	}

	return kept, fetchedAt, nil
}

// parseResponse decodes the GraphQL envelope, classifying malformed JSON as a
// parse failure and GraphQL-level errors as upstream failures.
func parseResponse(body []byte) ([]VehiclePosition, error) {
	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Kind: FetchParse, Err: err}
	}
	if len(envelope.Errors) > 0 {
		return nil, &FetchError{
			Kind: FetchUpstream,
			Err:  fmt.Errorf("graphql error: %s", envelope.Errors[0].Message),
		}
	}
	if envelope.Data == nil {
		return nil, &FetchError{Kind: FetchParse, Err: errors.New("response has no data object")}
	}
	return envelope.Data.VehiclePositions, nil
}

// validateRecords drops records that cannot be keyed or placed on the map.
// A dropped record never fails the cycle.
func (c *Client) validateRecords(records []VehiclePosition, cycleTime time.Time) []VehiclePosition {
	kept := make([]VehiclePosition, 0, len(records))
	for _, rec := range records {
		if rec.Key() == "" || rec.Lat == nil || rec.Lon == nil {
			if c.metrics != nil {
				c.metrics.RecordsDropped.Inc()
			}
			logging.LogOperation(c.logger, "dropping_invalid_vehicle_record",
				slog.String("vehicle_id", rec.VehicleID),
				slog.String("label", rec.Label),
				slog.Time("cycle", cycleTime))
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func classifyTransportError(ctx context.Context, err error) FetchErrorKind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return FetchTimeout
	}
	return FetchTransport
}
