package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a single live fetch.
const DefaultFetchTimeout = 5 * time.Second

// ErrUpstream wraps every live-source failure.
var ErrUpstream = errors.New("rate source unavailable")

// LiveSource fetches current rates for one base currency.
type LiveSource interface {
	Latest(ctx context.Context, base string) (RateSet, error)
}

// HTTPClient reads rates from an exchangerate.host compatible API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds an HTTPClient. A non-positive timeout uses
// DefaultFetchTimeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type latestResponse struct {
	Success *bool   `json:"success"`
	Base    string  `json:"base"`
	Rates   RateSet `json:"rates"`
}

// Latest performs one GET /latest?base= request. Any transport error,
// non-2xx status, undecodable body, explicit success=false or empty rate map
// is reported as ErrUpstream.
func (c *HTTPClient) Latest(ctx context.Context, base string) (RateSet, error) {
	q := url.Values{}
	q.Set("base", base)
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	endpoint := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if body.Success != nil && !*body.Success {
		return nil, fmt.Errorf("%w: success=false", ErrUpstream)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rates", ErrUpstream)
	}
	return body.Rates, nil
}
