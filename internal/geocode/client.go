package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultTimeout for a single geocoding request.
	DefaultTimeout = 5 * time.Second
	// DefaultRateLimit is 1 request per second, the public endpoint's usage
	// policy.
	DefaultRateLimit = rate.Limit(1.0)

	userAgent = "devevents/1.0"
)

// Client is a Geocoder backed by a Nominatim-style HTTP API. Requests pass
// through a client-side rate limiter so a burst of event creations cannot
// violate the endpoint's policy. Each call makes exactly one attempt; there
// is no retry loop.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets a custom rate limit in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a geocoding client. email is sent in the User-Agent
// header, which the public endpoint requires for identification.
func NewClient(baseURL, email string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		email:      email,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Geocoder = (*Client)(nil)

// searchResult is the subset of the Nominatim response we care about.
// Coordinates arrive as JSON strings, not numbers.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GetLatLng forward-geocodes an address and returns the top match.
func (c *Client) GetLatLng(ctx context.Context, address string) (LatLng, error) {
	if address == "" {
		return LatLng{}, fmt.Errorf("geocode: empty address")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return LatLng{}, fmt.Errorf("geocode: waiting for rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	requestURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode: building request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s (%s)", userAgent, c.email))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return LatLng{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return LatLng{}, fmt.Errorf("geocode: decoding response: %w", err)
	}
	if len(results) == 0 {
		return LatLng{}, fmt.Errorf("geocode: no results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode: parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("geocode: parsing longitude: %w", err)
	}

	return LatLng{Lat: lat, Lng: lng}, nil
}
