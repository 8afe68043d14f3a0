// Package route resolves trip locations and driving routes through Mapbox.
package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

const (
	metersToMiles  = 0.000621371
	secondsToHours = 1.0 / 3600
)

// MapboxConfig configures a MapboxClient. Only Token is required.
type MapboxConfig struct {
	Token   string
	BaseURL string // defaults to https://api.mapbox.com

	// Cache, when set, is consulted before every geocode request.
	Cache GeocodeCache

	HTTPClient     *http.Client  // defaults to a client with a 10s timeout
	InitialBackoff time.Duration // defaults to 200ms
	Logger         *slog.Logger  // defaults to slog.Default()
}

// MapboxClient talks to the Mapbox geocoding and directions APIs.
// It is safe for concurrent use.
type MapboxClient struct {
	session *http.Client
	token   string
	baseURL string
	cache   GeocodeCache
	backoff time.Duration
	logger  *slog.Logger
}

// NewMapboxClient builds a client from cfg, applying defaults.
func NewMapboxClient(cfg MapboxConfig) (*MapboxClient, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("route.NewMapboxClient: mapbox access token is empty")
	}
	c := &MapboxClient{
		session: cfg.HTTPClient,
		token:   cfg.Token,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cache:   cfg.Cache,
		backoff: cfg.InitialBackoff,
		logger:  cfg.Logger,
	}
	if c.session == nil {
		c.session = &http.Client{Timeout: 10 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.mapbox.com"
	}
	if c.backoff <= 0 {
		c.backoff = 200 * time.Millisecond
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

type geocodeResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

type directionsResponse struct {
	Routes []struct {
		Distance float64         `json:"distance"` // meters
		Duration float64         `json:"duration"` // seconds
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

// Geocode resolves a free-text location to coordinates.
// Returns domain.ErrInvalidInput when Mapbox knows no such place and
// domain.ErrUpstream when the API call fails.
func (c *MapboxClient) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	norm := normalize(location)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("route.MapboxClient.Geocode: %w: location is required", domain.ErrInvalidInput)
	}

	if c.cache != nil {
		coords, ok, err := c.cache.Get(ctx, norm)
		if err != nil {
			c.logger.WarnContext(ctx, "geocode cache read failed", "location", norm, "error", err)
		} else if ok {
			return coords, nil
		}
	}

	start := time.Now()
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", c.baseURL, url.PathEscape(norm))
	resp, err := c.doWithRetry(ctx, "geocode", func() (*http.Request, error) {
		req, err := c.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("access_token", c.token)
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("route.MapboxClient.Geocode: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("route.MapboxClient.Geocode: %w: decode response: %w", domain.ErrUpstream, err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("route.MapboxClient.Geocode: %w: location not found: %s", domain.ErrInvalidInput, location)
	}
	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return domain.Coordinates{}, fmt.Errorf("route.MapboxClient.Geocode: %w: invalid coordinates for %q", domain.ErrUpstream, location)
	}
	coords := domain.Coordinates{
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
		PlaceName: f.PlaceName,
	}
	c.logger.DebugContext(ctx, "geocoded location", "location", norm, "duration_ms", time.Since(start).Milliseconds())

	if c.cache != nil {
		if err := c.cache.Set(ctx, norm, coords); err != nil {
			c.logger.WarnContext(ctx, "geocode cache write failed", "location", norm, "error", err)
		}
	}
	return coords, nil
}

// Directions returns the driving route through waypoints in order, with
// distance in miles and duration in hours.
func (c *MapboxClient) Directions(ctx context.Context, waypoints []domain.Coordinates) (domain.Route, error) {
	if len(waypoints) < 2 {
		return domain.Route{}, fmt.Errorf("route.MapboxClient.Directions: %w: at least two waypoints are required", domain.ErrInvalidInput)
	}

	start := time.Now()
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s", c.baseURL, strings.Join(domain.LonLats(waypoints), ";"))
	resp, err := c.doWithRetry(ctx, "directions", func() (*http.Request, error) {
		req, err := c.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("access_token", c.token)
		q.Set("geometries", "geojson")
		q.Set("overview", "full")
		q.Set("steps", "true")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("route.MapboxClient.Directions: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("route.MapboxClient.Directions: %w: decode response: %w", domain.ErrUpstream, err)
	}
	if len(decoded.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("route.MapboxClient.Directions: %w: no route found between locations", domain.ErrInvalidInput)
	}
	r := decoded.Routes[0]
	c.logger.DebugContext(ctx, "fetched directions", "waypoints", len(waypoints), "duration_ms", time.Since(start).Milliseconds())

	return domain.Route{
		DistanceMiles: r.Distance * metersToMiles,
		DurationHours: r.Duration * secondsToHours,
		Geometry:      r.Geometry,
	}, nil
}

// normalize collapses whitespace so equivalent inputs share a cache key.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
