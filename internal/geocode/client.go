package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Config holds the client settings. Zero values fall back to sensible defaults.
type Config struct {
	BaseURL   string
	Language  string
	UserAgent string
	// RequestsPerSecond throttles outgoing calls. Nominatim's usage policy
	// allows one per second; zero or less disables throttling.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	base      *url.URL
	language  string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter

	// Identical in-flight lookups share one upstream request.
	group singleflight.Group
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("geocode.NewClient: invalid base URL %q", raw)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "ourtrip/1.0"
	}

	return &Client{
		base:      base,
		language:  cfg.Language,
		userAgent: ua,
		http:      hc,
		limiter:   rate.NewLimiter(limit, 1),
	}, nil
}

// nominatimPlace is the subset of a Nominatim search/reverse item we read.
// Coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (p nominatimPlace) coordinates() (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude %q: %w", p.Lat, err)
	}
	lng, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude %q: %w", p.Lon, err)
	}
	return lat, lng, nil
}

// Forward resolves free text to the coordinates of the best match.
func (c *Client) Forward(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return NotFound(), nil
	}

	v, err := c.shared(ctx, "forward\x00"+query, func(ctx context.Context) (any, error) {
		var places []nominatimPlace
		params := url.Values{"format": {"json"}, "q": {query}, "limit": {"1"}}
		if err := c.get(ctx, "/search", params, &places); err != nil {
			return nil, err
		}
		if len(places) == 0 {
			return NotFound(), nil
		}
		lat, lng, err := places[0].coordinates()
		if err != nil {
			return nil, err
		}
		return Found(lat, lng), nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("geocode.Client.Forward: %w", err)
	}
	return v.(Result), nil
}

// Reverse resolves coordinates to a human-readable place name.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	la := strconv.FormatFloat(lat, 'f', -1, 64)
	ln := strconv.FormatFloat(lng, 'f', -1, 64)

	v, err := c.shared(ctx, "reverse\x00"+la+","+ln, func(ctx context.Context) (any, error) {
		var place nominatimPlace
		params := url.Values{"format": {"json"}, "lat": {la}, "lon": {ln}}
		if err := c.get(ctx, "/reverse", params, &place); err != nil {
			return nil, err
		}
		// Nominatim answers a miss with 200 and an "error" field.
		if place.Error != "" || place.DisplayName == "" {
			return Place{}, nil
		}
		return Place{Found: true, Name: place.DisplayName}, nil
	})
	if err != nil {
		return Place{}, fmt.Errorf("geocode.Client.Reverse: %w", err)
	}
	return v.(Place), nil
}

// Suggest returns autocomplete candidates for query. Queries shorter than
// MinSuggestQuery characters return no suggestions without calling upstream.
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSuggestQuery {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	n := strconv.Itoa(limit)

	v, err := c.shared(ctx, "suggest\x00"+n+"\x00"+query, func(ctx context.Context) (any, error) {
		var places []nominatimPlace
		params := url.Values{"format": {"json"}, "q": {query}, "addressdetails": {"1"}, "limit": {n}}
		if err := c.get(ctx, "/search", params, &places); err != nil {
			return nil, err
		}
		out := make([]Suggestion, 0, len(places))
		for _, p := range places {
			lat, lng, err := p.coordinates()
			if err != nil {
				continue
			}
			out = append(out, Suggestion{Name: p.DisplayName, Lat: lat, Lng: lng})
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Suggest: %w", err)
	}
	return v.([]Suggestion), nil
}

// shared runs fn once per key among concurrent callers. fn gets a context
// that outlives any single caller's cancellation so one impatient caller does
// not fail the others; each caller still stops waiting when its own ctx ends.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
