// Package tracking fetches per-second puck and skater tracking frames for
// individual events. The upstream feed is slow and aggressively throttled,
// so requests go through a token bucket and results are memoized per event.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/patterns"
)

// Clip is one event's tracking data: per-second frames plus the team each
// entity skates for. The puck carries no team.
type Clip struct {
	Frames []patterns.Frame
	Teams  map[int]int // entity id → team id
}

// TeamEntities returns the entity ids belonging to one team.
func (c *Clip) TeamEntities(teamID int) map[int]bool {
	out := make(map[int]bool)
	for id, team := range c.Teams {
		if team == teamID {
			out[id] = true
		}
	}
	return out
}

// Client is a rate-limited tracking-feed client with a process-lifetime
// per-event cache. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	retries int
	limiter *rate.Limiter
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]*Clip
}

// NewClient returns a tracking client issuing at most one request per
// interval.
func NewClient(baseURL string, timeout time.Duration, retries int, interval time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		retries: retries,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
		cache:   make(map[string]*Clip),
	}
}

// framesResponse is the feed payload: one sample per second, each listing
// on-ice entities with rink coordinates and team membership.
type framesResponse struct {
	Frames []struct {
		Entities []struct {
			ID     int     `json:"id"`
			TeamID int     `json:"teamId"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
		} `json:"entities"`
	} `json:"frames"`
}

// Fetch returns the tracking clip for one event, fetching on first use and
// serving the cache afterward.
func (c *Client) Fetch(ctx context.Context, gameID string, eventIdx int) (*Clip, error) {
	key := fmt.Sprintf("%s/%d", gameID, eventIdx)

	c.mu.Lock()
	if clip, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return clip, nil
	}
	c.mu.Unlock()

	var resp framesResponse
	path := fmt.Sprintf("/game/%s/event/%d/frames", gameID, eventIdx)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	clip := &Clip{Teams: make(map[int]int)}
	for _, f := range resp.Frames {
		frame := make(patterns.Frame, len(f.Entities))
		for _, e := range f.Entities {
			frame[e.ID] = model.Point{X: e.X, Y: e.Y}
			if e.TeamID != 0 {
				clip.Teams[e.ID] = e.TeamID
			}
		}
		clip.Frames = append(clip.Frames, frame)
	}

	c.mu.Lock()
	c.cache[key] = clip
	c.mu.Unlock()
	return clip, nil
}

// get performs a throttled GET with bounded retries on 429/5xx and network
// failures.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if attempt > 0 {
			c.logger.Debug("retrying tracking fetch", "path", path, "attempt", attempt)
		}
		lastErr = c.getOnce(ctx, path, out)
		if lastErr == nil {
			return nil
		}
		var re *retryableError
		if !errors.As(lastErr, &re) {
			return lastErr
		}
	}
	return fmt.Errorf("GET %s: retries exhausted: %w", path, lastErr)
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *Client) getOnce(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("GET %s: %w", path, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return &retryableError{err: fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)}
	default:
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// PuckPath extracts the puck's point sequence from a clip. Frames without a
// puck sample are skipped.
func PuckPath(frames []patterns.Frame) []model.Point {
	var pts []model.Point
	for _, f := range frames {
		if p, ok := f[patterns.PuckEntityID]; ok {
			pts = append(pts, p)
		}
	}
	return pts
}
