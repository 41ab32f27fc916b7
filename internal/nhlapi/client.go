// Package nhlapi fetches game bundles, schedules, and player metadata from
// the NHL web API and converts them into the internal event model.
package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

const defaultBaseURL = "https://api-web.nhle.com/v1"

// Client is an NHL API client with bounded timeouts and retries.
type Client struct {
	baseURL string
	http    *http.Client
	retries int
	logger  *slog.Logger
}

// NewClient returns a client with the given per-request timeout and retry
// budget for transient failures.
func NewClient(timeout time.Duration, retries int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		retries: retries,
		logger:  logger,
	}
}

// get performs a GET with bounded retries. Transient failures back off
// linearly; anything else returns immediately.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying fetch", "path", path, "attempt", attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		lastErr = c.getOnce(ctx, path, out)
		if lastErr == nil || !IsTransient(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("GET %s: retries exhausted: %w", path, lastErr)
}

func (c *Client) getOnce(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("GET %s: %w", path, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrIncompatibleGame)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return &TransientError{Err: fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)}
	default:
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// playByPlay mirrors the gamecenter play-by-play payload, limited to the
// fields the derivation passes consume.
type playByPlay struct {
	ID       int64  `json:"id"`
	Season   int64  `json:"season"`
	GameDate string `json:"gameDate"`
	HomeTeam struct {
		ID     int    `json:"id"`
		Abbrev string `json:"abbrev"`
		Score  int    `json:"score"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ID     int    `json:"id"`
		Abbrev string `json:"abbrev"`
		Score  int    `json:"score"`
	} `json:"awayTeam"`
	Plays []play `json:"plays"`
}

type play struct {
	TypeDescKey      string `json:"typeDescKey"`
	TimeInPeriod     string `json:"timeInPeriod"`
	SituationCode    string `json:"situationCode"`
	HomeTeamDefSide  string `json:"homeTeamDefendingSide"`
	PeriodDescriptor struct {
		Number int `json:"number"`
	} `json:"periodDescriptor"`
	Details struct {
		XCoord           *float64 `json:"xCoord"`
		YCoord           *float64 `json:"yCoord"`
		ZoneCode         string   `json:"zoneCode"`
		ShotType         string   `json:"shotType"`
		EventOwnerTeamID int      `json:"eventOwnerTeamId"`
		ShootingPlayerID int      `json:"shootingPlayerId"`
		ScoringPlayerID  int      `json:"scoringPlayerId"`
		GoalieInNetID    int      `json:"goalieInNetId"`
		BlockingPlayerID int      `json:"blockingPlayerId"`
	} `json:"details"`
}

// FetchGame retrieves one game's play-by-play and converts it to a Game.
// Returns ErrIncompatibleGame when the feed carries no plays.
func (c *Client) FetchGame(ctx context.Context, gameID string) (*model.Game, error) {
	var pbp playByPlay
	if err := c.get(ctx, "/gamecenter/"+gameID+"/play-by-play", &pbp); err != nil {
		return nil, err
	}
	if len(pbp.Plays) == 0 {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrIncompatibleGame)
	}
	return c.convertGame(gameID, &pbp), nil
}

func (c *Client) convertGame(gameID string, pbp *playByPlay) *model.Game {
	g := &model.Game{
		ID:               gameID,
		Season:           strconv.FormatInt(pbp.Season, 10),
		Date:             pbp.GameDate,
		HomeID:           pbp.HomeTeam.ID,
		AwayID:           pbp.AwayTeam.ID,
		HomeAbbrev:       pbp.HomeTeam.Abbrev,
		AwayAbbrev:       pbp.AwayTeam.Abbrev,
		HomeScore:        pbp.HomeTeam.Score,
		AwayScore:        pbp.AwayTeam.Score,
		HomeDefendsRight: make(map[int]bool),
	}

	maxPeriod := 0
	for _, p := range pbp.Plays {
		period := p.PeriodDescriptor.Number
		if period > maxPeriod {
			maxPeriod = period
		}
		if p.HomeTeamDefSide != "" {
			if _, ok := g.HomeDefendsRight[period]; !ok {
				g.HomeDefendsRight[period] = p.HomeTeamDefSide == "right"
			}
		}

		typ, ok := eventType(p.TypeDescKey)
		if !ok {
			continue
		}
		elapsed, err := parseClock(p.TimeInPeriod)
		if err != nil {
			// A bad clock affects only this play: drop it and keep the game.
			c.logger.Warn("dropping play with unparseable clock",
				"game", gameID, "type", p.TypeDescKey, "err", err)
			continue
		}

		ev := model.Event{
			Idx:           len(g.Events),
			Type:          typ,
			TeamID:        p.Details.EventOwnerTeamID,
			Period:        period,
			ClockSeconds:  (period-1)*model.PeriodSeconds + elapsed,
			ShotType:      p.Details.ShotType,
			GoalieID:      p.Details.GoalieInNetID,
			BlockerID:     p.Details.BlockingPlayerID,
			SituationCode: p.SituationCode,
		}
		if p.Details.XCoord != nil && p.Details.YCoord != nil {
			ev.X, ev.Y = *p.Details.XCoord, *p.Details.YCoord
			ev.HasCoords = true
		}
		if len(p.Details.ZoneCode) == 1 {
			ev.Zone = model.Zone(p.Details.ZoneCode[0])
		}
		ev.ShooterID = p.Details.ShootingPlayerID
		if typ == model.EventGoal {
			ev.ShooterID = p.Details.ScoringPlayerID
		}
		// The feed attributes blocked shots to the blocking team. Re-attribute
		// to the shooting team and flip the team-relative zone to match.
		if typ == model.EventBlockedShot && ev.TeamID != 0 {
			ev.TeamID = otherTeam(ev.TeamID, g.HomeID, g.AwayID)
			ev.Zone = ev.Zone.Flip()
		}
		g.Events = append(g.Events, ev)
	}

	g.EndedInOT = maxPeriod > 3
	return g
}

func otherTeam(teamID, homeID, awayID int) int {
	if teamID == homeID {
		return awayID
	}
	return homeID
}

// eventType maps a feed typeDescKey to the internal event type. Unmapped
// keys (period point events, delayed penalties, etc.) are dropped.
func eventType(key string) (model.EventType, bool) {
	switch key {
	case "shot-on-goal", "missed-shot", "blocked-shot", "goal",
		"giveaway", "takeaway", "faceoff", "penalty", "hit",
		"stoppage", "period-start", "period-end":
		return model.EventType(key), true
	case "game-end":
		return model.EventPeriodEnd, true
	}
	return "", false
}

// parseClock converts "MM:SS" elapsed time to seconds.
func parseClock(s string) (int, error) {
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		return 0, &MissingFieldError{Field: "timeInPeriod"}
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return m*60 + sec, nil
}

// scheduleResponse is the club-schedule-season payload, ids only.
type scheduleResponse struct {
	Games []struct {
		ID       int64 `json:"id"`
		GameType int   `json:"gameType"`
	} `json:"games"`
}

// Schedule returns regular-season game ids for a team and season
// (e.g. "TOR", "20242025").
func (c *Client) Schedule(ctx context.Context, team, season string) ([]string, error) {
	var resp scheduleResponse
	path := fmt.Sprintf("/club-schedule-season/%s/%s", team, season)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	var ids []string
	for _, g := range resp.Games {
		if g.GameType != 2 {
			continue
		}
		ids = append(ids, strconv.FormatInt(g.ID, 10))
	}
	return ids, nil
}
