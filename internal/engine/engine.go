// Package engine orchestrates the per-game pipeline: fetch, derive, extract
// goalie logs, pull goal tracking clips, and merge into the season
// accumulator. The accumulator is the only shared mutable state; all merges
// go through a single writer.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/derive"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/geometry"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/goalie"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/patterns"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/season"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/tracking"
)

// Fetcher supplies game bundles.
type Fetcher interface {
	FetchGame(ctx context.Context, gameID string) (*model.Game, error)
}

// TrackingSource supplies per-event tracking clips. Optional; a nil source
// disables trajectories and zone-entry classification.
type TrackingSource interface {
	Fetch(ctx context.Context, gameID string, eventIdx int) (*tracking.Clip, error)
}

// Status is the outcome of processing one game.
type Status int

const (
	StatusUpdated Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Engine runs the processing pipeline against one database and accumulator.
// Not safe for concurrent ProcessGame/ProcessBatch calls.
type Engine struct {
	cfg     *config.Config
	fetch   Fetcher
	deriver *derive.Deriver
	goalies *goalie.Extractor
	track   TrackingSource
	db      *storage.DB
	acc     *season.Accumulator
	log     *slog.Logger

	// saveSnapshot overrides snapshot persistence; nil writes to the database.
	saveSnapshot func(doc []byte) error

	sinceCheckpoint int
}

// New builds an engine, restoring the season accumulator from the stored
// snapshot when one exists.
func New(cfg *config.Config, fetch Fetcher, deriver *derive.Deriver, goalies *goalie.Extractor, track TrackingSource, db *storage.DB, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	acc := season.New()
	doc, err := db.LoadSnapshotJSON()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if doc != nil {
		var snap season.Snapshot
		if err := json.Unmarshal(doc, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		acc = season.FromSnapshot(snap)
	}
	return &Engine{
		cfg:     cfg,
		fetch:   fetch,
		deriver: deriver,
		goalies: goalies,
		track:   track,
		db:      db,
		acc:     acc,
		log:     log,
	}, nil
}

// Accumulator exposes the season state for reporting.
func (e *Engine) Accumulator() *season.Accumulator { return e.acc }

// prepared is one game's fully derived output, ready to merge.
type prepared struct {
	id           string
	game         *model.Game
	derived      *derive.GameDerived
	goalies      []model.GoalieGameRecord
	trajectories []model.Trajectory
}

// prepare runs the read-only half of the pipeline. Safe to call from
// multiple workers.
func (e *Engine) prepare(ctx context.Context, gameID string) (*prepared, error) {
	g, err := e.fetch.FetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	d := e.deriver.Derive(g)
	recs := e.goalies.Extract(g, d.Shots)

	p := &prepared{id: gameID, game: g, derived: d, goalies: recs}
	if e.track != nil {
		e.attachTracking(ctx, p)
	}
	return p, nil
}

// attachTracking pulls goal clips, builds trajectories, and folds zone-entry
// classifications into the team metrics. Best effort: clip failures log and
// skip that goal only.
func (e *Engine) attachTracking(ctx context.Context, p *prepared) {
	var homeEntries, awayEntries []model.EntryType

	for i := range p.derived.Shots {
		s := &p.derived.Shots[i]
		if !s.IsGoal() {
			continue
		}
		clip, err := e.track.Fetch(ctx, p.id, s.EventIdx)
		if err != nil {
			e.log.Warn("tracking clip unavailable",
				"game", p.id, "event", s.EventIdx, "err", err)
			continue
		}

		right := p.game.DefendingRight(s.TeamID, s.Period)
		frames := toAttackingFrames(clip.Frames, right)

		if path := tracking.PuckPath(frames); len(path) > 0 {
			p.trajectories = append(p.trajectories, model.Trajectory{
				GameID:   p.id,
				EventIdx: s.EventIdx,
				TeamID:   s.TeamID,
				Points:   path,
			})
		}

		entry := e.deriver.Detector().ClassifyEntry(frames, clip.TeamEntities(s.TeamID))
		if s.TeamID == p.game.HomeID {
			homeEntries = append(homeEntries, entry)
		} else {
			awayEntries = append(awayEntries, entry)
		}
	}

	derive.AddEntries(&p.derived.Home, homeEntries)
	derive.AddEntries(&p.derived.Away, awayEntries)
}

// toAttackingFrames maps raw rink frames into the attacking frame of the
// scoring team.
func toAttackingFrames(frames []patterns.Frame, defendingRight bool) []patterns.Frame {
	out := make([]patterns.Frame, len(frames))
	for i, f := range frames {
		nf := make(patterns.Frame, len(f))
		for id, pt := range f {
			x, y := geometry.ToAttackingFrame(pt.X, pt.Y, defendingRight)
			nf[id] = model.Point{X: x, Y: y}
		}
		out[i] = nf
	}
	return out
}

// commit is the single-writer half: persist per-game rows and merge into the
// accumulator.
func (e *Engine) commit(p *prepared) error {
	g := p.game
	summary := model.GameSummary{
		ID: g.ID, Date: g.Date,
		Home: g.HomeAbbrev, Away: g.AwayAbbrev,
		HomeScore: g.HomeScore, AwayScore: g.AwayScore,
	}
	if err := e.db.InsertGame(summary); err != nil {
		return fmt.Errorf("persist game %s: %w", p.id, err)
	}
	if err := e.db.InsertTeamGameMetrics([]model.TeamGameMetrics{p.derived.Home, p.derived.Away}); err != nil {
		return fmt.Errorf("persist metrics %s: %w", p.id, err)
	}
	if len(p.goalies) > 0 {
		if err := e.db.InsertGoalieRecords(p.goalies); err != nil {
			return fmt.Errorf("persist goalie records %s: %w", p.id, err)
		}
	}
	if len(p.trajectories) > 0 {
		if err := e.db.InsertTrajectories(p.trajectories); err != nil {
			return fmt.Errorf("persist trajectories %s: %w", p.id, err)
		}
	}

	e.acc.Merge(p.id, p.derived.Home, p.derived.Away, p.goalies)
	e.sinceCheckpoint++
	return nil
}

// checkpoint persists the accumulator snapshot.
func (e *Engine) checkpoint() error {
	snap := e.acc.Snapshot()
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	save := e.saveSnapshot
	if save == nil {
		save = e.db.SaveSnapshotJSON
	}
	if err := save(doc); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	e.sinceCheckpoint = 0
	return nil
}

// ProcessGame runs the full pipeline for one game and checkpoints. A game id
// already in the accumulator is a no-op.
func (e *Engine) ProcessGame(ctx context.Context, gameID string) (Status, error) {
	if e.acc.Seen(gameID) {
		return StatusSkipped, nil
	}
	p, err := e.prepare(ctx, gameID)
	if err != nil {
		return StatusFailed, err
	}
	if err := e.commit(p); err != nil {
		return StatusFailed, err
	}
	if err := e.checkpoint(); err != nil {
		return StatusFailed, err
	}
	return StatusUpdated, nil
}
