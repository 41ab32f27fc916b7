package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/derive"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/engine"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/goalie"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/nhlapi"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/tracking"
)

var trackingURL string

var processCmd = &cobra.Command{
	Use:   "process <game-id>...",
	Short: "Fetch and process one or more games",
	Long:  "Fetch play-by-play for each game id, derive metrics, and merge into the season accumulator. Already-processed ids are skipped.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&trackingURL, "tracking-url", "", "tracking feed base URL (enables goal routes and zone entries)")
	batchCmd.Flags().StringVar(&trackingURL, "tracking-url", "", "tracking feed base URL (enables goal routes and zone entries)")
}

// buildEngine wires the full pipeline against the configured database.
// The caller owns closing the returned DB.
func buildEngine(cfg *config.Config, log *slog.Logger) (*engine.Engine, *storage.DB, error) {
	if err := ensureDBDir(); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	timeout := time.Duration(cfg.FetchTimeoutMS) * time.Millisecond
	client := nhlapi.NewClient(timeout, cfg.FetchRetries, log)
	lookup := nhlapi.NewPlayerLookup(client)

	var track engine.TrackingSource
	if trackingURL != "" {
		interval := time.Duration(cfg.TrackingIntervalMS) * time.Millisecond
		track = tracking.NewClient(trackingURL, timeout, cfg.FetchRetries, interval, log)
	}

	d := derive.New(cfg, log)
	gx := goalie.New(d.Detector(), cfg.Detect, lookup, log)
	e, err := engine.New(cfg, client, d, gx, track, db, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return e, db, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	e, db, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	failed := 0
	for _, id := range args {
		st, err := e.ProcessGame(context.Background(), id)
		if err != nil {
			log.Error("game failed", "game", id, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", id, st)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games failed", failed, len(args))
	}
	return nil
}
