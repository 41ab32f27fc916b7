package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/nhlapi"
)

var (
	batchTeam   string
	batchSeason string
	batchFile   string
)

var batchCmd = &cobra.Command{
	Use:   "batch [game-id]...",
	Short: "Process many games with a worker pool",
	Long: `Process games given as arguments, from --ids-file (one id per line), or
a whole team season via --team/--season. Already-processed games are skipped,
the accumulator checkpoints periodically, and SIGINT lets in-flight games
finish before stopping.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchTeam, "team", "", "team abbreviation for schedule lookup (e.g. TOR)")
	batchCmd.Flags().StringVar(&batchSeason, "season", "", "season for schedule lookup (e.g. 20242025)")
	batchCmd.Flags().StringVar(&batchFile, "ids-file", "", "file with one game id per line")
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids := append([]string(nil), args...)
	if batchFile != "" {
		fromFile, err := readIDsFile(batchFile)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if batchTeam != "" {
		if batchSeason == "" {
			return fmt.Errorf("--team requires --season")
		}
		// Schedule lookup reuses the engine's fetch client settings.
		scheduled, err := scheduleIDs(ctx, cfg, log, batchTeam, batchSeason)
		if err != nil {
			return fmt.Errorf("schedule lookup: %w", err)
		}
		ids = append(ids, scheduled...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no games given: pass ids, --ids-file, or --team/--season")
	}

	rep, err := e.ProcessBatch(ctx, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "updated %d, skipped %d, failed %d\n",
		rep.Updated, rep.Skipped, rep.Failed)
	if len(rep.FailedIDs) > 0 {
		fmt.Fprintf(os.Stdout, "failed ids: %s\n", strings.Join(rep.FailedIDs, " "))
	}
	return nil
}

func scheduleIDs(ctx context.Context, cfg *config.Config, log *slog.Logger, team, season string) ([]string, error) {
	timeout := time.Duration(cfg.FetchTimeoutMS) * time.Millisecond
	client := nhlapi.NewClient(timeout, cfg.FetchRetries, log)
	return client.Schedule(ctx, strings.ToUpper(team), season)
}

func readIDsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ids file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		ids = append(ids, id)
	}
	return ids, sc.Err()
}
