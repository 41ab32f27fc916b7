package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/report"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/season"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var teamRecent int

var teamCmd = &cobra.Command{
	Use:   "team [abbrev]",
	Short: "Show season team metrics",
	Long:  "Without arguments, print the season table for every team. With an abbreviation, print that team's recent games as well.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTeam,
}

func init() {
	teamCmd.Flags().IntVar(&teamRecent, "recent", 10, "recent games to show for a single team")
}

// loadAccumulator restores season state from the stored snapshot.
func loadAccumulator(db *storage.DB) (*season.Accumulator, error) {
	doc, err := db.LoadSnapshotJSON()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if doc == nil {
		return season.New(), nil
	}
	var snap season.Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return season.FromSnapshot(snap), nil
}

func runTeam(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	acc, err := loadAccumulator(db)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		teams := acc.Teams()
		if len(teams) == 0 {
			fmt.Fprintln(os.Stdout, "No season data yet.")
			return nil
		}
		report.PrintTeamSeasonTable(os.Stdout, teams)
		return nil
	}

	abbrev := strings.ToUpper(args[0])
	ts := acc.TeamByAbbrev(abbrev)
	if ts == nil {
		fmt.Fprintf(os.Stderr, "No season data for team %q\n", abbrev)
		return nil
	}
	report.PrintTeamSeasonTable(os.Stdout, []model.TeamSeason{*ts})

	recent := ts.Recent
	if teamRecent > 0 && len(recent) > teamRecent {
		recent = recent[len(recent)-teamRecent:]
	}
	if len(recent) > 0 {
		fmt.Fprintf(os.Stdout, "\nLast %d games:\n", len(recent))
		report.PrintGameTable(os.Stdout, recent)
	}
	return nil
}
