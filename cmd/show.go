package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/report"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show stored metrics for one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	for _, g := range games {
		if g.ID == gameID {
			report.PrintGameHeader(os.Stdout, g)
			break
		}
	}

	metrics, err := db.GetTeamGameMetrics(gameID)
	if err != nil {
		return fmt.Errorf("get metrics: %w", err)
	}
	if len(metrics) == 0 {
		fmt.Fprintf(os.Stderr, "No stored game %q\n", gameID)
		return nil
	}
	report.PrintGameTable(os.Stdout, metrics)
	return nil
}
