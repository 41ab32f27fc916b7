package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/report"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored. Run `nhlmetrics process <game-id>` first.")
		return nil
	}
	report.PrintGameList(os.Stdout, games)
	return nil
}
