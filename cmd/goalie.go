package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/report"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var goalieForm int

var goalieCmd = &cobra.Command{
	Use:   "goalie [name]",
	Short: "Show season goalie metrics",
	Long:  "Without arguments, print the season goalie table. With a name (case-insensitive substring), print that goalie's full splits.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoalie,
}

func init() {
	goalieCmd.Flags().IntVar(&goalieForm, "form", 0, "also show recent form over the last N games")
}

func runGoalie(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	acc, err := loadAccumulator(db)
	if err != nil {
		return err
	}
	goalies := acc.Goalies()
	if len(goalies) == 0 {
		fmt.Fprintln(os.Stdout, "No goalie data yet.")
		return nil
	}

	if len(args) == 1 {
		needle := strings.ToLower(args[0])
		for i := range goalies {
			g := &goalies[i]
			if strings.Contains(strings.ToLower(g.Name), needle) {
				report.PrintGoalieSplits(os.Stdout, g)
				if goalieForm > 0 {
					fmt.Fprintf(os.Stdout, "\nForm (last %d):\n", goalieForm)
					report.PrintFormTable(os.Stdout, []model.GoalieSeason{*g}, goalieForm)
				}
				return nil
			}
		}
		fmt.Fprintf(os.Stderr, "No goalie matching %q\n", args[0])
		return nil
	}

	report.PrintGoalieTable(os.Stdout, goalies)
	if goalieForm > 0 {
		fmt.Fprintf(os.Stdout, "\nForm (last %d):\n", goalieForm)
		report.PrintFormTable(os.Stdout, goalies, goalieForm)
	}
	return nil
}
