package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/season"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var (
	dropAll   bool
	dropForce bool
)

var dropCmd = &cobra.Command{
	Use:   "drop [game-id]",
	Short: "Remove a game or the whole database",
	Long: `With a game id, delete that game's stored rows and rebuild the season
accumulator from the remaining games. With --all, permanently delete the
database file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVar(&dropAll, "all", false, "delete the whole database")
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropAll {
		if len(args) != 0 {
			return fmt.Errorf("--all takes no game id")
		}
		if !dropForce {
			fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
			fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
			return nil
		}
		if err := os.Remove(dbPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
				return nil
			}
			return fmt.Errorf("remove database: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("pass a game id or --all")
	}
	gameID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ok, err := db.GameExists(gameID)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "No stored game %q\n", gameID)
		return nil
	}

	if err := db.DeleteGame(gameID); err != nil {
		return err
	}
	if err := rebuildSeason(db); err != nil {
		return fmt.Errorf("rebuild season state: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped %s and rebuilt season totals.\n", gameID)
	return nil
}

// rebuildSeason replays every stored per-game row into a fresh accumulator
// and replaces the snapshot.
func rebuildSeason(db *storage.DB) error {
	metrics, err := db.AllTeamGameMetrics()
	if err != nil {
		return err
	}
	recs, err := db.AllGoalieRecords()
	if err != nil {
		return err
	}

	byGame := make(map[string][]model.TeamGameMetrics)
	for _, m := range metrics {
		byGame[m.GameID] = append(byGame[m.GameID], m)
	}
	recsByGame := make(map[string][]model.GoalieGameRecord)
	for _, r := range recs {
		recsByGame[r.GameID] = append(recsByGame[r.GameID], r)
	}

	ids := make([]string, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	acc := season.New()
	for _, id := range ids {
		rows := byGame[id]
		if len(rows) != 2 {
			return fmt.Errorf("game %s has %d metric rows, want 2", id, len(rows))
		}
		home, away := rows[0], rows[1]
		if home.Venue != "home" {
			home, away = away, home
		}
		acc.Merge(id, home, away, recsByGame[id])
	}

	snap := acc.Snapshot()
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return db.SaveSnapshotJSON(doc)
}
