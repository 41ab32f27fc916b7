package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/cluster"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/report"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Cluster stored goal trajectories into common routes",
	Long:  "Run density-based clustering over every stored goal trajectory and print the discovered routes, most common first. Requires games processed with --tracking-url.",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ts, err := db.ListTrajectories()
	if err != nil {
		return fmt.Errorf("list trajectories: %w", err)
	}
	if len(ts) == 0 {
		fmt.Fprintln(os.Stdout, "No trajectories stored. Process games with --tracking-url first.")
		return nil
	}

	routes := cluster.New(cfg.Cluster).Cluster(ts)
	if len(routes) == 0 {
		fmt.Fprintf(os.Stdout, "No dense routes among %d trajectories (eps %.1f, min samples %d).\n",
			len(ts), cfg.Cluster.Eps, cfg.Cluster.MinSamples)
		return nil
	}
	fmt.Fprintf(os.Stdout, "%d trajectories, %d routes:\n\n", len(ts), len(routes))
	report.PrintRoutesTable(os.Stdout, routes)
	return nil
}
