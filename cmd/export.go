package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the season snapshot as JSON",
	Long: `Write the serialized season accumulator (team totals, goalie splits,
recent-game logs, processed-id set) to a file or stdout. A .zst output path
is zstd-compressed.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default stdout, .zst compresses)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	doc, err := db.LoadSnapshotJSON()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("no season snapshot stored yet")
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(append(doc, '\n'))
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(exportOut, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		defer zw.Close()
		w = zw
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes raw)\n", exportOut, len(doc))
	return nil
}
