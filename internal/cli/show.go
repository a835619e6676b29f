package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"docchunk/config"
	"docchunk/internal/adapter/store"
	"docchunk/internal/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "List indexed files or show the stored chunks of one",
	Long: `Without arguments, list every indexed file with its chunk count.
With a file argument, print the chunks stored for that file.

Examples:
  docchunk show
  docchunk show exports/users.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	dbPath := config.IndexDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no chunk store found. Run 'docchunk index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		recs, err := st.ListSources()
		if err != nil {
			return err
		}
		if showJSON {
			return writeJSON(out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No files indexed.")
			return nil
		}
		for _, rec := range recs {
			fmt.Fprintf(out, "%s\t%d chunks\t%s\n", rec.Path, len(rec.ChunkIDs), rec.Strategy)
		}
		stats, err := st.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d files, %d chunks, %.1f chars per chunk\n", stats.TotalSources, stats.TotalChunks, stats.AvgChunkLen)
		return nil
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	chunks, err := st.GetChunks(path)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s is not indexed", path)
	}
	if err != nil {
		return err
	}

	if showJSON {
		return writeJSON(out, chunks)
	}
	for _, c := range chunks {
		fmt.Fprintf(out, "--- [%d] %s (offset %d) ---\n", c.Chunk, c.ID, c.Offset)
		fmt.Fprintln(out, truncateRunes(c.Content, 500))
		fmt.Fprintln(out)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
