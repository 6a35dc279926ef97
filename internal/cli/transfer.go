package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full state as JSON",
		Long:  "Write habits, completions, categories and the id counter as one JSON\ndocument, to stdout or to --output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.store.Snapshot()
			if output == "" {
				return printJSON(out(cmd), snap)
			}
			var buf bytes.Buffer
			if err := printJSON(&buf, snap); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return systemErr(fmt.Errorf("write export: %w", err))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d habits to %s\n", len(snap.Habits), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the full state with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			snap, err := decodeSnapshot(data)
			if err != nil {
				return err
			}
			if err := a.store.Restore(snap); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(out(cmd), "Imported %d habits and %d categories\n", len(a.store.Habits()), len(a.store.Categories()))
			return nil
		},
	}
}

// decodeSnapshot parses an export document. Unknown fields are rejected.
func decodeSnapshot(data []byte) (types.Snapshot, error) {
	var snap types.Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: %v", types.ErrCorruptSnapshot, err)
	}
	return snap, nil
}
