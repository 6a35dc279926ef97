package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/internal/paths"
	"github.com/mesh-intelligence/habits/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize habits storage",
		Long: "Create the configuration file if it is missing, attach the storage\n" +
			"backend and write the current state to it. Existing data is kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}

	backendName := a.flags.backend
	if backendName == "" {
		backendName = types.BackendFile
	}
	wrote, err := writeConfigIfMissing(configDir, backendName, a.flags.dataDir)
	if err != nil {
		return systemErr(fmt.Errorf("write config: %w", err))
	}

	if err := a.open(cmd.Context()); err != nil {
		return err
	}
	// Loading kept whatever was stored; writing it back fills in the keys a
	// fresh backend lacks.
	if err := a.store.Restore(a.store.Snapshot()); err != nil {
		return systemErr(fmt.Errorf("initialize storage: %w", err))
	}

	w := out(cmd)
	if wrote {
		fmt.Fprintf(w, "Wrote %s\n", configPath(configDir))
	}
	fmt.Fprintln(w, "Habits initialized successfully")
	return nil
}
