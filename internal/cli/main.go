package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is stamped by the linker on release builds.
var Version = "dev"

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipmill [dir]",
		Short:        "Normalize a folder of clips and assemble compilation exports",
		Args:         cobra.MaximumNArgs(1),
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return run(cmd, dir)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().BoolP("yes", "y", false, "Process non-standard frame-rate clips without asking")
	root.Flags().StringP("config", "c", "", "Config file path")
	root.Flags().BoolP("verbose", "v", false, "Show per-clip probe detail")

	// Hidden maintenance flag
	root.Flags().Bool("init-config", false, "Write a sample config and exit")
	_ = root.Flags().MarkHidden("init-config")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
