package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"clipmill/internal/config"
	"clipmill/internal/pipeline"
)

func run(cmd *cobra.Command, dir string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfgPath, _ := cmd.Flags().GetString("config")
	initConfig, _ := cmd.Flags().GetBool("init-config")

	if initConfig {
		path := cfgPath
		if path == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := config.CreateSample(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sample config written: %s\n", path)
		return nil
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	pcfg := pipeline.Config{
		Dir:            absDir,
		AutoAccept:     yes,
		FFmpegPath:     getenvDefault("CLIPMILL_FFMPEG", cfg.Engine.FFmpeg),
		FFprobePath:    getenvDefault("CLIPMILL_FFPROBE", cfg.Engine.FFprobe),
		FontCandidates: cfg.Fonts.Candidates,
		Verbose:        verbose,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
	if err := pcfg.Validate(); err != nil {
		return err
	}

	// An interrupt cancels the context; the in-flight engine process is
	// killed and the run-scoped temp dir is still removed on the way out.
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return pipeline.Run(ctx, pcfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
