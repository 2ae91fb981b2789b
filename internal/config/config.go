// Package config loads the optional TOML configuration controlling engine
// binary locations and caption font candidates. A missing file is not an
// error; defaults cover the common case.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Engine contains the external transcoder binary locations. Bare names are
// resolved through PATH; absolute paths are used as-is.
type Engine struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Fonts contains the ordered caption font candidate list. The first
// existing path wins; captioning is mandatory, so a run with no usable
// candidate aborts.
type Fonts struct {
	Candidates []string `toml:"candidates"`
}

// Config encapsulates all configuration values for clipmill.
type Config struct {
	Engine Engine `toml:"engine"`
	Fonts  Fonts  `toml:"fonts"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{
		Engine: Engine{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Fonts: Fonts{
			Candidates: []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
				"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
				"/System/Library/Fonts/Helvetica.ttc",
				"C:/Windows/Fonts/arialbd.ttf",
			},
		},
	}
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipmill/config.toml")
}

// Load locates, parses, and validates a configuration file. It reports the
// resolved path and whether a file was actually found; when none exists the
// returned config is Default.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipmill.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// normalize trims engine values and expands font candidate paths. Engine
// binaries stay untouched beyond trimming since bare names must keep
// resolving through PATH.
func (c *Config) normalize() error {
	c.Engine.FFmpeg = strings.TrimSpace(c.Engine.FFmpeg)
	c.Engine.FFprobe = strings.TrimSpace(c.Engine.FFprobe)

	expanded := make([]string, 0, len(c.Fonts.Candidates))
	for _, cand := range c.Fonts.Candidates {
		cand = strings.TrimSpace(cand)
		if cand == "" {
			continue
		}
		p, err := expandPath(cand)
		if err != nil {
			return err
		}
		expanded = append(expanded, p)
	}
	c.Fonts.Candidates = expanded
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Engine.FFmpeg == "" {
		return errors.New("engine.ffmpeg must not be empty")
	}
	if c.Engine.FFprobe == "" {
		return errors.New("engine.ffprobe must not be empty")
	}
	if len(c.Fonts.Candidates) == 0 {
		return errors.New("fonts.candidates must list at least one path")
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
