package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configName = "solfront.toml"

// Config mirrors solfront.toml. Command-line flags that were set
// explicitly win over the file.
type Config struct {
	Color          string `toml:"color"`
	Compact        bool   `toml:"compact"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

func defaultConfig() Config {
	return Config{
		Color:          "auto",
		MaxDiagnostics: 100,
	}
}

// loadConfig reads solfront.toml from the working directory when present.
// A missing file is not an error; a malformed one is.
func loadConfig() (Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configName, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", configName, err)
	}
	return cfg, nil
}

// options are the effective settings of one invocation.
type options struct {
	useColor       bool
	compact        bool
	maxDiagnostics int
}

func resolveOptions(cmd *cobra.Command) (options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return options{}, err
	}
	flags := cmd.Root().PersistentFlags()

	colorMode := cfg.Color
	if flags.Changed("color") {
		if colorMode, err = flags.GetString("color"); err != nil {
			return options{}, err
		}
	}
	compact := cfg.Compact
	if flags.Changed("compact") {
		if compact, err = flags.GetBool("compact"); err != nil {
			return options{}, err
		}
	}
	maxDiag := cfg.MaxDiagnostics
	if flags.Changed("max-diagnostics") {
		if maxDiag, err = flags.GetInt("max-diagnostics"); err != nil {
			return options{}, err
		}
	}

	return options{
		useColor:       colorMode == "on" || (colorMode == "auto" && isTerminal(os.Stderr)),
		compact:        compact,
		maxDiagnostics: maxDiag,
	}, nil
}
