// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/packwrap/packwrap/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "packwrap"
	// ProjectFileName is the project configuration file looked up in the working directory.
	ProjectFileName = "packwrap.cue"
	// UserFileName is the configuration file inside ConfigDir.
	UserFileName = "config.cue"
	// EnvPrefix prefixes environment overrides, e.g. PACKWRAP_PACK_SEGMENT_LIMIT.
	EnvPrefix = "PACKWRAP"
)

// ErrConfigExists is returned by WriteDefault when the file is already present.
var ErrConfigExists = errors.New("configuration file already exists")

//go:embed config_schema.cue
var configSchema string

// optionKeys are the keys of a pack, repack or unpack section with their zero
// values. Registering them as defaults lets AutomaticEnv bind every key.
var optionKeys = map[string]any{
	"target":             "",
	"input_file":         "",
	"output_file":        "",
	"no_gzip":            false,
	"strip_debug":        false,
	"keep_file_order":    false,
	"no_keep_file_order": false,
	"segment_limit":      0,
	"effort":             "",
	"deflate_hint":       "",
	"modification_time":  "",
	"unknown_attribute":  "",
	"config_file":        "",
	"verbose":            false,
	"quiet":              false,
	"log_file":           "",
	"java_options":       []string{},
	"remove_pack_file":   false,
}

// ConfigDir returns the user configuration directory: %APPDATA%\packwrap on
// Windows, ~/Library/Application Support/packwrap on macOS and
// $XDG_CONFIG_HOME/packwrap (default ~/.config/packwrap) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// loadWithOptions merges defaults, the user file, the project file (or the
// explicit file) and environment overrides into a Config.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	var sources []string

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfgDir = dir
	}
	if userPath := filepath.Join(cfgDir, UserFileName); fileExists(userPath) {
		if err := loadCUEIntoViper(v, userPath); err != nil {
			return nil, loadError(userPath, err)
		}
		sources = append(sources, userPath)
	}

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'packwrap config init' to create a default " + ProjectFileName).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, loadError(opts.ConfigFilePath, err)
		}
		sources = append(sources, opts.ConfigFilePath)
	} else if projectPath := filepath.Join(opts.WorkDir, ProjectFileName); fileExists(projectPath) {
		if err := loadCUEIntoViper(v, projectPath); err != nil {
			return nil, loadError(projectPath, err)
		}
		sources = append(sources, projectPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Sources = sources
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("target", d.Target)
	v.SetDefault("final_name", d.FinalName)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("verify", d.Verify)
	v.SetDefault("executables.pack200", d.Executables.Pack200)
	v.SetDefault("executables.unpack200", d.Executables.Unpack200)
	v.SetDefault("executables.java_home", d.Executables.JavaHome)
	for _, section := range []string{"pack", "repack", "unpack"} {
		for key, zero := range optionKeys {
			v.SetDefault(section+"."+key, zero)
		}
	}
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the schema printed by 'packwrap config --help'").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so validation is not concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration as packwrap.cue into dir and
// returns its path. An existing file is kept unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ProjectFileName)
	if !force && fileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	content, err := GenerateCUE(DefaultConfig())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
