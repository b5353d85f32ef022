// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/packwrap/packwrap/internal/config"
	"github.com/packwrap/packwrap/pkg/pack200"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `packwrap config` command tree.
func newConfigCommand(app *App, root *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage packwrap configuration",
		Long: `Manage packwrap configuration.

Configuration is merged from, lowest precedence first:
  - the user file config.cue in the packwrap config directory
      Linux: ~/.config/packwrap, macOS: ~/Library/Application Support/packwrap,
      Windows: %APPDATA%\packwrap
  - packwrap.cue in the working directory, or the file given by --config
  - PACKWRAP_* environment variables (PACKWRAP_PACK_SEGMENT_LIMIT=-1)
  - command-line flags`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), root.configPath)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), asConfigError(err), root.debug)
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default packwrap.cue in the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(app.workDir, force)
			if errors.Is(err, config.ErrConfigExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
				fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Use --force to overwrite it."))
				return nil
			}
			if err != nil {
				return reportError(cmd.ErrOrStderr(), asConfigError(err), root.debug)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Created"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing packwrap.cue")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration files that are loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), cmd.OutOrStdout(), app, root)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE, TOML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), root.configPath)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), asConfigError(err), root.debug)
			}
			out, err := config.Encode(cfg, config.Format(format))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", ErrorStyle.Render("Error:"), err)
				return &ExitError{Code: ExitConfigError, Err: err}
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format: cue, toml or json")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfigPath(ctx context.Context, w io.Writer, app *App, root *rootFlags) error {
	cfg, err := app.loadConfig(ctx, root.configPath)
	if err != nil {
		return reportError(w, asConfigError(err), root.debug)
	}
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no config file, using defaults)"))
		return nil
	}
	for _, p := range cfg.Sources {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		fmt.Fprintln(w, p)
	}
	return nil
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(unset)")

	value := func(s string) string {
		if s == "" {
			return unset
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if len(cfg.Sources) == 0 {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config files"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s:\n", keyStyle.Render("Config files"))
		for _, p := range cfg.Sources {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("target"), value(cfg.Target))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("final_name"), value(cfg.FinalName))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("debug"), valueStyle.Render(fmt.Sprint(cfg.Debug)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("verify"), valueStyle.Render(fmt.Sprint(cfg.Verify)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("executables"))
	fmt.Fprintf(w, "  pack200: %s\n", valueStyle.Render(cfg.Executables.Resolve(pack200.VariantPack)))
	fmt.Fprintf(w, "  unpack200: %s\n", valueStyle.Render(cfg.Executables.Resolve(pack200.VariantUnpack)))

	for _, v := range pack200.Variants() {
		o := cfg.Options(v)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(string(v)))
		fmt.Fprintf(w, "  target: %s\n", value(o.Target))
		fmt.Fprintf(w, "  input_file: %s\n", value(o.InputFile))
		fmt.Fprintf(w, "  output_file: %s\n", value(o.OutputFile))
		if v.IsPackFamily() && o.SegmentLimit != 0 {
			fmt.Fprintf(w, "  segment_limit: %s\n", valueStyle.Render(fmt.Sprint(o.SegmentLimit)))
		}
		if len(o.JavaOptions) > 0 {
			fmt.Fprintf(w, "  java_options: %s\n", valueStyle.Render(fmt.Sprint(o.JavaOptions)))
		}
	}
}
