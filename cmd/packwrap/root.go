// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the packwrap CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/packwrap/packwrap/pkg/pack200"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "packwrap",
		Short: "Run pack200 and unpack200 from your build configuration",
		Long: TitleStyle.Render("packwrap") + SubtitleStyle.Render(" - pack200/unpack200 for your build") + `

packwrap builds pack200 and unpack200 command lines from a project file
(packwrap.cue), environment variables and flags, then runs the tool.

` + SubtitleStyle.Render("Examples:") + `
  packwrap pack --input-file app.jar          Write target/app.jar.pack.gz
  packwrap repack --strip-debug               Normalize the JAR in place
  packwrap unpack --input-file app.jar.pack.gz
  packwrap pack --dry-run                     Print the command line only
  packwrap config init                        Create packwrap.cue`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./packwrap.cue)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log the executable and arguments before running")

	rootCmd.AddCommand(
		newGoalCommand(app, flags, pack200.VariantPack),
		newGoalCommand(app, flags, pack200.VariantRepack),
		newGoalCommand(app, flags, pack200.VariantUnpack),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the code carried by an *ExitError.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(ExitCommandFailed)
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitCommandFailed)
	}
}
