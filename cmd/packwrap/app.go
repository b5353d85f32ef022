// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/packwrap/packwrap/internal/config"
	"github.com/packwrap/packwrap/internal/goal"
	"github.com/packwrap/packwrap/internal/runtime"
	"github.com/packwrap/packwrap/pkg/pack200"

	"github.com/charmbracelet/log"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App is the composition root of the CLI. Cobra handlers receive it and
	// build a goal.Service per invocation from the loaded configuration.
	App struct {
		Config         ConfigProvider
		commandContext runtime.CommandContextFunc
		inspect        goal.InspectFunc
		workDir        string
		stdout         io.Writer
		stderr         io.Writer
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config ConfigProvider
		// CommandContext replaces exec.CommandContext when starting pack200/unpack200.
		CommandContext runtime.CommandContextFunc
		// Inspect replaces archive.Inspect for --verify.
		Inspect goal.InspectFunc
		// WorkDir is where packwrap.cue is looked up and written. Defaults to ".".
		WorkDir string
		Stdout  io.Writer
		Stderr  io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:         deps.Config,
		commandContext: deps.CommandContext,
		inspect:        deps.Inspect,
		workDir:        deps.WorkDir,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
	}, nil
}

func (a *App) loadConfig(ctx context.Context, configPath string) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath, WorkDir: a.workDir})
}

func (a *App) newLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "packwrap",
		Level:  level,
	})
}

// newService wires the builder and invoker for one invocation.
func (a *App) newService(cfg *config.Config, logger *log.Logger, debug bool) *goal.Service {
	builder := pack200.NewBuilder(
		pack200.WithPackExecutable(cfg.Executables.Resolve(pack200.VariantPack)),
		pack200.WithUnpackExecutable(cfg.Executables.Resolve(pack200.VariantUnpack)),
		pack200.WithLogger(logger),
		pack200.WithDebug(debug),
	)
	invoker := runtime.NewInvoker(
		runtime.WithCommandContext(a.commandContext),
		runtime.WithOutput(a.stdout, a.stderr),
		runtime.WithLogger(logger),
		runtime.WithDebug(debug),
	)
	return goal.NewService(builder, invoker, a.inspect)
}
