// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/packwrap/packwrap/internal/goal"
	"github.com/packwrap/packwrap/pkg/pack200"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// goalFlags holds the flag values of a pack, repack or unpack command. Only
// flags the user changed override the configuration.
type goalFlags struct {
	target           string
	inputFile        string
	outputFile       string
	noGzip           bool
	stripDebug       bool
	keepFileOrder    bool
	noKeepFileOrder  bool
	segmentLimit     int
	effort           string
	deflateHint      string
	modificationTime string
	unknownAttribute string
	packConfigFile   string
	verbose          bool
	quiet            bool
	logFile          string
	javaOptions      []string
	removePackFile   bool
	verify           bool
	dryRun           bool
}

var goalShort = map[pack200.Variant]string{
	pack200.VariantPack:   "Compress a JAR into a pack200 archive",
	pack200.VariantRepack: "Normalize a JAR so it can be signed and packed",
	pack200.VariantUnpack: "Restore a JAR from a pack200 archive",
}

func newGoalCommand(app *App, root *rootFlags, variant pack200.Variant) *cobra.Command {
	f := &goalFlags{}
	c := &cobra.Command{
		Use:   string(variant),
		Short: goalShort[variant],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoal(cmd, app, root, variant, f)
		},
	}

	fs := c.Flags()
	fs.StringVar(&f.target, "target", "", "directory holding the input file (default from config, else \"target\")")
	fs.StringVar(&f.inputFile, "input-file", "", "input file name relative to --target")
	fs.StringVar(&f.outputFile, "output-file", "", "output path")
	fs.StringVar(&f.deflateHint, "deflate-hint", "", "deflate hint: keep, true or false")
	fs.BoolVar(&f.verbose, "verbose", false, "ask the tool for more output")
	fs.BoolVar(&f.quiet, "quiet", false, "ask the tool for less output")
	fs.StringVar(&f.logFile, "log-file", "", "write the tool's log to this file")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the command line without running it")

	if variant.IsPackFamily() {
		fs.BoolVar(&f.noGzip, "no-gzip", false, "write a raw .pack file")
		fs.BoolVar(&f.stripDebug, "strip-debug", false, "remove debugging attributes")
		fs.BoolVar(&f.keepFileOrder, "keep-file-order", false, "preserve the order of archive entries")
		fs.BoolVar(&f.noKeepFileOrder, "no-keep-file-order", false, "let the packer reorder archive entries")
		fs.IntVar(&f.segmentLimit, "segment-limit", 0, "estimated segment size in bytes, -1 for a single segment")
		fs.StringVar(&f.effort, "effort", "", "compression effort")
		fs.StringVar(&f.modificationTime, "modification-time", "", "entry times: keep or latest")
		fs.StringVar(&f.unknownAttribute, "unknown-attribute", "", "unknown attributes: error, strip or pass")
		fs.StringVar(&f.packConfigFile, "pack-config-file", "", "pack200 properties file, skipped when missing")
		fs.StringArrayVarP(&f.javaOptions, "java-option", "J", nil, "option for the tool's JVM (repeatable)")
	} else {
		fs.BoolVar(&f.removePackFile, "remove-pack-file", false, "delete the packed input after unpacking")
	}
	if variant == pack200.VariantPack {
		fs.BoolVar(&f.verify, "verify", false, "check the pack200 magic number of the output")
	}
	return c
}

func runGoal(cmd *cobra.Command, app *App, root *rootFlags, variant pack200.Variant, f *goalFlags) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	cfg, err := app.loadConfig(ctx, root.configPath)
	if err != nil {
		return reportError(stderr, asConfigError(err), root.debug)
	}
	debugMode := root.debug || cfg.Debug
	logger := app.newLogger(debugMode)

	opts := cfg.Options(variant)
	if err := applyGoalFlags(cmd.Flags(), f, variant, &opts); err != nil {
		return reportError(stderr, err, debugMode)
	}
	verify := cfg.Verify
	if cmd.Flags().Changed("verify") {
		verify = f.verify
	}

	svc := app.newService(cfg, logger, debugMode)
	req := goal.Request{Variant: variant, Options: opts, Verify: verify}

	if f.dryRun {
		cl, err := svc.Plan(req)
		if err != nil {
			return reportError(stderr, err, debugMode)
		}
		renderDryRun(cmd.OutOrStdout(), variant, goal.WithDefaults(variant, opts), cl)
		return nil
	}

	if err := opts.Validate(variant); err == nil {
		if _, statErr := os.Stat(opts.InputPath()); statErr != nil {
			return reportError(stderr, fmt.Errorf("%w: %s", errInputNotFound, opts.InputPath()), debugMode)
		}
	}

	logger.Debug("Running goal", "goal", variant, "input", opts.InputPath())
	out, err := svc.Run(ctx, req)
	if err != nil {
		return reportError(stderr, err, debugMode)
	}
	renderOutcome(cmd.OutOrStdout(), out, goal.WithDefaults(variant, opts))
	return nil
}

// applyGoalFlags overlays changed flags onto opts. Enum values are parsed
// case-insensitively.
func applyGoalFlags(flags *pflag.FlagSet, f *goalFlags, variant pack200.Variant, opts *pack200.Options) error {
	changed := flags.Changed

	if changed("target") {
		opts.Target = f.target
	}
	if changed("input-file") {
		opts.InputFile = f.inputFile
	}
	if changed("output-file") {
		opts.OutputFile = f.outputFile
	}
	if changed("no-gzip") {
		opts.NoGzip = f.noGzip
	}
	if changed("strip-debug") {
		opts.StripDebug = f.stripDebug
	}
	if changed("keep-file-order") {
		opts.KeepFileOrder = f.keepFileOrder
	}
	if changed("no-keep-file-order") {
		opts.NoKeepFileOrder = f.noKeepFileOrder
	}
	if changed("segment-limit") {
		opts.SegmentLimit = f.segmentLimit
	}
	if changed("effort") {
		opts.Effort = f.effort
	}
	if changed("pack-config-file") {
		opts.ConfigFile = f.packConfigFile
	}
	if changed("verbose") {
		opts.Verbose = f.verbose
	}
	if changed("quiet") {
		opts.Quiet = f.quiet
	}
	if changed("log-file") {
		opts.LogFile = f.logFile
	}
	if changed("java-option") {
		opts.JavaOptions = slices.Clone(f.javaOptions)
	}
	if changed("remove-pack-file") {
		opts.RemovePackFile = f.removePackFile
	}

	var errs []error
	if changed("deflate-hint") {
		v, err := pack200.ParseDeflateHint(f.deflateHint)
		opts.DeflateHint = v
		errs = appendErr(errs, err)
	}
	if changed("modification-time") {
		v, err := pack200.ParseModificationTime(f.modificationTime)
		opts.ModificationTime = v
		errs = appendErr(errs, err)
	}
	if changed("unknown-attribute") {
		v, err := pack200.ParseUnknownAttribute(f.unknownAttribute)
		opts.UnknownAttribute = v
		errs = appendErr(errs, err)
	}
	if len(errs) > 0 {
		return &pack200.InvalidOptionsError{Variant: variant, FieldErrors: errs}
	}
	return nil
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}

func renderDryRun(w io.Writer, variant pack200.Variant, opts pack200.Options, cl pack200.CommandLine) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("Goal:"), variant)
	fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("Input:"), opts.InputPath())
	if opts.OutputFile != "" {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("Output:"), opts.OutputFile)
	} else {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("Output:"), SubtitleStyle.Render("(in place)"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cl.String())
}

func renderOutcome(w io.Writer, out goal.Outcome, opts pack200.Options) {
	target := opts.OutputFile
	if target == "" {
		target = opts.InputPath()
	}
	msg := fmt.Sprintf("%s %s", out.Variant, target)
	if out.Archive != nil {
		kind := "raw"
		if out.Archive.Gzipped {
			kind = "gzip"
		}
		msg += SubtitleStyle.Render(fmt.Sprintf(" (verified, %d bytes, %s)", out.Archive.Size, kind))
	}
	fmt.Fprintln(w, SuccessStyle.Render("✓ ")+msg)
}
