// SPDX-License-Identifier: MPL-2.0

package pack200

import (
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// Flags emitted by the builder.
const (
	FlagRepack           = "--repack"
	FlagNoGzip           = "--no-gzip"
	FlagStripDebug       = "--strip-debug"
	FlagNoKeepFileOrder  = "--no-keep-file-order"
	FlagKeepFileOrder    = "--keep-file-order"
	FlagSegmentLimit     = "--segment-limit"
	FlagEffort           = "--effort"
	FlagDeflateHint      = "--deflate-hint"
	FlagModificationTime = "--modification-time"
	FlagUnknownAttribute = "--unknown-attribute"
	FlagConfigFile       = "--config-file"
	FlagVerbose          = "--verbose"
	FlagQuiet            = "--quiet"
	FlagLogFile          = "--log-file"
	FlagJavaOption       = "-J"
	FlagRemovePackFile   = "--remove-pack-file"
)

type (
	// Builder assembles command lines. The zero value is not usable; use NewBuilder.
	Builder struct {
		packExecutable   string
		unpackExecutable string
		stat             func(string) (fs.FileInfo, error)
		logger           *log.Logger
		debug            bool
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)

	// argList accumulates tokens for one command line.
	argList struct {
		args []string
	}
)

// NewBuilder creates a Builder that emits the default executable names and
// checks the auxiliary config file with os.Stat.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		packExecutable:   PackExecutable,
		unpackExecutable: UnpackExecutable,
		stat:             os.Stat,
		logger:           log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithPackExecutable overrides the executable used for pack and repack.
func WithPackExecutable(path string) BuilderOption {
	return func(b *Builder) {
		if path != "" {
			b.packExecutable = path
		}
	}
}

// WithUnpackExecutable overrides the executable used for unpack.
func WithUnpackExecutable(path string) BuilderOption {
	return func(b *Builder) {
		if path != "" {
			b.unpackExecutable = path
		}
	}
}

// WithLogger sets the logger used for debug warnings.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDebug enables the missing config file warning.
func WithDebug(debug bool) BuilderOption {
	return func(b *Builder) {
		b.debug = debug
	}
}

// WithStat replaces the file existence check. Used by tests.
func WithStat(stat func(string) (fs.FileInfo, error)) BuilderOption {
	return func(b *Builder) {
		if stat != nil {
			b.stat = stat
		}
	}
}

// Build assembles the command line for the variant. It never fails: fields
// that are unset, or that do not apply to the variant, are simply omitted.
// An unknown variant is treated as pack.
func (b *Builder) Build(v Variant, o Options) CommandLine {
	if v == VariantUnpack {
		return NewCommandLine(b.unpackExecutable, b.unpackArgs(o)...)
	}
	return NewCommandLine(b.packExecutable, b.packArgs(v == VariantRepack, o)...)
}

func (b *Builder) packArgs(repack bool, o Options) []string {
	var a argList
	if repack {
		a.flag(FlagRepack)
	}
	a.flagIf(o.NoGzip, FlagNoGzip)
	a.flagIf(o.StripDebug, FlagStripDebug)
	a.flagIf(o.NoKeepFileOrder && !o.KeepFileOrder, FlagNoKeepFileOrder)
	a.flagIf(o.KeepFileOrder && !o.NoKeepFileOrder, FlagKeepFileOrder)
	if o.SegmentLimit != 0 {
		a.value(FlagSegmentLimit, strconv.Itoa(o.SegmentLimit))
	}
	a.valueIf(o.Effort, FlagEffort)
	a.valueIf(o.DeflateHint.String(), FlagDeflateHint)
	a.valueIf(o.ModificationTime.String(), FlagModificationTime)
	a.valueIf(o.UnknownAttribute.String(), FlagUnknownAttribute)
	b.addConfigFile(&a, o.ConfigFile)
	addVerbosity(&a, o)
	a.valueIf(o.LogFile, FlagLogFile)
	for _, opt := range o.JavaOptions {
		a.value(FlagJavaOption, opt)
	}
	a.bare(o.OutputFile)
	a.flag(o.InputPath())
	return a.args
}

func (b *Builder) unpackArgs(o Options) []string {
	var a argList
	a.valueIf(o.DeflateHint.String(), FlagDeflateHint)
	a.flagIf(o.RemovePackFile, FlagRemovePackFile)
	addVerbosity(&a, o)
	a.valueIf(o.LogFile, FlagLogFile)
	a.flag(o.InputPath())
	a.bare(o.OutputFile)
	return a.args
}

// addConfigFile emits the properties file only when it exists.
func (b *Builder) addConfigFile(a *argList, path string) {
	if path == "" {
		return
	}
	if _, err := b.stat(path); err != nil {
		if b.debug {
			b.logger.Warn("The configuration file doesn't exist", "path", path)
		}
		return
	}
	a.value(FlagConfigFile, path)
}

// addVerbosity emits --verbose or --quiet, never both. When both are
// requested each suppresses the other.
func addVerbosity(a *argList, o Options) {
	a.flagIf(o.Verbose && !o.Quiet, FlagVerbose)
	a.flagIf(o.Quiet && !o.Verbose, FlagQuiet)
}

func (a *argList) flag(name string) {
	a.args = append(a.args, name)
}

func (a *argList) flagIf(cond bool, name string) {
	if cond {
		a.flag(name)
	}
}

// value appends a flag and its value as two separate tokens.
func (a *argList) value(name, val string) {
	a.args = append(a.args, name, val)
}

func (a *argList) valueIf(val, name string) {
	if val != "" {
		a.value(name, val)
	}
}

// bare appends a positional path when set.
func (a *argList) bare(path string) {
	if path != "" {
		a.flag(path)
	}
}
