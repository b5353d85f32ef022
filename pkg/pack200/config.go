// SPDX-License-Identifier: MPL-2.0

package pack200

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// PackedSuffix is appended to the input file name to derive the default pack output.
	PackedSuffix = ".pack.gz"
	// RawPackedSuffix is the conventional suffix of raw pack archives.
	RawPackedSuffix = ".pack"
)

var (
	// ErrInvalidOptions is the sentinel error wrapped by InvalidOptionsError.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrMissingTarget is returned when no target directory is configured.
	ErrMissingTarget = errors.New("target directory is required")
	// ErrMissingInputFile is returned when no input file name is configured.
	ErrMissingInputFile = errors.New("input file is required")
	// ErrInvalidSegmentLimit is returned when the segment limit is below -1.
	ErrInvalidSegmentLimit = errors.New("segment limit must be -1 (single segment) or greater")
)

type (
	// Options is the command configuration for a single invocation.
	// Every field is optional unless noted; zero values are never emitted.
	// Fields that do not apply to a variant are ignored by the builder.
	Options struct {
		// Target is the directory holding the input file. Required.
		Target string `json:"target,omitempty" mapstructure:"target"`
		// InputFile is the input file name, relative to Target. Required.
		InputFile string `json:"input_file,omitempty" mapstructure:"input_file"`
		// OutputFile is the output path. Empty for an in-place repack.
		OutputFile string `json:"output_file,omitempty" mapstructure:"output_file"`

		// NoGzip writes a raw .pack file instead of a gzipped one.
		NoGzip bool `json:"no_gzip,omitempty" mapstructure:"no_gzip"`
		// StripDebug removes debugging attributes from class files.
		StripDebug bool `json:"strip_debug,omitempty" mapstructure:"strip_debug"`
		// KeepFileOrder preserves the order of archive entries.
		KeepFileOrder bool `json:"keep_file_order,omitempty" mapstructure:"keep_file_order"`
		// NoKeepFileOrder lets the packer reorder archive entries.
		NoKeepFileOrder bool `json:"no_keep_file_order,omitempty" mapstructure:"no_keep_file_order"`
		// SegmentLimit is the estimated target size of each segment in bytes.
		// Zero means unset; -1 asks for a single segment.
		SegmentLimit int `json:"segment_limit,omitempty" mapstructure:"segment_limit"`
		// Effort is the compression effort, passed through verbatim.
		Effort string `json:"effort,omitempty" mapstructure:"effort"`
		// DeflateHint overrides how deflate flags are recorded.
		DeflateHint DeflateHint `json:"deflate_hint,omitempty" mapstructure:"deflate_hint"`
		// ModificationTime selects how entry times are transmitted.
		ModificationTime ModificationTime `json:"modification_time,omitempty" mapstructure:"modification_time"`
		// UnknownAttribute selects the action on unknown class attributes.
		UnknownAttribute UnknownAttribute `json:"unknown_attribute,omitempty" mapstructure:"unknown_attribute"`
		// ConfigFile is a pack200 properties file. Skipped when it does not exist.
		ConfigFile string `json:"config_file,omitempty" mapstructure:"config_file"`

		// Verbose asks the tool for more output. Suppressed when Quiet is also set.
		Verbose bool `json:"verbose,omitempty" mapstructure:"verbose"`
		// Quiet asks the tool for less output. Suppressed when Verbose is also set.
		Quiet bool `json:"quiet,omitempty" mapstructure:"quiet"`
		// LogFile redirects the tool's log output to a file.
		LogFile string `json:"log_file,omitempty" mapstructure:"log_file"`
		// JavaOptions are passed to the tool's JVM, one -J flag each.
		JavaOptions []string `json:"java_options,omitempty" mapstructure:"java_options"`

		// RemovePackFile deletes the packed input after a successful unpack.
		RemovePackFile bool `json:"remove_pack_file,omitempty" mapstructure:"remove_pack_file"`
	}

	// InvalidOptionsError is returned when Options has invalid fields.
	// It wraps ErrInvalidOptions for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidOptionsError struct {
		Variant     Variant
		FieldErrors []error
	}
)

// InputPath returns the absolute path of the input file, joining Target and
// InputFile. If the working directory cannot be determined the joined path is
// returned as is.
func (o Options) InputPath() string {
	p := filepath.Join(o.Target, o.InputFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Validate checks the fields that must be present for the given variant and
// that enumerated values are known. Conflicting boolean pairs are not errors;
// the builder resolves them.
func (o Options) Validate(v Variant) error {
	var errs []error
	if err := v.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(o.Target) == "" {
		errs = append(errs, ErrMissingTarget)
	}
	if strings.TrimSpace(o.InputFile) == "" {
		errs = append(errs, ErrMissingInputFile)
	}
	if err := o.DeflateHint.Validate(); err != nil {
		errs = append(errs, err)
	}
	if v.IsPackFamily() {
		if o.SegmentLimit < -1 {
			errs = append(errs, ErrInvalidSegmentLimit)
		}
		if err := o.ModificationTime.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := o.UnknownAttribute.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidOptionsError{Variant: v, FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidOptionsError.
func (e *InvalidOptionsError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid %s options: %s", e.Variant, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidOptions followed by the field errors, so errors.Is
// matches both the sentinel and any individual field error.
func (e *InvalidOptionsError) Unwrap() []error {
	return append([]error{ErrInvalidOptions}, e.FieldErrors...)
}

// DefaultPackOutput returns <target>/<inputFile>.pack.gz. The suffix does not
// change with --no-gzip; the file then holds a raw pack stream.
func DefaultPackOutput(target, inputFile string) string {
	return filepath.Join(target, inputFile+PackedSuffix)
}

// DefaultUnpackOutput derives the restored JAR path from a packed input path by
// removing its .pack.gz or .pack suffix. Inputs without either suffix get a
// .jar suffix appended.
func DefaultUnpackOutput(target, inputFile string) string {
	p := filepath.Join(target, inputFile)
	for _, suffix := range []string{PackedSuffix, RawPackedSuffix} {
		if trimmed, ok := strings.CutSuffix(p, suffix); ok && trimmed != "" {
			return trimmed
		}
	}
	return p + ".jar"
}
