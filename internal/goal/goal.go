// SPDX-License-Identifier: MPL-2.0

// Package goal composes the argument builder, the process invoker and archive
// verification into the pack, repack and unpack operations.
package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/packwrap/packwrap/internal/archive"
	"github.com/packwrap/packwrap/internal/runtime"
	"github.com/packwrap/packwrap/pkg/pack200"
)

// ErrVerificationFailed is returned when a produced archive fails inspection.
var ErrVerificationFailed = errors.New("archive verification failed")

type (
	// Invoker runs a command line. *runtime.Invoker implements it.
	Invoker interface {
		Run(ctx context.Context, cl pack200.CommandLine) *runtime.Result
	}

	// InspectFunc checks a produced archive. archive.Inspect implements it.
	InspectFunc func(path string) (archive.Info, error)

	// Service runs goals. It holds no per-invocation state.
	Service struct {
		builder *pack200.Builder
		invoker Invoker
		inspect InspectFunc
	}

	// Request is the input of a single goal invocation.
	Request struct {
		Variant pack200.Variant
		Options pack200.Options
		// Verify inspects the pack output after a successful run.
		// It is ignored by repack and unpack.
		Verify bool
	}

	// Outcome reports what a goal did.
	Outcome struct {
		Variant     pack200.Variant
		CommandLine pack200.CommandLine
		Result      *runtime.Result
		// Archive is set when the output was verified.
		Archive *archive.Info
	}

	// VerificationError wraps an inspection failure of the pack output.
	VerificationError struct {
		Path  string
		Cause error
	}
)

// NewService creates a Service. A nil inspect defaults to archive.Inspect.
func NewService(builder *pack200.Builder, invoker Invoker, inspect InspectFunc) *Service {
	if builder == nil {
		builder = pack200.NewBuilder()
	}
	if inspect == nil {
		inspect = archive.Inspect
	}
	return &Service{builder: builder, invoker: invoker, inspect: inspect}
}

// Pack compresses <target>/<input> into the output file, which defaults to
// <target>/<input>.pack.gz.
func (s *Service) Pack(ctx context.Context, opts pack200.Options, verify bool) (Outcome, error) {
	return s.Run(ctx, Request{Variant: pack200.VariantPack, Options: opts, Verify: verify})
}

// Repack normalizes the input JAR. An empty output file means in place.
func (s *Service) Repack(ctx context.Context, opts pack200.Options) (Outcome, error) {
	return s.Run(ctx, Request{Variant: pack200.VariantRepack, Options: opts})
}

// Unpack restores a JAR from <target>/<input>.
func (s *Service) Unpack(ctx context.Context, opts pack200.Options) (Outcome, error) {
	return s.Run(ctx, Request{Variant: pack200.VariantUnpack, Options: opts})
}

// Plan validates the request, applies variant defaults and returns the
// command line without running it.
func (s *Service) Plan(req Request) (pack200.CommandLine, error) {
	if err := req.Options.Validate(req.Variant); err != nil {
		return pack200.CommandLine{}, err
	}
	return s.builder.Build(req.Variant, WithDefaults(req.Variant, req.Options)), nil
}

// Run plans the request, runs the process once and, for a verified pack,
// inspects the output.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	out := Outcome{Variant: req.Variant}

	cl, err := s.Plan(req)
	if err != nil {
		return out, err
	}
	out.CommandLine = cl

	out.Result = s.invoker.Run(ctx, cl)
	if !out.Result.Success() {
		return out, out.Result.Err()
	}

	if req.Verify && req.Variant == pack200.VariantPack {
		path := WithDefaults(req.Variant, req.Options).OutputFile
		info, err := s.inspect(path)
		if err != nil {
			return out, &VerificationError{Path: path, Cause: err}
		}
		out.Archive = &info
	}
	return out, nil
}

// WithDefaults fills the output file for pack and unpack when unset. Repack
// keeps an empty output, which normalizes the JAR in place. Unpack takes no
// JVM options, so they are cleared.
func WithDefaults(v pack200.Variant, o pack200.Options) pack200.Options {
	if v == pack200.VariantUnpack {
		o.JavaOptions = nil
	}
	if o.OutputFile != "" {
		return o
	}
	switch v {
	case pack200.VariantPack:
		o.OutputFile = pack200.DefaultPackOutput(o.Target, o.InputFile)
	case pack200.VariantUnpack:
		o.OutputFile = pack200.DefaultUnpackOutput(o.Target, o.InputFile)
	}
	return o
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s: %v", e.Path, e.Cause)
}

// Is reports whether target is ErrVerificationFailed.
func (e *VerificationError) Is(target error) bool { return target == ErrVerificationFailed }

// Unwrap returns the inspection error.
func (e *VerificationError) Unwrap() error { return e.Cause }
