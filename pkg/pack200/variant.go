// SPDX-License-Identifier: MPL-2.0

package pack200

import (
	"errors"
	"fmt"
)

const (
	// VariantPack compresses a JAR into a packed (and by default gzipped) archive.
	VariantPack Variant = "pack"
	// VariantRepack normalizes a JAR by packing and unpacking it in one step.
	VariantRepack Variant = "repack"
	// VariantUnpack restores a JAR from its packed form.
	VariantUnpack Variant = "unpack"

	// PackExecutable is the default executable for the pack and repack variants.
	PackExecutable = "pack200"
	// UnpackExecutable is the default executable for the unpack variant.
	UnpackExecutable = "unpack200"
)

// ErrInvalidVariant is the sentinel error wrapped by InvalidVariantError.
var ErrInvalidVariant = errors.New("invalid variant")

type (
	// Variant selects the command profile used to assemble a command line.
	Variant string

	// InvalidVariantError is returned when a Variant value is not recognized.
	// It wraps ErrInvalidVariant for errors.Is() compatibility.
	InvalidVariantError struct {
		Value Variant
	}
)

// Variants returns all supported variants in display order.
func Variants() []Variant {
	return []Variant{VariantPack, VariantRepack, VariantUnpack}
}

// Validate returns an error if the Variant is not one of the known values.
func (v Variant) Validate() error {
	switch v {
	case VariantPack, VariantRepack, VariantUnpack:
		return nil
	default:
		return &InvalidVariantError{Value: v}
	}
}

// IsPackFamily reports whether the variant drives the pack200 executable.
func (v Variant) IsPackFamily() bool {
	return v == VariantPack || v == VariantRepack
}

// DefaultExecutable returns the executable name used when none is configured.
func (v Variant) DefaultExecutable() string {
	if v == VariantUnpack {
		return UnpackExecutable
	}
	return PackExecutable
}

// String returns the variant name.
func (v Variant) String() string { return string(v) }

// Error implements the error interface.
func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid variant %q (valid: pack, repack, unpack)", e.Value)
}

// Unwrap returns ErrInvalidVariant for errors.Is() compatibility.
func (e *InvalidVariantError) Unwrap() error { return ErrInvalidVariant }
