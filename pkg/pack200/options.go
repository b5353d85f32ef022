// SPDX-License-Identifier: MPL-2.0

package pack200

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DeflateHintKeep preserves the deflate hint of each input entry.
	DeflateHintKeep DeflateHint = "keep"
	// DeflateHintTrue asks the tool to deflate every entry.
	DeflateHintTrue DeflateHint = "true"
	// DeflateHintFalse asks the tool to store every entry uncompressed.
	DeflateHintFalse DeflateHint = "false"

	// ModificationTimeKeep preserves per-entry modification times.
	ModificationTimeKeep ModificationTime = "keep"
	// ModificationTimeLatest stamps every entry with the latest time in the archive.
	ModificationTimeLatest ModificationTime = "latest"

	// UnknownAttributeError fails on class files carrying unknown attributes.
	UnknownAttributeError UnknownAttribute = "error"
	// UnknownAttributeStrip drops unknown attributes.
	UnknownAttributeStrip UnknownAttribute = "strip"
	// UnknownAttributePass passes class files with unknown attributes through unchanged.
	UnknownAttributePass UnknownAttribute = "pass"
)

var (
	// ErrInvalidDeflateHint is the sentinel error wrapped by InvalidDeflateHintError.
	ErrInvalidDeflateHint = errors.New("invalid deflate hint")
	// ErrInvalidModificationTime is the sentinel error wrapped by InvalidModificationTimeError.
	ErrInvalidModificationTime = errors.New("invalid modification time")
	// ErrInvalidUnknownAttribute is the sentinel error wrapped by InvalidUnknownAttributeError.
	ErrInvalidUnknownAttribute = errors.New("invalid unknown attribute action")
)

type (
	// DeflateHint controls how the tool records the deflate flag of archive entries.
	// The zero value ("") means the tool default and is never emitted.
	DeflateHint string

	// InvalidDeflateHintError is returned when a DeflateHint value is not recognized.
	// It wraps ErrInvalidDeflateHint for errors.Is() compatibility.
	InvalidDeflateHintError struct {
		Value DeflateHint
	}

	// ModificationTime controls how entry modification times are transmitted.
	// The zero value ("") means the tool default and is never emitted.
	ModificationTime string

	// InvalidModificationTimeError is returned when a ModificationTime value is not recognized.
	// It wraps ErrInvalidModificationTime for errors.Is() compatibility.
	InvalidModificationTimeError struct {
		Value ModificationTime
	}

	// UnknownAttribute selects the action taken on class files with unknown attributes.
	// The zero value ("") means the tool default and is never emitted.
	UnknownAttribute string

	// InvalidUnknownAttributeError is returned when an UnknownAttribute value is not recognized.
	// It wraps ErrInvalidUnknownAttribute for errors.Is() compatibility.
	InvalidUnknownAttributeError struct {
		Value UnknownAttribute
	}
)

// ParseDeflateHint converts a case-insensitive string to a DeflateHint.
func ParseDeflateHint(s string) (DeflateHint, error) {
	h := DeflateHint(strings.ToLower(strings.TrimSpace(s)))
	if err := h.Validate(); err != nil {
		return "", err
	}
	return h, nil
}

// Validate returns an error if the DeflateHint is not one of the known values.
// The zero value is valid.
func (h DeflateHint) Validate() error {
	switch h {
	case "", DeflateHintKeep, DeflateHintTrue, DeflateHintFalse:
		return nil
	default:
		return &InvalidDeflateHintError{Value: h}
	}
}

// IsSet reports whether a hint was configured.
func (h DeflateHint) IsSet() bool { return h != "" }

// String returns the lowercase token emitted on the command line.
func (h DeflateHint) String() string { return strings.ToLower(string(h)) }

// Error implements the error interface.
func (e *InvalidDeflateHintError) Error() string {
	return fmt.Sprintf("invalid deflate hint %q (valid: keep, true, false)", e.Value)
}

// Unwrap returns ErrInvalidDeflateHint for errors.Is() compatibility.
func (e *InvalidDeflateHintError) Unwrap() error { return ErrInvalidDeflateHint }

// ParseModificationTime converts a case-insensitive string to a ModificationTime.
func ParseModificationTime(s string) (ModificationTime, error) {
	m := ModificationTime(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate returns an error if the ModificationTime is not one of the known values.
// The zero value is valid.
func (m ModificationTime) Validate() error {
	switch m {
	case "", ModificationTimeKeep, ModificationTimeLatest:
		return nil
	default:
		return &InvalidModificationTimeError{Value: m}
	}
}

// IsSet reports whether a modification time policy was configured.
func (m ModificationTime) IsSet() bool { return m != "" }

// String returns the lowercase token emitted on the command line.
func (m ModificationTime) String() string { return strings.ToLower(string(m)) }

// Error implements the error interface.
func (e *InvalidModificationTimeError) Error() string {
	return fmt.Sprintf("invalid modification time %q (valid: keep, latest)", e.Value)
}

// Unwrap returns ErrInvalidModificationTime for errors.Is() compatibility.
func (e *InvalidModificationTimeError) Unwrap() error { return ErrInvalidModificationTime }

// ParseUnknownAttribute converts a case-insensitive string to an UnknownAttribute.
func ParseUnknownAttribute(s string) (UnknownAttribute, error) {
	a := UnknownAttribute(strings.ToLower(strings.TrimSpace(s)))
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Validate returns an error if the UnknownAttribute is not one of the known values.
// The zero value is valid.
func (a UnknownAttribute) Validate() error {
	switch a {
	case "", UnknownAttributeError, UnknownAttributeStrip, UnknownAttributePass:
		return nil
	default:
		return &InvalidUnknownAttributeError{Value: a}
	}
}

// IsSet reports whether an unknown attribute action was configured.
func (a UnknownAttribute) IsSet() bool { return a != "" }

// String returns the lowercase token emitted on the command line.
func (a UnknownAttribute) String() string { return strings.ToLower(string(a)) }

// Error implements the error interface.
func (e *InvalidUnknownAttributeError) Error() string {
	return fmt.Sprintf("invalid unknown attribute action %q (valid: error, strip, pass)", e.Value)
}

// Unwrap returns ErrInvalidUnknownAttribute for errors.Is() compatibility.
func (e *InvalidUnknownAttributeError) Unwrap() error { return ErrInvalidUnknownAttribute }
