// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE renders the config in the packwrap.cue syntax.
	FormatCUE Format = "cue"
	// FormatTOML renders the config as TOML.
	FormatTOML Format = "toml"
	// FormatJSON renders the config as indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid format")

type (
	// Format is an output encoding for 'config dump'.
	Format string

	// InvalidFormatError is returned when a Format is not known.
	InvalidFormatError struct {
		Value Format
	}
)

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format %q (valid: cue, toml, json)", e.Value)
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Validate returns an error if the format is not cue, toml or json.
func (f Format) Validate() error {
	switch f {
	case FormatCUE, FormatTOML, FormatJSON:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Encode renders cfg in the given format. Unset values are omitted so the
// output can be loaded back as a config file.
func Encode(cfg *Config, f Format) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch f {
	case FormatTOML:
		return GenerateTOML(cfg)
	case FormatJSON:
		return GenerateJSON(cfg)
	default:
		return GenerateCUE(cfg)
	}
}

// GenerateJSON renders cfg as indented JSON.
func GenerateJSON(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// GenerateTOML renders cfg as TOML.
func GenerateTOML(cfg *Config) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	out, err := toml.Marshal(integralNumbers(m))
	if err != nil {
		return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return out, nil
}

// GenerateCUE renders cfg as a CUE file. JSON is valid CUE, so the JSON form
// is compiled and reformatted, which keeps the struct field order.
func GenerateCUE(cfg *Config) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	v := cuecontext.New().CompileBytes(data)
	if v.Err() != nil {
		return nil, fmt.Errorf("failed to encode config as CUE: %w", v.Err())
	}

	node := v.Syntax()
	if st, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: st.Elts}
	}
	out, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("failed to format CUE: %w", err)
	}
	return append([]byte("// packwrap configuration. See 'packwrap config --help'.\n\n"), out...), nil
}

// integralNumbers converts the float64 values produced by decoding JSON back
// to int64 where they have no fraction, so TOML prints -1 rather than -1.0.
func integralNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = integralNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = integralNumbers(e)
		}
	case float64:
		if t == math.Trunc(t) {
			return int64(t)
		}
	}
	return v
}
