// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/packwrap/packwrap/pkg/pack200"
)

// DefaultTarget is the build output directory used when none is configured.
const DefaultTarget = "target"

type (
	// Executables overrides where the pack200 tools are found.
	Executables struct {
		// Pack200 is the path of the pack200 executable.
		Pack200 string `json:"pack200,omitempty" mapstructure:"pack200"`
		// Unpack200 is the path of the unpack200 executable.
		Unpack200 string `json:"unpack200,omitempty" mapstructure:"unpack200"`
		// JavaHome is searched for bin/<tool> before PATH. Falls back to $JAVA_HOME.
		JavaHome string `json:"java_home,omitempty" mapstructure:"java_home"`
	}

	// Config is the effective packwrap configuration.
	Config struct {
		// Target is the default directory for every goal.
		Target string `json:"target,omitempty" mapstructure:"target"`
		// FinalName is the JAR base name used to derive default input files.
		FinalName string `json:"final_name,omitempty" mapstructure:"final_name"`
		// Debug enables debug logging and the command echo.
		Debug bool `json:"debug,omitempty" mapstructure:"debug"`
		// Verify checks the pack200 magic of pack outputs.
		Verify bool `json:"verify,omitempty" mapstructure:"verify"`

		Executables Executables     `json:"executables" mapstructure:"executables"`
		Pack        pack200.Options `json:"pack" mapstructure:"pack"`
		Repack      pack200.Options `json:"repack" mapstructure:"repack"`
		Unpack      pack200.Options `json:"unpack" mapstructure:"unpack"`

		// Sources lists the files merged into this config, lowest precedence first.
		Sources []string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{Target: DefaultTarget}
}

// Options returns the options section for a variant with Target and InputFile
// filled from the top-level target and final_name when the section leaves
// them empty. The result does not share slices with the config.
func (c *Config) Options(v pack200.Variant) pack200.Options {
	var o pack200.Options
	switch v {
	case pack200.VariantPack:
		o = c.Pack
	case pack200.VariantRepack:
		o = c.Repack
	case pack200.VariantUnpack:
		o = c.Unpack
	}
	o.JavaOptions = slices.Clone(o.JavaOptions)

	if o.Target == "" {
		o.Target = c.Target
	}
	if o.InputFile == "" && c.FinalName != "" {
		o.InputFile = c.FinalName + ".jar"
		if v == pack200.VariantUnpack {
			o.InputFile += pack200.PackedSuffix
		}
	}
	return o
}

// Resolve returns the executable for a variant: the configured path, else
// <java_home>/bin/<tool> when that file exists, else the bare tool name for
// a PATH lookup.
func (e Executables) Resolve(v pack200.Variant) string {
	explicit := e.Unpack200
	if v.IsPackFamily() {
		explicit = e.Pack200
	}
	if explicit != "" {
		return explicit
	}

	name := v.DefaultExecutable()
	home := e.JavaHome
	if home == "" {
		home = os.Getenv("JAVA_HOME")
	}
	if home != "" {
		p := filepath.Join(home, "bin", name)
		if runtime.GOOS == "windows" {
			p += ".exe"
		}
		if fileExists(p) {
			return p
		}
	}
	return name
}
