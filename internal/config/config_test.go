// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"strings"
	"testing"

	"github.com/packwrap/packwrap/internal/issue"
	"github.com/packwrap/packwrap/pkg/pack200"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

// isolatedLoad loads with an empty user config dir and the given work dir.
func isolatedLoad(t *testing.T, workDir string) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
		WorkDir:       workDir,
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := isolatedLoad(t, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", cfg.Target, DefaultTarget)
	}
	if cfg.Debug || cfg.Verify {
		t.Errorf("Debug/Verify should default to false: %+v", cfg)
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("Sources = %v, want none", cfg.Sources)
	}
}

func TestLoadProjectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), `
final_name: "app-1.0"
verify:     true
pack: {
	segment_limit: -1
	effort:        9
	deflate_hint:  "true"
	java_options: ["-Xmx1g", "-Dfoo=bar"]
}
unpack: remove_pack_file: true
`)

	cfg, err := isolatedLoad(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Verify {
		t.Error("Verify = false, want true")
	}
	if got := cfg.Sources; len(got) != 1 || got[0] != filepath.Join(dir, ProjectFileName) {
		t.Errorf("Sources = %v", got)
	}

	pack := cfg.Options(pack200.VariantPack)
	if pack.Target != DefaultTarget || pack.InputFile != "app-1.0.jar" {
		t.Errorf("pack Target/InputFile = %q/%q", pack.Target, pack.InputFile)
	}
	if pack.SegmentLimit != -1 || pack.Effort != "9" || pack.DeflateHint != pack200.DeflateHintTrue {
		t.Errorf("pack options = %+v", pack)
	}
	if !slices.Equal(pack.JavaOptions, []string{"-Xmx1g", "-Dfoo=bar"}) {
		t.Errorf("JavaOptions = %q", pack.JavaOptions)
	}

	unpack := cfg.Options(pack200.VariantUnpack)
	if unpack.InputFile != "app-1.0.jar.pack.gz" || !unpack.RemovePackFile {
		t.Errorf("unpack options = %+v", unpack)
	}

	repack := cfg.Options(pack200.VariantRepack)
	if repack.SegmentLimit != 0 || repack.InputFile != "app-1.0.jar" {
		t.Errorf("repack should not inherit pack section: %+v", repack)
	}
}

func TestOptionsDoesNotShareSlices(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Pack.JavaOptions = []string{"-Xmx1g"}
	o := cfg.Options(pack200.VariantPack)
	o.JavaOptions[0] = "-Xmx2g"
	if cfg.Pack.JavaOptions[0] != "-Xmx1g" {
		t.Error("Options() returned a slice aliasing the config")
	}
}

func TestLoadMergesUserAndProject(t *testing.T) {
	t.Parallel()

	userDir := t.TempDir()
	workDir := t.TempDir()
	writeFile(t, filepath.Join(userDir, UserFileName), "target: \"build\"\ndebug: true\n")
	writeFile(t, filepath.Join(workDir, ProjectFileName), "target: \"out\"\n")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: userDir, WorkDir: workDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target != "out" {
		t.Errorf("Target = %q, want project value", cfg.Target)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want user value true")
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("Sources = %v, want user and project files", cfg.Sources)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ProjectFileName), "target: \"ignored\"\n")
	explicit := filepath.Join(t.TempDir(), "ci.cue")
	writeFile(t, explicit, "target: \"ci\"\n")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: explicit,
		ConfigDirPath:  t.TempDir(),
		WorkDir:        workDir,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target != "ci" {
		t.Errorf("Target = %q, want explicit file to replace the project file", cfg.Target)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue"),
		ConfigDirPath:  t.TempDir(),
	})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "load configuration" || !ae.HasSuggestions() {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoadSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"segment limit below -1", "pack: segment_limit: -4\n", "pack.segment_limit"},
		{"unknown deflate hint", "unpack: deflate_hint: \"maybe\"\n", "unpack.deflate_hint"},
		{"effort out of range", "repack: effort: 12\n", "repack.effort"},
		{"unknown field", "compress: true\n", "compress"},
		{"remove pack file in pack section", "pack: remove_pack_file: true\n", "pack.remove_pack_file"},
		{"syntax error", "target: \n", ProjectFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ProjectFileName), tt.content)
			_, err := isolatedLoad(t, dir)
			if err == nil {
				t.Fatal("Load() error = nil, want schema error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PACKWRAP_TARGET", "from-env")
	t.Setenv("PACKWRAP_PACK_SEGMENT_LIMIT", "5000")
	t.Setenv("PACKWRAP_UNPACK_REMOVE_PACK_FILE", "true")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "target: \"from-file\"\npack: segment_limit: 100\n")

	cfg, err := isolatedLoad(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target != "from-env" {
		t.Errorf("Target = %q, want env override", cfg.Target)
	}
	if cfg.Pack.SegmentLimit != 5000 {
		t.Errorf("Pack.SegmentLimit = %d, want 5000", cfg.Pack.SegmentLimit)
	}
	if !cfg.Unpack.RemovePackFile {
		t.Error("Unpack.RemovePackFile = false, want env override")
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if path != filepath.Join(dir, ProjectFileName) {
		t.Errorf("WriteDefault() path = %q", path)
	}

	if _, err := WriteDefault(dir, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteDefault() error = %v, want ErrConfigExists", err)
	}
	if _, err := WriteDefault(dir, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}

	cfg, err := isolatedLoad(t, dir)
	if err != nil {
		t.Fatalf("Load() of generated file error = %v", err)
	}
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q after round trip", cfg.Target)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.FinalName = "app-1.0"
	cfg.Pack.SegmentLimit = -1
	cfg.Pack.JavaOptions = []string{"-Xmx1g"}

	cueOut, err := Encode(cfg, FormatCUE)
	if err != nil {
		t.Fatalf("Encode(cue) error = %v", err)
	}
	for _, want := range []string{"final_name:", "\"app-1.0\"", "segment_limit:", "-1", "\"-Xmx1g\""} {
		if !strings.Contains(string(cueOut), want) {
			t.Errorf("Encode(cue) = %s, want %q", cueOut, want)
		}
	}

	tomlOut, err := Encode(cfg, FormatTOML)
	if err != nil {
		t.Fatalf("Encode(toml) error = %v", err)
	}
	if !strings.Contains(string(tomlOut), "[pack]") || !strings.Contains(string(tomlOut), "segment_limit = -1") {
		t.Errorf("Encode(toml) = %s", tomlOut)
	}

	jsonOut, err := Encode(cfg, FormatJSON)
	if err != nil {
		t.Fatalf("Encode(json) error = %v", err)
	}
	var decoded Config
	if err := json.Unmarshal(jsonOut, &decoded); err != nil {
		t.Fatalf("Encode(json) produced invalid JSON: %v", err)
	}
	if decoded.FinalName != "app-1.0" || decoded.Pack.SegmentLimit != -1 {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := Encode(cfg, "yaml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Encode(yaml) error = %v, want ErrInvalidFormat", err)
	}
}

func TestExecutablesResolve(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	name := "unpack200"
	if filepath.Separator == '\\' {
		name += ".exe"
	}
	writeFile(t, filepath.Join(home, "bin", name), "")

	tests := []struct {
		name    string
		exe     Executables
		variant pack200.Variant
		want    string
	}{
		{"explicit pack200", Executables{Pack200: "/opt/pack200", JavaHome: home}, pack200.VariantRepack, "/opt/pack200"},
		{"explicit unpack200", Executables{Unpack200: "/opt/unpack200"}, pack200.VariantUnpack, "/opt/unpack200"},
		{"java home hit", Executables{JavaHome: home}, pack200.VariantUnpack, filepath.Join(home, "bin", name)},
		{"java home miss falls back to PATH", Executables{JavaHome: home}, pack200.VariantPack, pack200.PackExecutable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.exe.Resolve(tt.variant); got != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.variant, got, tt.want)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"target"}, "target"},
		{[]string{"pack", "java_options", "1"}, "pack.java_options[1]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	// Not parallel: mutates the package-level override and XDG_CONFIG_HOME.
	t.Cleanup(Reset)

	SetConfigDirOverride("/custom/packwrap")
	if dir, err := ConfigDir(); err != nil || dir != "/custom/packwrap" {
		t.Errorf("ConfigDir() with override = %q, %v", dir, err)
	}
	Reset()

	if goruntime.GOOS != "linux" {
		return
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if dir, err := ConfigDir(); err != nil || dir != filepath.Join(xdg, AppName) {
		t.Errorf("ConfigDir() = %q, %v, want %q", dir, err, filepath.Join(xdg, AppName))
	}
}
