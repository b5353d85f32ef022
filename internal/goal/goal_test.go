// SPDX-License-Identifier: MPL-2.0

package goal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/packwrap/packwrap/internal/archive"
	"github.com/packwrap/packwrap/internal/runtime"
	"github.com/packwrap/packwrap/internal/testutil"
	"github.com/packwrap/packwrap/pkg/pack200"
)

func TestHelperProcess(t *testing.T) { testutil.RunFakeTool() }

func newTestService(exitCode int) *Service {
	inv := runtime.NewInvoker(
		runtime.WithCommandContext(testutil.FakeToolCommand(exitCode)),
		runtime.WithOutput(io.Discard, io.Discard),
	)
	return NewService(pack200.NewBuilder(), inv, nil)
}

// copyOriginalJar creates my-applet.original.jar and copies it to
// <dir>/<name>, like a build would before packing.
func copyOriginalJar(t *testing.T, dir, name string) string {
	t.Helper()

	original := testutil.MustWriteJar(t, filepath.Join(t.TempDir(), "my-applet.original.jar"), []byte("class bytes"))
	data, err := os.ReadFile(original)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestPackDefaultOutput(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	input := copyOriginalJar(t, target, "my-applet.jar")
	before, _ := os.ReadFile(input)

	out, err := newTestService(0).Pack(context.Background(), pack200.Options{Target: target, InputFile: "my-applet.jar"}, true)
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	wantOutput := filepath.Join(target, "my-applet.jar.pack.gz")
	if _, err := os.Stat(wantOutput); err != nil {
		t.Errorf("output %s not created: %v", wantOutput, err)
	}
	after, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("input JAR missing after pack: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("input JAR was modified by pack")
	}
	if out.Archive == nil || !out.Archive.Gzipped {
		t.Errorf("Archive = %+v, want verified gzipped archive", out.Archive)
	}
	if got := out.CommandLine.Args(); got[len(got)-2] != wantOutput {
		t.Errorf("output token = %q, want %q", got[len(got)-2], wantOutput)
	}
}

func TestPackNoGzipVerifiesRawArchive(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	copyOriginalJar(t, target, "my-applet.jar")

	out, err := newTestService(0).Pack(context.Background(), pack200.Options{
		Target: target, InputFile: "my-applet.jar", NoGzip: true,
	}, true)
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	wantOutput := filepath.Join(target, "my-applet.jar.pack.gz")
	if _, err := os.Stat(wantOutput); err != nil {
		t.Errorf("raw output not created at the default path: %v", err)
	}
	if got := out.CommandLine.Args(); got[len(got)-2] != wantOutput {
		t.Errorf("output token = %q, want %q", got[len(got)-2], wantOutput)
	}
	if out.Archive == nil || out.Archive.Gzipped {
		t.Errorf("Archive = %+v, want raw archive", out.Archive)
	}
}

func TestPackVerificationFailure(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	copyOriginalJar(t, target, "my-applet.jar")

	svc := NewService(pack200.NewBuilder(), runtime.NewInvoker(
		runtime.WithCommandContext(testutil.FakeToolCommand(0)),
		runtime.WithOutput(io.Discard, io.Discard),
	), func(string) (archive.Info, error) {
		return archive.Info{}, archive.ErrNotPack200
	})

	_, err := svc.Pack(context.Background(), pack200.Options{Target: target, InputFile: "my-applet.jar"}, true)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("Pack() error = %v, want ErrVerificationFailed", err)
	}
	if !errors.Is(err, archive.ErrNotPack200) {
		t.Errorf("Pack() error = %v, want archive.ErrNotPack200 in chain", err)
	}
}

func TestRepackInPlace(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	input := copyOriginalJar(t, target, "my-applet.jar")

	out, err := newTestService(0).Repack(context.Background(), pack200.Options{Target: target, InputFile: "my-applet.jar"})
	if err != nil {
		t.Fatalf("Repack() error = %v", err)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("repack produced extra files: %v", entries)
	}
	st, err := os.Stat(input)
	if err != nil || st.Size() == 0 {
		t.Errorf("input JAR missing or empty after repack: %v", err)
	}
	args := out.CommandLine.Args()
	if args[0] != pack200.FlagRepack || args[len(args)-1] != input {
		t.Errorf("repack args = %q", args)
	}
	if out.Archive != nil {
		t.Errorf("repack should not verify, got %+v", out.Archive)
	}
}

func TestUnpack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		removePackFile bool
	}{
		{name: "keep pack file"},
		{name: "remove pack file", removePackFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target := t.TempDir()
			packed := copyOriginalJar(t, target, "my-applet.original.jar.pack.gz")

			out, err := newTestService(0).Unpack(context.Background(), pack200.Options{
				Target:         target,
				InputFile:      "my-applet.original.jar.pack.gz",
				RemovePackFile: tt.removePackFile,
			})
			if err != nil {
				t.Fatalf("Unpack() error = %v", err)
			}

			restored := filepath.Join(target, "my-applet.original.jar")
			if _, err := os.Stat(restored); err != nil {
				t.Errorf("unpacked JAR not created: %v", err)
			}
			_, err = os.Stat(packed)
			if tt.removePackFile && !errors.Is(err, os.ErrNotExist) {
				t.Errorf("pack file still exists after unpack with removal: %v", err)
			}
			if !tt.removePackFile && err != nil {
				t.Errorf("pack file removed without removal flag: %v", err)
			}
			if got := out.CommandLine.Contains(pack200.FlagRemovePackFile); got != tt.removePackFile {
				t.Errorf("command line has %s = %v", pack200.FlagRemovePackFile, got)
			}
		})
	}
}

func TestRunFailures(t *testing.T) {
	t.Parallel()

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()

		target := t.TempDir()
		copyOriginalJar(t, target, "my-applet.jar")

		out, err := newTestService(1).Pack(context.Background(), pack200.Options{Target: target, InputFile: "my-applet.jar"}, false)
		if !errors.Is(err, runtime.ErrCommandFailed) {
			t.Fatalf("Pack() error = %v, want ErrCommandFailed", err)
		}
		if out.Result == nil || out.Result.ExitCode != 1 {
			t.Errorf("Result = %+v", out.Result)
		}
	})

	t.Run("invalid options never start a process", func(t *testing.T) {
		t.Parallel()

		called := false
		inv := runtime.NewInvoker(runtime.WithCommandContext(func(ctx context.Context, name string, arg ...string) *exec.Cmd {
			called = true
			return exec.CommandContext(ctx, name, arg...)
		}))
		svc := NewService(nil, inv, nil)

		_, err := svc.Unpack(context.Background(), pack200.Options{InputFile: "a.jar.pack.gz"})
		if !errors.Is(err, pack200.ErrInvalidOptions) {
			t.Fatalf("Unpack() error = %v, want ErrInvalidOptions", err)
		}
		if called {
			t.Error("process started for invalid options")
		}
	})
}

func TestPlanAppliesDefaults(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil, nil)
	target := t.TempDir()

	tests := []struct {
		variant pack200.Variant
		input   string
		want    []string
	}{
		{
			variant: pack200.VariantPack,
			input:   "app.jar",
			want:    []string{filepath.Join(target, "app.jar.pack.gz"), filepath.Join(target, "app.jar")},
		},
		{
			variant: pack200.VariantRepack,
			input:   "app.jar",
			want:    []string{pack200.FlagRepack, filepath.Join(target, "app.jar")},
		},
		{
			variant: pack200.VariantUnpack,
			input:   "app.jar.pack.gz",
			want:    []string{filepath.Join(target, "app.jar.pack.gz"), filepath.Join(target, "app.jar")},
		},
	}

	for _, tt := range tests {
		cl, err := svc.Plan(Request{Variant: tt.variant, Options: pack200.Options{Target: target, InputFile: tt.input}})
		if err != nil {
			t.Fatalf("Plan(%s) error = %v", tt.variant, err)
		}
		if got := cl.Args(); !slices.Equal(got, tt.want) {
			t.Errorf("Plan(%s).Args() = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestWithDefaultsDropsUnpackJavaOptions(t *testing.T) {
	t.Parallel()

	opts := pack200.Options{
		Target: "target", InputFile: "app.jar.pack.gz", OutputFile: "out.jar",
		JavaOptions: []string{"-Xmx1g"},
	}
	if got := WithDefaults(pack200.VariantUnpack, opts); got.JavaOptions != nil {
		t.Errorf("unpack JavaOptions = %q, want nil", got.JavaOptions)
	}
	if got := WithDefaults(pack200.VariantPack, opts); len(got.JavaOptions) != 1 {
		t.Errorf("pack JavaOptions = %q, want [-Xmx1g]", got.JavaOptions)
	}
	if len(opts.JavaOptions) != 1 {
		t.Errorf("caller's JavaOptions changed: %q", opts.JavaOptions)
	}
}
