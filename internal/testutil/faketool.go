// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

const (
	helperEnv   = "GO_WANT_HELPER_PROCESS"
	exitCodeEnv = "HELPER_EXIT_CODE"

	// ArgsPrefix starts the line on which the fake tool echoes its arguments.
	ArgsPrefix = "ARGS: "

	flagRepack         = "--repack"
	flagNoGzip         = "--no-gzip"
	flagRemovePackFile = "--remove-pack-file"
)

// Pack200Payload is what the fake pack200 writes before optional gzip.
var Pack200Payload = []byte{0xCA, 0xFE, 0xD0, 0x0D, 0x07, 0x96}

// FakeToolCommand returns a replacement for exec.CommandContext that runs the
// current test binary's TestHelperProcess as the named tool. A non-zero
// exitCode makes the tool fail without touching any file.
func FakeToolCommand(exitCode int) func(ctx context.Context, name string, arg ...string) *exec.Cmd {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, arg...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			helperEnv+"=1",
			exitCodeEnv+"="+strconv.Itoa(exitCode),
		)
		return cmd
	}
}

// RunFakeTool imitates pack200 or unpack200 when the process was started by
// FakeToolCommand and exits. Otherwise it returns immediately.
func RunFakeTool() {
	if os.Getenv(helperEnv) != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) == 0 {
		os.Exit(2)
	}

	fmt.Fprintln(os.Stdout, ArgsPrefix+strings.Join(args[1:], " "))
	if code, _ := strconv.Atoi(os.Getenv(exitCodeEnv)); code != 0 {
		fmt.Fprintln(os.Stderr, "simulated failure")
		os.Exit(code)
	}
	if err := fakeTool(filepath.Base(args[0]), args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

// fakeTool reproduces the file-level effects of the real tools: pack writes a
// (gzipped) archive, repack rewrites the JAR, unpack writes a JAR and may
// delete its input.
func fakeTool(name string, args []string) error {
	n := len(args)
	if n == 0 {
		return fmt.Errorf("%s: missing input file", name)
	}
	switch {
	case strings.HasPrefix(name, "unpack200"):
		if n < 2 {
			return fmt.Errorf("%s: missing output file", name)
		}
		in, out := args[n-2], args[n-1]
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		if err := writeJar(out, data); err != nil {
			return err
		}
		if slices.Contains(args, flagRemovePackFile) {
			return os.Remove(in)
		}
		return nil
	case slices.Contains(args, flagRepack):
		in := args[n-1]
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		target := in
		if n >= 2 && !isFlag(args[n-2]) && args[n-2] != flagRepack {
			target = args[n-2]
		}
		return os.WriteFile(target, data, 0o644)
	default:
		if n < 2 {
			return fmt.Errorf("%s: missing output file", name)
		}
		in, out := args[n-1], args[n-2]
		if _, err := os.Stat(in); err != nil {
			return err
		}
		if slices.Contains(args, flagNoGzip) {
			return os.WriteFile(out, Pack200Payload, 0o644)
		}
		var buf bytes.Buffer
		gz := pgzip.NewWriter(&buf)
		if _, err := gz.Write(Pack200Payload); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		return os.WriteFile(out, buf.Bytes(), 0o644)
	}
}

func isFlag(s string) bool { return strings.HasPrefix(s, "-") }

func writeJar(path string, payload []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Manifest-Version: 1.0\n"); err != nil {
		return err
	}
	if len(payload) > 0 {
		w, err := zw.Create("payload.bin")
		if err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return zw.Close()
}
