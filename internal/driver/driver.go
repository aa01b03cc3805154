// Package driver shells out to the system assembler and linker to turn
// generated assembly text into an executable. It is the only package
// in this module with process-level side effects: every other stage is
// a pure function of its input.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// Options configures one toolchain invocation.
type Options struct {
	// Ptx selects the --ptx link path: gcc -no-pie against the given
	// CUDA stub object instead of a plain ld link. CudaStub is only
	// consulted when Ptx is true.
	Ptx      bool
	CudaStub string
}

// Build writes asm to a temporary directory, assembles it there, and
// links the object straight into the executable at output. The temporary
// directory is created before use and removed on every exit path,
// including a failing sub-process.
func Build(log *zap.Logger, asm string, output string, opts Options) error {
	tmp, err := os.MkdirTemp("", "feic-*")
	if err != nil {
		return fmt.Errorf("driver: create temp dir: %w", err)
	}

	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			log.Warn("failed to remove temp dir", zap.String("path", tmp), zap.Error(rmErr))
		}
	}()

	asmPath := filepath.Join(tmp, "program.s")
	if err := os.WriteFile(asmPath, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("driver: write assembly: %w", err)
	}

	objPath := filepath.Join(tmp, "program.o")

	if err := runTool(log, "as", "--64", asmPath, "-o", objPath); err != nil {
		return err
	}

	if opts.Ptx {
		args := []string{"-no-pie", objPath, "-o", output}
		if opts.CudaStub != "" {
			args = append(args, opts.CudaStub)
		}

		return runTool(log, "gcc", args...)
	}

	return runTool(log, "ld", objPath, "-o", output)
}

// runTool execs name with args, surfacing its stderr verbatim on a
// non-zero exit.
func runTool(log *zap.Logger, name string, args ...string) error {
	log.Debug("running toolchain command", zap.String("tool", name), zap.Strings("args", args))

	cmd := exec.Command(name, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("driver: %s failed: %w\n%s", name, err, out)
	}

	return nil
}
