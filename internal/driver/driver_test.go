package driver

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeToolchain installs tiny shell-script stand-ins for as/ld/gcc on
// PATH so Build can be exercised without a real assembler present.
func fakeToolchain(t *testing.T, fail string) {
	t.Helper()

	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("fake toolchain scripts require a POSIX shell")
	}

	dir := t.TempDir()

	write := func(name string) {
		body := "#!/bin/sh\n"
		if name == fail {
			body += "echo \"" + name + " failed\" >&2\nexit 1\n"
		} else {
			body += "for a in \"$@\"; do case \"$a\" in -o) shift; touch \"$1\";; esac; done\nexit 0\n"
		}

		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	}

	write("as")
	write("ld")
	write("gcc")

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestBuildRunsAssemblerThenLinker(t *testing.T) {
	fakeToolchain(t, "")

	log := zap.NewNop()
	out := filepath.Join(t.TempDir(), "program")

	err := Build(log, ".intel_syntax noprefix\n", out, Options{})
	require.NoError(t, err)
}

func TestBuildSurfacesAssemblerFailure(t *testing.T) {
	fakeToolchain(t, "as")

	log := zap.NewNop()
	out := filepath.Join(t.TempDir(), "program")

	err := Build(log, ".intel_syntax noprefix\n", out, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "as failed")
}

func TestBuildUsesGccWhenPtx(t *testing.T) {
	fakeToolchain(t, "ld") // ld would fail; gcc path must be taken instead

	log := zap.NewNop()
	out := filepath.Join(t.TempDir(), "program")

	err := Build(log, ".intel_syntax noprefix\n", out, Options{Ptx: true})
	require.NoError(t, err)
}
