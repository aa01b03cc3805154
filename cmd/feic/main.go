// Command feic compiles a single source file to an x86-64 executable,
// or, without -o, prints the generated assembly to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/golangee/feic/internal/codegen"
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/driver"
	"github.com/golangee/feic/internal/lexer"
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/source"
	"github.com/golangee/feic/internal/syntax"
	"github.com/golangee/feic/internal/types"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		output   string
		ptx      bool
		logLevel string
		cudaStub string
	)

	cmd := &cobra.Command{
		Use:           "feic <source>",
		Short:         "Compile a single-file source program to x86-64",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], output, ptx, logLevel, cudaStub)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "write the linked executable to this path instead of printing assembly")
	flags.BoolVar(&ptx, "ptx", false, "allow #ptx call_ptx lowering and link with the CUDA stub")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&cudaStub, "cuda-stub", "", "object file to link in for --ptx (required with --ptx if any call_ptx is present)")

	return cmd
}

func run(path, output string, ptx bool, logLevel, cudaStub string) error {
	log, err := diag.NewLogger(os.Stderr, logLevel, "text")
	if err != nil {
		return fmt.Errorf("feic: %w", err)
	}

	defer func() { _ = log.Sync() }()

	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feic: %v\n", err)

		return err
	}

	files := source.NewSet()
	fileID := files.Add(path)

	toks, err := lexer.Lex(fileID, string(text))
	if err != nil {
		fmt.Fprint(os.Stderr, diag.Explain(err, files))

		return err
	}

	f, err := syntax.Parse(toks)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.Explain(err, files))

		return err
	}

	ctx, err := resolve.Run(f)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.Explain(err, files))

		return err
	}

	if _, err := types.Check(ctx, f); err != nil {
		fmt.Fprint(os.Stderr, diag.Explain(err, files))

		return err
	}

	asm, err := codegen.Generate(ctx, f, codegen.Options{Ptx: ptx})
	if err != nil {
		fmt.Fprint(os.Stderr, diag.Explain(err, files))

		return err
	}

	if output == "" {
		fmt.Println(asm)

		return nil
	}

	if err := driver.Build(log, asm, output, driver.Options{Ptx: ptx, CudaStub: cudaStub}); err != nil {
		fmt.Fprintf(os.Stderr, "feic: %v\n", err)

		return err
	}

	return nil
}
