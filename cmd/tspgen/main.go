// Command tspgen parses one or more SDL source files, resolves their
// imports, and emits client/server code for one of four target languages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/codegen/oasgen"
	"github.com/adi-family/lib-typespec-api/internal/codegen/pygen"
	"github.com/adi-family/lib-typespec-api/internal/codegen/rustgen"
	"github.com/adi-family/lib-typespec-api/internal/codegen/tsgen"
	"github.com/adi-family/lib-typespec-api/internal/resolver"
	"github.com/adi-family/lib-typespec-api/internal/watch"
)

// Exit code constants name every distinct failure mode rather than
// returning a bare 1.
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitParseError       = 3
	ExitGenerationError  = 4
)

func emitters() map[codegen.Language]codegen.Emitter {
	return map[codegen.Language]codegen.Emitter{
		codegen.LanguagePython:     pygen.Emitter{},
		codegen.LanguageTypeScript: tsgen.Emitter{},
		codegen.LanguageRust:       rustgen.Emitter{},
		codegen.LanguageOpenAPI:    oasgen.Emitter{},
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		language    codegen.Language
		outputDir   string
		side        codegen.Side
		packageName string
		watchMode   bool
	)
	side = codegen.SideBoth

	root := &cobra.Command{
		Use:   "tspgen [flags] <file...>",
		Short: "Generate client/server code from SDL source files",
		Args:  cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}

	root.Flags().VarP(&language, "language", "l", "target language: python|typescript|rust|openapi")
	root.Flags().StringVarP(&outputDir, "output", "o", "generated", "output directory")
	root.Flags().VarP(&side, "side", "s", "which side to emit: client|server|both")
	root.Flags().StringVarP(&packageName, "package", "p", "api", "generated package/module name")
	root.Flags().BoolVarP(&watchMode, "watch", "w", false, "watch input files and regenerate on change")
	root.MarkFlagRequired("language")

	exitCode := ExitSuccess

	root.RunE = func(cmd *cobra.Command, args []string) error {
		generate := func() ([]string, error) {
			file, inputs, err := load(args)
			if err != nil {
				exitCode = classifyLoadError(err)
				return inputs, err
			}
			if err := emitAll(file, language, outputDir, packageName, side); err != nil {
				exitCode = ExitGenerationError
				return inputs, err
			}
			return inputs, nil
		}

		if !watchMode {
			_, err := generate()
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl-C to stop")
		return watch.Run(ctx, generate, func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "regeneration failed: %v\n", err)
		})
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if exitCode == ExitSuccess {
			exitCode = ExitInvalidArguments
		}
		return exitCode
	}
	return exitCode
}

func load(inputs []string) (*ast.File, []string, error) {
	resolvedInputs := make([]string, len(inputs))
	for i, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			abs = in
		}
		resolvedInputs[i] = abs
	}

	file, err := resolver.Load(inputs)
	if err != nil {
		return nil, resolvedInputs, err
	}
	return file, resolvedInputs, nil
}

func classifyLoadError(err error) int {
	if errors.Is(err, os.ErrNotExist) {
		return ExitIOError
	}
	return ExitParseError
}

func emitAll(file *ast.File, language codegen.Language, outputDir, packageName string, side codegen.Side) error {
	files, err := codegen.Generate(emitters(), file, language, packageName, side)
	if err != nil {
		return err
	}

	langDir := filepath.Join(outputDir, language.String())
	if err := os.MkdirAll(langDir, 0o755); err != nil {
		return codegen.IOError(err)
	}

	for _, f := range files {
		path := filepath.Join(langDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return codegen.IOError(err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return codegen.IOError(err)
		}
	}
	return nil
}
