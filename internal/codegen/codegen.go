// Package codegen defines the shared emitter contract (Emitter, Generate,
// Language, Side, CodegenError) that internal/codegen/pygen, tsgen, rustgen,
// and oasgen all implement against.
package codegen

import (
	"fmt"

	"github.com/adi-family/lib-typespec-api/internal/ast"
)

// Language selects which backend emits code. The string form also doubles
// as a cobra/pflag flag value via Set, so the CLI binds directly to it.
type Language int

const (
	LanguagePython Language = iota
	LanguageTypeScript
	LanguageRust
	LanguageOpenAPI
)

func (l Language) String() string {
	switch l {
	case LanguagePython:
		return "python"
	case LanguageTypeScript:
		return "typescript"
	case LanguageRust:
		return "rust"
	case LanguageOpenAPI:
		return "openapi"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value / flag.Value, accepting both canonical names
// and short aliases (py, ts, rs, oas).
func (l *Language) Set(s string) error {
	switch s {
	case "python", "py":
		*l = LanguagePython
	case "typescript", "ts":
		*l = LanguageTypeScript
	case "rust", "rs":
		*l = LanguageRust
	case "openapi", "oas":
		*l = LanguageOpenAPI
	default:
		return fmt.Errorf("unknown language %q (want python|typescript|rust|openapi)", s)
	}
	return nil
}

func (l Language) Type() string { return "language" }

// Side selects which half of the client/server pair(s) to emit.
type Side int

const (
	SideClient Side = iota
	SideServer
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	case SideBoth:
		return "both"
	default:
		return "unknown"
	}
}

func (s *Side) Set(v string) error {
	switch v {
	case "client":
		*s = SideClient
	case "server":
		*s = SideServer
	case "both":
		*s = SideBoth
	default:
		return fmt.Errorf("unknown side %q (want client|server|both)", v)
	}
	return nil
}

func (s Side) Type() string { return "side" }

func (s Side) IncludesClient() bool { return s == SideClient || s == SideBoth }
func (s Side) IncludesServer() bool { return s == SideServer || s == SideBoth }

// CodegenError is the error type every emitter backend returns: a
// three-way split between I/O failure, output-formatting failure, and a
// free-form generation failure (an emitter's own semantic precondition not
// being met).
type CodegenError struct {
	Kind    CodegenErrorKind
	Message string
	Err     error // wrapped underlying error, if any
}

type CodegenErrorKind int

const (
	ErrIO CodegenErrorKind = iota
	ErrFormat
	ErrGeneration
)

func (e *CodegenError) Error() string {
	var kind string
	switch e.Kind {
	case ErrIO:
		kind = "IO error"
	case ErrFormat:
		kind = "format error"
	default:
		kind = "generation error"
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", kind, e.Message)
	}
	return fmt.Sprintf("%s: %v", kind, e.Err)
}

func (e *CodegenError) Unwrap() error { return e.Err }

func IOError(err error) error {
	return &CodegenError{Kind: ErrIO, Err: err}
}

func FormatError(err error) error {
	return &CodegenError{Kind: ErrFormat, Err: err}
}

func GenerationError(format string, args ...any) error {
	return &CodegenError{Kind: ErrGeneration, Message: fmt.Sprintf(format, args...)}
}

// GeneratedFile is one emitted output: a path relative to the output
// directory, and its full contents.
type GeneratedFile struct {
	Path    string
	Content string
}

// Emitter is implemented by each of the four backend packages.
type Emitter interface {
	Generate(file *ast.File, packageName string, side Side) ([]GeneratedFile, error)
}

// Generate dispatches to the emitter for language. OpenAPI ignores side.
func Generate(emitters map[Language]Emitter, file *ast.File, language Language, packageName string, side Side) ([]GeneratedFile, error) {
	emitter, ok := emitters[language]
	if !ok {
		return nil, GenerationError("no emitter registered for language %s", language)
	}
	return emitter.Generate(file, packageName, side)
}
