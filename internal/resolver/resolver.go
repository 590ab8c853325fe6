// Package resolver reads one or more SDL entry-point files, recursively
// resolves their "import" statements, and merges the results into a single
// ast.File.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/parser"
)

const externalImportPrefix = "@typespec/"

// Load reads and parses every input path, resolves their imports, and
// merges everything into a single ast.File. A fresh "resolved" path set is
// seeded per call, so separate calls never share import-cycle state.
func Load(inputs []string) (*ast.File, error) {
	resolved := map[string]struct{}{}
	combined := ast.NewFile()

	for _, input := range inputs {
		canonical := canonicalize(input)
		if _, seen := resolved[canonical]; seen {
			continue
		}
		resolved[canonical] = struct{}{}

		file, err := parseFile(input)
		if err != nil {
			return nil, err
		}

		merged, err := resolveImports(file, filepath.Dir(input), resolved)
		if err != nil {
			return nil, err
		}

		mergeInto(combined, merged)
	}

	return combined, nil
}

func parseFile(path string) (*ast.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := parser.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return file, nil
}

// resolveImports recursively follows file's import statements relative to
// basePath, merging each resolved import's usings and declarations. It
// never returns the file's own "imports" list in its result; it carries
// forward usings/namespace/declarations only.
func resolveImports(file *ast.File, basePath string, resolved map[string]struct{}) (*ast.File, error) {
	result := &ast.File{
		Usings:       append([]ast.Using{}, file.Usings...),
		Namespace:    file.Namespace,
		Declarations: append([]ast.Declaration{}, file.Declarations...),
	}

	for _, imp := range file.Imports {
		if len(imp.Path) >= len(externalImportPrefix) && imp.Path[:len(externalImportPrefix)] == externalImportPrefix {
			continue
		}

		importPath := filepath.Join(basePath, imp.Path)
		if filepath.Ext(importPath) == "" {
			importPath += ".tsp"
		}

		canonical := canonicalize(importPath)
		if _, seen := resolved[canonical]; seen {
			continue
		}
		resolved[canonical] = struct{}{}

		if _, err := os.Stat(importPath); err != nil {
			// Nonexistent import targets silently contribute nothing.
			continue
		}

		importedFile, err := parseFile(importPath)
		if err != nil {
			return nil, err
		}

		merged, err := resolveImports(importedFile, filepath.Dir(importPath), resolved)
		if err != nil {
			return nil, err
		}

		result.Usings = append(result.Usings, merged.Usings...)
		result.Declarations = append(result.Declarations, merged.Declarations...)
		// Don't override namespace from imports.
	}

	return result, nil
}

// canonicalize resolves symlinks and makes path absolute, falling back to
// the un-canonicalized path on any failure.
func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return real
}

// mergeInto folds src into dst: usings and declarations accumulate, and
// src's namespace overwrites dst's namespace only when src actually set
// one — the last input file that declares a top-level namespace wins.
// Namespaces declared in imported files never reach src (resolveImports
// keeps only the entry file's own namespace).
func mergeInto(dst, src *ast.File) {
	dst.Usings = append(dst.Usings, src.Usings...)
	dst.Declarations = append(dst.Declarations, src.Declarations...)
	if src.Namespace != "" {
		dst.Namespace = src.Namespace
	}
}
