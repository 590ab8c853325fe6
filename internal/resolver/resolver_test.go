package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadResolvesImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.tsp", `model Base { id: string; }`)
	main := writeFile(t, dir, "main.tsp", `
		import "./base.tsp";
		model Derived { ...Base; name: string; }
	`)

	file, err := Load([]string{main})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(file.Models()) != 2 {
		t.Fatalf("want 2 models, got %d", len(file.Models()))
	}
}

func TestLoadSkipsExternalImports(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.tsp", `
		import "@typespec/http";
		model Foo {}
	`)

	file, err := Load([]string{main})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(file.Models()) != 1 {
		t.Fatalf("want 1 model, got %d", len(file.Models()))
	}
}

func TestLoadSkipsNonexistentImports(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.tsp", `
		import "./missing.tsp";
		model Foo {}
	`)

	file, err := Load([]string{main})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(file.Models()) != 1 {
		t.Fatalf("want 1 model, got %d", len(file.Models()))
	}
}

func TestLoadBreaksImportCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tsp", `
		import "./b.tsp";
		model A {}
	`)
	bPath := writeFile(t, dir, "b.tsp", `
		import "./a.tsp";
		model B {}
	`)

	file, err := Load([]string{bPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var names []string
	for _, m := range file.Models() {
		names = append(names, m.Name)
	}
	if len(names) != 2 {
		t.Fatalf("want 2 models (no infinite cycle), got %d: %v", len(names), names)
	}
}

func TestLoadLastNamespaceWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ns.tsp", `namespace Imported;`)
	main := writeFile(t, dir, "main.tsp", `
		import "./ns.tsp";
		namespace Main;
	`)

	file, err := Load([]string{main})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Namespace != "Main" {
		t.Errorf("namespace = %q, want Main (the entry file's own namespace wins last)", file.Namespace)
	}
}
