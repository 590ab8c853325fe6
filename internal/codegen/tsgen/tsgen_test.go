package tsgen

import (
	"strings"
	"testing"

	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/parser"
)

const sampleSource = `
model User {
	id: string;
	nickname?: string;
}

namespace Shapes {
	model Circle {}
}

enum Status {
	Active: "active",
}
`

func generate(t *testing.T, side codegen.Side) map[string]string {
	t.Helper()
	file, err := parser.Parse(sampleSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Emitter{}.Generate(file, "api", side)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := map[string]string{}
	for _, f := range files {
		out[f.Path] = f.Content
	}
	return out
}

func TestGenerateModelsInterface(t *testing.T) {
	out := generate(t, codegen.SideBoth)
	models := out["models.ts"]
	if !strings.Contains(models, "export interface User {") {
		t.Errorf("models.ts missing User interface:\n%s", models)
	}
	if !strings.Contains(models, "nickname?: string;") {
		t.Errorf("models.ts optional field rendering wrong:\n%s", models)
	}
}

func TestGenerateEnumsPascalCase(t *testing.T) {
	out := generate(t, codegen.SideBoth)
	enums := out["enums.ts"]
	if !strings.Contains(enums, "Active = \"active\"") {
		t.Errorf("enums.ts missing Active member:\n%s", enums)
	}
}

func TestNamedTypeRenderedWithoutModelsPrefix(t *testing.T) {
	src := `
		model Wrapper {
			value: Inner;
		}
		model Inner {}
	`
	file, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Emitter{}.Generate(file, "api", codegen.SideBoth)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var models string
	for _, f := range files {
		if f.Path == "models.ts" {
			models = f.Content
		}
	}
	if !strings.Contains(models, "value: Inner;") {
		t.Errorf("Named type reference should render bare, without a Models. prefix:\n%s", models)
	}
}

func TestGenericTypeArgsPreservedForNonRecordGeneric(t *testing.T) {
	src := `
		model Page<T> {
			items: T[];
		}
		model User { id: string; }
		model Wrapper {
			page: Page<User>;
		}
	`
	file, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Emitter{}.Generate(file, "api", codegen.SideBoth)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var models string
	for _, f := range files {
		if f.Path == "models.ts" {
			models = f.Content
		}
	}
	if !strings.Contains(models, "page: Page<User>;") {
		t.Errorf("models.ts should render generic type args, not drop them:\n%s", models)
	}
}

func TestClientOmittedForServerOnly(t *testing.T) {
	out := generate(t, codegen.SideServer)
	if _, ok := out["client.ts"]; ok {
		t.Errorf("client.ts should be absent for SideServer")
	}
	if _, ok := out["server.ts"]; !ok {
		t.Errorf("server.ts missing for SideServer")
	}
}
