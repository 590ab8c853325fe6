package rustgen

import (
	"strings"
	"testing"

	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/parser"
)

func generate(t *testing.T, src string, side codegen.Side) map[string]string {
	t.Helper()
	file, err := parser.Parse(src)
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

func TestGenerateStructWithSerde(t *testing.T) {
	out := generate(t, `
		model User {
			id: string;
			nickname?: string;
		}
	`, codegen.SideBoth)

	models := out["src/models.rs"]
	if !strings.Contains(models, "pub struct User {") {
		t.Errorf("models.rs missing struct User:\n%s", models)
	}
	if !strings.Contains(models, "pub nickname: Option<String>,") {
		t.Errorf("models.rs optional field rendering wrong:\n%s", models)
	}
}

func TestGenerateInlineEnumFromStringLiteralUnion(t *testing.T) {
	out := generate(t, `
		model Shape {
			kind: "circle" | "square";
		}
	`, codegen.SideBoth)

	models := out["src/models.rs"]
	if !strings.Contains(models, "pub enum ShapeKind {") {
		t.Errorf("models.rs missing hoisted ShapeKind enum:\n%s", models)
	}
	if !strings.Contains(models, "kind: ShapeKind,") {
		t.Errorf("models.rs property should reference the hoisted enum:\n%s", models)
	}
}

func TestGenerateKeywordFieldEscaped(t *testing.T) {
	out := generate(t, `
		model Task {
			type: string;
		}
	`, codegen.SideBoth)

	models := out["src/models.rs"]
	if !strings.Contains(models, "r#type: String,") {
		t.Errorf("models.rs should escape the Rust keyword field name \"type\":\n%s", models)
	}
}

func TestCargoTomlDependsOnSideSpecificCrates(t *testing.T) {
	clientOnly := generate(t, `model Foo {}`, codegen.SideClient)
	cargo := clientOnly["Cargo.toml"]
	if !strings.Contains(cargo, "reqwest") {
		t.Errorf("Cargo.toml missing reqwest for client side:\n%s", cargo)
	}
	if strings.Contains(cargo, "axum") {
		t.Errorf("Cargo.toml should not depend on axum for client-only side:\n%s", cargo)
	}
	if _, ok := clientOnly["src/server.rs"]; ok {
		t.Errorf("src/server.rs should be absent for SideClient")
	}
}

func TestAnonymousSpreadParamSkippedInClientSignature(t *testing.T) {
	out := generate(t, `
		model CreateUserRequest { name: string; }
		interface Users {
			create(...CreateUserRequest): string;
		}
	`, codegen.SideClient)

	client := out["src/client.rs"]
	if !strings.Contains(client, "pub async fn create(&self)") {
		t.Errorf("client.rs should drop the anonymous spread param from the signature:\n%s", client)
	}
}
