package oasgen

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/parser"
)

func generate(t *testing.T, src string) map[string]string {
	t.Helper()
	file, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Emitter{}.Generate(file, "My API", codegen.SideBoth)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := map[string]string{}
	for _, f := range files {
		out[f.Path] = f.Content
	}
	return out
}

func TestGenerateValidJSON(t *testing.T) {
	out := generate(t, `
		model User {
			id: string;
			nickname?: string;
		}
	`)

	var doc map[string]any
	if err := json.Unmarshal([]byte(out["openapi.json"]), &doc); err != nil {
		t.Fatalf("openapi.json is not valid JSON: %v\n%s", err, out["openapi.json"])
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("openapi version = %v, want 3.0.3", doc["openapi"])
	}

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	user := schemas["User"].(map[string]any)
	required, _ := user["required"].([]any)
	if len(required) != 1 || required[0] != "id" {
		t.Errorf("User.required = %v, want [id]", required)
	}
}

func TestGeneratePathsMergeMethodsUnderSharedKey(t *testing.T) {
	out := generate(t, `
		@route("/users")
		interface Users {
			@get list(): string;
			@post create(): string;
		}
	`)

	var doc map[string]any
	if err := json.Unmarshal([]byte(out["openapi.json"]), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	paths := doc["paths"].(map[string]any)
	pathItem, ok := paths["/users"].(map[string]any)
	if !ok {
		t.Fatalf("paths missing /users: %v", paths)
	}
	if _, ok := pathItem["get"]; !ok {
		t.Errorf("path item missing get: %v", pathItem)
	}
	if _, ok := pathItem["post"]; !ok {
		t.Errorf("path item missing post: %v", pathItem)
	}
}

func Test204DetectionViaTypeRefOnly(t *testing.T) {
	out := generate(t, `
		interface Users {
			delete(): { @statusCode code: 204; };
		}
	`)

	var doc map[string]any
	if err := json.Unmarshal([]byte(out["openapi.json"]), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	paths := doc["paths"].(map[string]any)
	op := paths[""].(map[string]any)["get"].(map[string]any)
	responses := op["responses"].(map[string]any)
	if _, ok := responses["204"]; !ok {
		t.Errorf("responses missing 204: %v", responses)
	}
}

func TestYAMLQuotesRefStrings(t *testing.T) {
	out := generate(t, `
		model Wrapper { inner: Inner; }
		model Inner {}
	`)
	yaml := out["openapi.yaml"]
	if !strings.Contains(yaml, "\"#/components/schemas/Inner\"") {
		t.Errorf("yaml should quote a $ref value, it contains '#':\n%s", yaml)
	}
	if !strings.Contains(yaml, "openapi: 3.0.3") {
		t.Errorf("yaml should leave a plain string like 3.0.3 unquoted:\n%s", yaml)
	}
}
