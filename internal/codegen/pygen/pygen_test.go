package pygen

import (
	"strings"
	"testing"

	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/parser"
)

const sampleSource = `
model User {
	id: string;
	name: string;
	nickname?: string;
}

enum Status {
	Active: "active",
	Inactive: "inactive",
}

interface Users {
	@get
	@route("/users/{id}")
	getUser(@path id: string): User;
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

func TestGenerateModelsDataclass(t *testing.T) {
	out := generate(t, codegen.SideBoth)
	models := out["models.py"]
	if !strings.Contains(models, "@dataclass") {
		t.Errorf("models.py missing @dataclass:\n%s", models)
	}
	if !strings.Contains(models, "class User(object):") {
		t.Errorf("models.py missing class User(object):\n%s", models)
	}
	if !strings.Contains(models, "nickname: Optional[str] = None") {
		t.Errorf("models.py optional field not rendered as Optional with default:\n%s", models)
	}
}

func TestGenerateEnumsScreamingSnake(t *testing.T) {
	out := generate(t, codegen.SideBoth)
	enums := out["enums.py"]
	if !strings.Contains(enums, "ACTIVE = \"active\"") {
		t.Errorf("enums.py missing ACTIVE member:\n%s", enums)
	}
}

func TestGenerateLiteralUnionPreservesDeclarationOrder(t *testing.T) {
	src := `
		model Shape {
			kind: "zebra" | "apple" | "mango";
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
		if f.Path == "models.py" {
			models = f.Content
		}
	}
	if !strings.Contains(models, `Literal["zebra", "apple", "mango"]`) {
		t.Errorf("models.py should preserve declaration order in the Literal union, not sort it:\n%s", models)
	}
}

func TestGenerateClientOnlyWhenSideIncludesClient(t *testing.T) {
	both := generate(t, codegen.SideBoth)
	if _, ok := both["client/__init__.py"]; !ok {
		t.Errorf("client/__init__.py missing for SideBoth")
	}

	serverOnly := generate(t, codegen.SideServer)
	if _, ok := serverOnly["client/__init__.py"]; ok {
		t.Errorf("client/__init__.py should be absent for SideServer")
	}
	if _, ok := serverOnly["server/__init__.py"]; !ok {
		t.Errorf("server/__init__.py missing for SideServer")
	}
}
