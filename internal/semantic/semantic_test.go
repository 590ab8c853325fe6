package semantic

import (
	"testing"

	"github.com/adi-family/lib-typespec-api/internal/parser"
)

func TestResolveProperties(t *testing.T) {
	file, err := parser.Parse(`
		model Base { id: string; }
		model Derived {
			...Base;
			name: string;
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	models := BuildModelMap(file)
	derived := models["Derived"]
	props := ResolveProperties(derived, models)

	if len(props) != 2 {
		t.Fatalf("want 2 properties, got %d: %+v", len(props), props)
	}
	if props[0].Name != "id" || props[1].Name != "name" {
		t.Errorf("property order = [%s, %s], want [id, name]", props[0].Name, props[1].Name)
	}
}

func TestResolvePropertiesNestedSpread(t *testing.T) {
	file, err := parser.Parse(`
		model A { a: string; }
		model B { ...A; b: string; }
		model C { ...B; c: string; }
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	models := BuildModelMap(file)
	props := ResolveProperties(models["C"], models)

	var names []string
	for _, p := range props {
		names = append(names, p.Name)
	}
	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestResolvePropertiesOwnPropertyAfterSpread(t *testing.T) {
	// Not deduplicated: a property name repeated between a spread model and
	// the model's own declaration appears twice, the own copy listed last.
	file, err := parser.Parse(`
		model Base { id: string; }
		model Derived {
			...Base;
			id: int64;
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	models := BuildModelMap(file)
	props := ResolveProperties(models["Derived"], models)

	if len(props) != 2 {
		t.Fatalf("want 2 properties (no dedup), got %d", len(props))
	}
	if props[0].Name != "id" || props[1].Name != "id" {
		t.Errorf("props = %+v, want [id, id]", props)
	}
}

func TestBuildScalarMapOnlyExtends(t *testing.T) {
	file, err := parser.Parse(`
		scalar uuid extends string;
		scalar opaque;
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	scalars := BuildScalarMap(file)
	if scalars["uuid"] != "string" {
		t.Errorf("uuid = %q, want string", scalars["uuid"])
	}
	if _, ok := scalars["opaque"]; ok {
		t.Errorf("opaque should be absent from scalar map, no extends clause")
	}
}

func TestHTTPMethodDefaultsToGet(t *testing.T) {
	file, err := parser.Parse(`
		interface Foo {
			list(): string;
			@post create(): string;
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ops := file.Interfaces()[0].Operations
	if HTTPMethod(ops[0].Decorators) != "GET" {
		t.Errorf("default method = %s, want GET", HTTPMethod(ops[0].Decorators))
	}
	if HTTPMethod(ops[1].Decorators) != "POST" {
		t.Errorf("explicit method = %s, want POST", HTTPMethod(ops[1].Decorators))
	}
}

func TestFullRouteConcatenatesInterfaceAndOperation(t *testing.T) {
	file, err := parser.Parse(`
		@route("/users")
		interface Users {
			@route("/{id}")
			get(@path id: string): string;
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	iface := file.Interfaces()[0]
	op := iface.Operations[0]
	route := FullRoute(iface.Decorators, op.Decorators)
	if route != "/users/{id}" {
		t.Errorf("route = %q, want /users/{id}", route)
	}
}
