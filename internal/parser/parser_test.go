package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adi-family/lib-typespec-api/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return file
}

func TestParseModel(t *testing.T) {
	file := mustParse(t, `
		model User {
			id: string;
			name: string;
			age?: int32;
		}
	`)

	models := file.Models()
	if len(models) != 1 {
		t.Fatalf("want 1 model, got %d", len(models))
	}
	m := models[0]
	if m.Name != "User" {
		t.Errorf("name = %q, want User", m.Name)
	}
	if len(m.Properties) != 3 {
		t.Fatalf("want 3 properties, got %d", len(m.Properties))
	}
	if m.Properties[2].Name != "age" || !m.Properties[2].Optional {
		t.Errorf("age property = %+v, want optional age", m.Properties[2])
	}
}

func TestParseModelWithSpread(t *testing.T) {
	file := mustParse(t, `
		model Base { id: string; }
		model Derived {
			...Base;
			name: string;
		}
	`)

	derived := file.Models()[1]
	if len(derived.SpreadRefs) != 1 {
		t.Fatalf("want 1 spread ref, got %d", len(derived.SpreadRefs))
	}
	if ast.BaseName(derived.SpreadRefs[0]) != "Base" {
		t.Errorf("spread ref = %v, want Base", derived.SpreadRefs[0])
	}
	if len(derived.Properties) != 1 || derived.Properties[0].Name != "name" {
		t.Errorf("own properties = %+v, want just name", derived.Properties)
	}
}

func TestParseEnumExplicitValues(t *testing.T) {
	file := mustParse(t, `
		enum Status {
			Active: "active",
			Inactive: "inactive",
		}
	`)

	e := file.Enums()[0]
	if len(e.Members) != 2 {
		t.Fatalf("want 2 members, got %d", len(e.Members))
	}
	v, ok := e.Members[0].Value.(*ast.ValueString)
	if !ok || v.Value != "active" {
		t.Errorf("first member value = %+v, want ValueString(active)", e.Members[0].Value)
	}
}

func TestParseInterfaceWithDecorators(t *testing.T) {
	file := mustParse(t, `
		@route("/users")
		interface Users {
			@get
			@route("/{id}")
			getUser(@path id: string): User;
		}
	`)

	iface := file.Interfaces()[0]
	if len(iface.Decorators) != 1 || iface.Decorators[0].Name != "route" {
		t.Fatalf("interface decorators = %+v", iface.Decorators)
	}
	op := iface.Operations[0]
	if len(op.Decorators) != 2 {
		t.Fatalf("op decorators = %+v", op.Decorators)
	}
	if len(op.Params) != 1 || op.Params[0].Name != "id" {
		t.Fatalf("op params = %+v", op.Params)
	}
}

func TestParseDecoratorDottedName(t *testing.T) {
	file := mustParse(t, `
		@Foo.Bar.baz
		model User {
			id: string;
		}
	`)

	model := file.Models()[0]
	if len(model.Decorators) != 1 || model.Decorators[0].Name != "Foo.Bar.baz" {
		t.Fatalf("model decorators = %+v", model.Decorators)
	}
}

func TestParseInterfaceAnonymousSpreadParam(t *testing.T) {
	file := mustParse(t, `
		interface Users {
			create(...CreateUserRequest): User;
		}
	`)

	param := file.Interfaces()[0].Operations[0].Params[0]
	if !param.Spread || param.Name != "" {
		t.Errorf("param = %+v, want anonymous spread", param)
	}
}

func TestParseInterfaceNamedSpreadParam(t *testing.T) {
	file := mustParse(t, `
		interface Users {
			create(...req: CreateUserRequest): User;
		}
	`)

	param := file.Interfaces()[0].Operations[0].Params[0]
	if !param.Spread || param.Name != "req" {
		t.Errorf("param = %+v, want named spread \"req\"", param)
	}
}

func TestParseGenericModel(t *testing.T) {
	file := mustParse(t, `
		model Page<T> {
			items: T[];
			total: int64;
		}
	`)

	m := file.Models()[0]
	if diff := cmp.Diff([]string{"T"}, m.TypeParams); diff != "" {
		t.Errorf("type params mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnionTypeProperty(t *testing.T) {
	file := mustParse(t, `
		model Shape {
			kind: "circle" | "square";
		}
	`)

	prop := file.Models()[0].Properties[0]
	union, ok := prop.TypeRef.(*ast.TypeRefUnion)
	if !ok {
		t.Fatalf("prop type = %T, want *ast.TypeRefUnion", prop.TypeRef)
	}
	if len(union.Variants) != 2 {
		t.Fatalf("want 2 variants, got %d", len(union.Variants))
	}
}

func TestParseUnionThenIntersectionPrecedence(t *testing.T) {
	// "A | B & C" parses as Intersection([Union([A, B]), C]), the grammar's
	// deliberately non-conventional precedence.
	file := mustParse(t, `alias X = A | B & C;`)

	inter, ok := file.Aliases()[0].TypeRef.(*ast.TypeRefIntersection)
	if !ok {
		t.Fatalf("alias type = %T, want *ast.TypeRefIntersection", file.Aliases()[0].TypeRef)
	}
	if len(inter.Parts) != 2 {
		t.Fatalf("want 2 intersection parts, got %d", len(inter.Parts))
	}
	if _, ok := inter.Parts[0].(*ast.TypeRefUnion); !ok {
		t.Errorf("first intersection part = %T, want *ast.TypeRefUnion", inter.Parts[0])
	}
}

func TestParseCustomScalar(t *testing.T) {
	file := mustParse(t, `@format("uuid") scalar uuid extends string;`)

	s := file.Scalars()[0]
	if s.Name != "uuid" || s.Extends != "string" {
		t.Errorf("scalar = %+v, want uuid extends string", s)
	}
}

func TestParseNestedNamespaceKeepsDecorators(t *testing.T) {
	file := mustParse(t, `
		@doc("top")
		namespace Foo {
			model Bar {}
		}
	`)

	if len(file.Declarations) != 1 {
		t.Fatalf("want 1 declaration, got %d", len(file.Declarations))
	}
	ns, ok := file.Declarations[0].(*ast.Namespace)
	if !ok {
		t.Fatalf("declaration = %T, want *ast.Namespace", file.Declarations[0])
	}
	if len(ns.Decorators) != 1 || ns.Decorators[0].Name != "doc" {
		t.Errorf("namespace decorators = %+v, want [doc]", ns.Decorators)
	}
}

func TestParseTopLevelNamespaceDiscardsDecorators(t *testing.T) {
	file := mustParse(t, `
		@doc("ignored")
		namespace Foo;
	`)

	if file.Namespace != "Foo" {
		t.Errorf("namespace = %q, want Foo", file.Namespace)
	}
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := Parse(`model {}`)
	if err == nil {
		t.Fatal("want error for missing model name")
	}
}
