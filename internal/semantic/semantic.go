// Package semantic provides the shared, non-type-checking helpers every
// emitter backend builds on: the scalar map, the model map, spread
// resolution, and small decorator accessors for the handful of
// well-known decorator names the emitters care about (@doc, @route, the
// HTTP verb decorators, @path, @query, @body, @format). The
// AST itself never assigns decorators meaning; these functions are where
// that meaning lives.
package semantic

import (
	"strings"

	"github.com/adi-family/lib-typespec-api/internal/ast"
)

// ScalarMap maps a user-declared scalar name to the base type it extends.
// Only scalars that declare "extends" are included: a scalar with no
// extends clause carries no usable base type information for code
// generation.
type ScalarMap map[string]string

// BuildScalarMap collects every "scalar X extends Y;" declaration in file.
func BuildScalarMap(file *ast.File) ScalarMap {
	m := ScalarMap{}
	for _, s := range file.Scalars() {
		if s.Extends != "" {
			m[s.Name] = s.Extends
		}
	}
	return m
}

// ModelMap maps a model name to its declaration, for spread resolution.
type ModelMap map[string]*ast.Model

// BuildModelMap collects every top-level model declaration in file.
func BuildModelMap(file *ast.File) ModelMap {
	m := ModelMap{}
	for _, mo := range file.Models() {
		m[mo.Name] = mo
	}
	return m
}

// ResolveProperties returns every property a model carries, including ones
// contributed by its spread references. Spread-contributed properties come
// first, in the order their spread_refs were declared, each resolved
// recursively (a spread model can itself spread other models); the model's
// own declared properties are appended last. No deduplication is performed
// — if a spread model and the model itself both declare a property with the
// same name, both appear in the result, and only the model's own copy
// "wins" by virtue of being emitted after it.
func ResolveProperties(model *ast.Model, models ModelMap) []ast.Property {
	var properties []ast.Property

	for _, spreadRef := range model.SpreadRefs {
		name := typeName(spreadRef)
		if name == "" {
			continue
		}
		spreadModel, ok := models[name]
		if !ok {
			continue
		}
		properties = append(properties, ResolveProperties(spreadModel, models)...)
	}

	properties = append(properties, model.Properties...)
	return properties
}

func typeName(ref ast.TypeRef) string {
	switch t := ref.(type) {
	case *ast.TypeRefNamed:
		return t.Name
	case *ast.TypeRefQualified:
		if len(t.Parts) == 0 {
			return ""
		}
		return t.Parts[len(t.Parts)-1]
	default:
		return ""
	}
}

// HasDecorator reports whether decorators contains one named name.
func HasDecorator(decorators []ast.Decorator, name string) bool {
	for _, d := range decorators {
		if d.Name == name {
			return true
		}
	}
	return false
}

// FindDecorator returns the first decorator named name, if present.
func FindDecorator(decorators []ast.Decorator, name string) (ast.Decorator, bool) {
	for _, d := range decorators {
		if d.Name == name {
			return d, true
		}
	}
	return ast.Decorator{}, false
}

// Doc returns the string argument of an "@doc" decorator, if present.
func Doc(decorators []ast.Decorator) (string, bool) {
	d, ok := FindDecorator(decorators, "doc")
	if !ok {
		return "", false
	}
	return d.GetStringArg(0)
}

// Format returns the string argument of an "@format" decorator, if present
// (used for scalar declarations like `@format("uuid") scalar uuid ...`).
func Format(decorators []ast.Decorator) (string, bool) {
	d, ok := FindDecorator(decorators, "format")
	if !ok {
		return "", false
	}
	return d.GetStringArg(0)
}

// Route returns the string argument of an "@route" decorator, if present.
func Route(decorators []ast.Decorator) (string, bool) {
	d, ok := FindDecorator(decorators, "route")
	if !ok {
		return "", false
	}
	return d.GetStringArg(0)
}

var httpVerbs = []string{"get", "post", "put", "patch", "delete"}

// HTTPMethod returns the HTTP method named by whichever verb decorator
// (@get/@post/@put/@patch/@delete) is present on an operation, defaulting
// to "GET" when none is present.
func HTTPMethod(decorators []ast.Decorator) string {
	for _, verb := range httpVerbs {
		if HasDecorator(decorators, verb) {
			return strings.ToUpper(verb)
		}
	}
	return "GET"
}

// IsPathParam reports whether a parameter carries "@path".
func IsPathParam(decorators []ast.Decorator) bool { return HasDecorator(decorators, "path") }

// IsQueryParam reports whether a parameter carries "@query".
func IsQueryParam(decorators []ast.Decorator) bool { return HasDecorator(decorators, "query") }

// IsBodyParam reports whether a parameter carries "@body".
func IsBodyParam(decorators []ast.Decorator) bool { return HasDecorator(decorators, "body") }

// FullRoute concatenates an interface's own @route with an operation's
// @route, in that order, matching every emitter's route-building
// convention.
func FullRoute(ifaceDecorators, opDecorators []ast.Decorator) string {
	var b strings.Builder
	if r, ok := Route(ifaceDecorators); ok {
		b.WriteString(r)
	}
	if r, ok := Route(opDecorators); ok {
		b.WriteString(r)
	}
	return b.String()
}
