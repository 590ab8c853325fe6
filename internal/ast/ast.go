// Package ast defines the abstract syntax tree produced by internal/parser.
//
// Each sum type in the grammar (Declaration, Value, TypeRef, DecoratorArg)
// is expressed as a Go interface with an unexported marker method, and one
// concrete struct per variant. Consumers type-switch on the concrete type.
package ast

import "github.com/adi-family/lib-typespec-api/internal/lexer"

// File is a single parsed SDL source file, before import resolution merges
// it with its imports.
type File struct {
	Imports      []Import
	Usings       []Using
	Namespace    string // empty if the file never set a top-level "namespace X;"
	Declarations []Declaration
}

// Models, Enums, Interfaces, Scalars, Aliases, Unions return the
// top-level declarations of the matching kind, in declaration order.

func (f *File) Models() []*Model {
	var out []*Model
	for _, d := range f.Declarations {
		if m, ok := d.(*Model); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *File) Enums() []*Enum {
	var out []*Enum
	for _, d := range f.Declarations {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *File) Interfaces() []*Interface {
	var out []*Interface
	for _, d := range f.Declarations {
		if i, ok := d.(*Interface); ok {
			out = append(out, i)
		}
	}
	return out
}

func (f *File) Scalars() []*Scalar {
	var out []*Scalar
	for _, d := range f.Declarations {
		if s, ok := d.(*Scalar); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *File) Aliases() []*Alias {
	var out []*Alias
	for _, d := range f.Declarations {
		if a, ok := d.(*Alias); ok {
			out = append(out, a)
		}
	}
	return out
}

func (f *File) Unions() []*Union {
	var out []*Union
	for _, d := range f.Declarations {
		if u, ok := d.(*Union); ok {
			out = append(out, u)
		}
	}
	return out
}

// Import is a top-level "import "./path.tsp";" statement.
type Import struct {
	Path string
}

// Using is a top-level "using Some.Namespace;" statement.
type Using struct {
	Namespace string
}

// Declaration is the sum type of everything that can appear at file scope
// (and, for Model/Enum/Interface, inside a nested namespace block).
type Declaration interface {
	declNode()
}

func (*Model) declNode()     {}
func (*Enum) declNode()      {}
func (*Union) declNode()     {}
func (*Interface) declNode() {}
func (*Scalar) declNode()    {}
func (*Alias) declNode()     {}
func (*Namespace) declNode() {}

// Namespace is a nested "namespace X { ... }" block. Only Model, Enum, and
// Interface declarations are collected from its body; Union/Scalar/Alias
// inside a nested namespace block are not supported by the grammar.
type Namespace struct {
	Name         string
	Decorators   []Decorator
	Declarations []Declaration
	Span         lexer.SourceSpan
}

// Model is a "model Name<T> extends Base { ... }" declaration.
type Model struct {
	Name       string
	Decorators []Decorator
	TypeParams []string
	Extends    *TypeRef
	Properties []Property
	SpreadRefs []TypeRef
	Span       lexer.SourceSpan
}

// Property is one field of a Model, in source order.
type Property struct {
	Name       string
	Decorators []Decorator
	TypeRef    TypeRef
	Optional   bool
	Default    Value // nil if absent
	Span       lexer.SourceSpan
}

// Enum is an "enum Name { A, B: 2 }" declaration.
type Enum struct {
	Name       string
	Decorators []Decorator
	Members    []EnumMember
	Span       lexer.SourceSpan
}

// EnumMember is one member of an Enum, with an optional explicit value.
type EnumMember struct {
	Name       string
	Decorators []Decorator
	Value      Value // nil if absent
	Span       lexer.SourceSpan
}

// Union is a "union Name { a: TypeA, TypeB }" declaration.
type Union struct {
	Name       string
	Decorators []Decorator
	Variants   []UnionVariant
	Span       lexer.SourceSpan
}

// UnionVariant is one variant of a Union. Name is empty for anonymous
// variants ("union Name { TypeB }").
type UnionVariant struct {
	Name    string
	TypeRef TypeRef
}

// Interface is an "interface Name { op ... }" declaration.
type Interface struct {
	Name       string
	Decorators []Decorator
	Operations []Operation
	Span       lexer.SourceSpan
}

// Operation is one "op name(...): ReturnType;" entry of an Interface.
type Operation struct {
	Name       string
	Decorators []Decorator
	Params     []OperationParam
	ReturnType *TypeRef
	Span       lexer.SourceSpan
}

// OperationParam is one parameter of an Operation. Spread is true for
// "...TypeRef" entries; Name is empty for an anonymous spread parameter.
type OperationParam struct {
	Name       string
	Decorators []Decorator
	TypeRef    TypeRef
	Optional   bool
	Spread     bool
}

// Scalar is a "scalar name extends base;" declaration.
type Scalar struct {
	Name       string
	Decorators []Decorator
	Extends    string // empty if absent
	Span       lexer.SourceSpan
}

// Alias is an "alias Name = TypeRef;" declaration.
type Alias struct {
	Name    string
	TypeRef TypeRef
	Span    lexer.SourceSpan
}

// Decorator is a "@name(args...)" annotation attached to a declaration,
// property, or parameter. The AST never assigns it meaning; consumers (the
// semantic helpers, the emitters) interpret decorators by name.
type Decorator struct {
	Name string
	Args []DecoratorArg
}

// GetStringArg returns the string value of the positional-or-unnamed
// argument at index, if present and a Value of kind String.
func (d Decorator) GetStringArg(index int) (string, bool) {
	pos := 0
	for _, a := range d.Args {
		v, ok := a.(ArgValue)
		if !ok {
			continue
		}
		if pos == index {
			s, ok := v.Value.(*ValueString)
			if !ok {
				return "", false
			}
			return s.Value, true
		}
		pos++
	}
	return "", false
}

// DecoratorArg is the sum type of a decorator's argument list entries:
// either a bare positional value, or a "name: value" named argument.
type DecoratorArg interface {
	decoratorArgNode()
}

// ArgValue is a positional (unnamed) decorator argument.
type ArgValue struct {
	Value Value
}

// ArgNamed is a "name: value" decorator argument.
type ArgNamed struct {
	Name  string
	Value Value
}

func (ArgValue) decoratorArgNode() {}
func (ArgNamed) decoratorArgNode() {}

// Value is the sum type of literal values appearing as decorator arguments
// or enum/property defaults.
type Value interface {
	valueNode()
}

type ValueString struct{ Value string }
type ValueInt struct{ Value int64 }
type ValueFloat struct{ Value float64 }
type ValueBool struct{ Value bool }
type ValueIdent struct{ Value string }
type ValueQualifiedIdent struct{ Parts []string }
type ValueArray struct{ Values []Value }
type ValueObject struct{ Fields map[string]Value }

func (*ValueString) valueNode()        {}
func (*ValueInt) valueNode()           {}
func (*ValueFloat) valueNode()         {}
func (*ValueBool) valueNode()          {}
func (*ValueIdent) valueNode()         {}
func (*ValueQualifiedIdent) valueNode() {}
func (*ValueArray) valueNode()         {}
func (*ValueObject) valueNode()        {}

// TypeRef is the sum type of everything that can appear in type position.
type TypeRef interface {
	typeRefNode()
}

type TypeRefBuiltin struct{ Name string }
type TypeRefNamed struct{ Name string }
type TypeRefQualified struct{ Parts []string }
type TypeRefArray struct{ Elem TypeRef }
type TypeRefGeneric struct {
	Base TypeRef
	Args []TypeRef
}
type TypeRefUnion struct{ Variants []TypeRef }
type TypeRefIntersection struct{ Parts []TypeRef }
type TypeRefOptional struct{ Inner TypeRef }
type TypeRefStringLiteral struct{ Value string }
type TypeRefIntLiteral struct{ Value int64 }
type TypeRefAnonymousModel struct{ Properties []Property }

func (*TypeRefBuiltin) typeRefNode()        {}
func (*TypeRefNamed) typeRefNode()          {}
func (*TypeRefQualified) typeRefNode()      {}
func (*TypeRefArray) typeRefNode()          {}
func (*TypeRefGeneric) typeRefNode()        {}
func (*TypeRefUnion) typeRefNode()          {}
func (*TypeRefIntersection) typeRefNode()   {}
func (*TypeRefOptional) typeRefNode()       {}
func (*TypeRefStringLiteral) typeRefNode()  {}
func (*TypeRefIntLiteral) typeRefNode()     {}
func (*TypeRefAnonymousModel) typeRefNode() {}

// IsPrimitive reports whether ref is a builtin scalar type.
func IsPrimitive(ref TypeRef) bool {
	_, ok := ref.(*TypeRefBuiltin)
	return ok
}

// BaseName returns the declared name of a Named or Qualified (last segment)
// type reference, matching TypeRef::base_name(). It returns "" for any
// other kind of TypeRef.
func BaseName(ref TypeRef) string {
	switch t := ref.(type) {
	case *TypeRefNamed:
		return t.Name
	case *TypeRefQualified:
		if len(t.Parts) == 0 {
			return ""
		}
		return t.Parts[len(t.Parts)-1]
	default:
		return ""
	}
}
