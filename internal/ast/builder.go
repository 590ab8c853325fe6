package ast

// NewFile constructs an empty File ready to receive declarations.
func NewFile() *File {
	return &File{}
}

// Str builds a string Value.
func Str(v string) Value { return &ValueString{Value: v} }

// Int builds an int Value.
func Int(v int64) Value { return &ValueInt{Value: v} }

// Float builds a float Value.
func Float(v float64) Value { return &ValueFloat{Value: v} }

// Bool builds a bool Value.
func Bool(v bool) Value { return &ValueBool{Value: v} }

// Ident builds a bare identifier Value.
func Ident(v string) Value { return &ValueIdent{Value: v} }

// Named builds a Named TypeRef.
func Named(name string) TypeRef { return &TypeRefNamed{Name: name} }

// Builtin builds a Builtin TypeRef.
func Builtin(name string) TypeRef { return &TypeRefBuiltin{Name: name} }

// Optional wraps inner in a TypeRefOptional, unless it already is one.
func Optional(inner TypeRef) TypeRef {
	if _, ok := inner.(*TypeRefOptional); ok {
		return inner
	}
	return &TypeRefOptional{Inner: inner}
}
