// Package oasgen implements the Target-D (OpenAPI 3.0.3) emitter: a JSON
// schema document plus a hand-rolled JSON-to-YAML transliteration (no
// external YAML dependency).
package oasgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/semantic"
)

type Emitter struct {
	// Title is used as the OpenAPI info.title. Empty means the package name
	// passed to Generate, or "API" if that is empty too.
	Title string
}

// obj is an insertion-order-preserving JSON object, since Go's map has no
// stable iteration order and the emitted document's key order should be
// deterministic across runs.
type obj struct {
	keys []string
	vals map[string]any
}

func newObj() *obj {
	return &obj{vals: map[string]any{}}
}

func (o *obj) set(key string, val any) *obj {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
	return o
}

func (o *obj) get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Emitter) Generate(file *ast.File, packageName string, _ codegen.Side) ([]codegen.GeneratedFile, error) {
	scalars := semantic.BuildScalarMap(file)
	models := semantic.BuildModelMap(file)

	title := e.Title
	if title == "" {
		title = packageName
	}
	if title == "" {
		title = "API"
	}

	spec := generateSpec(file, scalars, models, title)

	jsonBytes, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, codegen.FormatError(err)
	}

	yamlContent := jsonToYAML(spec, 0)

	return []codegen.GeneratedFile{
		{Path: "openapi.json", Content: string(jsonBytes) + "\n"},
		{Path: "openapi.yaml", Content: yamlContent},
	}, nil
}

func generateSpec(file *ast.File, scalars semantic.ScalarMap, models semantic.ModelMap, title string) *obj {
	schemas := newObj()
	for _, m := range file.Models() {
		schemas.set(m.Name, modelToSchema(m, scalars, models))
	}
	for _, e := range file.Enums() {
		schemas.set(e.Name, enumToSchema(e))
	}

	paths := newObj()
	for _, iface := range file.Interfaces() {
		basePath, _ := semantic.Route(iface.Decorators)
		for _, op := range iface.Operations {
			opPath, _ := semantic.Route(op.Decorators)
			fullPath := basePath + opPath
			method := strings.ToLower(semantic.HTTPMethod(op.Decorators))

			operation := operationToOpenAPI(op, iface.Name, scalars)

			pathItemAny, ok := paths.get(fullPath)
			var pathItem *obj
			if ok {
				pathItem = pathItemAny.(*obj)
			} else {
				pathItem = newObj()
				paths.set(fullPath, pathItem)
			}
			pathItem.set(method, operation)
		}
	}

	securitySchemes := newObj().set("bearerAuth", newObj().
		set("type", "http").
		set("scheme", "bearer").
		set("bearerFormat", "JWT"))

	components := newObj().
		set("schemas", schemas).
		set("securitySchemes", securitySchemes)

	info := newObj().set("title", title).set("version", "1.0.0")

	security := []any{newObj().set("bearerAuth", []any{})}

	return newObj().
		set("openapi", "3.0.3").
		set("info", info).
		set("paths", paths).
		set("components", components).
		set("security", security)
}

func modelToSchema(m *ast.Model, scalars semantic.ScalarMap, models semantic.ModelMap) *obj {
	allProps := semantic.ResolveProperties(m, models)

	properties := newObj()
	var required []any

	for _, p := range allProps {
		properties.set(p.Name, typeToSchema(p.TypeRef, scalars))
		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	schema := newObj().set("type", "object").set("properties", properties)
	if len(required) > 0 {
		schema.set("required", required)
	}
	if desc, ok := semantic.Doc(m.Decorators); ok {
		schema.set("description", desc)
	}
	return schema
}

func enumToSchema(e *ast.Enum) *obj {
	values := make([]any, len(e.Members))
	for i, m := range e.Members {
		switch v := m.Value.(type) {
		case *ast.ValueString:
			values[i] = v.Value
		case *ast.ValueInt:
			values[i] = v.Value
		default:
			values[i] = snakeCase(m.Name)
		}
	}
	return newObj().set("type", "string").set("enum", values)
}

func typeToSchema(ref ast.TypeRef, scalars semantic.ScalarMap) *obj {
	switch t := ref.(type) {
	case *ast.TypeRefBuiltin:
		return builtinToSchema(t.Name)
	case *ast.TypeRefNamed:
		if base, ok := scalars[t.Name]; ok {
			return builtinToSchema(base)
		}
		return newObj().set("$ref", fmt.Sprintf("#/components/schemas/%s", t.Name))
	case *ast.TypeRefQualified:
		name := ""
		if len(t.Parts) > 0 {
			name = t.Parts[len(t.Parts)-1]
		}
		return newObj().set("$ref", fmt.Sprintf("#/components/schemas/%s", name))
	case *ast.TypeRefArray:
		return newObj().set("type", "array").set("items", typeToSchema(t.Elem, scalars))
	case *ast.TypeRefGeneric:
		if name, ok := t.Base.(*ast.TypeRefNamed); ok && name.Name == "Record" && len(t.Args) == 1 {
			return newObj().set("type", "object").set("additionalProperties", typeToSchema(t.Args[0], scalars))
		}
		return typeToSchema(t.Base, scalars)
	case *ast.TypeRefOptional:
		schema := typeToSchema(t.Inner, scalars)
		schema.set("nullable", true)
		return schema
	case *ast.TypeRefUnion:
		if allStringLiterals(t.Variants) {
			values := make([]any, len(t.Variants))
			for i, v := range t.Variants {
				values[i] = v.(*ast.TypeRefStringLiteral).Value
			}
			return newObj().set("type", "string").set("enum", values)
		}
		schemas := make([]any, len(t.Variants))
		for i, v := range t.Variants {
			schemas[i] = typeToSchema(v, scalars)
		}
		return newObj().set("oneOf", schemas)
	case *ast.TypeRefStringLiteral:
		return newObj().set("type", "string").set("enum", []any{t.Value})
	case *ast.TypeRefIntLiteral:
		return newObj().set("type", "integer").set("enum", []any{t.Value})
	case *ast.TypeRefAnonymousModel:
		properties := newObj()
		var required []any
		for _, p := range t.Properties {
			properties.set(p.Name, typeToSchema(p.TypeRef, scalars))
			if !p.Optional {
				required = append(required, p.Name)
			}
		}
		schema := newObj().set("type", "object").set("properties", properties)
		if len(required) > 0 {
			schema.set("required", required)
		}
		return schema
	default:
		return newObj().set("type", "object")
	}
}

// builtinToSchema's "uuid" arm is never reached through a TypeRefBuiltin:
// the parser's builtin list has no "uuid", so a bare uuid parses as
// TypeRefNamed. It is reached only through the scalar map, when a scalar
// declaration extends uuid (e.g. "scalar Id extends uuid;").
func builtinToSchema(name string) *obj {
	switch name {
	case "string":
		return newObj().set("type", "string")
	case "int8", "int16", "int32":
		return newObj().set("type", "integer").set("format", "int32")
	case "int64":
		return newObj().set("type", "integer").set("format", "int64")
	case "uint8", "uint16", "uint32":
		return newObj().set("type", "integer").set("format", "int32").set("minimum", 0)
	case "uint64":
		return newObj().set("type", "integer").set("format", "int64").set("minimum", 0)
	case "float32":
		return newObj().set("type", "number").set("format", "float")
	case "float64":
		return newObj().set("type", "number").set("format", "double")
	case "boolean":
		return newObj().set("type", "boolean")
	case "utcDateTime", "offsetDateTime":
		return newObj().set("type", "string").set("format", "date-time")
	case "plainDate":
		return newObj().set("type", "string").set("format", "date")
	case "plainTime":
		return newObj().set("type", "string").set("format", "time")
	case "bytes":
		return newObj().set("type", "string").set("format", "byte")
	case "url":
		return newObj().set("type", "string").set("format", "uri")
	case "uuid":
		return newObj().set("type", "string").set("format", "uuid")
	default:
		return newObj().set("type", "object")
	}
}

func operationToOpenAPI(op ast.Operation, interfaceName string, scalars semantic.ScalarMap) *obj {
	operation := newObj().
		set("operationId", camelCase(interfaceName+"_"+op.Name)).
		set("tags", []any{interfaceName}).
		set("responses", newObj())

	if desc, ok := semantic.Doc(op.Decorators); ok {
		operation.set("summary", desc)
	}

	var parameters []any
	var requestBody *obj

	for _, p := range op.Params {
		if p.Spread && p.Name == "" {
			continue
		}
		switch {
		case semantic.IsPathParam(p.Decorators):
			parameters = append(parameters, newObj().
				set("name", p.Name).
				set("in", "path").
				set("required", true).
				set("schema", typeToSchema(p.TypeRef, scalars)))
		case semantic.IsQueryParam(p.Decorators):
			parameters = append(parameters, newObj().
				set("name", p.Name).
				set("in", "query").
				set("required", !p.Optional).
				set("schema", typeToSchema(p.TypeRef, scalars)))
		case semantic.IsBodyParam(p.Decorators):
			requestBody = newObj().
				set("required", true).
				set("content", newObj().set("application/json", newObj().
					set("schema", typeToSchema(p.TypeRef, scalars))))
		}
	}

	if len(parameters) > 0 {
		operation.set("parameters", parameters)
	}
	if requestBody != nil {
		operation.set("requestBody", requestBody)
	}

	responses := newObj()
	if op.ReturnType != nil {
		statusCode, bodySchema := extractResponseInfo(*op.ReturnType, scalars)
		if bodySchema != nil {
			responses.set(statusCode, newObj().
				set("description", "Successful response").
				set("content", newObj().set("application/json", newObj().set("schema", bodySchema))))
		} else {
			responses.set(statusCode, newObj().set("description", "Successful response (no content)"))
		}
	} else {
		responses.set("200", newObj().set("description", "Successful response"))
	}

	responses.set("default", newObj().
		set("description", "Error response").
		set("content", newObj().set("application/json", newObj().
			set("schema", newObj().set("type", "object").set("properties", newObj().
				set("code", newObj().set("type", "string")).
				set("message", newObj().set("type", "string")))))))

	operation.set("responses", responses)
	return operation
}

// extractResponseInfo's 204-detection differs deliberately from the Python
// emitter's: it only recognizes an @statusCode property whose type is the
// integer literal 204, never a default-value comparison. The two emitters'
// checks are deliberately left unreconciled.
func extractResponseInfo(ref ast.TypeRef, scalars semantic.ScalarMap) (string, *obj) {
	switch t := ref.(type) {
	case *ast.TypeRefUnion:
		for _, variant := range t.Variants {
			anon, ok := variant.(*ast.TypeRefAnonymousModel)
			if !ok {
				continue
			}
			statusCode := "200"
			var bodySchema *obj
			for _, p := range anon.Properties {
				if semantic.HasDecorator(p.Decorators, "statusCode") {
					if code, ok := p.TypeRef.(*ast.TypeRefIntLiteral); ok {
						statusCode = fmt.Sprintf("%d", code.Value)
					}
				}
				if semantic.HasDecorator(p.Decorators, "body") {
					bodySchema = typeToSchema(p.TypeRef, scalars)
				}
			}
			if statusCode == "204" {
				return statusCode, nil
			}
			if bodySchema != nil {
				return statusCode, bodySchema
			}
		}
		return "200", nil
	case *ast.TypeRefAnonymousModel:
		statusCode := "200"
		var bodySchema *obj
		for _, p := range t.Properties {
			if semantic.HasDecorator(p.Decorators, "statusCode") {
				if code, ok := p.TypeRef.(*ast.TypeRefIntLiteral); ok {
					statusCode = fmt.Sprintf("%d", code.Value)
				}
			}
			if semantic.HasDecorator(p.Decorators, "body") {
				bodySchema = typeToSchema(p.TypeRef, scalars)
			}
		}
		return statusCode, bodySchema
	default:
		return "200", typeToSchema(ref, scalars)
	}
}

func allStringLiterals(variants []ast.TypeRef) bool {
	for _, v := range variants {
		if _, ok := v.(*ast.TypeRefStringLiteral); !ok {
			return false
		}
	}
	return len(variants) > 0
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func camelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.ToLower(p[:1]) + p[1:])
		} else {
			b.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	return b.String()
}

// jsonToYAML is a hand-rolled, minimal JSON-to-YAML transliteration, with
// no external YAML dependency: quote a string only if it contains a
// newline, colon, '#', or is empty; indent nested objects/arrays by two
// spaces per level.
func jsonToYAML(value any, indent int) string {
	var b strings.Builder
	jsonToYAMLImpl(value, &b, indent)
	return b.String()
}

func jsonToYAMLImpl(value any, out *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch v := value.(type) {
	case nil:
		out.WriteString("null")
	case bool:
		if v {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	case int:
		fmt.Fprintf(out, "%d", v)
	case int64:
		fmt.Fprintf(out, "%d", v)
	case string:
		if strings.ContainsAny(v, "\n:#") || v == "" {
			out.WriteString("\"" + strings.ReplaceAll(v, "\"", "\\\"") + "\"")
		} else {
			out.WriteString(v)
		}
	case []any:
		if len(v) == 0 {
			out.WriteString("[]")
			return
		}
		for _, item := range v {
			out.WriteByte('\n')
			out.WriteString(prefix)
			out.WriteString("- ")
			if isObj(item) {
				jsonToYAMLImpl(item, out, indent+1)
			} else {
				jsonToYAMLImpl(item, out, 0)
			}
		}
	case *obj:
		first := true
		for _, key := range v.keys {
			val := v.vals[key]
			if !first {
				out.WriteByte('\n')
				out.WriteString(prefix)
			}
			first = false
			out.WriteString(key)
			out.WriteByte(':')

			if isCompound(val) && !isEmptyCompound(val) {
				out.WriteByte('\n')
				out.WriteString(strings.Repeat("  ", indent+1))
				jsonToYAMLImpl(val, out, indent+1)
			} else {
				out.WriteByte(' ')
				jsonToYAMLImpl(val, out, indent+1)
			}
		}
	default:
		fmt.Fprintf(out, "%v", v)
	}
}

func isObj(v any) bool {
	_, ok := v.(*obj)
	return ok
}

func isCompound(v any) bool {
	switch v.(type) {
	case *obj, []any:
		return true
	default:
		return false
	}
}

func isEmptyCompound(v any) bool {
	switch t := v.(type) {
	case []any:
		return len(t) == 0
	case *obj:
		return len(t.keys) == 0
	default:
		return false
	}
}
