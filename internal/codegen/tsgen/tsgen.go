// Package tsgen implements the Target-B (TypeScript-like structural)
// emitter: interfaces, string enums, a fetch-based client, and abstract
// server classes.
package tsgen

import (
	"fmt"
	"strings"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/semantic"
)

type Emitter struct{}

func (Emitter) Generate(file *ast.File, packageName string, side codegen.Side) ([]codegen.GeneratedFile, error) {
	scalars := semantic.BuildScalarMap(file)
	models := semantic.BuildModelMap(file)

	var out []codegen.GeneratedFile
	out = append(out, codegen.GeneratedFile{Path: "models.ts", Content: generateModels(file, models, scalars)})
	out = append(out, codegen.GeneratedFile{Path: "enums.ts", Content: generateEnums(file)})

	if side.IncludesClient() {
		out = append(out, codegen.GeneratedFile{Path: "client.ts", Content: generateClient(file, scalars)})
	}
	if side.IncludesServer() {
		out = append(out, codegen.GeneratedFile{Path: "server.ts", Content: generateServer(file, scalars)})
	}
	out = append(out, codegen.GeneratedFile{Path: "index.ts", Content: generateIndex(side)})

	return out, nil
}

func camelCase(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		if len(s) == 0 {
			return s
		}
		return strings.ToLower(s[:1]) + s[1:]
	}
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

func pascalCase(s string) string {
	c := camelCase(s)
	if c == "" {
		return c
	}
	return strings.ToUpper(c[:1]) + c[1:]
}

func generateModels(file *ast.File, models semantic.ModelMap, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("// Generated data models.\n\n")

	for _, m := range file.Models() {
		props := semantic.ResolveProperties(m, models)

		typeParams := ""
		if len(m.TypeParams) > 0 {
			typeParams = fmt.Sprintf("<%s>", strings.Join(m.TypeParams, ", "))
		}

		if doc, ok := semantic.Doc(m.Decorators); ok {
			fmt.Fprintf(&b, "/** %s */\n", doc)
		}
		fmt.Fprintf(&b, "export interface %s%s {\n", m.Name, typeParams)
		for _, p := range props {
			opt := ""
			if p.Optional {
				opt = "?"
			}
			fmt.Fprintf(&b, "  %s%s: %s;\n", p.Name, opt, typeToTypeScript(p.TypeRef, scalars))
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func generateEnums(file *ast.File) string {
	var b strings.Builder
	b.WriteString("// Generated enums.\n\n")
	for _, e := range file.Enums() {
		fmt.Fprintf(&b, "export enum %s {\n", e.Name)
		for _, m := range e.Members {
			fmt.Fprintf(&b, "  %s = %q,\n", pascalCase(m.Name), enumValue(m))
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func enumValue(m ast.EnumMember) string {
	switch v := m.Value.(type) {
	case *ast.ValueString:
		return v.Value
	default:
		return camelCase(m.Name)
	}
}

func generateClient(file *ast.File, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("// Generated fetch-based API client.\n")
	b.WriteString("import type * as Models from './models';\n")
	b.WriteString("import { } from './enums';\n\n")

	b.WriteString("export class ApiError extends Error {\n")
	b.WriteString("  constructor(public statusCode: number, public code: string, message: string) {\n")
	b.WriteString("    super(message);\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")

	b.WriteString("export interface ClientConfig {\n")
	b.WriteString("  baseUrl: string;\n")
	b.WriteString("  accessToken?: string;\n")
	b.WriteString("  fetch?: typeof fetch;\n")
	b.WriteString("}\n\n")

	b.WriteString("export class BaseClient {\n")
	b.WriteString("  protected config: ClientConfig;\n\n")
	b.WriteString("  constructor(config: ClientConfig) {\n")
	b.WriteString("    this.config = config;\n")
	b.WriteString("  }\n\n")
	b.WriteString("  protected async request<T>(method: string, path: string, options: { body?: unknown; query?: Record<string, unknown> } = {}): Promise<T> {\n")
	b.WriteString("    const url = new URL(path, this.config.baseUrl);\n")
	b.WriteString("    if (options.query) {\n")
	b.WriteString("      for (const [k, v] of Object.entries(options.query)) {\n")
	b.WriteString("        if (v !== undefined) url.searchParams.set(k, String(v));\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("    const doFetch = this.config.fetch ?? fetch;\n")
	b.WriteString("    const headers: Record<string, string> = { 'Content-Type': 'application/json' };\n")
	b.WriteString("    if (this.config.accessToken) headers['Authorization'] = `Bearer ${this.config.accessToken}`;\n")
	b.WriteString("    const resp = await doFetch(url.toString(), {\n")
	b.WriteString("      method,\n")
	b.WriteString("      headers,\n")
	b.WriteString("      body: options.body !== undefined ? JSON.stringify(options.body) : undefined,\n")
	b.WriteString("    });\n")
	b.WriteString("    if (!resp.ok) {\n")
	b.WriteString("      const err = await resp.json().catch(() => ({}));\n")
	b.WriteString("      throw new ApiError(resp.status, err.code ?? 'ERROR', err.message ?? resp.statusText);\n")
	b.WriteString("    }\n")
	b.WriteString("    if (resp.status === 204) return undefined as unknown as T;\n")
	b.WriteString("    return resp.json() as Promise<T>;\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")

	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "export class %sClient extends BaseClient {\n", iface.Name)
		for _, op := range iface.Operations {
			writeTSClientMethod(&b, iface, op, scalars)
		}
		b.WriteString("}\n\n")
	}

	b.WriteString("export class Client extends BaseClient {\n")
	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "  readonly %s: %sClient;\n", camelCase(iface.Name), iface.Name)
	}
	b.WriteString("\n  constructor(config: ClientConfig) {\n")
	b.WriteString("    super(config);\n")
	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "    this.%s = new %sClient(config);\n", camelCase(iface.Name), iface.Name)
	}
	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}

func writeTSClientMethod(b *strings.Builder, iface *ast.Interface, op ast.Operation, scalars semantic.ScalarMap) {
	params := make([]string, 0, len(op.Params))
	for _, p := range op.Params {
		if p.Spread && p.Name == "" {
			continue
		}
		opt := ""
		if p.Optional {
			opt = "?"
		}
		params = append(params, fmt.Sprintf("%s%s: %s", camelCase(p.Name), opt, typeToTypeScript(p.TypeRef, scalars)))
	}
	ret := "void"
	if op.ReturnType != nil {
		ret = typeToTypeScript(*op.ReturnType, scalars)
	}
	fmt.Fprintf(b, "  async %s(%s): Promise<%s> {\n", camelCase(op.Name), strings.Join(params, ", "), ret)

	route := semantic.FullRoute(iface.Decorators, op.Decorators)
	var queryEntries []string
	var bodyExpr string
	for _, p := range op.Params {
		name := camelCase(p.Name)
		switch {
		case semantic.IsPathParam(p.Decorators):
			route = strings.ReplaceAll(route, "{"+p.Name+"}", "${"+name+"}")
		case semantic.IsQueryParam(p.Decorators):
			queryEntries = append(queryEntries, fmt.Sprintf("%s: %s", name, name))
		case semantic.IsBodyParam(p.Decorators):
			bodyExpr = name
		}
	}

	fmt.Fprintf(b, "    return this.request(%q, `%s`, {", semantic.HTTPMethod(op.Decorators), route)
	var opts []string
	if bodyExpr != "" {
		opts = append(opts, "body: "+bodyExpr)
	}
	if len(queryEntries) > 0 {
		opts = append(opts, "query: { "+strings.Join(queryEntries, ", ")+" }")
	}
	b.WriteString(strings.Join(opts, ", "))
	b.WriteString("});\n")
	b.WriteString("  }\n\n")
}

func generateServer(file *ast.File, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("// Generated abstract server handlers.\n")
	b.WriteString("import type * as Models from './models';\n\n")

	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "export abstract class %sHandler {\n", iface.Name)
		for _, op := range iface.Operations {
			params := make([]string, 0, len(op.Params))
			for _, p := range op.Params {
				if p.Spread && p.Name == "" {
					continue
				}
				opt := ""
				if p.Optional {
					opt = "?"
				}
				params = append(params, fmt.Sprintf("%s%s: %s", camelCase(p.Name), opt, typeToTypeScript(p.TypeRef, scalars)))
			}
			ret := "void"
			if op.ReturnType != nil {
				ret = typeToTypeScript(*op.ReturnType, scalars)
			}
			fmt.Fprintf(&b, "  abstract %s(%s): Promise<%s>;\n", camelCase(op.Name), strings.Join(params, ", "), ret)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func generateIndex(side codegen.Side) string {
	var b strings.Builder
	b.WriteString("export * from './models';\n")
	b.WriteString("export * from './enums';\n")
	if side.IncludesClient() {
		b.WriteString("export * from './client';\n")
	}
	if side.IncludesServer() {
		b.WriteString("export * from './server';\n")
	}
	return b.String()
}

func builtinToTypeScript(name string) string {
	switch name {
	case "string", "url":
		return "string"
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "boolean":
		return "boolean"
	case "utcDateTime", "offsetDateTime", "plainDate", "plainTime":
		return "string"
	case "bytes":
		return "Uint8Array"
	case "void", "null":
		return "void"
	default:
		return "unknown"
	}
}

func typeToTypeScript(ref ast.TypeRef, scalars semantic.ScalarMap) string {
	switch t := ref.(type) {
	case *ast.TypeRefBuiltin:
		return builtinToTypeScript(t.Name)
	case *ast.TypeRefNamed:
		switch t.Name {
		case "uuid", "email", "url":
			return "string"
		}
		// Don't add Models. prefix, types are local.
		return t.Name
	case *ast.TypeRefQualified:
		if len(t.Parts) == 0 {
			return "unknown"
		}
		return "Models." + t.Parts[len(t.Parts)-1]
	case *ast.TypeRefArray:
		return typeToTypeScript(t.Elem, scalars) + "[]"
	case *ast.TypeRefGeneric:
		if name, ok := t.Base.(*ast.TypeRefNamed); ok && name.Name == "Record" && len(t.Args) == 1 {
			return fmt.Sprintf("Record<string, %s>", typeToTypeScript(t.Args[0], scalars))
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = typeToTypeScript(a, scalars)
		}
		return fmt.Sprintf("%s<%s>", typeToTypeScript(t.Base, scalars), strings.Join(args, ", "))
	case *ast.TypeRefOptional:
		return typeToTypeScript(t.Inner, scalars) + " | undefined"
	case *ast.TypeRefUnion:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = typeToTypeScript(v, scalars)
		}
		return strings.Join(parts, " | ")
	case *ast.TypeRefIntersection:
		parts := make([]string, len(t.Parts))
		for i, v := range t.Parts {
			parts[i] = typeToTypeScript(v, scalars)
		}
		return strings.Join(parts, " & ")
	case *ast.TypeRefStringLiteral:
		return fmt.Sprintf("'%s'", t.Value)
	case *ast.TypeRefIntLiteral:
		return fmt.Sprintf("%d", t.Value)
	case *ast.TypeRefAnonymousModel:
		var fields []string
		for _, p := range t.Properties {
			opt := ""
			if p.Optional {
				opt = "?"
			}
			fields = append(fields, fmt.Sprintf("%s%s: %s", p.Name, opt, typeToTypeScript(p.TypeRef, scalars)))
		}
		return "{ " + strings.Join(fields, "; ") + " }"
	default:
		return "unknown"
	}
}
