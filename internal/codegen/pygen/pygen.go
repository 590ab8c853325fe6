// Package pygen implements the Target-A (Python-like dynamic/runtime-typed)
// emitter: dataclasses for models, str-backed Enum classes, an async httpx
// client, and an ABC server.
package pygen

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

	out = append(out, codegen.GeneratedFile{Path: "models.py", Content: generateModels(file, models, scalars)})
	out = append(out, codegen.GeneratedFile{Path: "enums.py", Content: generateEnums(file)})

	if side.IncludesClient() {
		out = append(out, codegen.GeneratedFile{Path: "client/__init__.py", Content: generateClient(file, models, scalars)})
	}
	if side.IncludesServer() {
		out = append(out, codegen.GeneratedFile{Path: "server/__init__.py", Content: generateServer(file, models, scalars)})
	}

	out = append(out, codegen.GeneratedFile{Path: "__init__.py", Content: generateInit(side)})

	return out, nil
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

func screamingSnakeCase(s string) string {
	return strings.ToUpper(snakeCase(s))
}

func generateModels(file *ast.File, models semantic.ModelMap, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("\"\"\"Generated data models.\"\"\"\n")
	b.WriteString("from __future__ import annotations\n")
	b.WriteString("from dataclasses import dataclass, field\n")
	b.WriteString("from typing import Any, Dict, Generic, List, Literal, Optional, TypeVar\n")
	b.WriteString("from datetime import datetime\n\n")
	b.WriteString("T = TypeVar(\"T\")\n\n")

	for _, m := range file.Models() {
		props := semantic.ResolveProperties(m, models)

		base := "object"
		if len(m.TypeParams) > 0 {
			base = fmt.Sprintf("Generic[%s]", strings.Join(typeVars(m.TypeParams), ", "))
		}

		b.WriteString("@dataclass\n")
		fmt.Fprintf(&b, "class %s(%s):\n", m.Name, base)
		if doc, ok := semantic.Doc(m.Decorators); ok {
			fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n", doc)
		}
		if len(props) == 0 {
			b.WriteString("    pass\n\n")
			continue
		}

		required := make([]ast.Property, 0, len(props))
		optional := make([]ast.Property, 0, len(props))
		for _, p := range props {
			if p.Optional {
				optional = append(optional, p)
			} else {
				required = append(required, p)
			}
		}

		for _, p := range required {
			fmt.Fprintf(&b, "    %s: %s\n", snakeCase(p.Name), typeToPython(p.TypeRef, scalars, false))
		}
		for _, p := range optional {
			fmt.Fprintf(&b, "    %s: Optional[%s] = None\n", snakeCase(p.Name), typeToPython(p.TypeRef, scalars, false))
		}
		b.WriteString("\n")

		b.WriteString("    def to_dict(self) -> Dict[str, Any]:\n")
		b.WriteString("        result: Dict[str, Any] = {}\n")
		for _, p := range required {
			fmt.Fprintf(&b, "        result[%q] = self.%s\n", p.Name, snakeCase(p.Name))
		}
		for _, p := range optional {
			field := snakeCase(p.Name)
			fmt.Fprintf(&b, "        if self.%s is not None:\n", field)
			fmt.Fprintf(&b, "            result[%q] = self.%s\n", p.Name, field)
		}
		b.WriteString("        return result\n\n")

		b.WriteString("    @classmethod\n")
		fmt.Fprintf(&b, "    def from_dict(cls, data: Dict[str, Any]) -> %q:\n", m.Name)
		b.WriteString("        return cls(\n")
		for _, p := range props {
			fmt.Fprintf(&b, "            %s=data.get(%q),\n", snakeCase(p.Name), p.Name)
		}
		b.WriteString("        )\n\n")
	}

	return b.String()
}

func typeVars(params []string) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out
}

func generateEnums(file *ast.File) string {
	var b strings.Builder
	b.WriteString("\"\"\"Generated enums.\"\"\"\n")
	b.WriteString("from enum import Enum\n\n")

	for _, e := range file.Enums() {
		fmt.Fprintf(&b, "class %s(str, Enum):\n", e.Name)
		if doc, ok := semantic.Doc(e.Decorators); ok {
			fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n", doc)
		}
		for _, m := range e.Members {
			val := enumValue(m)
			fmt.Fprintf(&b, "    %s = %q\n", screamingSnakeCase(m.Name), val)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func enumValue(m ast.EnumMember) string {
	switch v := m.Value.(type) {
	case *ast.ValueString:
		return v.Value
	default:
		return snakeCase(m.Name)
	}
}

// extractReturnType unwraps a response-wrapper anonymous model (one
// carrying @statusCode / @body decorated properties) into the type the
// client method actually returns, and the type its body deserializes as.
// A 204 response — detected via either the @statusCode property's default
// value being Int(204) or its type_ref being IntLiteral(204) — yields
// ("None", "None").
func extractReturnType(ret *ast.TypeRef, scalars semantic.ScalarMap) (display, body string) {
	if ret == nil {
		return "None", "None"
	}
	anon, ok := (*ret).(*ast.TypeRefAnonymousModel)
	if !ok {
		t := typeToPython(*ret, scalars, false)
		return t, t
	}
	for _, p := range anon.Properties {
		if semantic.HasDecorator(p.Decorators, "statusCode") && is204(p) {
			return "None", "None"
		}
	}
	for _, p := range anon.Properties {
		if semantic.IsBodyParam(p.Decorators) {
			t := typeToPython(p.TypeRef, scalars, false)
			return t, t
		}
	}
	return "None", "None"
}

func is204(p ast.Property) bool {
	if n, ok := p.Default.(*ast.ValueInt); ok && n.Value == 204 {
		return true
	}
	if n, ok := p.TypeRef.(*ast.TypeRefIntLiteral); ok && n.Value == 204 {
		return true
	}
	return false
}

func isPrimitivePython(t string) bool {
	switch {
	case t == "str" || t == "int" || t == "float" || t == "bool" || t == "bytes" || t == "None" || t == "Any" || t == "datetime":
		return true
	case strings.HasPrefix(t, "Literal[") || strings.HasPrefix(t, "Dict["):
		return true
	}
	return false
}

func generateClient(file *ast.File, models semantic.ModelMap, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("\"\"\"Generated async API client.\"\"\"\n")
	b.WriteString("from __future__ import annotations\n")
	b.WriteString("from typing import Any, Dict, Optional\n")
	b.WriteString("import httpx\n")
	b.WriteString("from ..models import *\n")
	b.WriteString("from ..enums import *\n\n")

	b.WriteString("class ApiError(Exception):\n")
	b.WriteString("    def __init__(self, status_code: int, message: str):\n")
	b.WriteString("        super().__init__(message)\n")
	b.WriteString("        self.status_code = status_code\n")
	b.WriteString("        self.message = message\n\n\n")

	b.WriteString("class BaseClient:\n")
	b.WriteString("    def __init__(self, base_url: str, access_token: Optional[str] = None):\n")
	b.WriteString("        self.base_url = base_url.rstrip(\"/\")\n")
	b.WriteString("        self.access_token = access_token\n")
	b.WriteString("        self._client: Optional[httpx.AsyncClient] = None\n\n")
	b.WriteString("    async def __aenter__(self) -> \"BaseClient\":\n")
	b.WriteString("        self._client = httpx.AsyncClient()\n")
	b.WriteString("        return self\n\n")
	b.WriteString("    async def __aexit__(self, *exc: Any) -> None:\n")
	b.WriteString("        if self._client is not None:\n")
	b.WriteString("            await self._client.aclose()\n\n")
	b.WriteString("    def _headers(self) -> Dict[str, str]:\n")
	b.WriteString("        headers = {\"Content-Type\": \"application/json\"}\n")
	b.WriteString("        if self.access_token:\n")
	b.WriteString("            headers[\"Authorization\"] = f\"Bearer {self.access_token}\"\n")
	b.WriteString("        return headers\n\n")
	b.WriteString("    async def _request(self, method: str, path: str, **kwargs: Any) -> Any:\n")
	b.WriteString("        assert self._client is not None\n")
	b.WriteString("        resp = await self._client.request(method, f\"{self.base_url}{path}\", headers=self._headers(), **kwargs)\n")
	b.WriteString("        if resp.status_code >= 400:\n")
	b.WriteString("            raise ApiError(resp.status_code, resp.text)\n")
	b.WriteString("        if resp.status_code == 204:\n")
	b.WriteString("            return None\n")
	b.WriteString("        return resp.json()\n\n\n")

	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "class %sClient:\n", iface.Name)
		b.WriteString("    def __init__(self, base: BaseClient):\n")
		b.WriteString("        self._base = base\n\n")

		for _, op := range iface.Operations {
			writePyClientMethod(&b, iface, op, models, scalars)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writePyClientMethod(b *strings.Builder, iface *ast.Interface, op ast.Operation, models semantic.ModelMap, scalars semantic.ScalarMap) {
	params := make([]string, 0, len(op.Params))
	params = append(params, "self")
	for _, p := range op.Params {
		if p.Spread && p.Name == "" {
			continue
		}
		t := typeToPython(p.TypeRef, scalars, false)
		if semantic.IsQueryParam(p.Decorators) || p.Optional {
			params = append(params, fmt.Sprintf("%s: Optional[%s] = None", snakeCase(p.Name), t))
		} else {
			params = append(params, fmt.Sprintf("%s: %s", snakeCase(p.Name), t))
		}
	}

	display, bodyType := extractReturnType(op.ReturnType, scalars)
	fmt.Fprintf(b, "    async def %s(%s) -> %s:\n", snakeCase(op.Name), strings.Join(params, ", "), display)

	route := semantic.FullRoute(iface.Decorators, op.Decorators)
	for _, p := range op.Params {
		if semantic.IsPathParam(p.Decorators) {
			route = strings.ReplaceAll(route, "{"+p.Name+"}", fmt.Sprintf("{%s}", snakeCase(p.Name)))
		}
	}
	method := semantic.HTTPMethod(op.Decorators)

	var kwargs []string
	for _, p := range op.Params {
		if semantic.IsBodyParam(p.Decorators) {
			kwargs = append(kwargs, fmt.Sprintf("json=%s.to_dict() if hasattr(%s, 'to_dict') else %s", snakeCase(p.Name), snakeCase(p.Name), snakeCase(p.Name)))
		}
	}

	fmt.Fprintf(b, "        result = await self._base._request(%q, f%q%s)\n", method, route, kwargsSuffix(kwargs))
	writePyResultUnwrap(b, bodyType)
}

func kwargsSuffix(kwargs []string) string {
	if len(kwargs) == 0 {
		return ""
	}
	return ", " + strings.Join(kwargs, ", ")
}

func writePyResultUnwrap(b *strings.Builder, bodyType string) {
	switch {
	case bodyType == "None":
		b.WriteString("        return None\n\n")
	case isPrimitivePython(bodyType):
		b.WriteString("        return result\n\n")
	case strings.HasPrefix(bodyType, "List["):
		inner := strings.TrimSuffix(strings.TrimPrefix(bodyType, "List["), "]")
		fmt.Fprintf(b, "        return [%s.from_dict(item) for item in result]\n\n", inner)
	default:
		fmt.Fprintf(b, "        return %s.from_dict(result)\n\n", bodyType)
	}
}

func generateServer(file *ast.File, models semantic.ModelMap, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("\"\"\"Generated abstract server handlers.\"\"\"\n")
	b.WriteString("from __future__ import annotations\n")
	b.WriteString("from abc import ABC, abstractmethod\n")
	b.WriteString("from typing import Optional\n")
	b.WriteString("from ..models import *\n")
	b.WriteString("from ..enums import *\n\n")

	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "class %sHandler(ABC):\n", iface.Name)
		for _, op := range iface.Operations {
			params := make([]string, 0, len(op.Params))
			params = append(params, "self")
			for _, p := range op.Params {
				if p.Spread && p.Name == "" {
					continue
				}
				t := typeToPython(p.TypeRef, scalars, false)
				if p.Optional {
					params = append(params, fmt.Sprintf("%s: Optional[%s] = None", snakeCase(p.Name), t))
				} else {
					params = append(params, fmt.Sprintf("%s: %s", snakeCase(p.Name), t))
				}
			}
			display, _ := extractReturnType(op.ReturnType, scalars)
			b.WriteString("    @abstractmethod\n")
			fmt.Fprintf(&b, "    async def %s(%s) -> %s:\n", snakeCase(op.Name), strings.Join(params, ", "), display)
			b.WriteString("        raise NotImplementedError\n\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func generateInit(side codegen.Side) string {
	var b strings.Builder
	b.WriteString("from .models import *\n")
	b.WriteString("from .enums import *\n")
	if side.IncludesClient() {
		b.WriteString("from .client import *\n")
	}
	if side.IncludesServer() {
		b.WriteString("from .server import *\n")
	}
	return b.String()
}

func builtinToPython(name string) string {
	switch name {
	case "string", "url":
		return "str"
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return "int"
	case "float32", "float64":
		return "float"
	case "boolean":
		return "bool"
	case "utcDateTime", "offsetDateTime", "plainDate", "plainTime":
		return "datetime"
	case "bytes":
		return "bytes"
	case "void", "null":
		return "None"
	default:
		return "Any"
	}
}

func typeToPython(ref ast.TypeRef, scalars semantic.ScalarMap, inOptional bool) string {
	switch t := ref.(type) {
	case *ast.TypeRefBuiltin:
		return builtinToPython(t.Name)
	case *ast.TypeRefNamed:
		if base, ok := scalars[t.Name]; ok {
			return builtinToPython(base)
		}
		return t.Name
	case *ast.TypeRefQualified:
		if len(t.Parts) == 0 {
			return "Any"
		}
		return t.Parts[len(t.Parts)-1]
	case *ast.TypeRefArray:
		return fmt.Sprintf("List[%s]", typeToPython(t.Elem, scalars, false))
	case *ast.TypeRefGeneric:
		if name, ok := t.Base.(*ast.TypeRefNamed); ok && name.Name == "Record" && len(t.Args) == 1 {
			return fmt.Sprintf("Dict[str, %s]", typeToPython(t.Args[0], scalars, false))
		}
		base := typeToPython(t.Base, scalars, false)
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = typeToPython(a, scalars, false)
		}
		return fmt.Sprintf("%s[%s]", base, strings.Join(args, ", "))
	case *ast.TypeRefOptional:
		return typeToPython(t.Inner, scalars, true)
	case *ast.TypeRefUnion:
		if allStringLiterals(t.Variants) {
			vals := make([]string, len(t.Variants))
			for i, v := range t.Variants {
				vals[i] = fmt.Sprintf("%q", v.(*ast.TypeRefStringLiteral).Value)
			}
			return fmt.Sprintf("Literal[%s]", strings.Join(vals, ", "))
		}
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = typeToPython(v, scalars, false)
		}
		return strings.Join(parts, " | ")
	case *ast.TypeRefIntersection:
		parts := make([]string, len(t.Parts))
		for i, v := range t.Parts {
			parts[i] = typeToPython(v, scalars, false)
		}
		return strings.Join(parts, " | ")
	case *ast.TypeRefStringLiteral:
		return fmt.Sprintf("Literal[%q]", t.Value)
	case *ast.TypeRefIntLiteral:
		return fmt.Sprintf("Literal[%d]", t.Value)
	case *ast.TypeRefAnonymousModel:
		return "Dict[str, Any]"
	default:
		return "Any"
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
