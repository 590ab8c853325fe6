// Package rustgen implements the Target-C (Rust-like nominal) emitter:
// serde structs, rename enums, a reqwest client with borrowed params, an
// axum/async-trait server trait, and a Cargo.toml build manifest.
package rustgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/codegen"
	"github.com/adi-family/lib-typespec-api/internal/semantic"
)

type Emitter struct{}

// inlineEnumAccumulator collects model-property string-literal unions that
// get hoisted into standalone enums, scoped to a single models.rs
// generation pass. Flushed in sorted-by-name order so repeated runs on
// identical input produce byte-identical output.
type inlineEnumAccumulator struct {
	enums map[string][]string
}

func newAccumulator() *inlineEnumAccumulator {
	return &inlineEnumAccumulator{enums: map[string][]string{}}
}

func (c *inlineEnumAccumulator) register(modelName, propName string, variants []string) string {
	name := modelName + pascalCase(propName)
	c.enums[name] = variants
	return name
}

func (c *inlineEnumAccumulator) sortedNames() []string {
	names := make([]string, 0, len(c.enums))
	for n := range c.enums {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (Emitter) Generate(file *ast.File, packageName string, side codegen.Side) ([]codegen.GeneratedFile, error) {
	scalars := semantic.BuildScalarMap(file)
	models := semantic.BuildModelMap(file)

	var out []codegen.GeneratedFile
	out = append(out, codegen.GeneratedFile{Path: "Cargo.toml", Content: generateCargoToml(packageName, side)})
	out = append(out, codegen.GeneratedFile{Path: "src/lib.rs", Content: generateLib(side)})
	out = append(out, codegen.GeneratedFile{Path: "src/models.rs", Content: generateModels(file, models, scalars)})
	out = append(out, codegen.GeneratedFile{Path: "src/enums.rs", Content: generateEnums(file)})

	if side.IncludesClient() {
		out = append(out, codegen.GeneratedFile{Path: "src/client.rs", Content: generateClient(file, scalars)})
	}
	if side.IncludesServer() {
		out = append(out, codegen.GeneratedFile{Path: "src/server.rs", Content: generateServer(file, scalars)})
	}

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

func pascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true, "else": true,
	"enum": true, "extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true, "self": true,
	"Self": true, "static": true, "struct": true, "super": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true, "async": true,
	"await": true, "dyn": true, "abstract": true, "become": true, "box": true, "do": true,
	"final": true, "macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true, "try": true,
}

func escapeFieldName(name string) string {
	s := snakeCase(name)
	if rustKeywords[s] {
		return "r#" + s
	}
	return s
}

func generateCargoToml(packageName string, side codegen.Side) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n", packageName)
	b.WriteString("[dependencies]\n")
	b.WriteString("serde = { version = \"1\", features = [\"derive\"] }\n")
	b.WriteString("serde_json = \"1\"\n")
	b.WriteString("chrono = { version = \"0.4\", features = [\"serde\"] }\n")
	b.WriteString("uuid = { version = \"1\", features = [\"serde\", \"v4\"] }\n")
	b.WriteString("thiserror = \"2\"\n")
	if side.IncludesClient() {
		b.WriteString("reqwest = { version = \"0.12\", features = [\"json\"] }\n")
	}
	if side.IncludesServer() {
		b.WriteString("axum = \"0.7\"\n")
		b.WriteString("async-trait = \"0.1\"\n")
		b.WriteString("tokio = { version = \"1\", features = [\"full\"] }\n")
	}
	return b.String()
}

func generateLib(side codegen.Side) string {
	var b strings.Builder
	b.WriteString("pub mod models;\npub mod enums;\n")
	if side.IncludesClient() {
		b.WriteString("pub mod client;\n")
	}
	if side.IncludesServer() {
		b.WriteString("pub mod server;\n")
	}
	return b.String()
}

func generateModels(file *ast.File, models semantic.ModelMap, scalars semantic.ScalarMap) string {
	var structDefs strings.Builder
	acc := newAccumulator()

	for _, m := range file.Models() {
		props := semantic.ResolveProperties(m, models)

		if len(m.TypeParams) > 0 {
			writeGenericModel(&structDefs, m, props, scalars, acc)
			continue
		}

		structDefs.WriteString("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
		structDefs.WriteString("#[serde(rename_all = \"camelCase\")]\n")
		fmt.Fprintf(&structDefs, "pub struct %s {\n", m.Name)
		for _, p := range props {
			writeStructField(&structDefs, m.Name, p, scalars, acc)
		}
		structDefs.WriteString("}\n\n")
	}

	var b strings.Builder
	b.WriteString("use serde::{Deserialize, Serialize};\n")
	b.WriteString("use std::collections::HashMap;\n\n")

	for _, name := range acc.sortedNames() {
		variants := acc.enums[name]
		b.WriteString("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
		fmt.Fprintf(&b, "pub enum %s {\n", name)
		for _, v := range variants {
			fmt.Fprintf(&b, "    #[serde(rename = %q)]\n    %s,\n", v, pascalCase(v))
		}
		b.WriteString("}\n\n")
	}

	b.WriteString(structDefs.String())
	return b.String()
}

func writeGenericModel(b *strings.Builder, m *ast.Model, props []ast.Property, scalars semantic.ScalarMap, acc *inlineEnumAccumulator) {
	b.WriteString("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
	b.WriteString("#[serde(rename_all = \"camelCase\")]\n")
	fmt.Fprintf(b, "pub struct %s<%s> {\n", m.Name, strings.Join(m.TypeParams, ", "))
	for _, p := range props {
		optional := p.Optional
		ty := typeToRustWithContext(m.Name, p.Name, p.TypeRef, scalars, acc)
		if optional {
			if !strings.HasPrefix(ty, "Option<") {
				ty = fmt.Sprintf("Option<%s>", ty)
			}
			fmt.Fprintf(b, "    #[serde(skip_serializing_if = \"Option::is_none\")]\n    pub %s: %s,\n", escapeFieldName(p.Name), ty)
		} else {
			fmt.Fprintf(b, "    pub %s: %s,\n", escapeFieldName(p.Name), ty)
		}
	}
	b.WriteString("}\n\n")
}

func writeStructField(b *strings.Builder, modelName string, p ast.Property, scalars semantic.ScalarMap, acc *inlineEnumAccumulator) {
	ty := typeToRustWithContext(modelName, p.Name, p.TypeRef, scalars, acc)
	if p.Optional {
		if !strings.HasPrefix(ty, "Option<") {
			ty = fmt.Sprintf("Option<%s>", ty)
		}
		fmt.Fprintf(b, "    #[serde(skip_serializing_if = \"Option::is_none\")]\n    pub %s: %s,\n", escapeFieldName(p.Name), ty)
		return
	}
	fmt.Fprintf(b, "    pub %s: %s,\n", escapeFieldName(p.Name), ty)
}

func generateEnums(file *ast.File) string {
	var b strings.Builder
	b.WriteString("use serde::{Deserialize, Serialize};\n\n")
	for _, e := range file.Enums() {
		b.WriteString("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
		fmt.Fprintf(&b, "pub enum %s {\n", e.Name)
		for _, m := range e.Members {
			val := enumValue(m)
			fmt.Fprintf(&b, "    #[serde(rename = %q)]\n    %s,\n", val, pascalCase(m.Name))
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
		return snakeCase(m.Name)
	}
}

func generateClient(file *ast.File, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("use crate::models::*;\nuse crate::enums::*;\n\n")

	b.WriteString("#[derive(Debug, thiserror::Error)]\npub enum ApiError {\n")
	b.WriteString("    #[error(transparent)]\n    Http(#[from] reqwest::Error),\n")
	b.WriteString("    #[error(\"{status}: {message}\")]\n    Api { status: u16, code: String, message: String },\n")
	b.WriteString("}\n\n")

	b.WriteString("pub struct BaseClient {\n    client: reqwest::Client,\n    base_url: String,\n    access_token: Option<String>,\n}\n\n")
	b.WriteString("impl BaseClient {\n")
	b.WriteString("    pub fn new(base_url: impl Into<String>) -> Self {\n")
	b.WriteString("        Self { client: reqwest::Client::new(), base_url: base_url.into(), access_token: None }\n    }\n\n")
	b.WriteString("    pub fn with_token(base_url: impl Into<String>, token: impl Into<String>) -> Self {\n")
	b.WriteString("        Self { client: reqwest::Client::new(), base_url: base_url.into(), access_token: Some(token.into()) }\n    }\n\n")
	b.WriteString("    pub fn set_token(&mut self, token: impl Into<String>) {\n        self.access_token = Some(token.into());\n    }\n")
	b.WriteString("}\n\n")

	for _, iface := range file.Interfaces() {
		fmt.Fprintf(&b, "pub struct %sClient<'a> {\n    client: &'a BaseClient,\n}\n\n", iface.Name)
		fmt.Fprintf(&b, "impl<'a> %sClient<'a> {\n", iface.Name)
		fmt.Fprintf(&b, "    pub fn new(client: &'a BaseClient) -> Self {\n        Self { client }\n    }\n\n")
		for _, op := range iface.Operations {
			writeRustClientMethod(&b, iface, op, scalars)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

// skipSpreadParam reports whether an operation parameter should be omitted
// from a generated Rust client/server method signature: an anonymous
// spread parameter contributes no name to bind to.
func skipSpreadParam(p ast.OperationParam) bool {
	return p.Spread && p.Name == ""
}

func writeRustClientMethod(b *strings.Builder, iface *ast.Interface, op ast.Operation, scalars semantic.ScalarMap) {
	params := []string{"&self"}
	for _, p := range op.Params {
		if skipSpreadParam(p) {
			continue
		}
		ty := typeToRust(p.TypeRef, scalars)
		if semantic.IsBodyParam(p.Decorators) {
			params = append(params, fmt.Sprintf("%s: &%s", escapeFieldName(p.Name), ty))
		} else if p.Optional {
			params = append(params, fmt.Sprintf("%s: Option<%s>", escapeFieldName(p.Name), ty))
		} else {
			params = append(params, fmt.Sprintf("%s: &%s", escapeFieldName(p.Name), ty))
		}
	}

	ret := "()"
	if op.ReturnType != nil {
		ret = typeToRust(*op.ReturnType, scalars)
	}
	fmt.Fprintf(b, "    pub async fn %s(%s) -> Result<%s, ApiError> {\n", snakeCase(op.Name), strings.Join(params, ", "), ret)

	route := semantic.FullRoute(iface.Decorators, op.Decorators)
	var pathArgs []string
	for _, p := range op.Params {
		if semantic.IsPathParam(p.Decorators) {
			route = strings.ReplaceAll(route, "{"+p.Name+"}", "{}")
			pathArgs = append(pathArgs, escapeFieldName(p.Name))
		}
	}
	if len(pathArgs) > 0 {
		fmt.Fprintf(b, "        let path = format!(%q, %s);\n", route, strings.Join(pathArgs, ", "))
	} else {
		fmt.Fprintf(b, "        let path = %q.to_string();\n", route)
	}

	method := strings.ToLower(semantic.HTTPMethod(op.Decorators))
	fmt.Fprintf(b, "        let resp = self.client.client.%s(format!(\"{}{}\", self.client.base_url, path));\n", method)
	b.WriteString("        let resp = resp.send().await?;\n")
	b.WriteString("        if resp.status().as_u16() >= 400 {\n")
	b.WriteString("            return Err(ApiError::Api { status: resp.status().as_u16(), code: \"ERROR\".into(), message: resp.text().await.unwrap_or_default() });\n")
	b.WriteString("        }\n")
	if op.ReturnType == nil {
		b.WriteString("        Ok(())\n    }\n\n")
		return
	}
	b.WriteString("        Ok(resp.json().await?)\n    }\n\n")
}

func generateServer(file *ast.File, scalars semantic.ScalarMap) string {
	var b strings.Builder
	b.WriteString("use crate::models::*;\nuse crate::enums::*;\nuse async_trait::async_trait;\n\n")

	b.WriteString("#[derive(Debug)]\npub struct ApiError {\n    pub status: u16,\n    pub message: String,\n}\n\n")

	for _, iface := range file.Interfaces() {
		b.WriteString("#[async_trait]\n")
		fmt.Fprintf(&b, "pub trait %sHandler: Send + Sync + 'static {\n", iface.Name)
		for _, op := range iface.Operations {
			params := []string{"&self"}
			for _, p := range op.Params {
				if skipSpreadParam(p) {
					continue
				}
				ty := typeToRust(p.TypeRef, scalars)
				if p.Optional {
					ty = fmt.Sprintf("Option<%s>", ty)
				}
				params = append(params, fmt.Sprintf("%s: %s", escapeFieldName(p.Name), ty))
			}
			ret := "()"
			if op.ReturnType != nil {
				ret = typeToRust(*op.ReturnType, scalars)
			}
			fmt.Fprintf(&b, "    async fn %s(%s) -> Result<%s, ApiError>;\n", snakeCase(op.Name), strings.Join(params, ", "), ret)
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func builtinToRust(name string) string {
	switch name {
	case "string", "url":
		return "String"
	case "int8":
		return "i8"
	case "int16":
		return "i16"
	case "int32":
		return "i32"
	case "int64":
		return "i64"
	case "uint8":
		return "u8"
	case "uint16":
		return "u16"
	case "uint32":
		return "u32"
	case "uint64":
		return "u64"
	case "float32":
		return "f32"
	case "float64":
		return "f64"
	case "boolean":
		return "bool"
	case "utcDateTime", "offsetDateTime":
		return "chrono::DateTime<chrono::Utc>"
	case "plainDate":
		return "chrono::NaiveDate"
	case "plainTime":
		return "chrono::NaiveTime"
	case "bytes":
		return "Vec<u8>"
	case "void", "null":
		return "()"
	default:
		return "serde_json::Value"
	}
}

// typeToRust is the context-free mapping used for operation params/returns:
// it never synthesizes inline enums, so an all-string-literal union becomes
// serde_json::Value.
func typeToRust(ref ast.TypeRef, scalars semantic.ScalarMap) string {
	switch t := ref.(type) {
	case *ast.TypeRefBuiltin:
		return builtinToRust(t.Name)
	case *ast.TypeRefNamed:
		if t.Name == "uuid" {
			return "uuid::Uuid"
		}
		if t.Name == "email" || t.Name == "url" {
			return "String"
		}
		if base, ok := scalars[t.Name]; ok {
			return builtinToRust(base)
		}
		return t.Name
	case *ast.TypeRefQualified:
		if len(t.Parts) == 0 {
			return "serde_json::Value"
		}
		return t.Parts[len(t.Parts)-1]
	case *ast.TypeRefArray:
		return fmt.Sprintf("Vec<%s>", typeToRust(t.Elem, scalars))
	case *ast.TypeRefGeneric:
		if name, ok := t.Base.(*ast.TypeRefNamed); ok && name.Name == "Record" && len(t.Args) == 1 {
			return fmt.Sprintf("HashMap<String, %s>", typeToRust(t.Args[0], scalars))
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = typeToRust(a, scalars)
		}
		return fmt.Sprintf("%s<%s>", typeToRust(t.Base, scalars), strings.Join(args, ", "))
	case *ast.TypeRefOptional:
		inner := typeToRust(t.Inner, scalars)
		return fmt.Sprintf("Option<%s>", inner)
	case *ast.TypeRefUnion, *ast.TypeRefIntersection:
		return "serde_json::Value"
	case *ast.TypeRefStringLiteral, *ast.TypeRefIntLiteral:
		return "serde_json::Value"
	case *ast.TypeRefAnonymousModel:
		return "serde_json::Value"
	default:
		return "serde_json::Value"
	}
}

// typeToRustWithContext is used only while generating model struct fields:
// an all-string-literal union property is hoisted into a standalone
// "{Model}{Prop}" enum via acc. Inline-enum synthesis is scoped to model
// properties alone; operation params/returns never hoist.
func typeToRustWithContext(modelName, propName string, ref ast.TypeRef, scalars semantic.ScalarMap, acc *inlineEnumAccumulator) string {
	if u, ok := ref.(*ast.TypeRefUnion); ok && allStringLiterals(u.Variants) {
		variants := make([]string, len(u.Variants))
		for i, v := range u.Variants {
			variants[i] = v.(*ast.TypeRefStringLiteral).Value
		}
		return acc.register(modelName, propName, variants)
	}
	if opt, ok := ref.(*ast.TypeRefOptional); ok {
		return typeToRustWithContext(modelName, propName, opt.Inner, scalars, acc)
	}
	return typeToRust(ref, scalars)
}

func allStringLiterals(variants []ast.TypeRef) bool {
	for _, v := range variants {
		if _, ok := v.(*ast.TypeRefStringLiteral); !ok {
			return false
		}
	}
	return len(variants) > 0
}
