// Package parser implements a recursive-descent parser turning a token
// stream from internal/lexer into an internal/ast.File.
//
// The grammar keeps one deliberately non-conventional precedence quirk: a
// type reference parses its union ("|") variants before checking for a
// trailing intersection ("&"), so "A | B & C" parses as
// Intersection([Union([A, B]), C]) rather than the conventional
// Union([A, Intersection([B, C])]).
package parser

import (
	"fmt"
	"strconv"

	"github.com/adi-family/lib-typespec-api/internal/ast"
	"github.com/adi-family/lib-typespec-api/internal/lexer"
)

var builtinNames = map[string]bool{
	"string": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "boolean": true, "bytes": true,
	"plainDate": true, "plainTime": true, "utcDateTime": true, "offsetDateTime": true,
	"duration": true, "url": true, "null": true, "void": true, "never": true, "unknown": true,
}

// Parser consumes a flat token stream and builds an ast.File. It aborts on
// the first error rather than attempting any error recovery, per the
// error-handling design: a parse failure in one file must not silently
// produce a partial AST for that file.
type Parser struct {
	input  string
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses a single SDL source file.
func Parse(input string) (*ast.File, error) {
	p := &Parser{input: input, tokens: lexer.TokenizeAll(input)}
	return p.parseFile()
}

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.unexpectedToken(tt.String(), p.current())
}

// expectIdent accepts a bare identifier, or any of the grammar's keywords
// used in identifier position (property names, type parameter names, etc).
func (p *Parser) expectIdent() (string, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		return tok.Value, nil
	case lexer.MODEL, lexer.ENUM, lexer.UNION, lexer.INTERFACE, lexer.SCALAR,
		lexer.ALIAS, lexer.NAMESPACE, lexer.IMPORT, lexer.USING, lexer.EXTENDS,
		lexer.IS, lexer.OP:
		p.advance()
		return tok.Value, nil
	default:
		return "", p.unexpectedToken("identifier", tok)
	}
}

func (p *Parser) expectString() (string, error) {
	tok := p.current()
	if tok.Type != lexer.STRING {
		return "", p.unexpectedToken("string literal", tok)
	}
	p.advance()
	return tok.Value, nil
}

func (p *Parser) parseFile() (*ast.File, error) {
	file := ast.NewFile()

	for p.current().Type != lexer.EOF {
		decorators, err := p.parseDecorators()
		if err != nil {
			return nil, err
		}

		switch p.current().Type {
		case lexer.IMPORT:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			file.Imports = append(file.Imports, imp)

		case lexer.USING:
			use, err := p.parseUsing()
			if err != nil {
				return nil, err
			}
			file.Usings = append(file.Usings, use)

		case lexer.NAMESPACE:
			if err := p.parseNamespace(file, decorators); err != nil {
				return nil, err
			}

		case lexer.MODEL:
			m, err := p.parseModel(decorators)
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, m)

		case lexer.ENUM:
			e, err := p.parseEnum(decorators)
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, e)

		case lexer.UNION:
			u, err := p.parseUnion(decorators)
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, u)

		case lexer.INTERFACE:
			i, err := p.parseInterface(decorators)
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, i)

		case lexer.SCALAR:
			s, err := p.parseScalar(decorators)
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, s)

		case lexer.ALIAS:
			a, err := p.parseAlias()
			if err != nil {
				return nil, err
			}
			file.Declarations = append(file.Declarations, a)

		case lexer.EOF:
			// nothing left; loop condition handles this

		default:
			return nil, p.invalidSyntax(fmt.Sprintf("unexpected token: %s", p.current().Type))
		}
	}

	return file, nil
}

func (p *Parser) parseNamespace(file *ast.File, decorators []ast.Decorator) error {
	start := p.current().Span
	p.advance() // 'namespace'
	name, err := p.parseQualifiedName()
	if err != nil {
		return err
	}

	if p.check(lexer.SEMI) {
		// Top-level "namespace Name;" — any decorators collected before this
		// statement are discarded; they have nothing to attach to.
		p.advance()
		file.Namespace = name
		return nil
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	var decls []ast.Declaration
	for !p.check(lexer.RBRACE) && p.current().Type != lexer.EOF {
		decs, err := p.parseDecorators()
		if err != nil {
			return err
		}
		switch p.current().Type {
		case lexer.MODEL:
			m, err := p.parseModel(decs)
			if err != nil {
				return err
			}
			decls = append(decls, m)
		case lexer.ENUM:
			e, err := p.parseEnum(decs)
			if err != nil {
				return err
			}
			decls = append(decls, e)
		case lexer.INTERFACE:
			i, err := p.parseInterface(decs)
			if err != nil {
				return err
			}
			decls = append(decls, i)
		default:
			// Any other token inside a nested namespace block ends
			// declaration collection without error; the subsequent
			// expect(RBrace) below reports anything amiss.
			goto done
		}
	}
done:
	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return err
	}
	file.Declarations = append(file.Declarations, &ast.Namespace{
		Name:         name,
		Decorators:   decorators,
		Declarations: decls,
		Span:         lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	})
	return nil
}

func (p *Parser) parseDecorators() ([]ast.Decorator, error) {
	var decorators []ast.Decorator
	for p.check(lexer.DECORATOR) {
		name := p.advance().Value
		var args []ast.DecoratorArg
		if p.check(lexer.LPAREN) {
			var err error
			args, err = p.parseDecoratorArgs()
			if err != nil {
				return nil, err
			}
		}
		decorators = append(decorators, ast.Decorator{Name: name, Args: args})
	}
	return decorators, nil
}

func (p *Parser) parseDecoratorArgs() ([]ast.DecoratorArg, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.DecoratorArg
	for !p.check(lexer.RPAREN) {
		named := p.check(lexer.IDENT) && p.peekAt(1).Type == lexer.COLON
		if named {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.ArgNamed{Name: name, Value: val})
		} else {
			val, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.ArgValue{Value: val})
		}
		if p.check(lexer.COMMA) {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseValue() (ast.Value, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.STRING:
		p.advance()
		return &ast.ValueString{Value: tok.Value}, nil
	case lexer.INT:
		p.advance()
		return &ast.ValueInt{Value: parseInt(tok.Value)}, nil
	case lexer.FLOAT:
		p.advance()
		return &ast.ValueFloat{Value: parseFloat(tok.Value)}, nil
	case lexer.TRUE:
		p.advance()
		return &ast.ValueBool{Value: true}, nil
	case lexer.FALSE:
		p.advance()
		return &ast.ValueBool{Value: false}, nil
	case lexer.IDENT:
		p.advance()
		parts := []string{tok.Value}
		for p.check(lexer.DOT) {
			p.advance()
			part, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		if len(parts) > 1 {
			return &ast.ValueQualifiedIdent{Parts: parts}, nil
		}
		return &ast.ValueIdent{Value: parts[0]}, nil
	case lexer.LBRACKET:
		p.advance()
		var items []ast.Value
		for !p.check(lexer.RBRACKET) {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
			if p.check(lexer.COMMA) {
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ValueArray{Values: items}, nil
	case lexer.LBRACE:
		p.advance()
		fields := map[string]ast.Value{}
		for !p.check(lexer.RBRACE) {
			key, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			fields[key] = v
			if p.check(lexer.COMMA) {
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &ast.ValueObject{Fields: fields}, nil
	default:
		return nil, p.unexpectedToken("value", tok)
	}
}

func (p *Parser) parseImport() (ast.Import, error) {
	if _, err := p.expect(lexer.IMPORT); err != nil {
		return ast.Import{}, err
	}
	path, err := p.expectString()
	if err != nil {
		return ast.Import{}, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return ast.Import{}, err
	}
	return ast.Import{Path: path}, nil
}

func (p *Parser) parseUsing() (ast.Using, error) {
	if _, err := p.expect(lexer.USING); err != nil {
		return ast.Using{}, err
	}
	ns, err := p.parseQualifiedName()
	if err != nil {
		return ast.Using{}, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return ast.Using{}, err
	}
	return ast.Using{Namespace: ns}, nil
}

func (p *Parser) parseQualifiedName() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	name := first
	for p.check(lexer.DOT) {
		p.advance()
		part, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name += "." + part
	}
	return name, nil
}

func (p *Parser) parseModel(decorators []ast.Decorator) (*ast.Model, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.MODEL); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var typeParams []string
	if p.check(lexer.LANGLE) {
		typeParams, err = p.parseTypeParams()
		if err != nil {
			return nil, err
		}
	}

	var extends *ast.TypeRef
	if p.check(lexer.EXTENDS) {
		p.advance()
		tr, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		extends = &tr
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var properties []ast.Property
	var spreadRefs []ast.TypeRef
	for !p.check(lexer.RBRACE) {
		propDecorators, err := p.parseDecorators()
		if err != nil {
			return nil, err
		}

		if p.check(lexer.SPREAD) {
			p.advance()
			tr, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			spreadRefs = append(spreadRefs, tr)
			if p.check(lexer.SEMI) {
				p.advance()
			}
			continue
		}

		propStart := p.current().Span
		propName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		optional := false
		if p.check(lexer.QUESTION) {
			p.advance()
			optional = true
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		tr, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		var def ast.Value
		if p.check(lexer.EQUALS) {
			p.advance()
			def, err = p.parseValue()
			if err != nil {
				return nil, err
			}
		}
		propEnd := p.current().Span
		if p.check(lexer.SEMI) {
			propEnd = p.advance().Span
		}
		properties = append(properties, ast.Property{
			Name:       propName,
			Decorators: propDecorators,
			TypeRef:    tr,
			Optional:   optional,
			Default:    def,
			Span:       lexer.SourceSpan{Start: propStart.Start, End: propEnd.End},
		})
	}

	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.Model{
		Name:       name,
		Decorators: decorators,
		TypeParams: typeParams,
		Extends:    extends,
		Properties: properties,
		SpreadRefs: spreadRefs,
		Span:       lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

func (p *Parser) parseTypeParams() ([]string, error) {
	if _, err := p.expect(lexer.LANGLE); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(lexer.RANGLE) {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, name)
		if p.check(lexer.COMMA) {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RANGLE); err != nil {
		return nil, err
	}
	return params, nil
}

// parseTypeRef parses a union first, then checks for a trailing
// intersection applied to the whole union result: "A | B & C" becomes
// Intersection([Union([A, B]), C]), a deliberately non-conventional
// precedence.
func (p *Parser) parseTypeRef() (ast.TypeRef, error) {
	typeRef, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}

	if p.check(lexer.PIPE) {
		variants := []ast.TypeRef{typeRef}
		for p.check(lexer.PIPE) {
			p.advance()
			v, err := p.parsePrimaryType()
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		typeRef = &ast.TypeRefUnion{Variants: variants}
	}

	if p.check(lexer.AMP) {
		parts := []ast.TypeRef{typeRef}
		for p.check(lexer.AMP) {
			p.advance()
			v, err := p.parsePrimaryType()
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
		}
		typeRef = &ast.TypeRefIntersection{Parts: parts}
	}

	return typeRef, nil
}

func (p *Parser) parsePrimaryType() (ast.TypeRef, error) {
	var base ast.TypeRef

	switch p.current().Type {
	case lexer.IDENT:
		name := p.advance().Value
		parts := []string{name}
		for p.check(lexer.DOT) {
			p.advance()
			part, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}

		var baseType ast.TypeRef
		if len(parts) > 1 {
			baseType = &ast.TypeRefQualified{Parts: parts}
		} else if builtinNames[parts[0]] {
			baseType = &ast.TypeRefBuiltin{Name: parts[0]}
		} else {
			baseType = &ast.TypeRefNamed{Name: parts[0]}
		}

		if p.check(lexer.LANGLE) {
			p.advance()
			var args []ast.TypeRef
			for !p.check(lexer.RANGLE) {
				a, err := p.parseTypeRef()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.check(lexer.COMMA) {
					p.advance()
				}
			}
			if _, err := p.expect(lexer.RANGLE); err != nil {
				return nil, err
			}
			base = &ast.TypeRefGeneric{Base: baseType, Args: args}
		} else {
			base = baseType
		}

	case lexer.STRING:
		tok := p.advance()
		base = &ast.TypeRefStringLiteral{Value: tok.Value}

	case lexer.INT:
		tok := p.advance()
		base = &ast.TypeRefIntLiteral{Value: parseInt(tok.Value)}

	case lexer.LBRACE:
		p.advance()
		var properties []ast.Property
		for !p.check(lexer.RBRACE) {
			decorators, err := p.parseDecorators()
			if err != nil {
				return nil, err
			}
			propStart := p.current().Span
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			optional := false
			if p.check(lexer.QUESTION) {
				p.advance()
				optional = true
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			tr, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			propEnd := p.current().Span
			if p.check(lexer.SEMI) {
				propEnd = p.advance().Span
			}
			properties = append(properties, ast.Property{
				Name:       name,
				Decorators: decorators,
				TypeRef:    tr,
				Optional:   optional,
				Span:       lexer.SourceSpan{Start: propStart.Start, End: propEnd.End},
			})
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		base = &ast.TypeRefAnonymousModel{Properties: properties}

	default:
		return nil, p.unexpectedToken("type", p.current())
	}

	result := base
	for p.check(lexer.LBRACKET) {
		p.advance()
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		result = &ast.TypeRefArray{Elem: result}
	}

	return result, nil
}

func (p *Parser) parseEnum(decorators []ast.Decorator) (*ast.Enum, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.ENUM); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var members []ast.EnumMember
	for !p.check(lexer.RBRACE) {
		memberDecorators, err := p.parseDecorators()
		if err != nil {
			return nil, err
		}
		memberStart := p.current().Span
		memberName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var value ast.Value
		if p.check(lexer.COLON) {
			p.advance()
			value, err = p.parseValue()
			if err != nil {
				return nil, err
			}
		}
		memberEnd := p.current().Span
		if p.check(lexer.COMMA) {
			memberEnd = p.advance().Span
		}
		members = append(members, ast.EnumMember{
			Name:       memberName,
			Decorators: memberDecorators,
			Value:      value,
			Span:       lexer.SourceSpan{Start: memberStart.Start, End: memberEnd.End},
		})
	}

	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.Enum{
		Name:       name,
		Decorators: decorators,
		Members:    members,
		Span:       lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

func (p *Parser) parseUnion(decorators []ast.Decorator) (*ast.Union, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.UNION); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var variants []ast.UnionVariant
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.IDENT) {
			variantName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			tr, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			variants = append(variants, ast.UnionVariant{Name: variantName, TypeRef: tr})
		} else {
			tr, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			variants = append(variants, ast.UnionVariant{TypeRef: tr})
		}
		if p.check(lexer.COMMA) {
			p.advance()
		}
	}

	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.Union{
		Name:       name,
		Decorators: decorators,
		Variants:   variants,
		Span:       lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

func (p *Parser) parseInterface(decorators []ast.Decorator) (*ast.Interface, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.INTERFACE); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var operations []ast.Operation
	for !p.check(lexer.RBRACE) {
		opDecorators, err := p.parseDecorators()
		if err != nil {
			return nil, err
		}
		opStart := p.current().Span
		opName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		var params []ast.OperationParam
		for !p.check(lexer.RPAREN) {
			paramDecorators, err := p.parseDecorators()
			if err != nil {
				return nil, err
			}
			spread := false
			if p.check(lexer.SPREAD) {
				p.advance()
				spread = true
			}

			// A spread entry is a named param only if it's immediately
			// followed by ":" or "?" (i.e. "...name: Type"); otherwise it's
			// an anonymous "...TypeRef" spread.
			isNamedParam := !spread || p.peekAt(1).Type == lexer.COLON || p.peekAt(1).Type == lexer.QUESTION

			var paramName string
			var optional bool
			var tr ast.TypeRef
			if isNamedParam {
				paramName, err = p.expectIdent()
				if err != nil {
					return nil, err
				}
				if p.check(lexer.QUESTION) {
					p.advance()
					optional = true
				}
				if _, err := p.expect(lexer.COLON); err != nil {
					return nil, err
				}
				tr, err = p.parseTypeRef()
				if err != nil {
					return nil, err
				}
			} else {
				tr, err = p.parseTypeRef()
				if err != nil {
					return nil, err
				}
			}

			params = append(params, ast.OperationParam{
				Name:       paramName,
				Decorators: paramDecorators,
				TypeRef:    tr,
				Optional:   optional,
				Spread:     spread,
			})

			if p.check(lexer.COMMA) {
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}

		var returnType *ast.TypeRef
		if p.check(lexer.COLON) {
			p.advance()
			tr, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			returnType = &tr
		}

		opEnd := p.current().Span
		if p.check(lexer.SEMI) {
			opEnd = p.advance().Span
		}

		operations = append(operations, ast.Operation{
			Name:       opName,
			Decorators: opDecorators,
			Params:     params,
			ReturnType: returnType,
			Span:       lexer.SourceSpan{Start: opStart.Start, End: opEnd.End},
		})
	}

	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.Interface{
		Name:       name,
		Decorators: decorators,
		Operations: operations,
		Span:       lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

func (p *Parser) parseScalar(decorators []ast.Decorator) (*ast.Scalar, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.SCALAR); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var extends string
	if p.check(lexer.EXTENDS) {
		p.advance()
		extends, err = p.expectIdent()
		if err != nil {
			return nil, err
		}
	}

	end, err := p.expect(lexer.SEMI)
	if err != nil {
		return nil, err
	}

	return &ast.Scalar{
		Name:       name,
		Decorators: decorators,
		Extends:    extends,
		Span:       lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

func (p *Parser) parseAlias() (*ast.Alias, error) {
	start := p.current().Span
	if _, err := p.expect(lexer.ALIAS); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	tr, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(lexer.SEMI)
	if err != nil {
		return nil, err
	}

	return &ast.Alias{
		Name:    name,
		TypeRef: tr,
		Span:    lexer.SourceSpan{Start: start.Start, End: end.Span.End},
	}, nil
}

// parseInt and parseFloat trust the lexer to have already validated the
// token's shape (IntLit/FloatLit), so a conversion error here can't occur
// in practice and is discarded.

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
