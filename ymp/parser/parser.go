package parser

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"
)

type Option func(*Parser)

// WithFile tags positions and log lines with the given file name.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

type Parser struct {
	file  string
	src   TokenSource
	tok   Token
	diags []Diagnostic
	log   commonlog.Logger
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src: src,
		log: commonlog.GetLogger("ymp.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes input and parses it as one function definition.
func Parse(input []byte, opts ...Option) (*Function, []Diagnostic) {
	p := New(nil, opts...)
	p.src = NewLexer(input, p.file)
	tree := p.ParseFunction()
	return tree, p.Diagnostics()
}

func (p *Parser) HasErrors() bool {
	return len(p.diags) > 0
}

func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

// Errors returns the syntax diagnostics rendered as report lines.
func (p *Parser) Errors() []string {
	lines := make([]string, len(p.diags))
	for i, d := range p.diags {
		lines[i] = d.String()
	}
	return lines
}

// ParseFunction consumes the token source and always returns a tree rooted
// at a Function, with missing parts left nil or replaced by error leaves.
// The source is closed before returning if it implements io.Closer.
func (p *Parser) ParseFunction() *Function {
	defer p.release()

	p.advance()
	node := &Function{Start: p.tok.Pos}
	node.Begin = p.parseBegin()
	node.Descriptions = p.parseDescriptions()
	node.Operators = p.parseOperators()
	node.End = p.parseEnd()

	p.log.Debugf("%s: parsed function with %d syntax errors", p.file, len(p.diags))
	return node
}

func (p *Parser) release() {
	if c, ok := p.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			p.log.Warningf("%s: close token source: %s", p.file, err)
		}
	}
}

func (p *Parser) advance() Token {
	prev := p.tok
	p.tok = p.src.Next()
	return prev
}

func (p *Parser) check(kind TokenKind) bool {
	return p.tok.Kind == kind
}

func (p *Parser) errorf(format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Pos:     p.tok.Pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// match consumes the current token if it has the expected kind. On a
// mismatch it records a diagnostic, and for statement terminators it
// synchronizes to the next statement boundary.
func (p *Parser) match(expected TokenKind) bool {
	if p.check(expected) {
		p.advance()
		return true
	}
	p.errorf("Expected %s but found '%s'", expected, p.tok.Text)
	switch expected {
	case TokenSemicolon, TokenRBrace, TokenRParen:
		p.synchronize()
	}
	return false
}

// synchronize discards tokens until a statement boundary: a semicolon
// (which is consumed), end of input, return, a closing brace or an
// identifier.
func (p *Parser) synchronize() {
	skipped := 0
	for {
		switch p.tok.Kind {
		case TokenSemicolon:
			p.advance()
			p.log.Debugf("%s: synchronized after %d tokens at ';'", p.file, skipped)
			return
		case TokenEOF, TokenReturn, TokenRBrace, TokenIdent:
			p.log.Debugf("%s: synchronized after %d tokens at %s", p.file, skipped, p.tok.Kind)
			return
		}
		p.advance()
		skipped++
	}
}

func (p *Parser) parseIdent() *Ident {
	return &Ident{Token: p.advance()}
}

func (p *Parser) parseBegin() *Begin {
	node := &Begin{Start: p.tok.Pos}
	node.Type = p.parseType()
	node.Name = p.parseFunctionName()
	p.match(TokenLParen)
	p.match(TokenRParen)
	p.match(TokenLBrace)
	return node
}

func (p *Parser) parseFunctionName() *FunctionName {
	node := &FunctionName{Start: p.tok.Pos}
	if p.check(TokenIdent) {
		node.Id = p.parseIdent()
	} else {
		p.errorf("Expected function name identifier")
	}
	return node
}

func (p *Parser) parseType() *Type {
	node := &Type{Start: p.tok.Pos}
	switch p.tok.Kind {
	case TokenInt, TokenChar:
		tok := p.advance()
		node.Keyword = &tok
	case TokenIdent:
		msg := fmt.Sprintf("Unknown type '%s'", p.tok.Text)
		p.errorf("%s", msg)
		node.Bad = &ErrorNode{Token: p.advance(), Message: msg}
	default:
		p.errorf("Expected type (int or char)")
	}
	return node
}

func (p *Parser) parseDescriptions() *Descriptions {
	node := &Descriptions{Start: p.tok.Pos}
	for p.check(TokenInt) || p.check(TokenChar) {
		node.List = append(node.List, p.parseDescr())
	}
	return node
}

func (p *Parser) parseDescr() *Descr {
	node := &Descr{Start: p.tok.Pos}
	node.Type = p.parseType()
	node.Vars = p.parseVarList()
	p.match(TokenSemicolon)
	return node
}

func (p *Parser) parseVarList() *VarList {
	node := &VarList{Start: p.tok.Pos}
	if !p.check(TokenIdent) {
		p.errorf("Expected identifier in variable list")
		return node
	}
	node.Ids = append(node.Ids, p.parseIdent())
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenIdent) {
			node.Ids = append(node.Ids, p.parseIdent())
		} else {
			p.errorf("Expected identifier after comma")
		}
	}
	return node
}

// parseOperators stops at the first token that cannot start an
// assignment, which for a well-formed program is return.
func (p *Parser) parseOperators() *Operators {
	node := &Operators{Start: p.tok.Pos}
	for p.check(TokenIdent) || p.check(TokenAssign) {
		node.List = append(node.List, p.parseOp())
	}
	return node
}

func (p *Parser) parseOp() *Op {
	node := &Op{Start: p.tok.Pos}
	mark := len(p.diags)

	if p.check(TokenIdent) {
		node.Target = p.parseIdent()
		if !p.check(TokenAssign) {
			p.errorf("Expected '=' in operator")
			p.synchronize()
			return node
		}
	} else {
		p.errorf("Expected identifier at start of operator but found '%s'", p.tok.Text)
		if !p.check(TokenAssign) {
			p.synchronize()
			return node
		}
		p.errorf("Missing identifier before '='")
	}

	p.advance()
	if p.check(TokenStringLiteral) {
		node.Value = p.parseStringExpr()
	} else {
		node.Value = p.parseNumExpr()
	}

	if len(p.diags) > mark {
		p.synchronize()
	} else {
		p.match(TokenSemicolon)
	}
	return node
}

// parseNumExpr folds + and - chains to the left, so a - b - c becomes
// ((a - b) - c) and every binary node has exactly three children.
func (p *Parser) parseNumExpr() *NumExpr {
	node := &NumExpr{Start: p.tok.Pos}
	x, ok := p.parseSimpleNumExpr()
	if x != nil {
		node.X = x
	}
	if !ok {
		return node
	}

	for p.check(TokenPlus) || p.check(TokenMinus) {
		op := &Operator{Token: p.advance()}
		y, ok := p.parseSimpleNumExpr()
		if node.Op != nil {
			node = &NumExpr{Start: node.Start, X: node}
		}
		node.Op = op
		if y != nil {
			node.Y = y
		}
		if !ok {
			p.errorf("Missing operand after '%s' operator", op.Token.Text)
			break
		}
	}
	return node
}

// parseSimpleNumExpr reports false when no operand could be parsed. An
// invalid lexeme still yields an error leaf so the tree stays well formed.
func (p *Parser) parseSimpleNumExpr() (Expr, bool) {
	switch p.tok.Kind {
	case TokenIdent:
		return p.parseIdent(), true
	case TokenIntLiteral:
		return &Const{Token: p.advance()}, true
	case TokenLParen:
		p.advance()
		inner := p.parseNumExpr()
		if p.check(TokenRParen) {
			p.advance()
		} else {
			p.errorf("Expected ')' after expression")
		}
		return inner, true
	case TokenError:
		msg := fmt.Sprintf("Invalid token '%s' in numeric expression", p.tok.Text)
		p.errorf("%s", msg)
		return &ErrorNode{Token: p.advance(), Message: msg}, false
	}
	p.errorf("Expected identifier, constant or '(' in numeric expression")
	return nil, false
}

func (p *Parser) parseStringExpr() *StringExpr {
	node := &StringExpr{Start: p.tok.Pos}
	node.X = p.parseSimpleStringExpr()
	for p.check(TokenPlus) {
		op := &Operator{Token: p.advance()}
		y := p.parseSimpleStringExpr()
		if node.Op != nil {
			node = &StringExpr{Start: node.Start, X: node}
		}
		node.Op = op
		node.Y = y
	}
	return node
}

func (p *Parser) parseSimpleStringExpr() *SimpleStringExpr {
	node := &SimpleStringExpr{Start: p.tok.Pos}
	switch p.tok.Kind {
	case TokenStringLiteral:
		node.Value = &CharConst{Token: p.advance()}
	case TokenError:
		msg := fmt.Sprintf("Invalid token '%s' in string expression", p.tok.Text)
		p.errorf("%s", msg)
		node.Value = &ErrorNode{Token: p.advance(), Message: msg}
	default:
		p.errorf("Expected string constant")
	}
	return node
}

func (p *Parser) parseEnd() *End {
	node := &End{Start: p.tok.Pos}
	if !p.check(TokenReturn) {
		p.errorf("Expected %s but found '%s'", TokenReturn, p.tok.Text)
		return node
	}
	p.advance()

	if p.check(TokenIdent) {
		node.Result = p.parseIdent()
	} else {
		p.errorf("Expected identifier after return")
	}
	p.match(TokenSemicolon)
	p.match(TokenRBrace)
	return node
}
