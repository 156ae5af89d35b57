package parser

// Lexer turns source bytes into tokens on demand. It is restartable with
// Reset, including after Close.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	closed bool
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Line:   l.line,
		Column: l.column,
	}
}

// Reset rewinds the lexer to the start of its input and reopens it if it
// was closed.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.column = 1
	l.closed = false
}

// Close ends the current pass: Next returns TokenEOF until the next Reset.
func (l *Lexer) Close() error {
	l.closed = true
	return nil
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) Next() Token {
	if l.closed {
		return Token{Kind: TokenEOF, Pos: l.Position()}
	}

	l.skipWhitespace()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}
	}

	ch := l.peek()

	if isLetter(ch) {
		return l.scanWord(start)
	}

	if isDigit(ch) {
		return l.scanNumber(start)
	}

	if ch == '"' {
		return l.scanString(start)
	}

	return l.scanOperator(start)
}

// scanWord reads up to the next delimiter. Words made only of letters are
// identifiers or keywords; anything else glued to them makes an error token.
func (l *Lexer) scanWord(start Position) Token {
	begin := l.pos
	l.skipToDelimiter()
	text := string(l.input[begin:l.pos])

	if kind := LookupKeyword(text); kind != TokenIdent {
		return Token{Kind: kind, Text: text, Pos: start}
	}
	for i := 0; i < len(text); i++ {
		if !isLetter(text[i]) {
			return Token{Kind: TokenError, Text: text, Pos: start}
		}
	}
	return Token{Kind: TokenIdent, Text: text, Pos: start}
}

func (l *Lexer) scanNumber(start Position) Token {
	begin := l.pos
	first := l.advance()

	// leading zeros are not allowed
	if first == '0' && isDigit(l.peek()) {
		for isDigit(l.peek()) {
			l.advance()
		}
		return Token{Kind: TokenError, Text: string(l.input[begin:l.pos]), Pos: start}
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	if l.pos < len(l.input) && !isDelimiter(l.peek()) {
		l.skipToDelimiter()
		return Token{Kind: TokenError, Text: string(l.input[begin:l.pos]), Pos: start}
	}
	return Token{Kind: TokenIntLiteral, Text: string(l.input[begin:l.pos]), Pos: start}
}

// scanString keeps the delimiting quotes in the token text. A string that
// is not closed on its own line becomes an error token.
func (l *Lexer) scanString(start Position) Token {
	begin := l.pos
	l.advance()
	for l.pos < len(l.input) && l.peek() != '"' && l.peek() != '\n' {
		l.advance()
	}
	if l.peek() == '"' {
		l.advance()
		return Token{Kind: TokenStringLiteral, Text: string(l.input[begin:l.pos]), Pos: start}
	}
	return Token{Kind: TokenError, Text: string(l.input[begin:l.pos]), Pos: start}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.advance()
	var kind TokenKind
	switch ch {
	case '+':
		kind = TokenPlus
	case '-':
		kind = TokenMinus
	case '=':
		kind = TokenAssign
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case ',':
		kind = TokenComma
	case ';':
		kind = TokenSemicolon
	default:
		begin := l.pos - 1
		l.skipToDelimiter()
		return Token{Kind: TokenError, Text: string(l.input[begin:l.pos]), Pos: start}
	}
	return Token{Kind: kind, Text: string(ch), Pos: start}
}

func (l *Lexer) skipToDelimiter() {
	for l.pos < len(l.input) && !isDelimiter(l.peek()) {
		l.advance()
	}
}

// Tokenize returns every token of input up to and including TokenEOF.
func Tokenize(input []byte, file string) []Token {
	l := NewLexer(input, file)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '+', '-', '=', '(', ')', '{', '}', ',', ';', '"', '/':
		return true
	}
	return isSpace(ch)
}
