// Package celes implements the celes token tree: a second scanner over the
// base lexer that groups tokens into identifiers, numbers, strings, and
// bracket-matched blocks, stripping // and nested /* */ comments. Block
// tokens hold their sub-tokens as a nested sequence and span the entire
// delimited region.
package celes

import (
	"github.com/celes-lang/celes/pkg/lexer"
)

// TokenType identifies the grouped token kinds.
type TokenType int

const (
	TokenNone TokenType = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenBlock
	TokenOther
)

// Token is one grouped token. Text is a window into the source; for a block
// it covers the whole delimited region while Tokens holds the nested
// sub-tokens.
type Token struct {
	Type TokenType
	Text string
	Off  int

	Row uint32
	Col uint32

	PassedWhitespace bool

	Tokens []Token
}

// Parser scans a source buffer into a flat sequence of grouped tokens, each
// of which may itself hold a nested sequence (blocks only).
type Parser struct {
	lex    *lexer.Lexer
	file   string
	Errors lexer.ErrorData
	Tokens []Token
}

func (p *Parser) src() string {
	return p.lex.Source()
}

// extend grows the token's text window to end at byte offset end.
func (p *Parser) extend(token *Token, end int) {
	token.Text = p.src()[token.Off:end]
}

func (p *Parser) adopt(token *Token, bt lexer.BaseToken) {
	token.Text = bt.Text
	token.Off = bt.Off
	token.Row = bt.Row
	token.Col = bt.Col
	token.PassedWhitespace = bt.PassedWhitespace
}

// getIdent accumulates an Alpha|Digit|'_' run with no intervening
// whitespace.
func (p *Parser) getIdent(token *Token) bool {
	token.Type = TokenIdent

	for {
		bt, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if !ok {
			return token.Text != ""
		}

		if bt.Type != lexer.TokenAlpha && bt.Type != lexer.TokenDigit && bt.Text[0] != '_' {
			return true
		}

		if token.Text == "" {
			p.adopt(token, bt)
		} else {
			if bt.PassedWhitespace {
				return true
			}
			p.extend(token, bt.Off+len(bt.Text))
		}

		p.lex.GetToken(lexer.IgnoreWhitespace)
	}
}

// getNumber accumulates leading digits or a leading '.' followed by a digit,
// allowing a single internal '.'.
func (p *Parser) getNumber(token *Token) bool {
	foundDecimal := false

	token.Type = TokenNumber

	for {
		bt, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if !ok {
			return token.Text != ""
		}

		if bt.Type != lexer.TokenAlpha && bt.Type != lexer.TokenDigit && bt.Text[0] != '_' {
			if !foundDecimal && bt.Text[0] == '.' {
				foundDecimal = true
			} else {
				return true
			}
		}

		if token.Text == "" {
			p.adopt(token, bt)
		} else {
			if bt.PassedWhitespace {
				return true
			}
			p.extend(token, bt.Off+len(bt.Text))
		}

		p.lex.GetToken(lexer.IgnoreWhitespace)
	}
}

// getBlock collects a {…}, […] or (…) region, recursing through getToken so
// nested blocks become nested token lists. The block's own text spans from
// the opening delimiter through the closing one.
func (p *Parser) getBlock(token *Token) bool {
	bt, _ := p.lex.GetToken(lexer.IgnoreWhitespace)
	p.adopt(token, bt)
	token.Type = TokenBlock

	var delimiter byte
	switch bt.Text[0] {
	case '{':
		delimiter = '}'
	case '[':
		delimiter = ']'
	default:
		delimiter = ')'
	}

	for {
		var subToken Token
		if !p.getToken(&subToken) {
			return false
		}

		p.extend(token, subToken.Off+len(subToken.Text))

		if subToken.Text[0] == delimiter {
			return true
		}

		token.Tokens = append(token.Tokens, subToken)
	}
}

// getString collects a quoted region; a backslash keeps the next base token
// literal, so escaped delimiters do not terminate the string.
func (p *Parser) getString(token *Token) bool {
	bt, _ := p.lex.GetToken(lexer.IgnoreWhitespace)
	p.adopt(token, bt)
	token.Type = TokenString

	delimiter := bt.Text[0]

	for {
		bt, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			return false
		}

		p.extend(token, bt.Off+len(bt.Text))

		if bt.Text[0] == delimiter {
			return true

		} else if bt.Text[0] == '\\' {
			bt, ok = p.lex.GetToken(lexer.ParseWhitespace)
			if !ok {
				return false
			}

			// ignore potential delimiters
			p.extend(token, bt.Off+len(bt.Text))
		}
	}
}

func (p *Parser) getOther(token *Token) bool {
	token.Type = TokenOther

	bt, ok := p.lex.GetToken(lexer.IgnoreWhitespace)
	if !ok {
		return false
	}

	p.adopt(token, bt)
	return true
}

func (p *Parser) parseSingleLineCommentThenGetToken(token *Token) bool {
	p.lex.GetToken(lexer.IgnoreWhitespace) // '/'
	p.lex.GetToken(lexer.IgnoreWhitespace) // '/'

	for {
		bt, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			return false
		}
		if bt.Type == lexer.TokenWhitespace && bt.WSType == lexer.WhitespaceNewline {
			return p.getToken(token)
		}
	}
}

func (p *Parser) parseMultiLineCommentRecurse() bool {
	p.lex.GetToken(lexer.IgnoreWhitespace) // '/'
	p.lex.GetToken(lexer.IgnoreWhitespace) // '*'

	for {
		bt, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if !ok {
			return false
		}

		if bt.Type == lexer.TokenOther {
			rest := p.src()[bt.Off:]

			if hasPrefix2(rest, "/*") {
				if !p.parseMultiLineCommentRecurse() {
					return false
				}
				continue

			} else if hasPrefix2(rest, "*/") {
				p.lex.GetToken(lexer.IgnoreWhitespace) // '*'
				p.lex.GetToken(lexer.IgnoreWhitespace) // '/'
				return true
			}
		}

		p.lex.GetToken(lexer.IgnoreWhitespace)
	}
}

func hasPrefix2(s, prefix string) bool {
	return len(s) >= 2 && s[:2] == prefix
}

func (p *Parser) parseMultiLineCommentThenGetToken(token *Token) bool {
	if p.parseMultiLineCommentRecurse() {
		return p.getToken(token)
	}
	return false
}

func (p *Parser) getToken(token *Token) bool {
	bt, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return false
	}

	rest := p.src()[bt.Off:]

	switch bt.Type {
	case lexer.TokenAlpha:
		return p.getIdent(token)

	case lexer.TokenDigit:
		return p.getNumber(token)

	case lexer.TokenOther:
		switch {
		case rest[0] == '.' && len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9':
			return p.getNumber(token)

		case hasPrefix2(rest, "//"):
			return p.parseSingleLineCommentThenGetToken(token)

		case hasPrefix2(rest, "/*"):
			return p.parseMultiLineCommentThenGetToken(token)

		case rest[0] == '_':
			return p.getIdent(token)

		case rest[0] == '{' || rest[0] == '(' || rest[0] == '[':
			return p.getBlock(token)

		case rest[0] == '\'' || rest[0] == '"':
			return p.getString(token)

		default:
			return p.getOther(token)
		}
	}

	return false
}

// BuildTree scans src into the parser's token sequence. file tags any
// diagnostics recorded along the way.
func (p *Parser) BuildTree(src, file string) {
	p.lex = lexer.New(src)
	p.file = file

	var token Token
	for p.getToken(&token) {
		p.Tokens = append(p.Tokens, token)
		token = Token{}
	}
}
