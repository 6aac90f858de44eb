package toml

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/celes-lang/celes/pkg/lexer"
)

// Error kinds. Sub-parsers return the first failure immediately; outer
// parsers propagate without recovery, so a parse stops at the first error.
// The positional diagnostics gathered along the way stay available through
// the parser's error accumulator.
var (
	ErrUnexpectedEOF     = errors.New("unexpected end of file")
	ErrUnexpectedEOL     = errors.New("unexpected end of line")
	ErrUnexpectedText    = errors.New("unexpected text")
	ErrUnimplemented     = errors.New("unimplemented")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrKeyAlreadyExists  = errors.New("key already exists")
)

type parser struct {
	file         string
	lex          *lexer.Lexer
	curTableID   []string
	curTable     *Table
	root         *Table
	isTableArray bool

	errors lexer.ErrorData
}

func newParser(file, data string) *parser {
	p := &parser{
		file: file,
		lex:  lexer.New(data),
	}
	p.curTable = newTable()
	p.root = p.curTable
	return p
}

func (p *parser) errorAt(tok lexer.BaseToken, msg string) {
	p.errors.Add(p.file, tok.Row, tok.Col, msg, lexer.LevelError)
}

func (p *parser) errEOF(tok lexer.BaseToken) error {
	p.errorAt(tok, "Unexpected end of file")
	return ErrUnexpectedEOF
}

func (p *parser) errEOL(tok lexer.BaseToken) error {
	p.errorAt(tok, "Unexpected end of line")
	return ErrUnexpectedEOL
}

func (p *parser) errText(tok lexer.BaseToken) error {
	p.errorAt(tok, "Unexpected text")
	return ErrUnexpectedText
}

// restOf returns the source bytes starting at the token's first byte; string
// and number parsing looks a few bytes past the current token to recognize
// multi-character delimiters and base prefixes.
func (p *parser) restOf(tok lexer.BaseToken) string {
	return p.lex.Source()[tok.Off:]
}

// expectEOL consumes tokens up to and including the next line break, failing
// on anything that is not whitespace.
func (p *parser) expectEOL() error {
	var tok lexer.BaseToken
	for {
		t, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			break
		}
		tok = t

		if tok.Type != lexer.TokenWhitespace {
			return p.errText(tok)
		}
		if tok.WSType == lexer.WhitespaceNewline {
			return nil
		}
	}

	return p.errEOF(tok)
}

// passWhitespace skips whitespace, leaving the cursor at the next token's
// first byte. Returns false at end of input.
func (p *parser) passWhitespace() bool {
	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return false
	}

	p.lex.ResetToToken(tok)
	return true
}

func (p *parser) nextCharIsDigit() error {
	tok, ok := p.lex.PeekChar()
	if !ok {
		return p.errEOF(tok)
	}
	if tok.Type != lexer.TokenDigit {
		return p.errText(tok)
	}

	return nil
}

func (p *parser) expectNextChar(ch rune, iws lexer.WhitespaceMode) error {
	tok, ok := p.lex.GetToken(iws)
	if !ok {
		return p.errEOF(tok)
	}

	if tok.PassedNewline {
		return p.errEOL(tok)
	}

	if tok.Ch != ch {
		return p.errText(tok)
	}
	return nil
}

func (p *parser) parseEscapeCode(str *strings.Builder) error {
	tok, ok := p.lex.GetChar()
	if !ok {
		return p.errEOF(tok)
	}

	switch tok.Ch {
	case 'b':
		str.WriteByte('\b')
	case 't':
		str.WriteByte('\t')
	case 'n':
		str.WriteByte('\n')
	case 'f':
		str.WriteByte('\f')
	case 'r':
		str.WriteByte('\r')
	case '"':
		str.WriteByte('"')
	case '\\':
		str.WriteByte('\\')
	case 'u', 'U':
		p.errorAt(tok, "Unicode escape codes currently unsupported")
		return ErrUnimplemented
	default:
		return p.errText(tok)
	}

	return nil
}

// parseMultilineString consumes a """…""" body. The opening quote has already
// been consumed; content between the delimiters is taken literally except for
// escape codes, newlines included.
func (p *parser) parseMultilineString(str *strings.Builder) error {
	p.lex.GetToken(lexer.ParseWhitespace) // "
	p.lex.GetToken(lexer.ParseWhitespace) // "

	var tok lexer.BaseToken
	for {
		t, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			break
		}
		tok = t

		if tok.Ch == '\\' {
			if err := p.parseEscapeCode(str); err != nil {
				return err
			}
		} else if strings.HasPrefix(p.restOf(tok), `"""`) {
			p.lex.GetChar() // "
			p.lex.GetChar() // "
			return nil
		} else {
			str.WriteString(tok.Text)
		}
	}

	return p.errEOF(tok)
}

// parseString consumes a basic string. The cursor sits at the opening quote.
func (p *parser) parseString(str *strings.Builder) error {
	tok, _ := p.lex.GetToken(lexer.IgnoreWhitespace) // known delimiter

	if strings.HasPrefix(p.restOf(tok), `"""`) {
		return p.parseMultilineString(str)
	}

	for {
		t, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			break
		}
		tok = t

		if tok.WSType == lexer.WhitespaceNewline {
			return p.errEOL(tok)
		}
		if tok.Ch == '\\' {
			if err := p.parseEscapeCode(str); err != nil {
				return err
			}
		} else if tok.Ch == '"' {
			return nil
		} else {
			str.WriteString(tok.Text)
		}
	}

	return p.errEOF(tok)
}

// parseMultilineStringLiteral consumes a '''…''' body with no escape
// processing at all.
func (p *parser) parseMultilineStringLiteral(str *strings.Builder) error {
	p.lex.GetToken(lexer.ParseWhitespace) // '
	p.lex.GetToken(lexer.ParseWhitespace) // '

	var tok lexer.BaseToken
	for {
		t, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			break
		}
		tok = t

		if strings.HasPrefix(p.restOf(tok), `'''`) {
			p.lex.GetChar() // '
			p.lex.GetChar() // '
			return nil
		}
		str.WriteString(tok.Text)
	}

	return p.errEOF(tok)
}

// parseStringLiteral consumes a literal string. The cursor sits at the
// opening quote.
func (p *parser) parseStringLiteral(str *strings.Builder) error {
	tok, _ := p.lex.GetToken(lexer.IgnoreWhitespace) // known delimiter

	if strings.HasPrefix(p.restOf(tok), `'''`) {
		return p.parseMultilineStringLiteral(str)
	}

	for {
		t, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			break
		}
		tok = t

		if tok.WSType == lexer.WhitespaceNewline {
			return p.errEOL(tok)
		}
		if tok.Ch == '\'' {
			return nil
		}
		str.WriteString(tok.Text)
	}

	return p.errEOF(tok)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// parseNumber accumulates a digit/sign string code point by code point and
// converts it at the end: base conversion for integers, decimal-to-double for
// anything with a fraction or exponent.
func (p *parser) parseNumber(value *Value) error {
	var str strings.Builder
	foundDecimal := false
	foundExponent := false
	foundNumber := false
	base := 10

	value.typ = TypeInteger

	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return p.errEOF(tok)
	}

	if tok.Ch == '-' || tok.Ch == '+' {
		p.lex.PassToken(tok)

		if tok.Ch == '-' {
			str.WriteByte('-')
		}

		tok, ok = p.lex.PeekToken(lexer.ParseWhitespace)
		if !ok {
			return p.errEOF(tok)
		}
	}

	switch {
	case hasPrefixFold(p.restOf(tok), "0b"):
		base = 2
	case hasPrefixFold(p.restOf(tok), "0o"):
		base = 8
	case hasPrefixFold(p.restOf(tok), "0x"):
		base = 16
	}

	if base != 10 {
		p.lex.PassToken(tok)
		p.lex.GetChar()
	} else if tok.Text == "inf" {
		p.errorAt(tok, "inf is unsupported")
		return ErrUnimplemented
	} else if tok.Text == "nan" {
		p.errorAt(tok, "nan is unsupported")
		return ErrUnimplemented
	}

scan:
	for {
		t, ok := p.lex.PeekChar()
		if !ok {
			break
		}
		tok = t

		switch tok.Type {
		case lexer.TokenWhitespace:
			if str.Len() != 0 {
				break scan
			}

		case lexer.TokenDigit:
			foundNumber = true
			str.WriteString(tok.Text)

			if int(tok.Ch-'0') >= base {
				return p.errText(tok)
			}

		case lexer.TokenAlpha:
			// exponent
			if base == 10 && foundNumber && !foundExponent && unicode.ToLower(tok.Ch) == 'e' {
				foundExponent = true
				str.WriteByte('e')
				p.lex.PassToken(tok)

				// +/- if any
				tok, ok = p.lex.PeekChar()
				if !ok {
					return p.errEOF(tok)
				}
				if tok.Ch == '+' || tok.Ch == '-' {
					p.lex.PassToken(tok)
					str.WriteString(tok.Text)
				}

				if err := p.nextCharIsDigit(); err != nil {
					return err
				}
				continue

			} else if base == 16 { // hex digits a-f
				ch := unicode.ToLower(tok.Ch)
				if ch >= 'a' && ch <= 'f' {
					str.WriteString(tok.Text)
				} else {
					return p.errText(tok)
				}

			} else {
				return p.errText(tok)
			}

		case lexer.TokenOther:
			// decimal point
			if tok.Ch == '.' && base == 10 && foundNumber && !foundDecimal && !foundExponent {
				foundDecimal = true
				str.WriteByte('.')
				p.lex.PassToken(tok)

				if err := p.nextCharIsDigit(); err != nil {
					return err
				}
				continue

			} else if tok.Ch == '_' { // stripped separator
				p.lex.PassToken(tok)

				if base == 16 { // a hex letter may follow
					next, ok := p.lex.PeekChar()
					if !ok {
						return p.errEOF(next)
					}
					ch := unicode.ToLower(next.Ch)
					if next.Type != lexer.TokenDigit && (ch < 'a' || ch > 'f') {
						return p.errText(next)
					}
					continue
				}

				if err := p.nextCharIsDigit(); err != nil {
					return err
				}
				continue

			} else {
				return p.errText(tok)
			}
		}

		p.lex.PassToken(tok)
	}

	if str.Len() == 0 {
		return p.errEOF(tok)
	}

	if foundDecimal || foundExponent {
		value.typ = TypeReal
		value.real, _ = strconv.ParseFloat(str.String(), 64)
	} else {
		value.typ = TypeInteger
		value.integer, _ = strconv.ParseInt(str.String(), base, 64)
	}

	return nil
}

func (p *parser) parseComment() {
	for {
		tok, ok := p.lex.GetToken(lexer.ParseWhitespace)
		if !ok {
			return
		}
		if tok.WSType == lexer.WhitespaceNewline {
			return
		}
	}
}

// parseSingularIdentifier reads one path segment: a quoted string, a literal
// string, or a bare identifier over {Alpha, Digit, '_', '-'} terminated by
// whitespace, '.', or the enclosing delimiter.
func (p *parser) parseSingularIdentifier(id *strings.Builder, delimiter rune) error {
	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return p.errEOF(tok)
	}

	if tok.Ch == '"' {
		return p.parseString(id)
	} else if tok.Ch == '\'' {
		return p.parseStringLiteral(id)
	}

	first := true
	for {
		t, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if !ok {
			break
		}
		tok = t

		if tok.PassedNewline {
			return p.errEOL(tok)
		}
		if !first && tok.PassedWhitespace {
			return nil
		}
		if tok.Ch == delimiter {
			return nil
		}
		if tok.Ch == '.' {
			return nil
		}

		if tok.Type != lexer.TokenAlpha && tok.Type != lexer.TokenDigit && tok.Ch != '_' && tok.Ch != '-' {
			return p.errText(tok)
		}

		first = false

		p.lex.GetToken(lexer.IgnoreWhitespace)
		id.WriteString(tok.Text)
	}

	return p.errEOF(tok)
}

// parseIdentifier reads a dotted path of segments separated by '.', with
// whitespace allowed around the dots.
func (p *parser) parseIdentifier(id *[]string, delimiter rune) error {
	if delimiter == '=' && !p.passWhitespace() {
		return p.errEOF(lexer.BaseToken{})
	}

	var subID strings.Builder
	for {
		if err := p.parseSingularIdentifier(&subID, delimiter); err != nil {
			return err
		}
		*id = append(*id, subID.String())
		subID.Reset()

		tok, _ := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if tok.PassedNewline {
			return p.errEOL(tok)
		}

		if tok.Ch == '.' {
			p.lex.GetToken(lexer.IgnoreWhitespace)
			t, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
			if !ok {
				return p.errEOF(tok)
			}
			tok = t
			if tok.PassedNewline {
				return p.errEOL(tok)
			}
		} else {
			if tok.PassedWhitespace && tok.Ch != delimiter {
				return p.errText(tok)
			}
			return nil
		}
	}
}

func (p *parser) parseValue(value *Value) error {
	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return p.errEOF(tok)
	}
	if tok.PassedNewline {
		return p.errEOL(tok)
	}

	switch {
	case tok.Text == "true":
		p.lex.PassToken(tok)
		value.typ = TypeBoolean
		value.boolean = true
		return nil

	case tok.Text == "false":
		p.lex.PassToken(tok)
		value.typ = TypeBoolean
		value.boolean = false
		return nil

	case tok.Ch == '[': // inline arrays
		return ErrUnimplemented

	case tok.Ch == '{': // inline tables
		return ErrUnimplemented

	case tok.Ch == '"':
		var str strings.Builder
		if err := p.parseString(&str); err != nil {
			return err
		}
		value.typ = TypeString
		value.str = str.String()
		return nil

	case tok.Ch == '\'':
		var str strings.Builder
		if err := p.parseStringLiteral(&str); err != nil {
			return err
		}
		value.typ = TypeString
		value.str = str.String()
		return nil

	case tok.Ch == '+' || tok.Ch == '-':
		return p.parseNumber(value)

	case tok.Text == "inf":
		p.errorAt(tok, "inf is unsupported")
		return ErrUnimplemented

	case tok.Text == "nan":
		p.errorAt(tok, "nan is unsupported")
		return ErrUnimplemented

	case tok.Type == lexer.TokenDigit:
		return p.parseNumber(value)
	}

	return p.errText(tok)
}

// getSubtableAndSubkey walks all but the last segment of id from table,
// creating empty tables along any missing prefix, and returns the terminal
// table and the leaf key. It fails if a prefix resolves to a non-table value.
func (p *parser) getSubtableAndSubkey(table *Table, id []string) (*Table, string, bool) {
	curSubtable := table
	curSubkey := id[0]

	for i := 1; i < len(id); i++ {
		key := id[i]
		curSubvalue := curSubtable.values.Get(curSubkey)

		if curSubvalue != nil {
			if curSubvalue.typ != TypeTable {
				return nil, "", false
			}
		} else {
			curSubvalue = curSubtable.values.Set(curSubkey, Value{typ: TypeTable, table: newTable()})
		}

		curSubtable = curSubvalue.table
		curSubkey = key
	}

	return curSubtable, curSubkey, true
}

// insertTableHeader commits the table of the previously parsed header under
// its recorded path. The walk creates missing intermediates; when a prefix
// resolves to a table array, the walk descends into its last element. For a
// [[…]] header the leaf must be missing (a fresh single-element array is
// created) or an existing array whose elements are tables.
func (p *parser) insertTableHeader(root *Table) bool {
	id := p.curTableID
	curSubtable := root
	curSubkey := id[0]
	newValue := Value{typ: TypeTable, table: p.curTable}

	for i := 1; i < len(id); i++ {
		key := id[i]
		curSubvalue := curSubtable.values.Get(curSubkey)

		if curSubvalue != nil {
			if curSubvalue.typ == TypeArray {
				array := curSubvalue.array

				if len(array.values) == 0 {
					return false
				}

				curSubvalue = &array.values[len(array.values)-1]
			}

			if curSubvalue.typ != TypeTable {
				return false
			}
		} else {
			curSubvalue = curSubtable.values.Set(curSubkey, Value{typ: TypeTable, table: newTable()})
		}

		curSubtable = curSubvalue.table
		curSubkey = key
	}

	if p.isTableArray {
		arrayVal := curSubtable.values.Get(curSubkey)

		if arrayVal == nil {
			array := newArray()
			array.values = append(array.values, newValue)
			curSubtable.values.Set(curSubkey, Value{typ: TypeArray, array: array})
		} else {
			if arrayVal.typ != TypeArray {
				return false
			}
			array := arrayVal.array
			if len(array.values) == 0 || array.values[0].typ != TypeTable {
				return false
			}
			array.values = append(array.values, newValue)
		}
	} else {
		if curSubtable.values.Get(curSubkey) != nil {
			return false
		}

		curSubtable.values.Set(curSubkey, newValue)
	}

	p.curTable = nil
	return true
}

func (p *parser) parseKeyPair(table *Table) error {
	var id []string

	if err := p.parseIdentifier(&id, '='); err != nil {
		return err
	}

	if err := p.expectNextChar('=', lexer.IgnoreWhitespace); err != nil {
		return err
	}

	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return p.errEOF(tok)
	}
	if tok.PassedNewline {
		return p.errEOL(tok)
	}

	var value Value
	if err := p.parseValue(&value); err != nil {
		return err
	}

	subtable, subkey, ok := p.getSubtableAndSubkey(table, id)
	if !ok {
		p.errorAt(tok, "Invalid identifier, indentifier name already in use by key of the same name"+
			"(Improve this error later)")
		valueFree(&value)
		return ErrInvalidIdentifier
	}

	if subtable.values.Get(subkey) != nil {
		p.errorAt(tok, "Key already exists (Improve this error later)")
		valueFree(&value)
		return ErrKeyAlreadyExists
	}

	subtable.values.Set(subkey, value)
	return nil
}

func (p *parser) parseTableHeader(root *Table) error {
	p.lex.GetToken(lexer.IgnoreWhitespace) // '['

	tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
	if !ok {
		return p.errEOF(tok)
	}

	tableArray := false
	if tok.Ch == '[' { // table array
		tableArray = true
		if _, ok := p.lex.GetToken(lexer.IgnoreWhitespace); !ok {
			return p.errEOF(tok)
		}
	}

	var id []string
	if err := p.parseIdentifier(&id, ']'); err != nil {
		return err
	}

	if tableArray {
		if err := p.expectNextChar(']', lexer.IgnoreWhitespace); err != nil {
			return err
		}
	}

	if err := p.expectNextChar(']', lexer.IgnoreWhitespace); err != nil {
		return err
	}

	if p.curTable != root {
		if !p.insertTableHeader(root) {
			p.errorAt(tok, "Invalid table assignment, key already in use by non-table "+
				"(Improve this error later)")
			return ErrInvalidIdentifier
		}
	}

	p.curTable = newTable()
	p.curTableID = id
	p.isTableArray = tableArray
	return nil
}

// parseData is the driver loop: a '[' starts a table header, a '#' a comment,
// anything else a key pair. On end of input the final table is committed
// exactly as the next header would have committed it.
func (p *parser) parseData() error {
	for {
		tok, ok := p.lex.PeekToken(lexer.IgnoreWhitespace)
		if !ok {
			break
		}

		if tok.Ch == '[' {
			if err := p.parseTableHeader(p.root); err != nil {
				return err
			}
			continue

		} else if tok.Ch == '#' {
			p.parseComment()
			continue
		}

		if err := p.parseKeyPair(p.curTable); err != nil {
			return err
		}
	}

	if p.curTable != p.root {
		if !p.insertTableHeader(p.root) {
			p.errors.Add(p.file, 0, 0, "Invalid table assignment, key already in use by non-table "+
				"(Improve this error later)", lexer.LevelError)
			return ErrInvalidIdentifier
		}
	}
	return nil
}
