package lexer

import "unicode"

// Lexer is a cursor over a UTF-8 source buffer. It tracks the current byte
// offset together with a (row, col) position starting at (1, 1). Rows
// increment on a line break, columns reset to 1 on a line break and increment
// by one per code point otherwise.
//
// Peek variants run the scan and restore the cursor; Get variants commit. The
// returned token always carries the committed cursor state, so ResetToToken
// and PassToken can move the cursor to a token's start or end at any time.
type Lexer struct {
	text   string
	offset int
	row    uint32
	col    uint32
}

// New returns a lexer positioned at the start of text.
func New(text string) *Lexer {
	return &Lexer{text: text, row: 1, col: 1}
}

// Source returns the full source buffer the lexer scans.
func (l *Lexer) Source() string {
	return l.text
}

// Reset moves the cursor back to the start of the buffer.
func (l *Lexer) Reset() {
	l.offset = 0
	l.row = 1
	l.col = 1
}

// ResetToToken restores the cursor to the token's first byte.
func (l *Lexer) ResetToToken(t BaseToken) {
	if t.Text != "" {
		l.offset = t.Off
		l.row = t.Row
		l.col = t.Col
	}
}

// PassToken jumps the cursor to the position just past the token.
func (l *Lexer) PassToken(t BaseToken) {
	if t.NextOff > 0 {
		l.offset = t.NextOff
		l.row = t.NextRow
		l.col = t.NextCol
	}
}

func charTokenType(ch rune) TokenType {
	switch {
	case unicode.IsSpace(ch):
		return TokenWhitespace
	case ch >= '0' && ch <= '9':
		return TokenDigit
	case unicode.IsLetter(ch) || ch >= 0x80:
		return TokenAlpha
	}
	return TokenOther
}

func (l *Lexer) getTokenInternal(iws WhitespaceMode, pop bool) (BaseToken, bool) {
	offset := l.offset
	prev := offset
	tokenStart := -1
	row, col := l.row, l.col
	startRow, startCol := row, col
	typ := TokenNone
	wsType := WhitespaceUnknown
	passedWhitespace := false
	passedNewline := false
	ignoreWhitespace := iws == IgnoreWhitespace
	stopParsing := false
	count := 0
	var outCh rune

	for !stopParsing {
		ch, next, ok := nextUTF32(l.text, offset)
		if !ok {
			break
		}
		offset = next

		newType := charTokenType(ch)

		if typ == TokenNone {
			ignore := false

			if newType == TokenWhitespace {
				passedWhitespace = true
				if isNewline(ch) {
					passedNewline = true
				}

				if ignoreWhitespace {
					ignore = true
				} else {
					switch {
					case isNewline(ch):
						wsType = WhitespaceNewline
					case ch == '\t':
						wsType = WhitespaceTab
					case ch == ' ':
						wsType = WhitespaceSpace
					}
				}
			}

			if !ignore {
				outCh = ch
				tokenStart = prev
				typ = newType
				startRow = row
				startCol = col

				if typ != TokenDigit && typ != TokenAlpha {
					stopParsing = true
				}
				count++
			}
		} else if typ != newType {
			offset = prev
			break
		} else {
			count++
		}

		if isNewline(ch) {
			if offset < len(l.text) && isNewlinePair(ch, rune(l.text[offset])) {
				offset++
			}
			row++
			col = 1
		} else {
			col++
		}

		prev = offset
	}

	if pop {
		l.offset = offset
		l.row = row
		l.col = col
	}

	if tokenStart >= 0 && offset > tokenStart {
		t := BaseToken{
			Text:             l.text[tokenStart:offset],
			Off:              tokenStart,
			Type:             typ,
			WSType:           wsType,
			PassedWhitespace: passedWhitespace,
			PassedNewline:    passedNewline,
			Row:              startRow,
			Col:              startCol,
			NextOff:          offset,
			NextRow:          row,
			NextCol:          col,
		}
		if count == 1 {
			t.Ch = outCh
		}
		return t, true
	}

	return BaseToken{}, false
}

// PeekToken returns the next base token without advancing the cursor.
func (l *Lexer) PeekToken(iws WhitespaceMode) (BaseToken, bool) {
	return l.getTokenInternal(iws, false)
}

// GetToken returns the next base token and advances the cursor past it.
func (l *Lexer) GetToken(iws WhitespaceMode) (BaseToken, bool) {
	return l.getTokenInternal(iws, true)
}

func (l *Lexer) getCharInternal(pop bool) (BaseToken, bool) {
	offset := l.offset
	tokenStart := offset
	row, col := l.row, l.col
	startRow, startCol := row, col
	wsType := WhitespaceUnknown

	ch, next, ok := nextUTF32(l.text, offset)
	if !ok {
		return BaseToken{}, false
	}
	offset = next

	col++

	typ := charTokenType(ch)
	if typ == TokenWhitespace {
		switch {
		case isNewline(ch):
			if offset < len(l.text) && isNewlinePair(ch, rune(l.text[offset])) {
				offset++
			}
			wsType = WhitespaceNewline
			col = 1
			row++
		case ch == '\t':
			wsType = WhitespaceTab
		case ch == ' ':
			wsType = WhitespaceSpace
		}
	}

	if pop {
		l.offset = offset
		l.row = row
		l.col = col
	}

	return BaseToken{
		Text:    l.text[tokenStart:offset],
		Off:     tokenStart,
		Ch:      ch,
		Type:    typ,
		WSType:  wsType,
		Row:     startRow,
		Col:     startCol,
		NextOff: offset,
		NextRow: row,
		NextCol: col,
	}, true
}

// PeekChar returns the next single code point as a token without advancing.
// It is used when a known delimiter must be consumed byte by byte, e.g.
// inside a string literal.
func (l *Lexer) PeekChar() (BaseToken, bool) {
	return l.getCharInternal(false)
}

// GetChar returns the next single code point as a token and advances.
func (l *Lexer) GetChar() (BaseToken, bool) {
	return l.getCharInternal(true)
}
