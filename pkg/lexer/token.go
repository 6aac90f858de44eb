package lexer

// TokenType classifies a base token by the category of its code points.
type TokenType int

const (
	TokenNone TokenType = iota
	TokenAlpha
	TokenDigit
	TokenWhitespace
	TokenOther
)

// WhitespaceType distinguishes whitespace tokens. It is meaningful only when
// the token's type is TokenWhitespace.
type WhitespaceType int

const (
	WhitespaceUnknown WhitespaceType = iota
	WhitespaceTab
	WhitespaceSpace
	WhitespaceNewline
)

// WhitespaceMode controls whether whitespace surfaces as its own tokens
// (ParseWhitespace) or collapses into separators (IgnoreWhitespace).
type WhitespaceMode int

const (
	ParseWhitespace WhitespaceMode = iota
	IgnoreWhitespace
)

// A BaseToken is one of four things:
//
//  1. A sequence of alpha characters
//  2. A sequence of numeric characters
//  3. A single whitespace character if whitespace is not ignored
//  4. A single character that does not fall into the above 3 categories
//
// Text is a window into the lexer's source buffer, Off its byte offset in that
// buffer. Ch is the decoded code point iff the token is a single code point,
// else 0. NextOff/NextRow/NextCol carry the committed cursor state so a caller
// can peek, inspect, and then PassToken to commit without rescanning.
type BaseToken struct {
	Text    string
	Off     int
	Ch      rune
	Type    TokenType
	WSType  WhitespaceType

	PassedWhitespace bool
	PassedNewline    bool

	Row uint32
	Col uint32

	NextOff int
	NextRow uint32
	NextCol uint32
}

func isNewline(ch rune) bool {
	return ch == '\r' || ch == '\n'
}

// isNewlinePair reports whether two adjacent code points form a single
// logical line break. Both "\r\n" and "\n\r" count as one row increment.
func isNewlinePair(ch1, ch2 rune) bool {
	return (ch1 == '\r' && ch2 == '\n') || (ch1 == '\n' && ch2 == '\r')
}

// NewlineSize returns the byte length of the line break starting at the
// beginning of s: 2 for a newline pair, 1 for a lone CR or LF, 0 otherwise.
func NewlineSize(s string) int {
	if len(s) >= 2 && isNewlinePair(rune(s[0]), rune(s[1])) {
		return 2
	}
	if len(s) >= 1 && isNewline(rune(s[0])) {
		return 1
	}
	return 0
}
