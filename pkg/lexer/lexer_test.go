package lexer

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestTokenRuns(t *testing.T) {
	convey.Convey("maximal same-category runs", t, func() {
		lex := New("abc123!?")

		tok, ok := lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenAlpha)
		convey.So(tok.Text, convey.ShouldEqual, "abc")
		convey.So(tok.Ch, convey.ShouldEqual, 0)

		tok, ok = lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenDigit)
		convey.So(tok.Text, convey.ShouldEqual, "123")

		tok, ok = lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenOther)
		convey.So(tok.Text, convey.ShouldEqual, "!")
		convey.So(tok.Ch, convey.ShouldEqual, '!')

		tok, ok = lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "?")

		_, ok = lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeFalse)
	})

	convey.Convey("non-ASCII code points count as alpha", t, func() {
		lex := New("héllo")

		tok, ok := lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenAlpha)
		convey.So(tok.Text, convey.ShouldEqual, "héllo")
	})
}

func TestIgnoreWhitespace(t *testing.T) {
	convey.Convey("whitespace collapses into separators", t, func() {
		lex := New("a b")

		tok, ok := lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "a")
		convey.So(tok.PassedWhitespace, convey.ShouldBeFalse)

		tok, ok = lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "b")
		convey.So(tok.PassedWhitespace, convey.ShouldBeTrue)
		convey.So(tok.PassedNewline, convey.ShouldBeFalse)
	})

	convey.Convey("a skipped newline is recorded", t, func() {
		lex := New("a\nb")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Text, convey.ShouldEqual, "a")

		tok, ok := lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "b")
		convey.So(tok.PassedWhitespace, convey.ShouldBeTrue)
		convey.So(tok.PassedNewline, convey.ShouldBeTrue)
	})
}

func TestParseWhitespace(t *testing.T) {
	convey.Convey("each whitespace code point is its own token", t, func() {
		lex := New(" \ta")

		tok, ok := lex.GetToken(ParseWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenWhitespace)
		convey.So(tok.WSType, convey.ShouldEqual, WhitespaceSpace)

		tok, ok = lex.GetToken(ParseWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.WSType, convey.ShouldEqual, WhitespaceTab)

		tok, ok = lex.GetToken(ParseWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenAlpha)
	})

	convey.Convey("a newline token reports its type", t, func() {
		lex := New("\nx")

		tok, ok := lex.GetToken(ParseWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Type, convey.ShouldEqual, TokenWhitespace)
		convey.So(tok.WSType, convey.ShouldEqual, WhitespaceNewline)
	})
}

func TestNewlinePairs(t *testing.T) {
	convey.Convey("\\r\\n counts as one row increment", t, func() {
		lex := New("\r\nx")

		tok, ok := lex.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "x")
		convey.So(tok.Row, convey.ShouldEqual, 2)
		convey.So(tok.Col, convey.ShouldEqual, 1)
	})

	convey.Convey("\\n\\r counts as one row increment", t, func() {
		lex := New("\n\rx")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Row, convey.ShouldEqual, 2)
		convey.So(tok.Col, convey.ShouldEqual, 1)
	})

	convey.Convey("two bare newlines are two rows", t, func() {
		lex := New("\n\nx")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Row, convey.ShouldEqual, 3)
		convey.So(tok.Col, convey.ShouldEqual, 1)
	})
}

func TestPositionTracking(t *testing.T) {
	convey.Convey("columns advance per code point and reset per row", t, func() {
		lex := New("ab cd\nef")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Row, convey.ShouldEqual, 1)
		convey.So(tok.Col, convey.ShouldEqual, 1)

		tok, _ = lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Text, convey.ShouldEqual, "cd")
		convey.So(tok.Row, convey.ShouldEqual, 1)
		convey.So(tok.Col, convey.ShouldEqual, 4)

		tok, _ = lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Text, convey.ShouldEqual, "ef")
		convey.So(tok.Row, convey.ShouldEqual, 2)
		convey.So(tok.Col, convey.ShouldEqual, 1)
	})

	convey.Convey("multi-byte code points advance one column", t, func() {
		lex := New("é x")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Col, convey.ShouldEqual, 1)

		tok, _ = lex.GetToken(IgnoreWhitespace)
		convey.So(tok.Text, convey.ShouldEqual, "x")
		convey.So(tok.Col, convey.ShouldEqual, 3)
	})
}

func TestPeekCommit(t *testing.T) {
	convey.Convey("peek is idempotent", t, func() {
		lex := New("  abc def")

		t1, ok1 := lex.PeekToken(IgnoreWhitespace)
		t2, ok2 := lex.PeekToken(IgnoreWhitespace)
		convey.So(ok1, convey.ShouldBeTrue)
		convey.So(ok2, convey.ShouldBeTrue)
		convey.So(t1.Text, convey.ShouldEqual, t2.Text)
		convey.So(t1.Row, convey.ShouldEqual, t2.Row)
		convey.So(t1.Col, convey.ShouldEqual, t2.Col)
	})

	convey.Convey("peek then pass equals a bare get", t, func() {
		a := New("one two\nthree")
		b := New("one two\nthree")

		for {
			tok, ok := a.PeekToken(IgnoreWhitespace)
			if !ok {
				break
			}
			a.PassToken(tok)

			got, ok2 := b.GetToken(IgnoreWhitespace)
			convey.So(ok2, convey.ShouldBeTrue)
			convey.So(tok.Text, convey.ShouldEqual, got.Text)
			convey.So(a.offset, convey.ShouldEqual, b.offset)
			convey.So(a.row, convey.ShouldEqual, b.row)
			convey.So(a.col, convey.ShouldEqual, b.col)
		}

		_, ok := b.GetToken(IgnoreWhitespace)
		convey.So(ok, convey.ShouldBeFalse)
	})

	convey.Convey("reset to token rewinds the cursor", t, func() {
		lex := New("abc def")

		tok, _ := lex.GetToken(IgnoreWhitespace)
		second, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(second.Text, convey.ShouldEqual, "def")

		lex.ResetToToken(tok)
		again, _ := lex.GetToken(IgnoreWhitespace)
		convey.So(again.Text, convey.ShouldEqual, "abc")
	})

	convey.Convey("cursor position never moves backwards on get", t, func() {
		lex := New("a bb\tccc\nd 12 !")
		prev := 0
		for {
			tok, ok := lex.GetToken(ParseWhitespace)
			if !ok {
				break
			}
			convey.So(tok.NextOff, convey.ShouldBeGreaterThan, prev)
			prev = tok.NextOff
		}
	})
}

func TestGetChar(t *testing.T) {
	convey.Convey("get char consumes one code point", t, func() {
		lex := New("ab")

		tok, ok := lex.GetChar()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Ch, convey.ShouldEqual, 'a')
		convey.So(tok.Type, convey.ShouldEqual, TokenAlpha)

		tok, _ = lex.GetChar()
		convey.So(tok.Ch, convey.ShouldEqual, 'b')

		_, ok = lex.GetChar()
		convey.So(ok, convey.ShouldBeFalse)
	})

	convey.Convey("get char swallows a full newline pair", t, func() {
		lex := New("\r\nx")

		tok, ok := lex.GetChar()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(tok.Text, convey.ShouldEqual, "\r\n")
		convey.So(tok.WSType, convey.ShouldEqual, WhitespaceNewline)

		tok, _ = lex.GetChar()
		convey.So(tok.Ch, convey.ShouldEqual, 'x')
		convey.So(tok.Row, convey.ShouldEqual, 2)
		convey.So(tok.Col, convey.ShouldEqual, 1)
	})

	convey.Convey("peek char does not move the cursor", t, func() {
		lex := New("xy")

		t1, _ := lex.PeekChar()
		t2, _ := lex.PeekChar()
		convey.So(t1.Ch, convey.ShouldEqual, 'x')
		convey.So(t2.Ch, convey.ShouldEqual, 'x')
	})
}
