package lexer

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestStrCmp(t *testing.T) {
	convey.Convey("equal strings compare equal", t, func() {
		convey.So(StrCmp("abc", "abc"), convey.ShouldEqual, 0)
		convey.So(StrCmp("", ""), convey.ShouldEqual, 0)
	})

	convey.Convey("a window compares equal to its prefix content", t, func() {
		// a reference {ptr: "abcX", len: 3} is the substring "abc"
		ref := "abcX"[:3]
		convey.So(StrCmp(ref, "abc"), convey.ShouldEqual, 0)
	})

	convey.Convey("ordering follows the first differing byte", t, func() {
		convey.So(StrCmp("abc", "abd"), convey.ShouldEqual, -1)
		convey.So(StrCmp("abd", "abc"), convey.ShouldEqual, 1)
		convey.So(StrCmp("abc", "abcd"), convey.ShouldEqual, -1)
		convey.So(StrCmp("abcd", "abc"), convey.ShouldEqual, 1)
	})

	convey.Convey("an empty reference precedes any content", t, func() {
		convey.So(StrCmp("", "x"), convey.ShouldEqual, -1)
	})
}

func TestStrCmpI(t *testing.T) {
	convey.Convey("folds ASCII case", t, func() {
		convey.So(StrCmpI("TRUE", "true"), convey.ShouldEqual, 0)
		convey.So(StrCmpI("Build", "BUILD"), convey.ShouldEqual, 0)
		convey.So(StrCmpI("abc", "abd"), convey.ShouldEqual, -1)
	})
}

func TestTrim(t *testing.T) {
	convey.Convey("removes leading and trailing whitespace code points", t, func() {
		convey.So(Trim("  abc\t\n"), convey.ShouldEqual, "abc")
		convey.So(Trim(" x "), convey.ShouldEqual, "x")
		convey.So(Trim("a b"), convey.ShouldEqual, "a b")
		convey.So(Trim("   "), convey.ShouldEqual, "")
	})
}

func TestValidIntString(t *testing.T) {
	convey.Convey("accepts signed digit runs", t, func() {
		convey.So(ValidIntString("123"), convey.ShouldBeTrue)
		convey.So(ValidIntString("-123"), convey.ShouldBeTrue)
		convey.So(ValidIntString("+7"), convey.ShouldBeTrue)
	})

	convey.Convey("rejects everything else", t, func() {
		convey.So(ValidIntString(""), convey.ShouldBeFalse)
		convey.So(ValidIntString("-"), convey.ShouldBeFalse)
		convey.So(ValidIntString("12a"), convey.ShouldBeFalse)
		convey.So(ValidIntString("1.5"), convey.ShouldBeFalse)
	})
}

func TestValidFloatString(t *testing.T) {
	convey.Convey("accepts fractions and exponents", t, func() {
		convey.So(ValidFloatString("1.5"), convey.ShouldBeTrue)
		convey.So(ValidFloatString("-1.5e10"), convey.ShouldBeTrue)
		convey.So(ValidFloatString("2e-3"), convey.ShouldBeTrue)
		convey.So(ValidFloatString("10"), convey.ShouldBeTrue)
	})

	convey.Convey("rejects misplaced punctuation", t, func() {
		convey.So(ValidFloatString(".5"), convey.ShouldBeFalse)
		convey.So(ValidFloatString("1..5"), convey.ShouldBeFalse)
		convey.So(ValidFloatString("1e"), convey.ShouldBeFalse)
		convey.So(ValidFloatString("1e-"), convey.ShouldBeFalse)
		convey.So(ValidFloatString("1.5e2.0"), convey.ShouldBeFalse)
		convey.So(ValidFloatString(""), convey.ShouldBeFalse)
	})
}

func TestErrorData(t *testing.T) {
	convey.Convey("accumulates and renders records in order", t, func() {
		var data ErrorData

		data.Add("test.toml", 1, 2, "first", LevelError)
		data.Add("test.toml", 3, 4, "second", LevelWarning)

		convey.So(data.Count(), convey.ShouldEqual, 2)
		convey.So(data.Item(0).Message, convey.ShouldEqual, "first")
		convey.So(data.HasErrors(), convey.ShouldBeTrue)
		convey.So(data.CountLevel(LevelWarning), convey.ShouldEqual, 1)
		convey.So(data.BuildString(), convey.ShouldEqual,
			"test.toml (1, 2): first\ntest.toml (3, 4): second\n")
	})

	convey.Convey("an empty accumulator renders nothing", t, func() {
		var data ErrorData
		convey.So(data.HasErrors(), convey.ShouldBeFalse)
		convey.So(data.BuildString(), convey.ShouldEqual, "")
	})
}
