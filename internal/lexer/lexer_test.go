package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tokenExpectation struct {
	Type  TokenType
	Value string
}

func assertTokens(t *testing.T, input string, want []tokenExpectation) {
	t.Helper()

	got := TokenizeAll(input)
	if len(got) != len(want)+1 {
		t.Fatalf("token count: want %d (+EOF), got %d: %v", len(want), len(got), got)
	}

	gotComp := make([]tokenExpectation, len(want))
	for i := range want {
		gotComp[i] = tokenExpectation{Type: got[i].Type, Value: got[i].Value}
	}

	if diff := cmp.Diff(want, gotComp); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}

	if got[len(got)-1].Type != EOF {
		t.Errorf("last token = %v, want EOF", got[len(got)-1])
	}
}

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	assertTokens(t, `model Foo<T> { a: string; }`, []tokenExpectation{
		{MODEL, "model"},
		{IDENT, "Foo"},
		{LANGLE, "<"},
		{IDENT, "T"},
		{RANGLE, ">"},
		{LBRACE, "{"},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "string"},
		{SEMI, ";"},
		{RBRACE, "}"},
	})
}

func TestTokenizeSpreadVsRange(t *testing.T) {
	assertTokens(t, `...Base`, []tokenExpectation{
		{SPREAD, "..."},
		{IDENT, "Base"},
	})
}

func TestTokenizeDecorator(t *testing.T) {
	assertTokens(t, `@doc("hello")`, []tokenExpectation{
		{DECORATOR, "doc"},
		{LPAREN, "("},
		{STRING, "hello"},
		{RPAREN, ")"},
	})
}

func TestTokenizeNegativeNumber(t *testing.T) {
	assertTokens(t, `-42`, []tokenExpectation{
		{INT, "-42"},
	})
}

func TestTokenizeFloat(t *testing.T) {
	assertTokens(t, `3.14`, []tokenExpectation{
		{FLOAT, "3.14"},
	})
}

func TestTokenizeComments(t *testing.T) {
	assertTokens(t, "// a comment\nmodel /* inline */ Foo {}", []tokenExpectation{
		{MODEL, "model"},
		{IDENT, "Foo"},
		{LBRACE, "{"},
		{RBRACE, "}"},
	})
}

func TestTokenizeDoesNotTruncateOnStrayByte(t *testing.T) {
	// "$" is not part of the grammar; the lexer must skip it and keep
	// scanning rather than truncating the stream, the bug this test guards.
	assertTokens(t, "model$Foo {}", []tokenExpectation{
		{MODEL, "model"},
		{IDENT, "Foo"},
		{LBRACE, "{"},
		{RBRACE, "}"},
	})
}

func TestTokenizeDecoratorWithDottedSuffix(t *testing.T) {
	assertTokens(t, `@Foo.Bar.baz`, []tokenExpectation{
		{DECORATOR, "Foo.Bar.baz"},
	})
}

func TestTokenizeInvalidDotDotDropsOnlyTwoDots(t *testing.T) {
	assertTokens(t, `a..b`, []tokenExpectation{
		{IDENT, "a"},
		{IDENT, "b"},
	})
}
