package lexer

import (
	"testing"

	"github.com/ecmago/ecmago/pkg/token"
)

func tokenTypes(src string) []token.Type {
	l := New(src)
	var out []token.Type
	for {
		tok := l.Next()
		out = append(out, tok.Type)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestLexPunctuatorsAndKeywords(t *testing.T) {
	got := tokenTypes("let x = 1 + 2;")
	want := []token.Type{token.Let, token.Ident, token.Assign, token.Number, token.Plus, token.Number, token.Semicolon, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexNumberLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"1_000", 1000},
		{"1e3", 1000},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			l := New(c.src)
			tok := l.Next()
			if tok.Type != token.Number {
				t.Fatalf("Next() type = %s, want Number", tok.Type)
			}
			if tok.NumValue != c.want {
				t.Errorf("NumValue = %v, want %v", tok.NumValue, c.want)
			}
		})
	}
}

func TestLexBigIntLiteral(t *testing.T) {
	l := New("123n")
	tok := l.Next()
	if tok.Type != token.Number {
		t.Fatalf("Next() type = %s, want Number", tok.Type)
	}
	if !tok.IsBigInt {
		t.Error("IsBigInt should be true for a BigInt-suffixed number token")
	}
}

func TestLexStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc"`)
	tok := l.Next()
	if tok.Type != token.String {
		t.Fatalf("Next() type = %s, want String", tok.Type)
	}
	if tok.Cooked != "a\nb\tc" {
		t.Errorf("Cooked = %q, want %q", tok.Cooked, "a\nb\tc")
	}
}

func TestLexRegexVsDivideDisambiguation(t *testing.T) {
	// After an identifier, `/` divides.
	got := tokenTypes("a / b")
	want := []token.Type{token.Ident, token.Slash, token.Ident, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("division case: token %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}

	// After `return`, `/` opens a regex literal.
	l := New("return /abc/;")
	_ = l.Next() // return
	tok := l.Next()
	if tok.Type != token.Regex {
		t.Errorf("token after return = %s, want Regex", tok.Type)
	}
}

func TestLexUnterminatedBlockCommentIsError(t *testing.T) {
	l := New("/* never closes")
	l.Next()
	if len(l.Errors()) == 0 {
		t.Error("expected an error for an unterminated block comment")
	}
}

func TestLexIdentifierWithUnicodeEscape(t *testing.T) {
	l := New(`\u0061bc`)
	tok := l.Next()
	if tok.Type != token.Ident {
		t.Fatalf("Next() type = %s, want Ident", tok.Type)
	}
	if tok.Literal != "abc" {
		t.Errorf("Literal = %q, want %q", tok.Literal, "abc")
	}
}

func TestSnapshotRestoreRewindsPosition(t *testing.T) {
	l := New("abc def")
	first := l.Next()
	snap := l.Snapshot()
	second := l.Next()
	l.Restore(snap)
	replay := l.Next()
	if second.Literal != replay.Literal {
		t.Errorf("after Restore, re-read token = %q, want %q", replay.Literal, second.Literal)
	}
	_ = first
}
