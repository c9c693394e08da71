package lexer_test

import (
	"testing"

	"acsc/internal/diag"
	"acsc/internal/lexer"
	"acsc/internal/source"
	"acsc/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.acs", []byte(input))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return lx, bag
}

// collectKinds собирает все токены до EOF (не включая EOF)
func collectKinds(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return toks, bag
		}
		toks = append(toks, tok)
		if len(toks) > 1000 {
			t.Fatalf("lexer did not terminate")
		}
	}
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := collectKinds(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %v", input, bag.Items())
	}
	if len(toks) != len(want) {
		t.Fatalf("%q: got %d tokens, want %d: %v", input, len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Kind != want[i] {
			t.Fatalf("%q: token %d is %s (%q), want %s", input, i, tok.Kind, tok.Text, want[i])
		}
	}
	return toks
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks := expectKinds(t, "Script SCRIPT script Delay",
		token.KwScript, token.KwScript, token.KwScript, token.Ident)
	if toks[0].Text != "Script" {
		t.Fatalf("keyword text must keep source spelling, got %q", toks[0].Text)
	}
}

func TestOperatorsGreedy(t *testing.T) {
	expectKinds(t, "a <<= b >>= c << d :: e ++ -- += != ==",
		token.Ident, token.ShlAssign, token.Ident, token.ShrAssign, token.Ident,
		token.Shl, token.Ident, token.ColonColon, token.Ident, token.PlusPlus,
		token.MinusMinus, token.PlusAssign, token.BangEq, token.EqEq)
}

func TestFormatItemTokens(t *testing.T) {
	expectKinds(t, `Print(s: "hi", d: x; 1)`,
		token.Ident, token.LParen, token.Ident, token.Colon, token.StringLit, token.Comma,
		token.Ident, token.Colon, token.Ident, token.Semicolon, token.IntLit, token.RParen)
}

func TestCommentsSkipped(t *testing.T) {
	expectKinds(t, "a // line\n/* block\n comment */ b", token.Ident, token.Ident)
}

func TestLibraryDirective(t *testing.T) {
	expectKinds(t, `#Library "zcommon"`, token.HashLibrary, token.StringLit)
}

func TestNumbers(t *testing.T) {
	toks := expectKinds(t, "123 0x1F 0b101 017 0o17 0", token.IntLit, token.IntLit,
		token.IntLit, token.IntLit, token.IntLit, token.IntLit)
	want := []int32{123, 31, 5, 15, 15, 0}
	for i, tok := range toks {
		v, err := lexer.IntValue(tok.Text)
		if err != nil {
			t.Fatalf("IntValue(%q): %v", tok.Text, err)
		}
		if v != want[i] {
			t.Fatalf("IntValue(%q) = %d, want %d", tok.Text, v, want[i])
		}
	}
}

func TestIntValueWraps(t *testing.T) {
	v, err := lexer.IntValue("0xFFFFFFFF")
	if err != nil || v != -1 {
		t.Fatalf("IntValue(0xFFFFFFFF) = %d, %v", v, err)
	}
	if _, err := lexer.IntValue("0x100000000"); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestStringAndChar(t *testing.T) {
	toks := expectKinds(t, `"a\tb\x41" '\n' 'z'`, token.StringLit, token.CharLit, token.CharLit)
	s, err := lexer.Unquote(toks[0].Text)
	if err != nil || s != "a\tbA" {
		t.Fatalf("Unquote = %q, %v", s, err)
	}
	if v, _ := lexer.CharValue(toks[1].Text); v != '\n' {
		t.Fatalf("CharValue('\\n') = %d", v)
	}
	if v, _ := lexer.CharValue(toks[2].Text); v != 'z' {
		t.Fatalf("CharValue('z') = %d", v)
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unknown char", "a @ b", diag.LexUnknownChar},
		{"unterminated string", "\"abc\nx", diag.LexUnterminatedString},
		{"unterminated comment", "/* abc", diag.LexUnterminatedBlockComment},
		{"bad digit", "12ab", diag.LexBadNumber},
		{"bad octal", "019", diag.LexBadNumber},
		{"empty hex", "0x", diag.LexBadNumber},
		{"bad escape", `"\q"`, diag.LexBadEscape},
		{"empty char", "''", diag.LexBadCharLiteral},
		{"define", "#define X 1", diag.LexUnknownChar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := collectKinds(t, tc.input)
			items := bag.Items()
			if len(items) == 0 {
				t.Fatalf("expected diagnostic %s", tc.code.ID())
			}
			if items[0].Code != tc.code {
				t.Fatalf("got %s, want %s", items[0].Code.ID(), tc.code.ID())
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}
