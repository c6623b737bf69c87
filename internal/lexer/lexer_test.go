package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"its-hmny.dev/nand2tetris/internal/lexer"
)

type kind int

const (
	kIdent kind = iota
	kNumber
	kIfGoto
	kIf
	kWhitespace
)

var testRules = []lexer.Rule[kind]{
	lexer.MustRule(`[ \t\n]+`, kWhitespace),
	// Declared before 'if' alone: maximal munch means 'if-goto' wins on the
	// longer match regardless of declaration order, but ordering it first
	// documents the intent and breaks ties the same way if lengths ever match.
	lexer.MustRule(`if-goto`, kIfGoto),
	lexer.MustRule(`if`, kIf),
	lexer.MustRule(`[0-9]+`, kNumber),
	lexer.MustRule(`[a-zA-Z_]+`, kIdent),
}

func TestTokenizeMaximalMunch(t *testing.T) {
	tokens, err := lexer.New(testRules).Tokenize([]byte("if-goto LOOP if foo"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	var kinds []kind
	for _, tok := range tokens {
		if tok.Kind == kWhitespace {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}

	want := []kind{kIfGoto, kIdent, kIf, kIdent}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("unexpected kinds (-want +got):\n%s", diff)
	}
}

func TestTokenizeTracksLineColOffset(t *testing.T) {
	tokens, err := lexer.New(testRules).Tokenize([]byte("foo\nbar"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if tokens[0].Line != 1 || tokens[0].Col != 1 || tokens[0].Offset != 0 {
		t.Fatalf("unexpected position for first token: %+v", tokens[0])
	}

	// tokens[1] is the newline (kWhitespace), tokens[2] is 'bar'
	bar := tokens[2]
	if bar.Line != 2 || bar.Col != 1 || bar.Offset != 4 {
		t.Fatalf("unexpected position for 'bar': %+v", bar)
	}
}

func TestTokenizeErrorsOnUnmatchedInput(t *testing.T) {
	_, err := lexer.New(testRules).Tokenize([]byte("foo @ bar"))
	if err == nil {
		t.Fatal("expected a LexError for unmatched input")
	}

	var lexErr lexer.LexError
	if !asLexError(err, &lexErr) {
		t.Fatalf("expected error to be a LexError, got %T", err)
	}
	if lexErr.Offset != 4 {
		t.Fatalf("expected error at offset 4, got %d", lexErr.Offset)
	}
}

func asLexError(err error, out *lexer.LexError) bool {
	le, ok := err.(lexer.LexError)
	if ok {
		*out = le
	}
	return ok
}

func TestTokenizeEmptyInput(t *testing.T) {
	tokens, err := lexer.New(testRules).Tokenize([]byte{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %d", len(tokens))
	}
}
