package vm

import "its-hmny.dev/nand2tetris/internal/lexer"

// Kind enumerates the lexical categories of the VM intermediate language.
//
// Unlike the Hack assembler's tokenizer, keywords (push, function, eq, ...)
// are not given their own Kind: they tokenize as a plain Ident and are told
// apart from user identifiers by the parser, which already knows which
// keyword it expects at each position. This keeps the rule table free of the
// keyword-vs-identifier ordering concerns that the teacher's goparsec-based
// grammar (pkg/vm/parsing.go, now replaced) had to document explicitly.
type Kind int

const (
	Comment Kind = iota
	Whitespace
	Newline
	Number
	Ident
)

var skip = map[Kind]bool{Comment: true, Whitespace: true}

var rules = []lexer.Rule[Kind]{
	lexer.MustRule(`//[^\n]*`, Comment),
	lexer.MustRule(`[ \t\r]+`, Whitespace),
	lexer.MustRule(`\n`, Newline),
	lexer.MustRule(`[0-9]+`, Number),
	lexer.MustRule(`if-goto`, Ident), // the only keyword with a '-', longer than the 'if' Ident match
	lexer.MustRule(`[A-Za-z_.$:][0-9A-Za-z_.$:]*`, Ident),
}

var tokenizer = lexer.New(rules)
