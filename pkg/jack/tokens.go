package jack

import "its-hmny.dev/nand2tetris/internal/lexer"

// Kind enumerates the lexical categories of the Jack language.
//
// Keywords (class, let, if, ...) are not given their own Kind: they tokenize
// as a plain Ident and are told apart from user identifiers by the parser,
// which already knows which keyword(s) it expects at each position.
type Kind int

const (
	Comment Kind = iota
	Whitespace
	Newline

	Number
	StringLit
	Ident

	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket

	Dot
	Comma
	Semi

	PlusSign
	MinusSign
	Star
	Slash
	Amp
	Pipe
	Lt
	Gt
	Equals
	Tilde
)

var skip = map[Kind]bool{Comment: true, Whitespace: true, Newline: true}

var rules = []lexer.Rule[Kind]{
	lexer.MustRule(`//[^\n]*`, Comment),
	lexer.MustRule(`(?s)/\*.*?\*/`, Comment),
	lexer.MustRule(`[ \t\r]+`, Whitespace),
	lexer.MustRule(`\n`, Newline),

	lexer.MustRule(`[0-9]+`, Number),
	lexer.MustRule(`"[^"\n]*"`, StringLit),

	lexer.MustRule(`\{`, LBrace),
	lexer.MustRule(`\}`, RBrace),
	lexer.MustRule(`\(`, LParen),
	lexer.MustRule(`\)`, RParen),
	lexer.MustRule(`\[`, LBracket),
	lexer.MustRule(`\]`, RBracket),

	lexer.MustRule(`\.`, Dot),
	lexer.MustRule(`,`, Comma),
	lexer.MustRule(`;`, Semi),

	lexer.MustRule(`\+`, PlusSign),
	lexer.MustRule(`-`, MinusSign),
	lexer.MustRule(`\*`, Star),
	lexer.MustRule(`/`, Slash),
	lexer.MustRule(`&`, Amp),
	lexer.MustRule(`\|`, Pipe),
	lexer.MustRule(`<`, Lt),
	lexer.MustRule(`>`, Gt),
	lexer.MustRule(`=`, Equals),
	lexer.MustRule(`~`, Tilde),

	lexer.MustRule(`[A-Za-z_][0-9A-Za-z_]*`, Ident),
}

var tokenizer = lexer.New(rules)
