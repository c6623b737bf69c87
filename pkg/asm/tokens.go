package asm

import "its-hmny.dev/nand2tetris/internal/lexer"

// Kind enumerates every lexical token the Assembler language's tokenizer
// (C1, instantiated for this stage) can produce.
type Kind int

const (
	Comment Kind = iota
	Whitespace
	Newline

	At     // '@'
	LParen // '('
	RParen // ')'
	Equals // '='
	Semi   // ';'
	Plus   // '+'
	Minus  // '-'
	Bang   // '!'
	Amp    // '&'
	Pipe   // '|'

	Number // raw decimal address literal, e.g. '2345'
	Ident  // label/builtin/register name, e.g. 'LOOP', 'D', 'SCREEN'
)

// skip lists the token kinds the Parser's Peekable should never surface;
// they stay in the token stream so line/col bookkeeping remains accurate.
var skip = map[Kind]bool{Comment: true, Whitespace: true}

// rules is the maximal-munch rule table for the Assembler language. Order
// only matters as a tie-break between equal-length matches, and none occurs
// here: every symbolic rule is a single byte and Ident/Number never overlap
// with them.
var rules = []lexer.Rule[Kind]{
	lexer.MustRule(`//[^\n]*`, Comment),
	lexer.MustRule(`[ \t\r]+`, Whitespace),
	lexer.MustRule(`\n`, Newline),

	lexer.MustRule(`@`, At),
	lexer.MustRule(`\(`, LParen),
	lexer.MustRule(`\)`, RParen),
	lexer.MustRule(`=`, Equals),
	lexer.MustRule(`;`, Semi),
	lexer.MustRule(`\+`, Plus),
	lexer.MustRule(`-`, Minus),
	lexer.MustRule(`!`, Bang),
	lexer.MustRule(`&`, Amp),
	lexer.MustRule(`\|`, Pipe),

	lexer.MustRule(`[0-9]+`, Number),
	// NOTE: a label cannot begin with a leading digit, but a symbol is allowed.
	lexer.MustRule(`[A-Za-z_.$:][0-9A-Za-z_.$:]*`, Ident),
}

var tokenizer = lexer.New(rules)
