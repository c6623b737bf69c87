package asm

import (
	"fmt"
	"io"

	"its-hmny.dev/nand2tetris/internal/lexer"
)

// ----------------------------------------------------------------------------
// Asm Parser

// This section defines the Parser for the nand2tetris Asm language.
//
// Parsing happens in two steps, mirroring the generic tokenizer/parser split
// shared by every stage: the source is first tokenized in full with the
// maximal-munch rule table in tokens.go, then the resulting token stream is
// walked with a small recursive-descent parser built on
// 'internal/lexer.Peekable', one Statement per source line.
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint: reads the full source, tokenizes it, then parses each
// line into its 'asm.Statement' counterpart.
func (p *Parser) Parse() (Program, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}

	tokens, err := tokenizer.Tokenize(content)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize program: %w", err)
	}

	cursor := lexer.NewPeekable(tokens, skip)
	program := Program{}

	for !cursor.AtEOF() {
		if _, ok := cursor.MaybeTake(Newline); ok {
			continue // blank line
		}

		stmt, err := p.parseStatement(cursor)
		if err != nil {
			return nil, err
		}
		program = append(program, stmt)

		if !cursor.AtEOF() {
			if _, ok := cursor.MaybeTake(Newline); !ok {
				tok, _ := cursor.Peek()
				return nil, fmt.Errorf("unexpected token %q at line %d, col %d", tok.Text, tok.Line, tok.Col)
			}
		}
	}

	return program, nil
}

// parseStatement dispatches on the first token of a line to one of the
// three Statement shapes: A Instruction, Label Declaration or C Instruction.
func (p *Parser) parseStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	next, ok := cursor.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input, expected a statement")
	}

	switch next.Kind {
	case At:
		return p.parseAInst(cursor)
	case LParen:
		return p.parseLabelDecl(cursor)
	default:
		return p.parseCInst(cursor)
	}
}

// parseAInst parses '@' followed by a raw address, a user-defined label or a
// built-in symbol name, e.g. '@2', '@LOOP', '@SCREEN'.
func (p *Parser) parseAInst(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume '@'

	location, err := p.parseLocation(cursor)
	if err != nil {
		return nil, fmt.Errorf("in A Instruction: %w", err)
	}
	return AInstruction{Location: location}, nil
}

// parseLabelDecl parses '(' LABEL ')', e.g. '(LOOP)'.
func (p *Parser) parseLabelDecl(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume '('

	location, err := p.parseLocation(cursor)
	if err != nil {
		return nil, fmt.Errorf("in Label Declaration: %w", err)
	}

	if _, ok := cursor.MaybeTake(RParen); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in Label Declaration: expected ')', got %q", tok.Text)
	}

	return LabelDecl{Name: location}, nil
}

// parseLocation consumes a single Ident or Number token, the shape shared by
// both the payload of an A Instruction and of a Label Declaration.
func (p *Parser) parseLocation(cursor *lexer.Peekable[Kind]) (string, error) {
	if tok, ok := cursor.MaybeTake(Number); ok {
		return tok.Text, nil
	}
	if tok, ok := cursor.MaybeTake(Ident); ok {
		return tok.Text, nil
	}

	tok, _ := cursor.Peek()
	return "", fmt.Errorf("expected a label or address, got %q", tok.Text)
}

// parseCInst parses the 'dest=comp;jump' grammar (dest and jump both
// optional, comp mandatory): e.g. 'D=M', '0;JMP', 'D=D+1;JGT'.
func (p *Parser) parseCInst(cursor *lexer.Peekable[Kind]) (Statement, error) {
	var dest string

	// A dest prefix is exactly one Ident token immediately followed by '='.
	if first, ok := cursor.PeekN(0); ok && first.Kind == Ident {
		if second, ok := cursor.PeekN(1); ok && second.Kind == Equals {
			cursor.Next() // consume dest
			cursor.Next() // consume '='
			dest = first.Text
		}
	}

	comp, err := p.parseComp(cursor)
	if err != nil {
		return nil, err
	}

	var jump string
	if _, ok := cursor.MaybeTake(Semi); ok {
		tok, ok := cursor.MaybeTake(Ident)
		if !ok {
			peeked, _ := cursor.Peek()
			return nil, fmt.Errorf("expected jump mnemonic after ';', got %q", peeked.Text)
		}
		jump = tok.Text
	}

	return CInstruction{Dest: dest, Comp: comp, Jump: jump}, nil
}

// compTokens is the set of token kinds that may appear inside a comp
// expression (register names, constants and the binary/unary operators).
var compTokens = map[Kind]bool{
	Ident: true, Number: true, Plus: true, Minus: true, Bang: true, Amp: true, Pipe: true,
}

// parseComp greedily consumes every token belonging to the comp expression,
// stopping at ';', a newline or EOF, and concatenates their raw text: this
// is enough to reconstruct comp mnemonics like 'D+1', '-1', '!M', 'D&A'
// verbatim, leaving well-formedness to 'hack.CompTable' during codegen.
func (p *Parser) parseComp(cursor *lexer.Peekable[Kind]) (string, error) {
	var comp string

	for {
		tok, ok := cursor.Peek()
		if !ok || tok.Kind == Semi || tok.Kind == Newline || !compTokens[tok.Kind] {
			break
		}
		cursor.Next()
		comp += tok.Text
	}

	if comp == "" {
		tok, _ := cursor.Peek()
		return "", fmt.Errorf("expected a 'comp' expression, got %q", tok.Text)
	}
	return comp, nil
}
