package vm

import (
	"fmt"
	"io"
	"strconv"

	"its-hmny.dev/nand2tetris/internal/lexer"
)

// ----------------------------------------------------------------------------
// Keyword tables

// memOpTypes, segments, arithOps and jumpTypes resolve a keyword Ident's raw
// text to its typed counterpart; unrecognized text is a parse error.
var memOpTypes = map[string]OperationType{"push": Push, "pop": Pop}

var segments = map[string]SegmentType{
	"argument": Argument, "local": Local, "static": Static, "constant": Constant,
	"this": This, "that": That, "temp": Temp, "pointer": Pointer,
}

var arithOps = map[string]ArithOpType{
	"add": Add, "sub": Sub, "neg": Neg,
	"eq": Eq, "gt": Gt, "lt": Lt,
	"and": And, "or": Or, "not": Not,
}

var jumpTypes = map[string]JumpType{"goto": Unconditional, "if-goto": Conditional}

// ----------------------------------------------------------------------------
// Vm Parser

// This section defines the Parser for the nand2tetris Vm language.
//
// Just like the Hack assembler (pkg/asm), parsing happens in two steps: the
// source is tokenized in full with the maximal-munch rule table in
// tokens.go, then the token stream is walked with a small recursive-descent
// parser built on 'internal/lexer.Peekable', one Operation per source line.
// A Parser handles a single translation unit (one '.vm' file/module); the
// caller is responsible for assembling the per-module results into a
// 'vm.Program'.
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint: reads the full source, tokenizes it, then parses each
// line into its 'vm.Operation' counterpart.
func (p *Parser) Parse() (Module, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}

	tokens, err := tokenizer.Tokenize(content)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize module: %w", err)
	}

	cursor := lexer.NewPeekable(tokens, skip)
	module := Module{}

	for !cursor.AtEOF() {
		if _, ok := cursor.MaybeTake(Newline); ok {
			continue // blank line
		}

		op, err := p.parseOperation(cursor)
		if err != nil {
			return nil, err
		}
		module = append(module, op)

		if !cursor.AtEOF() {
			if _, ok := cursor.MaybeTake(Newline); !ok {
				tok, _ := cursor.Peek()
				return nil, fmt.Errorf("unexpected token %q at line %d, col %d", tok.Text, tok.Line, tok.Col)
			}
		}
	}

	return module, nil
}

// parseOperation dispatches on the leading keyword of a line to the matching
// Operation shape (MemoryOp, ArithmeticOp, LabelDecl, GotoOp, FuncDecl,
// FuncCallOp or ReturnOp).
func (p *Parser) parseOperation(cursor *lexer.Peekable[Kind]) (Operation, error) {
	tok, ok := cursor.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input, expected an operation")
	}
	if tok.Kind != Ident {
		return nil, fmt.Errorf("expected a keyword, found %q at line %d, col %d", tok.Text, tok.Line, tok.Col)
	}

	switch tok.Text {
	case "push", "pop":
		return p.parseMemoryOp(cursor)
	case "label":
		return p.parseLabelDecl(cursor)
	case "goto", "if-goto":
		return p.parseGotoOp(cursor)
	case "function":
		return p.parseFuncDecl(cursor)
	case "call":
		return p.parseFuncCallOp(cursor)
	case "return":
		cursor.Next()
		return ReturnOp{}, nil
	default:
		if op, found := arithOps[tok.Text]; found {
			cursor.Next()
			return ArithmeticOp{Operation: op}, nil
		}
		return nil, fmt.Errorf("unrecognized operation %q at line %d, col %d", tok.Text, tok.Line, tok.Col)
	}
}

// parseMemoryOp parses '{push|pop} {segment} {index}', e.g. 'push constant 5'.
func (p *Parser) parseMemoryOp(cursor *lexer.Peekable[Kind]) (Operation, error) {
	kw, _ := cursor.Next()
	opType, found := memOpTypes[kw.Text]
	if !found {
		return nil, fmt.Errorf("unrecognized memory operation %q", kw.Text)
	}

	segTok, ok := cursor.MaybeTake(Ident)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in %s: expected a segment name, got %q", kw.Text, tok.Text)
	}
	segment, found := segments[segTok.Text]
	if !found {
		return nil, fmt.Errorf("in %s: unrecognized segment %q", kw.Text, segTok.Text)
	}

	numTok, ok := cursor.MaybeTake(Number)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in %s %s: expected a numeric offset, got %q", kw.Text, segTok.Text, tok.Text)
	}
	offset, err := strconv.ParseUint(numTok.Text, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("in %s %s: invalid offset %q: %w", kw.Text, segTok.Text, numTok.Text, err)
	}

	return MemoryOp{Operation: opType, Segment: segment, Offset: uint16(offset)}, nil
}

// parseLabelDecl parses 'label {symbol}'.
func (p *Parser) parseLabelDecl(cursor *lexer.Peekable[Kind]) (Operation, error) {
	cursor.Next() // consume 'label'

	nameTok, ok := cursor.MaybeTake(Ident)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in label declaration: expected a symbol, got %q", tok.Text)
	}
	return LabelDecl{Name: nameTok.Text}, nil
}

// parseGotoOp parses '{goto|if-goto} {symbol}'.
func (p *Parser) parseGotoOp(cursor *lexer.Peekable[Kind]) (Operation, error) {
	kw, _ := cursor.Next()
	jump, found := jumpTypes[kw.Text]
	if !found {
		return nil, fmt.Errorf("unrecognized jump type %q", kw.Text)
	}

	nameTok, ok := cursor.MaybeTake(Ident)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in %s: expected a symbol, got %q", kw.Text, tok.Text)
	}
	return GotoOp{Jump: jump, Label: nameTok.Text}, nil
}

// parseFuncDecl parses 'function {name} {n_local}'.
func (p *Parser) parseFuncDecl(cursor *lexer.Peekable[Kind]) (Operation, error) {
	cursor.Next() // consume 'function'

	nameTok, ok := cursor.MaybeTake(Ident)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in function declaration: expected a name, got %q", tok.Text)
	}
	nTok, ok := cursor.MaybeTake(Number)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in function %s: expected a local count, got %q", nameTok.Text, tok.Text)
	}
	nLocal, err := strconv.ParseUint(nTok.Text, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("in function %s: invalid local count %q: %w", nameTok.Text, nTok.Text, err)
	}

	return FuncDecl{Name: nameTok.Text, NLocal: uint8(nLocal)}, nil
}

// parseFuncCallOp parses 'call {name} {n_args}'.
func (p *Parser) parseFuncCallOp(cursor *lexer.Peekable[Kind]) (Operation, error) {
	cursor.Next() // consume 'call'

	nameTok, ok := cursor.MaybeTake(Ident)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in function call: expected a name, got %q", tok.Text)
	}
	nTok, ok := cursor.MaybeTake(Number)
	if !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("in call %s: expected an argument count, got %q", nameTok.Text, tok.Text)
	}
	nArgs, err := strconv.ParseUint(nTok.Text, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("in call %s: invalid argument count %q: %w", nameTok.Text, nTok.Text, err)
	}

	return FuncCallOp{Name: nameTok.Text, NArgs: uint8(nArgs)}, nil
}
