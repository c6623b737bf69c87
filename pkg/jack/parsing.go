package jack

import (
	"fmt"
	"io"
	"strings"

	"its-hmny.dev/nand2tetris/internal/lexer"
	"its-hmny.dev/nand2tetris/pkg/utils"
)

// ----------------------------------------------------------------------------
// Jack Parser

// This section defines the Parser for the nand2tetris Jack language.
//
// Parsing happens in two steps, mirroring the generic tokenizer/parser split
// shared by every stage: the source is first tokenized in full with the
// maximal-munch rule table in tokens.go, then the resulting token stream is
// walked with a recursive-descent parser built on 'internal/lexer.Peekable'.
//
// Each source file holds exactly one class, so Parse returns a single
// 'jack.Class' rather than a whole 'jack.Program' (the caller, typically the
// compiler driver, is responsible for keying each parsed Class by name into
// a Program and feeding the stdlib entries alongside it).
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint: reads the full source, tokenizes it, then parses the
// single 'class' declaration it contains.
func (p *Parser) Parse() (Class, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return Class{}, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}

	tokens, err := tokenizer.Tokenize(content)
	if err != nil {
		return Class{}, fmt.Errorf("unable to tokenize program: %w", err)
	}

	cursor := lexer.NewPeekable(tokens, skip)
	return p.parseClass(cursor)
}

// ----------------------------------------------------------------------------
// Class-level grammar

// parseClass parses 'class' className '{' classVarDec* subroutineDec* '}'.
func (p *Parser) parseClass(cursor *lexer.Peekable[Kind]) (Class, error) {
	if err := expectKeyword(cursor, "class"); err != nil {
		return Class{}, err
	}

	name, err := expectIdent(cursor)
	if err != nil {
		return Class{}, fmt.Errorf("expected a class name: %w", err)
	}

	if _, ok := cursor.MaybeTake(LBrace); !ok {
		tok, _ := cursor.Peek()
		return Class{}, fmt.Errorf("expected '{' after class name, got %q", tok.Text)
	}

	fields := []utils.MapEntry[string, Variable]{}
	for isKeyword(cursor, "static") || isKeyword(cursor, "field") {
		vars, err := p.parseClassVarDec(cursor)
		if err != nil {
			return Class{}, fmt.Errorf("error parsing class field declaration: %w", err)
		}
		for _, v := range vars {
			fields = append(fields, utils.MapEntry[string, Variable]{Key: v.Name, Value: v})
		}
	}

	subroutines := []utils.MapEntry[string, Subroutine]{}
	for isKeyword(cursor, "constructor") || isKeyword(cursor, "function") || isKeyword(cursor, "method") {
		sub, err := p.parseSubroutineDec(cursor)
		if err != nil {
			return Class{}, fmt.Errorf("error parsing subroutine declaration: %w", err)
		}
		subroutines = append(subroutines, utils.MapEntry[string, Subroutine]{Key: sub.Name, Value: sub})
	}

	if _, ok := cursor.MaybeTake(RBrace); !ok {
		tok, _ := cursor.Peek()
		return Class{}, fmt.Errorf("expected '}' to close class body, got %q", tok.Text)
	}

	return Class{
		Name:        name,
		Fields:      utils.NewOrderedMapFromList(fields),
		Subroutines: utils.NewOrderedMapFromList(subroutines),
	}, nil
}

// parseClassVarDec parses ('static'|'field') type varName (',' varName)* ';'.
func (p *Parser) parseClassVarDec(cursor *lexer.Peekable[Kind]) ([]Variable, error) {
	tok, _ := cursor.Next()
	varType := Field
	if tok.Text == "static" {
		varType = Static
	}

	dataType, className, err := p.parseType(cursor)
	if err != nil {
		return nil, err
	}

	names, err := p.parseVarNameList(cursor)
	if err != nil {
		return nil, err
	}

	vars := make([]Variable, len(names))
	for i, name := range names {
		vars[i] = Variable{Name: name, Type: varType, DataType: dataType, ClassName: className}
	}
	return vars, nil
}

// parseVarNameList parses varName (',' varName)* ';'.
func (p *Parser) parseVarNameList(cursor *lexer.Peekable[Kind]) ([]string, error) {
	names := []string{}

	first, err := expectIdent(cursor)
	if err != nil {
		return nil, fmt.Errorf("expected a variable name: %w", err)
	}
	names = append(names, first)

	for {
		if _, ok := cursor.MaybeTake(Comma); !ok {
			break
		}
		name, err := expectIdent(cursor)
		if err != nil {
			return nil, fmt.Errorf("expected a variable name after ',': %w", err)
		}
		names = append(names, name)
	}

	if _, ok := cursor.MaybeTake(Semi); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected ';' to terminate variable declaration, got %q", tok.Text)
	}

	return names, nil
}

// parseType parses 'int'|'char'|'boolean'|'void'|className.
func (p *Parser) parseType(cursor *lexer.Peekable[Kind]) (DataType, string, error) {
	tok, ok := cursor.MaybeTake(Ident)
	if !ok {
		peeked, _ := cursor.Peek()
		return "", "", fmt.Errorf("expected a type, got %q", peeked.Text)
	}

	switch tok.Text {
	case "int":
		return Int, "", nil
	case "char":
		return Char, "", nil
	case "boolean":
		return Bool, "", nil
	case "void":
		return Void, "", nil
	default:
		return Object, tok.Text, nil
	}
}

// ----------------------------------------------------------------------------
// Subroutine grammar

// parseSubroutineDec parses ('constructor'|'function'|'method') ('void'|type)
// subroutineName '(' parameterList ')' subroutineBody.
func (p *Parser) parseSubroutineDec(cursor *lexer.Peekable[Kind]) (Subroutine, error) {
	tok, _ := cursor.Next()
	var subType SubroutineType
	switch tok.Text {
	case "constructor":
		subType = Constructor
	case "function":
		subType = Function
	case "method":
		subType = Method
	}

	returnType, _, err := p.parseType(cursor)
	if err != nil {
		return Subroutine{}, fmt.Errorf("error parsing return type: %w", err)
	}

	name, err := expectIdent(cursor)
	if err != nil {
		return Subroutine{}, fmt.Errorf("expected a subroutine name: %w", err)
	}

	if _, ok := cursor.MaybeTake(LParen); !ok {
		peeked, _ := cursor.Peek()
		return Subroutine{}, fmt.Errorf("expected '(' after subroutine name, got %q", peeked.Text)
	}

	args, err := p.parseParameterList(cursor)
	if err != nil {
		return Subroutine{}, fmt.Errorf("error parsing parameter list: %w", err)
	}

	if _, ok := cursor.MaybeTake(RParen); !ok {
		peeked, _ := cursor.Peek()
		return Subroutine{}, fmt.Errorf("expected ')' after parameter list, got %q", peeked.Text)
	}

	statements, err := p.parseSubroutineBody(cursor)
	if err != nil {
		return Subroutine{}, fmt.Errorf("error parsing subroutine body: %w", err)
	}

	return Subroutine{Name: name, Type: subType, Return: returnType, Arguments: args, Statements: statements}, nil
}

// parseParameterList parses ((type varName) (',' type varName)*)?.
func (p *Parser) parseParameterList(cursor *lexer.Peekable[Kind]) (utils.OrderedMap[string, Variable], error) {
	entries := []utils.MapEntry[string, Variable]{}

	if next, ok := cursor.Peek(); !ok || next.Kind == RParen {
		return utils.NewOrderedMapFromList(entries), nil
	}

	for {
		dataType, className, err := p.parseType(cursor)
		if err != nil {
			return utils.OrderedMap[string, Variable]{}, err
		}
		name, err := expectIdent(cursor)
		if err != nil {
			return utils.OrderedMap[string, Variable]{}, fmt.Errorf("expected a parameter name: %w", err)
		}

		entries = append(entries, utils.MapEntry[string, Variable]{
			Key:   name,
			Value: Variable{Name: name, Type: Parameter, DataType: dataType, ClassName: className},
		})

		if _, ok := cursor.MaybeTake(Comma); !ok {
			break
		}
	}

	return utils.NewOrderedMapFromList(entries), nil
}

// parseSubroutineBody parses '{' varDec* statements '}'.
func (p *Parser) parseSubroutineBody(cursor *lexer.Peekable[Kind]) ([]Statement, error) {
	if _, ok := cursor.MaybeTake(LBrace); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected '{' to open subroutine body, got %q", tok.Text)
	}

	statements := []Statement{}

	for isKeyword(cursor, "var") {
		stmt, err := p.parseVarDec(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing local variable declaration: %w", err)
		}
		statements = append(statements, stmt)
	}

	rest, err := p.parseStatements(cursor)
	if err != nil {
		return nil, err
	}
	statements = append(statements, rest...)

	if _, ok := cursor.MaybeTake(RBrace); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected '}' to close subroutine body, got %q", tok.Text)
	}

	return statements, nil
}

// parseVarDec parses 'var' type varName (',' varName)* ';'.
func (p *Parser) parseVarDec(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'var'

	dataType, className, err := p.parseType(cursor)
	if err != nil {
		return nil, err
	}

	names, err := p.parseVarNameList(cursor)
	if err != nil {
		return nil, err
	}

	vars := make([]Variable, len(names))
	for i, name := range names {
		vars[i] = Variable{Name: name, Type: Local, DataType: dataType, ClassName: className}
	}
	return VarStmt{Vars: vars}, nil
}

// ----------------------------------------------------------------------------
// Statement grammar

// parseStatements parses statement* up to (but not including) the closing '}'.
func (p *Parser) parseStatements(cursor *lexer.Peekable[Kind]) ([]Statement, error) {
	statements := []Statement{}

	for {
		next, ok := cursor.Peek()
		if !ok || next.Kind == RBrace {
			break
		}

		stmt, err := p.parseStatement(cursor)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

// parseStatement dispatches on the leading keyword to one of the five
// statement shapes (let, if, while, do, return).
func (p *Parser) parseStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	tok, ok := cursor.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input, expected a statement")
	}

	switch tok.Text {
	case "let":
		return p.parseLetStatement(cursor)
	case "if":
		return p.parseIfStatement(cursor)
	case "while":
		return p.parseWhileStatement(cursor)
	case "do":
		return p.parseDoStatement(cursor)
	case "return":
		return p.parseReturnStatement(cursor)
	default:
		return nil, fmt.Errorf("unrecognized statement keyword %q at line %d", tok.Text, tok.Line)
	}
}

// parseLetStatement parses 'let' varName ('[' expression ']')? '=' expression ';'.
func (p *Parser) parseLetStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'let'

	name, err := expectIdent(cursor)
	if err != nil {
		return nil, fmt.Errorf("expected a variable name after 'let': %w", err)
	}

	var lhs Expression = VarExpr{Var: name}
	if _, ok := cursor.MaybeTake(LBracket); ok {
		index, err := p.parseExpression(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing array index expression: %w", err)
		}
		if _, ok := cursor.MaybeTake(RBracket); !ok {
			tok, _ := cursor.Peek()
			return nil, fmt.Errorf("expected ']' to close array index, got %q", tok.Text)
		}
		lhs = ArrayExpr{Var: name, Index: index}
	}

	if _, ok := cursor.MaybeTake(Equals); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected '=' in let statement, got %q", tok.Text)
	}

	rhs, err := p.parseExpression(cursor)
	if err != nil {
		return nil, fmt.Errorf("error parsing RHS expression: %w", err)
	}

	if _, ok := cursor.MaybeTake(Semi); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected ';' to terminate let statement, got %q", tok.Text)
	}

	return LetStmt{Lhs: lhs, Rhs: rhs}, nil
}

// parseIfStatement parses 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?.
func (p *Parser) parseIfStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'if'

	cond, block, err := p.parseConditionAndBlock(cursor)
	if err != nil {
		return nil, err
	}

	var elseBlock []Statement
	if isKeyword(cursor, "else") {
		cursor.Next() // consume 'else'

		if _, ok := cursor.MaybeTake(LBrace); !ok {
			tok, _ := cursor.Peek()
			return nil, fmt.Errorf("expected '{' after 'else', got %q", tok.Text)
		}
		elseBlock, err = p.parseStatements(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing 'else' block: %w", err)
		}
		if _, ok := cursor.MaybeTake(RBrace); !ok {
			tok, _ := cursor.Peek()
			return nil, fmt.Errorf("expected '}' to close 'else' block, got %q", tok.Text)
		}
	}

	return IfStmt{Condition: cond, ThenBlock: block, ElseBlock: elseBlock}, nil
}

// parseWhileStatement parses 'while' '(' expression ')' '{' statements '}'.
func (p *Parser) parseWhileStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'while'

	cond, block, err := p.parseConditionAndBlock(cursor)
	if err != nil {
		return nil, err
	}

	return WhileStmt{Condition: cond, Block: block}, nil
}

// parseConditionAndBlock parses the '(' expression ')' '{' statements '}'
// shape shared by 'if' and 'while'.
func (p *Parser) parseConditionAndBlock(cursor *lexer.Peekable[Kind]) (Expression, []Statement, error) {
	if _, ok := cursor.MaybeTake(LParen); !ok {
		tok, _ := cursor.Peek()
		return nil, nil, fmt.Errorf("expected '(' before condition, got %q", tok.Text)
	}

	cond, err := p.parseExpression(cursor)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing condition expression: %w", err)
	}

	if _, ok := cursor.MaybeTake(RParen); !ok {
		tok, _ := cursor.Peek()
		return nil, nil, fmt.Errorf("expected ')' after condition, got %q", tok.Text)
	}
	if _, ok := cursor.MaybeTake(LBrace); !ok {
		tok, _ := cursor.Peek()
		return nil, nil, fmt.Errorf("expected '{' to open block, got %q", tok.Text)
	}

	block, err := p.parseStatements(cursor)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := cursor.MaybeTake(RBrace); !ok {
		tok, _ := cursor.Peek()
		return nil, nil, fmt.Errorf("expected '}' to close block, got %q", tok.Text)
	}

	return cond, block, nil
}

// parseDoStatement parses 'do' subroutineCall ';'.
func (p *Parser) parseDoStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'do'

	call, err := p.parseSubroutineCall(cursor)
	if err != nil {
		return nil, fmt.Errorf("error parsing subroutine call: %w", err)
	}

	if _, ok := cursor.MaybeTake(Semi); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected ';' to terminate do statement, got %q", tok.Text)
	}

	return DoStmt{FuncCall: call}, nil
}

// parseReturnStatement parses 'return' expression? ';'.
func (p *Parser) parseReturnStatement(cursor *lexer.Peekable[Kind]) (Statement, error) {
	cursor.Next() // consume 'return'

	if _, ok := cursor.MaybeTake(Semi); ok {
		return ReturnStmt{}, nil
	}

	expr, err := p.parseExpression(cursor)
	if err != nil {
		return nil, fmt.Errorf("error parsing return expression: %w", err)
	}

	if _, ok := cursor.MaybeTake(Semi); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected ';' to terminate return statement, got %q", tok.Text)
	}

	return ReturnStmt{Expr: expr}, nil
}

// ----------------------------------------------------------------------------
// Expression grammar

// binaryOps maps each operator token Kind to its 'ExprType' counterpart.
var binaryOps = map[Kind]ExprType{
	PlusSign: Plus, MinusSign: Minus, Star: Multiply, Slash: Divide,
	Amp: BoolAnd, Pipe: BoolOr, Lt: LessThan, Gt: GreatThan, Equals: Equal,
}

// parseExpression parses term (op term)*, left-associative.
func (p *Parser) parseExpression(cursor *lexer.Peekable[Kind]) (Expression, error) {
	lhs, err := p.parseTerm(cursor)
	if err != nil {
		return nil, err
	}

	for {
		next, ok := cursor.Peek()
		if !ok {
			break
		}
		opType, isOp := binaryOps[next.Kind]
		if !isOp {
			break
		}
		cursor.Next() // consume operator

		rhs, err := p.parseTerm(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing RHS of binary expression: %w", err)
		}

		lhs = BinaryExpr{Type: opType, Lhs: lhs, Rhs: rhs}
	}

	return lhs, nil
}

// parseTerm parses a single term: literal, keyword constant, variable
// reference (plain, indexed or a subroutine call), parenthesized expression
// or a unary operator applied to a nested term.
func (p *Parser) parseTerm(cursor *lexer.Peekable[Kind]) (Expression, error) {
	tok, ok := cursor.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input, expected an expression term")
	}

	switch tok.Kind {
	case Number:
		cursor.Next()
		return LiteralExpr{Type: Int, Value: tok.Text}, nil

	case StringLit:
		cursor.Next()
		return LiteralExpr{Type: String, Value: strings.Trim(tok.Text, `"`)}, nil

	case MinusSign:
		cursor.Next()
		rhs, err := p.parseTerm(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing negated term: %w", err)
		}
		return UnaryExpr{Type: Minus, Rhs: rhs}, nil

	case Tilde:
		cursor.Next()
		rhs, err := p.parseTerm(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing negated term: %w", err)
		}
		return UnaryExpr{Type: BoolNot, Rhs: rhs}, nil

	case LParen:
		cursor.Next()
		inner, err := p.parseExpression(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing parenthesized expression: %w", err)
		}
		if _, ok := cursor.MaybeTake(RParen); !ok {
			tok, _ := cursor.Peek()
			return nil, fmt.Errorf("expected ')' to close parenthesized expression, got %q", tok.Text)
		}
		return inner, nil

	case Ident:
		switch tok.Text {
		case "true":
			cursor.Next()
			return LiteralExpr{Type: Bool, Value: "true"}, nil
		case "false":
			cursor.Next()
			return LiteralExpr{Type: Bool, Value: "false"}, nil
		case "null":
			cursor.Next()
			return LiteralExpr{Type: Object, Value: "null"}, nil
		case "this":
			cursor.Next()
			return VarExpr{Var: "this"}, nil
		}

		return p.parseVarOrCall(cursor)

	default:
		return nil, fmt.Errorf("unexpected token %q, expected an expression term", tok.Text)
	}
}

// parseVarOrCall disambiguates, via lookahead, between a plain variable
// reference, an indexed array access and a subroutine call (local or
// qualified by a class/variable name).
func (p *Parser) parseVarOrCall(cursor *lexer.Peekable[Kind]) (Expression, error) {
	name, _ := cursor.Next() // the Ident already peeked by the caller

	if next, ok := cursor.Peek(); ok && next.Kind == LBracket {
		cursor.Next() // consume '['
		index, err := p.parseExpression(cursor)
		if err != nil {
			return nil, fmt.Errorf("error parsing array index expression: %w", err)
		}
		if _, ok := cursor.MaybeTake(RBracket); !ok {
			tok, _ := cursor.Peek()
			return nil, fmt.Errorf("expected ']' to close array index, got %q", tok.Text)
		}
		return ArrayExpr{Var: name.Text, Index: index}, nil
	}

	if next, ok := cursor.Peek(); ok && next.Kind == LParen {
		return p.parseCallArguments(cursor, false, "", name.Text)
	}

	if next, ok := cursor.Peek(); ok && next.Kind == Dot {
		cursor.Next() // consume '.'
		method, err := expectIdent(cursor)
		if err != nil {
			return nil, fmt.Errorf("expected a subroutine name after '.': %w", err)
		}
		return p.parseCallArguments(cursor, true, name.Text, method)
	}

	return VarExpr{Var: name.Text}, nil
}

// parseSubroutineCall parses subroutineName '(' expressionList ')' or
// (className|varName) '.' subroutineName '(' expressionList ')'.
func (p *Parser) parseSubroutineCall(cursor *lexer.Peekable[Kind]) (FuncCallExpr, error) {
	name, err := expectIdent(cursor)
	if err != nil {
		return FuncCallExpr{}, fmt.Errorf("expected a subroutine or class/variable name: %w", err)
	}

	if _, ok := cursor.MaybeTake(Dot); ok {
		method, err := expectIdent(cursor)
		if err != nil {
			return FuncCallExpr{}, fmt.Errorf("expected a subroutine name after '.': %w", err)
		}
		expr, err := p.parseCallArguments(cursor, true, name, method)
		if err != nil {
			return FuncCallExpr{}, err
		}
		return expr.(FuncCallExpr), nil
	}

	expr, err := p.parseCallArguments(cursor, false, "", name)
	if err != nil {
		return FuncCallExpr{}, err
	}
	return expr.(FuncCallExpr), nil
}

// parseCallArguments parses '(' expressionList ')', the tail shared by every
// subroutine call shape, and wraps it into the already-resolved FuncCallExpr.
func (p *Parser) parseCallArguments(cursor *lexer.Peekable[Kind], isExtCall bool, varName, funcName string) (Expression, error) {
	if _, ok := cursor.MaybeTake(LParen); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected '(' to start argument list, got %q", tok.Text)
	}

	args := []Expression{}
	if next, ok := cursor.Peek(); !ok || next.Kind != RParen {
		for {
			arg, err := p.parseExpression(cursor)
			if err != nil {
				return nil, fmt.Errorf("error parsing argument expression: %w", err)
			}
			args = append(args, arg)

			if _, ok := cursor.MaybeTake(Comma); !ok {
				break
			}
		}
	}

	if _, ok := cursor.MaybeTake(RParen); !ok {
		tok, _ := cursor.Peek()
		return nil, fmt.Errorf("expected ')' to close argument list, got %q", tok.Text)
	}

	return FuncCallExpr{IsExtCall: isExtCall, Var: varName, FuncName: funcName, Arguments: args}, nil
}

// ----------------------------------------------------------------------------
// Token helpers

// isKeyword reports whether the next token is an Ident whose text is 'kw',
// without consuming it.
func isKeyword(cursor *lexer.Peekable[Kind], kw string) bool {
	tok, ok := cursor.Peek()
	return ok && tok.Kind == Ident && tok.Text == kw
}

// expectKeyword consumes the next token, failing unless it's the Ident 'kw'.
func expectKeyword(cursor *lexer.Peekable[Kind], kw string) error {
	tok, ok := cursor.Next()
	if !ok || tok.Kind != Ident || tok.Text != kw {
		return fmt.Errorf("expected keyword %q, got %q", kw, tok.Text)
	}
	return nil
}

// expectIdent consumes the next token, failing unless it's an Ident.
func expectIdent(cursor *lexer.Peekable[Kind]) (string, error) {
	tok, ok := cursor.MaybeTake(Ident)
	if !ok {
		peeked, _ := cursor.Peek()
		return "", fmt.Errorf("expected an identifier, got %q", peeked.Text)
	}
	return tok.Text, nil
}
