package jack_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"its-hmny.dev/nand2tetris/pkg/jack"
	"its-hmny.dev/nand2tetris/pkg/utils"
)

func TestParseClassWithFields(t *testing.T) {
	const src = `
class Point {
	field int x, y;
	static int count;
}
`
	parser := jack.NewParser(strings.NewReader(src))
	class, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if class.Name != "Point" {
		t.Fatalf("expected class name 'Point', got %q", class.Name)
	}
	if class.Fields.Size() != 3 {
		t.Fatalf("expected 3 fields, got %d", class.Fields.Size())
	}

	x, ok := class.Fields.Get("x")
	if !ok {
		t.Fatal("expected to find field 'x'")
	}
	want := jack.Variable{Name: "x", Type: jack.Field, DataType: jack.Int}
	if diff := cmp.Diff(want, x); diff != "" {
		t.Fatalf("unexpected field 'x' (-want +got):\n%s", diff)
	}

	count, ok := class.Fields.Get("count")
	if !ok {
		t.Fatal("expected to find field 'count'")
	}
	if count.Type != jack.Static {
		t.Fatalf("expected 'count' to be a static variable, got %v", count.Type)
	}
}

func TestParseSubroutineWithParameters(t *testing.T) {
	const src = `
class Point {
	constructor Point new(int ax, int ay) {
		return this;
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	sub, ok := class.Subroutines.Get("new")
	if !ok {
		t.Fatal("expected to find subroutine 'new'")
	}
	if sub.Type != jack.Constructor {
		t.Fatalf("expected a constructor, got %v", sub.Type)
	}
	if sub.Return != jack.Object {
		t.Fatalf("expected return type 'object', got %v", sub.Return)
	}
	if sub.Arguments.Size() != 2 {
		t.Fatalf("expected 2 arguments, got %d", sub.Arguments.Size())
	}

	want := []jack.Statement{ReturnThisStmt()}
	if diff := cmp.Diff(want, sub.Statements, cmpAllowUnexported()); diff != "" {
		t.Fatalf("unexpected statements (-want +got):\n%s", diff)
	}
}

// ReturnThisStmt mirrors the single statement produced for 'return this;'.
func ReturnThisStmt() jack.Statement {
	return jack.ReturnStmt{Expr: jack.VarExpr{Var: "this"}}
}

func cmpAllowUnexported() cmp.Option {
	return cmp.AllowUnexported(utils.OrderedMap[string, jack.Variable]{}, utils.OrderedMap[string, jack.Subroutine]{})
}

func TestParseStatementForms(t *testing.T) {
	const src = `
class Main {
	function void main() {
		var int i;
		let i = 0;
		while (i < 10) {
			if (i = 5) {
				do Output.printInt(i);
			} else {
				let i = i + 1;
			}
		}
		return;
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	main, ok := class.Subroutines.Get("main")
	if !ok {
		t.Fatal("expected to find subroutine 'main'")
	}
	if len(main.Statements) != 4 {
		t.Fatalf("expected 4 top-level statements (var, let, while, return), got %d", len(main.Statements))
	}

	if _, ok := main.Statements[0].(jack.VarStmt); !ok {
		t.Fatalf("expected first statement to be a VarStmt, got %T", main.Statements[0])
	}
	if _, ok := main.Statements[1].(jack.LetStmt); !ok {
		t.Fatalf("expected second statement to be a LetStmt, got %T", main.Statements[1])
	}
	whileStmt, ok := main.Statements[2].(jack.WhileStmt)
	if !ok {
		t.Fatalf("expected third statement to be a WhileStmt, got %T", main.Statements[2])
	}
	if len(whileStmt.Block) != 1 {
		t.Fatalf("expected the while loop to hold a single if statement, got %d", len(whileStmt.Block))
	}
	ifStmt, ok := whileStmt.Block[0].(jack.IfStmt)
	if !ok {
		t.Fatalf("expected the nested statement to be an IfStmt, got %T", whileStmt.Block[0])
	}
	if len(ifStmt.ThenBlock) != 1 || len(ifStmt.ElseBlock) != 1 {
		t.Fatalf("expected one statement in each if/else branch, got then=%d else=%d", len(ifStmt.ThenBlock), len(ifStmt.ElseBlock))
	}
}

func TestParseExpressionPrecedenceIsLeftAssociative(t *testing.T) {
	const src = `
class Main {
	function int compute() {
		return 1 + 2 * 3;
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	main, _ := class.Subroutines.Get("compute")
	ret := main.Statements[0].(jack.ReturnStmt)

	want := jack.BinaryExpr{
		Type: jack.Multiply,
		Lhs: jack.BinaryExpr{
			Type: jack.Plus,
			Lhs:  jack.LiteralExpr{Type: jack.Int, Value: "1"},
			Rhs:  jack.LiteralExpr{Type: jack.Int, Value: "2"},
		},
		Rhs: jack.LiteralExpr{Type: jack.Int, Value: "3"},
	}
	if diff := cmp.Diff(want, ret.Expr); diff != "" {
		t.Fatalf("unexpected expression (-want +got):\n%s", diff)
	}
}

func TestParseUnaryAndParenthesizedTerms(t *testing.T) {
	const src = `
class Main {
	function int compute() {
		return -(1 + 2);
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	main, _ := class.Subroutines.Get("compute")
	ret := main.Statements[0].(jack.ReturnStmt)

	unary, ok := ret.Expr.(jack.UnaryExpr)
	if !ok {
		t.Fatalf("expected a UnaryExpr, got %T", ret.Expr)
	}
	if unary.Type != jack.Minus {
		t.Fatalf("expected unary negation to use 'Minus', got %v", unary.Type)
	}
	if _, ok := unary.Rhs.(jack.BinaryExpr); !ok {
		t.Fatalf("expected the parenthesized sum to parse as a BinaryExpr, got %T", unary.Rhs)
	}
}

func TestParseSubroutineCallDisambiguation(t *testing.T) {
	const src = `
class Main {
	function void main() {
		do Output.printInt(42);
		do draw();
		return;
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	main, _ := class.Subroutines.Get("main")

	extCall := main.Statements[0].(jack.DoStmt).FuncCall
	if !extCall.IsExtCall || extCall.Var != "Output" || extCall.FuncName != "printInt" {
		t.Fatalf("unexpected external call shape: %+v", extCall)
	}

	localCall := main.Statements[1].(jack.DoStmt).FuncCall
	if localCall.IsExtCall || localCall.Var != "" || localCall.FuncName != "draw" {
		t.Fatalf("unexpected local call shape: %+v", localCall)
	}
}

func TestParseArrayIndexing(t *testing.T) {
	const src = `
class Main {
	function void main() {
		var Array a;
		let a[0] = a[1];
		return;
	}
}
`
	class, err := jack.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	main, _ := class.Subroutines.Get("main")
	let := main.Statements[1].(jack.LetStmt)

	lhs, ok := let.Lhs.(jack.ArrayExpr)
	if !ok {
		t.Fatalf("expected the LHS to be an ArrayExpr, got %T", let.Lhs)
	}
	if lhs.Var != "a" {
		t.Fatalf("expected array variable 'a', got %q", lhs.Var)
	}
	if _, ok := let.Rhs.(jack.ArrayExpr); !ok {
		t.Fatalf("expected the RHS to be an ArrayExpr, got %T", let.Rhs)
	}
}

func TestParseRejectsMalformedClass(t *testing.T) {
	if _, err := jack.NewParser(strings.NewReader("class Main { function void main( }")).Parse(); err == nil {
		t.Fatal("expected an error for malformed source")
	}
}

func TestParseRejectsMissingClassKeyword(t *testing.T) {
	if _, err := jack.NewParser(strings.NewReader("Main { }")).Parse(); err == nil {
		t.Fatal("expected an error when source doesn't start with 'class'")
	}
}
