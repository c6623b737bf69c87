package jack

import (
	"fmt"
	"strings"
)

// TypeChecker walks a 'jack.Program' validating that every variable reference
// resolves, every subroutine call matches a known subroutine and every
// assignment is given a compatible value. Return expressions are only checked
// to be well-typed, not against the subroutine's declared return type. It mirrors the same
// DFS traversal as the Lowerer, but produces no output besides an error: a
// nil error means the program is well-formed enough to be lowered.
type TypeChecker struct {
	program Program
	scopes  ScopeTable
}

func NewTypeChecker(program Program) TypeChecker {
	return TypeChecker{program: program, scopes: ScopeTable{}}
}

func (tc *TypeChecker) Check() (bool, error) {
	if tc.program == nil {
		return false, fmt.Errorf("the given 'program' is empty or nil")
	}

	for name, class := range tc.program {
		if _, err := tc.HandleClass(class); err != nil {
			return false, fmt.Errorf("error handling class '%s': %w", name, err)
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.Class' and nested fields.
func (tc *TypeChecker) HandleClass(class Class) (bool, error) {
	tc.scopes.PushClassScope(class.Name) // Keep track of the current scope being processed
	defer tc.scopes.PopClassScope()      // Reset the function name after processing

	for _, field := range class.Fields.Entries() {
		if _, err := tc.HandleVarStmt(VarStmt{Vars: []Variable{field}}); err != nil {
			return false, fmt.Errorf("error handling field '%s' in class '%s': %w", field.Name, class.Name, err)
		}
	}

	for _, subroutine := range class.Subroutines.Entries() {
		if _, err := tc.HandleSubroutine(subroutine); err != nil {
			return false, fmt.Errorf("error handling subroutine '%s' in class '%s': %w", subroutine.Name, class.Name, err)
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.Subroutine' and nested fields.
func (tc *TypeChecker) HandleSubroutine(subroutine Subroutine) (bool, error) {
	tc.scopes.PushSubRoutineScope(subroutine.Name) // Keep track of the current subroutine function being processed
	defer tc.scopes.PopSubroutineScope()           // Reset the function name after processing

	if subroutine.Type == Method {
		tc.scopes.RegisterVariable(Variable{Name: "__obj", Type: Parameter, DataType: Object})
	}

	// We add to the current scope also all of the arguments of the subroutine
	for _, arg := range subroutine.Arguments.Entries() {
		tc.scopes.RegisterVariable(arg)
	}

	for _, stmt := range subroutine.Statements {
		if _, err := tc.HandleStatement(stmt); err != nil {
			return false, fmt.Errorf("error handling nested statement %T: %w", stmt, err)
		}
	}

	return true, nil
}

// Generalized function to type-check multiple statements types.
func (tc *TypeChecker) HandleStatement(stmt Statement) (bool, error) {
	switch tStmt := stmt.(type) {
	case DoStmt:
		_, err := tc.InferType(tStmt.FuncCall)
		return err == nil, err
	case VarStmt:
		return tc.HandleVarStmt(tStmt)
	case LetStmt:
		return tc.HandleLetStmt(tStmt)
	case IfStmt:
		return tc.HandleIfStmt(tStmt)
	case WhileStmt:
		return tc.HandleWhileStmt(tStmt)
	case ReturnStmt:
		return tc.HandleReturnStmt(tStmt)
	default:
		return false, fmt.Errorf("unrecognized statement: %T", stmt)
	}
}

// Specialized function to type-check a 'jack.VarStmt', registering the new declarations in scope.
func (tc *TypeChecker) HandleVarStmt(statement VarStmt) (bool, error) {
	for _, variable := range statement.Vars {
		tc.scopes.RegisterVariable(variable)
	}
	return true, nil
}

// Specialized function to type-check a 'jack.LetStmt', the LHS and RHS types must be compatible.
func (tc *TypeChecker) HandleLetStmt(statement LetStmt) (bool, error) {
	var lhsType DataType

	switch lhs := statement.Lhs.(type) {
	case VarExpr:
		_, variable, err := tc.scopes.ResolveVariable(lhs.Var)
		if err != nil {
			return false, fmt.Errorf("error resolving LHS variable '%s': %w", lhs.Var, err)
		}
		lhsType = variable.DataType
	case ArrayExpr:
		if _, err := tc.InferType(lhs.Index); err != nil {
			return false, fmt.Errorf("error type-checking array index: %w", err)
		}
		lhsType = Int // arrays of Jack are untyped elements, treated as int cells
	default:
		return false, fmt.Errorf("LHS expression must be either a 'VarExpr' or an 'ArrayExpr', got: %T", statement.Lhs)
	}

	rhsType, err := tc.InferType(statement.Rhs)
	if err != nil {
		return false, fmt.Errorf("error type-checking RHS expression: %w", err)
	}

	if !compatibleTypes(lhsType, rhsType) {
		return false, fmt.Errorf("cannot assign a value of type '%s' to a variable of type '%s'", rhsType, lhsType)
	}

	return true, nil
}

// Specialized function to type-check a 'jack.WhileStmt', the condition must be 'bool'-compatible (any scalar).
func (tc *TypeChecker) HandleWhileStmt(statement WhileStmt) (bool, error) {
	condType, err := tc.InferType(statement.Condition)
	if err != nil {
		return false, fmt.Errorf("error type-checking while condition: %w", err)
	}
	if !compatibleTypes(Bool, condType) {
		return false, fmt.Errorf("while condition must be of type 'bool', got '%s'", condType)
	}

	for _, stmt := range statement.Block {
		if _, err := tc.HandleStatement(stmt); err != nil {
			return false, fmt.Errorf("error handling statement in while block: %w", err)
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.IfStmt', the condition must be 'bool'-compatible (any scalar).
func (tc *TypeChecker) HandleIfStmt(statement IfStmt) (bool, error) {
	condType, err := tc.InferType(statement.Condition)
	if err != nil {
		return false, fmt.Errorf("error type-checking if condition: %w", err)
	}
	if !compatibleTypes(Bool, condType) {
		return false, fmt.Errorf("if condition must be of type 'bool', got '%s'", condType)
	}

	for _, stmt := range statement.ThenBlock {
		if _, err := tc.HandleStatement(stmt); err != nil {
			return false, fmt.Errorf("error handling statement in 'then' block: %w", err)
		}
	}
	for _, stmt := range statement.ElseBlock {
		if _, err := tc.HandleStatement(stmt); err != nil {
			return false, fmt.Errorf("error handling statement in 'else' block: %w", err)
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.ReturnStmt'.
func (tc *TypeChecker) HandleReturnStmt(statement ReturnStmt) (bool, error) {
	if statement.Expr == nil {
		return true, nil
	}
	_, err := tc.InferType(statement.Expr)
	if err != nil {
		return false, fmt.Errorf("error type-checking return expression: %w", err)
	}
	return true, nil
}

// InferType computes the static 'DataType' produced by evaluating 'expr', resolving
// every nested variable reference and subroutine call along the way.
func (tc *TypeChecker) InferType(expr Expression) (DataType, error) {
	switch tExpr := expr.(type) {
	case VarExpr:
		if tExpr.Var == "this" {
			return Object, nil
		}
		_, variable, err := tc.scopes.ResolveVariable(tExpr.Var)
		if err != nil {
			return "", fmt.Errorf("error resolving variable '%s': %w", tExpr.Var, err)
		}
		return variable.DataType, nil

	case LiteralExpr:
		return tExpr.Type, nil

	case ArrayExpr:
		if _, _, err := tc.scopes.ResolveVariable(tExpr.Var); err != nil {
			return "", fmt.Errorf("error resolving array variable '%s': %w", tExpr.Var, err)
		}
		if _, err := tc.InferType(tExpr.Index); err != nil {
			return "", fmt.Errorf("error type-checking array index: %w", err)
		}
		return Int, nil

	case UnaryExpr:
		rhs, err := tc.InferType(tExpr.Rhs)
		if err != nil {
			return "", fmt.Errorf("error type-checking unary operand: %w", err)
		}
		if tExpr.Type == BoolNot {
			if !compatibleTypes(Bool, rhs) {
				return "", fmt.Errorf("'~' requires a 'bool' operand, got '%s'", rhs)
			}
			return Bool, nil
		}
		if !compatibleTypes(Int, rhs) {
			return "", fmt.Errorf("unary '-' requires an 'int' operand, got '%s'", rhs)
		}
		return Int, nil

	case BinaryExpr:
		return tc.handleBinaryExpr(tExpr)

	case FuncCallExpr:
		return tc.handleFuncCallExpr(tExpr)

	default:
		return "", fmt.Errorf("unrecognized expression: %T", expr)
	}
}

func (tc *TypeChecker) handleBinaryExpr(expr BinaryExpr) (DataType, error) {
	lhs, err := tc.InferType(expr.Lhs)
	if err != nil {
		return "", fmt.Errorf("error type-checking LHS operand: %w", err)
	}
	rhs, err := tc.InferType(expr.Rhs)
	if err != nil {
		return "", fmt.Errorf("error type-checking RHS operand: %w", err)
	}

	switch expr.Type {
	case Plus, Minus, Divide, Multiply:
		if !compatibleTypes(Int, lhs) || !compatibleTypes(Int, rhs) {
			return "", fmt.Errorf("arithmetic operator '%s' requires 'int' operands, got '%s' and '%s'", expr.Type, lhs, rhs)
		}
		return Int, nil
	case BoolOr, BoolAnd:
		if !compatibleTypes(Bool, lhs) || !compatibleTypes(Bool, rhs) {
			return "", fmt.Errorf("boolean operator '%s' requires 'bool' operands, got '%s' and '%s'", expr.Type, lhs, rhs)
		}
		return Bool, nil
	case Equal, LessThan, GreatThan:
		return Bool, nil
	default:
		return "", fmt.Errorf("unrecognized binary expression type: %s", expr.Type)
	}
}

func (tc *TypeChecker) handleFuncCallExpr(expr FuncCallExpr) (DataType, error) {
	for _, arg := range expr.Arguments {
		if _, err := tc.InferType(arg); err != nil {
			return "", fmt.Errorf("error type-checking argument expression: %w", err)
		}
	}

	if !expr.IsExtCall {
		className := strings.Split(tc.scopes.GetScope(), ".")[0]
		class, exists := tc.program[className]
		if !exists {
			return "", fmt.Errorf("class definition not found for '%s'", className)
		}
		routine, exists := class.Subroutines.Get(expr.FuncName)
		if !exists {
			return "", fmt.Errorf("subroutine '%s' not found in class '%s'", expr.FuncName, className)
		}
		return routine.Return, nil
	}

	if _, variable, err := tc.scopes.ResolveVariable(expr.Var); err == nil {
		if variable.DataType != Object {
			return "", fmt.Errorf("variable '%s' is not an object", expr.Var)
		}
		class, exists := tc.program[variable.ClassName]
		if !exists {
			return "", fmt.Errorf("class definition not found for '%s'", variable.ClassName)
		}
		routine, exists := class.Subroutines.Get(expr.FuncName)
		if !exists {
			return "", fmt.Errorf("subroutine '%s' not found in class '%s'", expr.FuncName, variable.ClassName)
		}
		return routine.Return, nil
	}

	class, isClass := tc.program[expr.Var]
	if !isClass {
		return "", fmt.Errorf("unrecognized function call target: %s", expr.Var)
	}
	routine, exists := class.Subroutines.Get(expr.FuncName)
	if !exists {
		return "", fmt.Errorf("subroutine '%s' not found in class '%s'", expr.FuncName, class.Name)
	}
	if routine.Type == Constructor {
		return Object, nil
	}
	return routine.Return, nil
}

// compatibleTypes reports whether a value of type 'got' may be used where 'want' is expected.
// Jack is loosely typed at the VM level: 'int', 'char' and 'bool' are all single-word values
// and are freely interchangeable, and 'null' is assignable to any object type.
func compatibleTypes(want, got DataType) bool {
	if want == got {
		return true
	}

	scalar := func(t DataType) bool { return t == Int || t == Char || t == Bool }
	if scalar(want) && scalar(got) {
		return true
	}

	if want == Object && got == Null {
		return true
	}

	return false
}
