package vm

import (
	"fmt"
	"sort"

	"its-hmny.dev/nand2tetris/internal/source"
	"its-hmny.dev/nand2tetris/pkg/asm"
)

// ----------------------------------------------------------------------------
// Segment resolution

// segmentBase names the Hack built-in symbol holding the base address of a
// pointer-indirected segment: 'local'/'argument'/'this'/'that' are accessed
// as '*(base + offset)', unlike 'temp'/'pointer'/'static' which resolve to a
// fixed address at lowering time.
var segmentBase = map[SegmentType]string{
	Local: "LCL", Argument: "ARG", This: "THIS", That: "THAT",
}

// fixedSegmentAddress resolves 'temp' and 'pointer' segment accesses to a
// direct, compile-time-known location: temp is RAM[5..12], pointer[0] is
// THIS and pointer[1] is THAT.
func fixedSegmentAddress(segment SegmentType, offset uint16) (string, error) {
	switch segment {
	case Temp:
		if offset > 7 {
			return "", fmt.Errorf("invalid 'temp' offset, got %d", offset)
		}
		return fmt.Sprint(5 + offset), nil
	case Pointer:
		switch offset {
		case 0:
			return "THIS", nil
		case 1:
			return "THAT", nil
		default:
			return "", fmt.Errorf("invalid 'pointer' offset, got %d", offset)
		}
	default:
		return "", fmt.Errorf("segment '%s' is not a fixed-address segment", segment)
	}
}

// ----------------------------------------------------------------------------
// Vm Lowerer

// The Lowerer takes a 'vm.Program' and produces its 'asm.Program' counterpart.
//
// Unlike the teacher's original one-AST-at-a-time Lowerer (which only ever
// handled MemoryOp/ArithmeticOp), this one owns the full VM calling
// convention: flow control (label/goto scoped per function), function
// declaration/call/return, the bootstrap sequence and, optionally, dead-code
// elimination driven by a liveness set from 'BuildLiveSet' plus recording
// into a 'source.Map' for later debugging.
type Lowerer struct {
	sourceMap *source.Map     // optional, populated with one entry per emitted asm.Statement
	liveSet   map[string]bool // optional; nil disables dead-code elimination

	labelSeq int // monotonic counter for fresh comparison labels (CMPTRUE_n/CMPEND_n)
	callSeq  int // monotonic counter for fresh call-site return-address labels
}

// NewLowerer returns a brand new zero-value 'Lowerer', ready to lower a whole
// Program. Use WithSourceMap/WithLiveSet to opt into source mapping and/or
// dead-code elimination before calling Lower.
func NewLowerer() *Lowerer {
	return &Lowerer{}
}

// WithSourceMap attaches a source.Map that gets one Record call per emitted
// asm.Statement, keyed by the originating module name and VM operation
// index within that module.
func (l *Lowerer) WithSourceMap(m *source.Map) *Lowerer {
	l.sourceMap = m
	return l
}

// WithLiveSet restricts lowering to functions present (and true) in 'live',
// as computed by BuildLiveSet; any other function's body is dropped.
func (l *Lowerer) WithLiveSet(live map[string]bool) *Lowerer {
	l.liveSet = live
	return l
}

// Lower translates the whole Program, prefixed by the bootstrap sequence,
// into a single flat 'asm.Program'. Modules are visited in sorted name order
// so that, source map aside, lowering the same Program twice always yields
// byte-identical output.
func (l *Lowerer) Lower(program Program) (asm.Program, error) {
	out := append(asm.Program{}, l.bootstrap()...)

	for _, name := range sortedModuleNames(program) {
		lowered, err := l.lowerModule(name, program[name], len(out))
		if err != nil {
			return nil, fmt.Errorf("in module '%s': %w", name, err)
		}
		out = append(out, lowered...)
	}

	return out, nil
}

func sortedModuleNames(program Program) []string {
	names := make([]string, 0, len(program))
	for name := range program {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bootstrap sets the stack pointer to 256 and calls 'Sys.init 0', exactly as
// every other nand2tetris-derived VM translator does: it's the one sequence
// that always runs before any user code, regardless of which modules are live.
// Sys.init is expected to never return, but if it does we pin the CPU in an
// infinite loop rather than falling through into whatever ROM word follows,
// so the machine halts deterministically.
func (l *Lowerer) bootstrap() asm.Program {
	out := asm.Program{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
	out = append(out, l.lowerFuncCallOp(FuncCallOp{Name: "Sys.init", NArgs: 0})...)
	out = append(out,
		asm.LabelDecl{Name: "END"},
		asm.AInstruction{Location: "END"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	)
	return out
}

// lowerModule translates every Operation of a single VM module/file. Dead
// functions (absent from the liveness set, when one was provided) are
// skipped wholesale: everything from their FuncDecl up to, but excluding,
// the next FuncDecl (or end of module) is dropped. 'base' is the index in the
// final flat asm.Program at which this module's output starts.
func (l *Lowerer) lowerModule(moduleName string, module Module, base int) (asm.Program, error) {
	var out asm.Program
	currentFunc := ""
	skipping := false

	for vmIdx, op := range module {
		if decl, ok := op.(FuncDecl); ok {
			currentFunc = decl.Name
			skipping = l.liveSet != nil && !l.liveSet[decl.Name]
		}
		if skipping {
			continue
		}

		instrs, err := l.lowerOperation(moduleName, currentFunc, op)
		if err != nil {
			return nil, fmt.Errorf("op #%d: %w", vmIdx, err)
		}

		for _, inst := range instrs {
			if l.sourceMap != nil {
				l.sourceMap.Record(moduleName, vmIdx, base+len(out))
			}
			out = append(out, inst)
		}
	}

	return out, nil
}

// scopedLabel namespaces a user-written label to the function it's declared
// in (e.g. 'Main.main$LOOP'), so two functions are free to reuse the same label
// text without colliding in the flat asm.Program; top-level labels (outside
// any function, effectively never produced by the Jack compiler but legal
// VM syntax) are left unscoped.
func scopedLabel(currentFunc, name string) string {
	if currentFunc == "" {
		return name
	}
	return fmt.Sprintf("%s$%s", currentFunc, name)
}

func (l *Lowerer) lowerOperation(moduleName, currentFunc string, op Operation) ([]asm.Statement, error) {
	switch tOp := op.(type) {
	case MemoryOp:
		return l.lowerMemoryOp(moduleName, tOp)
	case ArithmeticOp:
		return l.lowerArithmeticOp(tOp)
	case LabelDecl:
		return []asm.Statement{asm.LabelDecl{Name: scopedLabel(currentFunc, tOp.Name)}}, nil
	case GotoOp:
		return l.lowerGotoOp(currentFunc, tOp)
	case FuncDecl:
		return l.lowerFuncDecl(tOp), nil
	case FuncCallOp:
		return l.lowerFuncCallOp(tOp), nil
	case ReturnOp:
		return l.lowerReturnOp(), nil
	default:
		return nil, fmt.Errorf("unrecognized operation '%T'", op)
	}
}

// ----------------------------------------------------------------------------
// Memory operations

func (l *Lowerer) lowerMemoryOp(moduleName string, op MemoryOp) ([]asm.Statement, error) {
	switch op.Segment {
	case Constant:
		if op.Operation == Pop {
			return nil, fmt.Errorf("cannot 'pop' into the read-only 'constant' segment")
		}
		return pushFromA(fmt.Sprint(op.Offset)), nil

	case Local, Argument, This, That:
		base := segmentBase[op.Segment]
		if op.Operation == Push {
			return pushIndirect(base, op.Offset), nil
		}
		return popIndirect(base, op.Offset), nil

	case Temp, Pointer:
		addr, err := fixedSegmentAddress(op.Segment, op.Offset)
		if err != nil {
			return nil, err
		}
		if op.Operation == Push {
			return pushFixed(addr), nil
		}
		return popFixed(addr), nil

	case Static:
		addr := fmt.Sprintf("%s.%d", moduleName, op.Offset)
		if op.Operation == Push {
			return pushFixed(addr), nil
		}
		return popFixed(addr), nil

	default:
		return nil, fmt.Errorf("unrecognized segment '%s'", op.Segment)
	}
}

// pushFromA pushes the value of the A register (loaded from 'location',
// interpreted as a constant, not dereferenced) onto the stack.
func pushFromA(location string) []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: location},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// pushFixed pushes the value stored at a fixed, compile-time-known address
// (temp/pointer/static segments) onto the stack.
func pushFixed(location string) []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: location},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// popFixed pops the stack's top into a fixed, compile-time-known address.
func popFixed(location string) []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: location},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// pushIndirect pushes '*(base + offset)' onto the stack.
func pushIndirect(base string, offset uint16) []asm.Statement {
	if offset == 0 {
		return []asm.Statement{
			asm.AInstruction{Location: base},
			asm.CInstruction{Dest: "A", Comp: "M"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "M", Comp: "M+1"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		}
	}
	return []asm.Statement{
		asm.AInstruction{Location: base},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(offset)},
		asm.CInstruction{Dest: "A", Comp: "D+A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// popIndirect pops the stack's top into '*(base + offset)', stashing the
// resolved destination address in R13 before the pop overwrites D.
func popIndirect(base string, offset uint16) []asm.Statement {
	var out []asm.Statement
	if offset == 0 {
		out = []asm.Statement{
			asm.AInstruction{Location: base},
			asm.CInstruction{Dest: "D", Comp: "M"},
		}
	} else {
		out = []asm.Statement{
			asm.AInstruction{Location: base},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: fmt.Sprint(offset)},
			asm.CInstruction{Dest: "D", Comp: "D+A"},
		}
	}
	out = append(out,
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	return out
}

// ----------------------------------------------------------------------------
// Arithmetic operations

func (l *Lowerer) lowerArithmeticOp(op ArithmeticOp) ([]asm.Statement, error) {
	switch op.Operation {
	case Add:
		return binary("M+D"), nil
	case Sub:
		return binary("M-D"), nil
	case And:
		return binary("M&D"), nil
	case Or:
		return binary("M|D"), nil
	case Neg:
		return unary("-M"), nil
	case Not:
		return unary("!M"), nil
	case Eq:
		return l.comparison("JEQ"), nil
	case Gt:
		return l.comparison("JGT"), nil
	case Lt:
		return l.comparison("JLT"), nil
	default:
		return nil, fmt.Errorf("unrecognized arithmetic operation '%s'", op.Operation)
	}
}

// binary pops the top two stack values, combines them with 'comp' (which may
// reference both 'M' as the first operand and 'D' as the second) and pushes
// the result back, net one fewer stack slot.
func binary(comp string) []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "M", Comp: comp},
	}
}

// unary replaces the stack's top in place with 'comp' applied to it.
func unary(comp string) []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: comp},
	}
}

// comparison pops the top two stack values, subtracts them and pushes -1
// (true) or 0 (false) depending on 'jump' applied to the subtraction result.
// Each call site gets fresh labels (CMPTRUE_n/CMPEND_n) since the same
// arithmetic op can appear any number of times in a program.
func (l *Lowerer) comparison(jump string) []asm.Statement {
	n := l.labelSeq
	l.labelSeq++
	trueLabel := fmt.Sprintf("CMPTRUE_%d", n)
	endLabel := fmt.Sprintf("CMPEND_%d", n)

	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "D", Comp: "M-D"},
		asm.AInstruction{Location: trueLabel},
		asm.CInstruction{Comp: "D", Jump: jump},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "0"},
		asm.AInstruction{Location: endLabel},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: trueLabel},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "-1"},
		asm.LabelDecl{Name: endLabel},
	}
}

// ----------------------------------------------------------------------------
// Flow operations

func (l *Lowerer) lowerGotoOp(currentFunc string, op GotoOp) ([]asm.Statement, error) {
	if op.Label == "" {
		return nil, fmt.Errorf("unable to jump to an empty label")
	}
	target := scopedLabel(currentFunc, op.Label)

	if op.Jump == Unconditional {
		return []asm.Statement{
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
		}, nil
	}

	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: target},
		asm.CInstruction{Comp: "D", Jump: "JNE"},
	}, nil
}

// ----------------------------------------------------------------------------
// Function operations

// lowerFuncDecl emits the function's entry label followed by one push-0 per
// local variable declared (each local slot must start out zeroed).
func (l *Lowerer) lowerFuncDecl(op FuncDecl) []asm.Statement {
	out := []asm.Statement{asm.LabelDecl{Name: op.Name}}
	for i := uint8(0); i < op.NLocal; i++ {
		out = append(out, pushFromA("0")...)
	}
	return out
}

// lowerFuncCallOp emits the standard nand2tetris call sequence: save the
// caller's frame (return address, LCL, ARG, THIS, THAT), reposition ARG/LCL
// for the callee, jump to it and declare the return-address label right
// after. Each call site gets a fresh return-address label so the same
// function can be called from multiple places without label collisions.
func (l *Lowerer) lowerFuncCallOp(op FuncCallOp) []asm.Statement {
	n := l.callSeq
	l.callSeq++
	returnLabel := fmt.Sprintf("%s$ret.%d", op.Name, n)

	out := []asm.Statement{
		asm.AInstruction{Location: returnLabel},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
	for _, builtin := range []string{"LCL", "ARG", "THIS", "THAT"} {
		out = append(out,
			asm.AInstruction{Location: builtin},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "M", Comp: "M+1"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		)
	}
	out = append(out,
		// ARG = SP - (n_args + 5)
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(int(op.NArgs) + 5)},
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// LCL = SP
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		// goto callee
		asm.AInstruction{Location: op.Name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		// (return-address label)
		asm.LabelDecl{Name: returnLabel},
	)
	return out
}

// lowerReturnOp emits the standard nand2tetris return sequence: it stashes
// LCL in R13 ('FRAME') and the return address in R14 ('RET') before any
// write that could clobber the caller's last argument slot, then unwinds
// the frame and jumps back.
func (l *Lowerer) lowerReturnOp() []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // R13 = FRAME = LCL

		asm.AInstruction{Location: "5"},
		asm.CInstruction{Dest: "A", Comp: "D-A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // R14 = RET = *(FRAME - 5)

		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // *ARG = pop()

		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "D", Comp: "M+1"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // SP = ARG + 1

		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "THAT"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // THAT = *(FRAME - 1)

		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "THIS"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // THIS = *(FRAME - 2)

		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // ARG = *(FRAME - 3)

		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"}, // LCL = *(FRAME - 4)

		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Comp: "0", Jump: "JMP"}, // goto RET
	}
}
