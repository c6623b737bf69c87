package asm

import (
	"fmt"

	"its-hmny.dev/nand2tetris/pkg/hack"
)

// ----------------------------------------------------------------------------
// First Pass

// FirstPass walks the parsed Program once, assigning each Label Declaration
// the ROM address of the instruction that follows it, without attempting to
// resolve or classify any A Instruction's payload (that's Lowerer's job).
//
// Label declarations don't themselves occupy a ROM word, so the running
// instruction counter only advances on A/C Instructions. Declaring the same
// label twice is an error: the Hack spec has no notion of label shadowing.
//
// This mirrors the Rust original's FirstPassResult: label resolution runs as
// its own pass, strictly before codegen, rather than being interleaved with
// instruction lowering.
func FirstPass(program Program) (hack.SymbolTable, error) {
	table := hack.SymbolTable{}
	romAddress := uint16(0)

	for _, stmt := range program {
		switch decl := stmt.(type) {
		case LabelDecl:
			if _, found := hack.BuiltInTable[decl.Name]; found {
				return nil, fmt.Errorf("label '%s' shadows a built-in symbol", decl.Name)
			}
			if _, found := table[decl.Name]; found {
				return nil, fmt.Errorf("label '%s' is declared more than once", decl.Name)
			}
			table[decl.Name] = romAddress

		case AInstruction, CInstruction:
			romAddress++

		default:
			return nil, fmt.Errorf("unrecognized statement '%T'", stmt)
		}
	}

	return table, nil
}
