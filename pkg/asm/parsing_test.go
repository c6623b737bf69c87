package asm_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"its-hmny.dev/nand2tetris/pkg/asm"
)

func TestParseInstructions(t *testing.T) {
	const src = `// comment at start of line
@2 // trailing comment
D=A
@LOOP
D;JGT
(LOOP)
M=D+1;JMP
`
	parser := asm.NewParser(strings.NewReader(src))
	program, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := asm.Program{
		asm.AInstruction{Location: "2"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "LOOP"},
		asm.CInstruction{Comp: "D", Jump: "JGT"},
		asm.LabelDecl{Name: "LOOP"},
		asm.CInstruction{Dest: "M", Comp: "D+1", Jump: "JMP"},
	}

	if diff := cmp.Diff(want, program); diff != "" {
		t.Fatalf("unexpected program (-want +got):\n%s", diff)
	}
}

func TestParseCompOperators(t *testing.T) {
	for _, tc := range []struct{ src, comp string }{
		{"0\n", "0"},
		{"-1\n", "-1"},
		{"!M\n", "!M"},
		{"D+1\n", "D+1"},
		{"D&A\n", "D&A"},
		{"D|M\n", "D|M"},
	} {
		program, err := asm.NewParser(strings.NewReader(tc.src)).Parse()
		if err != nil {
			t.Fatalf("%q: unexpected error: %s", tc.src, err)
		}
		got := program[0].(asm.CInstruction)
		if got.Comp != tc.comp {
			t.Fatalf("%q: expected comp %q, got %q", tc.src, tc.comp, got.Comp)
		}
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := asm.NewParser(strings.NewReader("@1 @2\n")).Parse(); err == nil {
		t.Fatal("expected an error for trailing garbage after an instruction")
	}
}

func TestFirstPass(t *testing.T) {
	program := asm.Program{
		asm.LabelDecl{Name: "START"},
		asm.AInstruction{Location: "0"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.LabelDecl{Name: "END"},
		asm.AInstruction{Location: "START"},
	}

	table, err := asm.FirstPass(program)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if table["START"] != 0 {
		t.Fatalf("expected 'START' to resolve to ROM[0], got %d", table["START"])
	}
	if table["END"] != 2 {
		t.Fatalf("expected 'END' to resolve to ROM[2], got %d", table["END"])
	}
}

func TestFirstPassRejectsDuplicateLabels(t *testing.T) {
	program := asm.Program{
		asm.LabelDecl{Name: "DUP"},
		asm.AInstruction{Location: "0"},
		asm.LabelDecl{Name: "DUP"},
	}
	if _, err := asm.FirstPass(program); err == nil {
		t.Fatal("expected an error for a duplicate label declaration")
	}
}

func TestFirstPassRejectsBuiltinShadowing(t *testing.T) {
	program := asm.Program{asm.LabelDecl{Name: "SCREEN"}}
	if _, err := asm.FirstPass(program); err == nil {
		t.Fatal("expected an error for a label shadowing a built-in symbol")
	}
}
