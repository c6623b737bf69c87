package asm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/hack"
)

func TestLowerClassifiesLocations(t *testing.T) {
	program := asm.Program{
		asm.AInstruction{Location: "42"},
		asm.AInstruction{Location: "SCREEN"},
		asm.AInstruction{Location: "LOOP"},
		asm.LabelDecl{Name: "LOOP"},
		asm.CInstruction{Dest: "D", Comp: "A"},
	}

	lowerer := asm.NewLowerer(program)
	got, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := hack.Program{
		hack.AInstruction{LocType: hack.Raw, LocName: "42"},
		hack.AInstruction{LocType: hack.BuiltIn, LocName: "SCREEN"},
		hack.AInstruction{LocType: hack.Label, LocName: "LOOP"},
		hack.CInstruction{Dest: "D", Comp: "A"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lowered program (-want +got):\n%s", diff)
	}
}

func TestLowerRejectsEmptyProgram(t *testing.T) {
	lowerer := asm.NewLowerer(asm.Program{})
	if _, err := lowerer.Lower(); err == nil {
		t.Fatal("expected an error for an empty program")
	}
}
