package vm_test

import (
	"testing"

	"its-hmny.dev/nand2tetris/pkg/vm"
)

func TestBuildLiveSetReachability(t *testing.T) {
	program := vm.Program{
		"Sys": vm.Module{
			vm.FuncDecl{Name: "Sys.init", NLocal: 0},
			vm.FuncCallOp{Name: "Main.main", NArgs: 0},
			vm.ReturnOp{},
		},
		"Main": vm.Module{
			vm.FuncDecl{Name: "Main.main", NLocal: 1},
			vm.FuncCallOp{Name: "Main.helper", NArgs: 0},
			vm.ReturnOp{},
			vm.FuncDecl{Name: "Main.helper", NLocal: 0},
			vm.ReturnOp{},
			vm.FuncDecl{Name: "Main.unused", NLocal: 0},
			vm.ReturnOp{},
		},
	}

	live, err := vm.BuildLiveSet(program, "Sys.init")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for _, name := range []string{"Sys.init", "Main.main", "Main.helper"} {
		if !live[name] {
			t.Fatalf("expected %q to be live", name)
		}
	}
	if live["Main.unused"] {
		t.Fatal("expected 'Main.unused' to be dead, it's never called")
	}
}

func TestBuildLiveSetToleratesUnknownCallees(t *testing.T) {
	program := vm.Program{
		"Sys": vm.Module{
			vm.FuncDecl{Name: "Sys.init", NLocal: 0},
			vm.FuncCallOp{Name: "Keyboard.readChar", NArgs: 0}, // builtin, never defined
			vm.ReturnOp{},
		},
	}

	live, err := vm.BuildLiveSet(program, "Sys.init")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if live["Keyboard.readChar"] {
		t.Fatal("an undefined callee must not extend the live set")
	}
	if !live["Sys.init"] {
		t.Fatal("expected the entrypoint to be live")
	}
}

func TestBuildLiveSetRejectsMissingEntrypoint(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{vm.FuncDecl{Name: "Main.main", NLocal: 0}, vm.ReturnOp{}},
	}
	if _, err := vm.BuildLiveSet(program, "Sys.init"); err == nil {
		t.Fatal("expected an error when the entrypoint is never defined")
	}
}

func TestBuildLiveSetHandlesRecursion(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{
			vm.FuncDecl{Name: "Sys.init", NLocal: 0},
			vm.FuncCallOp{Name: "Main.fib", NArgs: 1},
			vm.ReturnOp{},
			vm.FuncDecl{Name: "Main.fib", NLocal: 0},
			vm.FuncCallOp{Name: "Main.fib", NArgs: 1},
			vm.ReturnOp{},
		},
	}

	live, err := vm.BuildLiveSet(program, "Sys.init")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !live["Main.fib"] {
		t.Fatal("expected a self-recursive function to be live, not loop forever")
	}
}
