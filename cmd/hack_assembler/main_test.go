package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/romimage"
)

// Add.asm computes R0 = 2 + 3, the canonical nand2tetris "project 6" fixture.
const addAsm = `// Computes R0 = 2 + 3
@2
D=A
@3
D=D+A
@0
M=D
`

const addExpected = "0000000000000010\n" +
	"1110110000010000\n" +
	"0000000000000011\n" +
	"1110000010010000\n" +
	"0000000000000000\n" +
	"1110001100001000"

func TestAssemble(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "Add.asm")
	outputPath := filepath.Join(dir, "Add.hack")

	if err := os.WriteFile(inputPath, []byte(addAsm), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	if err := Assemble(inputPath, outputPath); err != nil {
		t.Fatalf("Assemble returned an error: %s", err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("unable to read output file: %s", err)
	}

	lines := strings.Split(string(out), "\n")
	if len(lines) != romimage.ROMDepth {
		t.Fatalf("expected %d lines, got %d", romimage.ROMDepth, len(lines))
	}

	got := strings.Join(lines[:6], "\n")
	if got != addExpected {
		t.Fatalf("unexpected assembled output:\nwant: %s\ngot:  %s", addExpected, got)
	}

	for i := 6; i < len(lines); i++ {
		if lines[i] != "0000000000000000" {
			t.Fatalf("expected zero-padded tail at line %d, got %q", i, lines[i])
		}
	}
}

func TestAssembleResolvesLabelsAndVariables(t *testing.T) {
	const src = `(LOOP)
@counter
M=M+1
@LOOP
0;JMP
`
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "Loop.asm")
	outputPath := filepath.Join(dir, "Loop.hack")

	if err := os.WriteFile(inputPath, []byte(src), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	if err := Assemble(inputPath, outputPath); err != nil {
		t.Fatalf("Assemble returned an error: %s", err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("unable to read output file: %s", err)
	}

	lines := strings.Split(string(out), "\n")
	// "@counter" resolves to a fresh variable at RAM[16]
	if lines[0] != "0000000000010000" {
		t.Fatalf("expected '@counter' to resolve to RAM[16], got %q", lines[0])
	}
	// "@LOOP" resolves to ROM[0], the instruction right after the label
	if lines[2] != "0000000000000000" {
		t.Fatalf("expected '@LOOP' to resolve to ROM[0], got %q", lines[2])
	}
}

func TestAssembleRejectsMissingInput(t *testing.T) {
	dir := t.TempDir()
	if err := Assemble(filepath.Join(dir, "missing.asm"), filepath.Join(dir, "out.hack")); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestDumpAsmRoundTrips(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "Add.asm")
	outputPath := filepath.Join(dir, "Add.hack")

	if err := os.WriteFile(inputPath, []byte(addAsm), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %s", err)
	}

	dumpAsm = true
	defer func() { dumpAsm = false }()

	if err := Assemble(inputPath, outputPath); err != nil {
		t.Fatalf("Assemble returned an error: %s", err)
	}

	dump, err := os.ReadFile(outputPath + ".asm")
	if err != nil {
		t.Fatalf("expected a '--dump-asm' sidecar file: %s", err)
	}

	expected := "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n"
	if string(dump) != expected {
		t.Fatalf("unexpected dumped asm:\nwant: %q\ngot:  %q", expected, string(dump))
	}
}
