package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeJackFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unable to write fixture %q: %s", name, err)
	}
	return path
}

func TestCompileSingleClass(t *testing.T) {
	const src = `
class Main {
	function void main() {
		do Output.printInt(42);
		return;
	}
}
`
	dir := t.TempDir()
	input := writeJackFixture(t, dir, "Main.jack", src)

	if err := Compile([]string{input}, true, false); err != nil {
		t.Fatalf("Compile returned an error: %s", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "Main.vm"))
	if err != nil {
		t.Fatalf("expected 'Main.vm' to be written: %s", err)
	}
	if !strings.Contains(string(out), "function Main.main 0") {
		t.Fatalf("expected a 'function Main.main 0' declaration, got:\n%s", out)
	}
	if !strings.Contains(string(out), "call Output.printInt 1") {
		t.Fatalf("expected a call to 'Output.printInt', got:\n%s", out)
	}
}

func TestCompileRejectsUndefinedStdlibCallWithoutFlag(t *testing.T) {
	const src = `
class Main {
	function void main() {
		do Output.printInt(42);
		return;
	}
}
`
	dir := t.TempDir()
	input := writeJackFixture(t, dir, "Main.jack", src)

	if err := Compile([]string{input}, false, false); err == nil {
		t.Fatal("expected an error when calling an undefined stdlib class with --stdlib=false")
	}
}

func TestCompileFieldsAndConstructor(t *testing.T) {
	const src = `
class Point {
	field int x, y;

	constructor Point new(int ax, int ay) {
		let x = ax;
		let y = ay;
		return this;
	}

	method int getX() {
		return x;
	}
}
`
	dir := t.TempDir()
	input := writeJackFixture(t, dir, "Point.jack", src)

	if err := Compile([]string{input}, true, false); err != nil {
		t.Fatalf("Compile returned an error: %s", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "Point.vm"))
	if err != nil {
		t.Fatalf("expected 'Point.vm' to be written: %s", err)
	}
	if !strings.Contains(string(out), "call Memory.alloc 1") {
		t.Fatalf("expected the constructor to allocate memory for its 2 fields, got:\n%s", out)
	}
}

func TestCompileWalksDirectories(t *testing.T) {
	const mainSrc = `
class Main {
	function void main() {
		return;
	}
}
`
	dir := t.TempDir()
	writeJackFixture(t, dir, "Main.jack", mainSrc)

	if err := Compile([]string{dir}, true, false); err != nil {
		t.Fatalf("Compile returned an error: %s", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Main.vm")); err != nil {
		t.Fatalf("expected 'Main.vm' to be written when compiling a directory: %s", err)
	}
}

func TestCompileRejectsMalformedSource(t *testing.T) {
	const src = `class Main { function void main( }`
	dir := t.TempDir()
	input := writeJackFixture(t, dir, "Main.jack", src)

	if err := Compile([]string{input}, true, false); err == nil {
		t.Fatal("expected an error for malformed Jack source")
	}
}

func TestCompileTypecheckCatchesTypeMismatch(t *testing.T) {
	const src = `
class Main {
	function void main() {
		var int n;
		let n = Array.new(5);
		return;
	}
}
`
	dir := t.TempDir()
	input := writeJackFixture(t, dir, "Main.jack", src)

	if err := Compile([]string{input}, true, true); err == nil {
		t.Fatal("expected the typecheck pass to reject assigning an 'object' to an 'int' variable")
	}
}
