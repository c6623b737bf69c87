package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/romimage"
)

func TestRunAcceptsWellFormedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.hack")

	image, err := romimage.New([]uint16{0, 0xFFFF, 0b0000000000101010})
	if err != nil {
		t.Fatalf("unexpected error building fixture image: %s", err)
	}

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("unable to create fixture file: %s", err)
	}
	if err := image.WriteHack(out); err != nil {
		t.Fatalf("unable to write fixture file: %s", err)
	}
	out.Close()

	if err := Run(path); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestRunRejectsMalformedWord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.hack")

	if err := os.WriteFile(path, []byte("not-a-binary-word\n"), 0o644); err != nil {
		t.Fatalf("unable to write fixture file: %s", err)
	}

	if err := Run(path); err == nil {
		t.Fatal("expected an error for a malformed ROM word")
	}
}

func TestRunRejectsOversizedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.hack")

	var lines []string
	for i := 0; i < romimage.ROMDepth+1; i++ {
		lines = append(lines, "0000000000000000")
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("unable to write fixture file: %s", err)
	}

	if err := Run(path); err == nil {
		t.Fatal("expected an error for a ROM image exceeding ROMDepth")
	}
}

func TestRunRejectsMissingFile(t *testing.T) {
	if err := Run("/nonexistent/path/program.hack"); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
