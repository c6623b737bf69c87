package romimage_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"its-hmny.dev/nand2tetris/pkg/romimage"
)

func TestNewPadsToROMDepth(t *testing.T) {
	img, err := romimage.New([]uint16{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(img) != romimage.ROMDepth {
		t.Fatalf("expected image length %d, got %d", romimage.ROMDepth, len(img))
	}
	if img[0] != 1 || img[1] != 2 || img[2] != 3 || img[3] != 0 {
		t.Fatalf("unexpected prefix/padding: %v", img[:4])
	}
}

func TestNewRejectsOverflow(t *testing.T) {
	words := make([]uint16, romimage.ROMDepth+1)
	if _, err := romimage.New(words); err == nil {
		t.Fatal("expected error for program exceeding ROM depth")
	}
}

func TestWriteHackHasNoTrailingBlankLine(t *testing.T) {
	img, _ := romimage.New([]uint16{0, 1})

	var buf bytes.Buffer
	if err := img.WriteHack(&buf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != romimage.ROMDepth {
		t.Fatalf("expected exactly %d lines, got %d", romimage.ROMDepth, len(lines))
	}
	if lines[len(lines)-1] == "" {
		t.Fatal("unexpected trailing blank line")
	}
}

func TestReadHackRoundTrip(t *testing.T) {
	words := []uint16{0, 1, 0xFFFF, 42}
	img, _ := romimage.New(words)

	var buf bytes.Buffer
	if err := img.WriteHack(&buf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	decoded, err := romimage.ReadHack(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if diff := cmp.Diff(img, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBinaryStrings(t *testing.T) {
	img, err := romimage.FromBinaryStrings([]string{"0000000000000001", "0000000000000010"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if img[0] != 1 || img[1] != 2 {
		t.Fatalf("unexpected decode: %v", img[:2])
	}
}
