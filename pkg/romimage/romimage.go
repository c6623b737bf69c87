// Package romimage models the final artifact of the assembler/VM-translator
// pipeline: a fixed-depth Hack ROM image and its ".hack" textual encoding.
//
// Nothing upstream (pkg/asm, pkg/vm, pkg/hack) depends on this package; it is
// the last step before a program can be handed to a Hack computer (or, per
// the driver collaborator in cmd/hackrun, merely validated).
package romimage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ROMDepth is the fixed number of addressable ROM words on the Hack platform.
const ROMDepth = 32768

// InitialStackPointerAddress is where RAM[0] (SP) should sit once the
// bootstrap sequence and Sys.init's zero-local prologue have both run.
const InitialStackPointerAddress = 261

// Image is an in-memory Hack ROM: exactly ROMDepth 16-bit words, index i
// holding the word executed at address i.
type Image [ROMDepth]uint16

// New builds an Image from the words emitted by codegen, zero-padding the
// tail up to ROMDepth. It is an error for more than ROMDepth words to have
// been emitted, since the Hack platform cannot address past that point.
func New(words []uint16) (Image, error) {
	var img Image

	if len(words) > ROMDepth {
		return img, fmt.Errorf("program emits %d words, exceeds ROM depth of %d", len(words), ROMDepth)
	}

	copy(img[:], words)
	return img, nil
}

// FromBinaryStrings builds an Image from the "%016b"-formatted strings a
// hack.CodeGenerator produces, zero-padding the tail up to ROMDepth.
func FromBinaryStrings(lines []string) (Image, error) {
	words := make([]uint16, 0, len(lines))

	for i, line := range lines {
		word, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return Image{}, fmt.Errorf("word %d (%q) is not a valid 16-bit binary word: %w", i, line, err)
		}
		words = append(words, uint16(word))
	}

	return New(words)
}

// WriteHack encodes the image as a ".hack" textual file: one 16-bit binary
// word per line, MSB first, exactly ROMDepth lines, no trailing blank line.
func (img Image) WriteHack(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for i, word := range img {
		if _, err := fmt.Fprintf(bw, "%016b", word); err != nil {
			return fmt.Errorf("unable to write ROM word %d: %w", i, err)
		}
		if i < len(img)-1 {
			if _, err := bw.WriteString("\n"); err != nil {
				return fmt.Errorf("unable to write ROM word separator: %w", err)
			}
		}
	}

	return bw.Flush()
}

// ReadHack decodes a ".hack" textual file back into an Image. It accepts
// fewer than ROMDepth lines (zero-padding the rest) but rejects more, since
// that can never have been produced by a conformant assembler.
func ReadHack(r io.Reader) (Image, error) {
	var img Image

	scanner := bufio.NewScanner(r)
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if idx >= ROMDepth {
			return img, fmt.Errorf("input has more than %d words", ROMDepth)
		}

		word, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return img, fmt.Errorf("line %d (%q) is not a valid 16-bit binary word: %w", idx+1, line, err)
		}
		img[idx] = uint16(word)
		idx++
	}
	if err := scanner.Err(); err != nil {
		return img, fmt.Errorf("unable to read ROM image: %w", err)
	}

	return img, nil
}
