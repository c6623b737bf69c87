package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/hack"
	"its-hmny.dev/nand2tetris/pkg/romimage"
)

var dumpAsm bool

var rootCmd = &cobra.Command{
	Use:   "hack_assembler <input.asm> <output.hack>",
	Short: "Translates Hack assembly language into Hack binary machine code",
	Long: "The Hack Assembler takes assembly language code written in the Hack assembly language " +
		"and translates it into machine code that can be executed by the Hack computer. The process " +
		"involves parsing the assembly code, resolving symbols, and generating machine code.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Assemble(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&dumpAsm, "dump-asm", false,
		"re-emit the parsed program as '.asm' text (dropping comments/whitespace) alongside the output, to sanity check the parsing+lowering passes")
}

// Assemble drives the three phases of the assembler pipeline (C3 parsing, C4
// first pass, C5 codegen) and dumps the resulting ROM to output as a padded
// ".hack" textual file.
func Assemble(inputPath, outputPath string) error {
	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer output.Close()

	// Instantiate a parser for the Asm program
	parser := asm.NewParser(bytes.NewReader(input))
	// Parses the input file content into an in-memory 'asm.Program'.
	asmProgram, err := parser.Parse()
	if err != nil {
		return fmt.Errorf("unable to complete 'parsing' pass: %w", err)
	}

	if dumpAsm {
		if err := DumpAsm(asmProgram, outputPath+".asm"); err != nil {
			return fmt.Errorf("unable to complete '--dump-asm' round-trip: %w", err)
		}
	}

	// First pass: resolves every label declaration to its ROM address.
	table, err := asm.FirstPass(asmProgram)
	if err != nil {
		return fmt.Errorf("unable to complete 'first pass': %w", err)
	}

	// Lowers the 'asm.Program' to its 'hack.Program' counterpart (A/C Instructions only).
	lowerer := asm.NewLowerer(asmProgram)
	hackProgram, err := lowerer.Lower()
	if err != nil {
		return fmt.Errorf("unable to complete 'lowering' pass: %w", err)
	}

	// Code generator resolves variables against 'table' and emits one binary word per instruction.
	codegen := hack.NewCodeGenerator(hackProgram, table)
	compiled, err := codegen.Generate()
	if err != nil {
		return fmt.Errorf("unable to complete 'codegen' pass: %w", err)
	}

	image, err := romimage.FromBinaryStrings(compiled)
	if err != nil {
		return fmt.Errorf("unable to build ROM image: %w", err)
	}

	if err := image.WriteHack(output); err != nil {
		return fmt.Errorf("unable to write '.hack' output: %w", err)
	}

	return nil
}

// DumpAsm re-emits the parsed 'asm.Program' back to its textual '.asm' form,
// one statement per line, so a caller can diff it against the original input
// to sanity check that parsing preserved every instruction (modulo comments
// and whitespace, which carry no semantic weight and are dropped).
func DumpAsm(program asm.Program, outputPath string) error {
	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to open dump file: %w", err)
	}
	defer output.Close()

	codegen := asm.NewCodeGenerator(program)
	lines, err := codegen.Generate()
	if err != nil {
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(output, line); err != nil {
			return fmt.Errorf("unable to write dump file: %w", err)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
