package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"its-hmny.dev/nand2tetris/internal/source"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/hack"
	"its-hmny.dev/nand2tetris/pkg/romimage"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

var rootCmd = &cobra.Command{
	Use:   "vm_translator <input.vm>... <output.hack>",
	Short: "Translates one or more VM bytecode modules into a Hack ROM image",
	Long: strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack machine code. The VM language is a higher-level (bytecode-like)
language tailored for use with the Hack computer architecture.
`, "\n", " "),
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, output := args[:len(args)-1], args[len(args)-1]
		return Translate(inputs, output)
	},
}

// Translate reads every '.vm' file in 'inputPaths' (each becomes its own
// module, named after the file without extension), lowers the combined
// Program down to a Hack ROM image restricted to the subroutines reachable
// from 'Sys.init', and writes it to 'outputPath'.
func Translate(inputPaths []string, outputPath string) error {
	program := vm.Program{}

	for _, input := range inputPaths {
		content, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("unable to read input file '%s': %w", input, err)
		}

		moduleName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		parser := vm.NewParser(bytes.NewReader(content))
		module, err := parser.Parse()
		if err != nil {
			return fmt.Errorf("unable to complete 'parsing' pass on '%s': %w", input, err)
		}
		program[moduleName] = module
	}

	liveSet, err := vm.BuildLiveSet(program, "Sys.init")
	if err != nil {
		return fmt.Errorf("unable to complete 'call graph' pass: %w", err)
	}

	sourceMap := source.NewMap()
	lowerer := vm.NewLowerer().WithLiveSet(liveSet).WithSourceMap(sourceMap)
	asmProgram, err := lowerer.Lower(program)
	if err != nil {
		return fmt.Errorf("unable to complete 'lowering' pass: %w", err)
	}

	table, err := asm.FirstPass(asmProgram)
	if err != nil {
		return fmt.Errorf("unable to complete 'first pass': %w", err)
	}

	hackProgram, err := asm.NewLowerer(asmProgram).Lower()
	if err != nil {
		return fmt.Errorf("unable to complete 'asm lowering' pass: %w", err)
	}

	codegen := hack.NewCodeGenerator(hackProgram, table)
	compiled, err := codegen.Generate()
	if err != nil {
		return fmt.Errorf("unable to complete 'codegen' pass: %w", err)
	}

	image, err := romimage.FromBinaryStrings(compiled)
	if err != nil {
		return fmt.Errorf("unable to build ROM image: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer file.Close()

	if err := image.WriteHack(file); err != nil {
		return fmt.Errorf("unable to write ROM image: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
