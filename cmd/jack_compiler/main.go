package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"its-hmny.dev/nand2tetris/pkg/jack"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

var (
	useStdlib bool
	typecheck bool
)

var rootCmd = &cobra.Command{
	Use:   "jack_compiler <input>...",
	Short: "Compiles one or more Jack classes into VM bytecode modules",
	Long: strings.ReplaceAll(`
The Jack Compiler compiles programs (composed of multiple classes/files) written in
the Jack language into VM modules that can be further elaborated. The Jack language
is a higher-level OOP language tailored for use with the Hack computer architecture.
`, "\n", " "),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Compile(args, useStdlib, typecheck)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&useStdlib, "stdlib", true, "link the built-in ABI of the standard library for lowering")
	rootCmd.Flags().BoolVar(&typecheck, "typecheck", false, "do a full type check of the source code before emitting any output")
}

// Compile walks 'inputs' (files or directories) collecting every '.jack'
// translation unit, parses each into its 'jack.Class', optionally type-checks
// and links the standard library ABI, lowers the resulting 'jack.Program'
// down to VM bytecode, and writes one '<class>.vm' file per translation unit
// alongside its source.
func Compile(inputs []string, useStdlib, typecheck bool) error {
	// By TU (Translation Unit) we identify the source file that needs to be parsed; in Jack
	// every file holds exactly one class, so TUs and Program entries are in 1-to-1 correspondence.
	TUs := []string{}

	for _, input := range inputs {
		err := filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".jack" {
				return nil // We recurse on dirs and ignore other filetypes
			}
			TUs = append(TUs, path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("unable to walk input '%s': %w", input, err)
		}
	}

	program := jack.Program{}

	for _, tu := range TUs {
		content, err := os.ReadFile(tu)
		if err != nil {
			return fmt.Errorf("unable to read input file '%s': %w", tu, err)
		}

		parser := jack.NewParser(bytes.NewReader(content))
		class, err := parser.Parse()
		if err != nil {
			return fmt.Errorf("unable to complete 'parsing' pass on '%s': %w", tu, err)
		}

		filename, extension := path.Base(tu), path.Ext(tu)
		program[strings.TrimSuffix(filename, extension)] = class
	}

	// Adds to the jack.Program the stdlib ABI, this will help resolve stdlib functions w/o adding
	// them to the final executable (only the '.vm' files of the input classes are written below,
	// the bodiless stdlib modules are never emitted). This lets programs call 'Math.multiply' and
	// friends without the caller having to provide a real implementation.
	if useStdlib {
		for name, abi := range jack.StandardLibraryABI {
			program[name] = abi
		}
	}

	if typecheck {
		checker := jack.NewTypeChecker(program)
		if _, err := checker.Check(); err != nil {
			return fmt.Errorf("unable to complete 'typecheck' pass: %w", err)
		}
	}

	lowerer := jack.NewLowerer(program)
	vmProgram, err := lowerer.Lowerer()
	if err != nil {
		return fmt.Errorf("unable to complete 'lowering' pass: %w", err)
	}

	codegen := vm.NewCodeGenerator(vmProgram)
	compiled, err := codegen.Generate()
	if err != nil {
		return fmt.Errorf("unable to complete 'codegen' pass: %w", err)
	}

	for _, tu := range TUs {
		filename, extension := path.Base(tu), path.Ext(tu)
		className := strings.TrimSuffix(filename, extension)

		module, ok := compiled[className]
		if !ok {
			return fmt.Errorf("unable to find compiled module for class '%s'", className)
		}

		output, err := os.Create(fmt.Sprintf("%s.vm", strings.TrimSuffix(tu, extension)))
		if err != nil {
			return fmt.Errorf("unable to open output file for '%s': %w", tu, err)
		}

		for _, line := range module {
			if _, err := fmt.Fprintf(output, "%s\n", line); err != nil {
				output.Close()
				return fmt.Errorf("unable to write output file for '%s': %w", tu, err)
			}
		}
		output.Close()
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
