package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"its-hmny.dev/nand2tetris/pkg/romimage"
)

var rootCmd = &cobra.Command{
	Use:   "hackrun <file.hack>",
	Short: "Validates a '.hack' ROM image against the Hack platform's constraints",
	Long: "hackrun loads a '.hack' binary machine code file and checks that it decodes to a well-formed " +
		"ROM image for the Hack platform (every line a 16-bit binary word, no more than ROMDepth of them). " +
		"It does not emulate the CPU or RAM: it is a load-time validator, not an execution engine.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(args[0])
	},
}

// Run loads the '.hack' file at path and validates it decodes to a
// well-formed romimage.Image, returning a non-nil error on any malformed or
// oversized input per the driver's exit-code contract.
func Run(path string) error {
	input, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}
	defer input.Close()

	if _, err := romimage.ReadHack(input); err != nil {
		return fmt.Errorf("unable to load '.hack' ROM image: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
