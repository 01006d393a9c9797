// Package main implements the ingot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ingot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ingot",
	Short: "Ingot crate metadata and link-order toolchain",
	Long:  `Ingot inspects a session's external crates: their metadata, on-disk artifacts, and the order the linker must receive them in.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(cratesCmd)
	rootCmd.AddCommand(linkOrderCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		mode, err := cmd.Flags().GetString("color")
		if err != nil {
			return err
		}
		return configureColor(mode)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureColor(mode string) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (must be auto, on or off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
