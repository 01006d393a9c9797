package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ingot/internal/metafile"
)

var (
	packName    string
	packVersion string
	packHash    string
	packPayload string
	packOutput  string
)

func init() {
	packCmd.Flags().StringVar(&packName, "name", "", "crate name (required)")
	packCmd.Flags().StringVar(&packVersion, "crate-version", "0.0.0", "crate version")
	packCmd.Flags().StringVar(&packHash, "hash", "", "version hash (required)")
	packCmd.Flags().StringVar(&packPayload, "payload", "", "file with opaque metadata payload")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output path (required)")
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Write an ingot metadata file",
	Long:  "Write a metadata container with the given crate identity, for fixtures and tooling tests.",
	Args:  cobra.NoArgs,
	RunE:  runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	if packName == "" {
		return fmt.Errorf("--name is required")
	}
	if packHash == "" {
		return fmt.Errorf("--hash is required")
	}
	if packOutput == "" {
		return fmt.Errorf("--output is required")
	}

	var payload []byte
	if packPayload != "" {
		data, err := os.ReadFile(packPayload)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		payload = data
	}

	f, err := os.Create(packOutput)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", packOutput, err)
	}
	h := metafile.Header{
		Name:    packName,
		Version: packVersion,
		Hash:    packHash,
	}
	if err := metafile.Encode(f, h, payload); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", packOutput, err)
	}
	return f.Close()
}
