package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/togethertools/together-upload/internal/version"
)

// errUsage's text is part of the output contract.
var errUsage = errors.New("Usage: together-upload <filepath> [purpose]")

func newRootCmd(stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "together-upload <filepath> [purpose]",
		Short: "Upload a local file to the Together AI Files API",
		Long: `together-upload sends a local file to the Together AI Files API and prints
a single JSON object on stdout for consumption by a parent process:

  {"id": "file-...", "filename": "data.jsonl", "bytes": 1024}

On any failure it prints {"error": "..."} instead and exits non-zero.
Diagnostics go to stderr. Requires TOGETHER_API_KEY in the environment.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), stdout, args)
		},
	}

	root.AddCommand(
		newListCmd(stdout),
		newGetCmd(stdout),
		newDeleteCmd(stdout),
		newContentCmd(stdout),
	)
	return root
}
