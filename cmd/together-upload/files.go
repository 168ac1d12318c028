package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/togethertools/together-upload/internal/report"
)

func newListCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.files.List(cmd.Context())
			if err != nil {
				return err
			}
			return report.WriteJSON(stdout, list)
		},
	}
}

func newGetCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file-id>",
		Short: "Show the file object for a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			file, err := app.files.Retrieve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteJSON(stdout, file)
		},
	}
}

func newDeleteCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			deleted, err := app.files.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteJSON(stdout, deleted)
		},
	}
}

type contentResult struct {
	ID    string `json:"id"`
	Bytes int64  `json:"bytes"`
}

func newContentCmd(stdout io.Writer) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "content <file-id>",
		Short: "Download a stored file's raw bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			// With "-" the raw bytes own stdout and no JSON is printed.
			if output == "-" {
				_, err := app.files.Content(cmd.Context(), args[0], stdout)
				return err
			}

			destination, err := os.Create(output)
			if err != nil {
				return err
			}
			written, err := app.files.Content(cmd.Context(), args[0], destination)
			if closeErr := destination.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			return report.WriteJSON(stdout, &contentResult{
				ID:    args[0],
				Bytes: written,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-",
		"write the contents to this path instead of stdout")
	return cmd
}
