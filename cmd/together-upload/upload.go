package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/togethertools/together-upload/internal/filesapi"
	"github.com/togethertools/together-upload/internal/report"
)

// runUpload is the default command: upload one file and print the result.
//
// The sequencing here mirrors the output contract: a missing API key is
// reported before a bad argument list, which is reported before a missing
// file.
func runUpload(ctx context.Context, stdout io.Writer, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	path := args[0]
	purpose := filesapi.DefaultPurpose
	if len(args) == 2 {
		purpose = args[1]
	}

	info, err := os.Stat(path)
	if err != nil {
		// Error text is part of the output contract.
		return fmt.Errorf("File not found: %s", path)
	}

	uploaded, err := app.files.Upload(ctx, path, purpose)
	if err != nil {
		app.logger.CaptureError(err, "path", path, "purpose", purpose)
		return err
	}

	result := &report.Result{
		ID:       uploaded.ID,
		Filename: uploaded.Filename,
		Bytes:    uploaded.Bytes,
	}
	if result.Filename == "" {
		result.Filename = filepath.Base(path)
	}
	if result.Bytes == 0 {
		result.Bytes = info.Size()
	}
	return report.WriteJSON(stdout, result)
}
