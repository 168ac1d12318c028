package filesapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/togethertools/together-upload/internal/api"
)

// Upload sends the local file at path to the files endpoint tagged with the
// given purpose and returns the server's file object.
//
// The request body is buffered in memory; requests may be retried when the
// client is configured to do so.
func (c *Client) Upload(
	ctx context.Context,
	path string,
	purpose string,
) (*FileObject, error) {
	if purpose == "" {
		purpose = DefaultPurpose
	}

	c.logger.Debug("filesapi: uploading file", "path", path, "purpose", purpose)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filesapi: failed to open file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.CaptureError(err, "path", path)
		}
	}()

	body, contentType, err := multipartBody(file, filepath.Base(path), purpose)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.Send(ctx, &api.Request{
		Method:  http.MethodPost,
		Path:    "files",
		Body:    body,
		Headers: map[string]string{"Content-Type": contentType},
	})
	if err != nil {
		return nil, err
	}

	uploaded := &FileObject{}
	if err := decodeResponse(resp, uploaded); err != nil {
		return nil, err
	}

	c.logger.Debug("filesapi: uploaded file",
		"id", uploaded.ID, "bytes", uploaded.Bytes)
	return uploaded, nil
}

// multipartBody builds the multipart/form-data payload for an upload and
// returns it with its content type.
func multipartBody(
	content io.Reader,
	filename string,
	purpose string,
) ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)

	if err := writer.WriteField("purpose", purpose); err != nil {
		return nil, "", fmt.Errorf("filesapi: failed to write purpose: %w", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("filesapi: failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("filesapi: failed to read file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("filesapi: failed to finish body: %w", err)
	}

	return buffer.Bytes(), writer.FormDataContentType(), nil
}
