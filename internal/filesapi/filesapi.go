// Package filesapi implements the Together AI files endpoints.
//
// The endpoints are OpenAI-compatible: files are uploaded as
// multipart/form-data with a "purpose" field and a "file" part, and the
// server replies with a file object identifying the stored file.
package filesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/togethertools/together-upload/internal/api"
	"github.com/togethertools/together-upload/internal/observability"
)

// DefaultPurpose is the purpose tag used when none is given.
const DefaultPurpose = "fine-tune"

// FileObject is the server's description of a stored file.
type FileObject struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
	LineCount int64  `json:"line_count,omitempty"`
	Processed bool   `json:"processed,omitempty"`
}

// FileList is returned when listing files.
type FileList struct {
	Object string       `json:"object"`
	Data   []FileObject `json:"data"`
}

// FileDeleted acknowledges a deletion.
type FileDeleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the files endpoints of the Together backend.
type Client struct {
	api    api.Client
	logger *observability.CoreLogger
}

func NewClient(apiClient api.Client, logger *observability.CoreLogger) *Client {
	return &Client{
		api:    apiClient,
		logger: logger,
	}
}

// List returns all files stored for the account.
func (c *Client) List(ctx context.Context) (*FileList, error) {
	resp, err := c.api.Send(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   "files",
	})
	if err != nil {
		return nil, err
	}

	list := &FileList{}
	if err := decodeResponse(resp, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Retrieve returns the file object for the given identifier.
func (c *Client) Retrieve(ctx context.Context, id string) (*FileObject, error) {
	resp, err := c.api.Send(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   "files/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}

	file := &FileObject{}
	if err := decodeResponse(resp, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes the file with the given identifier.
func (c *Client) Delete(ctx context.Context, id string) (*FileDeleted, error) {
	resp, err := c.api.Send(ctx, &api.Request{
		Method: http.MethodDelete,
		Path:   "files/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}

	deleted := &FileDeleted{}
	if err := decodeResponse(resp, deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Content streams the raw bytes of the stored file to w and returns the
// number of bytes written.
func (c *Client) Content(
	ctx context.Context,
	id string,
	w io.Writer,
) (int64, error) {
	resp, err := c.api.Send(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   "files/" + url.PathEscape(id) + "/content",
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, errorFromResponse(resp.StatusCode, body)
	}

	return io.Copy(w, resp.Body)
}

// decodeResponse reads and closes the response body, decoding it into out on
// success and into an [APIError] otherwise.
func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("filesapi: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("filesapi: failed to decode response: %w", err)
	}
	return nil
}

// maxErrorBody caps how much of an undecodable error body is surfaced.
const maxErrorBody = 512

// errorFromResponse extracts an error message from a non-2xx response body.
//
// The server reports errors as {"error": {"message": ...}} or
// {"error": "..."}; anything else falls back to the raw body or the HTTP
// status text.
func errorFromResponse(statusCode int, body []byte) error {
	var withObject struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &withObject); err == nil &&
		withObject.Error.Message != "" {
		return &APIError{StatusCode: statusCode, Message: withObject.Error.Message}
	}

	var withString struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &withString); err == nil &&
		withString.Error != "" {
		return &APIError{StatusCode: statusCode, Message: withString.Error}
	}

	message := strings.TrimSpace(string(body))
	if len(message) > maxErrorBody {
		message = message[:maxErrorBody]
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed (%d): %s", statusCode, message),
	}
}
