package filesapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togethertools/together-upload/internal/api"
	"github.com/togethertools/together-upload/internal/apitest"
	"github.com/togethertools/together-upload/internal/filesapi"
	"github.com/togethertools/together-upload/internal/observability"
)

func testFilesClient(serverURL string) *filesapi.Client {
	return filesapi.NewClient(
		apitest.TestClient(serverURL, api.ClientOptions{APIKey: "test_api_key"}),
		observability.NewNoOpLogger(),
	)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUpload(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(&filesapi.FileObject{
				ID:        "file-abc123",
				Object:    "file",
				Bytes:     24,
				CreatedAt: 1700000000,
				Filename:  "train.jsonl",
				Purpose:   "fine-tune",
			})
		}),
	)
	defer server.Close()

	path := writeTempFile(t, "train.jsonl", `{"text": "hello world"}`)

	uploaded, err := testFilesClient(server.URL).
		Upload(context.Background(), path, "fine-tune")
	require.NoError(t, err)

	assert.Equal(t, "file-abc123", uploaded.ID)
	assert.Equal(t, "train.jsonl", uploaded.Filename)
	assert.Equal(t, int64(24), uploaded.Bytes)

	allRequests := server.Requests()
	require.Len(t, allRequests, 1)

	req := allRequests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/files", req.URL.Path)

	contentType := req.Header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"),
		"unexpected content type %q", contentType)

	// Re-parse the recorded body to verify the form fields.
	parsed, err := http.NewRequest(http.MethodPost, "/files",
		bytes.NewReader(req.Body))
	require.NoError(t, err)
	parsed.Header.Set("Content-Type", contentType)
	require.NoError(t, parsed.ParseMultipartForm(1<<20))

	assert.Equal(t, "fine-tune", parsed.FormValue("purpose"))

	filePart, header, err := parsed.FormFile("file")
	require.NoError(t, err)
	defer func() { _ = filePart.Close() }()
	assert.Equal(t, "train.jsonl", header.Filename)

	fileContent := &bytes.Buffer{}
	_, err = fileContent.ReadFrom(filePart)
	require.NoError(t, err)
	assert.Equal(t, `{"text": "hello world"}`, fileContent.String())
}

func TestUpload_DefaultPurpose(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "fine-tune", r.FormValue("purpose"))
			_ = json.NewEncoder(w).Encode(&filesapi.FileObject{ID: "file-1"})
		}),
	)
	defer server.Close()

	path := writeTempFile(t, "data.jsonl", "{}")

	_, err := testFilesClient(server.URL).Upload(context.Background(), path, "")
	require.NoError(t, err)
}

func TestUpload_MissingLocalFile(t *testing.T) {
	server := apitest.NewRecordingServer()
	defer server.Close()

	_, err := testFilesClient(server.URL).
		Upload(context.Background(), filepath.Join(t.TempDir(), "nope"), "")

	assert.ErrorContains(t, err, "failed to open file")
	assert.Empty(t, server.Requests())
}

func TestUpload_ErrorObjectBody(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(
				`{"error": {"message": "purpose is not supported"}}`))
		}),
	)
	defer server.Close()

	path := writeTempFile(t, "data.jsonl", "{}")

	_, err := testFilesClient(server.URL).
		Upload(context.Background(), path, "bogus")

	var apiErr *filesapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "purpose is not supported", apiErr.Message)
}

func TestUpload_ErrorStringBody(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": "account is suspended"}`))
		}),
	)
	defer server.Close()

	path := writeTempFile(t, "data.jsonl", "{}")

	_, err := testFilesClient(server.URL).
		Upload(context.Background(), path, "fine-tune")

	var apiErr *filesapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "account is suspended", apiErr.Message)
}

func TestUpload_UndecodableErrorBody(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not json"))
		}),
	)
	defer server.Close()

	path := writeTempFile(t, "data.jsonl", "{}")

	_, err := testFilesClient(server.URL).
		Upload(context.Background(), path, "fine-tune")

	var apiErr *filesapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not json")
}

func TestList(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"object": "list",
				"data": [
					{"id": "file-1", "filename": "a.jsonl", "bytes": 10},
					{"id": "file-2", "filename": "b.jsonl", "bytes": 20}
				]
			}`))
		}),
	)
	defer server.Close()

	list, err := testFilesClient(server.URL).List(context.Background())
	require.NoError(t, err)

	require.Len(t, list.Data, 2)
	assert.Equal(t, "file-1", list.Data[0].ID)
	assert.Equal(t, int64(20), list.Data[1].Bytes)

	allRequests := server.Requests()
	require.Len(t, allRequests, 1)
	assert.Equal(t, http.MethodGet, allRequests[0].Method)
	assert.Equal(t, "/files", allRequests[0].URL.Path)
}

func TestRetrieve(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(&filesapi.FileObject{
				ID:       "file-abc123",
				Filename: "train.jsonl",
			})
		}),
	)
	defer server.Close()

	file, err := testFilesClient(server.URL).
		Retrieve(context.Background(), "file-abc123")
	require.NoError(t, err)
	assert.Equal(t, "train.jsonl", file.Filename)

	allRequests := server.Requests()
	require.Len(t, allRequests, 1)
	assert.Equal(t, "/files/file-abc123", allRequests[0].URL.Path)
}

func TestDelete(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(&filesapi.FileDeleted{
				ID:      "file-abc123",
				Object:  "file",
				Deleted: true,
			})
		}),
	)
	defer server.Close()

	deleted, err := testFilesClient(server.URL).
		Delete(context.Background(), "file-abc123")
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	allRequests := server.Requests()
	require.Len(t, allRequests, 1)
	assert.Equal(t, http.MethodDelete, allRequests[0].Method)
	assert.Equal(t, "/files/file-abc123", allRequests[0].URL.Path)
}

func TestContent(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("raw file bytes"))
		}),
	)
	defer server.Close()

	destination := &bytes.Buffer{}
	written, err := testFilesClient(server.URL).
		Content(context.Background(), "file-abc123", destination)
	require.NoError(t, err)

	assert.Equal(t, int64(len("raw file bytes")), written)
	assert.Equal(t, "raw file bytes", destination.String())

	allRequests := server.Requests()
	require.Len(t, allRequests, 1)
	assert.Equal(t, "/files/file-abc123/content", allRequests[0].URL.Path)
}

func TestContent_Error(t *testing.T) {
	server := apitest.NewRecordingServer(
		apitest.WithHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"message": "file not found"}}`))
		}),
	)
	defer server.Close()

	destination := &bytes.Buffer{}
	_, err := testFilesClient(server.URL).
		Content(context.Background(), "file-missing", destination)

	var apiErr *filesapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "file not found", apiErr.Message)
	assert.Zero(t, destination.Len())
}
