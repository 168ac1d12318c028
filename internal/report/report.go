// Package report emits the single JSON object a parent process reads from
// stdout.
//
// The object shapes and error strings here are the program's output
// contract; callers elsewhere depend on them verbatim.
package report

import (
	"encoding/json"
	"io"
)

// Result describes a successful upload.
type Result struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
}

// Failure wraps an error message.
type Failure struct {
	Error string `json:"error"`
}

// WriteJSON writes v to w as one compact JSON object followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// WriteError writes an error object to w. Best effort; there is nowhere
// left to report a failure to.
func WriteError(w io.Writer, message string) {
	_ = WriteJSON(w, &Failure{Error: message})
}
