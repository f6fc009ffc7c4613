package internalprotocol

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// ErrorName is the name of the rows reporting errors to the launcher.
const ErrorName = "Error"

type icon struct {
	Name string `json:"Name"`
}

type appendResult struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        *icon  `json:"icon,omitempty"`
}

// Writer encodes responses, one JSON value per line, flushing after each of them.
//
// It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	buf *bufio.Writer
	enc *json.Encoder
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &Writer{buf: buf, enc: enc}
}

func (w *Writer) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.Encode(v); err != nil {
		return err
	}

	return w.buf.Flush()
}

// Append offers one result row; an empty icon is omitted.
func (w *Writer) Append(id uint32, name, description, iconName string) error {
	res := appendResult{ID: id, Name: name, Description: description}
	if iconName != "" {
		res.Icon = &icon{Name: iconName}
	}

	return w.send(struct {
		Append appendResult `json:"Append"`
	}{res})
}

// Finished ends the current result set.
func (w *Writer) Finished() error {
	return w.send("Finished")
}

// Close asks the launcher to close.
func (w *Writer) Close() error {
	return w.send("Close")
}

// Clear asks the launcher to drop the rows it shows.
func (w *Writer) Clear() error {
	return w.send("Clear")
}

// Fill replaces the launcher query with text.
func (w *Writer) Fill(text string) error {
	return w.send(struct {
		Fill string `json:"Fill"`
	}{text})
}

// Error reports a failure as a single row followed by Finished.
func (w *Writer) Error(description string) error {
	if err := w.Append(0, ErrorName, description, ""); err != nil {
		return err
	}

	return w.Finished()
}
