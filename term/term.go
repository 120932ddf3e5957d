// Package term handles the terminal side of the progress line: width
// discovery, carriage-return overwrite writes, and cursor visibility.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

// DefaultWidth is substituted when the output is not a terminal or its
// size cannot be determined.
const DefaultWidth = 80

// fileWriter wraps an io.Writer so that it satisfies terminal.FileWriter.
// If the underlying writer is a file, like os.Stderr, its file descriptor
// is used. Otherwise a dummy value is returned, which allows cursor
// control to be wired against any io.Writer, like a bytes.Buffer in tests.
type fileWriter struct {
	w io.Writer
}

// Write delegates to the internal writer.
func (w *fileWriter) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Fd is required to be implemented to satisfy the terminal.FileWriter interface.
func (w *fileWriter) Fd() uintptr {
	if v, ok := w.w.(terminal.FileWriter); ok {
		return v.Fd()
	}
	return 0
}

// Width returns the current width of the terminal behind out, or
// DefaultWidth if out is not a terminal.
func Width(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// Writer writes a single terminal line in place. Every line written starts
// with a carriage return so that it overwrites the previous one; Writer
// never emits a line break. Writes are serialized, so the background
// drawer and the final synchronous draw cannot interleave output.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	cursor *terminal.Cursor
}

// NewWriter returns a Writer that overwrites a single line on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out: out,
		cursor: &terminal.Cursor{
			Out: &fileWriter{w: out},
		},
	}
}

// WriteLine replaces the currently displayed line with line.
func (w *Writer) WriteLine(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "\r%s", line)
}

// Clear overwrites the currently displayed line with width blank
// characters and leaves the cursor at the start of the cleared line.
func (w *Writer) Clear(width int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "\r%s\r", strings.Repeat(" ", width))
}

// HideCursor makes the terminal cursor invisible while the line is being
// redrawn. It does nothing if out is not a terminal, so buffered output
// stays free of control sequences.
func (w *Writer) HideCursor() {
	if w.isTerminal() {
		w.cursor.Hide()
	}
}

// ShowCursor makes the terminal cursor visible again.
func (w *Writer) ShowCursor() {
	if w.isTerminal() {
		w.cursor.Show()
	}
}

func (w *Writer) isTerminal() bool {
	f, ok := w.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
