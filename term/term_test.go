package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	t.Run("falls back to the default width for non-terminal writers", func(t *testing.T) {
		buf := new(strings.Builder)
		require.Equal(t, DefaultWidth, Width(buf))
	})
}

func TestWriter(t *testing.T) {
	t.Run("every line starts with a carriage return and has no line break", func(t *testing.T) {
		buf := new(strings.Builder)
		w := NewWriter(buf)

		w.WriteLine("first")
		w.WriteLine("second")

		require.Equal(t, "\rfirst\rsecond", buf.String())
	})

	t.Run("clear overwrites the line with blanks", func(t *testing.T) {
		buf := new(strings.Builder)
		w := NewWriter(buf)

		w.WriteLine("something")
		w.Clear(9)

		require.Equal(t, "\rsomething\r"+strings.Repeat(" ", 9)+"\r", buf.String())
	})

	t.Run("cursor control is a no-op for non-terminal writers", func(t *testing.T) {
		buf := new(strings.Builder)
		w := NewWriter(buf)

		w.HideCursor()
		w.ShowCursor()

		require.Empty(t, buf.String(), "buffers must stay free of control sequences")
	})
}
