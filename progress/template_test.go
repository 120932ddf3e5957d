package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	t.Run("rejects two fill items", func(t *testing.T) {
		_, err := newTemplate([]Item{BarFill(), Literal(" "), MessageFill()})
		require.ErrorIs(t, err, ErrMultipleFillItems)
	})

	t.Run("accepts a single fill item", func(t *testing.T) {
		tmpl, err := newTemplate([]Item{Pos(), Literal(" "), BarFill()})
		require.NoError(t, err)
		require.True(t, tmpl.hasFill)
	})

	t.Run("accepts no fill item", func(t *testing.T) {
		tmpl, err := newTemplate([]Item{Pos(), Literal("/"), Total()})
		require.NoError(t, err)
		require.False(t, tmpl.hasFill)
	})

	t.Run("empty item list falls back to the default template", func(t *testing.T) {
		tmpl, err := newTemplate(nil)
		require.NoError(t, err)
		require.True(t, tmpl.hasFill)
		require.Len(t, tmpl.items, len(defaultItems()))
	})

	t.Run("rejects a format that does not match the item's operands", func(t *testing.T) {
		_, err := newTemplate([]Item{Percentf("%d", "")})
		require.ErrorIs(t, err, ErrInvalidFormat)

		_, err = newTemplate([]Item{Posf("%s")})
		require.ErrorIs(t, err, ErrInvalidFormat)

		_, err = newTemplate([]Item{ETAf("%d", "")})
		require.ErrorIs(t, err, ErrInvalidFormat, "format must consume both amount and unit")
	})

	t.Run("accepts formats with literal percents", func(t *testing.T) {
		_, err := newTemplate([]Item{Posf("%d%%"), Posf("%d%%!")})
		require.NoError(t, err, "an escaped percent in the output must not read as a verb error")

		snap := Snapshot{pos: 6}
		require.Equal(t, "6%!", Posf("%d%%!").render(&snap))
	})

	t.Run("accepts well-formed custom formats", func(t *testing.T) {
		_, err := newTemplate([]Item{
			Percentf("%5.1f%%", "  ?  "),
			Posf("%8d"),
			ETAf("(%d%s)", "(-)"),
			SpeedBinf("%s%s/s", "-"),
		})
		require.NoError(t, err)
	})
}
