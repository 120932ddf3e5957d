package progress

import (
	"strings"
	"unicode/utf8"
)

// renderLine produces the full line for one render pass. Non-fill items
// render first; the fill item, if any, then receives exactly the width
// left over, so the whole line matches lineWidth. Without a fill item the
// line is the plain concatenation of all items regardless of lineWidth.
func (t *template) renderLine(s *Snapshot, lineWidth int) string {
	var pre, post strings.Builder
	fill := fillNone

	for _, item := range t.items {
		if item.fill != fillNone {
			fill = item.fill
			continue
		}
		if fill == fillNone {
			pre.WriteString(item.render(s))
		} else {
			post.WriteString(item.render(s))
		}
	}

	if fill == fillNone {
		return pre.String()
	}

	used := utf8.RuneCountInString(pre.String()) + utf8.RuneCountInString(post.String())
	fillWidth := lineWidth - used
	if fillWidth < 0 {
		fillWidth = 0
	}

	var middle string
	switch fill {
	case fillBar:
		middle = renderBar(s, fillWidth)
	case fillMessage:
		middle = fitToWidth(s.Message(), fillWidth)
	}
	return pre.String() + middle + post.String()
}

// renderBar renders the fill bar: a '#' prefix proportional to completion
// and a '-' suffix for the rest. Without a total the bar is blank space.
// The filled width clamps to the full bar when the position overruns the
// total.
func renderBar(s *Snapshot, width int) string {
	percent, ok := s.Percent()
	if !ok {
		return strings.Repeat(" ", width)
	}
	done := int(float64(width) * percent / 100)
	if done < 0 {
		done = 0
	}
	if done > width {
		done = width
	}
	return strings.Repeat("#", done) + strings.Repeat("-", width-done)
}

// fitToWidth truncates or right-pads text to exactly width characters.
func fitToWidth(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width])
	}
	return text + strings.Repeat(" ", width-len(runes))
}
