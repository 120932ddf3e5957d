package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	spin "github.com/briandowns/spinner"

	"github.com/malaire/ml-progress/units"
)

// defaultFitWidth is the character budget for width-fitted float values.
const defaultFitWidth = 4

type fillKind int

const (
	fillNone fillKind = iota
	fillBar
	fillMessage
)

// Item is one display element of the progress line. Items are built with
// the constructors in this package and assembled into a template with
// WithItems; the zero value is not a usable item.
type Item struct {
	fill   fillKind
	render func(*Snapshot) string

	// Construction problems, like a malformed format string, are carried
	// here and surfaced by New so that they fail before the first render.
	err error
}

// checkFormat verifies that format consumes exactly the operands an item
// provides. fmt reports mismatches in-band with "%!" markers, so a probe
// run against zero values detects them at construction time. Escaped
// percents are stripped from the probe first; a literal "%" in the output
// could otherwise fabricate the marker and fail a valid format.
func checkFormat(format string, args ...interface{}) error {
	probe := strings.ReplaceAll(format, "%%", "")
	if s := fmt.Sprintf(probe, args...); strings.Contains(s, "%!") {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return nil
}

// Literal returns an item that always renders text.
func Literal(text string) Item {
	return Item{render: func(*Snapshot) string { return text }}
}

// Custom returns an item rendered by fn. Custom items render their full
// text unconditionally and are never the fill item.
func Custom(fn func(*Snapshot) string) Item {
	return Item{render: fn}
}

// BarFill returns the bar fill item. It consumes all line width not used
// by other items, rendering a '#' prefix and '-' suffix proportional to
// completion, or blank space while no total is known. At most one fill
// item is allowed per template.
func BarFill() Item {
	return Item{fill: fillBar}
}

// MessageFill returns the message fill item. It renders the current
// message truncated or space-padded to exactly the remaining line width.
// At most one fill item is allowed per template.
func MessageFill() Item {
	return Item{fill: fillMessage}
}

// ETA renders the estimated remaining time as amount and largest unit,
// like "3m". An unavailable estimate renders as the empty string.
func ETA() Item {
	return ETAf("%d%s", "")
}

// ETAf is ETA with a custom format and none-literal. The format receives
// the amount (uint64) and the unit (string); none is rendered while no
// estimate is available.
func ETAf(format, none string) Item {
	err := checkFormat(format, uint64(0), "s")
	return Item{err: err, render: func(s *Snapshot) string {
		eta, ok := s.ETA()
		if !ok {
			return none
		}
		amount, unit := units.DurationApprox(eta)
		return fmt.Sprintf(format, amount, unit)
	}}
}

// ETAHMS renders the estimated remaining time as "H:MM:SS" when at least
// an hour remains and "M:SS" otherwise. An unavailable estimate renders
// as the empty string.
func ETAHMS() Item {
	return Item{render: func(s *Snapshot) string {
		eta, ok := s.ETA()
		if !ok {
			return ""
		}
		h, m, sec := units.DurationHMS(eta)
		if h > 0 {
			return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
		}
		return fmt.Sprintf("%d:%02d", m, sec)
	}}
}

// Percent renders the percentual completion right-aligned to three
// characters followed by '%'. Without a total it renders as the empty
// string. The value is not clamped, so positions beyond the total render
// above 100.
func Percent() Item {
	return Percentf("%3.0f%%", "")
}

// Percentf is Percent with a custom format and none-literal. The format
// receives the percentage as float64.
func Percentf(format, none string) Item {
	err := checkFormat(format, float64(0))
	return Item{err: err, render: func(s *Snapshot) string {
		p, ok := s.Percent()
		if !ok {
			return none
		}
		return fmt.Sprintf(format, p)
	}}
}

// Pos renders the position in plain decimal digits.
func Pos() Item {
	return Posf("%d")
}

// Posf is Pos with a custom format. The format receives the position as
// uint64.
func Posf(format string) Item {
	err := checkFormat(format, uint64(0))
	return Item{err: err, render: func(s *Snapshot) string {
		return fmt.Sprintf(format, s.Pos())
	}}
}

// PosGroup renders the position with its digits in groups of three,
// using the configured thousands separator.
func PosGroup() Item {
	return Item{render: func(s *Snapshot) string {
		return units.GroupDigits(s.Pos(), s.ThousandsSeparator())
	}}
}

// PosBin renders the position scaled by 1024-based prefixes, like
// "2.5 Ki". Unscaled values render as plain integers with no label.
func PosBin() Item {
	return PosBinf("%s%s")
}

// PosBinf is PosBin with a custom format. The format receives the scaled
// magnitude and the prefix label as strings; a non-empty label carries
// one leading space.
func PosBinf(format string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		return formatScaledInt(format, s.Pos(), units.BinaryPrefix)
	}}
}

// PosDec renders the position scaled by 1000-based prefixes, like
// "2.5 k". Unscaled values render as plain integers with no label.
func PosDec() Item {
	return PosDecf("%s%s")
}

// PosDecf is PosDec with a custom format; see PosBinf for the operands.
func PosDecf(format string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		return formatScaledInt(format, s.Pos(), units.DecimalPrefix)
	}}
}

// Total renders the total in plain decimal digits, or the empty string
// while no total is known.
func Total() Item {
	return Totalf("%d", "")
}

// Totalf is Total with a custom format and none-literal. The format
// receives the total as uint64.
func Totalf(format, none string) Item {
	err := checkFormat(format, uint64(0))
	return Item{err: err, render: func(s *Snapshot) string {
		total, ok := s.Total()
		if !ok {
			return none
		}
		return fmt.Sprintf(format, total)
	}}
}

// TotalGroup renders the total with its digits in groups of three, using
// the configured thousands separator, or the empty string while no total
// is known.
func TotalGroup() Item {
	return Item{render: func(s *Snapshot) string {
		total, ok := s.Total()
		if !ok {
			return ""
		}
		return units.GroupDigits(total, s.ThousandsSeparator())
	}}
}

// TotalBin renders the total scaled by 1024-based prefixes; see PosBin.
func TotalBin() Item {
	return TotalBinf("%s%s", "")
}

// TotalBinf is TotalBin with a custom format and none-literal; see
// PosBinf for the operands.
func TotalBinf(format, none string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		total, ok := s.Total()
		if !ok {
			return none
		}
		return formatScaledInt(format, total, units.BinaryPrefix)
	}}
}

// TotalDec renders the total scaled by 1000-based prefixes; see PosDec.
func TotalDec() Item {
	return TotalDecf("%s%s", "")
}

// TotalDecf is TotalDec with a custom format and none-literal; see
// PosBinf for the operands.
func TotalDecf(format, none string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		total, ok := s.Total()
		if !ok {
			return none
		}
		return formatScaledInt(format, total, units.DecimalPrefix)
	}}
}

// Speed renders the speed in steps per second as a width-fitted float.
// Speed is unavailable until at least one step has completed and a
// measurable interval has elapsed; until then the empty string renders.
func Speed() Item {
	return Speedf("%s", "")
}

// Speedf is Speed with a custom format and none-literal. The format
// receives the width-fitted speed as a string.
func Speedf(format, none string) Item {
	err := checkFormat(format, "")
	return Item{err: err, render: func(s *Snapshot) string {
		speed, ok := s.Speed()
		if !ok {
			return none
		}
		return fmt.Sprintf(format, units.FormatFitWidth(speed, defaultFitWidth))
	}}
}

// SpeedInt renders the speed rounded to the nearest whole number of steps
// per second.
func SpeedInt() Item {
	return SpeedIntf("%d", "")
}

// SpeedIntf is SpeedInt with a custom format and none-literal. The format
// receives the rounded speed as uint64.
func SpeedIntf(format, none string) Item {
	err := checkFormat(format, uint64(0))
	return Item{err: err, render: func(s *Snapshot) string {
		speed, ok := s.Speed()
		if !ok {
			return none
		}
		return fmt.Sprintf(format, uint64(math.Round(speed)))
	}}
}

// SpeedGroup renders the rounded speed with its digits in groups of
// three, using the configured thousands separator.
func SpeedGroup() Item {
	return Item{render: func(s *Snapshot) string {
		speed, ok := s.Speed()
		if !ok {
			return ""
		}
		return units.GroupDigits(uint64(math.Round(speed)), s.ThousandsSeparator())
	}}
}

// SpeedBin renders the speed scaled by 1024-based prefixes, like
// "2.5 Ki". Unlike the position items the magnitude stays a width-fitted
// float even when unscaled.
func SpeedBin() Item {
	return SpeedBinf("%s%s", "")
}

// SpeedBinf is SpeedBin with a custom format and none-literal; the format
// receives the width-fitted magnitude and the prefix label as strings.
func SpeedBinf(format, none string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		speed, ok := s.Speed()
		if !ok {
			return none
		}
		return formatScaledFloat(format, speed, units.BinaryPrefix)
	}}
}

// SpeedDec renders the speed scaled by 1000-based prefixes; see SpeedBin.
func SpeedDec() Item {
	return SpeedDecf("%s%s", "")
}

// SpeedDecf is SpeedDec with a custom format and none-literal; see
// SpeedBinf for the operands.
func SpeedDecf(format, none string) Item {
	err := checkFormat(format, "", "")
	return Item{err: err, render: func(s *Snapshot) string {
		speed, ok := s.Speed()
		if !ok {
			return none
		}
		return formatScaledFloat(format, speed, units.DecimalPrefix)
	}}
}

// spinnerInterval is the frame rate of the Spinner item.
const spinnerInterval = 125 * time.Millisecond

// Spinner renders an animated activity indicator. The frame is derived
// from the elapsed time, so the animation advances with the redraw
// cadence without keeping per-item state.
func Spinner() Item {
	frames := spin.CharSets[14]
	return Item{render: func(s *Snapshot) string {
		i := int(s.Elapsed()/spinnerInterval) % len(frames)
		return frames[i]
	}}
}

// formatScaledInt renders an integer quantity through the magnitude
// scaling pipeline. Unscaled values print as plain integers; scaled
// magnitudes are width-fitted and the label carries its leading space.
func formatScaledInt(format string, value uint64, scale func(float64) (float64, string)) string {
	amount, label := scale(float64(value))
	magnitude := units.FormatFitWidth(amount, defaultFitWidth)
	if label == "" {
		magnitude = strconv.FormatFloat(amount, 'f', 0, 64)
	}
	return fmt.Sprintf(format, magnitude, units.FormatPrefix(label, true))
}

// formatScaledFloat is formatScaledInt for float quantities, which keep
// their decimals even when unscaled.
func formatScaledFloat(format string, value float64, scale func(float64) (float64, string)) string {
	amount, label := scale(value)
	return fmt.Sprintf(format, units.FormatFitWidth(amount, defaultFitWidth), units.FormatPrefix(label, true))
}
