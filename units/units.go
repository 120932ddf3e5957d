// Package units provides the pure formatting helpers used by the progress
// renderer: digit grouping, binary and decimal magnitude prefixes,
// width-fitted float formatting, and duration decomposition.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	binaryPrefixes  = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}
	decimalPrefixes = []string{"", "k", "M", "G", "T", "P", "E", "Z", "Y"}
)

// GroupDigits formats value with its digits in groups of three from the
// right, separated by sep. Values below 1000 contain no separator.
// Interior groups are zero padded: GroupDigits(1002034, " ") == "1 002 034".
func GroupDigits(value uint64, sep string) string {
	if value < 1000 {
		return strconv.FormatUint(value, 10)
	}

	var groups []string
	for value >= 1000 {
		groups = append(groups, fmt.Sprintf("%03d", value%1000))
		value /= 1000
	}

	parts := make([]string, 0, len(groups)+1)
	parts = append(parts, strconv.FormatUint(value, 10))
	for i := len(groups) - 1; i >= 0; i-- {
		parts = append(parts, groups[i])
	}
	return strings.Join(parts, sep)
}

// BinaryPrefix reduces value by repeated division by 1024 and returns the
// reduced magnitude together with the matching 1024-based prefix label
// ("", "Ki", "Mi", ..., "Yi"). Scaling stops at the largest prefix, so the
// returned magnitude can exceed 1024 for values beyond the "Yi" range.
func BinaryPrefix(value float64) (float64, string) {
	return scale(value, 1024, binaryPrefixes)
}

// DecimalPrefix reduces value by repeated division by 1000 and returns the
// reduced magnitude together with the matching 1000-based prefix label
// ("", "k", "M", ..., "Y"). Scaling stops at the largest prefix, so the
// returned magnitude can exceed 1000 for values beyond the "Y" range.
func DecimalPrefix(value float64) (float64, string) {
	return scale(value, 1000, decimalPrefixes)
}

func scale(value, base float64, prefixes []string) (float64, string) {
	i := 0
	for math.Abs(value) >= base && i < len(prefixes)-1 {
		value /= base
		i++
	}
	return value, prefixes[i]
}

// FormatFitWidth formats a non-negative value with as many decimals as fit
// within fitWidth characters. The integer part is always rendered in full,
// so values with more integer digits than fitWidth exceed it with zero
// decimals instead of failing.
//
//	FormatFitWidth(1.23456, 4) == "1.23"
//	FormatFitWidth(123.456, 4) == "123"
//	FormatFitWidth(12345.6, 4) == "12346"
func FormatFitWidth(value float64, fitWidth int) string {
	intDigits := 1
	if value >= 10 {
		intDigits = int(math.Floor(math.Log10(value))) + 1
	}
	precision := fitWidth - intDigits - 1 // one character for the decimal point
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// FormatPrefix formats a magnitude prefix label. In alternate mode a
// non-empty label gets one leading space; the empty label is always
// rendered as-is so unscaled values carry no stray space.
func FormatPrefix(label string, alternate bool) string {
	if alternate && label != "" {
		return " " + label
	}
	return label
}

// DurationApprox decomposes d into its largest applicable unit and returns
// the number of full units together with the unit label: "s" below one
// minute, "m" below one hour, "h" otherwise. The amount is floored, never
// rounded: 1800ms is one full second.
func DurationApprox(d time.Duration) (uint64, string) {
	secs := uint64(d / time.Second)
	switch {
	case secs < 60:
		return secs, "s"
	case secs < 3600:
		return secs / 60, "m"
	default:
		return secs / 3600, "h"
	}
}

// DurationHMS decomposes d into full hours, minutes and seconds.
func DurationHMS(d time.Duration) (h, m, s uint64) {
	secs := uint64(d / time.Second)
	return secs / 3600, (secs % 3600) / 60, secs % 60
}
