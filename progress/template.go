package progress

import "errors"

var (
	// ErrMultipleFillItems is returned by New when the item list contains
	// more than one fill item; at most one of BarFill or MessageFill is
	// allowed per template.
	ErrMultipleFillItems = errors.New("got multiple fill items, at most one is allowed")

	// ErrInvalidFormat is returned by New when an item's format string
	// does not match the operands of that item.
	ErrInvalidFormat = errors.New("invalid item format")
)

// template is the immutable, validated sequence of display items of one
// progress indicator. It is shared read-only between renders.
type template struct {
	items   []Item
	hasFill bool
}

// defaultItems is the item list used when the caller configures none.
func defaultItems() []Item {
	return []Item{
		BarFill(),
		Literal(" "),
		Pos(),
		Literal("/"),
		Total(),
		Literal(" ("),
		ETA(),
		Literal(")"),
	}
}

// newTemplate validates items and returns the template. Structural and
// format errors are reported here, before the first render, never during
// rendering.
func newTemplate(items []Item) (*template, error) {
	if len(items) == 0 {
		items = defaultItems()
	}

	var fillCount int
	for _, item := range items {
		if item.err != nil {
			return nil, item.err
		}
		if item.fill != fillNone {
			fillCount++
		}
	}
	if fillCount > 1 {
		return nil, ErrMultipleFillItems
	}

	copied := make([]Item, len(items))
	copy(copied, items)
	return &template{
		items:   copied,
		hasFill: fillCount == 1,
	}, nil
}
