package slideshow

import (
	"time"
)

// The post list is browsed as a vertical slideshow: one focused post in the
// middle, neighbours peeking from above and below, everything further away
// hidden. Navigator owns the focused-index cursor; the per-item visual state
// is a pure function of the distance to it.

// WheelCooldown is how long wheel input is ignored after a wheel-triggered
// transition, so one physical scroll gesture moves the cursor exactly once.
const WheelCooldown = 700 * time.Millisecond

// Placement is the visual state of a single list item.
type Placement struct {
	// OffsetPercent is the vertical translation relative to the centered
	// slot; negative is up (items before the cursor).
	OffsetPercent float64
	Opacity       float64
	ZIndex        int
	Hidden        bool
	// Interactive is true only for the focused item; all others ignore
	// pointer input.
	Interactive bool
}

type Navigator struct {
	count  int
	cursor int

	lastWheelMove time.Time
	now           func() time.Time
}

func NewNavigator(count int) *Navigator {
	return &Navigator{
		count: count,
		now:   time.Now,
	}
}

func (n *Navigator) Cursor() int {
	return n.cursor
}

func (n *Navigator) Count() int {
	return n.count
}

// SetCount adjusts to a changed post list, clamping the cursor back into
// range when the list shrank.
func (n *Navigator) SetCount(count int) {
	n.count = count
	if n.cursor >= count {
		n.cursor = count - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}

// Up moves the cursor one post back; a no-op at the first post.
func (n *Navigator) Up() {
	if n.cursor > 0 {
		n.cursor--
	}
}

// Down moves the cursor one post forward; a no-op at the last post.
func (n *Navigator) Down() {
	if n.cursor < n.count-1 {
		n.cursor++
	}
}

// Select jumps straight to the given index; out-of-range values are ignored.
func (n *Navigator) Select(index int) {
	if index >= 0 && index < n.count {
		n.cursor = index
	}
}

// Wheel maps scroll input to a single cursor transition, rate limited to
// one transition per cool-down window. Positive delta scrolls down.
// It reports whether the cursor moved.
func (n *Navigator) Wheel(delta float64) bool {
	if delta == 0 {
		return false
	}

	now := n.now()
	if now.Sub(n.lastWheelMove) < WheelCooldown {
		return false
	}

	before := n.cursor
	if delta > 0 {
		n.Down()
	} else {
		n.Up()
	}

	if n.cursor == before {
		return false
	}
	n.lastWheelMove = now
	return true
}

// Placement derives the visual state of the item at the given index from
// its distance to the cursor. Pure - no state beyond the cursor itself.
func (n *Navigator) Placement(index int) Placement {
	d := index - n.cursor
	distance := d
	if distance < 0 {
		distance = -distance
	}

	switch {
	case d == 0:
		return Placement{Opacity: 1, ZIndex: 10, Interactive: true}
	case distance == 1:
		return Placement{
			OffsetPercent: float64(sign(d)) * 120,
			Opacity:       0.6,
			ZIndex:        5,
		}
	case distance <= 2:
		offset := 140 + float64(distance-1)*30
		opacity := 0.6 - float64(distance-1)*0.2
		if opacity < 0.2 {
			opacity = 0.2
		}
		zIndex := 5 - distance
		if zIndex < 1 {
			zIndex = 1
		}
		return Placement{
			OffsetPercent: float64(sign(d)) * offset,
			Opacity:       opacity,
			ZIndex:        zIndex,
		}
	default:
		return Placement{Hidden: true}
	}
}

func sign(d int) int {
	if d < 0 {
		return -1
	}
	return 1
}
