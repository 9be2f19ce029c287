package sprite

// SortMode selects how sprites submitted between Begin and End are ordered
// before being grouped into draw calls.
//
type SortMode int

const (
	// Deferred preserves submission order. Sprites are buffered until End.
	Deferred SortMode = iota
	// Immediate draws every sprite as soon as it is submitted.
	Immediate
	// Texture sorts sprites by texture in order to get the longest possible
	// runs, ignoring depth.
	Texture
	// BackToFront sorts sprites by decreasing sort key, which is the negated
	// depth: sprites with a lower depth are drawn first.
	BackToFront
	// FrontToBack sorts sprites by decreasing depth.
	FrontToBack
)

// Sorted returns true if sprites submitted in this mode get reordered.
//
func (m SortMode) Sorted() bool {
	return m == Texture || m == BackToFront || m == FrontToBack
}

func (m SortMode) String() string {
	switch m {
	case Deferred:
		return "Deferred"
	case Immediate:
		return "Immediate"
	case Texture:
		return "Texture"
	case BackToFront:
		return "BackToFront"
	case FrontToBack:
		return "FrontToBack"
	}
	return "SortMode(?)"
}

// Flip is a set of flags to mirror sprites.
//
type Flip uint8

const (
	FlipNone         Flip = 0
	FlipHorizontally Flip = 1
	FlipVertically   Flip = 2
)

// Horizontal returns true if the horizontal flag is set.
//
func (f Flip) Horizontal() bool { return f&FlipHorizontally != 0 }

// Vertical returns true if the vertical flag is set.
//
func (f Flip) Vertical() bool { return f&FlipVertically != 0 }
