package arbor

import (
	"errors"
	"image/color"
)

// Sentinel errors. Callers match them with errors.Is; the package wraps them
// with operation context.
var (
	// ErrInvalidArgument reports programmer misuse: empty event types, nil
	// listeners or children, cycles, unsupported hit-test targets.
	ErrInvalidArgument = errors.New("arbor: invalid argument")
	// ErrIndexOutOfRange reports a child index outside the valid range.
	ErrIndexOutOfRange = errors.New("arbor: index out of range")
	// ErrNotFound reports that an object is not a child of the container.
	ErrNotFound = errors.New("arbor: not found")
	// ErrNoStage reports a coordinate query on an object not rooted at a stage.
	ErrNoStage = errors.New("arbor: object is not on a stage")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Color implements color.Color, premultiplying on conversion.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA returns alpha-premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	cl := func(v float64) float64 { return min(max(v, 0), 1) }
	alpha := cl(c.A)
	r = uint32(cl(c.R) * alpha * 0xffff)
	g = uint32(cl(c.G) * alpha * 0xffff)
	b = uint32(cl(c.B) * alpha * 0xffff)
	a = uint32(alpha * 0xffff)
	return
}

// NRGBA converts c to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	cl := func(v float64) uint8 { return uint8(min(max(v, 0), 1)*255 + 0.5) }
	return color.NRGBA{R: cl(c.R), G: cl(c.G), B: cl(c.B), A: cl(c.A)}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Kind distinguishes the behavior of a DisplayObject.
type Kind uint8

const (
	KindObject    Kind = iota // leaf with no children and no built-in paint
	KindContainer             // group with an ordered child list
	KindSprite                // container with a Graphics command list
	KindBitmap                // leaf that draws an image
	KindStage                 // root container bound to a surface and ticker
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindContainer:
		return "container"
	case KindSprite:
		return "sprite"
	case KindBitmap:
		return "bitmap"
	case KindStage:
		return "stage"
	default:
		return "unknown"
	}
}

// IsContainer reports whether objects of this kind can hold children.
func (k Kind) IsContainer() bool {
	return k == KindContainer || k == KindSprite || k == KindStage
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
