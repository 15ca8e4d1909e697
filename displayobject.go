package arbor

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
)

// Renderable is the paint lifecycle. PreRender pushes the object's cumulative
// transform and alpha onto the surface, Render paints, PostRender pops.
type Renderable interface {
	PreRender(s Surface)
	Render(s Surface)
	PostRender(s Surface)
}

// Container is the child-management capability.
type Container interface {
	AddChild(child *DisplayObject) *DisplayObject
	AddChildAt(child *DisplayObject, index int) (*DisplayObject, error)
	RemoveChild(child *DisplayObject) bool
	RemoveChildAt(index int) *DisplayObject
	GetChildAt(index int) *DisplayObject
	GetChildIndex(child *DisplayObject) int
	GetChildByName(name string) *DisplayObject
	SetChildIndex(child *DisplayObject, index int) error
	SwapChildren(a, b *DisplayObject) bool
	SwapChildrenAt(i, j int) bool
	Contains(o *DisplayObject) bool
	NumChildren() int
	GetObjectsUnderPoint(p Point) []*DisplayObject
}

var (
	_ Renderable = (*DisplayObject)(nil)
	_ Container  = (*DisplayObject)(nil)
)

// --- Instance IDs ---

var instanceCounter atomic.Uint64

func nextInstanceID() uint64 {
	return instanceCounter.Add(1)
}

// ResetInstanceIDs restarts the counter behind default instance names.
// Intended for tests that assert on generated names.
func ResetInstanceIDs() {
	instanceCounter.Store(0)
}

// --- DisplayObject ---

// DisplayObject is the element of the display list. One flat struct serves
// every Kind: leaves, containers, sprites, bitmaps and the stage's root.
// Fields are reached through accessors so setters can validate.
type DisplayObject struct {
	EventDispatcher

	id   uint64
	name string
	kind Kind

	// Hierarchy. parent and stage are back references and never own.
	parent   *DisplayObject
	stage    *Stage
	children []*DisplayObject

	// Transform (local). rotation is in degrees.
	x, y           float64
	scaleX, scaleY float64
	rotation       float64
	alpha          float64

	visible      bool
	mouseEnabled bool

	// Intrinsic (unscaled) size. Zero means derived from content.
	width, height float64

	hitShape HitShape
	graphics *Graphics
	image    image.Image

	// Computed during the render traversal.
	worldTransform [6]float64
	worldAlpha     float64

	// UserData is free for application use.
	UserData any
}

func objectDefaults(o *DisplayObject, name string, kind Kind) *DisplayObject {
	o.id = nextInstanceID()
	o.kind = kind
	o.name = name
	if o.name == "" {
		o.name = fmt.Sprintf("instance%d", o.id)
	}
	o.scaleX = 1
	o.scaleY = 1
	o.alpha = 1
	o.visible = true
	o.mouseEnabled = true
	o.worldTransform = identityTransform
	o.worldAlpha = 1
	o.EventDispatcher.target = o
	return o
}

// NewDisplayObject creates a leaf object with no built-in paint. Give it a
// size with SetSize and draw it from a RENDER listener. An empty name is
// replaced by "instanceN".
func NewDisplayObject(name string) *DisplayObject {
	return objectDefaults(&DisplayObject{}, name, KindObject)
}

// NewContainer creates a container with no visual output of its own.
func NewContainer(name string) *DisplayObject {
	return objectDefaults(&DisplayObject{}, name, KindContainer)
}

// NewSprite creates a container with an empty Graphics list.
func NewSprite(name string) *DisplayObject {
	o := objectDefaults(&DisplayObject{}, name, KindSprite)
	o.graphics = &Graphics{}
	return o
}

// NewBitmap creates a leaf that draws img at its origin. img may be nil and
// set later with SetImage.
func NewBitmap(name string, img image.Image) *DisplayObject {
	o := objectDefaults(&DisplayObject{}, name, KindBitmap)
	o.image = img
	return o
}

// --- Identity ---

func (o *DisplayObject) ID() uint64       { return o.id }
func (o *DisplayObject) Name() string     { return o.name }
func (o *DisplayObject) SetName(n string) { o.name = n }
func (o *DisplayObject) Kind() Kind       { return o.kind }

// Parent returns the containing object, or nil.
func (o *DisplayObject) Parent() *DisplayObject { return o.parent }

// Stage returns the stage this object is rooted at, or nil.
func (o *DisplayObject) Stage() *Stage { return o.stage }

// Root returns the topmost ancestor, which is o itself when unattached.
func (o *DisplayObject) Root() *DisplayObject {
	n := o
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// --- Transform properties ---

func (o *DisplayObject) X() float64 { return o.x }
func (o *DisplayObject) Y() float64 { return o.y }

func (o *DisplayObject) SetX(x float64) { o.x = x }
func (o *DisplayObject) SetY(y float64) { o.y = y }

// SetPosition sets x and y in the parent's coordinate space.
func (o *DisplayObject) SetPosition(x, y float64) {
	o.x = x
	o.y = y
}

// Position returns (x, y) as a Point.
func (o *DisplayObject) Position() Point { return Point{o.x, o.y} }

func (o *DisplayObject) ScaleX() float64 { return o.scaleX }
func (o *DisplayObject) ScaleY() float64 { return o.scaleY }

func (o *DisplayObject) SetScaleX(s float64) { o.scaleX = s }
func (o *DisplayObject) SetScaleY(s float64) { o.scaleY = s }

func (o *DisplayObject) SetScale(sx, sy float64) {
	o.scaleX = sx
	o.scaleY = sy
}

// Rotation returns the clockwise rotation in degrees.
func (o *DisplayObject) Rotation() float64 { return o.rotation }

// SetRotation sets the clockwise rotation in degrees.
func (o *DisplayObject) SetRotation(deg float64) { o.rotation = deg }

func (o *DisplayObject) Alpha() float64 { return o.alpha }

// SetAlpha sets the opacity multiplier. Negative values clamp to 0; values
// above 1 are kept so tweens can overshoot, but the surface clamps them.
func (o *DisplayObject) SetAlpha(a float64) {
	o.alpha = max(a, 0)
}

func (o *DisplayObject) Visible() bool     { return o.visible }
func (o *DisplayObject) SetVisible(v bool) { o.visible = v }

// MouseEnabled reports whether the stage delivers mouse events to o.
func (o *DisplayObject) MouseEnabled() bool     { return o.mouseEnabled }
func (o *DisplayObject) SetMouseEnabled(v bool) { o.mouseEnabled = v }

// --- Size ---

// SetSize sets the intrinsic (unscaled) size. Negative values clamp to 0.
func (o *DisplayObject) SetSize(w, h float64) {
	o.width = max(w, 0)
	o.height = max(h, 0)
}

// IntrinsicSize returns the unscaled content size used for bounds.
func (o *DisplayObject) IntrinsicSize() (w, h float64) {
	b := o.localBounds()
	return b.Width, b.Height
}

// Width returns the scaled width.
func (o *DisplayObject) Width() float64 {
	return o.localBounds().Width * math.Abs(o.scaleX)
}

// Height returns the scaled height.
func (o *DisplayObject) Height() float64 {
	return o.localBounds().Height * math.Abs(o.scaleY)
}

// SetWidth scales the object so that Width returns w. It is a no-op when
// the intrinsic width is 0. Negative values clamp to 0.
func (o *DisplayObject) SetWidth(w float64) {
	base := o.localBounds().Width
	if base == 0 {
		return
	}
	o.scaleX = max(w, 0) / base
}

// SetHeight scales the object so that Height returns h. It is a no-op when
// the intrinsic height is 0. Negative values clamp to 0.
func (o *DisplayObject) SetHeight(h float64) {
	base := o.localBounds().Height
	if base == 0 {
		return
	}
	o.scaleY = max(h, 0) / base
}

// localBounds returns the unscaled content rectangle in local space:
// explicit size first, then the sprite's graphics, then the bitmap's image.
func (o *DisplayObject) localBounds() Rectangle {
	if o.width > 0 || o.height > 0 {
		return Rectangle{0, 0, o.width, o.height}
	}
	if o.graphics != nil {
		if b := o.graphics.Bounds(); !b.IsEmpty() {
			return b
		}
	}
	if o.image != nil {
		sz := o.image.Bounds().Size()
		return Rectangle{0, 0, float64(sz.X), float64(sz.Y)}
	}
	return Rectangle{}
}

// Bounds returns the unscaled content rectangle in local space.
func (o *DisplayObject) Bounds() Rectangle { return o.localBounds() }

// --- Content ---

// Graphics returns the command list of a sprite, or nil for other kinds.
func (o *DisplayObject) Graphics() *Graphics { return o.graphics }

// Image returns the bitmap's image.
func (o *DisplayObject) Image() image.Image { return o.image }

// SetImage replaces the bitmap's image.
func (o *DisplayObject) SetImage(img image.Image) { o.image = img }

// HitShape returns the custom hit area, or nil.
func (o *DisplayObject) HitShape() HitShape { return o.hitShape }

// SetHitShape overrides the bounds used for point hit tests. nil restores
// the default.
func (o *DisplayObject) SetHitShape(h HitShape) { o.hitShape = h }

func (o *DisplayObject) String() string {
	return fmt.Sprintf("%s %q", o.kind, o.name)
}
