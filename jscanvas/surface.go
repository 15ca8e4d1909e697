//go:build js && wasm

package jscanvas

import (
	"fmt"
	"image"
	"syscall/js"

	"golang.org/x/image/draw"

	"github.com/phanxgames/arbor"
)

// Surface is an arbor.Surface over a canvas element's 2D context.
type Surface struct {
	canvas js.Value
	ctx    js.Value
	depth  int

	// Font is assigned to the context's font before FillText.
	Font string

	// images caches canvases holding the pixels of drawn image.Image values.
	images map[image.Image]js.Value
}

var (
	_ arbor.Surface     = (*Surface)(nil)
	_ arbor.Snapshotter = (*Surface)(nil)
)

// NewSurface returns a surface drawing on canvas, an HTMLCanvasElement.
func NewSurface(canvas js.Value) *Surface {
	return &Surface{
		canvas: canvas,
		ctx:    canvas.Call("getContext", "2d"),
		Font:   "13px monospace",
		images: make(map[image.Image]js.Value),
	}
}

// Canvas returns the canvas element.
func (s *Surface) Canvas() js.Value { return s.canvas }

func (s *Surface) Size() (int, int) {
	return s.canvas.Get("width").Int(), s.canvas.Get("height").Int()
}

// ClearRect clears in canvas pixels regardless of the current transform.
func (s *Surface) ClearRect(x, y, w, h float64) {
	s.ctx.Call("save")
	s.ctx.Call("setTransform", 1, 0, 0, 1, 0, 0)
	s.ctx.Call("clearRect", x, y, w, h)
	s.ctx.Call("restore")
}

func (s *Surface) Save() {
	s.ctx.Call("save")
	s.depth++
}

// Restore pops a state saved with Save. Unbalanced calls are ignored.
func (s *Surface) Restore() {
	if s.depth == 0 {
		return
	}
	s.ctx.Call("restore")
	s.depth--
}

// Depth returns the number of states saved and not yet restored.
func (s *Surface) Depth() int { return s.depth }

// ResetState restores every saved state and resets the transform and
// alpha. The stage calls it after a recovered frame panic.
func (s *Surface) ResetState() {
	for s.depth > 0 {
		s.Restore()
	}
	s.ctx.Call("setTransform", 1, 0, 0, 1, 0, 0)
	s.ctx.Set("globalAlpha", 1)
}

func (s *Surface) SetTransform(a, b, c, d, e, f float64) {
	s.ctx.Call("setTransform", a, b, c, d, e, f)
}

func (s *Surface) Translate(x, y float64)   { s.ctx.Call("translate", x, y) }
func (s *Surface) Scale(sx, sy float64)     { s.ctx.Call("scale", sx, sy) }
func (s *Surface) Rotate(radians float64)   { s.ctx.Call("rotate", radians) }
func (s *Surface) SetGlobalAlpha(a float64) { s.ctx.Set("globalAlpha", min(max(a, 0), 1)) }

func (s *Surface) FillRect(x, y, w, h float64, c arbor.Color) {
	s.ctx.Set("fillStyle", cssColor(c))
	s.ctx.Call("fillRect", x, y, w, h)
}

func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c arbor.Color) {
	if lineWidth <= 0 {
		return
	}
	s.ctx.Set("strokeStyle", cssColor(c))
	s.ctx.Set("lineWidth", lineWidth)
	s.ctx.Call("strokeRect", x, y, w, h)
}

// DrawImage draws img through the current transform. The first draw of an
// image copies its pixels into an offscreen canvas that later draws reuse.
func (s *Surface) DrawImage(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	src, ok := s.images[img]
	if !ok {
		src = s.upload(img)
		s.images[img] = src
	}
	s.ctx.Call("drawImage", src, x, y)
}

func (s *Surface) upload(img image.Image) js.Value {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	data := js.Global().Get("Uint8ClampedArray").New(len(rgba.Pix))
	js.CopyBytesToJS(data, rgba.Pix)
	imageData := js.Global().Get("ImageData").New(data, b.Dx(), b.Dy())

	off := js.Global().Get("document").Call("createElement", "canvas")
	off.Set("width", b.Dx())
	off.Set("height", b.Dy())
	off.Call("getContext", "2d").Call("putImageData", imageData, 0, 0)
	return off
}

// Forget drops the cached copy of img.
func (s *Surface) Forget(img image.Image) {
	delete(s.images, img)
}

func (s *Surface) FillText(text string, x, y float64, c arbor.Color) {
	s.ctx.Set("font", s.Font)
	s.ctx.Set("fillStyle", cssColor(c))
	s.ctx.Call("fillText", text, x, y)
}

// MeasureText returns the advance width of text in Font.
func (s *Surface) MeasureText(text string) float64 {
	s.ctx.Set("font", s.Font)
	return s.ctx.Call("measureText", text).Get("width").Float()
}

// Snapshot reads the canvas pixels with getImageData.
func (s *Surface) Snapshot() image.Image {
	w, h := s.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	data := s.ctx.Call("getImageData", 0, 0, w, h).Get("data")
	js.CopyBytesToGo(img.Pix, data)
	return img
}

func cssColor(c arbor.Color) string {
	n := c.NRGBA()
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", n.R, n.G, n.B, float64(n.A)/255)
}
