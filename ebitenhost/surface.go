package ebitenhost

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/arbor"
)

// whitePixel is a 1x1 white image scaled and tinted for solid fills.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(arbor.ColorWhite)
}

// Surface is an arbor.Surface over an offscreen *ebiten.Image. The host
// copies it to the screen every Draw.
type Surface struct {
	arbor.StateStack
	canvas *ebiten.Image

	// Face is the font used by FillText. Defaults to basicfont.Face7x13.
	Face text.Face

	// images caches GPU copies of the image.Image values passed to DrawImage.
	images map[image.Image]*ebiten.Image
}

var (
	_ arbor.Surface     = (*Surface)(nil)
	_ arbor.Snapshotter = (*Surface)(nil)
)

// NewSurface allocates a transparent width x height canvas.
func NewSurface(width, height int) *Surface {
	return &Surface{
		canvas: ebiten.NewImage(width, height),
		Face:   text.NewGoXFace(basicfont.Face7x13),
		images: make(map[image.Image]*ebiten.Image),
	}
}

// Image returns the canvas.
func (s *Surface) Image() *ebiten.Image { return s.canvas }

func (s *Surface) Size() (int, int) {
	b := s.canvas.Bounds()
	return b.Dx(), b.Dy()
}

// Snapshot reads the canvas back from the GPU. Pixels can only be read
// while the game is running, which is when the stage flushes screenshots.
func (s *Surface) Snapshot() image.Image {
	b := s.canvas.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	s.canvas.ReadPixels(img.Pix)
	return img
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	r := image.Rect(int(x), int(y), int(x+w+0.5), int(y+h+0.5)).Intersect(s.canvas.Bounds())
	if r.Empty() {
		return
	}
	if r == s.canvas.Bounds() {
		s.canvas.Clear()
		return
	}
	s.canvas.SubImage(r).(*ebiten.Image).Clear()
}

// geoM converts the current transform to an ebiten.GeoM.
func (s *Surface) geoM() ebiten.GeoM {
	m := s.Current().Matrix
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

func (s *Surface) FillRect(x, y, w, h float64, c arbor.Color) {
	if w == 0 || h == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geoM())
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(s.Current().Alpha))
	s.canvas.DrawImage(whitePixel, op)
}

// StrokeRect draws four edge bands centered on the rectangle's outline.
func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c arbor.Color) {
	if lineWidth <= 0 {
		return
	}
	hw := lineWidth / 2
	s.FillRect(x-hw, y-hw, w+lineWidth, lineWidth, c)
	s.FillRect(x-hw, y+h-hw, w+lineWidth, lineWidth, c)
	s.FillRect(x-hw, y+hw, lineWidth, h-lineWidth, c)
	s.FillRect(x+w-hw, y+hw, lineWidth, h-lineWidth, c)
}

func (s *Surface) DrawImage(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	ei, ok := img.(*ebiten.Image)
	if !ok {
		if ei, ok = s.images[img]; !ok {
			ei = ebiten.NewImageFromImage(img)
			s.images[img] = ei
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geoM())
	op.ColorScale.ScaleAlpha(float32(s.Current().Alpha))
	s.canvas.DrawImage(ei, op)
}

// FillText draws text with its baseline origin at (x, y), through the
// current transform.
func (s *Surface) FillText(str string, x, y float64, c arbor.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-s.Face.Metrics().HAscent)
	op.GeoM.Concat(s.geoM())
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(s.Current().Alpha))
	text.Draw(s.canvas, str, s.Face, op)
}

// MeasureText returns the advance width of str in the surface font.
func (s *Surface) MeasureText(str string) float64 {
	return text.Advance(str, s.Face)
}

// Forget drops the cached GPU copy of img, for images that change or are no
// longer drawn.
func (s *Surface) Forget(img image.Image) {
	if ei, ok := s.images[img]; ok {
		ei.Deallocate()
		delete(s.images, img)
	}
}
