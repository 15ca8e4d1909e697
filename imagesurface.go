package arbor

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// ImageSurface is a software Surface over an *image.RGBA. It needs no GPU or
// window, which makes it the surface for headless rendering, golden-image
// tests and screenshots.
type ImageSurface struct {
	StateStack
	img *image.RGBA

	// Face is the font used by FillText. Defaults to basicfont.Face7x13.
	Face font.Face
	// Interpolator resamples images and shapes. Defaults to
	// draw.NearestNeighbor, which keeps rectangle edges hard.
	Interpolator draw.Interpolator
}

var (
	_ Surface     = (*ImageSurface)(nil)
	_ Snapshotter = (*ImageSurface)(nil)
)

// NewImageSurface allocates a transparent surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img:          image.NewRGBA(image.Rect(0, 0, width, height)),
		Face:         basicfont.Face7x13,
		Interpolator: draw.NearestNeighbor,
	}
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. It is drawn into on every call.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Snapshot returns a copy of the current pixels.
func (s *ImageSurface) Snapshot() image.Image {
	cp := image.NewRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

func (s *ImageSurface) ClearRect(x, y, w, h float64) {
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

// aff3 converts a [a, b, c, d, tx, ty] matrix to the row-major form the
// x/image transformers take.
func aff3(m [6]float64) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// FillRect maps a 1x1 uniform source onto the rectangle through the current
// transform, so rotated and scaled fills come out right.
func (s *ImageSurface) FillRect(x, y, w, h float64, c Color) {
	if w == 0 || h == 0 {
		return
	}
	st := s.Current()
	m := multiplyAffine(st.Matrix, [6]float64{w, 0, 0, h, x, y})
	src := image.NewUniform(c.WithAlpha(st.Alpha))
	s.Interpolator.Transform(s.img, aff3(m), src, image.Rect(0, 0, 1, 1), draw.Over, nil)
}

// StrokeRect draws four edge bands centered on the rectangle's outline.
func (s *ImageSurface) StrokeRect(x, y, w, h, lineWidth float64, c Color) {
	if lineWidth <= 0 {
		return
	}
	hw := lineWidth / 2
	s.FillRect(x-hw, y-hw, w+lineWidth, lineWidth, c)
	s.FillRect(x-hw, y+h-hw, w+lineWidth, lineWidth, c)
	s.FillRect(x-hw, y+hw, lineWidth, h-lineWidth, c)
	s.FillRect(x+w-hw, y+hw, lineWidth, h-lineWidth, c)
}

func (s *ImageSurface) DrawImage(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	st := s.Current()
	b := img.Bounds()
	m := multiplyAffine(st.Matrix, [6]float64{1, 0, 0, 1, x - float64(b.Min.X), y - float64(b.Min.Y)})
	var opts *draw.Options
	if st.Alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(st.Alpha * 0xffff)})}
	}
	s.Interpolator.Transform(s.img, aff3(m), img, b, draw.Over, opts)
}

// FillText draws text with its baseline origin at (x, y). The origin is
// placed by the current transform; glyphs are not scaled or rotated.
func (s *ImageSurface) FillText(text string, x, y float64, c Color) {
	st := s.Current()
	px, py := transformPoint(st.Matrix, x, y)
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c.WithAlpha(st.Alpha)),
		Face: s.Face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(px * 64), Y: fixed.Int26_6(py * 64)},
	}
	d.DrawString(text)
}

// MeasureText returns the advance width of text in the surface font.
func (s *ImageSurface) MeasureText(text string) float64 {
	return float64(font.MeasureString(s.Face, text)) / 64
}
