package arbor

import (
	"image"
	"math"
)

// Surface is the drawing target of a stage. Its model follows the 2D canvas:
// a current affine transform and global alpha that Save and Restore push and
// pop, and primitives addressed in the current transform's space.
type Surface interface {
	Size() (width, height int)
	// ClearRect clears a rectangle given in surface pixels, ignoring the
	// current transform.
	ClearRect(x, y, w, h float64)
	Save()
	Restore()
	// SetTransform replaces the current transform with
	//
	//	| a  c  e |
	//	| b  d  f |
	SetTransform(a, b, c, d, e, f float64)
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(radians float64)
	SetGlobalAlpha(alpha float64)
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h, lineWidth float64, c Color)
	DrawImage(img image.Image, x, y float64)
	FillText(text string, x, y float64, c Color)
}

// Snapshotter is implemented by surfaces whose pixels can be read back,
// which Stage.Screenshot requires.
type Snapshotter interface {
	Snapshot() image.Image
}

// SurfaceState is the transform and alpha a surface draws with.
type SurfaceState struct {
	Matrix [6]float64
	Alpha  float64
}

// StateStack implements the transform half of Surface. Concrete surfaces
// embed it and read Current when drawing.
type StateStack struct {
	cur   SurfaceState
	stack []SurfaceState
	init  bool
}

func (s *StateStack) ensure() {
	if !s.init {
		s.cur = SurfaceState{Matrix: identityTransform, Alpha: 1}
		s.init = true
	}
}

// Current returns the active state.
func (s *StateStack) Current() SurfaceState {
	s.ensure()
	return s.cur
}

// Depth returns the number of saved states.
func (s *StateStack) Depth() int { return len(s.stack) }

func (s *StateStack) Save() {
	s.ensure()
	s.stack = append(s.stack, s.cur)
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (s *StateStack) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// ResetState drops saved states and returns to identity and full opacity.
func (s *StateStack) ResetState() {
	s.stack = s.stack[:0]
	s.cur = SurfaceState{Matrix: identityTransform, Alpha: 1}
	s.init = true
}

func (s *StateStack) SetTransform(a, b, c, d, e, f float64) {
	s.ensure()
	s.cur.Matrix = [6]float64{a, b, c, d, e, f}
}

func (s *StateStack) Translate(x, y float64) {
	s.ensure()
	s.cur.Matrix = multiplyAffine(s.cur.Matrix, [6]float64{1, 0, 0, 1, x, y})
}

func (s *StateStack) Scale(sx, sy float64) {
	s.ensure()
	s.cur.Matrix = multiplyAffine(s.cur.Matrix, [6]float64{sx, 0, 0, sy, 0, 0})
}

func (s *StateStack) Rotate(radians float64) {
	s.ensure()
	sin, cos := math.Sincos(radians)
	s.cur.Matrix = multiplyAffine(s.cur.Matrix, [6]float64{cos, sin, -sin, cos, 0, 0})
}

func (s *StateStack) SetGlobalAlpha(alpha float64) {
	s.ensure()
	s.cur.Alpha = min(max(alpha, 0), 1)
}
