package arbor

import (
	"fmt"
	"math"
)

// Point is a 2D position or vector. Operations return new values; CopyFrom
// is the only mutating method.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Subtract returns p - q.
func (p Point) Subtract(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Offset returns p translated by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Length returns the distance from the origin to p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns p scaled to the given length. The zero point is
// returned unchanged.
func (p Point) Normalize(length float64) Point {
	l := p.Length()
	if l == 0 {
		return p
	}
	f := length / l
	return Point{p.X * f, p.Y * f}
}

// Equals reports whether p and q have identical coordinates.
func (p Point) Equals(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// CopyFrom sets p to q.
func (p *Point) CopyFrom(q Point) {
	*p = q
}

func (p Point) String() string {
	return fmt.Sprintf("(x=%g, y=%g)", p.X, p.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Interpolate returns the point at fraction f between b and a:
// f=1 yields a, f=0 yields b.
func Interpolate(a, b Point, f float64) Point {
	return Point{
		X: b.X + (a.X-b.X)*f,
		Y: b.Y + (a.Y-b.Y)*f,
	}
}

// Polar returns the point at the given length and angle (radians) from
// the origin.
func Polar(length, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{length * cos, length * sin}
}

// Rectangle is an axis-aligned rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rectangle struct {
	X, Y, Width, Height float64
}

// Rect builds a Rectangle, moving the origin so that width and height are
// never negative.
func Rect(x, y, w, h float64) Rectangle {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

func (r Rectangle) Left() float64   { return r.X }
func (r Rectangle) Top() float64    { return r.Y }
func (r Rectangle) Right() float64  { return r.X + r.Width }
func (r Rectangle) Bottom() float64 { return r.Y + r.Height }

// Size returns (Width, Height) as a Point.
func (r Rectangle) Size() Point {
	return Point{r.Width, r.Height}
}

func (r Rectangle) TopLeft() Point     { return Point{r.X, r.Y} }
func (r Rectangle) BottomRight() Point { return Point{r.Right(), r.Bottom()} }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsPoint is Contains for a Point.
func (r Rectangle) ContainsPoint(p Point) bool {
	return r.Contains(p.X, p.Y)
}

// ContainsRect reports whether o lies entirely inside r, edges included.
func (r Rectangle) ContainsRect(o Rectangle) bool {
	return o.X >= r.X && o.Right() <= r.Right() &&
		o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping region of r and other. ok is false,
// and the rectangle zero, when they are disjoint.
func (r Rectangle) Intersection(other Rectangle) (Rectangle, bool) {
	if !r.Intersects(other) {
		return Rectangle{}, false
	}
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.Right(), other.Right())
	y1 := min(r.Bottom(), other.Bottom())
	return Rectangle{x0, y0, x1 - x0, y1 - y0}, true
}

// Union returns the smallest rectangle containing both r and other.
func (r Rectangle) Union(other Rectangle) Rectangle {
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.Right(), other.Right())
	y1 := max(r.Bottom(), other.Bottom())
	return Rectangle{x0, y0, x1 - x0, y1 - y0}
}

// Inflate grows r by dx on the left and right and dy on the top and bottom.
func (r Rectangle) Inflate(dx, dy float64) Rectangle {
	return Rectangle{r.X - dx, r.Y - dy, r.Width + 2*dx, r.Height + 2*dy}
}

// InflatePoint is Inflate with the amounts taken from p.
func (r Rectangle) InflatePoint(p Point) Rectangle {
	return r.Inflate(p.X, p.Y)
}

// Offset returns r translated by (dx, dy).
func (r Rectangle) Offset(dx, dy float64) Rectangle {
	r.X += dx
	r.Y += dy
	return r
}

// OffsetPoint is Offset with the amounts taken from p.
func (r Rectangle) OffsetPoint(p Point) Rectangle {
	return r.Offset(p.X, p.Y)
}

// IsEmpty reports whether r has no area.
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Equals reports whether r and other are identical.
func (r Rectangle) Equals(other Rectangle) bool {
	return r == other
}

// CopyFrom sets r to other.
func (r *Rectangle) CopyFrom(other Rectangle) {
	*r = other
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(x=%g, y=%g, w=%g, h=%g)", r.X, r.Y, r.Width, r.Height)
}
