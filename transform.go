package arbor

import (
	"fmt"
	"math"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the object's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
func computeLocalTransform(o *DisplayObject) [6]float64 {
	sx := o.scaleX
	sy := o.scaleY
	if o.rotation == 0 {
		return [6]float64{sx, 0, 0, sy, o.x, o.y}
	}
	sin, cos := math.Sincos(o.rotation * math.Pi / 180)
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, o.x, o.y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// ok is false, and the identity returned, if the matrix is singular.
func invertAffine(m [6]float64) (inv [6]float64, ok bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// toRootSpace returns the matrix mapping o's local space into the space of
// its topmost ancestor, along with that ancestor. A stage's own transform
// is never applied: stage space is global space. Any other root's transform
// is applied, so the result is the space the root is positioned in.
func toRootSpace(o *DisplayObject) ([6]float64, *DisplayObject) {
	m := identityTransform
	n := o
	for {
		if n.kind == KindStage {
			return m, n
		}
		m = multiplyAffine(computeLocalTransform(n), m)
		if n.parent == nil {
			return m, n
		}
		n = n.parent
	}
}

// parentSpace returns the matrix into root space for the coordinate space
// o's own x and y are expressed in.
func parentSpace(o *DisplayObject) ([6]float64, *DisplayObject) {
	if o.parent == nil {
		return identityTransform, o
	}
	return toRootSpace(o.parent)
}

// --- Coordinate conversion ---

// ConcatenatedMatrix returns o's local-to-global matrix. It fails with
// ErrNoStage when o is not stage-rooted.
func (o *DisplayObject) ConcatenatedMatrix() ([6]float64, error) {
	if o.stage == nil {
		return identityTransform, fmt.Errorf("%w: %s", ErrNoStage, o)
	}
	m, _ := toRootSpace(o)
	return m, nil
}

// LocalToGlobal converts a point in o's local space to stage coordinates.
func (o *DisplayObject) LocalToGlobal(p Point) (Point, error) {
	m, err := o.ConcatenatedMatrix()
	if err != nil {
		return Point{}, fmt.Errorf("LocalToGlobal: %w", err)
	}
	x, y := transformPoint(m, p.X, p.Y)
	return Point{x, y}, nil
}

// GlobalToLocal converts a stage point to o's local space. A degenerate
// transform (zero scale) maps every point to the origin.
func (o *DisplayObject) GlobalToLocal(p Point) (Point, error) {
	m, err := o.ConcatenatedMatrix()
	if err != nil {
		return Point{}, fmt.Errorf("GlobalToLocal: %w", err)
	}
	inv, ok := invertAffine(m)
	if !ok {
		return Point{}, nil
	}
	x, y := transformPoint(inv, p.X, p.Y)
	return Point{x, y}, nil
}

// GetRect returns o's bounding rectangle positioned in the coordinate space
// where target itself is placed: target's parent space, or global space when
// target is the stage. o's origin is carried through the full transform
// chain; the width and height are o's own scaled size and are not
// transformed into target's space. obj.GetRect(obj) is therefore
// Rectangle{obj.X(), obj.Y(), obj.Width(), obj.Height()}.
//
// Off-stage objects resolve through their common root; objects with no
// common root fail with ErrNoStage. A nil target fails with
// ErrInvalidArgument.
func (o *DisplayObject) GetRect(target *DisplayObject) (Rectangle, error) {
	if target == nil {
		return Rectangle{}, fmt.Errorf("%w: GetRect with nil target", ErrInvalidArgument)
	}
	src, rootA := parentSpace(o)
	dst, rootB := parentSpace(target)
	if rootA != rootB {
		return Rectangle{}, fmt.Errorf("GetRect: %w: %s and %s share no root", ErrNoStage, o, target)
	}
	gx, gy := transformPoint(src, o.x, o.y)
	inv, ok := invertAffine(dst)
	if !ok {
		return Rectangle{0, 0, o.Width(), o.Height()}, nil
	}
	lx, ly := transformPoint(inv, gx, gy)
	return Rectangle{lx, ly, o.Width(), o.Height()}, nil
}

// parentToLocal maps a point from o's parent space into o's local space.
func parentToLocal(o *DisplayObject, p Point) (Point, bool) {
	inv, ok := invertAffine(computeLocalTransform(o))
	if !ok {
		return Point{}, false
	}
	x, y := transformPoint(inv, p.X, p.Y)
	return Point{x, y}, true
}
