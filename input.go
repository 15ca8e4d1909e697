package arbor

import "fmt"

// HitShape is a custom hit area tested in the object's local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Point
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Hit testing ---

// containsLocal tests whether (lx, ly) falls inside an object's hit region.
// Uses the HitShape if set; otherwise the local bounds. Objects with empty
// bounds, such as plain containers, are not hit themselves.
func containsLocal(o *DisplayObject, lx, ly float64) bool {
	if o.hitShape != nil {
		return o.hitShape.Contains(lx, ly)
	}
	b := o.localBounds()
	if b.Width == 0 && b.Height == 0 {
		return false
	}
	return b.Contains(lx, ly)
}

// HitTestPoint reports whether the stage point p falls inside o's hit
// region. Objects that are not stage-rooted never hit.
func (o *DisplayObject) HitTestPoint(p Point) bool {
	lp, err := o.GlobalToLocal(p)
	if err != nil {
		return false
	}
	return containsLocal(o, lp.X, lp.Y)
}

// HitTestObject reports whether the rectangles of o and other, both taken
// in o's GetRect space, intersect.
func (o *DisplayObject) HitTestObject(other *DisplayObject) bool {
	if other == nil {
		return false
	}
	a, err := o.GetRect(o)
	if err != nil {
		return false
	}
	b, err := other.GetRect(o)
	if err != nil {
		return false
	}
	return a.Intersects(b)
}

// HitTest accepts a Point (stage coordinates) or a *DisplayObject and
// dispatches to HitTestPoint or HitTestObject. Any other argument fails
// with ErrInvalidArgument; a point test on an object that is not
// stage-rooted fails with ErrNoStage.
func (o *DisplayObject) HitTest(target any) (bool, error) {
	switch t := target.(type) {
	case Point:
		if o.stage == nil {
			return false, fmt.Errorf("HitTest: %w: %s", ErrNoStage, o)
		}
		return o.HitTestPoint(t), nil
	case *Point:
		if t == nil {
			break
		}
		return o.HitTest(*t)
	case *DisplayObject:
		if t == nil {
			break
		}
		return o.HitTestObject(t), nil
	}
	return false, fmt.Errorf("%w: HitTest(%T)", ErrInvalidArgument, target)
}

// GetObjectsUnderPoint returns every visible descendant whose hit region
// contains p, given in o's local space. The walk is depth first, pre-order,
// in child index order: results run back to front, matching paint order,
// and a matching container precedes its matching children. Works whether or
// not o is on a stage.
func (o *DisplayObject) GetObjectsUnderPoint(p Point) []*DisplayObject {
	var out []*DisplayObject
	return o.collectUnderPoint(p, out)
}

func (o *DisplayObject) collectUnderPoint(p Point, buf []*DisplayObject) []*DisplayObject {
	for _, child := range o.children {
		if !child.visible {
			continue
		}
		lp, ok := parentToLocal(child, p)
		if !ok {
			continue
		}
		if containsLocal(child, lp.X, lp.Y) {
			buf = append(buf, child)
		}
		if len(child.children) > 0 {
			buf = child.collectUnderPoint(lp, buf)
		}
	}
	return buf
}
