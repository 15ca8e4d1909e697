package arbor

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Add(Pt(1, 2)); got != Pt(4, 6) {
		t.Errorf("Add = %v, want (4, 6)", got)
	}
	if got := p.Subtract(Pt(1, 2)); got != Pt(2, 2) {
		t.Errorf("Subtract = %v, want (2, 2)", got)
	}
	if got := p.Offset(10, -2); got != Pt(13, 2) {
		t.Errorf("Offset = %v, want (13, 2)", got)
	}
	if p.Length() != 5 {
		t.Errorf("Length = %v, want 5", p.Length())
	}
	if p != Pt(3, 4) {
		t.Errorf("receiver mutated to %v", p)
	}
}

func TestPointDistanceSymmetric(t *testing.T) {
	cases := [][2]Point{
		{Pt(0, 0), Pt(3, 4)},
		{Pt(-2, 7), Pt(5, -1)},
		{Pt(1.5, 1.5), Pt(1.5, 1.5)},
	}
	for _, c := range cases {
		if ab, ba := Distance(c[0], c[1]), Distance(c[1], c[0]); ab != ba {
			t.Errorf("Distance(%v, %v) = %v but reversed = %v", c[0], c[1], ab, ba)
		}
	}
	if d := Distance(Pt(0, 0), Pt(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestPointInterpolate(t *testing.T) {
	a, b := Pt(10, 20), Pt(0, 0)
	tests := []struct {
		f    float64
		want Point
	}{
		{1, a},
		{0, b},
		{0.25, Pt(2.5, 5)},
	}
	for _, tt := range tests {
		if got := Interpolate(a, b, tt.f); got != tt.want {
			t.Errorf("Interpolate(f=%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestPointNormalize(t *testing.T) {
	for _, p := range []Point{Pt(3, 4), Pt(-1, 0), Pt(0.001, -7), Pt(100, 100)} {
		for _, l := range []float64{1, 2.5, 10} {
			assertNear(t, p.String()+" normalized length", p.Normalize(l).Length(), l)
		}
	}
	if got := Pt(3, 4).Normalize(10); got != Pt(6, 8) {
		t.Errorf("Normalize(10) = %v, want (6, 8)", got)
	}
	if got := (Point{}).Normalize(5); got != (Point{}) {
		t.Errorf("zero point normalized to %v, want it unchanged", got)
	}
}

func TestPolar(t *testing.T) {
	assertPoint(t, "Polar(2, pi/2)", Polar(2, math.Pi/2), Pt(0, 2))
}

func TestPointCopyFrom(t *testing.T) {
	var p Point
	p.CopyFrom(Pt(1, 2))
	if !p.Equals(Pt(1, 2)) {
		t.Errorf("CopyFrom gave %v", p)
	}
}

func TestRectNormalizesNegativeSize(t *testing.T) {
	if got := Rect(10, 10, -5, -5); got != (Rectangle{5, 5, 5, 5}) {
		t.Errorf("Rect(10, 10, -5, -5) = %v, want (5, 5, 5, 5)", got)
	}
	if got := Rect(1, 2, 3, 4); got != (Rectangle{1, 2, 3, 4}) {
		t.Errorf("Rect(1, 2, 3, 4) = %v", got)
	}
}

func TestRectangleEdges(t *testing.T) {
	r := Rect(10, 20, 30, 40)
	if r.Left() != 10 || r.Top() != 20 || r.Right() != 40 || r.Bottom() != 60 {
		t.Errorf("edges = %v %v %v %v, want 10 20 40 60", r.Left(), r.Top(), r.Right(), r.Bottom())
	}
	if r.Size() != Pt(30, 40) {
		t.Errorf("Size = %v, want (30, 40)", r.Size())
	}
	if r.TopLeft() != Pt(10, 20) || r.BottomRight() != Pt(40, 60) {
		t.Errorf("corners = %v %v, want (10, 20) (40, 60)", r.TopLeft(), r.BottomRight())
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rect(0, 0, 10, 10)
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 5, 5, true},
		{"top-left corner", 0, 0, true},
		{"bottom-right corner", 10, 10, true},
		{"left of", -0.1, 5, false},
		{"below", 5, 10.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
			if got := r.ContainsPoint(Pt(tt.x, tt.y)); got != tt.want {
				t.Errorf("ContainsPoint = %v, want %v", got, tt.want)
			}
		})
	}
	if !r.ContainsRect(r) || !r.ContainsRect(Rect(2, 2, 3, 3)) {
		t.Error("ContainsRect should hold for itself and an inner rect")
	}
	if r.ContainsRect(Rect(8, 8, 3, 3)) {
		t.Error("ContainsRect should fail for a rect that pokes out")
	}
}

func TestRectangleIntersection(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rectangle
		want   Rectangle
		wantOK bool
	}{
		{"overlap", Rect(0, 0, 10, 10), Rect(5, 5, 10, 10), Rect(5, 5, 5, 5), true},
		{"contained", Rect(0, 0, 10, 10), Rect(2, 3, 4, 5), Rect(2, 3, 4, 5), true},
		{"shared edge", Rect(0, 0, 10, 10), Rect(10, 0, 5, 5), Rect(10, 0, 0, 5), true},
		{"disjoint", Rect(0, 0, 10, 10), Rect(20, 20, 5, 5), Rectangle{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersection(tt.b)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Intersection = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
			if tt.a.Intersects(tt.b) != tt.b.Intersects(tt.a) {
				t.Error("Intersects is not symmetric")
			}
			if ok != tt.a.Intersects(tt.b) {
				t.Errorf("Intersects = %v but Intersection ok = %v", tt.a.Intersects(tt.b), ok)
			}
		})
	}
}

func TestRectangleUnionAndInflate(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	tests := []struct {
		name      string
		got, want Rectangle
	}{
		{"Union overlapping", a.Union(Rect(5, 5, 10, 10)), Rect(0, 0, 15, 15)},
		{"Union to the left", a.Union(Rect(-5, 2, 1, 1)), Rect(-5, 0, 15, 10)},
		{"Inflate", a.Inflate(2, 3), Rectangle{-2, -3, 14, 16}},
		{"InflatePoint", a.InflatePoint(Pt(1, 1)), Rectangle{-1, -1, 12, 12}},
		{"Offset", a.Offset(3, 4), Rect(3, 4, 10, 10)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if a != Rect(0, 0, 10, 10) {
		t.Errorf("receiver mutated to %v", a)
	}
}

func TestRectangleEmptyAndCopy(t *testing.T) {
	if !(Rectangle{}).IsEmpty() || !Rect(0, 0, 10, 0).IsEmpty() {
		t.Error("zero-area rectangles are empty")
	}
	if Rect(0, 0, 1, 1).IsEmpty() {
		t.Error("a 1x1 rectangle is not empty")
	}

	var r Rectangle
	r.CopyFrom(Rect(1, 2, 3, 4))
	if !r.Equals(Rect(1, 2, 3, 4)) {
		t.Errorf("CopyFrom gave %v", r)
	}
}
