package geom

import (
	"math"
	"testing"
)

func TestLLRint(t *testing.T) {
	cases := []struct {
		input float64
		want  Coord
	}{
		{0.0, 0},
		{399.4, 399},
		{399.5, 400},
		{-399.5, -400},
		{-399.4, -399},
		{400.0, 400},
	}
	for _, c := range cases {
		if got := LLRint(c.input); got != c.want {
			t.Errorf("LLRint(%v) = %d, want %d", c.input, got, c.want)
		}
	}
}

func TestDistanceMM(t *testing.T) {
	a := Point3{X: 0, Y: 0, Z: 0}
	b := Point3{X: 3000, Y: 4000, Z: 0}
	if got := DistanceMM(a, b); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("DistanceMM = %v, want 5.0", got)
	}

	c := Point3{X: 1000, Y: 2000, Z: 2000}
	d := Point3{X: 1000, Y: 2000, Z: 5000}
	if got := DistanceMM(c, d); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("DistanceMM = %v, want 3.0", got)
	}
}

func TestPointArithmetic(t *testing.T) {
	a := Point3{X: 1, Y: 2, Z: 3}
	b := Point3{X: 10, Y: 20, Z: 30}
	if got := a.Add(b); got != (Point3{X: 11, Y: 22, Z: 33}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Point3{X: 9, Y: 18, Z: 27}) {
		t.Errorf("Sub = %v", got)
	}
}

func TestPolygonInside(t *testing.T) {
	square := Polygon{
		{X: 0, Y: 0},
		{X: 1000, Y: 0},
		{X: 1000, Y: 1000},
		{X: 0, Y: 1000},
	}

	cases := []struct {
		pt   Point2
		want bool
	}{
		{Point2{X: 500, Y: 500}, true},
		{Point2{X: 1500, Y: 500}, false},
		{Point2{X: -1, Y: 500}, false},
		{Point2{X: 500, Y: 1500}, false},
	}
	for _, c := range cases {
		if got := square.Inside(c.pt); got != c.want {
			t.Errorf("Inside(%v) = %v, want %v", c.pt, got, c.want)
		}
	}

	if (Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}).Inside(Point2{}) {
		t.Error("degenerate polygon should contain nothing")
	}
}
