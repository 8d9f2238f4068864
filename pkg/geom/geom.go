// Package geom provides the integer-micron coordinate types shared by the
// planning and export packages. All positions are absolute machine
// coordinates in microns; speeds are mm/s.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package geom

import "math"

// Coord is a coordinate value in microns.
type Coord int64

// Velocity is a speed in mm/s.
type Velocity float64

// Ratio is a dimensionless multiplication factor.
type Ratio float64

// MM converts a micron coordinate to millimeters.
func (c Coord) MM() float64 {
	return float64(c) / 1000.0
}

// LLRint rounds to the nearest integer coordinate, halves away from zero.
func LLRint(v float64) Coord {
	return Coord(math.Round(v))
}

// Point3 is an absolute position in microns.
type Point3 struct {
	X, Y, Z Coord
}

// Add returns p + other.
func (p Point3) Add(other Point3) Point3 {
	return Point3{p.X + other.X, p.Y + other.Y, p.Z + other.Z}
}

// Sub returns p - other.
func (p Point3) Sub(other Point3) Point3 {
	return Point3{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// Size returns the vector length in microns.
func (p Point3) Size() float64 {
	x := float64(p.X)
	y := float64(p.Y)
	z := float64(p.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// DistanceMM returns the distance between two points in millimeters.
func DistanceMM(a, b Point3) float64 {
	return b.Sub(a).Size() / 1000.0
}

// Point2 is a 2D position in microns, used for area tests.
type Point2 struct {
	X, Y Coord
}

// XY projects a Point3 onto the build plane.
func (p Point3) XY() Point2 {
	return Point2{p.X, p.Y}
}

// Polygon is a closed 2D outline. The last vertex connects back to the
// first implicitly.
type Polygon []Point2

// Inside reports whether pt lies inside the polygon, using the even-odd
// rule. Points exactly on an edge count as inside.
func (poly Polygon) Inside(pt Point2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a := poly[i]
		b := poly[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			// X coordinate of the edge at pt.Y
			t := float64(pt.Y-a.Y) / float64(b.Y-a.Y)
			cross := float64(a.X) + t*float64(b.X-a.X)
			if float64(pt.X) <= cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
