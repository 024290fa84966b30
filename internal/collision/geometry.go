package collision

import "math"

// Point is a pointer or centre coordinate in board space
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the center point of the rect
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains checks if point is within the rect (right and bottom edges exclusive)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns width * height, or 0 for degenerate rects
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// IntersectionArea returns the overlapping area of two rects
func (r Rect) IntersectionArea(o Rect) float64 {
	left := math.Max(r.X, o.X)
	right := math.Min(r.X+r.Width, o.X+o.Width)
	top := math.Max(r.Y, o.Y)
	bottom := math.Min(r.Y+r.Height, o.Y+o.Height)
	if right <= left || bottom <= top {
		return 0
	}
	return (right - left) * (bottom - top)
}

// IntersectionRatio returns overlap / union, in [0, 1]
func (r Rect) IntersectionRatio(o Rect) float64 {
	overlap := r.IntersectionArea(o)
	if overlap == 0 {
		return 0
	}
	union := r.Area() + o.Area() - overlap
	if union <= 0 {
		return 0
	}
	return overlap / union
}

// Distance returns the euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
