package quad

// Rect is an axis-aligned rectangle [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns X1-X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1-Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Center returns the midpoint.
func (r Rect) Center() (x, y float64) { return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2 }

// Outset grows r by dx horizontally and dy vertically on every side;
// negative values shrink it.
func (r Rect) Outset(dx, dy float64) Rect {
	return Rect{X0: r.X0 - dx, Y0: r.Y0 - dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// ScaleAbout scales r by s about its center.
func (r Rect) ScaleAbout(s float64) Rect {
	cx, cy := r.Center()
	hw, hh := r.Width()/2*s, r.Height()/2*s
	return Rect{X0: cx - hw, Y0: cy - hh, X1: cx + hw, Y1: cy + hh}
}

// Contains reports whether (x, y) lies in r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}
