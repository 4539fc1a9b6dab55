// seehuhn.de/go/bbox - find the extent of the visible content on PDF pages
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package bbox

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Accumulator maintains the smallest axis-aligned rectangle which
// contains all points and rectangles added so far.
//
// The zero value is an empty accumulator.  Unlike [rect.Rect.IsZero],
// emptiness is tracked explicitly, so that a single point at the origin is
// a valid, non-empty bounding box.
type Accumulator struct {
	box     rect.Rect
	defined bool
}

// AddPoint extends the bounding box to include p.
func (a *Accumulator) AddPoint(p vec.Vec2) {
	if !a.defined {
		a.box = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
		a.defined = true
		return
	}
	a.box.LLx = math.Min(a.box.LLx, p.X)
	a.box.LLy = math.Min(a.box.LLy, p.Y)
	a.box.URx = math.Max(a.box.URx, p.X)
	a.box.URy = math.Max(a.box.URy, p.Y)
}

// AddRect extends the bounding box to include r.
// The corners of r may be given in any order.
func (a *Accumulator) AddRect(r rect.Rect) {
	a.AddPoint(vec.Vec2{X: r.LLx, Y: r.LLy})
	a.AddPoint(vec.Vec2{X: r.URx, Y: r.URy})
}

// Merge extends the bounding box to include everything recorded in other.
func (a *Accumulator) Merge(other *Accumulator) {
	if other.defined {
		a.AddRect(other.box)
	}
}

// IsEmpty reports whether nothing has been added yet.
func (a *Accumulator) IsEmpty() bool {
	return !a.defined
}

// Rect returns the current bounding box.
// The second return value is false if the accumulator is empty.
func (a *Accumulator) Rect() (rect.Rect, bool) {
	return a.box, a.defined
}

// Box returns the current bounding box, or nil if the accumulator is empty.
func (a *Accumulator) Box() *Box {
	if !a.defined {
		return nil
	}
	return &Box{
		X:      a.box.LLx,
		Y:      a.box.LLy,
		Width:  a.box.URx - a.box.LLx,
		Height: a.box.URy - a.box.LLy,
	}
}

// Reset returns the accumulator to the empty state.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Box is the bounding box of the visible content of a page, in PDF user
// space units.
type Box struct {
	X, Y          float64 // lower left corner
	Width, Height float64
}

// Rect converts the box to a rectangle.
func (b *Box) Rect() rect.Rect {
	return rect.Rect{LLx: b.X, LLy: b.Y, URx: b.X + b.Width, URy: b.Y + b.Height}
}

func (b *Box) String() string {
	return fmt.Sprintf("%.2f %.2f %.2f %.2f", b.X, b.Y, b.Width, b.Height)
}

// transformRect returns the bounding box of the image of r under m.
func transformRect(m matrix.Matrix, r rect.Rect) rect.Rect {
	var a Accumulator
	a.AddPoint(apply(m, vec.Vec2{X: r.LLx, Y: r.LLy}))
	a.AddPoint(apply(m, vec.Vec2{X: r.URx, Y: r.LLy}))
	a.AddPoint(apply(m, vec.Vec2{X: r.LLx, Y: r.URy}))
	a.AddPoint(apply(m, vec.Vec2{X: r.URx, Y: r.URy}))
	return a.box
}

func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	x, y := m.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}
