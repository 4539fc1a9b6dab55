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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// PathExtent tracks the approximate extent of the path under construction.
//
// All points used to construct the path are included, Bézier control points
// as well as end points.  Since a Bézier curve lies in the convex hull of its
// control points, this never underestimates the extent of the curve, but it
// may overestimate it.
type PathExtent struct {
	acc Accumulator
}

// Add includes the given points in the extent.
func (e *PathExtent) Add(pts ...vec.Vec2) {
	for _, p := range pts {
		e.acc.AddPoint(p)
	}
}

// IsEmpty reports whether no points have been added since the last reset.
func (e *PathExtent) IsEmpty() bool {
	return e.acc.IsEmpty()
}

// Reset discards the current path.
func (e *PathExtent) Reset() {
	e.acc.Reset()
}

// FlushTo merges the extent into dst and then resets the path.
// If the path is empty, dst is not modified.
func (e *PathExtent) FlushTo(dst *Accumulator) {
	dst.Merge(&e.acc)
	e.acc.Reset()
}

// outlineBounds returns the control point bounding box of a glyph outline.
// The second return value is false if the outline is nil or contains no
// points.
func outlineBounds(p path.Path) (rect.Rect, bool) {
	if p == nil {
		return rect.Rect{}, false
	}
	var e PathExtent
	for _, pts := range p {
		e.Add(pts...)
	}
	return e.acc.Rect()
}
