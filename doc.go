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

// Package bbox computes the bounding box of the visible content of a PDF
// page, without rendering the page.
//
// A [Finder] receives the drawing operations of one page, in content stream
// order, through the [Visitor] interface.  Operators are usually dispatched
// by a [seehuhn.de/go/bbox/reader.Reader]:
//
//	f := bbox.NewFinder(nil)
//	r := reader.New(f, nil)
//	err := r.ParsePage(contents, resources, matrix.Identity)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	box := f.BoundingBox() // nil if the page has no visible content
//
// The following contributions make up the bounding box:
//
//   - Glyphs contribute the transformed bounding box of their outline.
//     For Type 3 fonts, the glyph box declared by the d1 operator is used,
//     clipped to the font bounding box.
//   - Images contribute the image of the unit square under the current
//     transformation matrix.
//   - Stroked and filled paths contribute the extent of all points used to
//     construct the path, including Bézier control points.
//
// Clipping paths never shrink the bounding box, and shading fills never
// contribute to it.  The colour of a mark is ignored, so that for example
// white text on a white background still counts as visible.
package bbox
