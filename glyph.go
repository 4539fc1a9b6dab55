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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// GlyphBounds returns the bounding box of a glyph in user space.
//
// The text rendering matrix trm maps text space to user space, and
// fontMatrix maps glyph space to text space.  The second return value is
// false if the glyph does not contribute to the bounding box.  This is not
// an error: for example, the glyph for a space character normally has no
// outline.  An error is returned only for fonts of type [UnknownFont].
func GlyphBounds(trm matrix.Matrix, v FontVariant, fontMatrix matrix.Matrix, code Code) (rect.Rect, bool, error) {
	M := fontMatrix.Mul(trm)

	switch v := v.(type) {
	case Type3Font:
		if v.GlyphBBox == nil {
			return rect.Rect{}, false, nil
		}
		glyphBox, ok := v.GlyphBBox(code)
		if !ok {
			return rect.Rect{}, false, nil
		}
		return transformRect(M, clipGlyphBox(v.FontBBox, glyphBox)), true, nil

	case VectorFont:
		if v.Outline == nil {
			return rect.Rect{}, false, nil
		}
		box, ok := outlineBounds(v.Outline(code))
		if !ok {
			return rect.Rect{}, false, nil
		}
		if v.UnitsPerEm > 0 {
			q := 1000 / float64(v.UnitsPerEm)
			M = matrix.Scale(q, q).Mul(M)
		}
		return transformRect(M, box), true, nil

	case SimpleFont:
		if v.GlyphName == nil || v.Outline == nil {
			return rect.Rect{}, false, nil
		}
		name := v.GlyphName(code)
		if name == "" {
			return rect.Rect{}, false, nil
		}
		box, ok := outlineBounds(v.Outline(name))
		if !ok {
			return rect.Rect{}, false, nil
		}
		return transformRect(M, box), true, nil

	case UnknownFont:
		return rect.Rect{}, false, &UnknownFontError{Kind: v.Kind}

	default:
		return rect.Rect{}, false, &UnknownFontError{}
	}
}

// clipGlyphBox restricts a Type 3 glyph box to the font bounding box.
// Both boxes are in glyph space.
func clipGlyphBox(fontBBox, glyphBBox rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: math.Max(fontBBox.LLx, glyphBBox.LLx),
		LLy: math.Max(fontBBox.LLy, glyphBBox.LLy),
		URx: math.Min(fontBBox.URx, glyphBBox.URx),
		URy: math.Min(fontBBox.URy, glyphBBox.URy),
	}
}
