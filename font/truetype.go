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

package font

import (
	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

// glyphSpace is the font matrix of all fonts which use the standard PDF
// glyph space of 1000 units per em.
var glyphSpace = matrix.Matrix{0.001, 0, 0, 0.001, 0, 0}

// TrueType is a simple font based on a TrueType or OpenType font.
// Character codes are single bytes.
type TrueType struct {
	sfnt   *sfnt.Font
	cmap   cmap.Subtable
	widths [256]float64
	gid    [256]glyph.ID
}

var _ reader.Font = (*TrueType)(nil)

// NewTrueType creates a simple font from an sfnt font.
//
// Character codes are mapped to glyphs by interpreting the codes using
// the Windows-1252 encoding and then looking up the resulting character in
// the "cmap" table of the font.  For symbolic fonts, where the cmap table
// maps the range U+F000 to U+F0FF, the code is mapped to U+F000+code.
func NewTrueType(info *sfnt.Font) *TrueType {
	f := &TrueType{sfnt: info}

	subtable, err := info.CMapTable.GetBest()
	if err == nil {
		f.cmap = subtable
	}

	for c := range 256 {
		gid := f.lookup(byte(c))
		f.gid[c] = gid
		f.widths[c] = glyphWidth(info, gid)
	}
	return f
}

func (f *TrueType) lookup(c byte) glyph.ID {
	if f.cmap == nil {
		return glyph.ID(c)
	}
	if r := charmap.Windows1252.DecodeByte(c); r != 0xFFFD {
		if gid := f.cmap.Lookup(r); gid != 0 {
			return gid
		}
	}
	return f.cmap.Lookup(0xF000 + rune(c))
}

// FontMatrix implements the [bbox.Font] interface.
func (f *TrueType) FontMatrix() matrix.Matrix {
	return glyphSpace
}

// Variant implements the [bbox.Font] interface.
func (f *TrueType) Variant() bbox.FontVariant {
	return vectorVariant(f.sfnt, func(code bbox.Code) (glyph.ID, bool) {
		if code > 255 {
			return 0, false
		}
		return f.gid[code], true
	})
}

// Decode implements the [reader.Font] interface.
func (f *TrueType) Decode(s pdf.String) (reader.CodeInfo, int) {
	if len(s) == 0 {
		return reader.CodeInfo{}, 0
	}
	c := s[0]
	return reader.CodeInfo{Code: bbox.Code(c), Width: f.widths[c]}, 1
}

// vectorVariant returns the glyph description for an sfnt font.
//
// TrueType outlines are given in font design units.  CFF outlines may use
// a non-standard font matrix, and are converted to the PDF glyph space of
// 1000 units per em.
func vectorVariant(info *sfnt.Font, gidFn func(bbox.Code) (glyph.ID, bool)) bbox.VectorFont {
	if info.Outlines == nil {
		return bbox.VectorFont{}
	}

	if _, isGlyf := info.Outlines.(*glyf.Outlines); isGlyf {
		return bbox.VectorFont{
			Outline: func(code bbox.Code) path.Path {
				gid, ok := gidFn(code)
				if !ok {
					return nil
				}
				return info.Outlines.Path(gid)
			},
			UnitsPerEm: int(info.UnitsPerEm),
		}
	}

	M := info.FontMatrix
	if M == (matrix.Matrix{}) {
		M = glyphSpace
		if info.UnitsPerEm > 0 {
			q := 1 / float64(info.UnitsPerEm)
			M = matrix.Scale(q, q)
		}
	}
	M = M.Mul(matrix.Scale(1000, 1000))
	return bbox.VectorFont{
		Outline: func(code bbox.Code) path.Path {
			gid, ok := gidFn(code)
			if !ok {
				return nil
			}
			return transformPath(info.Outlines.Path(gid), M)
		},
	}
}

// glyphWidth returns the advance width of a glyph, in text space units for
// a font size of 1.
func glyphWidth(info *sfnt.Font, gid glyph.ID) float64 {
	w := float64(info.GlyphWidth(gid))
	switch {
	case info.FontMatrix != (matrix.Matrix{}):
		return w * info.FontMatrix[0]
	case info.UnitsPerEm > 0:
		return w / float64(info.UnitsPerEm)
	default:
		return 0
	}
}

// transformPath applies M to all points of a path.
func transformPath(p path.Path, M matrix.Matrix) path.Path {
	if p == nil {
		return nil
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2
		for cmd, pts := range p {
			out := buf[:len(pts)]
			for i, pt := range pts {
				x, y := M.Apply(pt.X, pt.Y)
				out[i] = vec.Vec2{X: x, Y: y}
			}
			if !yield(cmd, out) {
				return
			}
		}
	}
}
