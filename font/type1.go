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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/type1"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

// Type1 is a simple font based on a PostScript Type 1 font.
type Type1 struct {
	ps       *type1.Font
	encoding []string
	widths   [256]float64
}

var _ reader.Font = (*Type1)(nil)

// NewType1 creates a simple font from a Type 1 font.
//
// The encoding maps character codes to glyph names.  If this is nil, the
// built-in encoding of the font is used.
func NewType1(psFont *type1.Font, encoding []string) *Type1 {
	if encoding == nil {
		encoding = psFont.Encoding
	}
	f := &Type1{
		ps:       psFont,
		encoding: encoding,
	}
	for c := range f.widths {
		name := f.glyphName(bbox.Code(c))
		if name == "" {
			name = ".notdef"
		}
		if _, exists := psFont.Glyphs[name]; exists {
			f.widths[c] = psFont.GlyphWidthPDF(name) / 1000
		}
	}
	return f
}

// glyphName returns the name of the glyph for the given code,
// or the empty string if the font has no glyph for the code.
func (f *Type1) glyphName(code bbox.Code) string {
	if int(code) >= len(f.encoding) {
		return ""
	}
	name := f.encoding[code]
	if _, exists := f.ps.Glyphs[name]; !exists {
		return ""
	}
	return name
}

// FontMatrix implements the [bbox.Font] interface.
func (f *Type1) FontMatrix() matrix.Matrix {
	M := f.ps.FontMatrix
	if M == (matrix.Matrix{}) {
		return glyphSpace
	}
	return M
}

// Variant implements the [bbox.Font] interface.
func (f *Type1) Variant() bbox.FontVariant {
	return bbox.SimpleFont{
		GlyphName: f.glyphName,
		Outline:   f.outline,
	}
}

// outline returns the outline of the named glyph, in glyph space.
func (f *Type1) outline(name string) path.Path {
	g := f.ps.Glyphs[name]
	if g == nil || g.IsBlank() {
		return nil
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2
		for _, cmd := range g.Cmds {
			var pc path.Command
			var n int
			switch cmd.Op {
			case type1.OpMoveTo:
				pc, n = path.CmdMoveTo, 1
			case type1.OpLineTo:
				pc, n = path.CmdLineTo, 1
			case type1.OpCurveTo:
				pc, n = path.CmdCubeTo, 3
			case type1.OpClosePath:
				pc, n = path.CmdClose, 0
			default:
				continue
			}
			if len(cmd.Args) < 2*n {
				continue
			}
			pts := buf[:n]
			for i := range pts {
				pts[i] = vec.Vec2{X: cmd.Args[2*i], Y: cmd.Args[2*i+1]}
			}
			if !yield(pc, pts) {
				return
			}
		}
	}
}

// Decode implements the [reader.Font] interface.
func (f *Type1) Decode(s pdf.String) (reader.CodeInfo, int) {
	if len(s) == 0 {
		return reader.CodeInfo{}, 0
	}
	c := s[0]
	return reader.CodeInfo{Code: bbox.Code(c), Width: f.widths[c]}, 1
}
