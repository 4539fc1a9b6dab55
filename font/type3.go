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

// Package font provides the fonts used by the content stream reader.
//
// The types in this package describe glyph outlines and glyph widths in the
// form needed to compute bounding boxes.  Fonts can be constructed from
// Type 3 glyph procedures, from TrueType and OpenType fonts, and from
// PostScript Type 1 fonts.
package font

import (
	"bytes"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
	"seehuhn.de/go/bbox/reader/scanner"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// Type3 is a Type 3 font, where glyphs are drawn by PDF content stream
// fragments.
type Type3 struct {
	// FontBBox is the font bounding box, in glyph space.
	FontBBox rect.Rect

	// Matrix maps glyph space to text space.
	Matrix matrix.Matrix

	// Widths gives the glyph widths, in glyph space.
	Widths [256]float64

	// CharProcs maps character codes to glyph procedures.
	CharProcs map[byte][]byte
}

var _ reader.GlyphProcFont = (*Type3)(nil)

// FontMatrix implements the [bbox.Font] interface.
func (f *Type3) FontMatrix() matrix.Matrix {
	return f.Matrix
}

// Variant implements the [bbox.Font] interface.
func (f *Type3) Variant() bbox.FontVariant {
	return bbox.Type3Font{
		FontBBox:  f.FontBBox,
		GlyphBBox: f.glyphBBox,
	}
}

// glyphBBox returns the glyph bounding box declared by the d1 operator at
// the start of the glyph procedure.  Glyphs which start with d0 are colored
// glyphs and have no declared bounding box.
func (f *Type3) glyphBBox(code bbox.Code) (rect.Rect, bool) {
	if code > 255 {
		return rect.Rect{}, false
	}
	proc := f.CharProcs[byte(code)]
	if proc == nil {
		return rect.Rect{}, false
	}

	s := scanner.NewScanner()
	s.SetInput(bytes.NewReader(proc))
	if !s.Scan() {
		return rect.Rect{}, false
	}
	op := s.Operator()
	if op.Name != "d1" {
		return rect.Rect{}, false
	}
	x := op.GetNumbers(6)
	if !op.OK() {
		return rect.Rect{}, false
	}
	return rect.Rect{LLx: x[2], LLy: x[3], URx: x[4], URy: x[5]}, true
}

// Decode implements the [reader.Font] interface.
// Type 3 fonts use single-byte character codes.
func (f *Type3) Decode(s pdf.String) (reader.CodeInfo, int) {
	if len(s) == 0 {
		return reader.CodeInfo{}, 0
	}
	c := s[0]
	return reader.CodeInfo{Code: bbox.Code(c), Width: f.Widths[c] * f.Matrix[0]}, 1
}

// GlyphProc implements the [reader.GlyphProcFont] interface.
func (f *Type3) GlyphProc(code bbox.Code) []byte {
	if code > 255 {
		return nil
	}
	return f.CharProcs[byte(code)]
}
