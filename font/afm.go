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
	"seehuhn.de/go/postscript/afm"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

// Metrics is a simple font where only the font metrics are known.
// This is used for the standard 14 fonts, which are normally not embedded
// in PDF files.  Each glyph is represented by its bounding box.
type Metrics struct {
	afm      *afm.Metrics
	encoding []string
	widths   [256]float64
}

var _ reader.Font = (*Metrics)(nil)

// NewMetrics creates a simple font from AFM font metrics.
//
// The encoding maps character codes to glyph names.  If this is nil, the
// encoding from the metrics file is used.
func NewMetrics(metrics *afm.Metrics, encoding []string) *Metrics {
	if encoding == nil {
		encoding = metrics.Encoding
	}
	f := &Metrics{
		afm:      metrics,
		encoding: encoding,
	}
	for c := range f.widths {
		if gi := metrics.Glyphs[f.glyphName(bbox.Code(c))]; gi != nil {
			f.widths[c] = gi.WidthX / 1000
		}
	}
	return f
}

func (f *Metrics) glyphName(code bbox.Code) string {
	if int(code) >= len(f.encoding) {
		return ""
	}
	name := f.encoding[code]
	if _, exists := f.afm.Glyphs[name]; !exists {
		return ""
	}
	return name
}

// FontMatrix implements the [bbox.Font] interface.
// AFM files use 1000 units per em.
func (f *Metrics) FontMatrix() matrix.Matrix {
	return glyphSpace
}

// Variant implements the [bbox.Font] interface.
func (f *Metrics) Variant() bbox.FontVariant {
	return bbox.SimpleFont{
		GlyphName: f.glyphName,
		Outline:   f.outline,
	}
}

// outline returns the glyph bounding box as a closed path.
func (f *Metrics) outline(name string) path.Path {
	gi := f.afm.Glyphs[name]
	if gi == nil || gi.BBox.IsZero() {
		return nil
	}
	b := gi.BBox
	corners := []vec.Vec2{
		{X: b.LLx, Y: b.LLy},
		{X: b.URx, Y: b.LLy},
		{X: b.URx, Y: b.URy},
		{X: b.LLx, Y: b.URy},
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, corners[:1]) {
			return
		}
		for i := 1; i < len(corners); i++ {
			if !yield(path.CmdLineTo, corners[i:i+1]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

// Decode implements the [reader.Font] interface.
func (f *Metrics) Decode(s pdf.String) (reader.CodeInfo, int) {
	if len(s) == 0 {
		return reader.CodeInfo{}, 0
	}
	c := s[0]
	return reader.CodeInfo{Code: bbox.Code(c), Width: f.widths[c]}, 1
}
