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
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

// Composite is a composite font with the Identity-H encoding.
// Character codes are two bytes long, in big-endian order, and are used
// as CIDs.
type Composite struct {
	sfnt     *sfnt.Font
	cidToGID []glyph.ID
}

var _ reader.Font = (*Composite)(nil)

// NewComposite creates a composite font from an sfnt font.
//
// The slice cidToGID maps CIDs to glyph IDs.  If this is nil, or if a CID
// is outside the range of the slice, the CID is used as the glyph ID.
func NewComposite(info *sfnt.Font, cidToGID []glyph.ID) *Composite {
	return &Composite{
		sfnt:     info,
		cidToGID: cidToGID,
	}
}

func (f *Composite) gid(cid bbox.Code) glyph.ID {
	if int(cid) < len(f.cidToGID) {
		return f.cidToGID[cid]
	}
	return glyph.ID(cid)
}

// FontMatrix implements the [bbox.Font] interface.
func (f *Composite) FontMatrix() matrix.Matrix {
	return glyphSpace
}

// Variant implements the [bbox.Font] interface.
func (f *Composite) Variant() bbox.FontVariant {
	return vectorVariant(f.sfnt, func(code bbox.Code) (glyph.ID, bool) {
		return f.gid(code), true
	})
}

// Decode implements the [reader.Font] interface.
// A trailing single byte is treated as a complete code.
func (f *Composite) Decode(s pdf.String) (reader.CodeInfo, int) {
	var cid bbox.Code
	var n int
	switch len(s) {
	case 0:
		return reader.CodeInfo{}, 0
	case 1:
		cid, n = bbox.Code(s[0]), 1
	default:
		cid, n = bbox.Code(s[0])<<8|bbox.Code(s[1]), 2
	}
	return reader.CodeInfo{
		Code:  cid,
		Width: glyphWidth(f.sfnt, f.gid(cid)),
	}, n
}
