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

package reader

import (
	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/geom/matrix"
)

// Resources holds the named resources which can be referenced from a
// content stream.
type Resources struct {
	Font    map[pdf.Name]Font
	XObject map[pdf.Name]XObject
}

// Font is a font which can be selected by the Tf operator.
type Font interface {
	bbox.Font

	// Decode reads the first character code from s.  It returns the code
	// information and the number of bytes consumed.  If s is not empty, at
	// least one byte is consumed.
	Decode(s pdf.String) (CodeInfo, int)
}

// CodeInfo describes a character code found in a PDF string.
type CodeInfo struct {
	Code bbox.Code

	// Width is the horizontal displacement of the glyph, in text space
	// units for a font size of 1.
	Width float64
}

// GlyphProcFont is implemented by Type 3 fonts, where glyphs are described
// by content stream fragments.
type GlyphProcFont interface {
	Font

	// GlyphProc returns the content stream of the glyph procedure for the
	// given code, or nil if there is no such procedure.
	GlyphProc(code bbox.Code) []byte
}

// XObject is an external object which can be painted by the Do operator.
// This is one of [*Image] or [*Form].
type XObject interface {
	isXObject()
}

// Image is an image XObject.  Image data is not needed to determine the
// area covered by the image.
type Image struct {
	Width, Height int
}

// Form is a form XObject.
type Form struct {
	// Matrix maps form space to user space.  The zero matrix is treated as
	// the identity.
	Matrix matrix.Matrix

	// Content is the decoded content stream of the form.
	Content []byte

	// Resources are the resources used by the form.  If this is nil, the
	// resources of the enclosing content stream are used.
	Resources *Resources
}

func (*Image) isXObject() {}
func (*Form) isXObject()  {}
