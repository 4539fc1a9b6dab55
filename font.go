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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// Code is a character code, as found in a PDF string shown by a text
// operator.  Depending on the font, a code corresponds to one or more bytes
// of the string.
type Code uint32

// Font is the view of a PDF font needed to compute glyph bounding boxes.
type Font interface {
	// FontMatrix maps glyph space to text space.
	FontMatrix() matrix.Matrix

	// Variant describes how glyph shapes can be obtained from the font.
	Variant() FontVariant
}

// FontVariant describes how glyph shapes are obtained from a font.
// This is one of [Type3Font], [VectorFont], [SimpleFont] or [UnknownFont].
type FontVariant interface {
	isFontVariant()
}

// Type3Font describes a font where glyphs are drawn by content stream
// procedures.
type Type3Font struct {
	// FontBBox is the font bounding box, in glyph space.
	FontBBox rect.Rect

	// GlyphBBox returns the glyph bounding box declared by the d1 operator
	// of the glyph procedure for the given code, in glyph space.  The second
	// return value is false if there is no such procedure, or if the
	// procedure does not declare a bounding box.
	GlyphBBox func(Code) (rect.Rect, bool)
}

// VectorFont describes a font where glyph outlines can be looked up
// directly by character code.
type VectorFont struct {
	// Outline returns the glyph outline for the given code,
	// or nil if the glyph has no outline.
	Outline func(Code) path.Path

	// UnitsPerEm is the number of design units per em of the outlines.
	// This is set for TrueType outlines, which are scaled to the 1000 units
	// per em used for glyph space.  Outlines which are already in glyph
	// space leave this as 0.
	UnitsPerEm int
}

// SimpleFont describes a font where character codes are first mapped to
// glyph names, and outlines are looked up by name.
type SimpleFont struct {
	// GlyphName returns the glyph name for a code, or "" if the code is not
	// mapped.
	GlyphName func(Code) string

	// Outline returns the outline of the named glyph in glyph space,
	// or nil if there is no such glyph.
	Outline func(name string) path.Path
}

// UnknownFont describes a font for which glyph shapes cannot be obtained.
type UnknownFont struct {
	// Kind names the font type, for diagnostic messages.
	Kind string
}

func (Type3Font) isFontVariant()   {}
func (VectorFont) isFontVariant()  {}
func (SimpleFont) isFontVariant()  {}
func (UnknownFont) isFontVariant() {}

// UnknownFontError is returned when glyph bounds are requested for a font of
// unrecognized type.
type UnknownFontError struct {
	Kind string
}

func (err *UnknownFontError) Error() string {
	kind := err.Kind
	if kind == "" {
		kind = "unknown"
	}
	return "unrecognized font type " + kind
}
