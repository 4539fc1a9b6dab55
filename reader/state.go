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

import "seehuhn.de/go/geom/matrix"

// State holds the parts of the graphics state which affect the position of
// marks on the page.
type State struct {
	CTM matrix.Matrix

	TextMatrix     matrix.Matrix
	TextLineMatrix matrix.Matrix

	TextCharacterSpacing  float64
	TextWordSpacing       float64
	TextHorizontalScaling float64 // 1 means 100%
	TextLeading           float64
	TextFont              Font
	TextFontSize          float64
	TextRise              float64

	// TextRenderingMode is recorded but does not affect the bounding box.
	// Invisible text (mode 3) is included.
	TextRenderingMode int
}

// NewState returns the initial graphics state at the start of a page.
func NewState() State {
	return State{
		CTM:                   matrix.Identity,
		TextMatrix:            matrix.Identity,
		TextLineMatrix:        matrix.Identity,
		TextHorizontalScaling: 1,
	}
}

// TextRenderingMatrix returns the matrix which maps text space to user
// space for the next glyph.
func (s *State) TextRenderingMatrix() matrix.Matrix {
	M := matrix.Matrix{
		s.TextFontSize * s.TextHorizontalScaling, 0,
		0, s.TextFontSize,
		0, s.TextRise,
	}
	return M.Mul(s.TextMatrix).Mul(s.CTM)
}
