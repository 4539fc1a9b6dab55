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
	"log/slog"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how the inside of a path is determined.
type FillRule int

// These are the fill rules supported by PDF.
const (
	NonZero FillRule = iota
	EvenOdd
)

// Visitor receives the drawing operations of a page, in content stream
// order.
//
// All coordinates are in user space, that is the current transformation
// matrix has already been applied to path coordinates.
type Visitor interface {
	// ShowGlyph is called for every glyph shown by a text operator.
	// The text rendering matrix trm maps text space to user space.
	ShowGlyph(trm matrix.Matrix, font Font, code Code)

	// DrawImage is called for every image XObject and every inline image.
	// The matrix ctm maps the unit square to the image area.
	DrawImage(ctm matrix.Matrix)

	// AppendRectangle adds a closed rectangle with the given corners to the
	// current path.
	AppendRectangle(p0, p1, p2, p3 vec.Vec2)

	MoveTo(p vec.Vec2)
	LineTo(p vec.Vec2)
	CurveTo(p1, p2, p3 vec.Vec2)
	ClosePath()

	// EndPath discards the current path without painting it.
	EndPath()

	StrokePath()
	FillPath(rule FillRule)
	FillAndStrokePath(rule FillRule)

	// Clip is called when the current path is marked as a clipping path.
	// The path is still painted or discarded by a subsequent operator.
	Clip(rule FillRule)

	// ShadingFill is called for the sh operator.
	ShadingFill(name string)
}

// FinderOptions can be used to configure a [Finder].
// A nil value selects the defaults.
type FinderOptions struct {
	// Logger receives diagnostic messages, for example about glyphs from
	// fonts of unrecognized type.  If this is nil, diagnostics are discarded.
	Logger *slog.Logger
}

// Finder computes the bounding box of all visible marks on a page.
// Finder implements the [Visitor] interface.
//
// A Finder must not be used concurrently.  Use one Finder per page, or call
// [Finder.Reset] before processing the next page.
type Finder struct {
	logger *slog.Logger
	bbox   Accumulator
	path   PathExtent
}

var _ Visitor = (*Finder)(nil)

// NewFinder allocates a new Finder.
func NewFinder(opt *FinderOptions) *Finder {
	if opt == nil {
		opt = &FinderOptions{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Finder{logger: logger}
}

// BoundingBox returns the bounding box of the content seen so far,
// or nil if no visible content has been seen.
func (f *Finder) BoundingBox() *Box {
	return f.bbox.Box()
}

// Rect returns the bounding box of the content seen so far.
// The second return value is false if no visible content has been seen.
func (f *Finder) Rect() (rect.Rect, bool) {
	return f.bbox.Rect()
}

// Reset prepares the Finder for processing a new page.
func (f *Finder) Reset() {
	f.bbox.Reset()
	f.path.Reset()
}

// ShowGlyph implements the [Visitor] interface.
func (f *Finder) ShowGlyph(trm matrix.Matrix, font Font, code Code) {
	if font == nil {
		return
	}
	box, ok, err := GlyphBounds(trm, font.Variant(), font.FontMatrix(), code)
	if err != nil {
		kind := ""
		if e, isUnknown := err.(*UnknownFontError); isUnknown {
			kind = e.Kind
		}
		f.logger.Warn("unrecognized font type, glyph ignored",
			slog.String("kind", kind),
			slog.Int("code", int(code)))
		return
	}
	if ok {
		f.bbox.AddRect(box)
	}
}

// DrawImage implements the [Visitor] interface.
func (f *Finder) DrawImage(ctm matrix.Matrix) {
	for _, corner := range unitSquare {
		f.bbox.AddPoint(apply(ctm, corner))
	}
}

var unitSquare = []vec.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
}

// AppendRectangle implements the [Visitor] interface.
func (f *Finder) AppendRectangle(p0, p1, p2, p3 vec.Vec2) {
	f.path.Add(p0, p1, p2, p3)
}

// MoveTo implements the [Visitor] interface.
func (f *Finder) MoveTo(p vec.Vec2) {
	f.path.Add(p)
}

// LineTo implements the [Visitor] interface.
func (f *Finder) LineTo(p vec.Vec2) {
	f.path.Add(p)
}

// CurveTo implements the [Visitor] interface.
func (f *Finder) CurveTo(p1, p2, p3 vec.Vec2) {
	f.path.Add(p1, p2, p3)
}

// ClosePath implements the [Visitor] interface.
func (f *Finder) ClosePath() {}

// EndPath implements the [Visitor] interface.
func (f *Finder) EndPath() {
	f.path.Reset()
}

// StrokePath implements the [Visitor] interface.
func (f *Finder) StrokePath() {
	f.path.FlushTo(&f.bbox)
}

// FillPath implements the [Visitor] interface.
func (f *Finder) FillPath(FillRule) {
	f.path.FlushTo(&f.bbox)
}

// FillAndStrokePath implements the [Visitor] interface.
func (f *Finder) FillAndStrokePath(FillRule) {
	f.path.FlushTo(&f.bbox)
}

// Clip implements the [Visitor] interface.
func (f *Finder) Clip(FillRule) {}

// ShadingFill implements the [Visitor] interface.
func (f *Finder) ShadingFill(string) {}
