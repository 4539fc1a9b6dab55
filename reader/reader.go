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

// Package reader interprets PDF content streams and reports the drawing
// operations to a [bbox.Visitor].
package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader/scanner"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// maxNestingDepth limits the nesting of form XObjects and Type 3 glyph
// procedures.
const maxNestingDepth = 16

// Options can be used to configure a [Reader].
// A nil value selects the defaults.
type Options struct {
	// Logger receives diagnostic messages about missing resources and
	// unsupported constructs.  If this is nil, diagnostics are discarded.
	Logger *slog.Logger
}

// A Reader reads PDF content streams and reports all drawing operations to
// a visitor.
type Reader struct {
	v      bbox.Visitor
	logger *slog.Logger

	Resources *Resources
	State
	stack []State

	// The current point and the start of the current subpath, in user space.
	currentPoint    vec.Vec2
	subpathStart    vec.Vec2
	hasCurrentPoint bool

	depth int

	// UnknownOp, if set, is called for all operators which are not used for
	// bounding box computations.
	UnknownOp func(op string, args []pdf.Object) error
}

// New creates a new Reader which reports drawing operations to v.
func New(v bbox.Visitor, opt *Options) *Reader {
	if opt == nil {
		opt = &Options{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Reader{
		v:      v,
		logger: logger,
	}
	r.Reset()
	return r
}

// Reset restores the initial graphics state and clears the resources.
func (r *Reader) Reset() {
	r.State = NewState()
	r.stack = r.stack[:0]
	r.Resources = &Resources{}
	r.hasCurrentPoint = false
	r.depth = 0
}

// ParsePage processes the content stream of a page.
// The matrix ctm maps the default user space of the page to the user space
// seen by the visitor, normally this is [matrix.Identity].
func (r *Reader) ParsePage(contents io.Reader, res *Resources, ctm matrix.Matrix) error {
	r.Reset()
	r.CTM = ctm
	if res != nil {
		r.Resources = res
	}
	return pdf.Wrap(r.ParseContentStream(contents), "page content")
}

// ParseContentStream processes a content stream, starting with the current
// graphics state and resources.
//
// Malformed operators are skipped.  An error is returned only if the
// content stream cannot be read, or if an inline image cannot be delimited.
func (r *Reader) ParseContentStream(in io.Reader) error {
	s := scanner.NewScanner()
	s.SetInput(in)
	for s.Scan() {
		err := r.do(s.Operator())
		if err != nil {
			return err
		}
	}
	return s.Error()
}

// do processes the given operator.
// This updates the graphics state, and calls the appropriate visitor
// methods.
func (r *Reader) do(op scanner.Operator) error {
	origArgs := op.Args

	// Operators are listed in the order of table 50 ("Operator categories") in
	// ISO 32000-2:2020.

	switch op.Name {

	// == General graphics state =========================================

	case "q":
		r.stack = append(r.stack, r.State)

	case "Q":
		if len(r.stack) > 0 {
			r.State = r.stack[len(r.stack)-1]
			r.stack = r.stack[:len(r.stack)-1]
		}

	// == Special graphics state =========================================

	case "cm":
		m := op.GetMatrix()
		if op.OK() {
			r.CTM = m.Mul(r.CTM)
		}

	// == Path construction ==============================================

	case "m":
		x := op.GetNumbers(2)
		if op.OK() {
			p := r.toUser(x[0], x[1])
			r.v.MoveTo(p)
			r.currentPoint = p
			r.subpathStart = p
			r.hasCurrentPoint = true
		}

	case "l":
		x := op.GetNumbers(2)
		if op.OK() && r.hasCurrentPoint {
			p := r.toUser(x[0], x[1])
			r.v.LineTo(p)
			r.currentPoint = p
		}

	case "c":
		x := op.GetNumbers(6)
		if op.OK() && r.hasCurrentPoint {
			p1 := r.toUser(x[0], x[1])
			p2 := r.toUser(x[2], x[3])
			p3 := r.toUser(x[4], x[5])
			r.v.CurveTo(p1, p2, p3)
			r.currentPoint = p3
		}

	case "v": // first control point is the current point
		x := op.GetNumbers(4)
		if op.OK() && r.hasCurrentPoint {
			p2 := r.toUser(x[0], x[1])
			p3 := r.toUser(x[2], x[3])
			r.v.CurveTo(r.currentPoint, p2, p3)
			r.currentPoint = p3
		}

	case "y": // second control point is the end point
		x := op.GetNumbers(4)
		if op.OK() && r.hasCurrentPoint {
			p1 := r.toUser(x[0], x[1])
			p3 := r.toUser(x[2], x[3])
			r.v.CurveTo(p1, p3, p3)
			r.currentPoint = p3
		}

	case "h":
		if r.hasCurrentPoint {
			r.v.ClosePath()
			r.currentPoint = r.subpathStart
		}

	case "re":
		x := op.GetNumbers(4)
		if op.OK() {
			p0 := r.toUser(x[0], x[1])
			p1 := r.toUser(x[0]+x[2], x[1])
			p2 := r.toUser(x[0]+x[2], x[1]+x[3])
			p3 := r.toUser(x[0], x[1]+x[3])
			r.v.AppendRectangle(p0, p1, p2, p3)
			r.currentPoint = p0
			r.subpathStart = p0
			r.hasCurrentPoint = true
		}

	// == Path painting ==================================================

	case "S":
		r.v.StrokePath()
		r.hasCurrentPoint = false

	case "s":
		if r.hasCurrentPoint {
			r.v.ClosePath()
		}
		r.v.StrokePath()
		r.hasCurrentPoint = false

	case "f", "F":
		r.v.FillPath(bbox.NonZero)
		r.hasCurrentPoint = false

	case "f*":
		r.v.FillPath(bbox.EvenOdd)
		r.hasCurrentPoint = false

	case "B":
		r.v.FillAndStrokePath(bbox.NonZero)
		r.hasCurrentPoint = false

	case "B*":
		r.v.FillAndStrokePath(bbox.EvenOdd)
		r.hasCurrentPoint = false

	case "b":
		if r.hasCurrentPoint {
			r.v.ClosePath()
		}
		r.v.FillAndStrokePath(bbox.NonZero)
		r.hasCurrentPoint = false

	case "b*":
		if r.hasCurrentPoint {
			r.v.ClosePath()
		}
		r.v.FillAndStrokePath(bbox.EvenOdd)
		r.hasCurrentPoint = false

	case "n":
		r.v.EndPath()
		r.hasCurrentPoint = false

	// == Clipping paths =================================================

	case "W":
		r.v.Clip(bbox.NonZero)

	case "W*":
		r.v.Clip(bbox.EvenOdd)

	// == Text objects ===================================================

	case "BT":
		r.TextMatrix = matrix.Identity
		r.TextLineMatrix = matrix.Identity

	case "ET":
		// The text matrices are reset by the next BT.

	// == Text state =====================================================

	case "Tc":
		x := op.GetNumber()
		if op.OK() {
			r.TextCharacterSpacing = x
		}

	case "Tw":
		x := op.GetNumber()
		if op.OK() {
			r.TextWordSpacing = x
		}

	case "Tz":
		x := op.GetNumber()
		if op.OK() {
			r.TextHorizontalScaling = x / 100
		}

	case "TL":
		x := op.GetNumber()
		if op.OK() {
			r.TextLeading = x
		}

	case "Tf":
		name := op.GetName()
		size := op.GetNumber()
		if !op.OK() {
			break
		}
		F := r.Resources.Font[name]
		if F == nil {
			r.logger.Warn("font not found", slog.String("font", string(name)))
			break
		}
		r.TextFont = F
		r.TextFontSize = size

	case "Tr":
		x := op.GetInteger()
		if op.OK() {
			r.TextRenderingMode = int(x)
		}

	case "Ts":
		x := op.GetNumber()
		if op.OK() {
			r.TextRise = x
		}

	// == Text positioning ===============================================

	case "Td":
		x := op.GetNumbers(2)
		if op.OK() {
			r.TextLineMatrix = matrix.Translate(x[0], x[1]).Mul(r.TextLineMatrix)
			r.TextMatrix = r.TextLineMatrix
		}

	case "TD":
		x := op.GetNumbers(2)
		if op.OK() {
			r.TextLeading = -x[1]
			r.TextLineMatrix = matrix.Translate(x[0], x[1]).Mul(r.TextLineMatrix)
			r.TextMatrix = r.TextLineMatrix
		}

	case "Tm":
		m := op.GetMatrix()
		if op.OK() {
			r.TextMatrix = m
			r.TextLineMatrix = m
		}

	case "T*":
		r.nextLine()

	// == Text showing ===================================================

	case "Tj":
		s := op.GetString()
		if op.OK() {
			return r.showText(s)
		}

	case "'":
		s := op.GetString()
		if op.OK() {
			r.nextLine()
			return r.showText(s)
		}

	case "\"":
		aw := op.GetNumber()
		ac := op.GetNumber()
		s := op.GetString()
		if op.OK() {
			r.TextWordSpacing = aw
			r.TextCharacterSpacing = ac
			r.nextLine()
			return r.showText(s)
		}

	case "TJ":
		a := op.GetArray()
		if !op.OK() {
			break
		}
		for _, ai := range a {
			if s, isString := ai.(pdf.String); isString {
				err := r.showText(s)
				if err != nil {
					return err
				}
				continue
			}
			d, ok := pdf.GetNumber(ai)
			if !ok {
				continue
			}
			d = d / 1000 * r.TextFontSize
			r.TextMatrix = matrix.Translate(-d*r.TextHorizontalScaling, 0).Mul(r.TextMatrix)
		}

	// == Type 3 fonts ===================================================

	case "d0", "d1":
		// Glyph metrics are obtained from the font.

	// == Shading patterns ===============================================

	case "sh":
		name := op.GetName()
		if op.OK() {
			r.v.ShadingFill(string(name))
		}

	// == Inline images ==================================================

	case scanner.OpInlineImage:
		r.v.DrawImage(r.CTM)

	// == XObjects =======================================================

	case "Do":
		name := op.GetName()
		if !op.OK() {
			break
		}
		return r.doXObject(name)

	default:
		if r.logger.Enabled(context.Background(), slog.LevelDebug) {
			r.logger.Debug("operator ignored",
				slog.String("op", formatOp(op.Name, origArgs)))
		}
		if r.UnknownOp != nil {
			err := r.UnknownOp(op.Name, origArgs)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reader) doXObject(name pdf.Name) error {
	switch x := r.Resources.XObject[name].(type) {
	case *Image:
		r.logger.Debug("image",
			slog.String("name", string(name)),
			slog.Int("width", x.Width),
			slog.Int("height", x.Height))
		r.v.DrawImage(r.CTM)
	case *Form:
		M := x.Matrix
		if M == (matrix.Matrix{}) {
			M = matrix.Identity
		}
		loc := fmt.Sprintf("form XObject %s", name)
		return r.runNested(x.Content, x.Resources, M.Mul(r.CTM), loc)
	default:
		r.logger.Warn("XObject not found", slog.String("xobject", string(name)))
	}
	return nil
}

// showText processes the glyphs in a PDF string.
func (r *Reader) showText(s pdf.String) error {
	F := r.TextFont
	if F == nil {
		r.logger.Warn("text shown without font")
		return nil
	}
	procs, isType3 := F.(GlyphProcFont)

	for len(s) > 0 {
		info, n := F.Decode(s)
		if n <= 0 {
			n = 1
		}
		s = s[n:]

		trm := r.TextRenderingMatrix()
		r.v.ShowGlyph(trm, F, info.Code)

		if isType3 {
			if proc := procs.GlyphProc(info.Code); proc != nil {
				loc := fmt.Sprintf("glyph procedure %d", info.Code)
				err := r.runNested(proc, nil, F.FontMatrix().Mul(trm), loc)
				if err != nil {
					return err
				}
			}
		}

		width := info.Width*r.TextFontSize + r.TextCharacterSpacing
		if n == 1 && info.Code == ' ' {
			width += r.TextWordSpacing
		}
		width *= r.TextHorizontalScaling
		r.TextMatrix = matrix.Translate(width, 0).Mul(r.TextMatrix)
	}
	return nil
}

// runNested processes a form XObject or a Type 3 glyph procedure.
// The graphics state is saved before and restored after the nested content
// stream.
func (r *Reader) runNested(content []byte, res *Resources, ctm matrix.Matrix, loc string) error {
	if r.depth >= maxNestingDepth {
		r.logger.Warn("nesting too deep, content ignored", slog.String("location", loc))
		return nil
	}

	savedState := r.State
	savedStack := r.stack
	savedRes := r.Resources
	savedCurrent, savedStart, savedHas := r.currentPoint, r.subpathStart, r.hasCurrentPoint

	r.stack = nil
	r.CTM = ctm
	if res != nil {
		r.Resources = res
	}
	r.hasCurrentPoint = false
	r.depth++

	err := r.ParseContentStream(bytes.NewReader(content))

	r.depth--
	r.State = savedState
	r.stack = savedStack
	r.Resources = savedRes
	r.currentPoint, r.subpathStart, r.hasCurrentPoint = savedCurrent, savedStart, savedHas

	return pdf.Wrap(err, loc)
}

func (r *Reader) nextLine() {
	r.TextLineMatrix = matrix.Translate(0, -r.TextLeading).Mul(r.TextLineMatrix)
	r.TextMatrix = r.TextLineMatrix
}

// toUser maps a point from the current coordinate system to user space.
func (r *Reader) toUser(x, y float64) vec.Vec2 {
	x, y = r.CTM.Apply(x, y)
	return vec.Vec2{X: x, Y: y}
}

// formatOp returns the operator in content stream syntax.
func formatOp(name string, args []pdf.Object) string {
	parts := make([]string, 0, len(args)+1)
	for _, arg := range args {
		parts = append(parts, pdf.Format(arg))
	}
	return strings.Join(append(parts, name), " ")
}
