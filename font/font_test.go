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
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/afm"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// The square glyph covers [100, 500] × [200, 600] in PDF glyph space.
var squareBox = rect.Rect{LLx: 0.1, LLy: 0.2, URx: 0.5, URy: 0.6}

type drawer interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
}

func drawSquare(g drawer, fm matrix.Matrix) {
	left := 100 / (1000 * fm[0])
	right := 500 / (1000 * fm[0])
	bottom := 200 / (1000 * fm[3])
	top := 600 / (1000 * fm[3])

	g.MoveTo(left, bottom)
	g.LineTo(right, bottom)
	g.LineTo(right, top)
	g.LineTo(left, top)
	g.LineTo(left, bottom)
}

func makeCFF(fm matrix.Matrix) *sfnt.Font {
	square := cff.NewGlyph("A", 500/(1000*fm[0]))
	drawSquare(square, fm)

	outlines := &cff.Outlines{
		Glyphs: []*cff.Glyph{
			{Name: ".notdef", Width: 500 / (1000 * fm[0])},
			{Name: "space", Width: 250 / (1000 * fm[0])},
			square,
		},
		Private:  []*type1.PrivateDict{{}},
		FDSelect: func(glyph.ID) int { return 0 },
		Encoding: []glyph.ID{0, 1, 2},
	}

	subtable := cmap.Format4{' ': 1, 'A': 2}
	return &sfnt.Font{
		FamilyName: "Square",
		Outlines:   outlines,
		UnitsPerEm: uint16(math.Round(1 / fm[3])),
		FontMatrix: fm,
		CMapTable: cmap.Table{
			{PlatformID: 0, EncodingID: 3}: subtable.Encode(0),
		},
	}
}

func makeType1(fm matrix.Matrix) *type1.Font {
	encoding := make([]string, 256)
	for i := range encoding {
		encoding[i] = ".notdef"
	}
	encoding[' '] = "space"
	encoding['A'] = "A"

	square := &type1.Glyph{WidthX: 500 / (1000 * fm[0])}
	drawSquare(square, fm)
	square.ClosePath()

	return &type1.Font{
		FontInfo: &type1.FontInfo{
			FontName:   "Square",
			FontMatrix: fm,
		},
		Outlines: &type1.Outlines{
			Glyphs: map[string]*type1.Glyph{
				".notdef": {WidthX: 500 / (1000 * fm[0])},
				"space":   {WidthX: 250 / (1000 * fm[0])},
				"A":       square,
			},
			Private:  &type1.PrivateDict{},
			Encoding: encoding,
		},
	}
}

func makeAFM() *afm.Metrics {
	encoding := make([]string, 256)
	encoding[' '] = "space"
	encoding['A'] = "A"
	return &afm.Metrics{
		Glyphs: map[string]*afm.GlyphInfo{
			".notdef": {WidthX: 500},
			"space":   {WidthX: 250},
			"A": {
				WidthX: 500,
				BBox:   rect.Rect{LLx: 100, LLy: 200, URx: 500, URy: 600},
			},
		},
		Encoding: encoding,
		FontName: "Square",
	}
}

var fontMatrices = []matrix.Matrix{
	{0.001, 0, 0, 0.001, 0, 0},
	{0.002, 0, 0, 0.002, 0, 0},
	{0.0005, 0, 0, 0.0005, 0, 0},
	{0.002, 0, 0, 0.0005, 0, 0},
}

// glyphBox computes the bounding box of the glyph for code, shown at font
// size 1 with the identity text matrix.
func glyphBox(t *testing.T, F reader.Font, code bbox.Code) (rect.Rect, bool) {
	t.Helper()
	box, ok, err := bbox.GlyphBounds(matrix.Identity, F.Variant(), F.FontMatrix(), code)
	if err != nil {
		t.Fatal(err)
	}
	return box, ok
}

func TestSquareFonts(t *testing.T) {
	for _, fm := range fontMatrices {
		fonts := map[string]reader.Font{
			"CFF":   NewTrueType(makeCFF(fm)),
			"Type1": NewType1(makeType1(fm), nil),
			"AFM":   NewMetrics(makeAFM(), nil),
		}
		for kind, F := range fonts {
			box, ok := glyphBox(t, F, 'A')
			if !ok {
				t.Errorf("%s %v: square glyph has no bounding box", kind, fm)
			} else if d := cmp.Diff(squareBox, box, approx); d != "" {
				t.Errorf("%s %v: (-want +got):\n%s", kind, fm, d)
			}

			if _, ok := glyphBox(t, F, ' '); ok {
				t.Errorf("%s %v: space has a bounding box", kind, fm)
			}

			info, n := F.Decode(pdf.String("AB"))
			if n != 1 || info.Code != 'A' {
				t.Errorf("%s %v: wrong decode result %v, %d", kind, fm, info, n)
			}
			if math.Abs(info.Width-0.5) > 1e-9 {
				t.Errorf("%s %v: wrong width %g", kind, fm, info.Width)
			}
			info, _ = F.Decode(pdf.String(" "))
			if math.Abs(info.Width-0.25) > 1e-9 {
				t.Errorf("%s %v: wrong space width %g", kind, fm, info.Width)
			}
		}
	}
}

func loadGoRegular(t *testing.T) *sfnt.Font {
	t.Helper()
	info, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		t.Fatal(err)
	}
	return info
}

func TestTransformPath(t *testing.T) {
	var p path.Data
	p.MoveTo(vec.Vec2{X: 1, Y: 2})
	p.LineTo(vec.Vec2{X: 3, Y: 4})
	p.Close()

	var got []vec.Vec2
	for _, pts := range transformPath(p.Iter(), matrix.Matrix{2, 0, 0, 3, 10, 20}) {
		got = append(got, pts...)
	}
	want := []vec.Vec2{{X: 12, Y: 26}, {X: 16, Y: 32}}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	if transformPath(nil, matrix.Identity) != nil {
		t.Error("nil path not preserved")
	}
}

func TestTrueType(t *testing.T) {
	info := loadGoRegular(t)
	F := NewTrueType(info)

	v, ok := F.Variant().(bbox.VectorFont)
	if !ok {
		t.Fatalf("unexpected variant %T", F.Variant())
	}
	if v.UnitsPerEm != int(info.UnitsPerEm) {
		t.Errorf("wrong units per em: %d != %d", v.UnitsPerEm, info.UnitsPerEm)
	}

	H, ok := glyphBox(t, F, 'H')
	if !ok {
		t.Fatal("glyph H has no bounding box")
	}
	I, ok := glyphBox(t, F, 'I')
	if !ok {
		t.Fatal("glyph I has no bounding box")
	}
	if H.IsZero() || H.URy <= 0.5 || H.URy >= 1 {
		t.Errorf("implausible box for H: %v", H)
	}
	if math.Abs(H.URy-I.URy) > 1e-9 || math.Abs(H.LLy-I.LLy) > 1e-9 {
		t.Errorf("H and I have different heights: %v %v", H, I)
	}
	if H.URx-H.LLx <= I.URx-I.LLx {
		t.Errorf("H is not wider than I: %v %v", H, I)
	}
	if _, ok := glyphBox(t, F, ' '); ok {
		t.Error("space has a bounding box")
	}

	info2, _ := F.Decode(pdf.String("H"))
	if info2.Width <= H.URx-H.LLx || info2.Width >= 1 {
		t.Errorf("implausible width for H: %g", info2.Width)
	}
}

// TestTrueTypeEncoding checks that Windows-1252 codes outside of ASCII are
// mapped via the cmap table.
func TestTrueTypeEncoding(t *testing.T) {
	info := loadGoRegular(t)
	F := NewTrueType(info)

	subtable, err := info.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	want := subtable.Lookup('€')
	if want == 0 {
		t.Skip("font has no euro sign")
	}
	if got := F.gid[0x80]; got != want {
		t.Errorf("code 0x80: got glyph %d, want %d", got, want)
	}
}

func TestComposite(t *testing.T) {
	info := loadGoRegular(t)
	subtable, err := info.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	gid := subtable.Lookup('H')

	simple := NewTrueType(info)
	want, _ := glyphBox(t, simple, 'H')
	wantInfo, _ := simple.Decode(pdf.String("H"))

	// identity mapping from CIDs to glyphs
	F := NewComposite(info, nil)
	s := pdf.String{byte(gid >> 8), byte(gid), 0}
	got, n := F.Decode(s)
	if n != 2 || got.Code != bbox.Code(gid) {
		t.Errorf("wrong decode result %v, %d", got, n)
	}
	if math.Abs(got.Width-wantInfo.Width) > 1e-9 {
		t.Errorf("wrong width: %g != %g", got.Width, wantInfo.Width)
	}
	box, ok := glyphBox(t, F, bbox.Code(gid))
	if !ok {
		t.Fatal("glyph H has no bounding box")
	}
	if d := cmp.Diff(want, box, approx); d != "" {
		t.Error(d)
	}

	_, n = F.Decode(s[2:])
	if n != 1 {
		t.Errorf("trailing byte: consumed %d bytes", n)
	}

	// explicit mapping from CIDs to glyphs
	F = NewComposite(info, []glyph.ID{0, gid})
	box, ok = glyphBox(t, F, 1)
	if !ok {
		t.Fatal("CID 1 has no bounding box")
	}
	if d := cmp.Diff(want, box, approx); d != "" {
		t.Error(d)
	}
}

func TestType3(t *testing.T) {
	F := &Type3{
		FontBBox: rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10},
		Matrix:   matrix.Matrix{0.1, 0, 0, 0.1, 0, 0},
		CharProcs: map[byte][]byte{
			'a': []byte("8 0 1 2 9 20 d1 1 2 8 18 re f"),
			'b': []byte("8 0 d0 1 0 0 rg 0 0 8 8 re f"),
			'c': []byte("0 0 m 1 1 l S"),
		},
	}
	F.Widths['a'] = 8

	v, ok := F.Variant().(bbox.Type3Font)
	if !ok {
		t.Fatalf("unexpected variant %T", F.Variant())
	}
	type testCase struct {
		code bbox.Code
		box  rect.Rect
		ok   bool
	}
	cases := []testCase{
		{'a', rect.Rect{LLx: 1, LLy: 2, URx: 9, URy: 20}, true},
		{'b', rect.Rect{}, false},
		{'c', rect.Rect{}, false},
		{'d', rect.Rect{}, false},
		{1000, rect.Rect{}, false},
	}
	for _, tc := range cases {
		box, ok := v.GlyphBBox(tc.code)
		if ok != tc.ok || box != tc.box {
			t.Errorf("%d: got %v %t, want %v %t", tc.code, box, ok, tc.box, tc.ok)
		}
	}

	// the glyph box is clipped to the font bounding box
	box, ok := glyphBox(t, F, 'a')
	want := rect.Rect{LLx: 0.1, LLy: 0.2, URx: 0.9, URy: 1}
	if !ok {
		t.Error("glyph a has no bounding box")
	} else if d := cmp.Diff(want, box, approx); d != "" {
		t.Error(d)
	}

	info, n := F.Decode(pdf.String("a"))
	if n != 1 || info.Code != 'a' || math.Abs(info.Width-0.8) > 1e-9 {
		t.Errorf("wrong decode result %v, %d", info, n)
	}
	if F.GlyphProc('c') == nil || F.GlyphProc('d') != nil {
		t.Error("wrong glyph procedures")
	}
}

// TestPage renders text in several fonts through the content stream reader.
func TestPage(t *testing.T) {
	fm := matrix.Matrix{0.001, 0, 0, 0.001, 0, 0}
	res := &reader.Resources{
		Font: map[pdf.Name]reader.Font{
			"F1": NewTrueType(loadGoRegular(t)),
			"F2": NewType1(makeType1(fm), nil),
			"F3": &Type3{
				FontBBox:  rect.Rect{URx: 1000, URy: 1000},
				Matrix:    fm,
				CharProcs: map[byte][]byte{'x': []byte("1000 0 0 0 1000 1000 d1 0 0 1000 1000 re f")},
			},
		},
	}

	type testCase struct {
		content string
		want    *bbox.Box
	}
	cases := []testCase{
		{
			content: "BT /F2 100 Tf 10 20 Td (A) Tj ET",
			want:    &bbox.Box{X: 20, Y: 40, Width: 40, Height: 40},
		},
		{
			content: "BT /F2 100 Tf 10 20 Td (AA) Tj ET",
			want:    &bbox.Box{X: 20, Y: 40, Width: 90, Height: 40},
		},
		{
			content: "BT /F2 100 Tf 10 20 Td ( ) Tj ET",
			want:    nil,
		},
		{
			content: "BT /F3 10 Tf 10 20 Td (x) Tj ET",
			want:    &bbox.Box{X: 10, Y: 20, Width: 10, Height: 10},
		},
	}
	for i, tc := range cases {
		f := bbox.NewFinder(nil)
		r := reader.New(f, nil)
		err := r.ParsePage(strings.NewReader(tc.content), res, matrix.Identity)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(tc.want, f.BoundingBox(), approx); d != "" {
			t.Errorf("%d: (-want +got):\n%s", i, d)
		}
	}

	// TrueType glyphs are placed inside the em square
	f := bbox.NewFinder(nil)
	r := reader.New(f, nil)
	err := r.ParsePage(strings.NewReader("BT /F1 12 Tf 72 720 Td (Hello) Tj ET"), res, matrix.Identity)
	if err != nil {
		t.Fatal(err)
	}
	box, ok := f.Rect()
	if !ok {
		t.Fatal("no bounding box")
	}
	if box.LLx < 72 || box.LLx > 74 || box.LLy < 719 || box.URy > 732 || box.URx < 90 {
		t.Errorf("implausible bounding box %v", box)
	}
}
