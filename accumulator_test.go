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
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func TestAccumulatorEmpty(t *testing.T) {
	var a Accumulator
	if !a.IsEmpty() {
		t.Error("zero accumulator is not empty")
	}
	if _, ok := a.Rect(); ok {
		t.Error("empty accumulator has a rectangle")
	}
	if a.Box() != nil {
		t.Error("empty accumulator has a box")
	}
}

// TestAccumulatorOrigin checks that a single point at the origin is
// recorded, even though the resulting rectangle is all zero.
func TestAccumulatorOrigin(t *testing.T) {
	var a Accumulator
	a.AddPoint(vec.Vec2{})
	if a.IsEmpty() {
		t.Fatal("accumulator is empty after AddPoint")
	}
	if d := cmp.Diff(&Box{}, a.Box()); d != "" {
		t.Error(d)
	}

	a.AddPoint(vec.Vec2{X: -1, Y: 2})
	want := rect.Rect{LLx: -1, LLy: 0, URx: 0, URy: 2}
	got, _ := a.Rect()
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestAccumulatorUnnormalized(t *testing.T) {
	var a Accumulator
	a.AddRect(rect.Rect{LLx: 10, LLy: 20, URx: 0, URy: 5})
	want := rect.Rect{LLx: 0, LLy: 5, URx: 10, URy: 20}
	got, _ := a.Rect()
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestAccumulatorIdempotent(t *testing.T) {
	r := rect.Rect{LLx: 1, LLy: 2, URx: 3, URy: 4}

	var a, b Accumulator
	a.AddRect(r)
	b.AddRect(r)
	b.AddRect(r)
	if d := cmp.Diff(a.Box(), b.Box()); d != "" {
		t.Error(d)
	}
}

func TestAccumulatorOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	rects := make([]rect.Rect, 20)
	for i := range rects {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		rects[i] = rect.Rect{LLx: x, LLy: y, URx: x + rng.Float64()*10, URy: y + rng.Float64()*10}
	}

	var ref Accumulator
	for _, r := range rects {
		ref.AddRect(r)
	}
	want := ref.Box()

	for range 10 {
		rng.Shuffle(len(rects), func(i, j int) { rects[i], rects[j] = rects[j], rects[i] })
		var a Accumulator
		for _, r := range rects {
			a.AddRect(r)
		}
		if d := cmp.Diff(want, a.Box()); d != "" {
			t.Fatal(d)
		}
	}
}

func TestAccumulatorMerge(t *testing.T) {
	var a, b, empty Accumulator
	a.AddPoint(vec.Vec2{X: 1, Y: 1})
	b.AddPoint(vec.Vec2{X: 3, Y: -1})

	a.Merge(&empty)
	if d := cmp.Diff(&Box{X: 1, Y: 1}, a.Box()); d != "" {
		t.Error(d)
	}

	a.Merge(&b)
	if d := cmp.Diff(&Box{X: 1, Y: -1, Width: 2, Height: 2}, a.Box()); d != "" {
		t.Error(d)
	}
}

func TestPathExtent(t *testing.T) {
	var e PathExtent
	var a Accumulator

	e.FlushTo(&a)
	if !a.IsEmpty() {
		t.Error("flushing an empty path changed the accumulator")
	}

	e.Add(vec.Vec2{X: 1, Y: 2}, vec.Vec2{X: 5, Y: 0})
	e.FlushTo(&a)
	if !e.IsEmpty() {
		t.Error("path not reset after flush")
	}
	if d := cmp.Diff(&Box{X: 1, Y: 0, Width: 4, Height: 2}, a.Box()); d != "" {
		t.Error(d)
	}

	e.Add(vec.Vec2{X: 100, Y: 100})
	e.Reset()
	e.FlushTo(&a)
	if d := cmp.Diff(&Box{X: 1, Y: 0, Width: 4, Height: 2}, a.Box()); d != "" {
		t.Error(d)
	}
}

func TestTransformRect(t *testing.T) {
	r := rect.Rect{LLx: 0, LLy: 0, URx: 2, URy: 1}

	// rotation by 90 degrees, followed by a translation
	M := matrix.Matrix{0, 1, -1, 0, 10, 0}
	got := transformRect(M, r)
	want := rect.Rect{LLx: 9, LLy: 0, URx: 10, URy: 2}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestApply(t *testing.T) {
	M := matrix.Matrix{0, 2, -3, 0, 5, 7}
	got := apply(M, vec.Vec2{X: 1, Y: 1})
	want := vec.Vec2{X: 2, Y: 9}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBoxString(t *testing.T) {
	b := &Box{X: 1, Y: 2.5, Width: 100, Height: 0.25}
	if got := b.String(); got != "1.00 2.50 100.00 0.25" {
		t.Errorf("unexpected string %q", got)
	}
	want := rect.Rect{LLx: 1, LLy: 2.5, URx: 101, URy: 2.75}
	if d := cmp.Diff(want, b.Rect()); d != "" {
		t.Error(d)
	}
}
