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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/reader"
)

func TestNamedFiles(t *testing.T) {
	m := namedFiles{}
	for _, bad := range []string{"", "F1", "=a.ttf", "F1="} {
		if err := m.Set(bad); err == nil {
			t.Errorf("%q: missing error", bad)
		}
	}
	if err := m.Set("F2=b.ttf"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("F1=a=1.ttf"); err != nil {
		t.Fatal(err)
	}
	if got := m.String(); got != "F1=a=1.ttf,F2=b.ttf" {
		t.Errorf("wrong string %q", got)
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		fname := filepath.Join(dir, name)
		err := os.WriteFile(fname, []byte(content), 0o644)
		if err != nil {
			t.Fatal(err)
		}
		return fname
	}

	fontFile := filepath.Join(dir, "goregular.ttf")
	err := os.WriteFile(fontFile, goregular.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	formFile := write("form.txt", "0 0 10 10 re f")
	page := write("page.txt", "q 2 0 0 2 100 100 cm /Fm Do Q q 50 0 0 50 0 0 cm /Im Do Q")
	text := write("text.txt", "BT /F1 12 Tf 72 720 Td (Hello) Tj ET")
	empty := write("empty.txt", "BT /F1 12 Tf ( ) Tj ET 0 0 m 10 10 l n")

	res, err := loadResources(
		namedFiles{"F1": fontFile},
		namedFiles{"F2": fontFile},
		nil,
		namedFiles{"Fm": formFile},
		imageNames{"Im": true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Font) != 2 || len(res.XObject) != 2 {
		t.Fatalf("wrong resources: %v", res)
	}

	finder := bbox.NewFinder(nil)
	r := reader.New(finder, nil)

	err = processFile(r, res, page)
	if err != nil {
		t.Fatal(err)
	}
	want := &bbox.Box{X: 0, Y: 0, Width: 120, Height: 120}
	if got := finder.BoundingBox(); *got != *want {
		t.Errorf("got %v, want %v", got, want)
	}

	finder.Reset()
	err = processFile(r, res, text)
	if err != nil {
		t.Fatal(err)
	}
	if finder.BoundingBox() == nil {
		t.Error("text has no bounding box")
	}

	finder.Reset()
	err = processFile(r, res, empty)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	writeResult(buf, empty, finder.BoundingBox(), false)
	writeResult(buf, page, want, false)
	if got := buf.String(); got != "-\n0.00 0.00 120.00 120.00\n" {
		t.Errorf("wrong output %q", got)
	}

	err = processFile(r, res, filepath.Join(dir, "missing.txt"))
	if err == nil {
		t.Error("missing file not detected")
	}
}

func TestLoadSfntErrors(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bad.woff2", "bad.eot", "bad.ttf"} {
		fname := filepath.Join(dir, name)
		err := os.WriteFile(fname, []byte("not a font"), 0o644)
		if err != nil {
			t.Fatal(err)
		}
		_, err = loadSfnt(fname)
		if err == nil {
			t.Errorf("%s: missing error", name)
		}
	}
	_, err := loadSfnt(filepath.Join(dir, "missing.ttf"))
	if err == nil {
		t.Error("missing file not detected")
	}
}
