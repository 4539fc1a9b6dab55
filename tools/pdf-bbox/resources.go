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
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	wfont "github.com/tdewolff/font"

	"seehuhn.de/go/postscript/afm"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/bbox/font"
	"seehuhn.de/go/bbox/pdf"
	"seehuhn.de/go/bbox/reader"
)

// namedFiles collects the values of a repeatable NAME=FILE flag.
type namedFiles map[pdf.Name]string

func (m namedFiles) String() string {
	var parts []string
	for _, name := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, string(name)+"="+m[name])
	}
	return strings.Join(parts, ",")
}

func (m namedFiles) Set(value string) error {
	name, fname, ok := strings.Cut(value, "=")
	if !ok || name == "" || fname == "" {
		return fmt.Errorf("expected NAME=FILE, got %q", value)
	}
	m[pdf.Name(name)] = fname
	return nil
}

// imageNames collects the values of the repeatable -image flag.
type imageNames map[pdf.Name]bool

func (m imageNames) String() string {
	var parts []string
	for _, name := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, string(name))
	}
	return strings.Join(parts, ",")
}

func (m imageNames) Set(value string) error {
	if value == "" {
		return errors.New("empty image name")
	}
	m[pdf.Name(value)] = true
	return nil
}

// loadResources builds the resource dictionary shared by all content
// streams.
func loadResources(fonts, cidFonts, afmFonts, forms namedFiles, images imageNames) (*reader.Resources, error) {
	res := &reader.Resources{
		Font:    make(map[pdf.Name]reader.Font),
		XObject: make(map[pdf.Name]reader.XObject),
	}

	for name, fname := range fonts {
		F, err := loadSimpleFont(fname)
		if err != nil {
			return nil, err
		}
		res.Font[name] = F
	}
	for name, fname := range cidFonts {
		info, err := loadSfnt(fname)
		if err != nil {
			return nil, err
		}
		res.Font[name] = font.NewComposite(info, nil)
	}
	for name, fname := range afmFonts {
		F, err := loadMetrics(fname)
		if err != nil {
			return nil, err
		}
		res.Font[name] = F
	}
	for name := range images {
		res.XObject[name] = &reader.Image{}
	}
	for name, fname := range forms {
		body, err := os.ReadFile(fname)
		if err != nil {
			return nil, err
		}
		res.XObject[name] = &reader.Form{Content: body}
	}
	return res, nil
}

func loadSimpleFont(fname string) (reader.Font, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".pfa", ".pfb":
		fd, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		psFont, err := type1.Read(fd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		return font.NewType1(psFont, nil), nil
	default:
		info, err := loadSfnt(fname)
		if err != nil {
			return nil, err
		}
		return font.NewTrueType(info), nil
	}
}

func loadMetrics(fname string) (reader.Font, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	metrics, err := afm.Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return font.NewMetrics(metrics, nil), nil
}

// loadSfnt reads a TrueType or OpenType font.  Fonts in WOFF2 and EOT
// format are converted to sfnt format first.
func loadSfnt(fname string) (*sfnt.Font, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".woff2":
		data, err = wfont.ParseWOFF2(data)
	case ".eot":
		data, err = wfont.ParseEOT(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return info, nil
}
