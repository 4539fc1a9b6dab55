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
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/bbox"
	"seehuhn.de/go/bbox/reader"
	"seehuhn.de/go/bbox/tools/internal/buildinfo"
	"seehuhn.de/go/bbox/tools/internal/profile"
)

var (
	fonts      = namedFiles{}
	cidFonts   = namedFiles{}
	afmFonts   = namedFiles{}
	forms      = namedFiles{}
	images     = imageNames{}
	verbose    = flag.Bool("v", false, "print diagnostic messages to stderr")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func init() {
	flag.Var(fonts, "font", "simple font `NAME=FILE` (.ttf, .otf, .woff2, .eot, .pfa or .pfb)")
	flag.Var(cidFonts, "cid", "composite Identity-H font `NAME=FILE` (.ttf, .otf, .woff2 or .eot)")
	flag.Var(afmFonts, "afm", "simple font `NAME=FILE` given by its AFM metrics")
	flag.Var(forms, "form", "form XObject `NAME=FILE`, where FILE holds the form's content stream")
	flag.Var(images, "image", "image XObject `NAME`")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-bbox - find the extent of the visible content of PDF content streams\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-bbox"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-bbox [options] <content>...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  content    files holding decoded page content streams\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-bbox page1.txt\n")
		fmt.Fprintf(os.Stderr, "  pdf-bbox -font F1=DejaVuSans.ttf -image Im0 page1.txt page2.txt\n")
		fmt.Fprintf(os.Stderr, "  pdf-bbox -afm F2=Helvetica.afm page1.txt\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer stop()

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	res, err := loadResources(fonts, cidFonts, afmFonts, forms, images)
	if err != nil {
		return err
	}

	finder := bbox.NewFinder(&bbox.FinderOptions{Logger: logger})
	r := reader.New(finder, &reader.Options{Logger: logger})
	labelled := term.IsTerminal(int(os.Stdout.Fd()))
	for _, fname := range flag.Args() {
		finder.Reset()
		err := processFile(r, res, fname)
		if err != nil {
			return err
		}
		writeResult(os.Stdout, fname, finder.BoundingBox(), labelled)
	}
	return nil
}

func processFile(r *reader.Reader, res *reader.Resources, fname string) error {
	fd, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer fd.Close()

	err = r.ParsePage(fd, res, matrix.Identity)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}

// writeResult prints the bounding box for one content stream.  Without a
// terminal, the output is one line per file with the four numbers
// "x y width height", or "-" if there is no visible content.
func writeResult(w io.Writer, fname string, box *bbox.Box, labelled bool) {
	switch {
	case labelled && box == nil:
		fmt.Fprintf(w, "%s: no visible content\n", fname)
	case labelled:
		fmt.Fprintf(w, "%s: x=%.2f y=%.2f width=%.2f height=%.2f\n",
			fname, box.X, box.Y, box.Width, box.Height)
	case box == nil:
		fmt.Fprintln(w, "-")
	default:
		fmt.Fprintln(w, box)
	}
}
