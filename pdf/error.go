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

package pdf

import (
	"errors"
	"strconv"
	"strings"
)

// MalformedFileError indicates that a content stream could not be parsed.
type MalformedFileError struct {
	Line int // 1-based, 0 if unknown
	Err  error
	Loc  []string
}

func (err *MalformedFileError) Error() string {
	var parts []string
	for i := len(err.Loc) - 1; i >= 0; i-- {
		parts = append(parts, err.Loc[i])
	}
	head := ""
	if len(parts) > 0 {
		head = strings.Join(parts, ": ") + ": "
	}
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Line > 0 {
		tail = " (line " + strconv.Itoa(err.Line) + ")"
	}
	return head + "malformed content stream" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// Wrap adds location information to an error.
// If err is nil, nil is returned.
func Wrap(err error, loc string) error {
	if err == nil {
		return nil
	}
	var mf *MalformedFileError
	if errors.As(err, &mf) {
		mf.Loc = append(mf.Loc, loc)
		return mf
	}
	return &wrappedError{Err: err, Loc: loc}
}

type wrappedError struct {
	Err error
	Loc string
}

func (err *wrappedError) Error() string {
	return err.Loc + ": " + err.Err.Error()
}

func (err *wrappedError) Unwrap() error {
	return err.Err
}

// IsMalformed reports whether err indicates a malformed content stream.
func IsMalformed(err error) bool {
	var mf *MalformedFileError
	return errors.As(err, &mf)
}
