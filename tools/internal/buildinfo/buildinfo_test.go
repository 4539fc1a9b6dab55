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

package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestModuleVersion(t *testing.T) {
	type testCase struct {
		main     string
		settings []debug.BuildSetting
		want     string
	}
	cases := []testCase{
		{main: "v1.2.3", want: "v1.2.3"},
		{main: "(devel)", want: ""},
		{
			main: "(devel)",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
			},
			want: "01234567",
		},
		{
			main: "",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: "abc+dirty",
		},
		{
			settings: []debug.BuildSetting{
				{Key: "vcs.modified", Value: "true"},
			},
			want: "",
		},
	}
	for i, tc := range cases {
		info := &debug.BuildInfo{
			Main:     debug.Module{Path: "seehuhn.de/go/bbox", Version: tc.main},
			Settings: tc.settings,
		}
		if got := moduleVersion(info); got != tc.want {
			t.Errorf("%d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestShort(t *testing.T) {
	got := Short("pdf-bbox")
	if !strings.HasPrefix(got, "pdf-bbox") {
		t.Errorf("unexpected version string %q", got)
	}
}
