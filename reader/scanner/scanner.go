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

// Package scanner breaks PDF content streams into operators and their
// arguments.
package scanner

import (
	"errors"
	"io"
	"math"
	"strconv"

	"seehuhn.de/go/bbox/pdf"
)

// OpInlineImage is the name of the pseudo-operator which represents a
// complete inline image (BI ... ID ... EI).  The arguments are the image
// dictionary and the raw image data.
const OpInlineImage = "%image%"

// A Scanner breaks a content stream into operators.
//
// Parse errors are ignored as much as possible.  Only read errors and
// inline images which cannot be delimited stop the scanner.
type Scanner struct {
	line  int // 0-based
	col   int // 0-based
	stack []*scanStackFrame
	args  []pdf.Object
	op    Operator

	// err is the first error returned by src.Read().
	// Once an error has been returned, all subsequent calls to .refill() will
	// return err.
	err    error
	fatal  error
	src    io.Reader
	buf    []byte
	pos    int
	used   int
	crSeen bool
}

type scanStackFrame struct {
	data   []pdf.Object
	isDict bool
}

// NewScanner returns a new scanner.
// Use [Scanner.SetInput] to set the content stream to read from.
func NewScanner() *Scanner {
	return &Scanner{
		buf: make([]byte, 512),
	}
}

// SetInput makes the scanner read from r.
func (s *Scanner) SetInput(r io.Reader) {
	s.src = r
	s.pos = 0
	s.used = 0
	s.crSeen = false
	s.err = nil
	s.fatal = nil
}

// Reset clears all internal state, so that the scanner can be re-used.
func (s *Scanner) Reset() {
	s.line = 0
	s.col = 0
	s.stack = s.stack[:0]
	s.args = s.args[:0]
	s.op = Operator{}
	s.SetInput(nil)
}

// Scan advances to the next operator, which can then be retrieved using
// [Scanner.Operator].  Scan returns false at the end of input or when an error
// occurs.  In this case, [Scanner.Error] returns the error, if any.
func (s *Scanner) Scan() bool {
	if s.src == nil || s.fatal != nil {
		return false
	}
	s.args = s.args[:0]

tokenLoop:
	for {
		obj, err := s.nextToken()
		if err != nil {
			return false
		}

		switch obj {
		case operator("<<"):
			s.stack = append(s.stack, &scanStackFrame{isDict: true})
			continue tokenLoop
		case operator(">>"):
			if len(s.stack) == 0 || !s.stack[len(s.stack)-1].isDict {
				// unexpected '>>'
				continue tokenLoop
			}
			entry := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			if len(entry.data)%2 != 0 {
				// unexpected '>>'
				continue tokenLoop
			}
			dict := pdf.Dict{}
			for i := 0; i < len(entry.data); i += 2 {
				key, ok := entry.data[i].(pdf.Name)
				if !ok {
					// invalid key
					continue
				}
				val := entry.data[i+1]
				if val == nil {
					continue
				}
				dict[key] = val
			}
			obj = dict
		case operator("["):
			s.stack = append(s.stack, &scanStackFrame{})
			continue tokenLoop
		case operator("]"):
			if len(s.stack) == 0 || s.stack[len(s.stack)-1].isDict {
				// unexpected "]"
				continue tokenLoop
			}
			obj = pdf.Array(s.stack[len(s.stack)-1].data)
			s.stack = s.stack[:len(s.stack)-1]
		}

		if len(s.stack) > 0 { // we are inside a dict or array
			s.stack[len(s.stack)-1].data = append(s.stack[len(s.stack)-1].data, obj)
			continue tokenLoop
		}

		op, isOp := obj.(operator)
		if !isOp {
			if len(s.args) < maxOperatorArgs {
				s.args = append(s.args, obj)
			}
			continue tokenLoop
		}

		if op == "BI" {
			img, err := s.readInlineImage()
			if err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				s.fatal = &pdf.MalformedFileError{Line: s.line + 1, Err: err}
				return false
			}
			s.op = img
			return true
		}

		s.op = Operator{Name: string(op), Args: s.args}
		return true
	}
}

// Operator returns the most recent operator found by [Scanner.Scan].
//
// The argument slice is owned by the scanner and is only valid until the next
// call to Scan.
func (s *Scanner) Operator() Operator {
	return s.op
}

// Error returns the first error encountered by the scanner.
// Reaching the end of input is not an error.
func (s *Scanner) Error() error {
	if s.fatal != nil {
		return s.fatal
	}
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Line returns the 1-based line number of the current input position.
func (s *Scanner) Line() int {
	return s.line + 1
}

func (s *Scanner) nextToken() (pdf.Object, error) {
	s.skipWhiteSpace()
	bb := s.peekN(2)
	if len(bb) == 0 {
		return nil, s.err
	}

	switch {
	case bb[0] == '/':
		s.skipN(1)
		return s.readName(), nil
	case bb[0] == '(':
		s.skipN(1)
		return s.readString()
	case string(bb) == "<<":
		s.skipN(2)
		return operator("<<"), nil
	case bb[0] == '<':
		s.skipN(1)
		return s.readHexString()
	case string(bb) == ">>":
		s.skipN(2)
		return operator(">>"), nil
	default:
		opBytes := []byte{bb[0]}
		s.readByte() // skip bb[0] (invalidates bb)
		if class[opBytes[0]] == regular {
			for {
				b, err := s.peek()
				if err == io.EOF {
					break
				} else if err != nil {
					return nil, err
				}
				if class[b] != regular {
					break
				}
				s.readByte() // skip b
				opBytes = append(opBytes, b)
			}
		}

		if x := parseNumber(opBytes); x != nil {
			return x, nil
		}

		switch string(opBytes) {
		case "false":
			return pdf.Boolean(false), nil
		case "true":
			return pdf.Boolean(true), nil
		case "null":
			return nil, nil
		}
		return operator(opBytes), nil
	}
}

// readInlineImage reads the remainder of a BI ... ID ... EI sequence,
// after the BI operator has been consumed.
func (s *Scanner) readInlineImage() (Operator, error) {
	dict := pdf.Dict{}
	for {
		s.skipWhiteSpace()

		if s.peekString("ID") {
			s.skipN(2)
			break
		}

		b := s.peekN(1)
		if len(b) == 0 {
			return Operator{}, io.EOF
		}
		if b[0] != '/' {
			return Operator{}, errInlineImage
		}
		s.skipN(1)
		key := s.readName()

		val, err := s.readObject()
		if err != nil {
			return Operator{}, err
		}
		if val != nil {
			dict[key] = val
		}
	}

	width := getInlineImageInt(dict, "W", "Width")
	height := getInlineImageInt(dict, "H", "Height")
	if width <= 0 || height <= 0 || width > maxInlineImageDim || height > maxInlineImageDim {
		return Operator{}, errInlineImage
	}

	length := getInlineImageInt(dict, "L", "Length")
	filter := getInlineImageFilter(dict)

	// ID is followed by a single white-space character
	b, _ := s.peek()
	if b <= 32 {
		s.readByte()
	}
	if isASCIIFilter(filter) {
		s.skipWhiteSpace()
	}

	var data []byte
	if length > 0 {
		if length > maxInlineImageBytes {
			return Operator{}, errInlineImage
		}
		data = make([]byte, length)
		for i := range data {
			b, err := s.readByte()
			if err != nil {
				return Operator{}, err
			}
			data[i] = b
		}
		s.skipWhiteSpace()
	} else {
		var prevByte byte
		for {
			if (prevByte == '\r' || prevByte == '\n' || prevByte == ' ') && s.checkEI() {
				data = data[:len(data)-1]
				break
			}
			if len(data) >= maxInlineImageBytes {
				return Operator{}, errInlineImage
			}

			b, err := s.readByte()
			if err != nil {
				return Operator{}, err
			}
			data = append(data, b)
			prevByte = b
		}
	}

	if !s.peekString("EI") {
		return Operator{}, errInlineImage
	}
	s.skipN(2)

	return Operator{
		Name: OpInlineImage,
		Args: []pdf.Object{dict, pdf.String(data)},
	}, nil
}

// readObject reads one complete object, including arrays and dictionaries.
// Operators are not allowed.
func (s *Scanner) readObject() (pdf.Object, error) {
	obj, err := s.nextToken()
	if err != nil {
		return nil, err
	}
	switch obj {
	case operator("["):
		var a pdf.Array
		for {
			s.skipWhiteSpace()
			if s.peekString("]") {
				s.skipN(1)
				return a, nil
			}
			elem, err := s.readObject()
			if err != nil {
				return nil, err
			}
			a = append(a, elem)
		}
	case operator("<<"):
		d := pdf.Dict{}
		for {
			s.skipWhiteSpace()
			if s.peekString(">>") {
				s.skipN(2)
				return d, nil
			}
			key, err := s.readObject()
			if err != nil {
				return nil, err
			}
			val, err := s.readObject()
			if err != nil {
				return nil, err
			}
			if name, ok := key.(pdf.Name); ok && val != nil {
				d[name] = val
			}
		}
	}
	if _, isOp := obj.(operator); isOp {
		return nil, errInlineImage
	}
	return obj, nil
}

// checkEI reports whether the input is positioned at an EI operator which
// is followed by white space, a delimiter, or the end of input.
func (s *Scanner) checkEI() bool {
	buf := s.peekN(3)
	if len(buf) < 2 || buf[0] != 'E' || buf[1] != 'I' {
		return false
	}
	return len(buf) == 2 || class[buf[2]] != regular
}

func (s *Scanner) peekString(str string) bool {
	return string(s.peekN(len(str))) == str
}

// getInlineImageInt extracts an integer value from an inline image
// dictionary.  The abbreviated key takes precedence.
// If the key is not found or the value is not a number, -1 is returned.
func getInlineImageInt(dict pdf.Dict, abbrev, full pdf.Name) int {
	val, ok := dict[abbrev]
	if !ok {
		val = dict[full]
	}
	x, ok := pdf.GetNumber(val)
	if !ok {
		return -1
	}
	return int(x)
}

// getInlineImageFilter returns the last filter applied when encoding
// the image data.
func getInlineImageFilter(dict pdf.Dict) pdf.Name {
	val, ok := dict["F"]
	if !ok {
		val = dict["Filter"]
	}
	switch v := val.(type) {
	case pdf.Name:
		return v
	case pdf.Array:
		if len(v) > 0 {
			if name, ok := v[len(v)-1].(pdf.Name); ok {
				return name
			}
		}
	}
	return ""
}

func isASCIIFilter(filter pdf.Name) bool {
	switch filter {
	case "ASCIIHexDecode", "AHx", "ASCII85Decode", "A85":
		return true
	}
	return false
}

// Reads a PDF string (not including the leading parenthesis).
func (s *Scanner) readString() (pdf.String, error) {
	var res []byte
	bracketLevel := 1
	ignoreLF := false
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, err
		}
		if ignoreLF && b == 10 {
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			bracketLevel++
			res = append(res, b)
		case ')':
			bracketLevel--
			if bracketLevel == 0 {
				return pdf.String(res), nil
			}
			res = append(res, b)
		case '\\':
			b, err = s.readByte()
			if err != nil {
				return nil, err
			}
			switch b {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case 10: // LF
				// ignore
			case 13: // CR or CR+LF
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7': // octal
				oct := b - '0'
				for i := 0; i < 2; i++ {
					b, err = s.peek()
					if err != nil || b < '0' || b > '7' {
						break
					}
					s.readByte()
					oct = oct*8 + (b - '0')
				}
				res = append(res, oct)
			default: // includes '(', ')' and '\\'
				res = append(res, b)
			}
		default:
			res = append(res, b)
		}
	}
}

func (s *Scanner) readHexString() (pdf.String, error) {
	var res []byte
	first := true
	var hi byte
readLoop:
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, err
		}
		var lo byte
		switch {
		case b == '>':
			break readLoop
		case b <= 32:
			continue
		default:
			lo = hexDigit(b)
			if lo == 255 {
				// ignore invalid characters
				continue
			}
		}
		if first {
			hi = lo << 4
			first = false
		} else {
			res = append(res, hi|lo)
			first = true
		}
	}
	if !first {
		res = append(res, hi)
	}

	return pdf.String(res), nil
}

// readName reads a PDF name object (not including the leading slash).
func (s *Scanner) readName() pdf.Name {
	var name []byte
	for {
		b, err := s.peek()
		if err != nil {
			break
		}

		if b == '#' {
			if b, ok := s.tryHex(); ok {
				name = append(name, b)
				continue
			}
			name = append(name, '#')
		} else if class[b] != regular {
			break
		} else {
			name = append(name, b)
		}
		s.readByte()
	}
	return pdf.Name(name)
}

func (s *Scanner) tryHex() (byte, bool) {
	digits := s.peekN(3)
	if len(digits) != 3 {
		return 0, false
	}
	high := hexDigit(digits[1])
	low := hexDigit(digits[2])
	if high == 255 || low == 255 {
		return 0, false
	}
	s.skipN(3)
	return high<<4 | low, true
}

// skipWhiteSpace skips all input (including comments) until a non-whitespace
// character is found.
func (s *Scanner) skipWhiteSpace() {
	for {
		b, err := s.peek()
		if err != nil {
			break
		}
		if b <= 32 {
			s.readByte()
		} else if b == '%' {
			s.skipToEOL()
		} else {
			break
		}
	}
}

// skipToEOL skips everything up to (but not including) the end of the line.
func (s *Scanner) skipToEOL() {
	for {
		b, err := s.peek()
		if b == 10 || b == 13 || err != nil {
			break
		}
		s.readByte()
	}
}

// readByte consumes and returns the next byte of the input stream.
// The function updates the line and column numbers.
func (s *Scanner) readByte() (byte, error) {
	b, err := s.peek()
	if err != nil {
		return 0, err
	}
	s.pos++

	if s.crSeen && b == 10 {
		// LF after CR does not start a new line
	} else if b == 10 || b == 13 {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	s.crSeen = (b == 13)

	return b, nil
}

// peek returns the next byte from the input stream without consuming it.
func (s *Scanner) peek() (byte, error) {
	for s.pos >= s.used {
		err := s.refill()
		if err != nil {
			return 0, err
		}
	}
	return s.buf[s.pos], nil
}

// peekN returns the next n bytes from the input stream without consuming them.
// In case of EOF or of a read error, less than n bytes may be returned.
//
// The returned slice is owned by the scanner and is only valid until the next
// read.
func (s *Scanner) peekN(n int) []byte {
	for s.pos+n > s.used {
		err := s.refill()
		if err != nil {
			break
		}
	}

	a := s.pos
	b := min(s.pos+n, s.used)
	return s.buf[a:b]
}

// skipN consumes n bytes from the input stream.
// Only use this for bytes which cannot be line breaks.
func (s *Scanner) skipN(n int) {
	for n > 0 {
		if s.pos >= s.used {
			err := s.refill()
			if err != nil {
				break
			}
		}
		if s.pos+n <= s.used {
			s.pos += n
			s.col += n
			break
		}
		n -= s.used - s.pos
		s.col += s.used - s.pos
		s.pos = s.used
	}
}

// refill reads more data from the underlying reader into the buffer.
// This is the only place where the underlying reader is called.
func (s *Scanner) refill() error {
	if s.err != nil {
		return s.err
	}

	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	n, err := s.src.Read(s.buf[s.used:])
	s.used += n
	s.err = err

	if n == 0 {
		if err == nil {
			// a reader which makes no progress is treated like a failed read
			s.err = io.ErrNoProgress
		}
		return s.err
	}
	return nil
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 255
	}
}

// parseNumber tries to interpret s as a number.
// The function returns [pdf.Integer] or [pdf.Real] in case s is a valid
// number, and nil otherwise.
func parseNumber(s []byte) pdf.Object {
	x, err := strconv.ParseInt(string(s), 10, 64)
	if err == nil {
		return pdf.Integer(x)
	}

	isSimple := len(s) > 0
	for i, c := range s {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			isSimple = false
			break
		}
	}

	if isSimple {
		y, err := strconv.ParseFloat(string(s), 64)
		if err == nil && !math.IsInf(y, 0) && !math.IsNaN(y) {
			return pdf.Real(y)
		}
	}

	return nil
}

var errInlineImage = errors.New("invalid inline image")

// limits for inline images and operator arguments
const (
	maxInlineImageBytes = 1 << 20
	maxInlineImageDim   = 65536
	maxOperatorArgs     = 64
)

// operator is a PDF operator found in a content stream.
type operator pdf.Name

// PDF implements the [pdf.Object] interface.
func (x operator) PDF(w io.Writer) error {
	_, err := w.Write([]byte(x))
	return err
}

type characterClass byte

const (
	regular characterClass = iota
	space
	delimiter
)

var class [256]characterClass

func init() {
	for _, c := range []byte{0, 9, 10, 12, 13, 32} {
		class[c] = space
	}
	for _, c := range []byte("%()/<>[]{}") {
		class[c] = delimiter
	}
}
