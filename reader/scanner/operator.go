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

package scanner

import (
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/bbox/pdf"
)

// Operator is a content stream operator together with its operands.
//
// The Get methods remove operands from the front of Args.  A missing operand,
// or an operand of the wrong type, sets HasError; once HasError is set, no
// further operands are consumed.
type Operator struct {
	Name     string
	Args     []pdf.Object
	HasError bool
}

// OK returns true if all operands have been consumed without error.
func (op Operator) OK() bool {
	return !op.HasError && len(op.Args) == 0
}

// take removes the first operand and returns it as a T.
func take[T pdf.Object](op *Operator) T {
	var zero T
	if op.HasError || len(op.Args) == 0 {
		op.HasError = true
		return zero
	}
	x, ok := op.Args[0].(T)
	op.Args = op.Args[1:]
	if !ok {
		op.HasError = true
		return zero
	}
	return x
}

// GetInteger consumes an integer operand.
func (op *Operator) GetInteger() pdf.Integer {
	return take[pdf.Integer](op)
}

// GetNumber consumes a numeric operand.  Integers are converted.
func (op *Operator) GetNumber() float64 {
	x, ok := pdf.GetNumber(take[pdf.Object](op))
	if !ok {
		op.HasError = true
	}
	return x
}

// GetNumbers consumes n numeric operands.
func (op *Operator) GetNumbers(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = op.GetNumber()
	}
	return res
}

// GetMatrix consumes six numeric operands, as used by cm and Tm.
func (op *Operator) GetMatrix() matrix.Matrix {
	var m matrix.Matrix
	for i := range m {
		m[i] = op.GetNumber()
	}
	return m
}

// GetName consumes a name operand.
func (op *Operator) GetName() pdf.Name {
	return take[pdf.Name](op)
}

// GetString consumes a string operand.
func (op *Operator) GetString() pdf.String {
	return take[pdf.String](op)
}

// GetArray consumes an array operand, as used by TJ.
func (op *Operator) GetArray() pdf.Array {
	return take[pdf.Array](op)
}
