// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit formats throughput values with unit prefixes for
// axis labels.
package benchunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Class specifies what class of unit prefixes are in use.
type Class int

const (
	// Decimal scales values by powers of 1000 and uses SI
	// prefixes ("k", "M", "G", ...).
	Decimal Class = iota
	// Binary scales values by powers of 1024 and uses IEC binary
	// prefixes ("Ki", "Mi", "Gi", ...).
	Binary
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

type factor struct {
	factor float64
	prefix string
}

var siFactors = []factor{
	{1e12, "T"},
	{1e9, "G"},
	{1e6, "M"},
	{1e3, "k"},
	{1, ""},
}

var iecFactors = []factor{
	{1 << 40, "Ti"},
	{1 << 30, "Gi"},
	{1 << 20, "Mi"},
	{1 << 10, "Ki"},
	{1, ""},
}

// Scale formats val with three significant digits and the largest
// prefix of cls that keeps the scaled value at or above one. Values
// below one carry no prefix; neither SI nor IEC fractional prefixes
// make sense for rates like B/s.
func Scale(val float64, cls Class) string {
	factors := siFactors
	if cls == Binary {
		factors = iecFactors
	}

	abs := math.Abs(val)
	f := factors[len(factors)-1]
	for _, c := range factors {
		if abs >= c.factor {
			f = c
			break
		}
	}

	scaled := val / f.factor
	prec := 2
	switch {
	case math.Abs(scaled) >= 100:
		prec = 0
	case math.Abs(scaled) >= 10:
		prec = 1
	}
	return strconv.FormatFloat(scaled, 'f', prec, 64) + f.prefix
}
