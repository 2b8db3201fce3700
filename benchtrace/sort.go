// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtrace

import "strings"

// naturalLess reports whether trace name a sorts before b in natural
// order: names are compared segment-by-segment on "/" boundaries, and
// within a segment digit runs compare as integers rather than text,
// so "alg/v2" sorts before "alg/v10". A name that is a prefix of
// another sorts first.
func naturalLess(a, b string) bool {
	return compareNames(a, b) < 0
}

func compareNames(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

// A run is a maximal substring of a segment that is either all ASCII
// digits or digit-free. Text runs order before number runs.
type run struct {
	text   string
	number bool
}

func splitRuns(s string) []run {
	var runs []run
	for len(s) > 0 {
		isDigit := s[0] >= '0' && s[0] <= '9'
		n := 1
		for n < len(s) && (s[n] >= '0' && s[n] <= '9') == isDigit {
			n++
		}
		runs = append(runs, run{text: s[:n], number: isDigit})
		s = s[n:]
	}
	return runs
}

func compareSegment(a, b string) int {
	as := splitRuns(a)
	bs := splitRuns(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		ar, br := as[i], bs[i]
		switch {
		case !ar.number && !br.number:
			if c := strings.Compare(ar.text, br.text); c != 0 {
				return c
			}
		case ar.number && br.number:
			if c := compareInts(ar.text, br.text); c != 0 {
				return c
			}
		case !ar.number:
			return -1
		default:
			return 1
		}
	}
	return len(as) - len(bs)
}

// compareInts compares two ASCII digit runs by integer value. Runs
// may exceed the machine word size, so compare digit strings after
// stripping leading zeros; equal values with different spellings
// ("07" vs "7") fall back to text order to keep the order total.
func compareInts(a, b string) int {
	at := strings.TrimLeft(a, "0")
	bt := strings.TrimLeft(b, "0")
	if len(at) != len(bt) {
		return len(at) - len(bt)
	}
	if c := strings.Compare(at, bt); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
