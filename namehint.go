// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// AlwaysRejectRunes contains runes that are not safe to use in filenames,
	// which is what name hints become on some platforms.
	AlwaysRejectRunes = `"*/:<>?|\`

	runeSpatium     = '\u2009'
	runeReplacement = '_'

	// memfd names are limited to 249 bytes; leaves room for suffixes like "-in".
	maxNameHintLen = 200

	errStrUnexpectedRange = "unexpected Unicode range: "
)

// Happen when parsing ranges.
var (
	errOutOfBounds = errors.New("value out of bounds")
)

// Not all runes in unicode.PrintRanges are suitable for filenames.
// They are collected here.
var excludedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x2028, 0x202f, 1}, // new line, paragraph etc.
		{0xfff0, 0xffff, 1}, // specials, and invalid (includes the obsolete (invalid) terminal boxes)
	},
	LatinOffset: 0,
}

// NameHint derives the name of temporary files from what a client called its document.
//
// The directory and extension are stripped. The remainder is normalized to 'form'
// (if not nil), and runes outside of 'restrictTo' (if given) or unsuitable
// for filenames are replaced by an underscore.
// The result is truncated to a length that every platform accepts.
// Returns "" if nothing is left.
func NameHint(filename string, restrictTo []*unicode.RangeTable, form *norm.Form) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch base {
	case ".", "/", "..":
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if form != nil {
		base = form.String(base)
	}

	var b strings.Builder
	for _, r := range base {
		if !isAcceptableRune(r, restrictTo) {
			r = runeReplacement
		}
		if b.Len()+utf8.RuneLen(r) > maxNameHintLen {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isAcceptableRune is used to enforce name hints in wanted alphabet(s).
// Setting 'reduceAcceptableRunesTo' reduces the supremum unicode.PrintRanges.
//
// Runes other than U+0020 (space) or U+2009 (spatium) representing space will be rejected.
func isAcceptableRune(r rune, reduceAcceptableRunesTo []*unicode.RangeTable) bool {
	if r == utf8.RuneError {
		return false
	}
	if reduceAcceptableRunesTo != nil && !unicode.In(r, reduceAcceptableRunesTo...) {
		return false
	}
	if uint32(r) <= unicode.MaxLatin1 && strings.ContainsRune(AlwaysRejectRunes, r) {
		return false
	}
	if r == runeSpatium {
		return true
	}
	return !unicode.Is(excludedRunes, r) &&
		unicode.IsPrint(r) // this takes care of the "spaces" as well
}

type tupleForRangeSlice [][3]uint64

func (a tupleForRangeSlice) Len() int      { return len(a) }
func (a tupleForRangeSlice) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a tupleForRangeSlice) Less(i, j int) bool {
	for n := range a[i] {
		if a[i][n] != a[j][n] {
			return a[i][n] < a[j][n]
		}
	}
	return false
}

// ParseUnicodeBlockList naïvely translates a string with space-delimited Unicode ranges to Go's unicode.RangeTable.
//
// All elements must fit into uint32.
// A Range must begin with its lower bound, and ranges must not overlap (we don't check this here!).
//
// The format of one range is as follows, with 'stride' being set to '1' if left empty.
//
//	<low>-<high>[:<stride>]
func ParseUnicodeBlockList(str string) (*unicode.RangeTable, error) {
	haveRanges := make(tupleForRangeSlice, 0, strings.Count(str, " ")+1)

	var s scanner.Scanner
	s.Init(strings.NewReader(str))
	tok := s.Scan()
	for tok != scanner.EOF {
		var (
			tuple = [3]uint64{0, 0, 1}
			err   error
		)
		if tuple[0], err = scanCodepoint(&s, tok); err != nil {
			return nil, err
		}
		if tok = s.Scan(); !(tok == '-' || tok == '–') {
			return nil, errors.New(errStrUnexpectedRange + s.Pos().String())
		}
		if tuple[1], err = scanCodepoint(&s, s.Scan()); err != nil {
			return nil, err
		}

		if tok = s.Scan(); tok == ':' {
			if s.Scan() != scanner.Int {
				return nil, errors.New(errStrUnexpectedRange + s.Pos().String())
			}
			if tuple[2], err = strconv.ParseUint(s.TokenText(), 10, 32); err != nil {
				return nil, errors.New(errStrUnexpectedRange + s.Pos().String())
			}
			tok = s.Scan()
		}
		haveRanges = append(haveRanges, tuple)
	}

	sort.Sort(haveRanges)
	return foldRanges(haveRanges)
}

// scanCodepoint reads values like "u0061", "U+0061", or "x61".
func scanCodepoint(s *scanner.Scanner, tok rune) (uint64, error) {
	if tok != scanner.Ident {
		return 0, errors.New(errStrUnexpectedRange + s.Pos().String())
	}
	v, err := strconv.ParseUint(strings.TrimLeft(s.TokenText(), "uU+x"), 16, 32)
	if err != nil {
		return 0, errors.New(errStrUnexpectedRange + s.Pos().String())
	}
	return v, nil
}

func foldRanges(haveRanges tupleForRangeSlice) (*unicode.RangeTable, error) {
	rt := unicode.RangeTable{}
	for _, r := range haveRanges {
		switch {
		case r[1] <= unicode.MaxLatin1:
			rt.LatinOffset++
			fallthrough
		case r[1] <= math.MaxUint16:
			rt.R16 = append(rt.R16, unicode.Range16{
				Lo:     uint16(r[0]),
				Hi:     uint16(r[1]),
				Stride: uint16(r[2]),
			})
		case r[1] <= math.MaxUint32:
			rt.R32 = append(rt.R32, unicode.Range32{
				Lo:     uint32(r[0]),
				Hi:     uint32(r[1]),
				Stride: uint32(r[2]),
			})
		default:
			return nil, errOutOfBounds
		}
	}
	return &rt, nil
}
