package node

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var identifierRe = regexp.MustCompile(`^[\p{L}\p{Nl}$_][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}$_]*$`)

var indexRe = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// SortProperties orders names in place and returns them. Two names that both
// start with an integer compare numerically, anything else compares by code
// unit. The sort is stable.
func SortProperties(names []string) []string {
	slices.SortStableFunc(names, compareNames)
	return names
}

func compareNames(a, b string) int {
	ai, aok := leadingInt(a)
	bi, bok := leadingInt(b)
	if aok && bok {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(a, b)
}

// leadingInt parses the integer prefix of s the way a lenient base-10 parser
// does: leading whitespace and a sign are accepted, trailing garbage ignored.
func leadingInt(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return sign * f, true
}

// EscapePropertyName quotes names that are neither identifiers nor array
// indices, so "foo bar" and foo render differently.
func EscapePropertyName(name string) string {
	if identifierRe.MatchString(name) || indexRe.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
