// Package brace expands shell-style brace groups ({a,b,c}, {1..5},
// {01..10..2}) into the finite set of literal strings they denote,
// the same left-to-right scan-and-recurse approach terragrunt's own
// config parser uses for HCL string interpolation spans, adapted here
// for glob patterns instead.
package brace

import (
	"strconv"
	"strings"

	"github.com/globtrail/globtrail/internal/xerrors"
)

// DefaultDepthCap and DefaultCountCap match spec §4.1's stated defaults.
const (
	DefaultDepthCap = 8
	DefaultCountCap = 65536
)

// Limits bounds brace expansion cost. Zero values fall back to the
// package defaults.
type Limits struct {
	MaxDepth int
	MaxCount int
}

func (l Limits) resolved() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultDepthCap
	}

	if l.MaxCount <= 0 {
		l.MaxCount = DefaultCountCap
	}

	return l
}

// Expand rewrites input into the cartesian enumeration of its brace
// groups, in lexical left-to-right order. Malformed braces (no matching
// close, or a comma-less single alternative that isn't a numeric range)
// are left unexpanded, as traditional shells do.
func Expand(input string, limits Limits) ([]string, error) {
	limits = limits.resolved()

	results, err := expand(input, limits, 0)
	if err != nil {
		return nil, err
	}

	return results, nil
}

func expand(input string, limits Limits, depth int) ([]string, error) {
	open := findUnescapedBrace(input, '{')
	if open == -1 {
		return []string{unescapeBraces(input)}, nil
	}

	if depth >= limits.MaxDepth {
		return nil, xerrors.BraceExpansionDepth(input)
	}

	closeIdx, err := matchingClose(input, open)
	if err != nil {
		// Unmatched brace: malformed, treat the rest as literal.
		return []string{unescapeBraces(input)}, nil
	}

	prefix := input[:open]
	body := input[open+1 : closeIdx]
	suffix := input[closeIdx+1:]

	alternatives, err := splitAlternatives(body, limits, depth)
	if err != nil {
		return nil, err
	}

	suffixExpansions, err := expand(suffix, limits, depth)
	if err != nil {
		return nil, err
	}

	// A comma-less, non-range group comes back as the literal "{body}";
	// keep it as-is instead of expanding the same braces again.
	if len(alternatives) == 1 && alternatives[0] == "{"+body+"}" {
		out := make([]string, 0, len(suffixExpansions))
		for _, s := range suffixExpansions {
			out = append(out, prefix+alternatives[0]+s)
		}

		return out, nil
	}

	var out []string

	for _, alt := range alternatives {
		altExpansions, err := expand(alt, limits, depth+1)
		if err != nil {
			return nil, err
		}

		for _, a := range altExpansions {
			for _, s := range suffixExpansions {
				if len(out) >= limits.MaxCount {
					return nil, xerrors.BraceExpansionCount(input)
				}

				out = append(out, prefix+a+s)
			}
		}
	}

	return out, nil
}

// splitAlternatives turns the body of one {...} group into its literal
// alternatives, handling both {a,b,c} and {start..end[..step]} forms.
func splitAlternatives(body string, limits Limits, depth int) ([]string, error) {
	if rng, ok := parseRange(body); ok {
		values, err := rng.values()
		if err != nil {
			return nil, err
		}

		if len(values) > limits.MaxCount {
			return nil, xerrors.BraceExpansionCount(body)
		}

		return values, nil
	}

	parts := splitTopLevelCommas(body)
	if len(parts) == 1 {
		// No comma and not a range: not a real group, keep braces literal.
		return []string{"{" + body + "}"}, nil
	}

	return parts, nil
}

func splitTopLevelCommas(s string) []string {
	var parts []string

	depth := 0
	start := 0
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	parts = append(parts, s[start:])

	return parts
}

type numRange struct {
	start, end, step int
	width            int
	negativeStep     bool
}

// parseRange recognizes "start..end" and "start..end..step". Zero
// padding is preserved when both endpoints share the same written
// width, per spec §4.1.
func parseRange(body string) (numRange, bool) {
	segs := strings.Split(body, "..")
	if len(segs) != 2 && len(segs) != 3 {
		return numRange{}, false
	}

	start, startOK := parseIntLiteral(segs[0])
	end, endOK := parseIntLiteral(segs[1])

	if !startOK || !endOK {
		return numRange{}, false
	}

	step := 1

	if len(segs) == 3 {
		s, ok := parseIntLiteral(segs[2])
		if !ok || s == 0 {
			return numRange{}, false
		}

		step = s
		if step < 0 {
			step = -step
			if start < end {
				return numRange{}, false
			}
		} else if start > end {
			return numRange{}, false
		}
	}

	width := 0
	if len(segs[0]) == len(segs[1]) && strings.HasPrefix(segs[0], "0") {
		width = len(segs[0])
	}

	return numRange{start: start, end: end, step: step, width: width}, true
}

func parseIntLiteral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

func (r numRange) values() ([]string, error) {
	var out []string

	if r.start <= r.end {
		for v := r.start; v <= r.end; v += r.step {
			out = append(out, r.format(v))
		}
	} else {
		for v := r.start; v >= r.end; v -= r.step {
			out = append(out, r.format(v))
		}
	}

	return out, nil
}

func (r numRange) format(v int) string {
	if r.width == 0 {
		return strconv.Itoa(v)
	}

	s := strconv.Itoa(v)
	neg := strings.HasPrefix(s, "-")

	if neg {
		s = s[1:]
	}

	for len(s) < r.width {
		s = "0" + s
	}

	if neg {
		s = "-" + s
	}

	return s
}

// findUnescapedBrace returns the index of the first unescaped rune c,
// or -1.
func findUnescapedBrace(s string, c byte) int {
	escaped := false

	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == c:
			return i
		}
	}

	return -1
}

// matchingClose finds the '}' matching the '{' at openIdx, counting
// nested braces and ignoring escaped ones.
func matchingClose(s string, openIdx int) (int, error) {
	depth := 0
	escaped := false

	for i := openIdx; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '{':
			depth++
		case s[i] == '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return -1, xerrors.InvalidPattern(s, "unmatched '{'")
}

func unescapeBraces(s string) string {
	if !strings.ContainsAny(s, "\\") {
		return s
	}

	var b strings.Builder

	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			if c != '{' && c != '}' {
				b.WriteByte('\\')
			}

			b.WriteByte(c)

			escaped = false

			continue
		}

		if c == '\\' {
			escaped = true
			continue
		}

		b.WriteByte(c)
	}

	if escaped {
		b.WriteByte('\\')
	}

	return b.String()
}
