// Package matcher classifies and compiles expanded glob patterns into
// the tagged-variant Matcher spec §3 describes, dispatching to the
// cheapest compiled form available for each pattern shape rather than
// running every pattern through one general regex engine.
package matcher

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/gobwas/glob"

	"github.com/globtrail/globtrail/internal/extglob"
	"github.com/globtrail/globtrail/internal/xerrors"
)

// Kind tags which compiled representation a Matcher holds.
type Kind int

const (
	KindLiteral Kind = iota
	KindGlob       // glob, no "**" — gobwas/glob, separator '/'
	KindDoublestar // glob containing "**" — bmatcuk/doublestar
	KindRegex
	KindExtglob
)

// Matcher is one compiled pattern. Which compiled fields are populated
// is selected by Kind; an extglob using "!(...)" carries both re and
// extFilter.
type Matcher struct {
	Kind          Kind
	Source        string
	CaseSensitive bool

	literal      string
	compiledGlob glob.Glob
	doubleStar   string
	re           *regexp.Regexp
	extFilter    func(string) bool
}

// Match reports whether candidate (a "/"-separated relative path) is
// accepted by m. Anchored to the whole path, per spec §3's Matcher
// invariant — never a substring match.
func (m *Matcher) Match(candidate string) bool {
	switch m.Kind {
	case KindLiteral:
		if m.CaseSensitive {
			return candidate == m.literal
		}

		return strings.EqualFold(candidate, m.literal)
	case KindGlob:
		if m.CaseSensitive {
			return m.compiledGlob.Match(candidate)
		}

		return m.compiledGlob.Match(strings.ToLower(candidate))
	case KindDoublestar:
		pattern := m.doubleStar
		cand := candidate

		if !m.CaseSensitive {
			pattern = strings.ToLower(pattern)
			cand = strings.ToLower(cand)
		}

		ok, err := doublestar.Match(pattern, cand)

		return err == nil && ok
	case KindRegex, KindExtglob:
		if !m.re.MatchString(candidate) {
			return false
		}

		if m.extFilter != nil {
			return m.extFilter(candidate)
		}

		return true
	default:
		return false
	}
}

// classification is metacharacter detection used to pick the cheapest
// Kind for a pattern, per spec §4.3 step 3.
func classify(pattern string) (hasMeta bool) {
	return strings.ContainsAny(pattern, "*?[")
}

// Compile classifies and compiles one already-brace-expanded pattern.
// isRegex is set by the caller when pattern is the tail of a "re:"
// pattern; that source is compiled as-is, anchored to the whole path.
func Compile(pattern string, isRegex bool, caseSensitive bool) (*Matcher, error) {
	if isRegex {
		source := pattern

		reSource := "^(?:" + source + ")$"
		if !caseSensitive {
			reSource = "(?i)" + reSource
		}

		re, err := regexp.Compile(reSource)
		if err != nil {
			return nil, xerrors.Regex(source, err)
		}

		return &Matcher{Kind: KindRegex, Source: source, CaseSensitive: caseSensitive, re: re}, nil
	}

	if extglob.HasExtglob(pattern) || strings.Contains(pattern, "**") {
		if extglob.HasExtglob(pattern) {
			res, err := extglob.Translate(pattern, caseSensitive)
			if err != nil {
				return nil, err
			}

			m := &Matcher{Kind: KindExtglob, Source: pattern, CaseSensitive: caseSensitive, re: res.Regex}
			if res.Filtered {
				m.extFilter = res.Filter
			}

			return m, nil
		}

		return &Matcher{Kind: KindDoublestar, Source: pattern, CaseSensitive: caseSensitive, doubleStar: pattern}, nil
	}

	if !classify(pattern) {
		return &Matcher{Kind: KindLiteral, Source: pattern, CaseSensitive: caseSensitive, literal: pattern}, nil
	}

	compileSource := pattern
	if !caseSensitive {
		compileSource = strings.ToLower(compileSource)
	}

	g, err := glob.Compile(compileSource, '/')
	if err != nil {
		return nil, xerrors.InvalidPattern(pattern, err.Error())
	}

	return &Matcher{Kind: KindGlob, Source: pattern, CaseSensitive: caseSensitive, compiledGlob: g}, nil
}
