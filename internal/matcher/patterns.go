package matcher

import (
	"strings"

	"github.com/globtrail/globtrail/internal/brace"
	"github.com/globtrail/globtrail/internal/cache"
	"github.com/globtrail/globtrail/internal/xerrors"
)

// Patterns is the immutable, ordered result of compile_many (spec §3).
// It is shared read-only across every traversal worker once built.
type Patterns struct {
	Matchers      []*Matcher
	CaseSensitive bool
}

// Match reports whether candidate is accepted by any matcher, in
// compile order.
func (p *Patterns) Match(candidate string) bool {
	for _, m := range p.Matchers {
		if m.Match(candidate) {
			return true
		}
	}

	return false
}

// CompileConfig carries the knobs compile_many needs from GlobOptions
// without internal/matcher depending on the root package (which would
// create an import cycle).
type CompileConfig struct {
	CaseSensitive      bool
	RejectPathTraversal bool
	BraceLimits        brace.Limits
}

// CompileMany implements spec §4.3: validate, brace-expand, classify,
// compile (consulting the matcher cache), assemble.
func CompileMany(inputs []string, cfg CompileConfig, matcherCache *cache.Cache[*Matcher]) (*Patterns, error) {
	patterns := &Patterns{CaseSensitive: cfg.CaseSensitive}

	for _, input := range inputs {
		isRegex := strings.HasPrefix(input, "re:")

		if cfg.RejectPathTraversal && containsTraversal(input) {
			return nil, xerrors.PathTraversal(input)
		}

		if isRegex {
			source := strings.TrimPrefix(input, "re:")

			m, err := compileCached(source, true, cfg.CaseSensitive, matcherCache)
			if err != nil {
				return nil, err
			}

			patterns.Matchers = append(patterns.Matchers, m)

			continue
		}

		expansions, err := brace.Expand(input, cfg.BraceLimits)
		if err != nil {
			return nil, err
		}

		for _, expanded := range expansions {
			m, err := compileCached(expanded, false, cfg.CaseSensitive, matcherCache)
			if err != nil {
				return nil, err
			}

			patterns.Matchers = append(patterns.Matchers, m)
		}
	}

	return patterns, nil
}

// cacheKey matches spec §4.3 step 4: "(kind, source, case_sensitive)".
// "kind" here distinguishes regex-from-re-prefix vs glob/extglob, since
// that changes how source is compiled even when the text is identical.
func cacheKey(source string, isRegex, caseSensitive bool) string {
	var b strings.Builder

	if isRegex {
		b.WriteString("re:")
	} else {
		b.WriteString("gl:")
	}

	if caseSensitive {
		b.WriteString("cs:")
	} else {
		b.WriteString("ci:")
	}

	b.WriteString(source)

	return b.String()
}

func compileCached(source string, isRegex, caseSensitive bool, matcherCache *cache.Cache[*Matcher]) (*Matcher, error) {
	key := cacheKey(source, isRegex, caseSensitive)

	if matcherCache != nil {
		if m, ok := matcherCache.Get(key); ok {
			return m, nil
		}
	}

	m, err := Compile(source, isRegex, caseSensitive)
	if err != nil {
		return nil, err
	}

	if matcherCache != nil {
		matcherCache.Put(key, m)
	}

	return m, nil
}

// containsTraversal rejects patterns with an unescaped ".." path
// segment, per spec §4.3 step 1.
func containsTraversal(pattern string) bool {
	normalized := strings.ReplaceAll(pattern, `\`, "/")
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return true
		}
	}

	return false
}
