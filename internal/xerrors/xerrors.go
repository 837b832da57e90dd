// Package xerrors defines the unified error taxonomy shared by every
// globtrail component. Every kind is carried by the one GlobError
// struct, tagged by its Kind field, with one constructor per kind; every
// constructor wraps the result with
// go-errors/errors so callers get a stack trace at the point of failure
// rather than at the point it is finally printed.
package xerrors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies a GlobError so callers can branch on errors.As without
// string-matching messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindRegex
	KindInvalidPattern
	KindPathTraversal
	KindSymlinkCycle
	KindPermissionDenied
	KindBraceExpansionDepth
	KindBraceExpansionCount
	KindRegexTooComplex
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "Io"
	case KindRegex:
		return "Regex"
	case KindInvalidPattern:
		return "InvalidPattern"
	case KindPathTraversal:
		return "PathTraversal"
	case KindSymlinkCycle:
		return "SymlinkCycle"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindBraceExpansionDepth:
		return "BraceExpansionDepth"
	case KindBraceExpansionCount:
		return "BraceExpansionCount"
	case KindRegexTooComplex:
		return "RegexTooComplex"
	default:
		return "Unknown"
	}
}

// GlobError is the single error type returned across the public API.
// Path/Pattern/Source/Cause are populated according to Kind; unused
// fields are left zero.
type GlobError struct {
	Kind    Kind
	Path    string
	Pattern string
	Source  string
	Reason  string
	Cause   error
}

func (e *GlobError) Error() string {
	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("io error at %q: %v", e.Path, e.Cause)
	case KindRegex:
		return fmt.Sprintf("regex compilation failed for %q: %v", e.Source, e.Cause)
	case KindInvalidPattern:
		return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
	case KindPathTraversal:
		return fmt.Sprintf("pattern %q attempts to escape its root via \"..\"", e.Pattern)
	case KindSymlinkCycle:
		return fmt.Sprintf("symlink cycle detected at %q", e.Path)
	case KindPermissionDenied:
		return fmt.Sprintf("permission denied at %q", e.Path)
	case KindBraceExpansionDepth:
		return fmt.Sprintf("brace expansion of %q exceeds maximum nesting depth", e.Pattern)
	case KindBraceExpansionCount:
		return fmt.Sprintf("brace expansion of %q exceeds maximum alternative count", e.Pattern)
	case KindRegexTooComplex:
		return fmt.Sprintf("pattern %q exceeds the regex complexity budget", e.Pattern)
	default:
		return fmt.Sprintf("glob error: %v", e.Cause)
	}
}

func (e *GlobError) Unwrap() error { return e.Cause }

// wrap attaches a stack trace, matching errors.WithStackTrace(err) call
// sites across the teacher's config package.
func wrap(e *GlobError) error {
	return goerrors.WrapPrefix(e, e.Kind.String(), 1)
}

func IO(path string, cause error) error {
	return wrap(&GlobError{Kind: KindIO, Path: path, Cause: cause})
}

func Regex(source string, cause error) error {
	return wrap(&GlobError{Kind: KindRegex, Source: source, Cause: cause})
}

func InvalidPattern(pattern, reason string) error {
	return wrap(&GlobError{Kind: KindInvalidPattern, Pattern: pattern, Reason: reason})
}

func PathTraversal(pattern string) error {
	return wrap(&GlobError{Kind: KindPathTraversal, Pattern: pattern})
}

func SymlinkCycle(path string) error {
	return wrap(&GlobError{Kind: KindSymlinkCycle, Path: path})
}

func PermissionDenied(path string) error {
	return wrap(&GlobError{Kind: KindPermissionDenied, Path: path})
}

func BraceExpansionDepth(pattern string) error {
	return wrap(&GlobError{Kind: KindBraceExpansionDepth, Pattern: pattern})
}

func BraceExpansionCount(pattern string) error {
	return wrap(&GlobError{Kind: KindBraceExpansionCount, Pattern: pattern})
}

func RegexTooComplex(pattern string) error {
	return wrap(&GlobError{Kind: KindRegexTooComplex, Pattern: pattern})
}

// As extracts the *GlobError carried by err, unwrapping go-errors/errors'
// wrapper and any chain built with fmt.Errorf("%w", ...).
func As(err error) (*GlobError, bool) {
	var ge *GlobError

	var gwrap *goerrors.Error
	if errors.As(err, &gwrap) {
		err = gwrap.Err
	}

	if errors.As(err, &ge) {
		return ge, true
	}

	return nil, false
}
