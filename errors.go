package globtrail

import "github.com/globtrail/globtrail/internal/xerrors"

// Kind classifies a GlobError, per spec §7's error taxonomy.
type Kind = xerrors.Kind

const (
	KindIO                  = xerrors.KindIO
	KindRegex               = xerrors.KindRegex
	KindInvalidPattern      = xerrors.KindInvalidPattern
	KindPathTraversal       = xerrors.KindPathTraversal
	KindSymlinkCycle        = xerrors.KindSymlinkCycle
	KindPermissionDenied    = xerrors.KindPermissionDenied
	KindBraceExpansionDepth = xerrors.KindBraceExpansionDepth
	KindBraceExpansionCount = xerrors.KindBraceExpansionCount
	KindRegexTooComplex     = xerrors.KindRegexTooComplex
)

// GlobError is the single error type returned across the public API.
type GlobError = xerrors.GlobError

// AsGlobError extracts the *GlobError carried by err, if any, unwrapping
// the stack-trace wrapper go-errors/errors adds at the point of
// creation.
func AsGlobError(err error) (*GlobError, bool) {
	return xerrors.As(err)
}

var errInvalidMaxInflight = xerrors.InvalidPattern("", "max_inflight must be greater than zero")
