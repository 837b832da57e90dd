package globtrail

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/globtrail/globtrail/internal/brace"
	"github.com/globtrail/globtrail/internal/predicate"
)

// FileType re-exports predicate.FileType so callers building Predicates
// don't need to import an internal package.
type FileType = predicate.FileType

const (
	AnyFile     = predicate.Any
	RegularFile = predicate.File
	Directory   = predicate.Directory
	Symlink     = predicate.Symlink
)

// Predicates is the immutable filter specification of spec §3.
type Predicates = predicate.Predicates

// GlobOptions is the immutable configuration shared by glob_sync and
// glob_stream, assembled through Option functions the way terragrunt
// builds TerragruntOptions — construct with NewGlobOptions(opts...),
// never by zero-valuing the struct directly, since case sensitivity,
// path-traversal rejection, max_inflight and the logger need their
// defaults applied.
type GlobOptions struct {
	CaseSensitive       bool
	FollowSymlinks      bool
	MaxDepth            *uint32 // nil = unlimited, matching spec §3's Option<u32>
	MaxInflight         uint32
	Predicates          Predicates
	RejectPathTraversal bool

	BraceLimits brace.Limits

	MatcherCacheCapacity  int
	MatcherCacheTTL       time.Duration
	MetadataCacheCapacity int
	MetadataCacheTTL      time.Duration

	Logger *logrus.Entry
}

// Option mutates a GlobOptions under construction.
type Option func(*GlobOptions)

// NewGlobOptions applies every default from spec §3/§4.8, then the
// caller's Option overrides, then validates invariants that must hold
// at build time (max_inflight == 0 is rejected, per §4.8).
func NewGlobOptions(opts ...Option) (GlobOptions, error) {
	o := GlobOptions{
		CaseSensitive:       true,
		FollowSymlinks:      false,
		MaxDepth:            nil,
		MaxInflight:         uint32(runtime.NumCPU()),
		RejectPathTraversal: true,
		BraceLimits:         brace.Limits{},
		Logger:              discardLogger(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	if o.MaxInflight == 0 {
		return GlobOptions{}, errInvalidMaxInflight
	}

	return o, nil
}

func WithCaseSensitive(v bool) Option   { return func(o *GlobOptions) { o.CaseSensitive = v } }
func WithFollowSymlinks(v bool) Option  { return func(o *GlobOptions) { o.FollowSymlinks = v } }

// WithMaxDepth sets the recursion bound; Some(0) means "match only the
// roots themselves", per spec §4.8.
func WithMaxDepth(depth uint32) Option {
	return func(o *GlobOptions) { o.MaxDepth = &depth }
}

func WithUnlimitedDepth() Option {
	return func(o *GlobOptions) { o.MaxDepth = nil }
}

func WithMaxInflight(n uint32) Option     { return func(o *GlobOptions) { o.MaxInflight = n } }
func WithPredicates(p Predicates) Option  { return func(o *GlobOptions) { o.Predicates = p } }
func WithRejectPathTraversal(v bool) Option {
	return func(o *GlobOptions) { o.RejectPathTraversal = v }
}

func WithBraceLimits(limits brace.Limits) Option {
	return func(o *GlobOptions) { o.BraceLimits = limits }
}

func WithMatcherCache(capacity int, ttl time.Duration) Option {
	return func(o *GlobOptions) {
		o.MatcherCacheCapacity = capacity
		o.MatcherCacheTTL = ttl
	}
}

func WithMetadataCache(capacity int, ttl time.Duration) Option {
	return func(o *GlobOptions) {
		o.MetadataCacheCapacity = capacity
		o.MetadataCacheTTL = ttl
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(o *GlobOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(discardWriter{})

	return logrus.NewEntry(logger)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
