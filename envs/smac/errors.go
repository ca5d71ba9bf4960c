// Package smac adapts the SMAC (StarCraft Multi-Agent Challenge) benchmark
// to the toolkit's record-oriented environment contract. The benchmark itself
// runs behind a bridge process; this package owns a client binding to one
// environment instance and translates between bridge payloads and records.
package smac

import "errors"

var (
	// ErrConfiguration marks missing or invalid construction arguments.
	ErrConfiguration = errors.New("smac: invalid configuration")
	// ErrSpecDerivation marks spec derivation attempted before the
	// environment was built.
	ErrSpecDerivation = errors.New("smac: environment not built")
	// ErrUnsupportedOp marks operations the benchmark cannot perform, such
	// as reseeding a live environment.
	ErrUnsupportedOp = errors.New("smac: unsupported operation")
	// ErrDependencyMissing marks an unreachable bridge at construction time.
	ErrDependencyMissing = errors.New("smac: bridge not available")
)

// ProjectURL points at the upstream benchmark; it is included in
// ErrDependencyMissing messages as a remediation hint.
const ProjectURL = "https://github.com/oxwhirl/smac"
