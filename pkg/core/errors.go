package core

import "github.com/pkg/errors"

// Sentinel errors shared by the topology, grid and engine packages. Callers
// match them with errors.Is; the packages wrap them with the offending detail.
var (
	// ErrInvalidCell reports a cell identifier or coordinate outside the domain.
	ErrInvalidCell = errors.New("invalid cell")
	// ErrInvalidTopology reports malformed shapes or asymmetric adjacency.
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrNonConvergence reports that an iteration budget ran out before the
	// run reached a stable state or a cycle. Results returned alongside it are valid.
	ErrNonConvergence = errors.New("no convergence within budget")
	// ErrConfiguration reports parameters that cannot work with the topology.
	ErrConfiguration = errors.New("invalid configuration")
)
