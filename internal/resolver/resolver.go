// Package resolver submits dependency graphs to an external package
// resolution engine and maps its answer back into graph terms.
//
// Two engines are supported: uv ("fast") and pip-compile ("reference").
// They differ only in speed, never in contract: both either produce a
// complete pinned resolution or fail with a resolution-impossible report.
// The engine's search algorithm is a black box; this package only builds
// the wheel house it searches over and classifies its exit.
package resolver

import (
	"context"
	"fmt"

	"github.com/mmaaz-git/pipip/internal/depgraph"
)

// Resolver is the narrow capability the encoding pipelines depend on. A nil
// Resolution with a nil error means the graph has no valid resolution.
type Resolver interface {
	Resolve(ctx context.Context, graph *depgraph.Graph) (depgraph.Resolution, error)
}

// Error reports an engine failure: a crash, unparseable output, or a
// timeout. It is deliberately distinct from UNSAT, which is an expected
// outcome and not an error at all.
type Error struct {
	Engine  string
	Output  string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("resolver: %s timed out: %v", e.Engine, e.Err)
	}
	return fmt.Sprintf("resolver: %s failed: %v: %s", e.Engine, e.Err, e.Output)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Engine names accepted by New.
const (
	EngineFast      = "fast"
	EngineReference = "reference"
)

// New returns the named engine configured with cfg.
func New(name string, cfg Config) (Resolver, error) {
	switch name {
	case EngineFast:
		return &uvResolver{path: cfg.UVPath}, nil
	case EngineReference:
		return &pipCompileResolver{path: cfg.PipCompilePath}, nil
	default:
		return nil, fmt.Errorf("resolver: unknown engine %q", name)
	}
}
