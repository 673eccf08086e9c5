package resolver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mmaaz-git/pipip/internal/depgraph"
)

// uvResolver drives `uv pip compile`, the fast engine.
type uvResolver struct {
	path string
}

// Output fragments uv prints when the requirement set has no solution.
// Anything else on a nonzero exit is an engine failure, not UNSAT.
var uvUnsatMarkers = []string{
	"no solution found",
	"are incompatible",
	"no version of",
}

func (r *uvResolver) Resolve(ctx context.Context, graph *depgraph.Graph) (depgraph.Resolution, error) {
	ws, err := lower(graph)
	if err != nil {
		return nil, errors.Wrap(err, "lowering graph for uv")
	}

	dir, err := os.MkdirTemp("", "pipip-uv-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating workspace")
	}
	defer os.RemoveAll(dir)

	packageDir, requirementsIn, err := ws.materialize(dir)
	if err != nil {
		return nil, err
	}
	lockfile := filepath.Join(dir, "requirements.txt")

	cmd := exec.CommandContext(ctx, r.path, "pip", "compile",
		"--find-links", packageDir,
		"--no-index",
		"--no-annotate",
		"--no-header",
		requirementsIn,
		"-o", lockfile,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	logrus.WithFields(logrus.Fields{
		"engine":   EngineFast,
		"wheels":   len(ws.wheels),
		"duration": time.Since(start),
	}).Debug("uv pip compile finished")

	if runErr != nil {
		if ctx.Err() != nil {
			return nil, &Error{Engine: EngineFast, Timeout: true, Err: ctx.Err()}
		}
		if containsAny(stderr.String()+stdout.String(), uvUnsatMarkers) {
			return nil, nil
		}
		return nil, &Error{Engine: EngineFast, Output: stderr.String(), Err: runErr}
	}

	contents, err := os.ReadFile(lockfile)
	if err != nil {
		return nil, &Error{Engine: EngineFast, Err: errors.Wrap(err, "reading lockfile")}
	}
	resolution, err := ws.raise(string(contents))
	if err != nil {
		return nil, &Error{Engine: EngineFast, Output: string(contents), Err: err}
	}
	return resolution, nil
}
