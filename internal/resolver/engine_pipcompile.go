package resolver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mmaaz-git/pipip/internal/depgraph"
)

// pipCompileResolver drives pip-tools' pip-compile, the reference engine.
type pipCompileResolver struct {
	path string
}

// Output fragments pip/pip-tools print when resolution is impossible.
var pipCompileUnsatMarkers = []string{
	"resolutionimpossible",
	"could not find a version that matches",
	"no matching distribution found",
	"incompatible constraints",
}

func (r *pipCompileResolver) Resolve(ctx context.Context, graph *depgraph.Graph) (depgraph.Resolution, error) {
	ws, err := lower(graph)
	if err != nil {
		return nil, errors.Wrap(err, "lowering graph for pip-compile")
	}

	dir, err := os.MkdirTemp("", "pipip-pipcompile-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating workspace")
	}
	defer os.RemoveAll(dir)

	packageDir, requirementsIn, err := ws.materialize(dir)
	if err != nil {
		return nil, err
	}
	lockfile := filepath.Join(dir, "requirements.txt")

	cmd := exec.CommandContext(ctx, r.path,
		"--find-links", packageDir,
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
		"engine":   EngineReference,
		"wheels":   len(ws.wheels),
		"duration": time.Since(start),
	}).Debug("pip-compile finished")

	if runErr != nil {
		if ctx.Err() != nil {
			return nil, &Error{Engine: EngineReference, Timeout: true, Err: ctx.Err()}
		}
		if containsAny(stderr.String()+stdout.String(), pipCompileUnsatMarkers) {
			return nil, nil
		}
		return nil, &Error{Engine: EngineReference, Output: stderr.String(), Err: runErr}
	}

	contents, err := os.ReadFile(lockfile)
	if err != nil {
		return nil, &Error{Engine: EngineReference, Err: errors.Wrap(err, "reading lockfile")}
	}
	resolution, err := ws.raise(string(contents))
	if err != nil {
		return nil, &Error{Engine: EngineReference, Output: string(contents), Err: err}
	}
	return resolution, nil
}

func containsAny(output string, markers []string) bool {
	output = strings.ToLower(output)
	for _, marker := range markers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}
