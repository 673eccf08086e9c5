package resolver

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/mmaaz-git/pipip/internal/depgraph"
)

const wheelTag = "py3-none-any"

const wheelFileContents = `Wheel-Version: 1.0
Generator: pipip (1.0.0)
Root-Is-Purelib: true
Tag: py3-none-any`

// wheel is one concrete installable package version in the lowered
// universe the engine searches over.
type wheel struct {
	name    string
	version semver.Version
	deps    []string
}

func (w wheel) filename() string {
	return fmt.Sprintf("%s-%s-%s.whl", w.name, w.version, wheelTag)
}

// workspace is a graph lowered into engine terms: a wheel house plus root
// requirement lines, with the bookkeeping needed to raise the engine's
// lockfile back into graph terms.
type workspace struct {
	wheels       []wheel
	requirements []string
	split        map[string]splitNode
}

// splitNode records a node whose single version carried a requires-group
// spanning several nodes. Wheel metadata has no "one of" construct, so the
// version is lowered into one wheel version per alternative; whichever one
// the engine picks, the graph-level selection is the same declared version.
type splitNode struct {
	graphVersion string
	groupIndex   int
	count        int
}

// lower flattens a graph into a workspace. It only accepts group shapes
// that wheel metadata can express: pins, same-node version subsets, and at
// most one cross-node group on a node's sole version. The SAT encoder
// produces nothing else; anything else here is a contract violation.
func lower(graph *depgraph.Graph) (*workspace, error) {
	ws := &workspace{split: make(map[string]splitNode)}

	for _, node := range graph.Nodes {
		for _, version := range node.Versions {
			for g, group := range version.Requires {
				if !spansNodes(group) {
					continue
				}
				if len(node.Versions) != 1 {
					return nil, errors.Errorf("node %s: cross-node group on a multi-version node", node.Name)
				}
				if _, dup := ws.split[node.Name]; dup {
					return nil, errors.Errorf("node %s: more than one cross-node group", node.Name)
				}
				ws.split[node.Name] = splitNode{
					graphVersion: version.Name,
					groupIndex:   g,
					count:        len(group),
				}
			}
		}
	}

	for _, node := range graph.Nodes {
		if sp, ok := ws.split[node.Name]; ok {
			version := node.Versions[0]
			base, err := ws.versionDeps(graph, node.Name, version, sp.groupIndex)
			if err != nil {
				return nil, err
			}
			for k, alt := range version.Requires[sp.groupIndex] {
				pin, err := ws.pinDep(graph, alt)
				if err != nil {
					return nil, err
				}
				ws.wheels = append(ws.wheels, wheel{
					name:    node.Name,
					version: semver.MustParse(fmt.Sprintf("%d.0.0", k+1)),
					deps:    append(append([]string{}, base...), pin),
				})
			}
			continue
		}

		for _, version := range node.Versions {
			parsed, err := semver.Parse(version.Name)
			if err != nil {
				return nil, errors.Wrapf(err, "node %s: version %q", node.Name, version.Name)
			}
			deps, err := ws.versionDeps(graph, node.Name, version, -1)
			if err != nil {
				return nil, err
			}
			ws.wheels = append(ws.wheels, wheel{name: node.Name, version: parsed, deps: deps})
		}
	}

	for _, group := range graph.Root.Requires {
		if spansNodes(group) {
			return nil, errors.New("root: cross-node requires-group is not lowerable")
		}
		req, err := ws.groupDep(graph, group)
		if err != nil {
			return nil, err
		}
		ws.requirements = append(ws.requirements, req)
	}

	return ws, nil
}

// versionDeps renders a version's requires-groups and conflicts as PEP 508
// requirement strings, skipping the group at index skip (a cross-node group
// handled by splitting).
func (ws *workspace) versionDeps(graph *depgraph.Graph, owner string, version depgraph.Version, skip int) ([]string, error) {
	var deps []string
	for g, group := range version.Requires {
		if g == skip {
			continue
		}
		dep, err := ws.groupDep(graph, group)
		if err != nil {
			return nil, errors.Wrapf(err, "node %s version %s", owner, version.Name)
		}
		deps = append(deps, dep)
	}
	for _, conflict := range version.Conflicts {
		if conflict.Node == owner {
			// The engine never installs two versions of one package;
			// same-node conflicts need no metadata at all.
			continue
		}
		if _, split := ws.split[conflict.Node]; split {
			return nil, errors.Errorf("node %s: conflict against split node %s", owner, conflict.Node)
		}
		deps = append(deps, fmt.Sprintf("%s!=%s", conflict.Node, conflict.Version))
	}
	return deps, nil
}

// groupDep renders a single-node requires-group as one requirement string.
func (ws *workspace) groupDep(graph *depgraph.Graph, group depgraph.RequireGroup) (string, error) {
	if len(group) == 0 {
		return "", errors.New("empty requires-group")
	}
	if len(group) == 1 {
		return ws.pinDep(graph, group[0])
	}
	if spansNodes(group) {
		return "", errors.New("cross-node requires-group outside a split")
	}

	name := group[0].Node
	node, ok := graph.Node(name)
	if !ok {
		return "", errors.Errorf("requires-group references unknown node %s", name)
	}

	members := lo.SliceToMap(group, func(ref depgraph.VersionRef) (string, struct{}) {
		return ref.Version, struct{}{}
	})
	excluded := lo.FilterMap(node.Versions, func(v depgraph.Version, _ int) (string, bool) {
		_, member := members[v.Name]
		return fmt.Sprintf("!=%s", v.Name), !member
	})
	if len(excluded) == 0 {
		return ws.rangeDep(name)
	}
	return name + strings.Join(excluded, ","), nil
}

// pinDep renders a single-alternative reference. A pin against a split node
// means "any of its lowered versions": the split alternatives all stand for
// the same graph-level version.
func (ws *workspace) pinDep(graph *depgraph.Graph, ref depgraph.VersionRef) (string, error) {
	if _, split := ws.split[ref.Node]; split {
		return ws.rangeDep(ref.Node)
	}
	if _, ok := graph.Node(ref.Node); !ok {
		return "", errors.Errorf("reference to unknown node %s", ref.Node)
	}
	return fmt.Sprintf("%s==%s", ref.Node, ref.Version), nil
}

// rangeDep renders "any lowered version of this node" as a closed range,
// the way the original requirements were pinned.
func (ws *workspace) rangeDep(name string) (string, error) {
	versions := ws.loweredVersions(name)
	if len(versions) == 0 {
		return "", errors.Errorf("node %s has no lowered versions", name)
	}
	if len(versions) == 1 {
		return fmt.Sprintf("%s==%s", name, versions[0]), nil
	}
	lowest, highest := versions[0], versions[0]
	for _, v := range versions[1:] {
		if v.LT(lowest) {
			lowest = v
		}
		if v.GT(highest) {
			highest = v
		}
	}
	return fmt.Sprintf("%s>=%s,<=%s", name, lowest, highest), nil
}

func (ws *workspace) loweredVersions(name string) []semver.Version {
	return lo.FilterMap(ws.wheels, func(w wheel, _ int) (semver.Version, bool) {
		return w.version, w.name == name
	})
}

func spansNodes(group depgraph.RequireGroup) bool {
	return lo.SomeBy(group, func(ref depgraph.VersionRef) bool {
		return ref.Node != group[0].Node
	})
}

// materialize writes the wheel house and requirements.in under dir and
// returns their paths.
func (ws *workspace) materialize(dir string) (packageDir, requirementsIn string, err error) {
	packageDir = filepath.Join(dir, "packages")
	if err := os.MkdirAll(packageDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "creating wheel house")
	}
	for _, w := range ws.wheels {
		if err := writeWheel(packageDir, w); err != nil {
			return "", "", err
		}
	}

	requirementsIn = filepath.Join(dir, "requirements.in")
	content := strings.Join(ws.requirements, "\n") + "\n"
	if err := os.WriteFile(requirementsIn, []byte(content), 0o644); err != nil {
		return "", "", errors.Wrap(err, "writing requirements.in")
	}
	return packageDir, requirementsIn, nil
}

// writeWheel emits a minimal metadata-only wheel: a zip holding the
// dist-info METADATA, WHEEL and RECORD members.
func writeWheel(dir string, w wheel) error {
	file, err := os.Create(filepath.Join(dir, w.filename()))
	if err != nil {
		return errors.Wrapf(err, "creating wheel %s", w.filename())
	}
	defer file.Close()

	metadata := []string{
		fmt.Sprintf("Name: %s", w.name),
		fmt.Sprintf("Version: %s", w.version),
		"Metadata-Version: 2.2",
	}
	metadata = append(metadata, lo.Map(w.deps, func(dep string, _ int) string {
		return fmt.Sprintf("Requires-Dist: %s", dep)
	})...)

	writer := zip.NewWriter(file)
	distInfo := fmt.Sprintf("%s-%s.dist-info", w.name, w.version)
	members := []struct{ name, body string }{
		{distInfo + "/METADATA", strings.Join(metadata, "\n")},
		{distInfo + "/WHEEL", wheelFileContents},
		{distInfo + "/RECORD", ""},
	}
	for _, member := range members {
		entry, err := writer.Create(member.name)
		if err != nil {
			return errors.Wrapf(err, "writing wheel %s", w.filename())
		}
		if _, err := entry.Write([]byte(member.body)); err != nil {
			return errors.Wrapf(err, "writing wheel %s", w.filename())
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "finalizing wheel %s", w.filename())
	}
	return nil
}

// raise parses an engine lockfile back into a graph-level resolution. Split
// nodes collapse to their declared graph version regardless of which
// alternative wheel the engine picked.
func (ws *workspace) raise(lockfile string) (depgraph.Resolution, error) {
	resolution := make(depgraph.Resolution)
	for _, line := range strings.Split(lockfile, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		name, versionStr, ok := strings.Cut(line, "==")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		version, err := semver.ParseTolerant(strings.TrimSpace(versionStr))
		if err != nil {
			return nil, errors.Wrapf(err, "unparseable lockfile line %q", line)
		}
		if sp, ok := ws.split[name]; ok {
			resolution[name] = sp.graphVersion
		} else {
			resolution[name] = version.String()
		}
	}
	return resolution, nil
}
