// Package flamegraph transforms a decoded pprof profile into a rooted
// flame-graph tree keyed by function identity.
package flamegraph

import (
	"sort"
	"strconv"

	"github.com/flamecollector/flamecollector/internal/pprofdecode"
	"github.com/flamecollector/flamecollector/internal/safe"
)

// maxDepth bounds tree materialisation against cyclic call graphs. A root
// sits at depth 0; no node deeper than maxDepth is expanded further.
const maxDepth = 50

// Node is one function's place in the tree, with its inclusive sample value.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Value    uint64  `json:"value"`
	Children []*Node `json:"children"`
}

// Data is the flame-graph root: a synthetic node named "root", the total sample value
// across the whole profile, and the forest of root functions below it.
type Data struct {
	Name     string  `json:"name"`
	Value    uint64  `json:"value"`
	Children []*Node `json:"children"`
}

// Build runs the full location->function resolution, stack aggregation, edge
// extraction, root discovery and bounded tree materialisation described for
// the flame-graph builder. It never errors: any structural oddity in the
// input profile (dangling location ids, missing functions, cyclic edges)
// yields an empty or partial tree rather than a failure.
func Build(p *pprofdecode.Profile) *Data {
	locationFunction := locationToFunction(p)

	funcValue := map[uint64]uint64{}
	children := map[uint64]map[uint64]struct{}{}
	var total uint64

	for _, s := range p.Sample {
		var raw int64
		if len(s.Value) > 0 {
			raw = s.Value[0]
		}
		value, _ := safe.Int64ToUint64(raw)
		total += value

		stack := resolveStack(s.LocationID, locationFunction)
		for _, fid := range stack {
			funcValue[fid] += value
		}
		for i := 0; i+1 < len(stack); i++ {
			addChild(children, stack[i], stack[i+1])
		}
	}

	names := map[uint64]string{}
	for _, fn := range p.Function {
		names[fn.ID] = p.StringAt(fn.NameIndex)
	}

	roots := rootFunctions(p, children)

	data := &Data{Name: "root", Value: total, Children: make([]*Node, 0, len(roots))}
	for _, id := range roots {
		data.Children = append(data.Children, buildNode(id, 0, map[uint64]struct{}{}, names, funcValue, children))
	}
	return data
}

// locationToFunction maps each location to the function of its first line.
// Locations with no line entries are omitted (step 1).
func locationToFunction(p *pprofdecode.Profile) map[uint64]uint64 {
	m := make(map[uint64]uint64, len(p.Location))
	for _, loc := range p.Location {
		if len(loc.Line) == 0 {
			continue
		}
		m[loc.ID] = loc.Line[0].FunctionID
	}
	return m
}

// resolveStack translates a sample's location id stack into function ids,
// preserving order and dropping entries with no mapping (step 2).
func resolveStack(locationIDs []uint64, locationFunction map[uint64]uint64) []uint64 {
	stack := make([]uint64, 0, len(locationIDs))
	for _, locID := range locationIDs {
		if fid, ok := locationFunction[locID]; ok {
			stack = append(stack, fid)
		}
	}
	return stack
}

func addChild(children map[uint64]map[uint64]struct{}, caller, callee uint64) {
	set, ok := children[caller]
	if !ok {
		set = map[uint64]struct{}{}
		children[caller] = set
	}
	set[callee] = struct{}{}
}

// rootFunctions returns the profile's functions never observed as a callee,
// in ascending id order (step 5).
func rootFunctions(p *pprofdecode.Profile, children map[uint64]map[uint64]struct{}) []uint64 {
	called := map[uint64]struct{}{}
	for _, set := range children {
		for callee := range set {
			called[callee] = struct{}{}
		}
	}

	var roots []uint64
	for _, fn := range p.Function {
		if _, ok := called[fn.ID]; !ok {
			roots = append(roots, fn.ID)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// buildNode materialises the subtree rooted at id, tracking the set of
// function ids already visited along this branch so cycles break rather
// than recurse forever, and capping descent at maxDepth (step 6).
func buildNode(
	id uint64,
	depth int,
	visited map[uint64]struct{},
	names map[uint64]string,
	values map[uint64]uint64,
	children map[uint64]map[uint64]struct{},
) *Node {
	visited[id] = struct{}{}

	node := &Node{
		ID:       strconv.FormatUint(id, 10),
		Name:     names[id],
		Value:    values[id],
		Children: make([]*Node, 0),
	}

	if depth >= maxDepth {
		return node
	}

	childIDs := sortedChildren(children[id])
	for _, cid := range childIDs {
		if _, known := names[cid]; !known {
			continue
		}
		if _, seen := visited[cid]; seen {
			continue
		}
		branch := cloneVisited(visited)
		node.Children = append(node.Children, buildNode(cid, depth+1, branch, names, values, children))
	}

	return node
}

func sortedChildren(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneVisited(visited map[uint64]struct{}) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(visited))
	for id := range visited {
		out[id] = struct{}{}
	}
	return out
}
