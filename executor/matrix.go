package executor

import "github.com/ygrebnov/taskrt/topology"

// buildGroups flattens the topology tree into one []int of worker indices
// per leaf group, assigning workers to leaves round-robin when counts don't
// divide evenly. With the default single-group topology this yields one
// group holding every worker.
func buildGroups(t topology.Topology, workers int) [][]int {
	var leaves []topology.Group
	var walk func(g topology.Group)
	walk = func(g topology.Group) {
		if len(g.Children) == 0 {
			leaves = append(leaves, g)
			return
		}
		for _, c := range g.Children {
			walk(c)
		}
	}
	walk(t.Root)
	if len(leaves) == 0 {
		leaves = []topology.Group{t.Root}
	}

	groups := make([][]int, len(leaves))
	for i := 0; i < workers; i++ {
		g := i % len(leaves)
		groups[g] = append(groups[g], i)
	}
	return groups
}

func groupOf(groups [][]int, workers int) []int {
	of := make([]int, workers)
	for g, members := range groups {
		for _, w := range members {
			of[w] = g
		}
	}
	return of
}

// buildStealMatrix returns a W×W matrix where row w is worker w's steal
// preference order: row[0] == w (a worker probes itself first, trivially
// satisfied since callers skip self when actually probing), and the
// remainder is a permutation of the other workers ordered per strategy.
//
// Both strategies guarantee the invariants spec.md §8 tests: M[i][0] == i,
// column 0 is the identity permutation, and every row is a permutation of
// 0..W-1.
func buildStealMatrix(t topology.Topology, workers int, strategy StealStrategy) [][]int {
	m := make([][]int, workers)
	if workers == 0 {
		return m
	}
	groups := buildGroups(t, workers)
	gOf := groupOf(groups, workers)

	for i := 0; i < workers; i++ {
		row := make([]int, 0, workers)
		row = append(row, i)

		switch strategy {
		case StealHierarchy:
			row = append(row, hierarchyOrder(i, groups, gOf)...)
		default: // StealLattice
			for off := 1; off < workers; off++ {
				row = append(row, (i+off)%workers)
			}
		}
		m[i] = row
	}
	return m
}

// hierarchyOrder lists every other worker starting with i's own group
// (excluding i, rotated by i so rows differ), then the remaining groups in
// turn, each similarly rotated.
func hierarchyOrder(i int, groups [][]int, gOf []int) []int {
	own := gOf[i]
	var out []int

	appendRotated := func(members []int) {
		n := len(members)
		if n == 0 {
			return
		}
		start := i % n
		for k := 0; k < n; k++ {
			w := members[(start+k)%n]
			if w != i {
				out = append(out, w)
			}
		}
	}

	appendRotated(groups[own])
	for g := 0; g < len(groups); g++ {
		if g == own {
			continue
		}
		appendRotated(groups[g])
	}
	return out
}

// transpose derives the wake matrix from the steal matrix per spec.md
// §4.4: "the inverse matrix ... is derived by transposition". wake[i][j]
// answers "who most wants to steal from i, ranked j-th" — i.e. the set of
// submitters that, on finding worker i idle, should poke it early.
func transpose(m [][]int) [][]int {
	w := len(m)
	out := make([][]int, w)
	for i := range out {
		out[i] = make([]int, w)
	}
	for src, row := range m {
		for rank, dst := range row {
			out[dst][rank] = src
		}
	}
	return out
}
