package schema

import (
	"fmt"
	"slices"
)

// topoSort returns node indices so that every node comes after its
// dependencies. Among available nodes the smallest index goes first, so the
// result is deterministic. On a cycle, the nodes left unsorted are returned
// with the error.
func topoSort(n int, deps func(i int) []int) ([]int, []int, error) {
	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				return nil, nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int
	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) == n {
		return order, nil, nil
	}

	var cyclic []int
	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return nil, cyclic, fmt.Errorf("cycle through %d node(s)", len(cyclic))
}
