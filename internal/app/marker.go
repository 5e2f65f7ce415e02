package app

import (
	"strings"

	"github.com/corey/pseudo/internal/ports"
)

// implementing returns the positions in handles of the types that list marker
// as a base, directly or through other handles, in input order. The match is
// by simple name, so bases declared outside handles are opaque. Handles that
// do not implement ports.BaseLister have no bases. An empty marker keeps all.
func implementing(handles []ports.TypeHandle, marker string) []int {
	if marker == "" {
		all := make([]int, len(handles))
		for i := range handles {
			all[i] = i
		}
		return all
	}
	if i := strings.LastIndexAny(marker, ".:"); i >= 0 {
		marker = marker[i+1:]
	}

	// derived[name] lists the handles naming it as a base.
	derived := make(map[string][]int)
	var queue []int
	for i, h := range handles {
		bl, ok := h.(ports.BaseLister)
		if !ok {
			continue
		}
		for _, base := range bl.Bases() {
			if base == marker {
				queue = append(queue, i)
			} else {
				derived[base] = append(derived[base], i)
			}
		}
	}

	hit := make([]bool, len(handles))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if hit[i] {
			continue
		}
		hit[i] = true
		queue = append(queue, derived[handles[i].Name()]...)
	}

	var out []int
	for i, ok := range hit {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
