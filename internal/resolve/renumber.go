package resolve

import (
	"slices"

	"github.com/heyvito/mpp/internal"
)

// NullTask is a blank row listed by its display ID.
type NullTask struct {
	ID       int
	UniqueID int
}

// Renumber rebuilds dense display IDs for a task list. ordered holds the unique
// IDs of regular tasks, sorted by the sort key stored in the file. nulls are
// blank rows, which keep their position relative to the regular tasks
// according to their stored display ID. Display IDs start at zero when
// hasZero is set (the file holds a task with unique ID zero), and at one
// otherwise. The returned map associates unique IDs with display IDs; a null
// task that cannot be placed is left out of it.
func Renumber(ordered []int, nulls []NullTask, hasZero bool) map[int]int {
	increment := ((len(nulls) / 1000) + 1) * 2000

	slots := internal.NewSortedMap[int, int]()
	next := increment
	if hasZero {
		next = 0
	}
	for _, uid := range ordered {
		slots.Store(next, uid)
		next += increment
	}

	sorted := slices.Clone(nulls)
	slices.SortStableFunc(sorted, func(a, b NullTask) int { return a.ID - b.ID })

	inserted := 0
	for _, n := range sorted {
		base := (n.ID - inserted) * increment
		inserted++
		// Candidates sit right after the previous slot, in order, and the
		// base slot itself comes last.
		for offset := 1; offset <= increment; offset++ {
			target := base - (increment - offset)
			if _, taken := slots.Load(target); !taken {
				slots.Store(target, n.UniqueID)
				break
			}
		}
	}

	out := make(map[int]int, slots.Len())
	id := 1
	if hasZero {
		id = 0
	}
	for _, uid := range slots.Range() {
		out[uid] = id
		id++
	}
	return out
}
