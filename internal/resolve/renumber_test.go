package resolve

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenumberPlacesNullTasks(t *testing.T) {
	ids := Renumber([]int{10, 20, 30}, []NullTask{{ID: 2, UniqueID: 99}}, false)
	assert.Equal(t, map[int]int{10: 1, 99: 2, 20: 3, 30: 4}, ids)
}

func TestRenumberTrailingNullTasks(t *testing.T) {
	ids := Renumber([]int{1, 2}, []NullTask{{ID: 4, UniqueID: 51}, {ID: 3, UniqueID: 50}}, false)
	assert.Equal(t, map[int]int{1: 1, 2: 2, 50: 3, 51: 4}, ids)
}

func TestRenumberWithZeroTask(t *testing.T) {
	ids := Renumber([]int{0, 5}, []NullTask{{ID: 1, UniqueID: 7}}, true)
	assert.Equal(t, map[int]int{0: 0, 7: 1, 5: 2}, ids)

	ids = Renumber([]int{0, 5}, []NullTask{{ID: 0, UniqueID: 7}}, true)
	assert.Equal(t, map[int]int{7: 0, 0: 1, 5: 2}, ids)
}

func reapply(ids map[int]int, nullUIDs map[int]bool, hasZero bool) map[int]int {
	var ordered []int
	var nulls []NullTask
	for uid, id := range ids {
		if nullUIDs[uid] {
			nulls = append(nulls, NullTask{ID: id, UniqueID: uid})
		} else {
			ordered = append(ordered, uid)
		}
	}
	slices.SortFunc(ordered, func(a, b int) int { return ids[a] - ids[b] })
	return Renumber(ordered, nulls, hasZero)
}

// TestRenumberIdempotence renumbers random task lists twice, the second time
// from the output of the first, and expects the same display IDs.
func TestRenumberIdempotence(t *testing.T) {
	r := rand.New(rand.NewPCG(16500, 2000))
	for i := 0; i < 300; i++ {
		hasZero := r.IntN(2) == 0
		var ordered []int
		first := 1
		if hasZero {
			first = 0
		}
		n := r.IntN(30)
		for uid := first; uid < first+n; uid++ {
			ordered = append(ordered, uid)
		}
		r.Shuffle(len(ordered), func(a, b int) { ordered[a], ordered[b] = ordered[b], ordered[a] })

		var nulls []NullTask
		nullUIDs := map[int]bool{}
		for j := 0; j < r.IntN(10); j++ {
			uid := 1000 + j
			nulls = append(nulls, NullTask{ID: r.IntN(n + 5), UniqueID: uid})
			nullUIDs[uid] = true
		}

		once := Renumber(ordered, nulls, hasZero)
		assert.Len(t, once, len(ordered)+len(nulls))
		assert.Equal(t, once, reapply(once, nullUIDs, hasZero))

		// Regular tasks keep their relative order
		for j := 1; j < len(ordered); j++ {
			assert.Less(t, once[ordered[j-1]], once[ordered[j]])
		}
	}
}
