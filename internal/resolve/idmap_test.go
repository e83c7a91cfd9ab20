package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyvito/mpp/internal/fixture"
	"github.com/heyvito/mpp/internal/store"
)

func mustFixedTable(t *testing.T, flags []int32, records ...[]byte) (*store.FixedMeta, *store.FixedData) {
	meta, data := fixture.FixedTable(8, flags, records...)
	m, err := store.NewFixedMeta(meta, 8)
	require.NoError(t, err)
	return m, store.NewFixedData(m, data, store.FixedDataLimits{})
}

func record(size int, uid int32) []byte {
	return fixture.NewBuf(size).Int32(0, uid).Bytes()
}

// TestTaskMap exercises every kind of record found in a task table: leading
// non-task items, deleted tasks, null tasks, stale short records and
// duplicated unique IDs.
func TestTaskMap(t *testing.T) {
	meta, data := mustFixedTable(t,
		[]int32{0, 0, 0, 0, 2, 0, 0, 0, 0},
		record(4, 1), record(4, 2), record(4, 3),
		record(100, 10),
		record(100, 11),
		record(8, 12),
		record(50, 13),
		record(100, 10),
		record(100, 11),
	)

	ids := TaskMap(meta, data, TaskMapLayout{Skip: 3, NullBlockSize: 8, MaxSize: 100})
	assert.Equal(t, []int{10, 12}, ids.UniqueIDs())
	assert.Equal(t, 2, ids.Len())

	idx, ok := ids.Index(10)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	idx, ok = ids.Index(12)
	assert.True(t, ok)
	assert.Equal(t, 5, idx)

	assert.True(t, ids.Deleted(11))
	_, ok = ids.Index(11)
	assert.False(t, ok)

	_, ok = ids.Index(13)
	assert.False(t, ok)
	_, ok = ids.Index(1)
	assert.False(t, ok)
}

func TestTaskMapMinimumSize(t *testing.T) {
	meta, data := mustFixedTable(t, nil,
		record(4, 0), record(4, 0), record(4, 0),
		record(240, 1),
		record(200, 2),
	)
	ids := TaskMap(meta, data, TaskMapLayout{Skip: 3, NullBlockSize: 8, MinSize: 240})
	assert.Equal(t, []int{1}, ids.UniqueIDs())
}

func TestResourceMap(t *testing.T) {
	meta, data := mustFixedTable(t,
		[]int32{0, 0, 2, 0},
		record(20, 1),
		record(10, 2),
		record(20, 3),
		record(20, 1),
	)
	ids := ResourceMap(meta, data, 20)
	assert.Equal(t, []int{1}, ids.UniqueIDs())
	idx, ok := ids.Index(1)
	assert.True(t, ok)
	assert.Zero(t, idx)
	assert.False(t, ids.Deleted(3))
}
