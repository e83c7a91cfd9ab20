package prom

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imetrics "github.com/heyvito/mpp/internal/metrics"
)

func TestCollectorDispatch(t *testing.T) {
	c := New()
	del := c.Delegates()

	del.Dispatch(imetrics.ReaderReadCalls, 0)
	del.Dispatch(imetrics.ReaderReadCalls, 0)
	del.Dispatch(imetrics.ReaderReadFailures, 0)
	del.Dispatch(imetrics.ReaderReadLatency, 1500)
	del.Dispatch(imetrics.StageTasksLatency, 250)
	del.Dispatch(imetrics.StoreFixedRecords, 12)
	del.Dispatch(imetrics.StoreFixedRecords, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.readsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.readFailuresTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.passwordRejections))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.storeItemsTotal.WithLabelValues("fixed_records")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.stageDuration))
}

func TestCollectorWriteText(t *testing.T) {
	c := New()
	del := c.Delegates()
	del.Dispatch(imetrics.ReaderReadCalls, 0)
	del.Dispatch(imetrics.StageCalendarsLatency, 10)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, c.WriteText(buf))
	out := buf.String()
	assert.Contains(t, out, "mpp_reads_total 1")
	assert.Contains(t, out, `mpp_stage_duration_seconds_count{stage="calendars"} 1`)
}
