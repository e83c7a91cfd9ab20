package metrics

import (
	"sync/atomic"

	"github.com/heyvito/mpp/internal/metrics"
)

var hasDelegate atomic.Bool

// InstallDelegate starts delivering readings to del. Only the first call with
// a non-nil del has any effect.
func InstallDelegate(del *Delegates) {
	if del == nil || hasDelegate.Swap(true) {
		return
	}
	metrics.Start(del)
}

// Flush waits until every reading emitted so far reached the installed
// delegates. It returns immediately when none is installed.
func Flush() {
	metrics.Flush()
}

type Delegates struct {
	Reader ReaderInstrumentationDelegate
	Stages StageInstrumentationDelegate
	Stores StoreInstrumentationDelegate
}

// Dispatch hands a reading to the delegate covering its kind. Readings whose
// delegate is nil are discarded.
func (d *Delegates) Dispatch(kind metrics.MetricKind, value float64) {
	if d == nil {
		return
	}
	switch {
	case kind <= metrics.ReaderPasswordRejections:
		if d.Reader != nil {
			dispatchReader(d.Reader, kind, value)
		}
	case kind <= metrics.StagePresentationLatency:
		if d.Stages != nil {
			dispatchStage(d.Stages, kind, value)
		}
	default:
		if d.Stores != nil {
			dispatchStore(d.Stores, kind, value)
		}
	}
}

func dispatchReader(del ReaderInstrumentationDelegate, kind metrics.MetricKind, value float64) {
	switch kind {
	case metrics.ReaderReadCalls:
		del.ReadCalls(value)
	case metrics.ReaderReadLatency:
		del.ReadLatency(value)
	case metrics.ReaderReadFailures:
		del.ReadFailures(value)
	case metrics.ReaderPasswordRejections:
		del.PasswordRejections(value)
	}
}

func dispatchStage(del StageInstrumentationDelegate, kind metrics.MetricKind, value float64) {
	switch kind {
	case metrics.StagePropertiesLatency:
		del.PropertiesLatency(value)
	case metrics.StageSubProjectsLatency:
		del.SubProjectsLatency(value)
	case metrics.StageCalendarsLatency:
		del.CalendarsLatency(value)
	case metrics.StageResourcesLatency:
		del.ResourcesLatency(value)
	case metrics.StageTasksLatency:
		del.TasksLatency(value)
	case metrics.StageRelationsLatency:
		del.RelationsLatency(value)
	case metrics.StageAssignmentsLatency:
		del.AssignmentsLatency(value)
	case metrics.StagePresentationLatency:
		del.PresentationLatency(value)
	}
}

func dispatchStore(del StoreInstrumentationDelegate, kind metrics.MetricKind, value float64) {
	switch kind {
	case metrics.StoreFixedRecords:
		del.FixedRecords(value)
	case metrics.StoreVarEntries:
		del.VarEntries(value)
	case metrics.StoreDecryptedBytes:
		del.DecryptedBytes(value)
	case metrics.StoreAbsorbedEntities:
		del.AbsorbedEntities(value)
	}
}

type ReaderInstrumentationDelegate interface {
	ReadCalls(float64)
	ReadLatency(float64)
	ReadFailures(float64)
	PasswordRejections(float64)
}

type StageInstrumentationDelegate interface {
	PropertiesLatency(float64)
	SubProjectsLatency(float64)
	CalendarsLatency(float64)
	ResourcesLatency(float64)
	TasksLatency(float64)
	RelationsLatency(float64)
	AssignmentsLatency(float64)
	PresentationLatency(float64)
}

type StoreInstrumentationDelegate interface {
	FixedRecords(float64)
	VarEntries(float64)
	DecryptedBytes(float64)
	AbsorbedEntities(float64)
}
