package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

var metricsCh = make(chan *metricReading, 1024)
var readingsPool = sync.Pool{
	New: func() interface{} {
		return &metricReading{}
	},
}
var dispatching atomic.Bool
var pending sync.WaitGroup
var startOnce sync.Once

type delegateBox struct {
	del delegate
}

var current atomic.Pointer[delegateBox]

func Simple(kind MetricKind, value float64) {
	if !dispatching.Load() {
		return
	}
	r := readingsPool.Get().(*metricReading)
	r.Kind = kind
	r.Value = value
	pending.Add(1)
	metricsCh <- r
}

func Measure(kind MetricKind) func() {
	start := time.Now()
	return func() {
		Simple(kind, float64(time.Since(start).Microseconds()))
	}
}

// Flush blocks until every reading queued so far has been handed to the
// delegate.
func Flush() {
	pending.Wait()
}

type metricReading struct {
	Kind  MetricKind
	Value float64
}

type delegate interface {
	Dispatch(kind MetricKind, value float64)
}

// Start enables readings and delivers them to del. A single dispatcher
// goroutine serves every call; later calls replace the delegate it delivers
// to. A nil del is ignored.
func Start(del delegate) {
	if del == nil {
		return
	}
	current.Store(&delegateBox{del: del})
	startOnce.Do(func() {
		dispatching.Store(true)
		go dispatch()
	})
}

func dispatch() {
	for msg := range metricsCh {
		if box := current.Load(); box != nil {
			box.del.Dispatch(msg.Kind, msg.Value)
		}
		readingsPool.Put(msg)
		pending.Done()
	}
}
