package procutils

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot holds a point-in-time view of a process' resource usage.
type Snapshot struct {
	PID        int           `json:"pid" yaml:"pid"`
	RSS        uint64        `json:"rss_bytes" yaml:"rss_bytes"`
	VMS        uint64        `json:"vms_bytes" yaml:"vms_bytes"`
	Threads    int32         `json:"threads" yaml:"threads"`
	UserTime   time.Duration `json:"user_time" yaml:"user_time"`
	SystemTime time.Duration `json:"system_time" yaml:"system_time"`
	State      ProcessState  `json:"state" yaml:"state"`
}

var statusNameToState = map[string]ProcessState{
	"running": StateRunning,
	"sleep":   StateInterruptibleSleep,
	"stop":    StateStopped,
	"idle":    StateIdle,
	"zombie":  StateDefunct,
	"wait":    StateWaking,
	"lock":    StateUninterruptibleSleep,
	"blocked": StateUninterruptibleSleep,
}

// TakeSnapshot collects resource usage for the process identified by pid.
// Memory and CPU figures come from the process table; the state falls back
// to ps(1) on platforms where it cannot be read directly.
func TakeSnapshot(pid int) (*Snapshot, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("failed obtaining process %d: %w", pid, err)
	}

	snap := &Snapshot{PID: pid}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("failed reading memory of process %d: %w", pid, err)
	}
	snap.RSS = mem.RSS
	snap.VMS = mem.VMS

	if times, err := proc.Times(); err == nil {
		snap.UserTime = secondsToDuration(times.User)
		snap.SystemTime = secondsToDuration(times.System)
	}
	if threads, err := proc.NumThreads(); err == nil {
		snap.Threads = threads
	}

	if status, err := proc.Status(); err == nil && len(status) > 0 {
		snap.State = stateFromStatusNames(status)
	} else if state, err := psState(pid); err == nil {
		snap.State = state
	}

	return snap, nil
}

func stateFromStatusNames(names []string) ProcessState {
	var state ProcessState
	for _, n := range names {
		state |= statusNameToState[n]
	}
	return state
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
