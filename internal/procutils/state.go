package procutils

// ProcessState is the set of ps(1) state flags of a process.
type ProcessState uint32

const (
	StateUninterruptibleSleep ProcessState = 1 << iota
	StateRunning
	StateInterruptibleSleep
	StateStopped
	StateTracingStop
	StateDead
	StateDefunct
	StateWakeKill
	StateWaking
	StateParked
	StateIdle

	// BSD modifiers

	StateHighPriority
	StateLowPriority
	StatePagesLocked
	StateSessionLeader
	StateMultiThreaded
	StateForeground
)

// stateFlags lists one ps(1) flag per state, in the order String prints them.
var stateFlags = []struct {
	flag  rune
	state ProcessState
}{
	{'D', StateUninterruptibleSleep},
	{'R', StateRunning},
	{'S', StateInterruptibleSleep},
	{'T', StateStopped},
	{'t', StateTracingStop},
	{'X', StateDead},
	{'Z', StateDefunct},
	{'K', StateWakeKill},
	{'I', StateIdle},
	{'W', StateWaking},
	{'P', StateParked},
	{'<', StateHighPriority},
	{'N', StateLowPriority},
	{'L', StatePagesLocked},
	{'s', StateSessionLeader},
	{'l', StateMultiThreaded},
	{'+', StateForeground},
}

// ParseState converts a ps(1) STAT column into a ProcessState. Unknown flags
// are ignored.
func ParseState(stat string) ProcessState {
	var state ProcessState
	for _, r := range stat {
		if r == 'x' {
			r = 'X'
		}
		for _, f := range stateFlags {
			if f.flag == r {
				state |= f.state
				break
			}
		}
	}
	return state
}

func (s ProcessState) String() string {
	if s == 0 {
		return "unknown"
	}
	out := make([]rune, 0, 4)
	for _, f := range stateFlags {
		if s&f.state != 0 {
			out = append(out, f.flag)
		}
	}
	return string(out)
}

func (s ProcessState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
