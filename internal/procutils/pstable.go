package procutils

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// psState reads the state of pid from the ps(1) process table. Used where
// gopsutil cannot report a status.
func psState(pid int) (ProcessState, error) {
	out, err := exec.Command("ps", "-o", "pid=,stat=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return 0, fmt.Errorf("failed running ps for process %d: %w", pid, err)
	}
	return stateFromPSTable(out, pid)
}

// stateFromPSTable finds pid in a two column PID/STAT table. Header and
// malformed lines are skipped.
func stateFromPSTable(table []byte, pid int) (ProcessState, error) {
	sc := bufio.NewScanner(bytes.NewReader(table))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil || id != pid {
			continue
		}
		return ParseState(fields[1]), nil
	}
	return 0, fmt.Errorf("process %d not found in process table", pid)
}
