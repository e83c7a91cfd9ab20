// Package flock implements a small wrapper around the flock(2) Kernel API in
// order to provide advisory locks through the filesystem. It may be important
// to notice that flock is an advisory lock, meaning processes are free to
// ignore the lock altogether.
//
// Schedule files are locked in Shared mode while they are decoded. Exclusive
// mode keeps every other holder out.
package flock

// A word about conventions: Flock exposes the public interface intended for
// user usage. Methods implemented by the interface must be safe and rely on
// the internal mutex before any operation takes place. Unexported methods
// implemented by the flock struct are intended for internal usage and must
// not use the internal mutex in order to allow reentrancy. Unexported methods
// must be used with care, and the lock is expected to be held before those
// are called (which should happen in every "entry" methods, exposed to the
// user).

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
)

var (
	AlreadyLockedErr = fmt.Errorf("flock is already locked")
	NotLockedErr     = fmt.Errorf("flock is not locked")
	ClosedErr        = fmt.Errorf("underlying file descriptor has already been closed")
	CannotLockErr    = fmt.Errorf("could not obtain lock")
)

// Mode selects the kind of advisory lock acquired by Lock.
type Mode int

const (
	// Shared allows any number of Shared holders, and keeps Exclusive ones
	// out.
	Shared Mode = iota
	// Exclusive allows a single holder.
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

func (m Mode) operation() int {
	if m == Exclusive {
		return syscall.LOCK_EX
	}
	return syscall.LOCK_SH
}

type Flock interface {
	// Lock attempts to lock the file managed by this instance using the mode
	// provided to New.
	// Returns AlreadyLockedErr if the lock has already been acquired, ClosedErr
	// in case Close has already been called on this instance, or CannotLockErr
	// in case the lock cannot be acquired.
	Lock() error

	// Unlock releases the lock acquired by calling Lock. Returns NotLockedErr
	// in case the lock is not currently held, or ClosedErr in case Close has
	// already been called on this instance.
	Unlock() error

	// Close automatically releases the lock (in case it is currently being held
	// by this instance), and closes the underlying file descriptor. After
	// calling this method, no further operations can be done against the
	// instance; To reacquire the lock, create a new Flock instance by calling
	// New.
	Close() error

	// File returns the file backing this lock. The file is owned by the
	// instance, and must not be closed by callers.
	File() *os.File

	// Mode returns the mode used by Lock.
	Mode() Mode
}

// New returns a new Flock instance for an existing file at a given path. This
// method will not lock the file until Lock is called. Shared locks open the
// file read-only.
// Returns an error in case the file cannot be opened.
func New(path string, mode Mode) (Flock, error) {
	flag := os.O_RDONLY
	if mode == Exclusive {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	return &flock{file: f, fd: f.Fd(), name: path, mode: mode}, nil
}

type flock struct {
	mu     sync.Mutex
	file   *os.File
	fd     uintptr
	mode   Mode
	locked bool
	closed bool
	name   string
}

func (f *flock) Lock() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return ClosedErr
	case f.locked:
		return AlreadyLockedErr
	}

	err := syscall.Flock(int(f.fd), f.mode.operation()|syscall.LOCK_NB)
	if err == nil {
		f.locked = true
	} else {
		err = errors.Join(CannotLockErr, fmt.Errorf("%s lock on %s: %w", f.mode, f.name, err))
	}
	return err
}

func (f *flock) Unlock() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return ClosedErr
	case !f.locked:
		return NotLockedErr
	}

	return f.unlock()
}

func (f *flock) unlock() error {
	switch {
	case f.closed, !f.locked:
		return nil
	}

	err := syscall.Flock(int(f.fd), syscall.LOCK_UN)
	if err == nil {
		f.locked = false
	}
	return err
}

func (f *flock) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close()
}

func (f *flock) close() error {
	if f.closed {
		return ClosedErr
	}

	if err := f.unlock(); err != nil {
		return err
	}
	if err := f.file.Close(); err != nil {
		return err
	}
	f.closed = true
	return nil
}

func (f *flock) File() *os.File {
	return f.file
}

func (f *flock) Mode() Mode {
	return f.mode
}
