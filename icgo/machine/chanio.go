package machine

import "sync/atomic"

// AsyncIO connects a machine to pipes. Get blocks until input is available;
// Put never blocks.
type AsyncIO struct {
	in  *Receiver
	out *Sender
}

// NewAsyncIO returns a channel capability together with the ends the caller
// keeps: tx feeds the machine's input, rx yields its output.
func NewAsyncIO() (io *AsyncIO, tx *Sender, rx *Receiver) {
	inTx, inRx := Pipe()
	outTx, outRx := Pipe()
	return &AsyncIO{in: inRx, out: outTx}, inTx, outRx
}

func (a *AsyncIO) Get() (int64, error) { return a.in.Recv() }

func (a *AsyncIO) Put(v int64) error { return a.out.Send(v) }

// Close closes the machine's ends: its output stream ends and further input is
// refused. Machine.Run calls it when the machine stops.
func (a *AsyncIO) Close() error {
	_ = a.out.Close()
	return a.in.Close()
}

// IdleFlag is set by a NonBlockIO whenever its machine polls for input and
// finds none, and cleared when a value is received. It is written by the
// machine's goroutine and read by an orchestrator.
type IdleFlag struct {
	v atomic.Bool
}

func (f *IdleFlag) Idle() bool { return f.v.Load() }

func (f *IdleFlag) set(idle bool) { f.v.Store(idle) }

// NoInput is what a NonBlockIO returns when no input is queued.
const NoInput int64 = -1

// NonBlockIO is an AsyncIO whose Get only blocks on the first call. Later
// calls return NoInput when the queue is empty and record that in the idle
// flag.
type NonBlockIO struct {
	AsyncIO
	started bool
	idle    *IdleFlag
}

func NewNonBlockIO() (io *NonBlockIO, tx *Sender, rx *Receiver, idle *IdleFlag) {
	a, tx, rx := NewAsyncIO()
	idle = new(IdleFlag)
	return &NonBlockIO{AsyncIO: *a, idle: idle}, tx, rx, idle
}

func (n *NonBlockIO) Get() (int64, error) {
	if !n.started {
		n.started = true
		return n.in.Recv()
	}
	v, ok, err := n.in.TryRecv()
	if err != nil {
		return 0, err
	}
	if !ok {
		n.idle.set(true)
		return NoInput, nil
	}
	n.idle.set(false)
	return v, nil
}
