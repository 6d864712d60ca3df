package machine

import "sync"

// pipe is an unbounded FIFO queue of words shared by one Sender and one
// Receiver.
type pipe struct {
	mu             sync.Mutex
	cond           *sync.Cond
	queue          []int64
	senderClosed   bool
	receiverClosed bool
}

// Pipe returns the two ends of a new unbounded FIFO channel. Values are
// delivered in send order. Sends never block.
func Pipe() (*Sender, *Receiver) {
	p := &pipe{}
	p.cond = sync.NewCond(&p.mu)
	return &Sender{p: p}, &Receiver{p: p}
}

// Sender is the producer end of a pipe.
type Sender struct {
	p *pipe
}

// Send queues the given values as one unit: a receiver sees either none or
// all of them. It fails with ErrClosed if either end has been closed.
func (s *Sender) Send(vs ...int64) error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.senderClosed || p.receiverClosed {
		return ErrClosed
	}
	p.queue = append(p.queue, vs...)
	p.cond.Signal()
	return nil
}

// Close marks the end of the stream. The receiver still gets every value that
// was queued before Close. Closing twice is a no-op.
func (s *Sender) Close() error {
	p := s.p
	p.mu.Lock()
	defer p.mu.Unlock()
	p.senderClosed = true
	p.cond.Broadcast()
	return nil
}

// Receiver is the consumer end of a pipe.
type Receiver struct {
	p *pipe
}

// Recv blocks until a value is available. It fails with ErrClosed once the
// sender is closed and the queue is drained, or if the receiver was closed.
func (r *Receiver) Recv() (int64, error) {
	p := r.p
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.senderClosed && !p.receiverClosed {
		p.cond.Wait()
	}
	return p.pop()
}

// TryRecv returns the next value without blocking. ok is false if the queue is
// empty; err is ErrClosed if no value can ever arrive.
func (r *Receiver) TryRecv() (v int64, ok bool, err error) {
	p := r.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 && !p.senderClosed && !p.receiverClosed {
		return 0, false, nil
	}
	v, err = p.pop()
	return v, err == nil, err
}

func (p *pipe) pop() (int64, error) {
	if p.receiverClosed || len(p.queue) == 0 {
		return 0, ErrClosed
	}
	v := p.queue[0]
	p.queue[0] = 0
	p.queue = p.queue[1:]
	return v, nil
}

// Len returns the number of queued values.
func (r *Receiver) Len() int {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	return len(r.p.queue)
}

// Close drops the receiver: queued values are discarded, later sends fail and
// blocked receives return ErrClosed.
func (r *Receiver) Close() error {
	p := r.p
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receiverClosed = true
	p.queue = nil
	p.cond.Broadcast()
	return nil
}

// Drain receives until the sender closes and returns everything received.
func (r *Receiver) Drain() []int64 {
	var out []int64
	for {
		v, err := r.Recv()
		if err != nil {
			return out
		}
		out = append(out, v)
	}
}
