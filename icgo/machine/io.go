package machine

// IO is the capability a machine uses for its input and output instructions.
// An error from either method halts the machine.
type IO interface {
	// Get consumes one input value.
	Get() (int64, error)
	// Put emits one output value.
	Put(v int64) error
}

// NoIO reads zeros and discards output. Use it when only the final memory
// contents matter.
type NoIO struct{}

func (NoIO) Get() (int64, error) { return 0, nil }
func (NoIO) Put(int64) error     { return nil }

// LatestIO is a single register: Get returns the last value written by Put,
// or the initial value if nothing was written yet.
type LatestIO struct {
	val int64
}

func NewLatestIO(initial int64) *LatestIO {
	return &LatestIO{val: initial}
}

func (l *LatestIO) Get() (int64, error) { return l.val, nil }

func (l *LatestIO) Put(v int64) error {
	l.val = v
	return nil
}

// Value returns the current register contents.
func (l *LatestIO) Value() int64 { return l.val }

// SliceIO feeds a fixed list of inputs and records every output.
// Get fails with ErrClosed once the inputs are exhausted.
type SliceIO struct {
	inputs  []int64
	outputs []int64
}

func NewSliceIO(inputs ...int64) *SliceIO {
	return &SliceIO{inputs: inputs}
}

func (s *SliceIO) Get() (int64, error) {
	if len(s.inputs) == 0 {
		return 0, ErrClosed
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *SliceIO) Put(v int64) error {
	s.outputs = append(s.outputs, v)
	return nil
}

// Outputs returns the values emitted so far, in order.
func (s *SliceIO) Outputs() []int64 { return s.outputs }

// Last returns the most recent output, if any.
func (s *SliceIO) Last() (int64, bool) {
	if len(s.outputs) == 0 {
		return 0, false
	}
	return s.outputs[len(s.outputs)-1], true
}
