// Package pipeline chains machines running the same program into amplifier
// series, either one after the other or concurrently in a feedback loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/intcode-vm/intcode/icgo/machine"
)

// ErrNoSignal is returned when the last stage never produced output.
var ErrNoSignal = errors.New("no output signal")

// RunSequential runs one machine per phase setting, in order. Each machine
// receives its phase and the previous stage's signal (0 for the first one),
// runs to completion, and its last output becomes the next signal.
func RunSequential(ctx context.Context, program machine.Program, phases []int64) (int64, error) {
	signal := int64(0)
	for i, phase := range phases {
		io, tx, rx := machine.NewAsyncIO()
		if err := tx.Send(phase); err != nil {
			return 0, err
		}
		if err := tx.Send(signal); err != nil {
			return 0, err
		}
		_ = tx.Close()

		m := machine.New(program, io)
		if err := m.Run(ctx); err != nil {
			return 0, fmt.Errorf("stage %d: %w", i, err)
		}
		out := rx.Drain()
		if len(out) == 0 {
			return 0, fmt.Errorf("stage %d: %w", i, ErrNoSignal)
		}
		signal = out[len(out)-1]
	}
	return signal, nil
}

// RunFeedback runs one machine per phase setting concurrently. Stage i feeds
// stage i+1 through a Connector; the last stage feeds both the first stage and
// an external collector. The result is the last value the collector saw once
// every machine has halted.
func RunFeedback(ctx context.Context, program machine.Program, phases []int64) (int64, error) {
	n := len(phases)
	if n == 0 {
		return 0, ErrNoSignal
	}
	ios := make([]*machine.AsyncIO, n)
	txs := make([]*machine.Sender, n)
	rxs := make([]*machine.Receiver, n)
	for i, phase := range phases {
		ios[i], txs[i], rxs[i] = machine.NewAsyncIO()
		if err := txs[i].Send(phase); err != nil {
			return 0, err
		}
	}
	if err := txs[0].Send(0); err != nil {
		return 0, err
	}
	outTx, outRx := machine.Pipe()

	connectors := make([]*machine.Connector, n)
	for i := 0; i < n-1; i++ {
		connectors[i] = machine.NewConnector(rxs[i], txs[i+1])
	}
	connectors[n-1] = machine.NewConnector(rxs[n-1], txs[0], outTx)

	// the collector runs alongside the machines so outRx never backs up
	collected := make(chan []int64, 1)
	go func() { collected <- outRx.Drain() }()

	g, gctx := errgroup.WithContext(ctx)
	// machines blocked on input do not watch the context; closing their
	// inputs is what stops them
	go func() {
		<-gctx.Done()
		for _, tx := range txs {
			_ = tx.Close()
		}
	}()
	for i := range ios {
		m := machine.New(program, ios[i])
		stage := i
		g.Go(func() error {
			if err := m.Run(gctx); err != nil {
				return fmt.Errorf("stage %d: %w", stage, err)
			}
			return nil
		})
	}
	for _, c := range connectors {
		c := c
		g.Go(func() error {
			c.Run()
			return nil
		})
	}
	err := g.Wait()
	out := <-collected
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, ErrNoSignal
	}
	return out[len(out)-1], nil
}

// MaxSignal tries every ordering of settings and returns the highest signal
// along with the phases that produced it.
func MaxSignal(ctx context.Context, program machine.Program, settings []int64, feedback bool) (int64, []int64, error) {
	run := RunSequential
	if feedback {
		run = RunFeedback
	}
	var (
		best      int64
		bestOrder []int64
	)
	for _, phases := range Permutations(settings) {
		signal, err := run(ctx, program, phases)
		if err != nil {
			return 0, nil, fmt.Errorf("phases %v: %w", phases, err)
		}
		if bestOrder == nil || signal > best {
			best, bestOrder = signal, phases
		}
	}
	if bestOrder == nil {
		return 0, nil, ErrNoSignal
	}
	return best, bestOrder, nil
}

// Permutations returns every ordering of values in lexicographic order of
// index.
func Permutations(values []int64) [][]int64 {
	var out [][]int64
	used := make([]bool, len(values))
	cur := make([]int64, 0, len(values))
	var walk func()
	walk = func() {
		if len(cur) == len(values) {
			out = append(out, append([]int64(nil), cur...))
			return
		}
		for i, v := range values {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, v)
			walk()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	walk()
	return out
}
