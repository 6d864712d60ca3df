// Package network runs a fixed set of machines that exchange addressed
// packets through a central router, with a NAT node that wakes the network
// up when every machine has gone idle.
//
// Idleness is inferred by polling: a sweep that routes nothing counts as an
// idle tick, and once enough ticks have passed and every machine's idle flag
// is set the network is considered quiescent. This is a timing heuristic, not
// a termination detection algorithm; a slow machine can be mistaken for an
// idle one.
package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/intcode-vm/intcode/icgo/machine"
)

// NATAddress is the destination address handled by the NAT instead of a machine.
const NATAddress = 255

// Mode selects when Run returns.
type Mode uint8

const (
	// FirstNAT returns the Y value of the first packet sent to the NAT.
	FirstNAT Mode = iota
	// RepeatNAT delivers the NAT packet to address 0 whenever the network is
	// idle, and returns its Y value once the same packet is delivered twice
	// in a row.
	RepeatNAT
)

func (m Mode) String() string {
	switch m {
	case FirstNAT:
		return "first-nat"
	case RepeatNAT:
		return "repeat-nat"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

var (
	ErrDisconnected   = errors.New("node disconnected")
	ErrBadDestination = errors.New("packet for unknown address")
)

type Config struct {
	// Nodes is the number of machines, addressed 0 to Nodes-1.
	Nodes int
	// PollInterval is how long the router sleeps after each sweep so that
	// machines get a chance to run.
	PollInterval time.Duration
	// IdleTicks is the number of empty sweeps after which the idle flags
	// are checked. The count restarts after each check.
	IdleTicks int
	Log       log.Logger
}

func (c Config) withDefaults() Config {
	if c.Nodes <= 0 {
		c.Nodes = 50
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 50 * time.Millisecond
	}
	if c.IdleTicks <= 0 {
		c.IdleTicks = 15
	}
	if c.Log == nil {
		c.Log = log.Root()
	}
	return c
}

type packet struct {
	x, y int64
}

type node struct {
	m    *machine.Machine
	tx   *machine.Sender
	rx   *machine.Receiver
	idle *machine.IdleFlag
}

// Network is a set of machines wired to a router. A Network runs once.
type Network struct {
	cfg        Config
	nodes      []node
	dispatches int
}

// New creates cfg.Nodes machines loaded with program. They are not started
// until Run.
func New(program machine.Program, cfg Config) *Network {
	cfg = cfg.withDefaults()
	nodes := make([]node, cfg.Nodes)
	for i := range nodes {
		io, tx, rx, idle := machine.NewNonBlockIO()
		nodes[i] = node{
			m:    machine.New(program, io),
			tx:   tx,
			rx:   rx,
			idle: idle,
		}
	}
	return &Network{cfg: cfg, nodes: nodes}
}

// Dispatches returns how many times the NAT packet was delivered to address 0.
func (n *Network) Dispatches() int { return n.dispatches }

// Run boots every machine with its address and routes packets until the
// result for mode is known. All machines are stopped before Run returns.
func (n *Network) Run(ctx context.Context, mode Mode) (int64, error) {
	var g errgroup.Group
	for i := range n.nodes {
		nd := n.nodes[i]
		addr := i
		g.Go(func() error {
			if err := nd.m.Run(ctx); err != nil {
				return fmt.Errorf("node %d: %w", addr, err)
			}
			return nil
		})
	}

	res, err := n.route(ctx, mode)

	// closing both ends makes every machine halt on its next I/O
	for _, nd := range n.nodes {
		_ = nd.tx.Close()
		_ = nd.rx.Close()
	}
	werr := g.Wait()
	if cerr := ctx.Err(); cerr != nil {
		return 0, cerr
	}
	// a faulted node shows up in the router as a disconnect; report the cause
	if werr != nil && (err == nil || errors.Is(err, ErrDisconnected)) {
		return 0, werr
	}
	return res, err
}

func (n *Network) route(ctx context.Context, mode Mode) (int64, error) {
	l := n.cfg.Log
	for i, nd := range n.nodes {
		if err := nd.tx.Send(int64(i)); err != nil {
			return 0, fmt.Errorf("booting node %d: %w", i, err)
		}
	}

	var (
		nat, lastSent *packet
		ticks         int
	)
	for {
		routed := false
		for i, nd := range n.nodes {
			for {
				dest, ok, err := nd.rx.TryRecv()
				if err != nil {
					return 0, fmt.Errorf("%w: node %d", ErrDisconnected, i)
				}
				if !ok {
					break
				}
				x, err := nd.rx.Recv()
				if err != nil {
					return 0, fmt.Errorf("%w: node %d mid-packet", ErrDisconnected, i)
				}
				y, err := nd.rx.Recv()
				if err != nil {
					return 0, fmt.Errorf("%w: node %d mid-packet", ErrDisconnected, i)
				}
				if dest == NATAddress {
					if mode == FirstNAT {
						l.Info("first packet to NAT", "from", i, "x", x, "y", y)
						return y, nil
					}
					nat = &packet{x, y}
					continue
				}
				if dest < 0 || dest >= int64(len(n.nodes)) {
					return 0, fmt.Errorf("%w: %d from node %d", ErrBadDestination, dest, i)
				}
				if err := n.send(int(dest), packet{x, y}); err != nil {
					return 0, err
				}
				routed = true
			}
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(n.cfg.PollInterval):
		}

		if routed {
			continue
		}
		ticks++
		if mode != RepeatNAT || ticks <= n.cfg.IdleTicks {
			continue
		}
		ticks = 0
		if nat == nil || !n.allIdle() {
			continue
		}
		if lastSent != nil && *lastSent == *nat {
			l.Info("NAT packet repeated", "x", nat.x, "y", nat.y, "dispatches", n.dispatches)
			return nat.y, nil
		}
		l.Debug("network idle, waking node 0", "x", nat.x, "y", nat.y)
		if err := n.send(0, *nat); err != nil {
			return 0, err
		}
		sent := *nat
		lastSent = &sent
		n.dispatches++
	}
}

func (n *Network) send(addr int, p packet) error {
	// x and y are queued together so a polling machine never sees half a packet
	if err := n.nodes[addr].tx.Send(p.x, p.y); err != nil {
		return fmt.Errorf("%w: node %d", ErrDisconnected, addr)
	}
	return nil
}

func (n *Network) allIdle() bool {
	for _, nd := range n.nodes {
		if !nd.idle.Idle() {
			return false
		}
	}
	return true
}
