package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"

	"github.com/intcode-vm/intcode/icgo/machine"
)

var OutFilePerm = os.FileMode(0o644)

// RunReport is the JSON summary written by run --output.
type RunReport struct {
	Steps        uint64  `json:"steps"`
	Stop         string  `json:"stop"`
	PC           int64   `json:"pc"`
	RelativeBase int64   `json:"relativeBase"`
	Outputs      []int64 `json:"outputs,omitempty"`
	Register     *int64  `json:"register,omitempty"`
	Memory       []int64 `json:"memory"`
}

func newIO(ctx *cli.Context) (machine.IO, error) {
	switch mode := ctx.String(RunIOFlag.Name); mode {
	case "queue":
		return machine.NewSliceIO(ctx.Int64Slice(RunInputFlag.Name)...), nil
	case "latest":
		return machine.NewLatestIO(ctx.Int64(RunLatestFlag.Name)), nil
	case "none":
		return machine.NoIO{}, nil
	default:
		return nil, fmt.Errorf("invalid io mode %q", mode)
	}
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(PProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}
	l, err := setupLogger(ctx)
	if err != nil {
		return err
	}
	program, err := machine.LoadProgram(ctx.Path(ProgramFlag.Name))
	if err != nil {
		return err
	}
	dev, err := newIO(ctx)
	if err != nil {
		return err
	}

	m := machine.New(program, dev)
	infoAt := ctx.Uint64(RunInfoAtFlag.Name)
	start := time.Now()

	for !m.Halted() {
		step := m.Steps()
		if step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}
		if infoAt != 0 && step%infoAt == 0 {
			delta := time.Since(start)
			var word int64
			if m.PC() < int64(m.Memory().Len()) {
				word, _ = m.Memory().Load(m.PC())
			}
			l.Info("processing",
				"step", step,
				"pc", m.PC(),
				"insn", machine.Opcode(word%100),
				"word", word,
				"rb", m.RelativeBase(),
				"ips", float64(step)/(float64(delta)/float64(time.Second)),
				"mem", m.Memory().Len(),
			)
		}
		if err := m.Step(); err != nil {
			l.Error("invalid program", "step", m.Steps(), "err", err)
			return fmt.Errorf("failed at step %d: %w", m.Steps(), err)
		}
	}
	l.Info("machine stopped", "reason", m.StopReason(), "steps", m.Steps(), "duration", time.Since(start))

	if err := printResult(ctx.App.Writer, m, ctx.Bool(RunASCIIFlag.Name)); err != nil {
		return err
	}
	if out := ctx.Path(RunOutputFlag.Name); out != "" {
		if err := writeReport(out, m); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func printResult(w io.Writer, m *machine.Machine, ascii bool) error {
	switch dev := m.IO().(type) {
	case *machine.SliceIO:
		if ascii {
			_, err := writeASCII(w, dev.Outputs())
			return err
		}
		for _, v := range dev.Outputs() {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
		return nil
	case *machine.LatestIO:
		_, err := fmt.Fprintln(w, dev.Value())
		return err
	default:
		_, err := fmt.Fprintln(w, m.Memory().Read(0))
		return err
	}
}

// writeASCII renders ASCII outputs as text. Values outside the ASCII range are
// printed as numbers on their own line.
func writeASCII(w io.Writer, outputs []int64) (int, error) {
	var sb strings.Builder
	for _, v := range outputs {
		if v >= 0 && v < 128 {
			sb.WriteByte(byte(v))
			continue
		}
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d\n", v)
	}
	return io.WriteString(w, sb.String())
}

func writeReport(path string, m *machine.Machine) error {
	rep := RunReport{
		Steps:        m.Steps(),
		Stop:         m.StopReason().String(),
		PC:           m.PC(),
		RelativeBase: m.RelativeBase(),
		Memory:       m.Memory().Snapshot(),
	}
	switch dev := m.IO().(type) {
	case *machine.SliceIO:
		rep.Outputs = dev.Outputs()
	case *machine.LatestIO:
		v := dev.Value()
		rep.Register = &v
	}
	return jsonutil.WriteJSON(path, rep, OutFilePerm)
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run one Intcode machine to completion",
	Description: "Run one Intcode machine to completion and print its outputs, its register, or memory cell 0 depending on the capability.",
	Action:      Run,
	Flags: []cli.Flag{
		ProgramFlag,
		RunIOFlag,
		RunInputFlag,
		RunLatestFlag,
		RunASCIIFlag,
		RunOutputFlag,
		RunInfoAtFlag,
		LogLevelFlag,
		PProfCPUFlag,
	},
}
