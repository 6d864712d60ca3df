package cmd

import (
	"time"

	"github.com/urfave/cli/v2"
)

const envPrefix = "ICGO"

func prefixEnvVars(name string) []string {
	return []string{envPrefix + "_" + name}
}

var (
	ProgramFlag = &cli.PathFlag{
		Name:      "program",
		Usage:     "path of the Intcode program (comma separated integers)",
		EnvVars:   prefixEnvVars("PROGRAM"),
		TakesFile: true,
		Required:  true,
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Usage:   "log level: trace, debug, info, warn, error or crit",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Value:   "info",
	}
	PProfCPUFlag = &cli.BoolFlag{
		Name:    "pprof.cpu",
		Usage:   "enable pprof cpu profiling",
		EnvVars: prefixEnvVars("PPROF_CPU"),
	}

	RunInputFlag = &cli.Int64SliceFlag{
		Name:  "input",
		Usage: "input values for the queue capability, in order (repeat the flag or separate with commas)",
	}
	RunIOFlag = &cli.StringFlag{
		Name:  "io",
		Usage: "capability: queue (consume --input, collect outputs), latest (single register) or none",
		Value: "queue",
	}
	RunLatestFlag = &cli.Int64Flag{
		Name:  "latest",
		Usage: "initial register value for the latest capability",
	}
	RunASCIIFlag = &cli.BoolFlag{
		Name:  "ascii",
		Usage: "print outputs below 128 as text, larger values as numbers",
	}
	RunOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "write a JSON report of the final machine state to this path, - for stdout",
		TakesFile: true,
	}
	RunInfoAtFlag = &cli.Uint64Flag{
		Name:  "info-at",
		Usage: "log progress every N steps (0 disables)",
	}

	AmplifyPhasesFlag = &cli.Int64SliceFlag{
		Name:  "phases",
		Usage: "phase settings to run; when unset every ordering of the default settings is tried",
	}
	AmplifyFeedbackFlag = &cli.BoolFlag{
		Name:  "feedback",
		Usage: "run the stages concurrently in a feedback loop",
	}

	NetworkNodesFlag = &cli.IntFlag{
		Name:    "nodes",
		Usage:   "number of machines",
		EnvVars: prefixEnvVars("NODES"),
		Value:   50,
	}
	NetworkNATFlag = &cli.BoolFlag{
		Name:  "nat",
		Usage: "run until the NAT delivers the same packet twice instead of returning the first NAT packet",
	}
	NetworkPollIntervalFlag = &cli.DurationFlag{
		Name:    "poll-interval",
		Usage:   "router sleep between sweeps",
		EnvVars: prefixEnvVars("POLL_INTERVAL"),
		Value:   50 * time.Millisecond,
	}
	NetworkIdleTicksFlag = &cli.IntFlag{
		Name:    "idle-ticks",
		Usage:   "empty sweeps before the network is checked for idleness",
		EnvVars: prefixEnvVars("IDLE_TICKS"),
		Value:   15,
	}
)
