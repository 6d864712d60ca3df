package cmd

import (
	"fmt"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/intcode-vm/intcode/icgo/machine"
	"github.com/intcode-vm/intcode/icgo/network"
)

func Network(ctx *cli.Context) error {
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
	mode := network.FirstNAT
	if ctx.Bool(NetworkNATFlag.Name) {
		mode = network.RepeatNAT
	}
	cfg := network.Config{
		Nodes:        ctx.Int(NetworkNodesFlag.Name),
		PollInterval: ctx.Duration(NetworkPollIntervalFlag.Name),
		IdleTicks:    ctx.Int(NetworkIdleTicksFlag.Name),
		Log:          l,
	}
	l.Info("starting network", "nodes", cfg.Nodes, "mode", mode, "poll", cfg.PollInterval)
	n := network.New(program, cfg)
	y, err := n.Run(ctx.Context, mode)
	if err != nil {
		return fmt.Errorf("network failed: %w", err)
	}
	l.Info("network done", "y", y, "dispatches", n.Dispatches())
	_, err = fmt.Fprintln(ctx.App.Writer, y)
	return err
}

var NetworkCommand = &cli.Command{
	Name:        "network",
	Usage:       "Run a network of machines exchanging addressed packets",
	Description: "Boot a network of machines, route their (address, x, y) packets and print the Y value of the first packet sent to address 255, or with --nat the first Y value the NAT delivers twice in a row.",
	Action:      Network,
	Flags: []cli.Flag{
		ProgramFlag,
		NetworkNodesFlag,
		NetworkNATFlag,
		NetworkPollIntervalFlag,
		NetworkIdleTicksFlag,
		LogLevelFlag,
		PProfCPUFlag,
	},
}
