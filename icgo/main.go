// Command icgo runs Intcode programs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/intcode-vm/intcode/icgo/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "icgo"
	app.Usage = "Intcode machine runner"
	app.Description = "Run Intcode programs on a single machine, an amplifier chain or a packet network"
	app.Commands = []*cli.Command{
		cmd.RunCommand,
		cmd.AmplifyCommand,
		cmd.NetworkCommand,
	}
	ctx, cancel := context.WithCancel(context.Background())

	// first signal cancels the running command, a second one exits right away;
	// machines blocked on input only notice cancellation when their peers close
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		_, _ = fmt.Fprintln(os.Stderr, "\r\nExiting...")
		<-c
		os.Exit(130)
	}()

	err := app.RunContext(ctx, os.Args)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(os.Stderr, "command interrupted")
		os.Exit(130)
	default:
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
