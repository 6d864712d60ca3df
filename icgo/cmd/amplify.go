package cmd

import (
	"fmt"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/intcode-vm/intcode/icgo/machine"
	"github.com/intcode-vm/intcode/icgo/pipeline"
)

var (
	sequentialSettings = []int64{0, 1, 2, 3, 4}
	feedbackSettings   = []int64{5, 6, 7, 8, 9}
)

func Amplify(ctx *cli.Context) error {
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
	feedback := ctx.Bool(AmplifyFeedbackFlag.Name)

	if phases := ctx.Int64Slice(AmplifyPhasesFlag.Name); len(phases) > 0 {
		run := pipeline.RunSequential
		if feedback {
			run = pipeline.RunFeedback
		}
		signal, err := run(ctx.Context, program, phases)
		if err != nil {
			return fmt.Errorf("failed to run phases %v: %w", phases, err)
		}
		l.Info("amplifier chain done", "phases", fmt.Sprint(phases), "feedback", feedback, "signal", signal)
		_, err = fmt.Fprintln(ctx.App.Writer, signal)
		return err
	}

	settings := sequentialSettings
	if feedback {
		settings = feedbackSettings
	}
	l.Info("searching phase orderings", "settings", fmt.Sprint(settings), "feedback", feedback)
	best, phases, err := pipeline.MaxSignal(ctx.Context, program, settings, feedback)
	if err != nil {
		return err
	}
	l.Info("best phase ordering", "phases", fmt.Sprint(phases), "signal", best)
	_, err = fmt.Fprintln(ctx.App.Writer, best)
	return err
}

var AmplifyCommand = &cli.Command{
	Name:        "amplify",
	Usage:       "Run a chain of machines as amplifier stages",
	Description: "Run five copies of a program as amplifier stages, either in sequence or in a feedback loop, and print the final signal. Without --phases every ordering of the default phase settings is tried and the highest signal is printed.",
	Action:      Amplify,
	Flags: []cli.Flag{
		ProgramFlag,
		AmplifyPhasesFlag,
		AmplifyFeedbackFlag,
		LogLevelFlag,
		PProfCPUFlag,
	},
}
