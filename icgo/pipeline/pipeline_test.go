package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intcode-vm/intcode/icgo/machine"
)

const (
	seqProgramA = "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"
	seqProgramB = "3,23,3,24,1002,24,10,24,1002,23,-1,23,101,5,23,23,1,24,23,23,4,23,99,0,0"
	seqProgramC = "3,31,3,32,1002,32,10,32,1001,31,-2,31,1007,31,0,33,1002,33,7,33,1,33,31,31,1,32,31,31,4,31,99,0,0,0"

	feedbackProgramA = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"
	feedbackProgramB = "3,52,1001,52,-5,52,3,53,1,52,56,54,1007,54,5,55,1005,55,26,1001,54,-5,54,1105,1,12,1,53," +
		"54,53,1008,54,0,55,1001,55,1,55,2,53,55,53,4,53,1001,56,-1,56,1005,56,6,99,0,0,0,0,10"
)

func TestRunSequential(t *testing.T) {
	for _, c := range []struct {
		src    string
		phases []int64
		want   int64
	}{
		{seqProgramA, []int64{4, 3, 2, 1, 0}, 43210},
		{seqProgramB, []int64{0, 1, 2, 3, 4}, 54321},
		{seqProgramC, []int64{1, 0, 4, 3, 2}, 65210},
	} {
		got, err := RunSequential(context.Background(), machine.MustParse(c.src), c.phases)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestRunFeedback(t *testing.T) {
	for _, c := range []struct {
		src    string
		phases []int64
		want   int64
	}{
		{feedbackProgramA, []int64{9, 8, 7, 6, 5}, 139629729},
		{feedbackProgramB, []int64{9, 7, 8, 5, 6}, 18216},
	} {
		got, err := RunFeedback(context.Background(), machine.MustParse(c.src), c.phases)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestRunFeedbackDeterministic(t *testing.T) {
	p := machine.MustParse(feedbackProgramA)
	for i := 0; i < 20; i++ {
		got, err := RunFeedback(context.Background(), p, []int64{9, 8, 7, 6, 5})
		require.NoError(t, err)
		require.Equal(t, int64(139629729), got)
	}
}

func TestMaxSignal(t *testing.T) {
	t.Run("sequential", func(t *testing.T) {
		best, phases, err := MaxSignal(context.Background(), machine.MustParse(seqProgramA), []int64{0, 1, 2, 3, 4}, false)
		require.NoError(t, err)
		require.Equal(t, int64(43210), best)
		require.Equal(t, []int64{4, 3, 2, 1, 0}, phases)
	})
	t.Run("feedback", func(t *testing.T) {
		best, phases, err := MaxSignal(context.Background(), machine.MustParse(feedbackProgramA), []int64{5, 6, 7, 8, 9}, true)
		require.NoError(t, err)
		require.Equal(t, int64(139629729), best)
		require.Equal(t, []int64{9, 8, 7, 6, 5}, phases)
	})
}

func TestFeedbackInvalidProgram(t *testing.T) {
	// every stage reads its phase then hits an unknown opcode
	_, err := RunFeedback(context.Background(), machine.MustParse("3,5,98,0,0,0"), []int64{1, 2, 3})
	require.ErrorIs(t, err, machine.ErrUnknownOpcode)
}

func TestNoSignal(t *testing.T) {
	_, err := RunSequential(context.Background(), machine.MustParse("3,0,3,0,99"), []int64{1})
	require.ErrorIs(t, err, ErrNoSignal)
}

func TestPermutations(t *testing.T) {
	perms := Permutations([]int64{1, 2, 3})
	require.Equal(t, [][]int64{
		{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1},
	}, perms)
	require.Len(t, Permutations([]int64{0, 1, 2, 3, 4}), 120)
}
