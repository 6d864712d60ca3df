package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"

	"github.com/intcode-vm/intcode/icgo/machine"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.txt")
	require.NoError(t, os.WriteFile(path, []byte(src+"\n"), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := cli.NewApp()
	app.Name = "icgo"
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Commands = []*cli.Command{RunCommand, AmplifyCommand, NetworkCommand}
	err := app.RunContext(context.Background(), append([]string{"icgo"}, args...))
	return out.String(), err
}

func TestRunQueue(t *testing.T) {
	path := writeProgram(t, "3,9,8,9,10,9,4,9,99,-1,8")
	out, err := runApp(t, "run", "--program", path, "--input", "8")
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestRunLatest(t *testing.T) {
	path := writeProgram(t, "3,9,1002,9,2,9,4,9,99,0")
	out, err := runApp(t, "run", "--program", path, "--io", "latest", "--latest", "21")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunNoIO(t *testing.T) {
	path := writeProgram(t, "1,0,0,0,99")
	out, err := runApp(t, "run", "--program", path, "--io", "none", "--info-at", "1")
	require.NoError(t, err)
	require.Equal(t, "2\n", out)
}

func TestRunASCII(t *testing.T) {
	path := writeProgram(t, "104,72,104,105,104,10,104,1000,99")
	out, err := runApp(t, "run", "--program", path, "--ascii")
	require.NoError(t, err)
	require.Equal(t, "Hi\n1000\n", out)
}

func TestRunReport(t *testing.T) {
	path := writeProgram(t, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	report := filepath.Join(t.TempDir(), "report.json")
	_, err := runApp(t, "run", "--program", path, "--output", report)
	require.NoError(t, err)

	rep, err := jsonutil.LoadJSON[RunReport](report)
	require.NoError(t, err)
	require.Equal(t, "halted", rep.Stop)
	require.Equal(t, []int64(machine.MustParse("109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")), rep.Outputs)
	require.Equal(t, int64(16), rep.RelativeBase)
	require.Equal(t, int64(16), rep.Memory[100])
}

func TestRunInvalidProgram(t *testing.T) {
	path := writeProgram(t, "1105,1,3,42")
	_, err := runApp(t, "run", "--program", path)
	require.ErrorIs(t, err, machine.ErrUnknownOpcode)
}

func TestRunBadFlags(t *testing.T) {
	path := writeProgram(t, "99")
	_, err := runApp(t, "run", "--program", path, "--io", "tape")
	require.Error(t, err)
	_, err = runApp(t, "run", "--program", path, "--log.level", "loud")
	require.Error(t, err)
	_, err = runApp(t, "run", "--program", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestAmplify(t *testing.T) {
	seq := writeProgram(t, "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")
	fb := writeProgram(t, "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5")

	out, err := runApp(t, "amplify", "--program", seq, "--phases", "4,3,2,1,0")
	require.NoError(t, err)
	require.Equal(t, "43210\n", out)

	out, err = runApp(t, "amplify", "--program", seq)
	require.NoError(t, err)
	require.Equal(t, "43210\n", out)

	out, err = runApp(t, "amplify", "--program", fb, "--feedback", "--phases", "9,8,7,6,5")
	require.NoError(t, err)
	require.Equal(t, "139629729\n", out)

	out, err = runApp(t, "amplify", "--program", fb, "--feedback")
	require.NoError(t, err)
	require.Equal(t, "139629729\n", out)
}

func TestNetwork(t *testing.T) {
	path := writeProgram(t, "3,100,104,255,104,7,104,42,3,101,1105,1,8")
	out, err := runApp(t, "network", "--program", path, "--nodes", "4", "--poll-interval", "1ms")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)

	out, err = runApp(t, "network", "--program", path, "--nodes", "4", "--poll-interval", "1ms", "--nat", "--idle-ticks", "3")
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"trace", "debug", "info", "INFO", "warn", "error", "crit", ""} {
		_, err := ParseLevel(s)
		require.NoError(t, err, s)
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}
