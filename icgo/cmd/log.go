package cmd

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// setupLogger builds the command's logger from the log.level flag. Logs go to
// the app's error writer so stdout only carries results.
func setupLogger(ctx *cli.Context) (log.Logger, error) {
	lvl, err := ParseLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	return Logger(ctx.App.ErrWriter, lvl), nil
}
