package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/walkthrough/internal/config"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// NewLogger configures the application logger from cfg.
// Interactive sessions stay quiet unless debug logging was asked for, so log
// lines do not interleave with the transcript.
func NewLogger(cfg config.Config, interactive bool) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if interactive && level > slog.LevelDebug {
		return logging.NewNop(), nil
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.LogFormat), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logCompletion(w io.Writer, sess *domain.Session, err error) {
	switch {
	case sess == nil:
		return
	case sess.State.Completed():
		printSystemMessage(w, "Walkthrough complete. Session '%s'.", sess.ID)
	case err == nil || isInterrupted(err):
		printSystemMessage(w, "Paused at step %d of %d. Resume with --session %s.", sess.State.StepIndex+1, sess.State.StepCount, sess.ID)
	}
}
