package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/presentation/tui"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/runner"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	JSON      bool
	SessionID string

	// Fresh discards any stored session with SessionID before starting.
	Fresh bool

	// Plain disables terminal styling even on a TTY.
	Plain bool

	Stdin  io.Reader
	Stdout io.Writer
}

// RunSession walks one session in the terminal, or over NDJSON in JSON mode.
func RunSession(ctx context.Context, app *App, opts RunOptions) error {
	in, out := opts.Stdin, opts.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	styled := !opts.JSON && !opts.Plain && tui.IsTerminal()

	if opts.Fresh && opts.SessionID != "" {
		if err := app.Store.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		if styled {
			tui.PrintBanner(out, app.Catalog.Title(), strings.TrimSpace(walkthrough.Version))
		}
		handler = runner.NewTextHandler(in, out,
			runner.WithTextHandlerRenderer(tui.NewRenderer(tui.WithPlain(!styled))),
		)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts, runner.WithSessionID(opts.SessionID))
	}

	sess, runErr := runner.NewRunner(app.Guide, runnerOpts...).Run(ctx)
	if !opts.JSON {
		logCompletion(out, sess, runErr)
	}
	return handleExecutionError(runErr)
}
