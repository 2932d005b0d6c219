/*
Package runner drives a walkthrough session from a terminal or a pipe.

It is the interactive client of a ports.Guide: it prints assistant messages,
maps typed answers onto the response the session currently offers, and
forwards everything else as free text.

# Key Components

  - Runner: the input loop. It stops on completion, exit/quit, EOF or a signal.
  - IOHandler: decouples presentation. TextHandler is for people, JSONHandler
    emits one JSON object per update for scripts.
  - Interpret: resolves "ok", "done", "problem" and their aliases against the
    offered affordance.
  - SanitizeInput: the input policy shared with the HTTP and MCP adapters.

# Usage

	r := runner.NewRunner(guide,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if _, err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
