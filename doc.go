/*
Package walkthrough is a chat-style guide that walks a user through installing a
desktop application, verifying each step with a screen capture.

A session is a transcript of messages plus a small sequencer state: the current
step index, the permission gate and a one-shot "fix this typo" detour. Every user
answer is applied under a per-session lock, persisted, and returned to the
caller, so the same Guide can back a terminal loop, an HTTP server or an MCP
server.

# Collaborators

The Guide is assembled from ports, each with in-process defaults:

  - StepCatalog: the ordered steps (default: the LangGraph Studio catalog).
  - Analyzer: turns a frame into assistant text (default: a canned stub).
  - Capturer: acquires a screen stream (default: synthetic PNG frames).
  - SessionStore / ArtifactStore: persistence (default: memory; Redis available).

# Usage

	guide, err := walkthrough.New()
	if err != nil {
		log.Fatal(err)
	}
	defer guide.Shutdown()

	ctx := context.Background()
	sess, _ := guide.Start(ctx)
	sess, _ = guide.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	sess, _ = guide.RespondStep(ctx, sess.ID, domain.StepDone)

	for _, msg := range sess.Transcript.Messages() {
		fmt.Println(msg.Role, msg.Content)
	}
*/
package walkthrough
