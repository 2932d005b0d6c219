// Package analysis provides Analyzer implementations: a canned stub keyed by step
// id and a remote client for an OpenAI-compatible vision endpoint.
package analysis

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// DetourMarker is the substring that identifies the scripted error reply.
// The sequencer keeps the user on the current step when a reply contains it.
const DetourMarker = "space before your OpenAI API key"

// FallbackReply is returned for step ids the stub does not know.
const FallbackReply = "Excellent work! I can see you've completed this step successfully. Let's move on to the next one."

const detourErrorReply = "I notice there's a " + DetourMarker + " in the .env file. The line looks like this:\n\nOPENAI_API_KEY= sk-...\n\nThis will cause issues. Please remove the space after the = sign so it looks like:\n\nOPENAI_API_KEY=sk-...\n\nAfter fixing this, click \"Done\" to proceed."

const detourSuccessReply = "Perfect! I can see all the API keys are properly formatted in your .env file:\n\nOPENAI_API_KEY=sk-...\nANTHROPIC_API_KEY=sk-...\nTAVILY_API_KEY=tvly-...\n\nThe format is correct with no spaces after the equal signs."

// LangGraphReplies are the canned replies for the LangGraph Studio catalog.
var LangGraphReplies = map[string]string{
	"download-langgraph-studio":  "Perfect! I can see the LangGraph Studio .dmg file in your Downloads folder. The download completed successfully. Let's proceed with the installation.",
	"install-docker-or-orbstack": "Great job clicking the Apple menu! I can see the System Settings window is now open. Let's continue with the security settings.",
	"open-system-settings":       "Excellent! The System Settings window is now active. I can see you've navigated there correctly.",
	"open-privacy-security":      "Well done! You've found the Privacy & Security section. I can see all the security options are now visible.",
	"allow-docker":               "Perfect! Docker Desktop is now running - I can see the whale icon in your menu bar. The Docker daemon is active and ready.",
	"open-terminal":              "Great! I can see you've opened Terminal successfully. The command prompt is ready for our next steps.",
	"clone-repo":                 "Excellent work! The git clone command completed successfully. I can see the langgraph-example directory has been created.",
	"navigate-to-repo":           "Perfect! You're now in the correct directory. I can see the terminal prompt shows you're inside langgraph-example.",
	"create-env-file":            "Well done! The .env file has been created successfully. I can see it's now ready for editing.",
	"remove-langsmith-key":       "Great job! I can confirm the LANGSMITH_API_KEY line has been removed from the .env file.",
	"open-dmg":                   "Perfect! I can see the LangGraph Studio installer window is now open.",
	"drag-to-applications":       "Excellent! LangGraph Studio has been successfully moved to your Applications folder.",
	"open-langgraph":             "Well done! LangGraph Studio is now running. I can see the application window.",
	"click-sign-in":              "Perfect! The LangSmith login form is now visible.",
	"enter-credentials":          "Great! You've successfully logged in to LangGraph Studio with your LangSmith account.",
	"open-project":               "Excellent! I can see the file picker dialog is now open.",
	"select-folder":              "Perfect! The langgraph-example project has been successfully loaded.",
	"check-graph":                "Wonderful! I can see the graph visualization is now displayed in the main window.",
}

// Stub is a mocked screenshot analyzer. It never looks at the frame: replies are
// looked up by step id. For the detour step it returns the error reply while the
// request's DetourPending is set, and the success reply otherwise.
//
// Stub holds no mutable state; the detour flag belongs to the session.
type Stub struct {
	replies      map[string]string
	detourStepID string
	detourError  string
	detourOK     string
	fallback     string
}

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithReplies replaces the canned reply table.
func WithReplies(replies map[string]string) StubOption {
	return func(s *Stub) {
		s.replies = replies
	}
}

// WithDetour configures the step that triggers the one-shot error reply.
// errorReply should contain DetourMarker so the sequencer recognizes it.
func WithDetour(stepID, errorReply, successReply string) StubOption {
	return func(s *Stub) {
		s.detourStepID = stepID
		s.detourError = errorReply
		s.detourOK = successReply
	}
}

// WithFallback sets the reply for unknown step ids.
func WithFallback(reply string) StubOption {
	return func(s *Stub) {
		s.fallback = reply
	}
}

// NewStub creates a stub preloaded with the LangGraph Studio replies.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		replies:      LangGraphReplies,
		detourStepID: catalog.DetourStepID,
		detourError:  detourErrorReply,
		detourOK:     detourSuccessReply,
		fallback:     FallbackReply,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze implements ports.Analyzer.
func (s *Stub) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Step.ID == s.detourStepID && s.detourStepID != "" {
		if req.DetourPending {
			return s.detourError, nil
		}
		return s.detourOK, nil
	}
	if reply, ok := s.replies[req.Step.ID]; ok {
		return reply, nil
	}
	return s.fallback, nil
}
