package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/aretw0/walkthrough/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const stepsURI = "walkthrough://steps"

// SessionResult is the structured output of every session tool.
type SessionResult struct {
	SessionID string                `json:"session_id" jsonschema_description:"The session identifier"`
	State     domain.SequencerState `json:"state" jsonschema_description:"Sequencer state after the call"`
	Completed bool                  `json:"completed" jsonschema_description:"Whether the walkthrough has finished"`
	Messages  []domain.Message      `json:"messages" jsonschema_description:"Messages appended by the call, or the full transcript for get_transcript"`
	Offered   *domain.Action        `json:"offered,omitempty" jsonschema_description:"The response the session currently accepts"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type responseArgs struct {
	SessionID string `mapstructure:"session_id"`
	Response  string `mapstructure:"response"`
}

type messageArgs struct {
	SessionID string `mapstructure:"session_id"`
	Text      string `mapstructure:"text"`
}

// Server exposes a Guide as an MCP server.
type Server struct {
	guide     ports.Guide
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(guide ports.Guide, opts ...Option) *Server {
	s := &Server{
		guide:     guide,
		mcpServer: server.NewMCPServer("walkthrough-mcp", strings.TrimSpace(walkthrough.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a new installation walkthrough. The first reply asks for screen sharing permission."),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("respond_permission",
		mcp.WithDescription("Answer the screen sharing request of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("response", mcp.Required(), mcp.Enum(domain.ActionPermissionRequest.Options()...), mcp.Description("ok or not-ok")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleRespondPermission))

	s.mcpServer.AddTool(mcp.NewTool("respond_step",
		mcp.WithDescription("Confirm the current installation step, or report a problem with it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("response", mcp.Required(), mcp.Enum(domain.ActionStepResponse.Options()...), mcp.Description("done or problem")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleRespondStep))

	s.mcpServer.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send free text to the assistant."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message text")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the full transcript and state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleGetTranscript))

	s.mcpServer.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Close a session and release its screen capture."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), s.handleCloseSession)

	s.mcpServer.AddTool(mcp.NewTool("list_steps",
		mcp.WithDescription("List the installation steps in order."),
	), s.handleListSteps)
}

func (s *Server) handleCloseSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := decodeArgs(request.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.guide.Close(ctx, args.SessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("close failed: %v", err)), nil
	}
	s.logger.Info("MCP session closed", "session_id", args.SessionID)
	return mcp.NewToolResultText("closed " + args.SessionID), nil
}

func (s *Server) handleListSteps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.guide.Steps())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResult, error) {
	sess, err := s.guide.Start(ctx)
	if err != nil {
		return SessionResult{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.Info("MCP session started", "session_id", sess.ID)
	return newResult(sess, 0), nil
}

func (s *Server) handleRespondPermission(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResult, error) {
	var args responseArgs
	if err := decodeArgs(raw, &args); err != nil {
		return SessionResult{}, err
	}
	resp, err := domain.ParsePermissionResponse(args.Response)
	if err != nil {
		return SessionResult{}, err
	}
	return s.transition(ctx, args.SessionID, func() (*domain.Session, error) {
		return s.guide.RespondPermission(ctx, args.SessionID, resp)
	})
}

func (s *Server) handleRespondStep(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResult, error) {
	var args responseArgs
	if err := decodeArgs(raw, &args); err != nil {
		return SessionResult{}, err
	}
	resp, err := domain.ParseStepResponse(args.Response)
	if err != nil {
		return SessionResult{}, err
	}
	return s.transition(ctx, args.SessionID, func() (*domain.Session, error) {
		return s.guide.RespondStep(ctx, args.SessionID, resp)
	})
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResult, error) {
	var args messageArgs
	if err := decodeArgs(raw, &args); err != nil {
		return SessionResult{}, err
	}
	clean, err := runner.SanitizeInput(args.Text)
	if err != nil {
		s.logger.Warn("MCP message rejected", "error", err, "size", len(args.Text))
		return SessionResult{}, fmt.Errorf("input rejected: %w", err)
	}
	if strings.TrimSpace(clean) == "" {
		return SessionResult{}, errors.New("text must not be empty")
	}
	return s.transition(ctx, args.SessionID, func() (*domain.Session, error) {
		return s.guide.SendText(ctx, args.SessionID, clean)
	})
}

func (s *Server) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, raw map[string]interface{}) (SessionResult, error) {
	var args sessionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return SessionResult{}, err
	}
	sess, err := s.guide.Session(ctx, args.SessionID)
	if err != nil {
		return SessionResult{}, err
	}
	return newResult(sess, 0), nil
}

// transition runs fn and reports only the messages it appended.
func (s *Server) transition(ctx context.Context, sessionID string, fn func() (*domain.Session, error)) (SessionResult, error) {
	before, err := s.guide.Session(ctx, sessionID)
	if err != nil {
		return SessionResult{}, err
	}
	sess, err := fn()
	if err != nil {
		return SessionResult{}, err
	}
	return newResult(sess, before.Transcript.Len()), nil
}

func newResult(sess *domain.Session, from int) SessionResult {
	res := SessionResult{
		SessionID: sess.ID,
		State:     sess.State,
		Completed: sess.State.Completed(),
		Messages:  sess.Transcript.Since(from),
	}
	if action, ok := sess.Transcript.LatestAction(); ok && !res.Completed {
		res.Offered = &action
	}
	return res
}

func decodeArgs(raw map[string]interface{}, dst any) error {
	if err := mapstructure.Decode(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if sa, ok := dst.(interface{ sessionID() string }); ok && sa.sessionID() == "" {
		return errors.New("session_id is required")
	}
	return nil
}

func (a *sessionArgs) sessionID() string  { return a.SessionID }
func (a *responseArgs) sessionID() string { return a.SessionID }
func (a *messageArgs) sessionID() string  { return a.SessionID }

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(stepsURI, "Installation steps",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.guide.Steps())
		if err != nil {
			return nil, fmt.Errorf("failed to encode steps: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      stepsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
