package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEndpoint is the OpenAI API base URL.
const DefaultEndpoint = "https://api.openai.com/v1"

// DefaultModel is the vision-capable model used when none is configured.
const DefaultModel = openai.GPT4o

// placeholderKey is the value shipped in sample .env files.
const placeholderKey = "your_openai_api_key_here"

// User-facing texts returned alongside errors.
const (
	NotConfiguredReply = "OpenAI API key not configured. Please add your API key to the .env file."
	InvalidKeyReply    = "Invalid OpenAI API key. Please check your configuration."
	FailedReply        = "Failed to analyze the screenshot. Please try again."
	EmptyReply         = "Unable to analyze the screenshot."
)

const analysisPrompt = "Please analyze this screenshot and describe what you see, focusing on any UI elements, their state, and potential issues or progress in the installation process."

// Remote analyzes frames with an OpenAI-compatible chat completions API.
type Remote struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	client    *http.Client
}

// RemoteOption configures a Remote analyzer.
type RemoteOption func(*Remote)

// WithEndpoint overrides the API base URL, e.g. a local OpenAI-compatible server.
func WithEndpoint(url string) RemoteOption {
	return func(r *Remote) {
		r.endpoint = url
	}
}

// WithModel sets the model name.
func WithModel(model string) RemoteOption {
	return func(r *Remote) {
		r.model = model
	}
}

// WithHTTPClient injects the HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		r.client = c
	}
}

// NewRemote creates a Remote analyzer authenticated with apiKey.
func NewRemote(apiKey string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint:  DefaultEndpoint,
		model:     DefaultModel,
		apiKey:    apiKey,
		maxTokens: 500,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Remote) newClient() *openai.Client {
	cfg := openai.DefaultConfig(r.apiKey)
	cfg.BaseURL = r.endpoint
	cfg.HTTPClient = r.client
	return openai.NewClientWithConfig(cfg)
}

// Analyze implements ports.Analyzer. Every failure returns a user-facing text
// together with an error; misconfiguration and rejected credentials wrap
// domain.ErrAnalysisUnavailable.
func (r *Remote) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	if r.apiKey == "" || r.apiKey == placeholderKey {
		return NotConfiguredReply, fmt.Errorf("%w: api key not configured", domain.ErrAnalysisUnavailable)
	}

	mediaType := req.Frame.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(req.Frame.Data)

	resp, err := r.newClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: analysisPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL,
					Detail: openai.ImageURLDetailAuto,
				}},
			},
		}},
	})
	if err != nil {
		if status := statusCode(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
			return InvalidKeyReply, fmt.Errorf("%w: credential rejected (status %d)", domain.ErrAnalysisUnavailable, status)
		}
		return FailedReply, fmt.Errorf("analysis request failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return EmptyReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// statusCode extracts the HTTP status from SDK errors, or 0.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
