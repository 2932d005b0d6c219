package tui

import (
	"os"
	"strings"

	"github.com/aretw0/walkthrough/pkg/render"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

type rendererConfig struct {
	wordWrap int
	style    string
	plain    bool
}

// RendererOption configures NewRenderer.
type RendererOption func(*rendererConfig)

// WithWordWrap sets the wrap column. Zero disables wrapping.
func WithWordWrap(width int) RendererOption {
	return func(c *rendererConfig) {
		c.wordWrap = width
	}
}

// WithStyle forces a glamour style ("dark", "light", "notty", ...).
func WithStyle(style string) RendererOption {
	return func(c *rendererConfig) {
		c.style = style
	}
}

// WithPlain disables styling; markdown markers are stripped instead.
func WithPlain(plain bool) RendererOption {
	return func(c *rendererConfig) {
		c.plain = plain
	}
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewRenderer returns a function that renders step markdown for the terminal.
// When styling is off, or glamour cannot be initialised, it falls back to plain text.
func NewRenderer(opts ...RendererOption) func(string) (string, error) {
	cfg := rendererConfig{wordWrap: 80, plain: !IsTerminal()}
	for _, opt := range opts {
		opt(&cfg)
	}

	plain := func(markdown string) (string, error) {
		return render.PlainText(markdown), nil
	}
	if cfg.plain {
		return plain
	}

	glamourOpts := []glamour.TermRendererOption{glamour.WithWordWrap(cfg.wordWrap)}
	if cfg.style != "" {
		glamourOpts = append(glamourOpts, glamour.WithStandardStyle(cfg.style))
	} else {
		glamourOpts = append(glamourOpts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(glamourOpts...)
	if err != nil {
		return plain
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}
}
