// Package catalog holds the ordered list of installation steps and the fixed
// conversational texts that frame them.
package catalog

import (
	"fmt"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Catalog is an immutable, ordered sequence of installation steps.
// It implements ports.StepCatalog.
type Catalog struct {
	title            string
	welcome          string
	permissionPrompt string
	completion       string
	steps            []domain.InstallationStep
}

// Option configures a Catalog at construction time.
type Option func(*Catalog)

// WithTitle sets the product name shown in banners and headers.
func WithTitle(title string) Option {
	return func(c *Catalog) {
		c.title = title
	}
}

// WithWelcome sets the first greeting message.
func WithWelcome(text string) Option {
	return func(c *Catalog) {
		c.welcome = text
	}
}

// WithPermissionPrompt sets the message carrying the first permission request.
func WithPermissionPrompt(text string) Option {
	return func(c *Catalog) {
		c.permissionPrompt = text
	}
}

// WithCompletion sets the terminal congratulatory message.
func WithCompletion(text string) Option {
	return func(c *Catalog) {
		c.completion = text
	}
}

// New builds a catalog from the given steps.
// Step ids must be non-empty and unique.
func New(steps []domain.InstallationStep, opts ...Option) (*Catalog, error) {
	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("step %d: empty id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("step %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	c := &Catalog{
		title:            "the application",
		welcome:          "👋 Hello! I'll guide you through each step and verify your progress using screen sharing.",
		permissionPrompt: defaultPermissionPrompt,
		completion:       "🎉 Congratulations! Everything is installed and ready to use. Is there anything else you need help with?",
		steps:            append([]domain.InstallationStep(nil), steps...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StepAt returns the step at index, or false when index is out of range.
func (c *Catalog) StepAt(index int) (domain.InstallationStep, bool) {
	if index < 0 || index >= len(c.steps) {
		return domain.InstallationStep{}, false
	}
	return c.steps[index], true
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Steps returns a copy of all steps in order.
func (c *Catalog) Steps() []domain.InstallationStep {
	return append([]domain.InstallationStep(nil), c.steps...)
}

// Title returns the product name.
func (c *Catalog) Title() string { return c.title }

// Welcome returns the first greeting message.
func (c *Catalog) Welcome() string { return c.welcome }

// PermissionPrompt returns the screen sharing request.
func (c *Catalog) PermissionPrompt() string { return c.permissionPrompt }

// Completion returns the terminal congratulatory message.
func (c *Catalog) Completion() string { return c.completion }

const defaultPermissionPrompt = "To provide better assistance, I'll need to see your screen. This helps me verify each step and provide accurate guidance. Would you like to proceed with screen sharing?"
